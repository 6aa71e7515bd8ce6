package rodpage

import (
	_ "embed"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/ysmood/gson"
)

//go:embed bridge.js
var bridgeJS string

// bindingName is the CDP binding the bridge reports through.
const bindingName = "__pagetrack_bridge"

// runtime calls methods of the in-page bridge.
type runtime interface {
	call(method string, args ...any) (gson.JSON, error)
}

type rodRuntime struct {
	page *rod.Page
}

const callJS = `(method, ...args) => window.__pagetrack[method](...args)`

func (r rodRuntime) call(method string, args ...any) (gson.JSON, error) {
	res, err := r.page.Eval(callJS, append([]any{method}, args...)...)
	if err != nil {
		return gson.JSON{}, fmt.Errorf("bridge %s: %w", method, err)
	}
	return res.Value, nil
}

// installJS wraps the bridge script for Page.Eval, which expects a function.
func installJS() string {
	return "() => {\n" + bridgeJS + "\n}"
}
