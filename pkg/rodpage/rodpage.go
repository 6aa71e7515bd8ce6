package rodpage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"github.com/dmitrymomot/pagetrack/pkg/dom"
	"github.com/dmitrymomot/pagetrack/pkg/logger"
)

// Page is a dom.Page backed by a browser tab.
type Page struct {
	rt  runtime
	log *slog.Logger

	cancel  context.CancelFunc
	cleanup []func() error

	mu        sync.Mutex
	info      dom.Info
	visible   bool
	clicks    map[string][]func()
	watches   map[string]*watch
	listeners []*listener
	seq       uint64
	closed    bool
}

type listener struct {
	l dom.Listener
}

type watch struct {
	p       *Page
	id      string
	fn      func()
	stopped bool
}

var _ dom.Page = (*Page)(nil)

func newPage(rt runtime, opts ...Option) *Page {
	p := &Page{
		rt:      rt,
		log:     slog.Default(),
		visible: true,
		clicks:  make(map[string][]func()),
		watches: make(map[string]*watch),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.With(logger.Component("rodpage"))
	return p
}

// Attach installs the bridge into page and starts receiving its events.
// The page should already be navigated. The bridge is re-installed on every
// new document. Events stop when ctx is done or Close is called.
func Attach(ctx context.Context, page *rod.Page, opts ...Option) (*Page, error) {
	p := newPage(rodRuntime{page: page}, opts...)

	if err := (proto.RuntimeAddBinding{Name: bindingName}).Call(page); err != nil {
		return nil, fmt.Errorf("add binding: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	wait := page.Context(ctx).EachEvent(func(e *proto.RuntimeBindingCalled) {
		if e.Name == bindingName {
			p.handle(e.Payload)
		}
	})
	go wait()

	remove, err := page.EvalOnNewDocument(bridgeJS)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("install bridge on new documents: %w", err)
	}
	p.cleanup = append(p.cleanup, remove)

	if _, err := page.Eval(installJS()); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("install bridge: %w", err)
	}
	if err := p.Refresh(); err != nil {
		_ = p.Close()
		return nil, err
	}
	return p, nil
}

// Refresh reloads page metadata and visibility from the tab.
func (p *Page) Refresh() error {
	v, err := p.rt.call("info")
	if err != nil {
		return err
	}
	p.setInfo(v)
	return nil
}

// Close detaches the bridge and stops event delivery. Listeners are not
// notified.
func (p *Page) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	var errs []error
	if _, err := p.rt.call("detach"); err != nil {
		errs = append(errs, err)
	}
	for _, fn := range p.cleanup {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	if p.cancel != nil {
		p.cancel()
	}
	return errors.Join(errs...)
}

func (p *Page) Info() dom.Info {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.info
}

func (p *Page) Visible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible
}

func (p *Page) Query(selector string) ([]dom.Element, error) {
	if selector == "" {
		return nil, dom.ErrEmptySelector
	}
	v, err := p.rt.call("query", selector)
	if err != nil {
		return nil, err
	}
	ids := v.Arr()
	els := make([]dom.Element, 0, len(ids))
	for _, id := range ids {
		els = append(els, dom.Element{ID: str(id)})
	}
	return els, nil
}

func (p *Page) OnClick(el dom.Element, fn func()) error {
	v, err := p.rt.call("onClick", el.ID)
	if err != nil {
		return err
	}
	if !v.Bool() {
		return fmt.Errorf("%w: %s", dom.ErrUnknownElement, el.ID)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.clicks[el.ID] = append(p.clicks[el.ID], fn)
	return nil
}

func (p *Page) ObserveIntersection(el dom.Element, threshold float64, fn func()) (dom.Watch, error) {
	if threshold <= 0 || threshold > 1 {
		return nil, dom.ErrInvalidRatio
	}

	p.mu.Lock()
	p.seq++
	w := &watch{p: p, id: fmt.Sprintf("w-%d", p.seq), fn: fn}
	p.watches[w.id] = w
	p.mu.Unlock()

	v, err := p.rt.call("observe", el.ID, threshold, w.id)
	if err == nil && !v.Bool() {
		err = fmt.Errorf("%w: %s", dom.ErrUnknownElement, el.ID)
	}
	if err != nil {
		p.mu.Lock()
		delete(p.watches, w.id)
		p.mu.Unlock()
		return nil, err
	}
	return w, nil
}

func (p *Page) Subscribe(l dom.Listener) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry := &listener{l: l}
	p.listeners = append(p.listeners, entry)
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if idx := slices.Index(p.listeners, entry); idx != -1 {
			p.listeners = slices.Delete(p.listeners, idx, idx+1)
		}
	}
}

func (w *watch) Stop() {
	p := w.p
	p.mu.Lock()
	if w.stopped {
		p.mu.Unlock()
		return
	}
	w.stopped = true
	delete(p.watches, w.id)
	closed := p.closed
	p.mu.Unlock()

	if closed {
		return
	}
	if _, err := p.rt.call("unobserve", w.id); err != nil {
		p.log.Debug("unobserve failed", slog.String("watch", w.id), logger.Error(err))
	}
}

func (p *Page) setInfo(v gson.JSON) {
	info := dom.Info{
		URL:       str(v.Get("url")),
		Referrer:  str(v.Get("referrer")),
		UserAgent: str(v.Get("userAgent")),
		Locale:    str(v.Get("locale")),
		Lang:      str(v.Get("lang")),
		Timezone:  str(v.Get("timezone")),
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.info = info
	if v.Has("visible") {
		p.visible = v.Get("visible").Bool()
	}
}

func (p *Page) listenersLocked() []dom.Listener {
	ls := make([]dom.Listener, 0, len(p.listeners))
	for _, entry := range p.listeners {
		ls = append(ls, entry.l)
	}
	return ls
}
