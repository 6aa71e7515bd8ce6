package rodpage

import (
	"log/slog"
	"slices"

	"github.com/ysmood/gson"

	"github.com/dmitrymomot/pagetrack/pkg/dom"
)

// Bridge message types.
const (
	msgReady      = "ready"
	msgNavigate   = "navigate"
	msgClick      = "click"
	msgIntersect  = "intersect"
	msgActivity   = "activity"
	msgVisibility = "visibility"
	msgUnload     = "unload"
)

// handle dispatches one bridge message. Callbacks run without p.mu held.
func (p *Page) handle(payload string) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return
	}

	msg := gson.NewFrom(payload)
	typ := str(msg.Get("type"))

	switch typ {
	case msgReady, msgNavigate:
		p.setInfo(msg.Get("info"))

	case msgClick:
		p.mu.Lock()
		handlers := slices.Clone(p.clicks[str(msg.Get("id"))])
		p.mu.Unlock()
		for _, fn := range handlers {
			fn()
		}

	case msgIntersect:
		p.mu.Lock()
		w, ok := p.watches[str(msg.Get("watch"))]
		p.mu.Unlock()
		if ok {
			w.fn()
		}

	case msgActivity:
		signal := str(msg.Get("signal"))
		for _, l := range p.snapshotListeners() {
			l.Activity(signal)
		}

	case msgVisibility:
		visible := msg.Get("visible").Bool()
		p.mu.Lock()
		changed := p.visible != visible
		p.visible = visible
		ls := p.listenersLocked()
		p.mu.Unlock()
		if !changed {
			return
		}
		for _, l := range ls {
			l.VisibilityChanged(visible)
		}

	case msgUnload:
		for _, l := range p.snapshotListeners() {
			l.Unload()
		}

	default:
		p.log.Debug("unknown bridge message", slog.String("type", typ))
	}
}

func (p *Page) snapshotListeners() []dom.Listener {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.listenersLocked()
}

// str returns j as a string, or "" when it is not one.
func str(j gson.JSON) string {
	s, _ := j.Val().(string)
	return s
}
