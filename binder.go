package pagetrack

import (
	"log/slog"

	"github.com/dmitrymomot/pagetrack/pkg/debounce"
	"github.com/dmitrymomot/pagetrack/pkg/dom"
	"github.com/dmitrymomot/pagetrack/pkg/logger"
)

// BindClicks registers click bindings. Every element matching a selector gets
// one debounced handler that sends CLICK with the binding's label and
// selector; an element is never bound twice. Before the first session the
// request is queued and applied once the session starts.
func (t *Tracker) BindClicks(bindings ...Binding) error {
	if err := validateBindings(bindings); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.live() {
		t.queue = append(t.queue, pendingBind{kind: bindClick, bindings: append([]Binding(nil), bindings...)})
		return nil
	}
	t.binder.bindClicks(bindings)
	return nil
}

// BindScrolls registers scroll bindings. SCROLL is sent the first time an
// element matching a selector is half visible, at most once per label and
// session. Scroll watchers are re-attached for every new session.
func (t *Tracker) BindScrolls(bindings ...Binding) error {
	if err := validateBindings(bindings); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.live() {
		t.queue = append(t.queue, pendingBind{kind: bindScroll, bindings: append([]Binding(nil), bindings...)})
		return nil
	}
	t.binder.bindScrolls(bindings)
	return nil
}

type bindKind int

const (
	bindClick bindKind = iota
	bindScroll
)

// pendingBind is a bind request made before a session existed.
type pendingBind struct {
	kind     bindKind
	bindings []Binding
}

func (p pendingBind) apply(b *binder) {
	switch p.kind {
	case bindClick:
		b.bindClicks(p.bindings)
	case bindScroll:
		b.bindScrolls(p.bindings)
	}
}

// binder attaches interaction observers to page elements. It runs under the
// tracker lock.
type binder struct {
	t *Tracker

	clicks  bindingSet
	scrolls bindingSet

	// boundElements holds ids of elements that already have a click handler.
	boundElements map[string]*clickHandler

	// Scroll state, scoped to the current session.
	scrollGen uint64
	watches   []*scrollWatch
	watched   map[scrollKey]struct{}
	scrolled  map[string]struct{}
}

type scrollKey struct {
	binding Binding
	element string
}

func newBinder(t *Tracker) *binder {
	return &binder{
		t:             t,
		boundElements: make(map[string]*clickHandler),
		watched:       make(map[scrollKey]struct{}),
		scrolled:      make(map[string]struct{}),
	}
}

func (b *binder) bindClicks(bindings []Binding) {
	for _, bind := range bindings {
		b.clicks.add(bind)
		for _, el := range b.query(bind) {
			b.bindClick(bind, el)
		}
	}
}

func (b *binder) rebindClicks() {
	b.bindClicks(b.clicks.list())
}

func (b *binder) bindClick(bind Binding, el dom.Element) {
	if _, ok := b.boundElements[el.ID]; ok {
		return
	}
	h := &clickHandler{t: b.t, binding: bind}
	if err := b.t.page.OnClick(el, h.handle); err != nil {
		b.t.log.Debug("click binding skipped", logger.Label(bind.Label), logger.Selector(bind.Selector), logger.Error(err))
		return
	}
	b.boundElements[el.ID] = h
}

func (b *binder) bindScrolls(bindings []Binding) {
	for _, bind := range bindings {
		b.scrolls.add(bind)
		b.attachScroll(bind)
	}
}

func (b *binder) attachScroll(bind Binding) {
	for _, el := range b.query(bind) {
		key := scrollKey{binding: bind, element: el.ID}
		if _, ok := b.watched[key]; ok {
			continue
		}
		sw := &scrollWatch{b: b, binding: bind, gen: b.scrollGen}
		w, err := b.t.page.ObserveIntersection(el, b.t.settings.ScrollThreshold, sw.handle)
		if err != nil {
			b.t.log.Debug("scroll binding skipped", logger.Label(bind.Label), logger.Selector(bind.Selector), logger.Error(err))
			continue
		}
		sw.watch = w
		b.watched[key] = struct{}{}
		b.watches = append(b.watches, sw)
	}
}

// startSession abandons scroll watchers of the previous session and
// re-attaches every scroll binding.
func (b *binder) startSession() {
	b.stopWatches()
	b.scrolled = make(map[string]struct{})
	for _, bind := range b.scrolls.list() {
		b.attachScroll(bind)
	}
}

func (b *binder) stopWatches() {
	b.scrollGen++
	for _, sw := range b.watches {
		sw.stop()
	}
	b.watches = nil
	b.watched = make(map[scrollKey]struct{})
}

// cleanup forgets bindings whose selector matches nothing on the page.
func (b *binder) cleanup() {
	matches := func(bind Binding) bool {
		els, err := b.t.page.Query(bind.Selector)
		return err == nil && len(els) > 0
	}
	b.clicks.retain(matches)
	b.scrolls.retain(matches)
}

func (b *binder) query(bind Binding) []dom.Element {
	els, err := b.t.page.Query(bind.Selector)
	if err != nil {
		b.t.log.Debug("selector query failed", logger.Selector(bind.Selector), logger.Error(err))
		return nil
	}
	return els
}

// clickHandler debounces clicks on one element.
type clickHandler struct {
	t       *Tracker
	binding Binding
	d       *debounce.Debouncer[Binding]
}

func (h *clickHandler) handle() {
	t := h.t
	t.mu.Lock()
	defer t.mu.Unlock()

	// A flush finalizes the debouncer; later clicks need a fresh one.
	if h.d == nil || h.d.Finalized() {
		h.d = debounce.New(t.sendClick, t.settings.DebounceDelay,
			debounce.WithClock(t.clock),
			debounce.WithRegistry(t.registry),
		)
	}
	h.d.Schedule(h.binding)
}

// sendClick runs from a debounce timer or a registry flush, both under the
// tracker lock.
func (t *Tracker) sendClick(bind Binding) {
	if err := t.emit(EventClick, nil, bind.Label, bind.Selector); err != nil {
		t.log.Debug("click not sent", logger.Label(bind.Label), logger.Error(err))
	}
}

// scrollWatch observes one element for one binding within one session.
type scrollWatch struct {
	b       *binder
	binding Binding
	gen     uint64
	watch   dom.Watch
	stopped bool
}

func (sw *scrollWatch) handle() {
	t := sw.b.t
	t.mu.Lock()
	defer t.mu.Unlock()

	if sw.stopped {
		return
	}
	sw.stop()
	if sw.gen != sw.b.scrollGen {
		return
	}

	label := sw.binding.Label
	if _, done := sw.b.scrolled[label]; done {
		return
	}
	if err := t.emit(EventScroll, nil, label, sw.binding.Selector); err != nil {
		t.log.Debug("scroll not sent", logger.Label(label), logger.Error(err))
		return
	}
	sw.b.scrolled[label] = struct{}{}
	t.log.Debug("element scrolled into view", logger.Label(label), slog.String("selector", sw.binding.Selector))
}

func (sw *scrollWatch) stop() {
	if sw.stopped {
		return
	}
	sw.stopped = true
	if sw.watch != nil {
		sw.watch.Stop()
	}
}
