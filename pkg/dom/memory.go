package dom

import (
	"fmt"
	"slices"
	"sync"
)

// Memory is an in-memory Page driven by explicit method calls.
// Callbacks run synchronously on the goroutine that drives the page,
// after the page's lock is released.
type Memory struct {
	mu        sync.Mutex
	info      Info
	visible   bool
	seq       int
	selectors map[string][]Element
	clicks    map[string][]func()
	watches   map[string][]*memoryWatch
	listeners []*memoryListener
}

type memoryWatch struct {
	page      *Memory
	el        Element
	threshold float64
	fn        func()
	stopped   bool
}

type memoryListener struct {
	l Listener
}

// NewMemory creates a visible page with the given metadata.
func NewMemory(info Info) *Memory {
	return &Memory{
		info:      info,
		visible:   true,
		selectors: make(map[string][]Element),
		clicks:    make(map[string][]func()),
		watches:   make(map[string][]*memoryWatch),
	}
}

func (m *Memory) Info() Info {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.info
}

// SetInfo replaces the page metadata, as a navigation would.
func (m *Memory) SetInfo(info Info) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.info = info
}

func (m *Memory) Visible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible
}

// AddElement creates a new element matched by selector.
func (m *Memory) AddElement(selector string) Element {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	el := Element{ID: fmt.Sprintf("el-%d", m.seq)}
	m.selectors[selector] = append(m.selectors[selector], el)
	return el
}

// Match makes an existing element also match selector.
func (m *Memory) Match(selector string, el Element) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !slices.Contains(m.selectors[selector], el) {
		m.selectors[selector] = append(m.selectors[selector], el)
	}
}

// RemoveSelector makes selector match nothing.
func (m *Memory) RemoveSelector(selector string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.selectors, selector)
}

func (m *Memory) Query(selector string) ([]Element, error) {
	if selector == "" {
		return nil, ErrEmptySelector
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.selectors[selector]), nil
}

func (m *Memory) OnClick(el Element, fn func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.knownLocked(el) {
		return fmt.Errorf("%w: %s", ErrUnknownElement, el.ID)
	}
	m.clicks[el.ID] = append(m.clicks[el.ID], fn)
	return nil
}

func (m *Memory) ObserveIntersection(el Element, threshold float64, fn func()) (Watch, error) {
	if threshold <= 0 || threshold > 1 {
		return nil, ErrInvalidRatio
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.knownLocked(el) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownElement, el.ID)
	}
	w := &memoryWatch{page: m, el: el, threshold: threshold, fn: fn}
	m.watches[el.ID] = append(m.watches[el.ID], w)
	return w, nil
}

func (m *Memory) Subscribe(l Listener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	ml := &memoryListener{l: l}
	m.listeners = append(m.listeners, ml)
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if idx := slices.Index(m.listeners, ml); idx != -1 {
			m.listeners = slices.Delete(m.listeners, idx, idx+1)
		}
	}
}

// Click simulates a user click on el: click handlers run, then listeners
// receive the click activity signal.
func (m *Memory) Click(el Element) {
	m.mu.Lock()
	handlers := slices.Clone(m.clicks[el.ID])
	m.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
	m.Activity(Click)
}

// ScrollIntoView simulates el becoming visible by ratio of its area:
// intersection callbacks whose threshold is reached run, then listeners
// receive the scroll activity signal.
func (m *Memory) ScrollIntoView(el Element, ratio float64) {
	m.mu.Lock()
	var due []*memoryWatch
	for _, w := range m.watches[el.ID] {
		if !w.stopped && ratio >= w.threshold {
			due = append(due, w)
		}
	}
	m.mu.Unlock()

	for _, w := range due {
		if !w.isStopped() {
			w.fn()
		}
	}
	m.Activity(Scroll)
}

// SetVisible changes document visibility and notifies listeners when the
// state actually changes.
func (m *Memory) SetVisible(visible bool) {
	m.mu.Lock()
	if m.visible == visible {
		m.mu.Unlock()
		return
	}
	m.visible = visible
	ls := m.listenersLocked()
	m.mu.Unlock()

	for _, l := range ls {
		l.VisibilityChanged(visible)
	}
}

// Activity delivers a user-activity signal to listeners.
func (m *Memory) Activity(signal string) {
	m.mu.Lock()
	ls := m.listenersLocked()
	m.mu.Unlock()

	for _, l := range ls {
		l.Activity(signal)
	}
}

// Unload notifies listeners that the page is going away.
func (m *Memory) Unload() {
	m.mu.Lock()
	ls := m.listenersLocked()
	m.mu.Unlock()

	for _, l := range ls {
		l.Unload()
	}
}

// ClickHandlers returns the number of click handlers attached to el.
func (m *Memory) ClickHandlers(el Element) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clicks[el.ID])
}

// ActiveWatches returns the number of unstopped intersection watches on el.
func (m *Memory) ActiveWatches(el Element) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, w := range m.watches[el.ID] {
		if !w.stopped {
			n++
		}
	}
	return n
}

// Listeners returns the number of subscribed listeners.
func (m *Memory) Listeners() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listeners)
}

func (m *Memory) knownLocked(el Element) bool {
	for _, els := range m.selectors {
		if slices.Contains(els, el) {
			return true
		}
	}
	return false
}

func (m *Memory) listenersLocked() []Listener {
	ls := make([]Listener, len(m.listeners))
	for i, ml := range m.listeners {
		ls[i] = ml.l
	}
	return ls
}

func (w *memoryWatch) Stop() {
	m := w.page
	m.mu.Lock()
	defer m.mu.Unlock()
	if w.stopped {
		return
	}
	w.stopped = true
	ws := m.watches[w.el.ID]
	if idx := slices.Index(ws, w); idx != -1 {
		m.watches[w.el.ID] = slices.Delete(ws, idx, idx+1)
	}
}

func (w *memoryWatch) isStopped() bool {
	w.page.mu.Lock()
	defer w.page.mu.Unlock()
	return w.stopped
}
