package pagetrack

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/pagetrack/pkg/clock"
	"github.com/dmitrymomot/pagetrack/pkg/content"
	"github.com/dmitrymomot/pagetrack/pkg/debounce"
	"github.com/dmitrymomot/pagetrack/pkg/dom"
	"github.com/dmitrymomot/pagetrack/pkg/ident"
	"github.com/dmitrymomot/pagetrack/pkg/lifecycle"
	"github.com/dmitrymomot/pagetrack/pkg/logger"
)

// Tracker owns the tracking state of one page: configuration, the current
// session, the idle monitor, interaction bindings and the debounce registry.
// All methods are safe for concurrent use; page callbacks and timers are
// serialized with them.
type Tracker struct {
	mu sync.Mutex

	page         dom.Page
	transport    Transport
	loader       ContentLoader
	baseClock    clock.Clock
	clock        clock.Clock
	log          *slog.Logger
	settings     Settings
	newSessionID func() string

	phase    *lifecycle.Machine
	registry *debounce.Registry
	monitor  *idleMonitor
	binder   *binder

	cfg          PageConfig
	devMode      bool
	session      *Session
	queue        []pendingBind
	unsubscribe  func()
	rawSelectors []content.Selector
	selectors    map[string]string
}

// New creates a tracker for page that sends events through transport.
func New(page dom.Page, transport Transport, opts ...Option) *Tracker {
	t := &Tracker{
		page:         page,
		transport:    transport,
		baseClock:    clock.New(),
		log:          slog.Default(),
		settings:     DefaultSettings(),
		newSessionID: ident.NewSessionID,
		registry:     debounce.NewRegistry(),
	}
	for _, opt := range opts {
		opt(t)
	}
	base := t.log
	t.log = t.log.With(logger.Component("pagetrack"))
	t.clock = lockedClock{Clock: t.baseClock, mu: &t.mu}
	t.phase = lifecycle.New(lifecycle.WithObserver(func(from, to lifecycle.Phase, trigger lifecycle.Trigger) {
		t.log.Debug("session phase changed",
			slog.String("from", from.String()),
			logger.Phase(to.String()),
			slog.String("trigger", trigger.String()),
		)
	}))
	t.monitor = &idleMonitor{t: t}
	t.binder = newBinder(t)
	if t.loader == nil && t.settings.ContentEndpoint != "" {
		loaderOpts := []content.Option{
			content.WithOptOutMarker(t.settings.OptOutMarker),
			content.WithLogger(base),
		}
		if t.settings.SanitizeContent {
			loaderOpts = append(loaderOpts, content.WithSanitizer(nil))
		}
		t.loader = content.NewLoader(t.settings.ContentEndpoint, loaderOpts...)
	}
	return t
}

// InitPageSession starts a session for the page with cfg, replacing the
// active one if any. The superseded session is terminated first: pending
// interactions are flushed and PAGE_EXIT is sent.
//
// PAGE_VIEW("INIT") and, on product pages with a content-serving id,
// CONTENT_SERVED are sent right away when the page is visible, otherwise on
// its next transition to visible. Bindings requested before the session
// existed are applied afterwards.
//
// An opted-out page yields ErrOptedOut and nothing else happens.
func (t *Tracker) InitPageSession(cfg PageConfig) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	info := t.page.Info()
	if info.HasMarker(t.settings.OptOutMarker) {
		t.log.Info("tracking disabled by opt-out marker", slog.String("marker", t.settings.OptOutMarker))
		return ErrOptedOut
	}

	cfg = cfg.normalized(t.settings.AnalyticsEndpoint)
	if cfg.DeviceID == "" {
		return ErrMissingDeviceID
	}
	if cfg.AnalyticsEndpoint == "" {
		return ErrMissingEndpoint
	}

	if t.live() {
		t.logEmitError(EventPageExit, t.terminate())
	}

	t.cfg = cfg
	t.devMode = info.HasMarker(t.settings.DevMarker)
	if t.devMode {
		t.log.Info("developer mode enabled", logger.DeviceID(cfg.DeviceID))
	}
	t.binder.cleanup()

	if err := t.phase.Fire(lifecycle.Init); err != nil {
		return err
	}
	if t.unsubscribe == nil {
		t.unsubscribe = t.page.Subscribe(pageListener{t: t})
	}

	err := t.startSession(LabelInit)
	t.binder.rebindClicks()

	queue := t.queue
	t.queue = nil
	for _, item := range queue {
		item.apply(t.binder)
	}
	return err
}

// ResetSession replaces the active session with a fresh one on the same page
// configuration and announces it with PAGE_VIEW("RESET").
func (t *Tracker) ResetSession() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reset()
}

// Terminate ends the active session: pending interactions are flushed and
// PAGE_EXIT is sent. It is a no-op without an active session.
func (t *Tracker) Terminate() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.terminate()
}

// Close terminates the session and stops listening to the page.
func (t *Tracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	err := t.terminate()
	if t.unsubscribe != nil {
		t.unsubscribe()
		t.unsubscribe = nil
	}
	return err
}

// Session returns a snapshot of the current session. ok is false before the
// first InitPageSession.
func (t *Tracker) Session() (s Session, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session == nil {
		return Session{}, false
	}
	return *t.session, true
}

// Phase returns the session lifecycle phase.
func (t *Tracker) Phase() lifecycle.Phase {
	return t.phase.Current()
}

// Config returns the normalized configuration of the current page session.
func (t *Tracker) Config() PageConfig {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cfg
}

// Bindings returns the registered click and scroll bindings.
func (t *Tracker) Bindings() (clicks, scrolls []Binding) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.binder.clicks.list(), t.binder.scrolls.list()
}

// live reports whether events may be emitted.
func (t *Tracker) live() bool {
	if t.session == nil {
		return false
	}
	p := t.phase.Current()
	return p == lifecycle.Active || p == lifecycle.Resetting
}

// startSession replaces the session and schedules its announcement.
// The returned error is the announcement's when it ran synchronously.
func (t *Tracker) startSession(label string) error {
	now := t.clock.Now()
	t.session = &Session{ID: t.newSessionID(), StartedAt: now}
	t.monitor.restart(now)
	t.binder.startSession()

	t.log.Debug("session started", logger.SessionID(t.session.ID), logger.Label(label))
	return t.monitor.whenVisible(func() error { return t.announce(label) })
}

// announce sends PAGE_VIEW once per session and CONTENT_SERVED once after it
// when the page serves content.
func (t *Tracker) announce(label string) error {
	if !t.session.PageViewSent {
		if err := t.emit(EventPageView, nil, label, ""); err != nil {
			return err
		}
		t.session.PageViewSent = true
	}
	if !t.session.ContentServed && t.cfg.servesContent() {
		if err := t.emit(EventContentServed, nil, "", ""); err != nil {
			return err
		}
		t.session.ContentServed = true
	}
	return nil
}

func (t *Tracker) reset() error {
	if !t.phase.Is(lifecycle.Active) {
		return ErrNoSession
	}
	t.registry.FlushAll()
	if err := t.phase.Fire(lifecycle.Reset); err != nil {
		return err
	}
	err := t.startSession(LabelReset)
	if ferr := t.phase.Fire(lifecycle.Resume); ferr != nil {
		return ferr
	}
	return err
}

func (t *Tracker) terminate() error {
	if !t.phase.Is(lifecycle.Active) {
		return nil
	}
	flushed := t.registry.FlushAll()

	var err error
	if !t.session.PageExitSent {
		if err = t.emit(EventPageExit, nil, "", ""); err == nil {
			t.session.PageExitSent = true
		}
	}
	t.monitor.stop()
	t.binder.stopWatches()
	if ferr := t.phase.Fire(lifecycle.Terminate); ferr != nil {
		return ferr
	}
	t.log.Debug("session terminated",
		logger.SessionID(t.session.ID),
		slog.Int("flushed", flushed),
		logger.Error(err),
	)
	return err
}

func (t *Tracker) logEmitError(typ EventType, err error) {
	if err != nil {
		t.log.Warn("analytics event not sent", logger.EventType(string(typ)), logger.Error(err))
	}
}

// pageListener receives page-global notifications.
type pageListener struct {
	t *Tracker
}

func (l pageListener) Activity(string) {
	t := l.t
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.live() {
		t.monitor.activity(t.clock.Now())
	}
}

func (l pageListener) VisibilityChanged(visible bool) {
	t := l.t
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.live() {
		return
	}
	if visible {
		t.monitor.visible(t.clock.Now())
	} else {
		t.monitor.hidden(t.clock.Now())
	}
}

func (l pageListener) Unload() {
	t := l.t
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logEmitError(EventPageExit, t.terminate())
}

// lockedClock runs timer callbacks under the tracker lock so they are
// serialized with every other entry point.
type lockedClock struct {
	clock.Clock
	mu *sync.Mutex
}

func (c lockedClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	return c.Clock.AfterFunc(d, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		f()
	})
}
