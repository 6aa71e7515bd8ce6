package pagetrack

import (
	"time"

	"github.com/dmitrymomot/pagetrack/pkg/clock"
	"github.com/dmitrymomot/pagetrack/pkg/logger"
)

// idleMonitor decides when inactivity or a long absence from the tab ends a
// session. All methods run under the tracker lock.
type idleMonitor struct {
	t *Tracker

	lastActivityAt time.Time
	// lastTabExitAt is zero until the tab is hidden during the current session.
	lastTabExitAt time.Time
	timer         clock.Timer
	// gen invalidates timers armed before the latest restart, stop or re-arm.
	gen       uint64
	onVisible []func() error
}

// restart resets bookkeeping for a new session and arms the idle timer.
func (m *idleMonitor) restart(now time.Time) {
	m.lastActivityAt = now
	m.lastTabExitAt = time.Time{}
	m.onVisible = nil
	m.arm(m.t.cfg.IdleTime)
}

func (m *idleMonitor) stop() {
	m.disarm()
	m.onVisible = nil
}

// whenVisible runs fn now if the page is visible, otherwise once on the next
// transition to visible within the current session.
func (m *idleMonitor) whenVisible(fn func() error) error {
	if m.t.page.Visible() {
		return fn()
	}
	m.onVisible = append(m.onVisible, fn)
	return nil
}

func (m *idleMonitor) activity(now time.Time) {
	m.lastActivityAt = now
	m.arm(m.t.cfg.IdleTime)
}

func (m *idleMonitor) hidden(now time.Time) {
	t := m.t
	m.lastTabExitAt = now
	m.disarm()
	t.logEmitError(EventTabSwitch, t.emit(EventTabSwitch, nil, LabelExit, ""))
	t.registry.FlushAll()
}

func (m *idleMonitor) visible(now time.Time) {
	t := m.t
	pending := m.onVisible
	m.onVisible = nil
	if len(pending) > 0 {
		// First reveal of a page that started hidden counts as a return.
		m.lastTabExitAt = now
	}
	for _, fn := range pending {
		if err := fn(); err != nil {
			t.log.Warn("deferred page announcement failed", logger.Error(err))
		}
	}

	if !m.lastTabExitAt.IsZero() {
		away := now.Sub(m.lastTabExitAt)
		m.lastTabExitAt = time.Time{}
		if away >= t.cfg.IdleTime {
			t.log.Debug("tab away past idle time, resetting session", logger.Duration(away))
			t.logEmitError(EventPageView, t.reset())
			return
		}
		t.logEmitError(EventTabSwitch, t.emit(EventTabSwitch, nil, LabelReturn, ""))
	}
	m.activity(now)
}

// arm replaces any pending idle timer with one firing after d. Nothing is
// armed while the page is hidden.
func (m *idleMonitor) arm(d time.Duration) {
	m.disarm()
	if !m.t.page.Visible() {
		return
	}
	gen := m.gen
	m.timer = m.t.clock.AfterFunc(d, func() { m.fire(gen) })
}

func (m *idleMonitor) disarm() {
	m.gen++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *idleMonitor) fire(gen uint64) {
	t := m.t
	if gen != m.gen || !t.live() {
		return
	}
	m.timer = nil
	if !t.page.Visible() {
		return
	}

	idle := t.cfg.IdleTime
	elapsed := t.clock.Now().Sub(m.lastActivityAt)
	if elapsed < idle {
		m.arm(idle - elapsed)
		return
	}

	value := float64(idle.Milliseconds())
	t.logEmitError(EventIdle, t.emit(EventIdle, &value, "", ""))
	t.logEmitError(EventPageView, t.reset())
}
