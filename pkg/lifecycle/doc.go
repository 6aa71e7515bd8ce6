// Package lifecycle models the phases a page session moves through.
//
// A session starts Uninitialized, becomes Active on Init, passes through
// Resetting while a reset is in progress and ends Terminated when the page
// unloads or a new session supersedes it. A terminated page may be
// initialized again.
//
//	Uninitialized --Init--> Active --Reset--> Resetting --Resume--> Active
//	                        Active --Terminate--> Terminated --Init--> Active
//
// # Architecture
//
// Machine keeps the transition table in a nested map keyed by phase and
// trigger for constant-time lookups. Observers registered with
// WithObserver run after every successful transition with the machine's
// lock released, so an observer may read Current.
//
// # Usage
//
//	m := lifecycle.New(lifecycle.WithObserver(func(from, to lifecycle.Phase, t lifecycle.Trigger) {
//	    log.Info("session phase changed", "from", from, "to", to, "trigger", t)
//	}))
//	if err := m.Fire(lifecycle.Init); err != nil {
//	    // unreachable from Uninitialized
//	}
//	m.Is(lifecycle.Active) // true
//
// # Error Handling
//
// Fire returns a *TransitionError when the current phase has no transition
// for the trigger. It matches ErrNoTransition with errors.Is:
//
//	if errors.Is(err, lifecycle.ErrNoTransition) { /* ... */ }
package lifecycle
