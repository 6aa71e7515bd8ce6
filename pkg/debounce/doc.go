// Package debounce delays an action until calls to it have been quiet for a
// fixed period, coalescing bursts into a single invocation with the most
// recent argument.
//
// # Lifecycle
//
// A Debouncer starts idle. Schedule arms a timer; every further Schedule
// inside the delay window restarts it and replaces the stored argument. When
// the timer expires the action runs once and the debouncer settles back to
// idle, ready for the next burst.
//
// Trigger and Dispose are terminal. Trigger runs the pending action right away
// (or does nothing when nothing is pending); Dispose drops it. Either way the
// debouncer is finalized and ignores every later call.
//
// # Registry
//
// A Registry tracks debouncers that have a pending action. FlushAll triggers
// all of them in the order they were first scheduled, which is how pending
// interaction events are saved before a page is hidden or closed:
//
//	reg := debounce.NewRegistry()
//	d := debounce.New(func(label string) { send(label) }, 500*time.Millisecond,
//	    debounce.WithRegistry(reg),
//	)
//	d.Schedule("ADD_TO_CART")
//	reg.FlushAll() // send("ADD_TO_CART") runs now
//
// Debouncers join the registry on Schedule and leave it when they fire, are
// triggered or are disposed.
//
// # Concurrency
//
// All methods are safe for concurrent use. Actions run without internal locks
// held, so an action may schedule, trigger or flush other debouncers. Timer
// callbacks that lose a race against Schedule, Trigger or Dispose are dropped.
package debounce
