// Package clock abstracts wall-clock time and one-shot timers so that
// time-driven code can run against the real clock in production and against a
// manually advanced clock in tests.
//
// # Usage
//
//	c := clock.New()
//	t := c.AfterFunc(time.Minute, func() { fmt.Println("fired at", c.Now()) })
//	defer t.Stop()
//
// Tests use Manual, which only moves when told to:
//
//	m := clock.NewManual(time.Unix(0, 0))
//	m.AfterFunc(time.Second, fn)
//	m.Advance(time.Second) // fn runs here, on the caller's goroutine
//
// # Ordering
//
// Manual.Advance fires due timers one by one in deadline order (creation order
// for equal deadlines). Before each callback runs, Now reports that timer's
// deadline. Timers created by a callback are eligible within the same Advance
// call if their deadline falls inside the advanced window. Callbacks run
// without the clock's lock held, so they may create or stop timers freely.
package clock
