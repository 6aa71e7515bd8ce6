package lifecycle

import "sync"

// Phase is a session lifecycle phase.
type Phase string

const (
	Uninitialized Phase = "uninitialized"
	Active        Phase = "active"
	Resetting     Phase = "resetting"
	Terminated    Phase = "terminated"
)

func (p Phase) String() string { return string(p) }

// Trigger moves a session from one phase to another.
type Trigger string

const (
	Init      Trigger = "init"
	Reset     Trigger = "reset"
	Resume    Trigger = "resume"
	Terminate Trigger = "terminate"
)

func (t Trigger) String() string { return string(t) }

// Observer is notified after each successful transition.
type Observer func(from, to Phase, trigger Trigger)

// Option configures a Machine.
type Option func(*Machine)

// WithObserver registers fn to run after every transition. Nil is ignored.
func WithObserver(fn Observer) Option {
	return func(m *Machine) {
		if fn != nil {
			m.observers = append(m.observers, fn)
		}
	}
}

// Machine tracks the current phase of one page session.
// It is safe for concurrent use.
type Machine struct {
	mu          sync.RWMutex
	current     Phase
	transitions map[Phase]map[Trigger]Phase
	observers   []Observer
}

// New creates a machine in the Uninitialized phase.
func New(opts ...Option) *Machine {
	m := &Machine{
		current: Uninitialized,
		transitions: map[Phase]map[Trigger]Phase{
			Uninitialized: {Init: Active},
			Active:        {Reset: Resetting, Terminate: Terminated},
			Resetting:     {Resume: Active},
			Terminated:    {Init: Active},
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Current returns the current phase.
func (m *Machine) Current() Phase {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Is reports whether the machine is in phase p.
func (m *Machine) Is(p Phase) bool {
	return m.Current() == p
}

// CanFire reports whether t is valid in the current phase.
func (m *Machine) CanFire(t Trigger) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.transitions[m.current][t]
	return ok
}

// Fire applies t to the current phase.
func (m *Machine) Fire(t Trigger) error {
	m.mu.Lock()
	from := m.current
	to, ok := m.transitions[from][t]
	if !ok {
		m.mu.Unlock()
		return &TransitionError{Phase: from, Trigger: t}
	}
	m.current = to
	observers := m.observers
	m.mu.Unlock()

	for _, fn := range observers {
		fn(from, to, t)
	}
	return nil
}
