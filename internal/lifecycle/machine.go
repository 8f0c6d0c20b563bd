// Package lifecycle implements the window's message-driven state machine.
// Transition is pure; Machine is the single process-wide record that holds
// the current state between window procedure calls.
package lifecycle

import (
	"sync"

	"github.com/eliteGoblin/focusd/hello_gate/internal/domain"
)

// Phase is the coarse lifecycle state.
type Phase int

const (
	PhaseRunning Phase = iota
	// PhaseTerminating is absorbing: the loop has been asked to quit.
	PhaseTerminating
)

func (p Phase) String() string {
	if p == PhaseTerminating {
		return "terminating"
	}
	return "running"
}

// State is the lifecycle state plus the pending exit code.
type State struct {
	Phase    Phase
	ExitCode int
}

// Running is the initial state.
func Running() State {
	return State{Phase: PhaseRunning}
}

// Terminating returns the terminal state carrying code.
func Terminating(code int) State {
	return State{Phase: PhaseTerminating, ExitCode: code}
}

// ActionKind is what the window procedure must do with a message.
type ActionKind int

const (
	// ActionDefault forwards the message to the platform default procedure.
	ActionDefault ActionKind = iota
	// ActionHandled consumes the message; nothing else happens.
	ActionHandled
	// ActionQuit asks the message loop to exit with Action.ExitCode.
	ActionQuit
)

func (k ActionKind) String() string {
	switch k {
	case ActionHandled:
		return "handled"
	case ActionQuit:
		return "quit"
	default:
		return "default"
	}
}

// Action is the platform side effect chosen for one message.
type Action struct {
	Kind     ActionKind
	ExitCode int
}

// Transition maps (state, message) to the next state and the action to perform.
// Only MsgVerified, MsgRejected and MsgDestroy are special-cased.
func Transition(s State, msg domain.MessageID) (State, Action) {
	switch msg {
	case domain.MsgVerified, domain.MsgRejected, domain.MsgDestroy:
	default:
		return s, Action{Kind: ActionDefault}
	}

	if s.Phase == PhaseTerminating {
		return s, Action{Kind: ActionHandled}
	}

	switch msg {
	case domain.MsgRejected:
		return Terminating(domain.ExitRejected), Action{Kind: ActionQuit, ExitCode: domain.ExitRejected}
	case domain.MsgDestroy:
		return Terminating(domain.ExitOK), Action{Kind: ActionQuit, ExitCode: domain.ExitOK}
	default:
		return s, Action{Kind: ActionHandled}
	}
}

// Machine holds the lifecycle state for the lifetime of the message loop.
type Machine struct {
	mu     sync.Mutex
	state  State
	closed bool
}

// NewMachine creates a machine in the Running state.
func NewMachine() *Machine {
	return &Machine{state: Running()}
}

// Handle applies msg and returns the action to perform.
// After Close every message maps to ActionDefault and the state is frozen.
func (m *Machine) Handle(msg domain.MessageID) Action {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return Action{Kind: ActionDefault}
	}

	next, action := Transition(m.state, msg)
	m.state = next
	return action
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Close tears the record down once the message loop has exited.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

// Closed reports whether Close was called.
func (m *Machine) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
