// Package page holds the small state machine every form page follows:
// fetch, show, edit, submit.
package page

import "github.com/pkg/errors"

type State int

const (
	Loading State = iota
	Unregistered
	View
	Edit
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Unregistered:
		return "unregistered"
	case View:
		return "view"
	case Edit:
		return "edit"
	case Failed:
		return "failed"
	}
	return "unknown"
}

type Event int

const (
	Loaded Event = iota
	LoadedUnregistered
	LoadFailed
	StartEdit
	SubmitInvalid
	SubmitSucceeded
	SubmitFailed
)

func (e Event) String() string {
	switch e {
	case Loaded:
		return "loaded"
	case LoadedUnregistered:
		return "loaded unregistered"
	case LoadFailed:
		return "load failed"
	case StartEdit:
		return "edit"
	case SubmitInvalid:
		return "submit invalid"
	case SubmitSucceeded:
		return "submit succeeded"
	case SubmitFailed:
		return "submit failed"
	}
	return "unknown"
}

var transitions = map[State]map[Event]State{
	Loading: {
		Loaded:             View,
		LoadedUnregistered: Unregistered,
		LoadFailed:         Failed,
	},
	Unregistered: {
		StartEdit:       Edit,
		SubmitInvalid:   Edit,
		SubmitSucceeded: View,
		SubmitFailed:    Failed,
	},
	View: {
		StartEdit:    Edit,
		SubmitFailed: Failed,
	},
	Edit: {
		SubmitInvalid:   Edit,
		SubmitSucceeded: View,
		SubmitFailed:    Failed,
	},
}

// ErrTransition is returned when an event is not valid in the current state.
var ErrTransition = errors.New("invalid page transition")

// Machine tracks the state of one page render. Failed is terminal.
type Machine struct {
	state  State
	Notice string
}

func New() *Machine {
	return &Machine{state: Loading}
}

func (m *Machine) State() string {
	return m.state.String()
}

func (m *Machine) Is(s State) bool {
	return m.state == s
}

// Fire moves the machine along e. The notice is the inline message shown
// with the new state, if any.
func (m *Machine) Fire(e Event, notice string) error {
	next, ok := transitions[m.state][e]
	if !ok {
		return errors.Wrapf(ErrTransition, "%s on %s", e, m.state)
	}
	m.state = next
	m.Notice = notice
	return nil
}

func (m *Machine) IsLoading() bool      { return m.state == Loading }
func (m *Machine) IsUnregistered() bool { return m.state == Unregistered }
func (m *Machine) IsView() bool         { return m.state == View }
func (m *Machine) IsEdit() bool         { return m.state == Edit }
func (m *Machine) IsFailed() bool       { return m.state == Failed }
