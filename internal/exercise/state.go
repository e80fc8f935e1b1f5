package exercise

import "fmt"

// State is a node of the exercise state machine.
type State int

const (
	StateInitial State = iota
	StateCalibration
	StateStart
	StateInPosition
	StateRepetition
	StateRepetitionInitial
	StateRepetitionInProgress
	StateRepetitionCompleted
	StateExerciseEnd
)

var stateNames = [...]string{
	StateInitial:              "initial",
	StateCalibration:          "calibration",
	StateStart:                "start",
	StateInPosition:           "in_position",
	StateRepetition:           "repetition",
	StateRepetitionInitial:    "repetition_initial",
	StateRepetitionInProgress: "repetition_in_progress",
	StateRepetitionCompleted:  "repetition_completed",
	StateExerciseEnd:          "exercise_end",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

func ParseState(s string) (State, error) {
	for st, name := range stateNames {
		if name == s {
			return State(st), nil
		}
	}
	return 0, fmt.Errorf("unknown state: %q", s)
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	parsed, err := ParseState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// sources lists, per target state, the states it may be entered from.
// Initial has no sources, it is only reachable through a reset.
var sources = map[State][]State{
	StateCalibration:          {StateInitial},
	StateStart:                {StateCalibration, StateRepetition},
	StateInPosition:           {StateStart},
	StateRepetition:           {StateInPosition, StateRepetitionCompleted},
	StateRepetitionInitial:    {StateStart, StateRepetition},
	StateRepetitionInProgress: {StateRepetitionInitial},
	StateRepetitionCompleted:  {StateRepetitionInProgress},
	StateExerciseEnd:          {StateRepetition},
}

// CanEnter reports whether target may be entered while in from.
func CanEnter(from, target State) bool {
	for _, s := range sources[target] {
		if s == from {
			return true
		}
	}
	return false
}
