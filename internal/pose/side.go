package pose

import (
	"fmt"
	"strings"
)

type Side int

const (
	SideUnknown Side = iota
	SideLeft
	SideRight
	// SideBoth alternates, right side first.
	SideBoth
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	case SideBoth:
		return "both"
	default:
		return "unknown"
	}
}

func (s Side) IsValid() bool {
	return s == SideLeft || s == SideRight || s == SideBoth
}

// First returns the side an exercise starts on.
func (s Side) First() Side {
	if s == SideBoth {
		return SideRight
	}
	return s
}

func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l":
		return SideLeft, nil
	case "right", "r":
		return SideRight, nil
	case "both", "b":
		return SideBoth, nil
	default:
		return SideUnknown, fmt.Errorf("unknown side: %q", s)
	}
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts everything MarshalText produces, the zero side included.
// Validation of a configured side is Config's job.
func (s *Side) UnmarshalText(text []byte) error {
	if str := strings.TrimSpace(string(text)); str == "" || str == SideUnknown.String() {
		*s = SideUnknown
		return nil
	}
	parsed, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
