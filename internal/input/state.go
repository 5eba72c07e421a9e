package input

import (
	"sort"
	"strings"
)

// Directional key names, lowercase.
const (
	KeyForward  = "w"
	KeyBackward = "s"
	KeyLeft     = "a"
	KeyRight    = "d"
)

var Directions = [...]string{KeyForward, KeyLeft, KeyBackward, KeyRight}

// State is the host-owned set of held keys plus a pending run toggle. The
// character controller never sees it directly; it reads Frames.
type State struct {
	held      map[string]bool
	toggleRun bool
}

func NewState() *State {
	return &State{held: make(map[string]bool)}
}

func (s *State) Press(key string) {
	if s.held == nil {
		s.held = make(map[string]bool)
	}
	s.held[strings.ToLower(key)] = true
}

func (s *State) Release(key string) {
	delete(s.held, strings.ToLower(key))
}

func (s *State) Held(key string) bool {
	return s.held[strings.ToLower(key)]
}

func (s *State) Clear() {
	for k := range s.held {
		delete(s.held, k)
	}
	s.toggleRun = false
}

// RequestRunToggle records a toggle for the next Snapshot. Two requests
// before a snapshot cancel out.
func (s *State) RequestRunToggle() {
	s.toggleRun = !s.toggleRun
}

// Snapshot copies the held keys and consumes the pending run toggle.
func (s *State) Snapshot() Frame {
	f := Frame{ToggleRun: s.toggleRun}
	if len(s.held) > 0 {
		f.Held = make(map[string]bool, len(s.held))
		for k, v := range s.held {
			if v {
				f.Held[k] = true
			}
		}
	}
	s.toggleRun = false
	return f
}

// Frame is an immutable view of the input for a single tick.
type Frame struct {
	Held      map[string]bool
	ToggleRun bool
}

func Keys(keys ...string) Frame {
	f := Frame{Held: make(map[string]bool, len(keys))}
	for _, k := range keys {
		f.Held[strings.ToLower(k)] = true
	}
	return f
}

func (f Frame) Pressed(key string) bool {
	return f.Held[key]
}

func (f Frame) AnyDirectional() bool {
	for _, k := range Directions {
		if f.Held[k] {
			return true
		}
	}
	return false
}

// Axes returns forward (+1 forward, -1 backward) and strafe (+1 left,
// -1 right). Opposing keys cancel.
func (f Frame) Axes() (forward, strafe float64) {
	if f.Held[KeyForward] {
		forward++
	}
	if f.Held[KeyBackward] {
		forward--
	}
	if f.Held[KeyLeft] {
		strafe++
	}
	if f.Held[KeyRight] {
		strafe--
	}
	return forward, strafe
}

func (f Frame) String() string {
	keys := make([]string, 0, len(f.Held))
	for k := range f.Held {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, "+")
}
