package session

import "github.com/rotisserie/eris"

// Phase is where a session is in the prediction cycle:
// Idle -> Loading -> Success|Failure -> Idle.
type Phase int

const (
	Idle Phase = iota
	Loading
	Success
	Failure
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// MarshalText encodes the phase as its name.
func (p Phase) MarshalText() ([]byte, error) {
	if p < Idle || p > Failure {
		return nil, eris.Errorf("session: invalid phase %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText parses a phase name.
func (p *Phase) UnmarshalText(b []byte) error {
	for c := Idle; c <= Failure; c++ {
		if c.String() == string(b) {
			*p = c
			return nil
		}
	}
	return eris.Errorf("session: unknown phase %q", string(b))
}

// next lists the legal transitions.
var next = map[Phase][]Phase{
	Idle:    {Loading},
	Loading: {Success, Failure},
	Success: {Idle},
	Failure: {Idle},
}

func canTransition(from, to Phase) bool {
	for _, p := range next[from] {
		if p == to {
			return true
		}
	}
	return false
}
