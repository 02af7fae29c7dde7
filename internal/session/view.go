package session

import (
	"github.com/sells-group/traffic-cli/internal/formgate"
	"github.com/sells-group/traffic-cli/internal/mapview"
	"github.com/sells-group/traffic-cli/internal/notify"
)

// View is a read-only snapshot of a session for rendering.
type View struct {
	ID             string                 `json:"id"`
	Area           string                 `json:"area,omitempty"`
	Fields         map[string]string      `json:"fields"`
	Missing        []string               `json:"missing"`
	Ready          bool                   `json:"ready"`
	TriggerEnabled bool                   `json:"trigger_enabled"`
	Phase          Phase                  `json:"phase"`
	LastOutcome    *Phase                 `json:"last_outcome,omitempty"`
	Animating      bool                   `json:"animating"`
	Searching      bool                   `json:"searching"`
	Viewport       mapview.Viewport       `json:"viewport"`
	Overlays       []mapview.Overlay      `json:"overlays"`
	Last           *Prediction            `json:"last_prediction,omitempty"`
	Notifications  []notify.Notification  `json:"notifications"`
}

// View snapshots the session.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		ID:             s.ID,
		Area:           s.gate.Value(formgate.FieldArea),
		Fields:         s.gate.Values(),
		Missing:        s.gate.Missing(),
		Ready:          s.gate.Ready(),
		TriggerEnabled: s.triggerEnabled,
		Phase:          s.phase,
		Animating:      s.phase == Loading || s.nowFunc().Before(s.animateUntil),
		Searching:      s.searching,
		Viewport:       s.surface.Viewport(),
		Overlays:       s.surface.Overlays(),
		Notifications:  s.notes.Active(),
	}
	if s.lastOutcome == Success || s.lastOutcome == Failure {
		o := s.lastOutcome
		v.LastOutcome = &o
	}
	if s.last != nil {
		p := *s.last
		v.Last = &p
	}
	return v
}
