// Package mapview models the interactive map a page session draws on: the
// viewport plus the markers and circles placed on it.
package mapview

import (
	"fmt"
	"sync"

	"github.com/sells-group/traffic-cli/internal/area"
	"github.com/sells-group/traffic-cli/internal/density"
)

// Kind distinguishes overlay types.
type Kind string

const (
	KindMarker Kind = "marker"
	KindCircle Kind = "circle"
)

// NeutralStyle is how overlays look before any prediction.
var NeutralStyle = density.Style{Color: "#666", Opacity: 1, FillOpacity: 0.15}

// Viewport is the visible part of the map.
type Viewport struct {
	Center area.Coordinates `json:"center"`
	Zoom   int              `json:"zoom"`
}

// Overlay is a snapshot of one map element.
type Overlay struct {
	ID       string           `json:"id"`
	Kind     Kind             `json:"kind"`
	Position area.Coordinates `json:"position"`
	Radius   float64          `json:"radius,omitempty"`
	Style    density.Style    `json:"style"`
	Label    string           `json:"label,omitempty"`
	Popup    string           `json:"popup,omitempty"`
}

// Surface holds the viewport and the live overlays. Safe for concurrent use.
type Surface struct {
	mu       sync.Mutex
	viewport Viewport
	seq      int
	order    []string
	overlays map[string]*Overlay
}

// NewSurface creates an empty surface showing center at zoom.
func NewSurface(center area.Coordinates, zoom int) *Surface {
	return &Surface{
		viewport: Viewport{Center: center, Zoom: zoom},
		overlays: make(map[string]*Overlay),
	}
}

// SetView moves the viewport.
func (s *Surface) SetView(center area.Coordinates, zoom int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport = Viewport{Center: center, Zoom: zoom}
}

// Viewport returns the current viewport.
func (s *Surface) Viewport() Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

// AddMarker places a point marker.
func (s *Surface) AddMarker(pos area.Coordinates) Handle {
	return s.add(&Overlay{Kind: KindMarker, Position: pos, Style: NeutralStyle})
}

// AddCircle places a circle of radius meters.
func (s *Surface) AddCircle(center area.Coordinates, radius float64) Handle {
	return s.add(&Overlay{Kind: KindCircle, Position: center, Radius: radius, Style: NeutralStyle})
}

func (s *Surface) add(o *Overlay) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	o.ID = fmt.Sprintf("%s-%d", o.Kind, s.seq)
	s.overlays[o.ID] = o
	s.order = append(s.order, o.ID)
	return Handle{surface: s, id: o.ID}
}

// Remove deletes an overlay. Removing an unknown id is a no-op.
func (s *Surface) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.overlays[id]; !ok {
		return
	}
	delete(s.overlays, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Overlays returns snapshots of the live overlays in creation order.
func (s *Surface) Overlays() []Overlay {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Overlay, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.overlays[id])
	}
	return out
}

// update applies fn to a live overlay. It reports false if the overlay is gone.
func (s *Surface) update(id string, fn func(o *Overlay)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.overlays[id]
	if !ok {
		return false
	}
	fn(o)
	return true
}

// Handle references one overlay on a surface. The zero Handle refers to
// nothing and every operation on it is a no-op.
type Handle struct {
	surface *Surface
	id      string
}

// ID returns the overlay id, or "" for the zero Handle.
func (h Handle) ID() string { return h.id }

// Live reports whether the overlay is still on the surface.
func (h Handle) Live() bool {
	if h.surface == nil {
		return false
	}
	return h.surface.update(h.id, func(*Overlay) {})
}

// Remove takes the overlay off the surface.
func (h Handle) Remove() {
	if h.surface != nil {
		h.surface.Remove(h.id)
	}
}

// SetStyle restyles the overlay.
func (h Handle) SetStyle(st density.Style) bool {
	if h.surface == nil {
		return false
	}
	return h.surface.update(h.id, func(o *Overlay) { o.Style = st })
}

// BindLabel attaches the short caption shown with the overlay.
func (h Handle) BindLabel(label string) bool {
	if h.surface == nil {
		return false
	}
	return h.surface.update(h.id, func(o *Overlay) { o.Label = label })
}

// BindPopup attaches the longer popup text.
func (h Handle) BindPopup(text string) bool {
	if h.surface == nil {
		return false
	}
	return h.surface.update(h.id, func(o *Overlay) { o.Popup = text })
}

// Snapshot returns a copy of the overlay.
func (h Handle) Snapshot() (Overlay, bool) {
	var snap Overlay
	if h.surface == nil {
		return snap, false
	}
	ok := h.surface.update(h.id, func(o *Overlay) { snap = *o })
	return snap, ok
}
