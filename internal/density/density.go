// Package density classifies a traffic density value into a tier and the
// visual style the map uses to draw it.
package density

import (
	"math"

	"github.com/rotisserie/eris"
)

// Tier is a discrete traffic level derived from density.
type Tier int

const (
	// Low covers densities up to and including LowUpper.
	Low Tier = iota
	// Medium covers densities above LowUpper up to and including MediumUpper.
	Medium
	// High covers densities above MediumUpper.
	High
)

// Tier boundaries. Each boundary value belongs to the lower tier.
const (
	LowUpper    = 0.33
	MediumUpper = 0.66
)

func (t Tier) String() string {
	switch t {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return "unknown"
	}
}

// Label is the short human-readable caption shown on the map.
func (t Tier) Label() string {
	switch t {
	case Low:
		return "Low Traffic"
	case Medium:
		return "Medium Traffic"
	case High:
		return "High Traffic"
	default:
		return "Unknown Traffic"
	}
}

// MarshalText encodes the tier as its lowercase name.
func (t Tier) MarshalText() ([]byte, error) {
	if t < Low || t > High {
		return nil, eris.Errorf("density: invalid tier %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText parses a lowercase tier name.
func (t *Tier) UnmarshalText(b []byte) error {
	switch string(b) {
	case "low":
		*t = Low
	case "medium":
		*t = Medium
	case "high":
		*t = High
	default:
		return eris.Errorf("density: unknown tier %q", string(b))
	}
	return nil
}

// Style is the presentation of an overlay for one tier.
type Style struct {
	Color       string  `json:"color" yaml:"color"`
	Opacity     float64 `json:"opacity" yaml:"opacity"`
	FillOpacity float64 `json:"fill_opacity" yaml:"fill_opacity"`
}

var styles = [...]Style{
	Low:    {Color: "#4CAF50", Opacity: 0.4, FillOpacity: 0.15},
	Medium: {Color: "#ff9800", Opacity: 0.6, FillOpacity: 0.25},
	High:   {Color: "#f44336", Opacity: 0.8, FillOpacity: 0.35},
}

// StyleFor returns the style bound to a tier.
func StyleFor(t Tier) Style {
	if t < Low || t > High {
		return styles[Low]
	}
	return styles[t]
}

// Clamp forces d into [0,1]. NaN maps to 0.
func Clamp(d float64) float64 {
	switch {
	case math.IsNaN(d), d < 0:
		return 0
	case d > 1:
		return 1
	default:
		return d
	}
}

// Classify maps a density to its tier and style. Values outside [0,1] are
// clamped first, so every input has a result.
func Classify(d float64) (Tier, Style) {
	d = Clamp(d)
	var t Tier
	switch {
	case d <= LowUpper:
		t = Low
	case d <= MediumUpper:
		t = Medium
	default:
		t = High
	}
	return t, styles[t]
}
