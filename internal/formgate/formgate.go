// Package formgate decides when the prediction trigger may fire: every
// required input must hold a value.
package formgate

import (
	"strings"
	"sync"

	"github.com/rotisserie/eris"
)

// Required input fields.
const (
	FieldArea         = "area"
	FieldTime         = "time"
	FieldDay          = "day"
	FieldWeather      = "weather"
	FieldVehicleType  = "vehicle_type"
	FieldRandomEvents = "random_events"
	FieldPeakHours    = "peak_hours"
)

// Required lists the fields that must all be set, in display order.
var Required = []string{
	FieldArea,
	FieldTime,
	FieldDay,
	FieldWeather,
	FieldVehicleType,
	FieldRandomEvents,
	FieldPeakHours,
}

var (
	// ErrUnknownField is returned for a field outside the required set.
	ErrUnknownField = eris.New("formgate: unknown field")
	// ErrInvalidValue is returned for a value outside a field's options.
	ErrInvalidValue = eris.New("formgate: invalid value")
)

// IsReady reports whether every required field has a non-blank value.
func IsReady(fields map[string]string) bool {
	for _, f := range Required {
		if strings.TrimSpace(fields[f]) == "" {
			return false
		}
	}
	return true
}

// IsRequired reports whether name is one of the tracked fields.
func IsRequired(name string) bool {
	for _, f := range Required {
		if f == name {
			return true
		}
	}
	return false
}

// Observer is called with the readiness after every tracked change.
type Observer func(ready bool)

// Gate tracks the current field values and re-evaluates readiness on every
// change, notifying observers in registration order.
type Gate struct {
	mu        sync.Mutex
	values    map[string]string
	ready     bool
	observers []Observer
}

// New creates a gate with every field empty.
func New() *Gate {
	return &Gate{values: make(map[string]string, len(Required))}
}

// OnChange registers an observer.
func (g *Gate) OnChange(o Observer) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.observers = append(g.observers, o)
}

// Set records a field value (empty clears it) and returns the new readiness.
func (g *Gate) Set(field, value string) (bool, error) {
	if !IsRequired(field) {
		return false, eris.Wrapf(ErrUnknownField, "%q", field)
	}

	g.mu.Lock()
	value = strings.TrimSpace(value)
	if value == "" {
		delete(g.values, field)
	} else {
		g.values[field] = value
	}
	g.ready = IsReady(g.values)
	ready := g.ready
	observers := append([]Observer(nil), g.observers...)
	g.mu.Unlock()

	for _, o := range observers {
		o(ready)
	}
	return ready, nil
}

// Ready returns the readiness as of the last change.
func (g *Gate) Ready() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ready
}

// Value returns the current value of a field.
func (g *Gate) Value(field string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.values[field]
}

// Values returns a copy of every set field.
func (g *Gate) Values() map[string]string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make(map[string]string, len(g.values))
	for k, v := range g.values {
		out[k] = v
	}
	return out
}

// Missing returns the required fields that are still empty, in display order.
func (g *Gate) Missing() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	var missing []string
	for _, f := range Required {
		if g.values[f] == "" {
			missing = append(missing, f)
		}
	}
	return missing
}
