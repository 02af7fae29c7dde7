// Package area holds the static registry of named map locations a user can pick.
package area

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// DefaultCity is the city the registered junctions belong to.
const DefaultCity = "Hyderabad"

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Area is a named, pre-registered map location.
type Area struct {
	Name        string      `json:"name" yaml:"name"`
	Coordinates Coordinates `json:"coordinates" yaml:"coordinates"`
}

var junctions = []Area{
	{Name: "Kukatpally", Coordinates: Coordinates{Lat: 17.493338, Lng: 78.402547}},
	{Name: "Ameerpet", Coordinates: Coordinates{Lat: 17.434275, Lng: 78.445403}},
	{Name: "Miyapur", Coordinates: Coordinates{Lat: 17.496653, Lng: 78.361809}},
	{Name: "Bowenpally", Coordinates: Coordinates{Lat: 17.463865, Lng: 78.472837}},
	{Name: "Secunderabad", Coordinates: Coordinates{Lat: 17.434962, Lng: 78.500812}},
	{Name: "Madhapur", Coordinates: Coordinates{Lat: 17.451399, Lng: 78.381218}},
}

// Registry is a read-only lookup table of areas keyed by name.
type Registry struct {
	byKey  map[string]Area
	sorted []Area
}

// NewRegistry builds a registry from the given areas. Later duplicates of a
// name (compared case-insensitively) are ignored.
func NewRegistry(areas []Area) *Registry {
	r := &Registry{
		byKey: make(map[string]Area, len(areas)),
	}
	for _, a := range areas {
		key := r.key(a.Name)
		if key == "" {
			continue
		}
		if _, dup := r.byKey[key]; dup {
			continue
		}
		r.byKey[key] = a
		r.sorted = append(r.sorted, a)
	}
	sort.Slice(r.sorted, func(i, j int) bool { return r.sorted[i].Name < r.sorted[j].Name })
	return r
}

// Default returns the registry of Hyderabad junctions.
func Default() *Registry {
	return NewRegistry(junctions)
}

// key folds case with a fresh Caser; Casers are stateful and not safe to share.
func (r *Registry) key(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// All returns every area sorted by name.
func (r *Registry) All() []Area {
	out := make([]Area, len(r.sorted))
	copy(out, r.sorted)
	return out
}

// Names returns the area names sorted alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, len(r.sorted))
	for i, a := range r.sorted {
		names[i] = a.Name
	}
	return names
}

// Lookup finds an area by name, ignoring case and surrounding whitespace.
func (r *Registry) Lookup(name string) (Area, bool) {
	a, ok := r.byKey[r.key(name)]
	return a, ok
}
