// Package session owns the view state of one map page: the selected area,
// the form inputs, the overlays on the map, the notifications, and the
// prediction state machine.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/traffic-cli/internal/area"
	"github.com/sells-group/traffic-cli/internal/density"
	"github.com/sells-group/traffic-cli/internal/formgate"
	"github.com/sells-group/traffic-cli/internal/mapview"
	"github.com/sells-group/traffic-cli/internal/notify"
	"github.com/sells-group/traffic-cli/internal/predict"
	"github.com/sells-group/traffic-cli/pkg/geocode"
)

// User-facing notification texts.
const (
	msgPredictOK      = "Prediction completed successfully!"
	msgPredictFailed  = "Error predicting traffic. Please try again."
	msgNotReady       = "Please fill in all fields before predicting."
	msgNoLocation     = "Please select a location first!"
	msgSelectArea     = "Please select an area."
	msgLocationFound  = "Location found successfully!"
	msgLocationFailed = "Location not found. Please try a different search."
)

// Deps are the collaborators a session calls out to.
type Deps struct {
	Areas     *area.Registry
	Predictor predict.Predictor
	Geocoder  geocode.Client
}

// Prediction is the outcome of the last successful prediction.
type Prediction struct {
	Area    string         `json:"area" yaml:"area"`
	Result  predict.Result `json:"result" yaml:"result"`
	Tier    density.Tier   `json:"tier" yaml:"tier"`
	Style   density.Style  `json:"style" yaml:"style"`
	Label   string         `json:"label" yaml:"label"`
	At      time.Time      `json:"at" yaml:"at"`
	Percent string         `json:"percent" yaml:"percent"`
}

// Session is the controller state of one page. All methods are safe for
// concurrent use; long-running calls (prediction, place search) run without
// holding the lock.
type Session struct {
	ID string

	deps     Deps
	settings Settings
	updater  mapview.Updater
	nowFunc  func() time.Time

	mu             sync.Mutex
	gate           *formgate.Gate
	surface        *mapview.Surface
	marker         mapview.Handle
	circle         mapview.Handle
	notes          *notify.Queue
	phase          Phase
	lastOutcome    Phase
	last           *Prediction
	triggerEnabled bool
	searching      bool
	animateUntil   time.Time
	lastSeen       time.Time
}

// New creates an idle session with an empty form and an empty map.
func New(deps Deps, settings Settings) *Session {
	return newSession(deps, settings, time.Now)
}

func newSession(deps Deps, settings Settings, now func() time.Time) *Session {
	if deps.Areas == nil {
		deps.Areas = area.Default()
	}
	s := &Session{
		ID:       uuid.New().String(),
		deps:     deps,
		settings: settings,
		nowFunc:  now,
		gate:     formgate.New(),
		surface:  mapview.NewSurface(settings.Center, settings.DefaultZoom),
		notes:    notify.NewQueue(notify.WithTTL(settings.NotifyTTL), notify.WithClock(now)),
		phase:    Idle,
		lastSeen: now(),
	}
	// Every tracked field change re-evaluates the trigger. Gate.Set is only
	// called with s.mu held.
	s.gate.OnChange(func(ready bool) {
		s.triggerEnabled = ready && s.phase != Loading
	})
	return s
}

// Close releases the notification timers.
func (s *Session) Close() {
	s.notes.Close()
}

// Touch marks the session as used now.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.nowFunc()
}

// LastSeen returns when the session was last used.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Notifications returns the visible notifications.
func (s *Session) Notifications() []notify.Notification {
	return s.notes.Active()
}

// GeoJSON encodes the overlays on the map.
func (s *Session) GeoJSON() ([]byte, error) {
	return s.surface.MarshalGeoJSON()
}

// SelectArea replaces the overlays with a marker and a neutral circle at the
// area and centers the map on it. An empty name clears the selection. The
// area is locked while a prediction is loading.
func (s *Session) SelectArea(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == Loading {
		return eris.Wrap(ErrBusy, "select area while predicting")
	}
	return s.selectAreaLocked(name)
}

func (s *Session) selectAreaLocked(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		s.clearOverlaysLocked()
		_, err := s.gate.Set(formgate.FieldArea, "")
		return err
	}

	a, ok := s.deps.Areas.Lookup(name)
	if !ok {
		return eris.Wrapf(ErrUnknownArea, "%q", name)
	}

	s.placeOverlaysLocked(a.Coordinates)
	s.marker.BindPopup(fmt.Sprintf("%s Junction\n%.6f, %.6f", a.Name, a.Coordinates.Lat, a.Coordinates.Lng))
	s.surface.SetView(a.Coordinates, s.settings.AreaZoom)

	_, err := s.gate.Set(formgate.FieldArea, a.Name)
	zap.L().Debug("area selected", zap.String("session", s.ID), zap.String("area", a.Name))
	return err
}

// SetField updates one form input. Setting the area goes through SelectArea.
func (s *Session) SetField(field, value string) error {
	value = strings.TrimSpace(value)
	if field == formgate.FieldArea {
		return s.SelectArea(value)
	}
	if err := formgate.Validate(field, value); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.gate.Set(field, value)
	return err
}

// Search looks up "query, city" and, on a match, moves the overlays and the
// viewport there. An empty query searches for the selected area. Failures
// leave the current overlays untouched.
func (s *Session) Search(ctx context.Context, query string) (*geocode.Result, error) {
	s.mu.Lock()
	query = strings.TrimSpace(query)
	if query == "" {
		query = s.gate.Value(formgate.FieldArea)
	}
	if query == "" {
		s.notes.Notify(msgSelectArea, notify.Warning)
		s.mu.Unlock()
		return nil, eris.Wrap(ErrNotReady, "no area to search for")
	}
	if s.searching {
		s.mu.Unlock()
		return nil, eris.Wrap(ErrBusy, "search")
	}
	if s.phase == Loading {
		s.mu.Unlock()
		return nil, eris.Wrap(ErrBusy, "search while predicting")
	}
	if s.deps.Geocoder == nil {
		s.notes.Notify(msgLocationFailed, notify.Error)
		s.mu.Unlock()
		return nil, &OperationError{Op: "search", Err: eris.New("no geocoder configured")}
	}
	s.searching = true
	full := query
	if s.settings.City != "" && !strings.Contains(strings.ToLower(query), strings.ToLower(s.settings.City)) {
		full = query + ", " + s.settings.City
	}
	s.mu.Unlock()

	result, err := s.deps.Geocoder.Search(ctx, full)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.searching = false
	s.lastSeen = s.nowFunc()

	if err != nil {
		zap.L().Error("location search failed",
			zap.String("session", s.ID),
			zap.String("query", full),
			zap.Error(err),
		)
		s.notes.Notify(msgLocationFailed, notify.Error)
		return nil, &OperationError{Op: "search", Err: err}
	}
	if result == nil || !result.Matched {
		zap.L().Info("location not found", zap.String("session", s.ID), zap.String("query", full))
		s.notes.Notify(msgLocationFailed, notify.Error)
		return nil, eris.Wrapf(ErrLocationNotFound, "%q", full)
	}

	pos := area.Coordinates{Lat: result.Latitude, Lng: result.Longitude}
	s.placeOverlaysLocked(pos)
	label := query
	if result.DisplayName != "" {
		label = result.DisplayName
	}
	s.marker.BindPopup(fmt.Sprintf("%s\n%.6f, %.6f", label, pos.Lat, pos.Lng))
	s.surface.SetView(pos, s.settings.SearchZoom)

	// The searched place becomes the area the prediction is for.
	if _, err := s.gate.Set(formgate.FieldArea, query); err != nil {
		return nil, err
	}
	s.notes.Notify(msgLocationFound, notify.Success)
	return result, nil
}

// Predict runs the prediction for the current inputs, classifies it, and
// restyles the overlays. It refuses to start while inputs are missing or
// another prediction for this session is in flight.
func (s *Session) Predict(ctx context.Context) (*Prediction, error) {
	s.mu.Lock()
	if s.phase == Loading || s.searching {
		s.mu.Unlock()
		return nil, eris.Wrap(ErrBusy, "predict")
	}
	if !s.gate.Ready() {
		missing := s.gate.Missing()
		if s.gate.Value(formgate.FieldArea) == "" {
			s.notes.Notify(msgNoLocation, notify.Warning)
		} else {
			s.notes.Notify(msgNotReady, notify.Warning)
		}
		s.mu.Unlock()
		return nil, eris.Wrapf(ErrNotReady, "missing %s", strings.Join(missing, ", "))
	}

	if s.deps.Predictor == nil {
		s.notes.Notify(msgPredictFailed, notify.Error)
		s.mu.Unlock()
		return nil, &OperationError{Op: "predict", Err: eris.New("no predictor configured")}
	}

	values := s.gate.Values()
	pos, ok := s.ensureOverlaysLocked(values[formgate.FieldArea])
	if !ok {
		s.mu.Unlock()
		return nil, eris.Wrapf(ErrUnknownArea, "%q", values[formgate.FieldArea])
	}

	s.transitionLocked(Loading)
	s.triggerEnabled = false
	marker, circle := s.marker, s.circle
	s.mu.Unlock()

	pc := predict.Context{
		Area:         values[formgate.FieldArea],
		Coordinates:  pos,
		Hour:         values[formgate.FieldTime],
		Day:          values[formgate.FieldDay],
		Weather:      values[formgate.FieldWeather],
		VehicleType:  values[formgate.FieldVehicleType],
		RandomEvents: values[formgate.FieldRandomEvents],
		PeakHours:    values[formgate.FieldPeakHours],
	}
	res, err := s.deps.Predictor.Predict(ctx, pc)

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.nowFunc()
	s.lastSeen = now
	s.animateUntil = now.Add(s.settings.Animation)

	if err != nil {
		s.transitionLocked(Failure)
		s.finishLocked()
		zap.L().Error("prediction failed",
			zap.String("session", s.ID),
			zap.String("area", pc.Area),
			zap.Error(err),
		)
		s.notes.Notify(msgPredictFailed, notify.Error)
		return nil, &OperationError{Op: "predict", Err: err}
	}

	tier, style := density.Classify(res.Density)
	label := s.updater.Apply(tier, style, marker, circle)
	percent := fmt.Sprintf("%.1f%%", density.Clamp(res.Density)*100)
	marker.BindPopup(fmt.Sprintf("%s\n%.6f, %.6f\nTraffic Density: %s", pc.Area, pos.Lat, pos.Lng, percent))

	p := &Prediction{
		Area:    pc.Area,
		Result:  res,
		Tier:    tier,
		Style:   style,
		Label:   label,
		At:      now,
		Percent: percent,
	}
	s.last = p

	s.transitionLocked(Success)
	s.finishLocked()
	s.notes.Notify(msgPredictOK, notify.Success)
	zap.L().Info("prediction complete",
		zap.String("session", s.ID),
		zap.String("area", pc.Area),
		zap.Float64("density", res.Density),
		zap.String("tier", tier.String()),
	)
	cp := *p
	return &cp, nil
}

// finishLocked records the outcome and returns to Idle.
func (s *Session) finishLocked() {
	s.lastOutcome = s.phase
	s.transitionLocked(Idle)
	s.triggerEnabled = s.gate.Ready()
}

func (s *Session) transitionLocked(to Phase) {
	if !canTransition(s.phase, to) {
		zap.L().Error("illegal phase transition",
			zap.String("session", s.ID),
			zap.String("from", s.phase.String()),
			zap.String("to", to.String()),
		)
		return
	}
	zap.L().Debug("phase transition",
		zap.String("session", s.ID),
		zap.String("from", s.phase.String()),
		zap.String("to", to.String()),
	)
	s.phase = to
}

// ensureOverlaysLocked makes sure a live marker and circle exist, placing
// them at the registered area when they are missing, and returns the point
// the prediction is for.
func (s *Session) ensureOverlaysLocked(areaName string) (area.Coordinates, bool) {
	if snap, ok := s.marker.Snapshot(); ok && s.circle.Live() {
		return snap.Position, true
	}
	a, ok := s.deps.Areas.Lookup(areaName)
	if !ok {
		return area.Coordinates{}, false
	}
	s.placeOverlaysLocked(a.Coordinates)
	return a.Coordinates, true
}

func (s *Session) placeOverlaysLocked(pos area.Coordinates) {
	s.clearOverlaysLocked()
	s.marker = s.surface.AddMarker(pos)
	s.circle = s.surface.AddCircle(pos, s.settings.CircleRadius)
}

func (s *Session) clearOverlaysLocked() {
	s.marker.Remove()
	s.circle.Remove()
	s.marker = mapview.Handle{}
	s.circle = mapview.Handle{}
}
