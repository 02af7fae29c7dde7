// Package api exposes sessions and the stateless helpers over HTTP.
package api

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/traffic-cli/internal/area"
	"github.com/sells-group/traffic-cli/internal/formgate"
	"github.com/sells-group/traffic-cli/internal/predict"
	"github.com/sells-group/traffic-cli/internal/session"
)

//go:embed static
var staticFiles embed.FS

const (
	// maxBodyBytes caps request bodies; every request payload is a single short string.
	maxBodyBytes = 1 << 16

	// statusClientClosedRequest is logged when the caller went away mid-request.
	statusClientClosedRequest = 499

	defaultTileURL = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
)

// Handler serves the HTTP API.
type Handler struct {
	sessions *session.Manager
	areas    *area.Registry
	tileURL  string
}

// Option configures a Handler.
type Option func(*Handler)

// WithTileURL sets the map tile template the page loads tiles from.
func WithTileURL(u string) Option {
	return func(h *Handler) {
		if u != "" {
			h.tileURL = u
		}
	}
}

// NewHandler creates a handler backed by the given session manager.
func NewHandler(sessions *session.Manager, areas *area.Registry, opts ...Option) *Handler {
	if areas == nil {
		areas = area.Default()
	}
	h := &Handler{sessions: sessions, areas: areas, tileURL: defaultTileURL}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Router builds the chi router with CORS for the given origins.
func (h *Handler) Router(corsOrigins []string) http.Handler {
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/areas", h.handleListAreas)
		r.Get("/options", h.handleOptions)
		r.Get("/classify", h.handleClassify)

		r.Post("/sessions", h.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", h.handleGetSession)
			r.Delete("/", h.handleDeleteSession)
			r.Put("/fields/{field}", h.handleSetField)
			r.Post("/search", h.handleSearch)
			r.Post("/predict", h.handlePredict)
			r.Get("/overlays", h.handleOverlays)
			r.Get("/notifications", h.handleNotifications)
		})
	})

	static, _ := fs.Sub(staticFiles, "static")
	r.Handle("/*", http.FileServer(http.FS(static)))

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: encode response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

// writeErr maps a domain error onto a status code.
func (h *Handler) writeErr(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		zap.L().Error("api: request failed", zap.Int("status", status), zap.Error(err))
	}
	h.writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, session.ErrLocationNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrUnknownArea),
		errors.Is(err, formgate.ErrUnknownField),
		errors.Is(err, formgate.ErrInvalidValue),
		errors.Is(err, predict.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNotReady),
		errors.Is(err, session.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, predict.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, session.ErrOperationFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

// requestLogger logs one line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func parseDensity(raw string) (float64, error) {
	return strconv.ParseFloat(raw, 64)
}
