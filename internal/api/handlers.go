package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sells-group/traffic-cli/internal/area"
	"github.com/sells-group/traffic-cli/internal/density"
	"github.com/sells-group/traffic-cli/internal/formgate"
	"github.com/sells-group/traffic-cli/internal/session"
)

type classifyResponse struct {
	Density float64       `json:"density"`
	Tier    density.Tier  `json:"tier"`
	Label   string        `json:"label"`
	Style   density.Style `json:"style"`
}

func (h *Handler) handleListAreas(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string][]area.Area{"areas": h.areas.All()})
}

func (h *Handler) handleOptions(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"areas":    h.areas.Names(),
		"fields":   formgate.Required,
		"options":  formgate.Options(),
		"tile_url": h.tileURL,
	})
}

func (h *Handler) handleClassify(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("density"))
	if raw == "" {
		h.writeError(w, http.StatusBadRequest, "density is required")
		return
	}
	d, err := parseDensity(raw)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "density must be a number")
		return
	}
	tier, style := density.Classify(d)
	h.writeJSON(w, http.StatusOK, classifyResponse{
		Density: density.Clamp(d),
		Tier:    tier,
		Label:   tier.Label(),
		Style:   style,
	})
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	s := h.sessions.Create()
	h.writeJSON(w, http.StatusCreated, s.View())
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := h.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeErr(w, err)
		return nil, false
	}
	return s, true
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, s.View())
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		h.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSetField(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Value string `json:"value"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.SetField(chi.URLParam(r, "field"), req.Value); err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, s.View())
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Query string `json:"query"`
	}
	if r.ContentLength != 0 {
		if err := decodeBody(w, r, &req); err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	res, err := s.Search(r.Context(), req.Query)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"location": res,
		"session":  s.View(),
	})
}

func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	p, err := s.Predict(r.Context())
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"prediction": p,
		"session":    s.View(),
	})
}

func (h *Handler) handleOverlays(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	body, err := s.GeoJSON()
	if err != nil {
		h.writeErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *Handler) handleNotifications(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"notifications": s.Notifications()})
}
