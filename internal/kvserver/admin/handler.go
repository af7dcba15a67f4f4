package admin

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/yndnr/kvs/internal/infra/buildinfo"
)

// Handler serves the admin surface's JSON endpoints.
type Handler struct {
	mux *http.ServeMux
}

// NewHandler builds a Handler. metricsHandler serves /metrics; a nil
// metricsHandler is valid and answers 404.
func NewHandler(metricsHandler http.Handler) *Handler {
	h := &Handler{mux: http.NewServeMux()}
	h.mux.HandleFunc("GET /healthz", h.handleHealthz)
	if metricsHandler != nil {
		h.mux.Handle("GET /metrics", metricsHandler)
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

type healthzResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Time    string `json:"time"`
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(healthzResponse{
		Status:  "ok",
		Version: buildinfo.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}
