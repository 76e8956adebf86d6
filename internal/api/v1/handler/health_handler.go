package handler

import (
	"net/http"
	"time"
)

// HealthHandler reports liveness. It is mounted without auth.
type HealthHandler struct {
	storageBackend string
	startedAt      time.Time
}

func NewHealthHandler(storageBackend string) *HealthHandler {
	return &HealthHandler{storageBackend: storageBackend, startedAt: time.Now()}
}

type healthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
	Uptime  string `json:"uptime"`
}

func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.getHealth)
}

// getHealth godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} healthResponse
// @Router /health [get]
func (h *HealthHandler) getHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Storage: h.storageBackend,
		Uptime:  time.Since(h.startedAt).Truncate(time.Second).String(),
	})
}
