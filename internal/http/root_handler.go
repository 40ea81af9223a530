package http

import (
	"net/http"
	"time"

	"github.com/campaignbridge/campaignbridge/pkg/logger"
)

type RootHandler struct {
	logger  logger.Logger
	version string
	started time.Time
}

func NewRootHandler(logger logger.Logger, version string) *RootHandler {
	return &RootHandler{
		logger:  logger,
		version: version,
		started: time.Now().UTC(),
	}
}

func (h *RootHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/api/health", http.HandlerFunc(h.handleHealth))
}

func (h *RootHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}
