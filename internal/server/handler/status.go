package handler

import (
	"net/http"
	"time"

	"github.com/tradewatch/insiderbot/internal/bot"
)

// StatusHandler serves the bot status endpoint: process uptime and the
// outcome of the most recent pipeline run.
type StatusHandler struct {
	status *bot.Status
	mode   string
}

// NewStatusHandler creates a StatusHandler backed by the given run tracker.
func NewStatusHandler(status *bot.Status, mode string) *StatusHandler {
	return &StatusHandler{status: status, mode: mode}
}

// statusResponse is the JSON shape of the status endpoint.
type statusResponse struct {
	Mode    string       `json:"mode"`
	Uptime  string       `json:"uptime"`
	LastRun *bot.RunInfo `json:"last_run,omitempty"`
}

// GetStatus responds with uptime and the last run snapshot.
// GET /api/status
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Mode:    h.mode,
		Uptime:  h.status.Uptime().Round(time.Second).String(),
		LastRun: h.status.LastRun(),
	})
}
