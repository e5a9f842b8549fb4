package server

import (
	"encoding/json"
	"net/http"
)

// StatusProvider reports the live state of the bot.
type StatusProvider interface {
	Ready() bool
	Len() int
	EnabledCount() int
}

// Status is the body of GET /status.
type Status struct {
	Ready          bool `json:"ready"`
	Users          int  `json:"users"`
	AutofixEnabled int  `json:"autofix_enabled"`
}

// StatusHandler serves /healthz and /status.
type StatusHandler struct {
	provider StatusProvider
}

func NewStatusHandler(p StatusProvider) *StatusHandler {
	return &StatusHandler{provider: p}
}

func (h *StatusHandler) Routes() []string {
	return []string{"/healthz", "/status"}
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch r.URL.Path {
	case "/healthz":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	case "/status":
		status := Status{}
		if h.provider != nil {
			status = Status{
				Ready:          h.provider.Ready(),
				Users:          h.provider.Len(),
				AutofixEnabled: h.provider.EnabledCount(),
			}
		}
		w.Header().Set("Content-Type", "application/json")
		if !status.Ready {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(status)
	default:
		http.NotFound(w, r)
	}
}
