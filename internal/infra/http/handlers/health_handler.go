package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/craftlocal/leadflow/internal/infra/database"
)

type HealthHandler struct {
	Store        *database.LeadStore
	ImageHostURL string
	SMTPHost     string
	StartTime    time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewHealthHandler(store *database.LeadStore, imageHostURL, smtpHost string) *HealthHandler {
	return &HealthHandler{
		Store:        store,
		ImageHostURL: imageHostURL,
		SMTPHost:     smtpHost,
		StartTime:    time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)

	if _, err := h.Store.LoadAll(); err != nil {
		deps["store"] = fmt.Sprintf("unhealthy: %v", err)
	} else {
		deps["store"] = "healthy"
	}

	if h.ImageHostURL != "" {
		deps["imagehost"] = "configured"
	} else {
		deps["imagehost"] = "not configured"
	}

	if h.SMTPHost != "" {
		deps["smtp"] = "configured"
	} else {
		deps["smtp"] = "not configured"
	}

	status := "healthy"
	for _, v := range deps {
		if v != "healthy" && v != "configured" && v != "not configured" {
			status = "degraded"
			break
		}
	}

	response := HealthResponse{
		Status:       status,
		Version:      "1.0.0",
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	}

	if status == "degraded" {
		writeJSON(w, http.StatusServiceUnavailable, response)
		return
	}
	writeJSON(w, http.StatusOK, response)
}
