package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/craftlocal/leadflow/internal/entity"
	"github.com/craftlocal/leadflow/internal/infra/http/middleware"
	"github.com/craftlocal/leadflow/internal/usecase"
)

type LeadHandler struct {
	CreateLead *usecase.CreateLeadUseCase
	UpdateLead *usecase.UpdateLeadUseCase
	Repo       usecase.LeadRepositoryInterface
}

func NewLeadHandler(
	createLead *usecase.CreateLeadUseCase,
	updateLead *usecase.UpdateLeadUseCase,
	repo usecase.LeadRepositoryInterface,
) *LeadHandler {
	return &LeadHandler{
		CreateLead: createLead,
		UpdateLead: updateLead,
		Repo:       repo,
	}
}

// HandleSubmit accepts the public quote-request form. The body is an open
// field mapping; whatever the form sends is kept on the lead.
func (h *LeadHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any

	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&fields); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	lead, err := h.CreateLead.Execute(r.Context(), fields)
	if err != nil {
		log.Printf("submit lead: %v", err)
		writeFailure(w, http.StatusInternalServerError, "Failed to save lead")
		return
	}

	middleware.RecordLeadCreated()
	log.Printf("New lead %d: %s %s - %s",
		lead.ID,
		entity.CoerceString(lead.Extra["firstName"]),
		entity.CoerceString(lead.Extra["lastName"]),
		entity.CoerceString(lead.Extra["phone"]),
	)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"leadId":  lead.ID,
	})
}

// HandleList returns every lead, insertion order, unfiltered.
func (h *LeadHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Repo.List(r.Context())
	if err != nil {
		log.Printf("list leads: %v", err)
		writeFailure(w, http.StatusInternalServerError, "Failed to load leads")
		return
	}

	writeJSON(w, http.StatusOK, leads)
}

func (h *LeadHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	lead, err := h.UpdateLead.SetStatus(r.Context(), id, body.Status)
	if err != nil {
		h.writeUpdateError(w, id, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"lead":    lead,
	})
}

func (h *LeadHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}

	var fields map[string]any
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&fields); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	lead, err := h.UpdateLead.UpdateFields(r.Context(), id, fields)
	if err != nil {
		h.writeUpdateError(w, id, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"lead":    lead,
	})
}

// HandleDebug summarizes one lead's photo state for troubleshooting the
// submit-then-attach flow.
func (h *LeadHandler) HandleDebug(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}

	lead, err := h.Repo.FindByID(r.Context(), id)
	if err != nil {
		h.writeUpdateError(w, id, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":             lead.ID,
		"status":         lead.Status,
		"hasPhotos":      lead.HasPhotos,
		"photoCount":     len(lead.Photos),
		"photoDataCount": len(lead.PhotoData),
		"photoURLs":      lead.Photos,
	})
}

func (h *LeadHandler) writeUpdateError(w http.ResponseWriter, id int64, err error) {
	if errors.Is(err, entity.ErrLeadNotFound) {
		writeFailure(w, http.StatusNotFound, "Lead not found")
		return
	}
	if usecase.IsDomainError(err) {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	log.Printf("lead %d: %v", id, err)
	writeFailure(w, http.StatusInternalServerError, "Failed to update lead")
}

func leadID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeFailure(w, http.StatusNotFound, "Lead not found")
		return 0, false
	}
	return id, true
}
