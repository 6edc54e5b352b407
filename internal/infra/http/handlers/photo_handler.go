package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/craftlocal/leadflow/internal/entity"
	"github.com/craftlocal/leadflow/internal/infra/http/middleware"
	"github.com/craftlocal/leadflow/internal/usecase"
)

const (
	maxPhotosPerRequest = 5
	maxPhotoBytes       = 10 << 20
)

type PhotoHandler struct {
	Gateway usecase.UploadGateway
	Attach  *usecase.AttachPhotosUseCase
}

func NewPhotoHandler(gateway usecase.UploadGateway, attach *usecase.AttachPhotosUseCase) *PhotoHandler {
	return &PhotoHandler{Gateway: gateway, Attach: attach}
}

// HandleUpload hosts up to five image files from a multipart form. Each file
// independently comes back as either a hosted URL or an inline fallback
// record; a broken file never fails the batch.
func (h *PhotoHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	files := r.MultipartForm.File["photos"]
	if len(files) > maxPhotosPerRequest {
		log.Printf("upload photos: %d files sent, keeping the first %d", len(files), maxPhotosPerRequest)
		files = files[:maxPhotosPerRequest]
	}

	urls := []string{}
	photoData := []entity.PhotoData{}

	for _, header := range files {
		mimeType := header.Header.Get("Content-Type")
		if !strings.HasPrefix(mimeType, "image/") {
			log.Printf("upload photos: skipping %s, not an image (%s)", header.Filename, mimeType)
			middleware.RecordPhotoUpload("rejected")
			continue
		}
		if header.Size > maxPhotoBytes {
			log.Printf("upload photos: skipping %s, %d bytes over limit", header.Filename, header.Size)
			middleware.RecordPhotoUpload("rejected")
			continue
		}

		file, err := header.Open()
		if err != nil {
			log.Printf("upload photos: open %s: %v", header.Filename, err)
			middleware.RecordPhotoUpload("rejected")
			continue
		}

		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			log.Printf("upload photos: read %s: %v", header.Filename, err)
			middleware.RecordPhotoUpload("rejected")
			continue
		}

		result := h.Gateway.Store(r.Context(), data, mimeType, header.Filename)
		if result.Hosted != nil {
			urls = append(urls, result.Hosted.URL)
			middleware.RecordPhotoUpload("hosted")
		} else if result.Fallback != nil {
			photoData = append(photoData, entity.PhotoData{
				Name: result.Fallback.Name,
				Data: result.Fallback.Data,
				Size: result.Fallback.Size,
			})
			middleware.RecordPhotoUpload("fallback")
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"photos":    urls,
		"photoData": photoData,
	})
}

type attachPhotosRequest struct {
	LeadID      json.Number        `json:"leadId"`
	SubmittedAt string             `json:"submittedAt"`
	Photos      []string           `json:"photos"`
	PhotoData   []entity.PhotoData `json:"photoData"`
}

// HandleAttach reconciles an uploaded batch onto the lead that originated it.
// 404 only when no lead exists at all.
func (h *PhotoHandler) HandleAttach(w http.ResponseWriter, r *http.Request) {
	var req attachPhotosRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	leadID, _ := req.LeadID.Int64()

	out, err := h.Attach.Execute(r.Context(), usecase.AttachPhotosInput{
		LeadID:      leadID,
		SubmittedAt: req.SubmittedAt,
		Photos:      req.Photos,
		PhotoData:   req.PhotoData,
	})
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			writeFailure(w, http.StatusNotFound, "No leads to attach photos to")
			return
		}
		log.Printf("attach photos: %v", err)
		writeFailure(w, http.StatusInternalServerError, "Failed to attach photos")
		return
	}

	middleware.RecordPhotoAttachment(out.Match)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"leadId":  out.Lead.ID,
	})
}
