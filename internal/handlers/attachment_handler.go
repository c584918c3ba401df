package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/iyunix/go-chatnest/internal/domain"
	"github.com/iyunix/go-chatnest/internal/dtos"
	"github.com/iyunix/go-chatnest/internal/services/attachment"
)

// Uploader stores files for a user and lists what they have kept.
type Uploader interface {
	Upload(ctx context.Context, req attachment.UploadRequest) (*domain.Attachment, error)
	List(ctx context.Context, userID uint) ([]domain.Attachment, error)
}

type AttachmentHandler struct {
	uploads        Uploader
	logger         Logger
	maxUploadBytes int64
}

func NewAttachmentHandler(uploads Uploader, logger Logger, maxUploadBytes int64) *AttachmentHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 20 << 20
	}
	return &AttachmentHandler{uploads: uploads, logger: logger, maxUploadBytes: maxUploadBytes}
}

// Upload handles POST /api/upload with a multipart "file" field.
func (h *AttachmentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	// Allow room for the multipart envelope around the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, "File too large", http.StatusRequestEntityTooLarge)
			return
		}
		writeError(w, "No file uploaded", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, "No file uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadBytes {
		writeError(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, r, h.logger, "upload", err)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	att, err := h.uploads.Upload(r.Context(), attachment.UploadRequest{
		UserID:      userID,
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		respondError(w, r, h.logger, "upload", err)
		return
	}

	writeJSON(w, http.StatusOK, dtos.ToUploadResponseDTO(att))
}

// ListAttachments handles GET /api/attachments.
func (h *AttachmentHandler) ListAttachments(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	atts, err := h.uploads.List(r.Context(), userID)
	if err != nil {
		respondError(w, r, h.logger, "list_attachments", err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.ToAttachmentResponseDTOs(atts))
}
