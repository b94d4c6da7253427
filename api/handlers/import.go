package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"imageImporter/api/dto"
	"imageImporter/api/middleware"
	"imageImporter/api/validation"
)

const maxImportBody = 64 << 10

type ImportService interface {
	Enqueue(ctx context.Context, traceID string, req *dto.ImportRequest) (*dto.ImportResponse, error)
}

type ImportHandler struct {
	responder
	service ImportService
}

func NewImportHandler(service ImportService, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{
		responder: responder{logger: logger},
		service:   service,
	}
}

// GoogleDrive handles POST /import/google-drive.
func (h *ImportHandler) GoogleDrive(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	var req dto.ImportRequest
	err := json.NewDecoder(io.LimitReader(r.Body, maxImportBody)).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		h.handleError(w, "Invalid request body", err, traceID, http.StatusBadRequest, "invalid_body")
		return
	}

	resp, err := h.service.Enqueue(r.Context(), traceID, &req)
	if err != nil {
		if errors.Is(err, validation.ErrFolderRequired) {
			h.handleError(w, err.Error(), err, traceID, http.StatusBadRequest, "folder_required")
			return
		}
		h.handleError(w, "Failed to enqueue import", err, traceID, http.StatusInternalServerError, "enqueue_failed")
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}
