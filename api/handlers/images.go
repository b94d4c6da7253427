package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"imageImporter/api/dto"
	"imageImporter/api/middleware"
	"imageImporter/api/validation"
)

type ImageService interface {
	List(ctx context.Context, limit, offset int) (*dto.ImageListResponse, error)
}

type ImagesHandler struct {
	responder
	service ImageService
}

func NewImagesHandler(service ImageService, logger *zap.Logger) *ImagesHandler {
	return &ImagesHandler{
		responder: responder{logger: logger},
		service:   service,
	}
}

func (h *ImagesHandler) List(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())
	query := r.URL.Query()

	limit, offset, err := validation.Pagination(query.Get("limit"), query.Get("offset"))
	if err != nil {
		h.handleError(w, err.Error(), err, traceID, http.StatusBadRequest, "invalid_pagination")
		return
	}

	resp, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		h.handleError(w, "Failed to list images", err, traceID, http.StatusInternalServerError, "internal_error")
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}
