package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"imageImporter/api/dto"
)

type responder struct {
	logger *zap.Logger
}

func (h responder) handleError(w http.ResponseWriter, message string, err error, traceID string, status int, code string) {
	fields := []zap.Field{
		zap.String("trace_id", traceID),
		zap.String("code", code),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error(message, fields...)
	} else {
		h.logger.Warn(message, fields...)
	}

	h.respondJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Code:    code,
		TraceID: traceID,
	})
}

func (h responder) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
