package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/salesops/go-sales-csv/internal/service"
)

// EnqueueHandler is the HTTP front door for queueing report jobs.
type EnqueueHandler struct {
	enqueuer *service.Enqueuer
	logger   *slog.Logger
}

func NewEnqueueHandler(e *service.Enqueuer, l *slog.Logger) *EnqueueHandler {
	return &EnqueueHandler{
		enqueuer: e,
		logger:   l,
	}
}

func (h *EnqueueHandler) EnqueueSalesCSV(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "request body required")
		return
	}

	res, err := h.enqueuer.Enqueue(r.Context(), body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyBody):
			writeError(w, http.StatusBadRequest, "request body required")
		case errors.Is(err, service.ErrInvalidJSON):
			writeError(w, http.StatusBadRequest, "invalid JSON")
		case service.IsValidationError(err):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Enqueue failed", "error", err)
			writeError(w, http.StatusBadGateway, "queue unavailable")
		}
		return
	}

	if res.Status == "scheduled" {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":         res.Status,
			"sequenceNumber": res.SequenceNumber,
			"runAtUtc":       res.RunAtUtc,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    res.Status,
		"messageId": res.MessageID,
	})
}
