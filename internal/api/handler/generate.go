package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/salesops/go-sales-csv/internal/models"
	"github.com/salesops/go-sales-csv/internal/service"
)

// GenerateHandler exposes synchronous report generation. The body is
// optional; an empty one resolves to the default lookback window.
type GenerateHandler struct {
	generator *service.Generator
	logger    *slog.Logger
}

func NewGenerateHandler(g *service.Generator, l *slog.Logger) *GenerateHandler {
	return &GenerateHandler{
		generator: g,
		logger:    l,
	}
}

func (h *GenerateHandler) GenerateSalesCSV(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	var payload *models.JobPayload
	if len(bytes.TrimSpace(body)) > 0 {
		payload = &models.JobPayload{}
		if err := json.Unmarshal(body, payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
	}

	res, err := h.generator.Generate(r.Context(), payload)
	if err != nil {
		if service.IsValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Generation failed", "error", err)
		writeError(w, http.StatusBadGateway, "report generation failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "CSV generated",
		"blob":    res.Locator,
		"from":    res.From,
		"to":      res.To,
		"rows":    res.Rows,
	})
}
