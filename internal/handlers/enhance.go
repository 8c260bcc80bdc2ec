package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"memoir/backend/internal/apperrors"
)

type EnhanceRequest struct {
	JournalText string `json:"journalText"`
}

type EnhanceResponse struct {
	EnhancedText string `json:"enhancedText"`
}

// Enhance sends the journal text to the model for a stylistic rewrite.
// A single synchronous attempt; the caller waits for the full response.
func (h *Handler) Enhance(w http.ResponseWriter, r *http.Request) {
	var req EnhanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.JournalText == "" {
		log.Println("Enhance request received without journal text.")
		writeError(w, http.StatusBadRequest, "No journal text provided")
		return
	}

	// Detached from the request context: a disconnecting caller does not
	// cancel the in-flight model call. No service-side timeout is imposed on
	// inference beyond the transport's own.
	enhanced, err := h.enhancer.Enhance(context.Background(), req.JournalText)
	if err != nil {
		var upstream *apperrors.UpstreamError
		switch {
		case errors.As(err, &upstream):
			log.Printf("Enhancement service error (status %d): %s", upstream.Status, upstream.Message)
			status := upstream.Status
			if status < 400 || status > 599 {
				status = http.StatusBadGateway
			}
			writeError(w, status, "Enhancement service error: "+upstream.Message)
		case errors.Is(err, apperrors.ErrUnavailable):
			log.Printf("Connection error to enhancement service: %v", err)
			writeError(w, http.StatusInternalServerError, "Could not connect to the enhancement service. Please ensure Ollama is running.")
		case errors.Is(err, apperrors.ErrMalformed):
			log.Printf("Malformed enhancement response: %v", err)
			writeError(w, http.StatusInternalServerError, "Unexpected response format from the enhancement service.")
		default:
			log.Printf("Unexpected enhancement failure: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to enhance text due to an unexpected error: "+err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, EnhanceResponse{EnhancedText: enhanced})
}
