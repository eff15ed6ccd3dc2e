// Package webhook exposes the fulfillment endpoint consumed by the NLU
// dialog platform.
package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	model "github.com/obot-ai/obotai-webhook-example/internal/model/webhook"
	"github.com/obot-ai/obotai-webhook-example/internal/service/conversation"
	"github.com/obot-ai/obotai-webhook-example/pkg/utils"
)

// Handler is the HTTP handler for the fulfillment webhook.
type Handler struct {
	engine *conversation.Engine
}

// New creates the webhook handler.
func New(engine *conversation.Engine) *Handler {
	return &Handler{engine: engine}
}

// RegisterRoutes registers the fulfillment endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/webhook", h.handleWebhook)
}

// handleWebhook validates the transport envelope, runs one engine turn
// and writes the fulfillment response. Non-JSON bodies are rejected
// before the engine is invoked.
func (h *Handler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r.Header.Get("Content-Type")) {
		utils.RespondError(w, http.StatusForbidden, "Content-Type must be application/json")
		return
	}

	var req model.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusForbidden, fmt.Sprintf("invalid JSON: %v", err))
		return
	}

	resp, err := h.engine.Handle(r.Context(), &req)
	if err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, resp)
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, conversation.ErrMissingSessionID),
		errors.Is(err, conversation.ErrMissingLanguageCode):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func isJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}
