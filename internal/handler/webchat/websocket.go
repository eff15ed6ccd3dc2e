// Package webchat provides a WebSocket channel that lets a developer
// drive the conversation engine directly, without the NLU platform in
// front of it.
package webchat

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/obot-ai/obotai-webhook-example/internal/model/webchat"
	model "github.com/obot-ai/obotai-webhook-example/internal/model/webhook"
	"github.com/obot-ai/obotai-webhook-example/internal/service/conversation"
)

const defaultLanguageCode = "en"

// Handler is the WebSocket chat handler.
type Handler struct {
	engine   *conversation.Engine
	upgrader websocket.Upgrader
}

// New creates the WebSocket handler.
func New(engine *conversation.Engine) *Handler {
	return &Handler{
		engine: engine,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers the WebSocket endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/webchat/ws", h.handleWebSocket)
}

type inboundMessage struct {
	Text         string `json:"text"`
	SessionID    string `json:"sessionId,omitempty"`
	LanguageCode string `json:"languageCode,omitempty"`
}

type outgoingMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Response  *model.Response `json:"response,omitempty"`
	Error     string          `json:"error,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// handleWebSocket runs one engine turn per inbound frame. Each
// connection gets a fresh session id unless the client supplies one.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[webchat] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sessionID := uuid.NewString()
	log.Printf("[webchat] connection opened session=%s", sessionID)

	for {
		var in inboundMessage
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[webchat] read failed: %v", err)
			}
			return
		}

		if in.SessionID != "" {
			sessionID = in.SessionID
		}

		resp, err := h.engine.Handle(r.Context(), buildRequest(sessionID, in))
		if err != nil {
			h.write(conn, outgoingMessage{
				Type:      "error",
				SessionID: sessionID,
				Error:     err.Error(),
			})
			continue
		}

		h.write(conn, outgoingMessage{
			Type:      "response",
			SessionID: sessionID,
			Response:  resp,
		})
	}
}

// buildRequest synthesizes the platform request for one chat frame.
func buildRequest(sessionID string, in inboundMessage) *model.Request {
	languageCode := in.LanguageCode
	if languageCode == "" {
		languageCode = defaultLanguageCode
	}

	return &model.Request{
		QueryResult: model.QueryResult{
			QueryText:    in.Text,
			LanguageCode: languageCode,
		},
		OriginalDetectIntentRequest: model.OriginalDetectIntentRequest{
			Payload: model.OriginalPayload{
				Platform:  webchat.Platform,
				SessionID: sessionID,
			},
		},
	}
}

func (h *Handler) write(conn *websocket.Conn, msg outgoingMessage) {
	msg.Timestamp = time.Now().UnixMilli()
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[webchat] write failed: %v", err)
	}
}
