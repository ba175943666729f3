package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/KAFKA2306/chat-code-architect-ai2/internal/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The relay carries no credentials and serves ephemeral replies only;
	// cross-origin pages may connect.
	CheckOrigin: func(*http.Request) bool { return true },
}

// relayFrame is an inbound websocket message.
type relayFrame struct {
	Type      string `json:"type"`
	Content   string `json:"content"`
	SessionID uint   `json:"sessionId,omitempty"`
	Context   string `json:"context,omitempty"`
}

// relayReply is an outbound chat_response frame.
type relayReply struct {
	Type      string          `json:"type"`
	Content   string          `json:"content"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	Timestamp string          `json:"timestamp"`
}

// relayError is an outbound error frame. Per-frame errors never close the
// connection; only transport-level failures do.
type relayError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Relay upgrades the connection and serves the real-time chat channel.
// Frames are handled in arrival order; each chat frame triggers exactly one
// collaborator call and at most one reply. Replies are ephemeral and never
// persisted.
func (h *Handler) Relay(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	connID := uuid.New().String()
	log := h.log.With("connId", connID)
	log.Info("relay client connected", "remote", r.RemoteAddr)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Info("relay client disconnected", "error", err)
			return
		}

		var frame relayFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			h.relaySendError(conn, log, "Failed to process message")
			continue
		}

		if frame.Type != "chat" {
			h.relaySendError(conn, log, "Unrecognized message type")
			continue
		}

		reply, err := h.chatService.EphemeralResponse(r.Context(), frame.Content, frame.SessionID, frame.Context)
		if err != nil {
			log.Warn("relay collaborator call failed", "error", err)
			h.relaySendError(conn, log, "Failed to process message")
			continue
		}

		out := relayReply{
			Type:      "chat_response",
			Content:   reply.Content,
			Metadata:  reply.Metadata,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
		if err := conn.WriteJSON(out); err != nil {
			log.Info("relay write failed, closing", "error", err)
			return
		}
	}
}

func (h *Handler) relaySendError(conn *websocket.Conn, log *logger.Logger, msg string) {
	if err := conn.WriteJSON(relayError{Type: "error", Message: msg}); err != nil {
		log.Warn("relay error-frame write failed", "error", err)
	}
}
