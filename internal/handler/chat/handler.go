package chat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dagimaynadis/portfolio/backend/internal/model/chat"
	chatService "github.com/dagimaynadis/portfolio/backend/internal/service/chat"
	"github.com/dagimaynadis/portfolio/backend/pkg/utils"
)

// maxBodyBytes bounds the POST /chat request body.
const maxBodyBytes = 64 << 10

// Replier answers a single chat message.
type Replier interface {
	Reply(ctx context.Context, message string) (chatService.Reply, error)
}

// Handler serves the chat endpoints.
type Handler struct {
	chatSvc Replier
	ws      *WebSocketHandler
	logger  *zap.Logger
}

// New creates the chat handler.
func New(chatSvc Replier, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		chatSvc: chatSvc,
		ws:      NewWebSocketHandler(chatSvc, logger),
		logger:  logger.With(zap.String("component", "chat-handler")),
	}
}

// RegisterRoutes mounts POST /chat and GET /chat/ws.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/chat/ws", h.ws.handleWebSocket)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chat.Request
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, chatService.MessageRequired)
		return
	}

	status, resp := reply(r.Context(), h.chatSvc, payload.Message)
	if status >= http.StatusInternalServerError {
		h.logger.Error("chat request failed", zap.Int("status", status), zap.String("message", resp.Message))
	}
	utils.RespondJSON(w, status, resp)
}

// reply runs one turn and maps the outcome onto the response envelope.
func reply(ctx context.Context, svc Replier, message string) (int, chat.Response) {
	result, err := svc.Reply(ctx, message)
	switch {
	case err == nil:
		return http.StatusOK, chat.Response{Status: chat.StatusSuccess, Response: result.Text}
	case errors.Is(err, chatService.ErrMessageRequired):
		return http.StatusBadRequest, chat.Response{Status: chat.StatusError, Message: chatService.MessageRequired}
	default:
		detail := err.Error()
		if detail == "" {
			detail = "Internal server error"
		}
		return http.StatusInternalServerError, chat.Response{Status: chat.StatusError, Message: detail}
	}
}
