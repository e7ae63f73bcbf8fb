package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/dagimaynadis/portfolio/backend/internal/model/chat"
	chatService "github.com/dagimaynadis/portfolio/backend/internal/service/chat"
)

const (
	readTimeout  = 60 * time.Second
	writeTimeout = 10 * time.Second
	pingInterval = 54 * time.Second
)

// WebSocketHandler serves chat turns over a websocket. Frames on one
// connection are answered strictly in order, one at a time.
type WebSocketHandler struct {
	chatSvc  Replier
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewWebSocketHandler creates the websocket handler.
func NewWebSocketHandler(chatSvc Replier, logger *zap.Logger) *WebSocketHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSocketHandler{
		chatSvc: chatSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger.With(zap.String("component", "websocket")),
	}
}

// connection serializes writes; gorilla allows one concurrent writer.
type connection struct {
	id      string
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *connection) writeFrame(frameType, id string, data any) error {
	frame := chat.Frame{Type: frameType, ID: id}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return err
		}
		frame.Data = raw
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(frame)
}

func (c *connection) ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	c := &connection{id: uuid.NewString(), conn: conn}
	logger := h.logger.With(zap.String("conn_id", c.id))
	logger.Info("connection opened", zap.String("client_session", r.Header.Get("X-Client-Session")))

	ctx, cancel := context.WithCancel(r.Context())
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
		logger.Info("connection closed")
	}()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	wg.Add(1)
	go func() {
		defer wg.Done()
		h.pingLoop(ctx, c)
	}()

	h.sendInfo(c, logger, map[string]any{"type": "connected", "connectionId": c.id})

	for {
		var frame chat.Frame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logger.Warn("read error", zap.Error(err))
			}
			return
		}

		h.handleFrame(ctx, c, logger, &frame)
		conn.SetReadDeadline(time.Now().Add(readTimeout))
	}
}

func (h *WebSocketHandler) handleFrame(ctx context.Context, c *connection, logger *zap.Logger, frame *chat.Frame) {
	switch frame.Type {
	case chat.FrameMessage:
		var payload chat.Request
		if len(frame.Data) > 0 {
			if err := json.Unmarshal(frame.Data, &payload); err != nil {
				h.sendReply(c, logger, frame.ID, chat.Response{Status: chat.StatusError, Message: chatService.MessageRequired})
				return
			}
		}

		status, resp := reply(ctx, h.chatSvc, payload.Message)
		if status >= http.StatusInternalServerError {
			logger.Error("chat request failed", zap.String("message", resp.Message))
		}
		h.sendReply(c, logger, frame.ID, resp)
	default:
		h.sendError(c, logger, frame.ID, "unsupported frame type: "+frame.Type)
	}
}

func (h *WebSocketHandler) sendReply(c *connection, logger *zap.Logger, id string, resp chat.Response) {
	if err := c.writeFrame(chat.FrameReply, id, resp); err != nil {
		logger.Warn("write reply failed", zap.Error(err))
	}
}

func (h *WebSocketHandler) sendInfo(c *connection, logger *zap.Logger, data map[string]any) {
	if err := c.writeFrame(chat.FrameInfo, "", data); err != nil {
		logger.Warn("write info failed", zap.Error(err))
	}
}

func (h *WebSocketHandler) sendError(c *connection, logger *zap.Logger, id, message string) {
	if err := c.writeFrame(chat.FrameError, id, map[string]string{"message": message}); err != nil {
		logger.Warn("write error failed", zap.Error(err))
	}
}

// pingLoop keeps idle connections alive until ctx ends.
func (h *WebSocketHandler) pingLoop(ctx context.Context, c *connection) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}
