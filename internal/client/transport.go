package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dagimaynadis/portfolio/backend/internal/model/chat"
)

// SessionHeader carries the client session id for server-side log correlation.
const SessionHeader = "X-Client-Session"

// ErrTransport wraps every failure to reach the chat endpoint or read its reply.
var ErrTransport = errors.New("chat transport failed")

// Transport delivers one message to the chat endpoint and returns its
// envelope. Error-status envelopes are returned with a nil error.
type Transport interface {
	Send(ctx context.Context, message string) (chat.Response, error)
}

// HTTPTransport posts to /api/chat.
type HTTPTransport struct {
	endpoint string
	client   *http.Client
	session  string
}

// NewHTTPTransport targets baseURL, e.g. "http://localhost:8080". A nil
// client means http.DefaultClient.
func NewHTTPTransport(baseURL string, client *http.Client) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{
		endpoint: strings.TrimRight(baseURL, "/") + "/api/chat",
		client:   client,
		session:  uuid.NewString(),
	}
}

// Send posts message and decodes the envelope whatever the status code.
func (t *HTTPTransport) Send(ctx context.Context, message string) (chat.Response, error) {
	body, err := json.Marshal(chat.Request{Message: message})
	if err != nil {
		return chat.Response{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return chat.Response{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SessionHeader, t.session)

	resp, err := t.client.Do(req)
	if err != nil {
		return chat.Response{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	var envelope chat.Response
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&envelope); err != nil {
		return chat.Response{}, fmt.Errorf("%w: decode %s response: %v", ErrTransport, resp.Status, err)
	}
	return envelope, nil
}

// WebSocketTransport sends messages over /api/chat/ws, dialing lazily and
// redialing after a failure. Sends are serialized.
type WebSocketTransport struct {
	url     string
	dialer  *websocket.Dialer
	session string

	mu   sync.Mutex
	conn *websocket.Conn
	seq  uint64
}

// NewWebSocketTransport targets baseURL, e.g. "http://localhost:8080".
func NewWebSocketTransport(baseURL string) *WebSocketTransport {
	url := strings.TrimRight(baseURL, "/")
	switch {
	case strings.HasPrefix(url, "https://"):
		url = "wss://" + strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		url = "ws://" + strings.TrimPrefix(url, "http://")
	}

	return &WebSocketTransport{
		url:     url + "/api/chat/ws",
		dialer:  &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		session: uuid.NewString(),
	}
}

// Send writes one message frame and waits for the matching reply frame.
func (t *WebSocketTransport) Send(ctx context.Context, message string) (chat.Response, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	resp, err := t.exchange(ctx, message)
	if err != nil {
		t.closeLocked()
		return chat.Response{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return resp, nil
}

func (t *WebSocketTransport) exchange(ctx context.Context, message string) (chat.Response, error) {
	if t.conn == nil {
		header := http.Header{}
		header.Set(SessionHeader, t.session)
		conn, _, err := t.dialer.DialContext(ctx, t.url, header)
		if err != nil {
			return chat.Response{}, err
		}
		t.conn = conn
	}
	conn := t.conn

	// Unblock reads and writes when ctx ends.
	stop := context.AfterFunc(ctx, func() {
		conn.SetReadDeadline(time.Now())
		conn.SetWriteDeadline(time.Now())
	})
	defer stop()

	data, err := json.Marshal(chat.Request{Message: message})
	if err != nil {
		return chat.Response{}, err
	}
	t.seq++
	id := strconv.FormatUint(t.seq, 10)

	if err := conn.WriteJSON(chat.Frame{Type: chat.FrameMessage, ID: id, Data: data}); err != nil {
		return chat.Response{}, err
	}

	for {
		var frame chat.Frame
		if err := conn.ReadJSON(&frame); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return chat.Response{}, ctxErr
			}
			return chat.Response{}, err
		}
		if frame.ID != id {
			continue
		}

		switch frame.Type {
		case chat.FrameReply:
			var resp chat.Response
			if err := json.Unmarshal(frame.Data, &resp); err != nil {
				return chat.Response{}, fmt.Errorf("decode reply: %w", err)
			}
			return resp, nil
		case chat.FrameError:
			var payload struct {
				Message string `json:"message"`
			}
			_ = json.Unmarshal(frame.Data, &payload)
			return chat.Response{Status: chat.StatusError, Message: payload.Message}, nil
		}
	}
}

// Close drops the connection, if any.
func (t *WebSocketTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closeLocked()
}

func (t *WebSocketTransport) closeLocked() error {
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}
