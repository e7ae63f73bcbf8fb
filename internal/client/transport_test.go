package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dagimaynadis/portfolio/backend/internal/model/chat"
)

func TestHTTPTransportSuccess(t *testing.T) {
	sessions := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		sessions <- r.Header.Get(SessionHeader)

		var req chat.Request
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello", req.Message)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","response":"Hi there."}`))
	}))
	defer srv.Close()

	tr := NewHTTPTransport(srv.URL+"/", srv.Client())
	resp, err := tr.Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, "Hi there.", resp.Response)
	assert.NotEmpty(t, <-sessions)
}

func TestHTTPTransportErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":"error","message":"Message is required"}`))
	}))
	defer srv.Close()

	resp, err := NewHTTPTransport(srv.URL, nil).Send(context.Background(), "")
	require.NoError(t, err, "error envelopes are not transport failures")
	assert.False(t, resp.OK())
	assert.Equal(t, "Message is required", resp.Message)
}

func TestHTTPTransportFailures(t *testing.T) {
	htmlSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer htmlSrv.Close()

	_, err := NewHTTPTransport(htmlSrv.URL, nil).Send(context.Background(), "hello")
	require.ErrorIs(t, err, ErrTransport)

	closed := httptest.NewServer(http.NotFoundHandler())
	url := closed.URL
	closed.Close()

	_, err = NewHTTPTransport(url, nil).Send(context.Background(), "hello")
	require.ErrorIs(t, err, ErrTransport)
}

// wsServer answers message frames the way the chat websocket endpoint does,
// sending an info frame and an unrelated frame before each reply.
func wsServer(t *testing.T, connections *int32) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat/ws", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get(SessionHeader))

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		atomic.AddInt32(connections, 1)

		_ = conn.WriteJSON(chat.Frame{Type: chat.FrameInfo, Data: json.RawMessage(`{"type":"connected"}`)})

		for {
			var frame chat.Frame
			if err := conn.ReadJSON(&frame); err != nil {
				return
			}
			var req chat.Request
			_ = json.Unmarshal(frame.Data, &req)

			if req.Message == "drop" {
				return
			}

			_ = conn.WriteJSON(chat.Frame{Type: chat.FrameReply, ID: "other", Data: json.RawMessage(`{}`)})

			resp := chat.Response{Status: chat.StatusSuccess, Response: "echo: " + req.Message}
			if req.Message == "" {
				resp = chat.Response{Status: chat.StatusError, Message: "Message is required"}
			}
			data, _ := json.Marshal(resp)
			_ = conn.WriteJSON(chat.Frame{Type: chat.FrameReply, ID: frame.ID, Data: data})
		}
	}))
}

func TestWebSocketTransport(t *testing.T) {
	var connections int32
	srv := wsServer(t, &connections)
	defer srv.Close()

	tr := NewWebSocketTransport(srv.URL)
	defer tr.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := tr.Send(ctx, "first")
	require.NoError(t, err)
	assert.Equal(t, "echo: first", resp.Response)

	resp, err = tr.Send(ctx, "second")
	require.NoError(t, err)
	assert.Equal(t, "echo: second", resp.Response)

	resp, err = tr.Send(ctx, "")
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, "Message is required", resp.Message)

	assert.Equal(t, int32(1), atomic.LoadInt32(&connections), "connection is reused")
}

func TestWebSocketTransportRedials(t *testing.T) {
	var connections int32
	srv := wsServer(t, &connections)
	defer srv.Close()

	tr := NewWebSocketTransport(srv.URL)
	defer tr.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := tr.Send(ctx, "drop")
	require.ErrorIs(t, err, ErrTransport)

	resp, err := tr.Send(ctx, "again")
	require.NoError(t, err)
	assert.Equal(t, "echo: again", resp.Response)
	assert.Equal(t, int32(2), atomic.LoadInt32(&connections))
}

func TestWebSocketTransportURL(t *testing.T) {
	assert.Equal(t, "ws://localhost:8080/api/chat/ws", NewWebSocketTransport("http://localhost:8080/").url)
	assert.Equal(t, "wss://dagim.dev/api/chat/ws", NewWebSocketTransport("https://dagim.dev").url)
	assert.True(t, strings.HasSuffix(NewWebSocketTransport("ws://h:1").url, "/api/chat/ws"))
}

func TestWebSocketTransportDialFailure(t *testing.T) {
	closed := httptest.NewServer(http.NotFoundHandler())
	url := closed.URL
	closed.Close()

	_, err := NewWebSocketTransport(url).Send(context.Background(), "hello")
	require.ErrorIs(t, err, ErrTransport)
}
