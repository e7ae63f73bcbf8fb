package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/dagimaynadis/portfolio/backend/internal/model/chat"
	chatservice "github.com/dagimaynadis/portfolio/backend/internal/service/chat"
	"github.com/dagimaynadis/portfolio/backend/internal/service/knowledge"
)

type stubGenerator struct {
	content string
	err     error
	calls   int
}

func (g *stubGenerator) Generate(context.Context, []*schema.Message) (*schema.Message, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return schema.AssistantMessage(g.content, nil), nil
}

func setupRouter(gen chatservice.Generator) *chi.Mux {
	svc := chatservice.NewService(gen, knowledge.Static("Dagim is a developer."), chatservice.Options{}, zap.NewNop())
	handler := New(svc, zap.NewNop())

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func postChat(t *testing.T, r http.Handler, body string) (*httptest.ResponseRecorder, chat.Response) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var envelope chat.Response
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, resp.Body.String())
	}
	return resp, envelope
}

func TestPostChatSuccess(t *testing.T) {
	gen := &stubGenerator{content: "Dagim offers web development."}
	r := setupRouter(gen)

	payload, _ := json.Marshal(chat.Request{Message: "What services do you offer?"})
	resp, envelope := postChat(t, r, string(payload))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("unexpected content type %q", got)
	}
	if envelope.Status != chat.StatusSuccess || envelope.Response != "Dagim offers web development." {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
}

func TestPostChatMissingMessage(t *testing.T) {
	gen := &stubGenerator{content: "unused"}
	r := setupRouter(gen)

	for _, body := range []string{`{}`, `{"message":""}`, `{"message":"   "}`, `not json`, ``} {
		resp, envelope := postChat(t, r, body)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, resp.Code)
		}
		if envelope.Status != chat.StatusError || envelope.Message != "Message is required" {
			t.Fatalf("body %q: unexpected envelope %+v", body, envelope)
		}
	}
	if gen.calls != 0 {
		t.Fatalf("provider must not be called, got %d calls", gen.calls)
	}
}

func TestPostChatWithoutProvider(t *testing.T) {
	r := setupRouter(nil)

	resp, envelope := postChat(t, r, `{"message":"What services do you offer?"}`)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	want := "API key not configured. Please add GROQ_API_KEY to your environment."
	if envelope.Status != chat.StatusError || envelope.Message != want {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
}

func TestPostChatProviderFailure(t *testing.T) {
	r := setupRouter(&stubGenerator{err: errors.New("rate limited")})

	resp, envelope := postChat(t, r, `{"message":"hello"}`)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if envelope.Status != chat.StatusError || !strings.Contains(envelope.Message, "rate limited") {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
}

type blankErrReplier struct{}

func (blankErrReplier) Reply(context.Context, string) (chatservice.Reply, error) {
	return chatservice.Reply{}, errors.New("")
}

func TestPostChatEmptyErrorDetail(t *testing.T) {
	handler := New(blankErrReplier{}, zap.NewNop())
	r := chi.NewRouter()
	handler.RegisterRoutes(r)

	resp, envelope := postChat(t, r, `{"message":"hello"}`)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if envelope.Message != "Internal server error" {
		t.Fatalf("unexpected message %q", envelope.Message)
	}
}

func TestPostChatWrongMethod(t *testing.T) {
	r := setupRouter(&stubGenerator{content: "x"})

	req := httptest.NewRequest(http.MethodGet, "/chat", bytes.NewReader(nil))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.Code)
	}
}

func dialChat(t *testing.T, r http.Handler) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/chat/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var hello chat.Frame
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("read connected frame: %v", err)
	}
	if hello.Type != chat.FrameInfo {
		t.Fatalf("expected info frame, got %q", hello.Type)
	}
	return conn
}

func exchange(t *testing.T, conn *websocket.Conn, frame chat.Frame) chat.Frame {
	t.Helper()

	if err := conn.WriteJSON(frame); err != nil {
		t.Fatalf("write: %v", err)
	}
	var out chat.Frame
	if err := conn.ReadJSON(&out); err != nil {
		t.Fatalf("read: %v", err)
	}
	return out
}

func TestWebSocketReply(t *testing.T) {
	conn := dialChat(t, setupRouter(&stubGenerator{content: "Hello there."}))

	data, _ := json.Marshal(chat.Request{Message: "hi"})
	out := exchange(t, conn, chat.Frame{Type: chat.FrameMessage, ID: "1", Data: data})

	if out.Type != chat.FrameReply || out.ID != "1" {
		t.Fatalf("unexpected frame: %+v", out)
	}
	var resp chat.Response
	if err := json.Unmarshal(out.Data, &resp); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if !resp.OK() || resp.Response != "Hello there." {
		t.Fatalf("unexpected reply: %+v", resp)
	}
}

func TestWebSocketEmptyMessage(t *testing.T) {
	conn := dialChat(t, setupRouter(&stubGenerator{content: "unused"}))

	out := exchange(t, conn, chat.Frame{Type: chat.FrameMessage, ID: "2"})

	var resp chat.Response
	if err := json.Unmarshal(out.Data, &resp); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if resp.Status != chat.StatusError || resp.Message != "Message is required" {
		t.Fatalf("unexpected reply: %+v", resp)
	}
}

func TestWebSocketUnsupportedFrame(t *testing.T) {
	conn := dialChat(t, setupRouter(&stubGenerator{content: "unused"}))

	out := exchange(t, conn, chat.Frame{Type: "audio", ID: "3"})
	if out.Type != chat.FrameError || out.ID != "3" {
		t.Fatalf("unexpected frame: %+v", out)
	}
}
