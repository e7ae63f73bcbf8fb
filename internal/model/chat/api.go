package chat

import "encoding/json"

// Envelope status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Request is the body of POST /api/chat.
type Request struct {
	Message string `json:"message"`
}

// Response is the uniform envelope returned by the chat endpoints. Response
// is set on success, Message on error.
type Response struct {
	Status   string `json:"status"`
	Response string `json:"response,omitempty"`
	Message  string `json:"message,omitempty"`
}

// OK reports whether the envelope carries a reply.
func (r Response) OK() bool {
	return r.Status == StatusSuccess
}

// Websocket frame types.
const (
	FrameMessage = "message"
	FrameReply   = "reply"
	FrameInfo    = "info"
	FrameError   = "error"
)

// Frame is a websocket message. Inbound frames of type "message" carry a
// Request in Data; outbound "reply" frames carry a Response.
type Frame struct {
	Type string          `json:"type"`
	ID   string          `json:"id,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}
