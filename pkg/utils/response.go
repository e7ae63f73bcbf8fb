package utils

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/dagimaynadis/portfolio/backend/internal/model/chat"
)

// RespondJSON writes payload as a JSON body with the given status.
func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Warn("failed to encode response", zap.Error(err))
	}
}

// RespondSuccess writes a 200 envelope carrying the assistant reply.
func RespondSuccess(w http.ResponseWriter, response string) {
	RespondJSON(w, http.StatusOK, chat.Response{Status: chat.StatusSuccess, Response: response})
}

// RespondError writes an error envelope. An empty message becomes
// "Internal server error".
func RespondError(w http.ResponseWriter, status int, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondJSON(w, status, chat.Response{Status: chat.StatusError, Message: message})
}
