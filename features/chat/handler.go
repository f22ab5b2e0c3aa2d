package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"docchat/backend/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type chatRequest struct {
	Message             string    `json:"message"`
	ConversationHistory []Message `json:"conversationHistory"`
}

// sseEvent is the single buffered frame emitted on the event-stream variant.
// The whole completion arrives in one chunk with done set.
type sseEvent struct {
	Chunk   string      `json:"chunk"`
	Done    bool        `json:"done"`
	Sources interface{} `json:"sources"`
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Covers malformed JSON and non-string message values.
		h.writeError(r.Context(), w, "VALIDATION_ERROR", "message must be a string", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		h.writeError(r.Context(), w, "VALIDATION_ERROR", "message is required", http.StatusBadRequest)
		return
	}

	answer, err := h.service.Ask(r.Context(), req.Message, req.ConversationHistory)
	if err != nil {
		slog.ErrorContext(r.Context(), "chat failed", "error", err)
		h.writeError(r.Context(), w, "INTERNAL_ERROR", "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "text/event-stream") {
		h.writeEventStream(w, answer)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(answer); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeEventStream(w http.ResponseWriter, answer *Answer) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	payload, err := json.Marshal(sseEvent{
		Chunk:   answer.Response,
		Done:    true,
		Sources: answer.Sources,
	})
	if err != nil {
		slog.Error("failed to encode sse event", "error", err)
		return
	}

	if _, err := w.Write(append(append([]byte("data: "), payload...), '\n', '\n')); err != nil {
		slog.Error("failed to write sse event", "error", err)
		return
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, code, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
		"correlationId": middleware.GetCorrelationID(ctx),
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}
