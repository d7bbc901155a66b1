package chat

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	chatModel "github.com/parkerwhite/eqchat/internal/model/chat"
	"github.com/parkerwhite/eqchat/internal/service/history"
)

// Client-facing error strings are fixed; upstream detail stays in the log.
const (
	msgInvalidRequest = "Invalid request. userId and messages array required."
	msgChatFailed     = "Failed to process chat request"
	msgHistoryFailed  = "Failed to fetch chat history"
)

// Completer generates an assistant reply from the full conversation.
type Completer interface {
	Complete(ctx context.Context, messages []chatModel.Message) (string, error)
}

// Recorder accepts rows for background persistence. Enqueue must not
// block or fail the request that triggered it.
type Recorder interface {
	Enqueue(rows ...chatModel.HistoryRow)
}

// Handler serves the relay's chat endpoints.
type Handler struct {
	completer Completer
	recorder  Recorder
	store     history.Store
}

// New creates the chat handler.
func New(completer Completer, recorder Recorder, store history.Store) *Handler {
	return &Handler{
		completer: completer,
		recorder:  recorder,
		store:     store,
	}
}

// RegisterRoutes mounts the chat endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/chat/history/{userID}", h.handleHistory)
}

type chatRequest struct {
	UserID   string `json:"userId"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	if payload.UserID == "" || len(payload.Messages) == 0 {
		respondError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	messages := make([]chatModel.Message, 0, len(payload.Messages))
	for _, m := range payload.Messages {
		messages = append(messages, chatModel.Message{
			Role:    chatModel.Role(m.Role),
			Content: m.Content,
		})
	}

	reply, err := h.completer.Complete(r.Context(), messages)
	if err != nil {
		log.Printf("[relay] completion failed for user=%s: %v", payload.UserID, err)
		respondError(w, http.StatusInternalServerError, msgChatFailed)
		return
	}

	// Persist the exchanged pair without holding up the response. The
	// user turn is the last message of the submitted conversation.
	last := payload.Messages[len(payload.Messages)-1]
	h.recorder.Enqueue(
		chatModel.HistoryRow{UserID: payload.UserID, Role: "user", Content: last.Content},
		chatModel.HistoryRow{UserID: payload.UserID, Role: "assistant", Content: reply},
	)

	respondJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

type historyRow struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	rows, err := h.store.ListByUser(r.Context(), userID)
	if err != nil {
		log.Printf("[relay] history fetch failed for user=%s: %v", userID, err)
		respondError(w, http.StatusInternalServerError, msgHistoryFailed)
		return
	}

	wire := make([]historyRow, 0, len(rows))
	for _, row := range rows {
		wire = append(wire, historyRow{
			Role:      row.Role,
			Content:   row.Content,
			CreatedAt: row.CreatedAt.Format(time.RFC3339),
		})
	}

	respondJSON(w, http.StatusOK, map[string][]historyRow{"history": wire})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
