package session

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/parkerwhite/eqchat/internal/model/chat"
)

const (
	greeting      = "Hello! I'm your personal assistant. How can I help you today?"
	clearedNotice = "Chat cleared. How can I help you today?"
)

var (
	// ErrAuthRequired signals a send attempt without an identity. It is a
	// local error; no network call has been made.
	ErrAuthRequired = errors.New("you need to be signed in to send messages")

	// ErrSendInFlight guards against overlapping sends from one session.
	ErrSendInFlight = errors.New("a message is already being sent")
)

// Relay is the slice of the relay client a session depends on.
type Relay interface {
	SendMessage(ctx context.Context, userID string, messages []chat.Message) (string, error)
	History(ctx context.Context, userID string) ([]chat.Message, error)
}

// Identity supplies the current user, if any.
type Identity interface {
	CurrentUser() (chat.User, bool)
}

// Session owns the ordered message sequence for one conversation and
// orchestrates sends against the relay. A session always holds at least
// one assistant message: it is seeded with a greeting before any I/O.
type Session struct {
	relay    Relay
	identity Identity

	mu       sync.Mutex
	messages []chat.Message
	sending  bool
}

// New seeds the session with the assistant greeting.
func New(relay Relay, identity Identity) *Session {
	s := &Session{relay: relay, identity: identity}
	s.messages = []chat.Message{chat.NewMessage(chat.RoleAssistant, greeting)}
	return s
}

// Messages returns a read-only snapshot of the conversation.
func (s *Session) Messages() []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]chat.Message, len(s.messages))
	copy(copied, s.messages)
	return copied
}

// Sending reports whether a send is outstanding. Callers disable the send
// affordance while this is true.
func (s *Session) Sending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sending
}

// Append adds a message to the end of the conversation.
func (s *Session) Append(message chat.Message) {
	s.mu.Lock()
	s.messages = append(s.messages, message)
	s.mu.Unlock()
}

// ReplaceAll swaps the whole conversation for the supplied sequence.
func (s *Session) ReplaceAll(messages []chat.Message) {
	copied := make([]chat.Message, len(messages))
	copy(copied, messages)

	s.mu.Lock()
	s.messages = copied
	s.mu.Unlock()
}

// LoadHistory replays the stored transcript. A non-empty replay replaces
// everything, including the seeded greeting. An empty or failed replay
// keeps the greeting and surfaces nothing to the user.
func (s *Session) LoadHistory(ctx context.Context) {
	user, ok := s.identity.CurrentUser()
	if !ok {
		return
	}

	history, err := s.relay.History(ctx, user.ID)
	if err != nil {
		log.Printf("[session] failed to load chat history: %v", err)
		return
	}
	if len(history) == 0 {
		return
	}

	s.ReplaceAll(history)
}

// Send appends the user's message optimistically, forwards the entire
// conversation to the relay, and appends the reply on success. The
// optimistic user message stays in place when the send fails.
func (s *Session) Send(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	user, ok := s.identity.CurrentUser()
	if !ok {
		return ErrAuthRequired
	}

	s.mu.Lock()
	if s.sending {
		s.mu.Unlock()
		return ErrSendInFlight
	}
	s.sending = true
	s.messages = append(s.messages, chat.NewMessage(chat.RoleUser, text))
	snapshot := make([]chat.Message, len(s.messages))
	copy(snapshot, s.messages)
	s.mu.Unlock()

	reply, err := s.relay.SendMessage(ctx, user.ID, snapshot)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sending = false
	if err != nil {
		return err
	}

	s.messages = append(s.messages, chat.NewMessage(chat.RoleAssistant, reply))
	return nil
}

// Clear discards the conversation and reseeds it with a fresh notice.
// Nothing is sent or persisted.
func (s *Session) Clear() {
	s.mu.Lock()
	s.messages = []chat.Message{chat.NewMessage(chat.RoleAssistant, clearedNotice)}
	s.mu.Unlock()
}
