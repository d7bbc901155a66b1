package chat

import "time"

// User is the locally minted identity that partitions stored history.
// Name and email are optional profile fields; an empty string means absent.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// HistoryRow is one persisted conversation turn, as stored server-side.
// Rows are written in pairs (user turn + assistant turn) after each
// successful exchange.
type HistoryRow struct {
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
