package history

import (
	"context"

	"github.com/parkerwhite/eqchat/internal/model/chat"
)

// Store persists conversation rows keyed by user id. ListByUser returns
// rows ordered by creation time ascending, and an empty slice when the
// user has none.
type Store interface {
	Save(ctx context.Context, row chat.HistoryRow) error
	ListByUser(ctx context.Context, userID string) ([]chat.HistoryRow, error)
}
