package history

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/parkerwhite/eqchat/internal/model/chat"
)

const defaultQueueSize = 64

// Writer persists rows in the background so an HTTP response is never
// delayed by the store. Failures are logged and swallowed; they must not
// reach the request that triggered the write.
type Writer struct {
	store Store
	jobs  chan chat.HistoryRow

	stopOnce sync.Once
	done     chan struct{}
}

// NewWriter starts the background persistence worker.
func NewWriter(store Store) *Writer {
	w := &Writer{
		store: store,
		jobs:  make(chan chat.HistoryRow, defaultQueueSize),
		done:  make(chan struct{}),
	}
	go w.run()
	return w
}

// Enqueue hands rows to the worker. When the queue is full the row is
// dropped with a log line rather than blocking the caller.
func (w *Writer) Enqueue(rows ...chat.HistoryRow) {
	for _, row := range rows {
		if row.CreatedAt.IsZero() {
			row.CreatedAt = time.Now().UTC()
		}
		select {
		case w.jobs <- row:
		default:
			log.Printf("[history] queue full, dropping row for user=%s role=%s", row.UserID, row.Role)
		}
	}
}

// Stop drains outstanding rows and shuts the worker down.
func (w *Writer) Stop() {
	w.stopOnce.Do(func() {
		close(w.jobs)
		<-w.done
	})
}

func (w *Writer) run() {
	defer close(w.done)
	for row := range w.jobs {
		if err := w.store.Save(context.Background(), row); err != nil {
			log.Printf("[history] failed to persist row for user=%s role=%s: %v", row.UserID, row.Role, err)
		}
	}
}
