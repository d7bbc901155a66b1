package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/parkerwhite/eqchat/internal/config"
	"github.com/parkerwhite/eqchat/internal/handler"
	"github.com/parkerwhite/eqchat/internal/service/history"
	"github.com/parkerwhite/eqchat/internal/service/llm"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	completer, err := llm.NewClient(cfg.LLM)
	if err != nil {
		log.Fatalf("failed to initialize completion client: %v", err)
	}

	store, closeStore := newHistoryStore(ctx, cfg.Database)
	defer closeStore()

	writer := history.NewWriter(store)
	defer writer.Stop()

	router := handler.NewRouter(completer, writer, store)

	startServer(ctx, cfg.Server, router)
}

// newHistoryStore selects Postgres when a DATABASE_URL is configured and
// falls back to the in-memory store otherwise.
func newHistoryStore(ctx context.Context, cfg config.DatabaseConfig) (history.Store, func()) {
	if cfg.URL == "" {
		log.Println("DATABASE_URL not set, using in-memory history store")
		return history.NewMemoryStore(), func() {}
	}

	store, err := history.NewPostgresStore(ctx, cfg.URL)
	if err != nil {
		log.Fatalf("failed to connect to history database: %v", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("failed to prepare history schema: %v", err)
	}

	log.Println("history store connected")
	return store, store.Close
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("EQ Chat relay listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
