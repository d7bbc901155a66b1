package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/parkerwhite/eqchat/internal/model/chat"
	"github.com/parkerwhite/eqchat/internal/service/history"
)

type noopCompleter struct{}

func (noopCompleter) Complete(context.Context, []chat.Message) (string, error) {
	return "ok", nil
}

type noopRecorder struct{}

func (noopRecorder) Enqueue(...chat.HistoryRow) {}

func TestHealthEndpoint(t *testing.T) {
	router := NewRouter(noopCompleter{}, noopRecorder{}, history.NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("unexpected status: %q", body["status"])
	}
	if body["message"] == "" {
		t.Fatal("expected a message field")
	}
}

func TestCORSPreflight(t *testing.T) {
	router := NewRouter(noopCompleter{}, noopRecorder{}, history.NewMemoryStore())

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected allow-origin header: %q", got)
	}
}
