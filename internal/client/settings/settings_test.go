package settings

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "config.toml"))

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if got.UserID != "" {
		t.Fatalf("expected empty user id, got %q", got.UserID)
	}
	if got.APIURL != DefaultAPIURL {
		t.Fatalf("expected default API URL, got %q", got.APIURL)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "config.toml"))

	want := Settings{UserID: "u-123", APIURL: "https://relay.example.com"}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save err: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, want)
	}
}

func TestSetAPIURLPreservesIdentity(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "config.toml"))

	// A settings snapshot taken before sign-in carries no user id.
	before, err := store.Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if before.UserID != "" {
		t.Fatalf("expected empty user id in fresh snapshot, got %q", before.UserID)
	}

	// An identity is minted and persisted afterwards.
	if err := store.Save(Settings{UserID: "u-minted", APIURL: before.APIURL}); err != nil {
		t.Fatalf("Save err: %v", err)
	}

	// Changing the relay address must not clobber it.
	if err := store.SetAPIURL("https://relay.example.com"); err != nil {
		t.Fatalf("SetAPIURL err: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if got.UserID != "u-minted" {
		t.Fatalf("identity lost on URL change: got %q", got.UserID)
	}
	if got.APIURL != "https://relay.example.com" {
		t.Fatalf("unexpected API URL: %q", got.APIURL)
	}
}

func TestSaveOverwrites(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "config.toml"))

	if err := store.Save(Settings{UserID: "first", APIURL: DefaultAPIURL}); err != nil {
		t.Fatalf("Save err: %v", err)
	}
	if err := store.Save(Settings{UserID: "", APIURL: DefaultAPIURL}); err != nil {
		t.Fatalf("Save err: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if got.UserID != "" {
		t.Fatalf("expected cleared user id, got %q", got.UserID)
	}
}
