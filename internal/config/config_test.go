package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":3000" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}
	if cfg.LLM.Model != "claude-3-haiku-20240307" {
		t.Fatalf("unexpected model: %s", cfg.LLM.Model)
	}
	if cfg.LLM.MaxTokens != 1000 {
		t.Fatalf("unexpected max tokens: %d", cfg.LLM.MaxTokens)
	}
	if cfg.LLM.Temperature != 0.7 {
		t.Fatalf("unexpected temperature: %v", cfg.LLM.Temperature)
	}
	if !cfg.LLM.Enabled() {
		t.Fatal("expected LLM enabled with API key set")
	}
}

func TestLoadPortForms(t *testing.T) {
	cases := []struct {
		port string
		want string
	}{
		{"8080", ":8080"},
		{":9090", ":9090"},
		{"127.0.0.1:3000", "127.0.0.1:3000"},
	}

	for _, tc := range cases {
		t.Setenv("PORT", tc.port)
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load(%q) err: %v", tc.port, err)
		}
		if cfg.Server.Addr != tc.want {
			t.Fatalf("PORT=%q: got %s want %s", tc.port, cfg.Server.Addr, tc.want)
		}
	}
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("PORT", "80 80")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for PORT with spaces")
	}
}

func TestLoadLLMOverrides(t *testing.T) {
	t.Setenv("LLM_MAX_TOKENS", "256")
	t.Setenv("LLM_TEMPERATURE", "0.2")
	t.Setenv("LLM_TIMEOUT_SECONDS", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.LLM.MaxTokens != 256 {
		t.Fatalf("unexpected max tokens: %d", cfg.LLM.MaxTokens)
	}
	if cfg.LLM.Temperature != 0.2 {
		t.Fatalf("unexpected temperature: %v", cfg.LLM.Temperature)
	}
	if cfg.LLM.TimeoutSeconds != 30 {
		t.Fatalf("unexpected timeout: %d", cfg.LLM.TimeoutSeconds)
	}
}

func TestLoadRejectsMalformedOverrides(t *testing.T) {
	t.Setenv("LLM_MAX_TOKENS", "lots")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric LLM_MAX_TOKENS")
	}

	t.Setenv("LLM_MAX_TOKENS", "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero LLM_MAX_TOKENS")
	}
}

func TestLLMDisabledWithoutKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.LLM.Enabled() {
		t.Fatal("expected LLM disabled without API key")
	}
}
