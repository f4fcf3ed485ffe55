package ai_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/TeamUpswell/wgw/internal/ai"
)

func TestEncourageUsesModelReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","choices":[{"message":{"role":"assistant","content":"So glad your garden is thriving!"}}]}`))
	}))
	defer srv.Close()

	client := ai.NewTextGenClient("test-key", "test-model", srv.URL, 5*time.Second)
	got, fallback := client.Encourage(context.Background(), "my garden is blooming", "Nature")
	if fallback {
		t.Fatalf("expected model reply, got fallback")
	}
	if got != "So glad your garden is thriving!" {
		t.Fatalf("unexpected reply: %q", got)
	}
}

func TestEncourageFallsBackOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
	}))
	defer srv.Close()

	client := ai.NewTextGenClient("test-key", "test-model", srv.URL, 5*time.Second)
	got, fallback := client.Encourage(context.Background(), "had coffee with a friend", "")
	if !fallback {
		t.Fatalf("expected fallback on vendor error")
	}
	if got == "" {
		t.Fatalf("fallback message must not be empty")
	}

	// same input, same fallback text
	again, _ := client.Encourage(context.Background(), "had coffee with a friend", "")
	if again != got {
		t.Fatalf("fallback not deterministic: %q vs %q", got, again)
	}
}

func TestFallbackEncouragementNeverEmpty(t *testing.T) {
	for _, input := range []string{"", "a", "some longer transcription text"} {
		if ai.FallbackEncouragement(input) == "" {
			t.Fatalf("empty fallback for input %q", input)
		}
	}
}
