package enrich

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/dd3vahmad/tenskee/internal/config"
)

func TestNew_NoKeyDisabled(t *testing.T) {
	if c := New(config.AIConfig{Model: "gpt-4o-mini"}); c != nil {
		t.Error("New without an API key returned a client, want nil")
	}
}

func fakeCompletionServer(t *testing.T, failures int, reply string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if int(n) <= failures {
			http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": reply}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestEnrich(t *testing.T) {
	srv, calls := fakeCompletionServer(t, 0, "A grand retelling.")
	c := New(config.AIConfig{APIKey: "test", Model: "gpt-4o-mini", BaseURL: srv.URL + "/v1"})

	got, err := c.Enrich(context.Background(), "plain digest")
	if err != nil {
		t.Fatalf("Enrich failed: %v", err)
	}
	if got != "A grand retelling." {
		t.Errorf("Enrich = %q, want the model reply", got)
	}
	if calls.Load() != 1 {
		t.Errorf("made %d calls, want 1", calls.Load())
	}
}

func TestEnrich_RetriesOnce(t *testing.T) {
	srv, calls := fakeCompletionServer(t, 1, "Second try.")
	c := New(config.AIConfig{APIKey: "test", Model: "gpt-4o-mini", BaseURL: srv.URL + "/v1"})

	got, err := c.Enrich(context.Background(), "plain digest")
	if err != nil {
		t.Fatalf("Enrich failed: %v", err)
	}
	if got != "Second try." {
		t.Errorf("Enrich = %q, want the retried reply", got)
	}
	if calls.Load() != 2 {
		t.Errorf("made %d calls, want 2", calls.Load())
	}
}

func TestEnrich_GivesUpAfterRetry(t *testing.T) {
	srv, calls := fakeCompletionServer(t, 10, "never")
	c := New(config.AIConfig{APIKey: "test", Model: "gpt-4o-mini", BaseURL: srv.URL + "/v1"})

	if _, err := c.Enrich(context.Background(), "plain digest"); err == nil {
		t.Error("Enrich succeeded against a failing server, want error")
	}
	if calls.Load() != 2 {
		t.Errorf("made %d calls, want 2 (one retry only)", calls.Load())
	}
}

func TestEnrich_CanceledContext(t *testing.T) {
	srv, _ := fakeCompletionServer(t, 10, "never")
	c := New(config.AIConfig{APIKey: "test", Model: "gpt-4o-mini", BaseURL: srv.URL + "/v1"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Enrich(ctx, "plain digest"); err == nil {
		t.Error("Enrich succeeded with a canceled context, want error")
	}
}
