package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dd3vahmad/tenskee/internal/ops"
)

// fakeTelegram serves getUpdates once and records every sendMessage.
// The first malformed getUpdates responses carry a broken body.
type fakeTelegram struct {
	mu        sync.Mutex
	updates   []tgUpdate
	sent      []map[string]any
	malformed int
}

func (f *fakeTelegram) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			f.mu.Lock()
			if f.malformed > 0 {
				f.malformed--
				f.mu.Unlock()
				fmt.Fprint(w, `{"ok": true, "result": [{`)
				return
			}
			batch := f.updates
			f.updates = nil
			f.mu.Unlock()
			json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": batch})
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var payload map[string]any
			json.NewDecoder(r.Body).Decode(&payload)
			f.mu.Lock()
			f.sent = append(f.sent, payload)
			f.mu.Unlock()
			fmt.Fprint(w, `{"ok":true}`)
		default:
			http.NotFound(w, r)
		}
	}
}

func (f *fakeTelegram) sentTexts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	texts := make([]string, 0, len(f.sent))
	for _, p := range f.sent {
		if s, ok := p["text"].(string); ok {
			texts = append(texts, s)
		}
	}
	return texts
}

func pollOnce(t *testing.T, b *Bot, fake *fakeTelegram) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.PollLoop(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		fake.mu.Lock()
		drained := len(fake.updates) == 0
		fake.mu.Unlock()
		if drained && len(fake.sentTexts()) > 0 {
			break
		}
		select {
		case <-deadline:
			cancel()
			<-done
			t.Fatal("poll loop did not process the update in time")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()
	<-done
}

func TestPollLoop_DispatchesAndReplies(t *testing.T) {
	b, _ := testBot(t)
	fake := &fakeTelegram{
		updates: []tgUpdate{
			{UpdateID: 7, Message: &tgMessage{MessageID: 1, Chat: tgChat{ID: 42}, Text: "@tenskee_bot add math quiz due 2026-02-25"}},
			{UpdateID: 8, Message: &tgMessage{MessageID: 2, Chat: tgChat{ID: 42}, Text: "unrelated chatter"}},
		},
	}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()
	b.apiBase = srv.URL
	b.client = srv.Client()
	b.token = "test-token"
	b.backoff = 10 * time.Millisecond

	pollOnce(t, b, fake)

	texts := fake.sentTexts()
	if len(texts) != 1 {
		t.Fatalf("sent %d messages, want 1 (the chatter gets no reply)", len(texts))
	}
	if !strings.Contains(texts[0], "Assignment sealed: math quiz due 2026-02-25") {
		t.Errorf("reply = %q, want the sealed confirmation", texts[0])
	}

	// The reply goes back to the originating chat.
	if id, ok := fake.sent[0]["chat_id"].(float64); !ok || int64(id) != 42 {
		t.Errorf("chat_id = %v, want 42", fake.sent[0]["chat_id"])
	}
}

func TestPollLoop_RecoversFromMalformedBody(t *testing.T) {
	b, _ := testBot(t)
	fake := &fakeTelegram{
		malformed: 1,
		updates: []tgUpdate{
			{UpdateID: 3, Message: &tgMessage{MessageID: 1, Chat: tgChat{ID: 7}, Text: "@tenskee_bot save us"}},
		},
	}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()
	b.apiBase = srv.URL
	b.client = srv.Client()
	b.token = "test-token"
	b.backoff = 10 * time.Millisecond

	// The broken first body must not stall the loop; the next poll still
	// delivers the update.
	pollOnce(t, b, fake)

	texts := fake.sentTexts()
	if len(texts) != 1 {
		t.Fatalf("sent %d messages, want 1 after recovering", len(texts))
	}
	if !strings.Contains(texts[0], "All is calm") {
		t.Errorf("reply = %q, want the summon digest", texts[0])
	}
}

func TestSendDaily(t *testing.T) {
	b, database := testBot(t)
	fake := &fakeTelegram{}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()
	b.apiBase = srv.URL
	b.client = srv.Client()
	b.token = "test-token"
	b.chatID = 99

	// Quiet day: nothing is sent.
	b.SendDaily(context.Background())
	if got := fake.sentTexts(); len(got) != 0 {
		t.Fatalf("quiet day sent %d messages, want 0", len(got))
	}

	_, err := ops.AddAssignment(database, ops.AddAssignmentInput{Title: "lab report", Due: refDate})
	if err != nil {
		t.Fatalf("AddAssignment failed: %v", err)
	}

	b.SendDaily(context.Background())
	texts := fake.sentTexts()
	if len(texts) != 1 {
		t.Fatalf("sent %d messages, want 1", len(texts))
	}
	if !strings.Contains(texts[0], "Due today - brace yourselves: lab report") {
		t.Errorf("daily = %q, want the due-today line", texts[0])
	}
	if id, ok := fake.sent[0]["chat_id"].(float64); !ok || int64(id) != 99 {
		t.Errorf("chat_id = %v, want the configured group chat", fake.sent[0]["chat_id"])
	}
}
