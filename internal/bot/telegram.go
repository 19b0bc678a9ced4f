// Package bot implements the Telegram transport: a getUpdates long-poll
// loop, message dispatch through the command parser, and sendMessage
// replies. The Bot API is spoken directly over net/http.
package bot

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dd3vahmad/tenskee/internal/config"
	"github.com/dd3vahmad/tenskee/internal/digest"
)

// --- Telegram Types ---

type tgUpdate struct {
	UpdateID int        `json:"update_id"`
	Message  *tgMessage `json:"message"`
}

type tgMessage struct {
	MessageID int    `json:"message_id"`
	Chat      tgChat `json:"chat"`
	Text      string `json:"text"`
}

type tgChat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// --- Bot ---

// Bot holds the transport state and the handler dependencies.
type Bot struct {
	token         string
	chatID        int64
	username      string
	pollTimeout   int
	db            *sql.DB
	enricher      digest.Enricher
	enrichTimeout time.Duration
	loc           *time.Location
	client        *http.Client

	// apiBase, now, and backoff are swapped out in tests.
	apiBase string
	now     func() time.Time
	backoff time.Duration
}

// New creates a Bot. enricher may be nil; digests then go out unenriched.
func New(cfg *config.Config, database *sql.DB, enricher digest.Enricher, loc *time.Location) *Bot {
	return &Bot{
		token:         cfg.TelegramToken,
		chatID:        cfg.ChatID,
		username:      cfg.BotUsername,
		pollTimeout:   cfg.PollTimeoutSeconds,
		db:            database,
		enricher:      enricher,
		enrichTimeout: cfg.AI.Timeout(),
		loc:           loc,
		client:        &http.Client{Timeout: time.Duration(cfg.PollTimeoutSeconds+10) * time.Second},
		apiBase:       "https://api.telegram.org",
		now:           time.Now,
		backoff:       5 * time.Second,
	}
}

// PollLoop runs the getUpdates long poll until ctx is canceled. Each update
// is handled to completion before the next is processed.
func (b *Bot) PollLoop(ctx context.Context) {
	offset := 0
	slog.Info("telegram polling started", "chat_id", b.chatID, "username", b.username)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		url := fmt.Sprintf("%s/bot%s/getUpdates?offset=%d&timeout=%d",
			b.apiBase, b.token, offset, b.pollTimeout)

		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := b.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("telegram poll error", "error", err)
			time.Sleep(b.backoff)
			continue
		}

		var body struct {
			OK     bool       `json:"ok"`
			Result []tgUpdate `json:"result"`
		}
		err = json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()
		if err != nil {
			// A malformed body is a server problem, not an empty batch.
			slog.Error("telegram response decode error", "error", err)
			time.Sleep(b.backoff)
			continue
		}

		for _, u := range body.Result {
			offset = u.UpdateID + 1
			if u.Message == nil || u.Message.Text == "" {
				continue
			}
			if reply, ok := b.Respond(ctx, u.Message.Text); ok {
				b.reply(u.Message.Chat.ID, reply)
			}
		}
	}
}

// SendDaily builds the morning digest for the current reference date and
// delivers it to the configured group chat. A day with nothing to report
// sends nothing.
func (b *Bot) SendDaily(ctx context.Context) {
	ref := b.now().In(b.loc)
	text, err := digest.BuildDaily(b.db, ref)
	if err != nil {
		slog.Error("daily digest build failed", "error", err)
		return
	}
	if text == "" {
		slog.Info("daily digest empty, nothing to send")
		return
	}
	text = digest.Enrich(ctx, b.enricher, text, b.enrichTimeout)
	b.reply(b.chatID, text)
}

// reply sends a plain-text message to a chat. Best effort: send failures
// are logged, never propagated.
func (b *Bot) reply(chatID int64, text string) {
	payload := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	body, _ := json.Marshal(payload)
	url := fmt.Sprintf("%s/bot%s/sendMessage", b.apiBase, b.token)
	resp, err := b.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		slog.Error("telegram send error", "error", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		slog.Warn("telegram send non-200", "status", resp.StatusCode, "body", string(respBody))
	}
}
