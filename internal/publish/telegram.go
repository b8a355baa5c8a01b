// Package publish delivers rendered digests to Telegram.
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
)

const telegramMessageMaxLength = 4096

type Telegram struct {
	bot    *bot.Bot
	chatID int64
	log    *slog.Logger
}

func NewTelegram(token string, chatID int64, log *slog.Logger) (*Telegram, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &Telegram{bot: b, chatID: chatID, log: log}, nil
}

// Publish sends the digest, chunked to the Telegram message size cap.
func (t *Telegram) Publish(ctx context.Context, text string) error {
	for i, chunk := range chunkText(text, telegramMessageMaxLength) {
		if _, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: t.chatID,
			Text:   chunk,
		}); err != nil {
			return fmt.Errorf("send message (chunk = %d): %w", i+1, err)
		}
	}

	t.log.InfoContext(ctx, "Digest is published",
		"chatID", t.chatID,
		"length", len(text))

	return nil
}

// chunkText splits on line boundaries so no chunk exceeds maxLen. A single
// oversized line is hard-split.
func chunkText(text string, maxLen int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var chunks []string
	var current strings.Builder

	for _, line := range strings.Split(text, "\n") {
		for len(line) > maxLen {
			chunks = appendChunk(chunks, &current)
			chunks = append(chunks, line[:maxLen])
			line = line[maxLen:]
		}

		if current.Len()+len(line)+1 > maxLen {
			chunks = appendChunk(chunks, &current)
		}

		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}

	return appendChunk(chunks, &current)
}

func appendChunk(chunks []string, current *strings.Builder) []string {
	if current.Len() == 0 {
		return chunks
	}

	chunks = append(chunks, current.String())
	current.Reset()

	return chunks
}
