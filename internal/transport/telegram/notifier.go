package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/reshetovitsme/newsletter-digest/internal/modules/digest/domain"
	"github.com/samber/oops"
)

const headlinesPerNotification = 3

// Notifier announces freshly generated digests to a Telegram chat.
// Delivery is fire-and-forget: failures are logged and never affect the
// HTTP response.
type Notifier struct {
	bot    *bot.Bot
	chatID int64
	logger *slog.Logger
}

// New creates a notifier for the given chat
func New(token string, chatID int64) (*Notifier, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, oops.With("context", "failed to create telegram bot").Wrap(err)
	}
	return &Notifier{
		bot:    b,
		chatID: chatID,
		logger: slog.Default(),
	}, nil
}

// SetLogger sets the logger
func (n *Notifier) SetLogger(logger *slog.Logger) {
	n.logger = logger
}

// Notify sends a short summary of the digest to the configured chat
func (n *Notifier) Notify(result domain.Result) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: n.chatID,
		Text:   formatSummary(result),
	})
	if err != nil {
		n.logger.Warn("Failed to send digest notification", "chat_id", n.chatID, "error", err)
		return
	}
	n.logger.Info("Digest notification sent", "chat_id", n.chatID, "items", result.TotalItems)
}

func formatSummary(result domain.Result) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("📰 Digest ready: %d items", result.TotalItems))
	if result.UsedFallback {
		sb.WriteString(fmt.Sprintf(" (fallback: %s)", result.FallbackReason))
	}
	sb.WriteString("\n")

	for _, key := range domain.CategoryKeys {
		items := result.Digest[key]
		if len(items) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n%s (%d):\n", key, len(items)))
		for i, item := range items {
			if i >= headlinesPerNotification {
				break
			}
			sb.WriteString(fmt.Sprintf("• %s\n", item.Title))
		}
	}

	return sb.String()
}
