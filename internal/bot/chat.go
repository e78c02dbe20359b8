package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dharsanguruparan/DocFlow/internal/emit"
)

// Chat is the host bridge for one Telegram user. It satisfies state.Bridge,
// emit.Host and emit.Notifier.
type Chat struct {
	bot *Bot
	id  int64
}

// Chat returns the bridge for chatID. In private chats the chat id equals
// the user id.
func (b *Bot) Chat(chatID int64) *Chat {
	return &Chat{bot: b, id: chatID}
}

// ChatForUser maps a "telegram_<id>" user id onto its chat. ok is false for
// any other id.
func (b *Bot) ChatForUser(userID string) (chat *Chat, ok bool) {
	raw, found := strings.CutPrefix(userID, "telegram_")
	if !found {
		return nil, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, false
	}
	return b.Chat(id), true
}

func (c *Chat) Alert(_ context.Context, text string) error {
	if c.id == 0 {
		return ErrNoChat
	}
	return c.bot.send(tgbotapi.NewMessage(c.id, text))
}

// Confirm cannot wait for an answer inside a request, so it shows the
// question and declines.
func (c *Chat) Confirm(ctx context.Context, text string) (bool, error) {
	return false, c.Alert(ctx, text)
}

func (c *Chat) OpenLink(_ context.Context, url string) error {
	if c.id == 0 {
		return ErrNoChat
	}
	msg := tgbotapi.NewMessage(c.id, url)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL("Відкрити", url)),
	)
	return c.bot.send(msg)
}

// SendDocument uploads the artifact into the chat.
func (c *Chat) SendDocument(_ context.Context, a emit.Artifact) (string, error) {
	if c.id == 0 {
		return "", ErrNoChat
	}
	doc := tgbotapi.NewDocument(c.id, tgbotapi.FileBytes{Name: a.Filename, Bytes: a.Data})
	sent, err := c.bot.api.Send(doc)
	if err != nil {
		return "", fmt.Errorf("send document: %w", err)
	}
	return fmt.Sprintf("telegram:%d/%d", c.id, sent.MessageID), nil
}
