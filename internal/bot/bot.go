// Package bot is the Telegram side of DocFlow: webhook registration, the
// /start and /help commands, and a per-chat bridge used to alert users and
// hand them generated files.
package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	startText = "👋 Вітаю! Я бот для генерації документів.\n\nНатисніть кнопку нижче, щоб відкрити веб-додаток:"
	openText  = "📄 Відкрити Документообіг PRO"
	helpText  = "📚 Доступні команди:\n\n" +
		"/start - Запустити бота\n" +
		"/help - Допомога\n\n" +
		"Функції:\n" +
		"• Генерація договорів (20+ типів)\n" +
		"• Створення рахунків та актів\n" +
		"• Аналітика доходів та податків\n" +
		"• Підписання документів\n" +
		"• Система підписок"
)

// ErrNoChat is returned by a Chat without a Telegram chat id.
var ErrNoChat = errors.New("no telegram chat for user")

// Sender is the part of *tgbotapi.BotAPI the bot uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Connect logs in with the bot token.
func Connect(token string) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram login: %w", err)
	}
	return api, nil
}

// Bot answers commands and sends messages on behalf of the app.
type Bot struct {
	api       Sender
	webAppURL string
	log       *zap.Logger

	// RetryDelay is the pause between webhook registration attempts.
	RetryDelay time.Duration
}

// New wraps api. webAppURL is the Mini-App opened by the /start button.
func New(api Sender, webAppURL string, log *zap.Logger) *Bot {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bot{api: api, webAppURL: webAppURL, log: log.Named("bot"), RetryDelay: 5 * time.Second}
}

// RegisterWebhook drops pending updates and points Telegram at url. It
// retries until it succeeds or ctx is done.
func (b *Bot) RegisterWebhook(ctx context.Context, url string) error {
	for {
		err := b.setWebhook(url)
		if err == nil {
			b.log.Info("webhook set", zap.String("url", redact(url)))
			return nil
		}
		b.log.Error("webhook setup failed", zap.Error(err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(b.RetryDelay):
		}
	}
}

func (b *Bot) setWebhook(url string) error {
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}); err != nil {
		b.log.Debug("delete old webhook", zap.Error(err))
	}
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("webhook url: %w", err)
	}
	if _, err := b.api.Request(wh); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	return nil
}

// DeleteWebhook is called on shutdown.
func (b *Bot) DeleteWebhook() error {
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}
	return nil
}

// ServeHTTP accepts webhook updates. Telegram only needs a 200; handler
// errors are logged.
func (b *Bot) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		b.log.Warn("bad webhook update", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := b.HandleUpdate(r.Context(), update); err != nil {
		b.log.Error("handle update", zap.Int("update_id", update.UpdateID), zap.Error(err))
	}
	w.WriteHeader(http.StatusOK)
}

// HandleUpdate dispatches one update.
func (b *Bot) HandleUpdate(_ context.Context, u tgbotapi.Update) error {
	msg := u.Message
	if msg == nil || msg.Chat == nil || !msg.IsCommand() {
		return nil
	}
	switch msg.Command() {
	case "start":
		return b.sendStart(msg.Chat.ID)
	case "help":
		return b.send(tgbotapi.NewMessage(msg.Chat.ID, helpText))
	}
	return nil
}

func (b *Bot) sendStart(chatID int64) error {
	reply := tgbotapi.NewMessage(chatID, startText)
	if b.webAppURL != "" {
		reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL(openText, b.webAppURL)),
		)
	}
	return b.send(reply)
}

func (b *Bot) send(c tgbotapi.Chattable) error {
	if _, err := b.api.Send(c); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// redact hides the bot token in a webhook URL.
func redact(url string) string {
	if i := strings.LastIndex(url, "/bot"); i >= 0 {
		return url[:i] + "/bot***"
	}
	return url
}
