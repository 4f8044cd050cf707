// Package notify delivers daily digests over Telegram to users that linked
// a chat.
package notify

import (
	"context"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"taskplan/internal/model"
	"taskplan/internal/service"
)

// TelegramNotifier sends digest messages through the Bot API.
type TelegramNotifier struct {
	bot *tgbotapi.BotAPI
}

func NewTelegramNotifier(token string) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &TelegramNotifier{bot: bot}, nil
}

func (n *TelegramNotifier) Send(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := n.bot.Send(msg)
	return err
}

// Sender is the delivery channel the digest loop writes to.
type Sender interface {
	Send(chatID int64, text string) error
}

// UserSource lists the users that opted in to notifications.
type UserSource interface {
	ListWithTelegram(ctx context.Context) ([]model.User, error)
}

// DigestSender fans the daily summary out to every linked user. A failure
// for one user does not stop delivery to the rest.
type DigestSender struct {
	users  UserSource
	digest *service.DigestService
	sender Sender
	log    *slog.Logger
}

func NewDigestSender(users UserSource, digest *service.DigestService, sender Sender, log *slog.Logger) *DigestSender {
	if log == nil {
		log = slog.Default()
	}
	return &DigestSender{users: users, digest: digest, sender: sender, log: log}
}

func (d *DigestSender) SendDailyDigests(ctx context.Context) error {
	users, err := d.users.ListWithTelegram(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	for _, user := range users {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if user.TelegramChatID == nil {
			continue
		}
		text, err := d.digest.DailySummary(ctx, user.ID, now)
		if err != nil {
			d.log.Warn("build digest", "user_id", user.ID, "err", err)
			continue
		}
		if err := d.sender.Send(*user.TelegramChatID, text); err != nil {
			d.log.Warn("send digest", "user_id", user.ID, "err", err)
		}
	}
	return nil
}
