// Package bot hosts the Telegram transport loop and the per-message
// dispatcher.
package bot

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/phamduchai/spendbot/internal/logger"
)

// Bot runs the Telegram long-polling loop, handing each update to the
// dispatcher on its own goroutine. There is no shared mutable state between
// updates; everything shared lives in the spreadsheet backend.
type Bot struct {
	api        *tgbotapi.BotAPI
	dispatcher *Dispatcher
	log        zerolog.Logger

	// freeText gates the classification path; commands always work. It is
	// false when no Gemini key was configured.
	freeText bool
}

// New wires the bot around an already-authenticated Telegram API client.
func New(api *tgbotapi.BotAPI, dispatcher *Dispatcher, log zerolog.Logger, freeText bool) *Bot {
	return &Bot{
		api:        api,
		dispatcher: dispatcher,
		log:        log,
		freeText:   freeText,
	}
}

// Run polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	b.log.Info().Str("bot", b.api.Self.UserName).Bool("free_text", b.freeText).Msg("Bot polling started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info().Msg("Bot polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			go b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	log := b.log.With().
		Str("update_id", uuid.New().String()).
		Int64("chat_id", msg.Chat.ID).
		Logger()
	ctx = logger.WithContext(ctx, log)

	userID := strconv.FormatInt(msg.From.ID, 10)

	if msg.IsCommand() {
		command := msg.Command()
		args := strings.TrimSpace(msg.CommandArguments())
		if err := b.dispatcher.HandleCommand(ctx, userID, msg.Chat.ID, command, args); err != nil {
			log.Error().Err(err).Str("command", command).Msg("Command handling failed")
		}
		return
	}

	if msg.Text == "" {
		return
	}
	if !b.freeText {
		log.Debug().Msg("Free-text handling disabled, ignoring message")
		return
	}

	if err := b.dispatcher.HandleText(ctx, userID, msg.Chat.ID, msg.Text); err != nil {
		log.Error().Err(err).Msg("Message handling failed")
	}
}
