package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/phamduchai/spendbot/internal/bot"
	"github.com/phamduchai/spendbot/internal/chart"
	"github.com/phamduchai/spendbot/internal/classifier"
	"github.com/phamduchai/spendbot/internal/config"
	"github.com/phamduchai/spendbot/internal/gemini"
	"github.com/phamduchai/spendbot/internal/logger"
	"github.com/phamduchai/spendbot/internal/report"
	"github.com/phamduchai/spendbot/internal/sheets"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info")
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(cfg.LogLevel)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sheetsService, err := sheets.NewService(ctx, cfg.CredentialsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Sheets client")
	}
	registry := sheets.NewRegistry(sheetsService, cfg.MasterSheetID)
	store := sheets.NewStore(sheetsService)

	// Without a Gemini key the bot still serves commands; free-text
	// messages are ignored.
	var (
		class    bot.Classifier
		reports  bot.ReportBuilder
		freeText bool
	)
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Gemini client")
		}
		class = classifier.New(geminiClient)
		reports = report.NewBuilder(geminiClient)
		freeText = true
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set, free-text handling disabled")
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Telegram client")
	}
	log.Info().Str("bot", api.Self.UserName).Msg("Authenticated with Telegram")

	dispatcher := bot.NewDispatcher(
		registry,
		store,
		class,
		reports,
		chart.Render,
		api,
		cfg.ServiceAccountEmail,
	)
	b := bot.New(api, dispatcher, log, freeText)

	// Stop polling on interrupt.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Info().Msg("Shutting down...")
		cancel()
	}()

	b.Run(ctx)
	log.Info().Msg("Bot exited")
}
