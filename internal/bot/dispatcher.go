package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"github.com/phamduchai/spendbot/internal/classifier"
	"github.com/phamduchai/spendbot/internal/domain"
	"github.com/phamduchai/spendbot/internal/logger"
	"github.com/phamduchai/spendbot/internal/report"
	"github.com/phamduchai/spendbot/internal/sheets"
)

// Sender sends a Telegram chattable. *tgbotapi.BotAPI satisfies it; tests
// substitute a recorder.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Registry is the user directory the dispatcher consults.
type Registry interface {
	Lookup(ctx context.Context, userID string) (string, error)
	Upsert(ctx context.Context, userID, sheetID string) error
}

// Store is the per-user transaction store.
type Store interface {
	Append(ctx context.Context, sheetID string, rec domain.TransactionRecord) error
	ScanAll(ctx context.Context, sheetID string) ([]domain.TransactionRecord, error)
}

// Classifier routes free text into an intent.
type Classifier interface {
	Classify(ctx context.Context, text string) (classifier.Result, error)
}

// ReportBuilder produces the analysis report.
type ReportBuilder interface {
	Generate(ctx context.Context, query string, records []domain.TransactionRecord) (report.Report, error)
}

// Renderer rasterizes a chart spec; nil bytes means nothing to draw.
type Renderer func(spec domain.ChartSpec) ([]byte, error)

// Dispatcher wires one inbound message through registry lookup,
// classification and the intent-specific handler. Unregistered users and
// "other" messages are ignored silently; every other terminal branch sends
// exactly one text reply (plus one photo when a chart renders).
type Dispatcher struct {
	registry Registry
	store    Store
	class    Classifier
	reports  ReportBuilder
	render   Renderer
	sender   Sender

	serviceAccountEmail string
	now                 func() time.Time
}

// NewDispatcher wires the dispatcher. render may be nil to disable charts.
func NewDispatcher(
	registry Registry,
	store Store,
	class Classifier,
	reports ReportBuilder,
	render Renderer,
	sender Sender,
	serviceAccountEmail string,
) *Dispatcher {
	return &Dispatcher{
		registry:            registry,
		store:               store,
		class:               class,
		reports:             reports,
		render:              render,
		sender:              sender,
		serviceAccountEmail: serviceAccountEmail,
		now:                 time.Now,
	}
}

// HandleText processes one free-text message from userID in chatID.
func (d *Dispatcher) HandleText(ctx context.Context, userID string, chatID int64, text string) error {
	log := logger.FromContext(ctx)

	sheetID, err := d.registry.Lookup(ctx, userID)
	if errors.Is(err, sheets.ErrNotRegistered) {
		// Intentional silence: unregistered users get no reply at all.
		log.Info().Str("user_id", userID).Msg("Ignoring message from unregistered user")
		return nil
	}
	if err != nil {
		d.reply(ctx, chatID, msgRegistrationCheckFailed)
		return fmt.Errorf("HandleText: registration check: %w", err)
	}

	result, err := d.class.Classify(ctx, text)
	if err != nil {
		d.reply(ctx, chatID, msgClassifyFailed)
		return fmt.Errorf("HandleText: %w", err)
	}

	switch result.Intent {
	case classifier.IntentTransaction:
		return d.handleTransaction(ctx, chatID, sheetID, result.Transaction)
	case classifier.IntentAnalysis:
		return d.handleAnalysis(ctx, chatID, sheetID, result.Query)
	default:
		// Also intentional silence, matching the unregistered case.
		log.Info().Str("user_id", userID).Msg("Message classified as other, ignoring")
		return nil
	}
}

// HandleCommand processes one /command message.
func (d *Dispatcher) HandleCommand(ctx context.Context, userID string, chatID int64, command, args string) error {
	switch command {
	case "start":
		d.reply(ctx, chatID, msgWelcome)
		return nil
	case "help":
		d.replyMarkdown(ctx, chatID, msgHelp(d.serviceAccountEmail))
		return nil
	case "register":
		return d.handleRegister(ctx, userID, chatID, args)
	default:
		// Unknown commands behave like "other" messages.
		log := logger.FromContext(ctx)
		log.Info().Str("command", command).Msg("Ignoring unknown command")
		return nil
	}
}

func (d *Dispatcher) handleRegister(ctx context.Context, userID string, chatID int64, args string) error {
	if args == "" {
		d.reply(ctx, chatID, msgRegisterUsage)
		return nil
	}

	sheetID, ok := ExtractSheetID(args)
	if !ok {
		d.reply(ctx, chatID, msgInvalidSheetURL)
		return nil
	}

	if err := d.registry.Upsert(ctx, userID, sheetID); err != nil {
		switch {
		case errors.Is(err, sheets.ErrPermissionDenied):
			d.replyMarkdown(ctx, chatID, msgPermissionDenied(d.serviceAccountEmail))
		default:
			d.reply(ctx, chatID, msgRegisterFailed)
		}
		return fmt.Errorf("handleRegister: %w", err)
	}

	d.replyMarkdown(ctx, chatID, msgRegistered(d.serviceAccountEmail))
	return nil
}

func (d *Dispatcher) handleTransaction(ctx context.Context, chatID int64, sheetID string, tx *classifier.Transaction) error {
	rec := domain.TransactionRecord{
		Timestamp:   d.now(),
		Amount:      decimal.NullDecimal{Decimal: tx.Amount, Valid: true},
		Category:    tx.Category,
		Description: tx.Description,
		Kind:        tx.Kind,
	}

	if err := d.store.Append(ctx, sheetID, rec); err != nil {
		switch {
		case errors.Is(err, sheets.ErrPermissionDenied):
			d.replyMarkdown(ctx, chatID, msgPermissionDenied(d.serviceAccountEmail))
		case errors.Is(err, sheets.ErrNotFound):
			d.reply(ctx, chatID, msgSheetNotFound)
		default:
			d.reply(ctx, chatID, msgAppendFailed)
		}
		return fmt.Errorf("handleTransaction: %w", err)
	}

	d.reply(ctx, chatID, msgRecorded(rec))
	return nil
}

func (d *Dispatcher) handleAnalysis(ctx context.Context, chatID int64, sheetID, query string) error {
	log := logger.FromContext(ctx)

	records, err := d.store.ScanAll(ctx, sheetID)
	if err != nil {
		d.reply(ctx, chatID, msgHistoryReadFailed)
		return fmt.Errorf("handleAnalysis: %w", err)
	}
	if len(records) == 0 {
		d.reply(ctx, chatID, msgNoData)
		return nil
	}

	rep, err := d.reports.Generate(ctx, query, records)
	if err != nil {
		d.reply(ctx, chatID, msgAnalysisFailed)
		return fmt.Errorf("handleAnalysis: %w", err)
	}

	summary := truncateMessage(fmt.Sprintf("*Kết quả phân tích cho:* \"%s\"\n\n%s", query, rep.Summary))
	d.replyMarkdown(ctx, chatID, summary)

	if rep.Chart == nil || d.render == nil {
		return nil
	}
	img, err := d.render(*rep.Chart)
	if err != nil {
		log.Warn().Err(err).Msg("Chart rendering failed, summary already sent")
		return nil
	}
	if img == nil {
		log.Info().Str("chart_type", string(rep.Chart.Type)).Msg("Nothing to draw for chart spec")
		return nil
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "chart.png", Bytes: img})
	photo.Caption = fmt.Sprintf("Biểu đồ: %s", query)
	if _, err := d.sender.Send(photo); err != nil {
		log.Error().Err(err).Msg("Failed to send chart photo")
	}
	return nil
}

// reply sends a plain text message, logging rather than propagating send
// failures: the handling of the inbound message is already complete.
func (d *Dispatcher) reply(ctx context.Context, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := d.sender.Send(msg); err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send reply")
	}
}

// replyMarkdown sends a Markdown message, retrying as plain text when the
// formatting is rejected: model output is not guaranteed to be valid
// Markdown.
func (d *Dispatcher) replyMarkdown(ctx context.Context, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := d.sender.Send(msg); err != nil {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Msg("Markdown reply rejected, retrying as plain text")
		d.reply(ctx, chatID, text)
	}
}
