package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/phamduchai/spendbot/internal/domain"
	"github.com/phamduchai/spendbot/internal/gemini"
	"github.com/phamduchai/spendbot/internal/logger"
)

// BlockedMessage is the fixed user-facing summary when the safety layer
// refuses the analysis request.
const BlockedMessage = "Yêu cầu của bạn không thể được xử lý do bộ lọc an toàn."

// Generator is the inference call the builder depends on.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Report is the outcome of one analysis request. Chart is optional: a
// summary without a chart is a valid, partial result.
type Report struct {
	Summary string
	Chart   *domain.ChartSpec
}

// Builder turns an analytical query plus the full record history into a
// natural-language report with an optional chart.
type Builder struct {
	gen Generator
}

// NewBuilder creates a report builder on top of the given generator.
func NewBuilder(gen Generator) *Builder {
	return &Builder{gen: gen}
}

// recordView is the JSON shape of one record in the prompt payload, keyed by
// the sheet's header names so the model sees the same vocabulary the data
// was stored under.
type recordView struct {
	Date        string   `json:"Date"`
	Amount      *float64 `json:"Amount"`
	Category    string   `json:"Category"`
	Description string   `json:"Description"`
	Type        string   `json:"Type"`
}

// modelResponse is the expected response object.
type modelResponse struct {
	Summary   string          `json:"summary"`
	ChartJSON json.RawMessage `json:"chart_json"`
}

// Generate runs the analysis. Degradation is graceful on purpose: a
// response that fails to parse as JSON still yields its raw text as the
// summary, and a blocked request yields the fixed blocked message. An error
// is returned only when the inference call itself fails.
func (b *Builder) Generate(ctx context.Context, query string, records []domain.TransactionRecord) (Report, error) {
	log := logger.FromContext(ctx)

	payload, err := marshalRecords(records)
	if err != nil {
		return Report{}, fmt.Errorf("Generate: serialize records: %w", err)
	}

	raw, err := b.gen.GenerateText(ctx, buildPrompt(query, payload))
	if err != nil {
		if errors.Is(err, gemini.ErrBlocked) {
			log.Warn().Str("query", query).Msg("Analysis request blocked by safety filters")
			return Report{Summary: BlockedMessage}, nil
		}
		return Report{}, fmt.Errorf("Generate: %w", err)
	}

	var resp modelResponse
	if err := json.Unmarshal([]byte(gemini.CleanJSON(raw)), &resp); err != nil || resp.Summary == "" {
		// Partial result over total failure: the raw text is still an answer.
		log.Warn().Str("query", query).Msg("Report response did not match the summary/chart schema, returning raw text")
		return Report{Summary: raw}, nil
	}

	report := Report{Summary: resp.Summary}
	if len(resp.ChartJSON) > 0 && string(resp.ChartJSON) != "null" {
		spec, err := domain.ParseChartSpec(resp.ChartJSON)
		if err != nil {
			log.Warn().Err(err).Str("query", query).Msg("Unparseable chart payload, omitting chart")
		} else {
			report.Chart = spec
		}
	}
	return report, nil
}

func marshalRecords(records []domain.TransactionRecord) (string, error) {
	views := make([]recordView, 0, len(records))
	for _, rec := range records {
		view := recordView{
			Category:    string(rec.Category),
			Description: rec.Description,
			Type:        string(rec.Kind),
		}
		if !rec.Timestamp.IsZero() {
			view.Date = rec.Timestamp.Format(domain.TimestampLayout)
		}
		if rec.Amount.Valid {
			f, _ := rec.Amount.Decimal.Float64()
			view.Amount = &f
		}
		views = append(views, view)
	}

	payload, err := json.MarshalIndent(views, "", "  ")
	if err != nil {
		return "", err
	}
	return string(payload), nil
}
