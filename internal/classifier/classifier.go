package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/phamduchai/spendbot/internal/domain"
	"github.com/phamduchai/spendbot/internal/gemini"
	"github.com/phamduchai/spendbot/internal/logger"
)

// Generator is the single inference call the classifier depends on. The
// real implementation is the Gemini client; tests use a fixed mapping.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// Intent is the message routing decision.
type Intent int

const (
	IntentOther Intent = iota
	IntentTransaction
	IntentAnalysis
)

func (i Intent) String() string {
	switch i {
	case IntentTransaction:
		return "transaction"
	case IntentAnalysis:
		return "analysis"
	default:
		return "other"
	}
}

// Transaction carries the extracted fields of a record-a-transaction intent.
type Transaction struct {
	Amount      decimal.Decimal
	Category    domain.Category
	Description string
	Kind        domain.Kind
}

// Result is a tagged union over the three intents: Transaction is set only
// for IntentTransaction, Query only for IntentAnalysis, and IntentOther
// carries nothing.
type Result struct {
	Intent      Intent
	Transaction *Transaction
	Query       string
}

var other = Result{Intent: IntentOther}

// requiredKeys is the closed response schema. A response missing any key is
// degraded to "other" rather than rejected: the inference endpoint is not
// contractually guaranteed to obey the schema.
var requiredKeys = []string{
	"request_type", "is_income", "is_expense",
	"amount", "category", "description", "analysis_query",
}

// Classifier routes free text into one of the three intents via a single
// inference call with strict output normalization.
type Classifier struct {
	gen Generator
}

// New creates a classifier on top of the given generator.
func New(gen Generator) *Classifier {
	return &Classifier{gen: gen}
}

// Classify sends the message to the model and normalizes the response.
// It returns an error only when the inference call itself fails or its
// output is not JSON at all; every schema violation is silently normalized
// to IntentOther.
func (c *Classifier) Classify(ctx context.Context, text string) (Result, error) {
	log := logger.FromContext(ctx)

	raw, err := c.gen.GenerateJSON(ctx, buildPrompt(text))
	if err != nil {
		return other, fmt.Errorf("Classify: %w", err)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(gemini.CleanJSON(raw)), &fields); err != nil {
		return other, fmt.Errorf("Classify: unmarshal model output: %w", err)
	}

	for _, key := range requiredKeys {
		if _, ok := fields[key]; !ok {
			log.Warn().Str("missing_key", key).Msg("Model response missing schema key, degrading to other")
			return other, nil
		}
	}

	switch getString(fields, "request_type") {
	case "transaction":
		return c.normalizeTransaction(ctx, fields), nil
	case "analysis":
		query := strings.TrimSpace(getString(fields, "analysis_query"))
		if query == "" {
			log.Warn().Msg("Model identified analysis without a query, degrading to other")
			return other, nil
		}
		return Result{Intent: IntentAnalysis, Query: query}, nil
	case "other":
		return other, nil
	default:
		log.Warn().Str("request_type", getString(fields, "request_type")).
			Msg("Unknown request_type, degrading to other")
		return other, nil
	}
}

func (c *Classifier) normalizeTransaction(ctx context.Context, fields map[string]interface{}) Result {
	log := logger.FromContext(ctx)

	amount, ok := getNumber(fields, "amount")
	if !ok {
		log.Warn().Interface("amount", fields["amount"]).
			Msg("Transaction without a numeric amount, degrading to other")
		return other
	}

	rawCategory := strings.TrimSpace(getString(fields, "category"))
	category := domain.NormalizeCategory(rawCategory)
	if rawCategory != "" && rawCategory != string(category) {
		log.Warn().Str("category", rawCategory).Msg("Model returned a category outside the fixed set, coerced to Khác")
	}

	kind := domain.KindExpense
	if getBool(fields, "is_income") {
		kind = domain.KindIncome
	}

	return Result{
		Intent: IntentTransaction,
		Transaction: &Transaction{
			Amount:      decimal.NewFromFloat(amount).Abs(),
			Category:    category,
			Description: getString(fields, "description"),
			Kind:        kind,
		},
	}
}

// Normalization helpers over the generic JSON object. Null and wrong-typed
// values read as zero values; presence was already checked against the
// schema.

func getString(m map[string]interface{}, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func getBool(m map[string]interface{}, key string) bool {
	if b, ok := m[key].(bool); ok {
		return b
	}
	return false
}

func getNumber(m map[string]interface{}, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case string:
		// Some models quote numbers despite instructions.
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		f, _ := d.Float64()
		return f, true
	default:
		return 0, false
	}
}
