package classifier

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/phamduchai/spendbot/internal/domain"
)

// fakeGenerator returns a canned response regardless of the prompt.
type fakeGenerator struct {
	response string
	err      error
}

func (f *fakeGenerator) GenerateJSON(_ context.Context, _ string) (string, error) {
	return f.response, f.err
}

func classify(t *testing.T, response string) Result {
	t.Helper()
	c := New(&fakeGenerator{response: response})
	result, err := c.Classify(context.Background(), "any message")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	return result
}

func TestClassify_Transaction(t *testing.T) {
	result := classify(t, `{
		"request_type": "transaction",
		"is_income": false,
		"is_expense": true,
		"amount": 50000.0,
		"category": "Ăn uống & Đồ uống",
		"description": "Phở sáng",
		"analysis_query": null
	}`)

	if result.Intent != IntentTransaction {
		t.Fatalf("Intent = %s, want transaction", result.Intent)
	}
	tx := result.Transaction
	if tx == nil {
		t.Fatal("Transaction is nil")
	}
	if !tx.Amount.Equal(decimal.NewFromInt(50000)) {
		t.Errorf("Amount = %v, want 50000", tx.Amount)
	}
	if tx.Category != domain.CategoryFoodDrink {
		t.Errorf("Category = %q, want Ăn uống & Đồ uống", tx.Category)
	}
	if tx.Kind != domain.KindExpense {
		t.Errorf("Kind = %q, want Chi", tx.Kind)
	}
	if result.Query != "" {
		t.Errorf("Query = %q, want empty on a transaction result", result.Query)
	}
}

func TestClassify_IncomeKind(t *testing.T) {
	result := classify(t, `{
		"request_type": "transaction",
		"is_income": true,
		"is_expense": false,
		"amount": 20000000,
		"category": "Khác",
		"description": "Nhận lương",
		"analysis_query": null
	}`)

	if result.Intent != IntentTransaction || result.Transaction.Kind != domain.KindIncome {
		t.Fatalf("Expected income transaction, got %+v", result)
	}
}

func TestClassify_Analysis(t *testing.T) {
	result := classify(t, `{
		"request_type": "analysis",
		"is_income": false,
		"is_expense": false,
		"amount": null,
		"category": null,
		"description": null,
		"analysis_query": "thống kê chi tiêu tháng này theo danh mục"
	}`)

	if result.Intent != IntentAnalysis {
		t.Fatalf("Intent = %s, want analysis", result.Intent)
	}
	if result.Query != "thống kê chi tiêu tháng này theo danh mục" {
		t.Errorf("Query = %q", result.Query)
	}
	if result.Transaction != nil {
		t.Error("Transaction must be nil on an analysis result")
	}
}

func TestClassify_DegradesToOther(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{
			"missing schema keys",
			`{"request_type": "transaction", "amount": 100}`,
		},
		{
			"empty object",
			`{}`,
		},
		{
			"transaction with null amount",
			`{"request_type": "transaction", "is_income": false, "is_expense": true,
			  "amount": null, "category": "Khác", "description": "x", "analysis_query": null}`,
		},
		{
			"transaction with non-numeric amount",
			`{"request_type": "transaction", "is_income": false, "is_expense": true,
			  "amount": "nhiều lắm", "category": "Khác", "description": "x", "analysis_query": null}`,
		},
		{
			"analysis with empty query",
			`{"request_type": "analysis", "is_income": false, "is_expense": false,
			  "amount": null, "category": null, "description": null, "analysis_query": "  "}`,
		},
		{
			"unknown request_type",
			`{"request_type": "greeting", "is_income": false, "is_expense": false,
			  "amount": null, "category": null, "description": null, "analysis_query": null}`,
		},
		{
			"explicit other",
			`{"request_type": "other", "is_income": false, "is_expense": false,
			  "amount": null, "category": null, "description": null, "analysis_query": null}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := classify(t, tt.response)
			if result.Intent != IntentOther {
				t.Errorf("Intent = %s, want other", result.Intent)
			}
			if result.Transaction != nil || result.Query != "" {
				t.Errorf("Other result must carry no fields, got %+v", result)
			}
		})
	}
}

func TestClassify_CoercesUnknownCategory(t *testing.T) {
	result := classify(t, `{
		"request_type": "transaction",
		"is_income": false,
		"is_expense": true,
		"amount": 300000,
		"category": "Du lịch nước ngoài",
		"description": "vé máy bay",
		"analysis_query": null
	}`)

	if result.Intent != IntentTransaction {
		t.Fatalf("Intent = %s, want transaction", result.Intent)
	}
	if result.Transaction.Category != domain.CategoryOther {
		t.Errorf("Category = %q, want coercion to Khác", result.Transaction.Category)
	}
}

func TestClassify_QuotedAmount(t *testing.T) {
	result := classify(t, `{
		"request_type": "transaction",
		"is_income": false,
		"is_expense": true,
		"amount": "50000",
		"category": "Khác",
		"description": "",
		"analysis_query": null
	}`)

	if result.Intent != IntentTransaction || !result.Transaction.Amount.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("Expected quoted amount to parse, got %+v", result)
	}
}

func TestClassify_MarkdownFences(t *testing.T) {
	result := classify(t, "```json\n"+`{
		"request_type": "other",
		"is_income": false,
		"is_expense": false,
		"amount": null,
		"category": null,
		"description": null,
		"analysis_query": null
	}`+"\n```")

	if result.Intent != IntentOther {
		t.Errorf("Intent = %s, want other after fence stripping", result.Intent)
	}
}

func TestClassify_GeneratorFailure(t *testing.T) {
	c := New(&fakeGenerator{err: errors.New("endpoint unreachable")})
	if _, err := c.Classify(context.Background(), "msg"); err == nil {
		t.Fatal("Expected error when the inference call fails")
	}
}

func TestClassify_NonJSONResponse(t *testing.T) {
	c := New(&fakeGenerator{response: "xin chào, tôi không hiểu"})
	if _, err := c.Classify(context.Background(), "msg"); err == nil {
		t.Fatal("Expected error when the response is not JSON at all")
	}
}

func TestBuildPrompt_ContainsMessageAndCategories(t *testing.T) {
	prompt := buildPrompt("sáng ăn phở 50k")

	if !strings.Contains(prompt, "sáng ăn phở 50k") {
		t.Error("Prompt must embed the user message")
	}
	for _, c := range domain.Categories {
		if !strings.Contains(prompt, string(c)) {
			t.Errorf("Prompt missing category %q", c)
		}
	}
}
