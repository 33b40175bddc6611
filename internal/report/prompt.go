package report

import (
	"fmt"
	"strings"
)

// buildPrompt assembles the analysis instruction: the user's query plus the
// full transaction history as a JSON payload. The response contract is one
// JSON object with "summary" (Vietnamese Markdown with emojis) and
// "chart_json" (a Chart.js-shaped object).
func buildPrompt(query, dataJSON string) string {
	var b strings.Builder

	b.WriteString("Analyze the following transaction data (including income 'Thu' and expenses 'Chi') based on the user's request.\n\n")
	b.WriteString(fmt.Sprintf("User Request: %q\n\n", query))
	b.WriteString("Transaction Data (JSON format):\n")
	b.WriteString(dataJSON)
	b.WriteString("\n\n")

	b.WriteString("Instructions:\n")
	b.WriteString("1. Provide a concise summary of the analysis in natural language (Vietnamese). ")
	b.WriteString("Format the summary clearly using Markdown for readability (e.g., headings, bullet points, bold text). ")
	b.WriteString("Include relevant emojis (like 💰, 💸, 📊, 🗓️) to make it visually appealing. ")
	b.WriteString("Categorize information logically based on the user's request.\n")
	b.WriteString("2. Provide a JSON object suitable for creating charts. ")
	b.WriteString("Determine the most appropriate chart type (line, bar, or pie) based on the user's request and the nature of the data. ")
	b.WriteString("Use Vietnamese for labels. ")
	b.WriteString("Label datasets clearly to distinguish between income ('Tổng Thu') and expenses ('Tổng Chi').\n\n")

	b.WriteString("Output Format:\n")
	b.WriteString("Return your response as a single JSON object containing two keys:\n")
	b.WriteString("- \"summary\": (string) The Markdown-formatted natural language summary with emojis.\n")
	b.WriteString("- \"chart_json\": (object) The JSON data for the chosen chart type.\n\n")

	b.WriteString("Example chart_json for LINE chart (monthly income vs. expense):\n")
	b.WriteString(`{"type": "line", "data": {"labels": ["2025-01", "2025-02"], "datasets": [{"label": "Tổng Thu", "data": [10000000, 12000000]}, {"label": "Tổng Chi", "data": [8000000, 9500000]}]}}` + "\n")
	b.WriteString("Example chart_json for BAR chart (expenses by category):\n")
	b.WriteString(`{"type": "bar", "data": {"labels": ["Ăn uống", "Đi lại"], "datasets": [{"label": "Tổng Chi", "data": [500000, 150000]}]}}` + "\n")
	b.WriteString("Example chart_json for PIE chart (expense distribution):\n")
	b.WriteString(`{"type": "pie", "data": {"labels": ["Ăn uống", "Đi lại"], "datasets": [{"label": "Phân bổ chi tiêu", "data": [500000, 150000]}]}}` + "\n\n")

	b.WriteString("Ensure the entire output is a valid JSON object.\n")

	return b.String()
}
