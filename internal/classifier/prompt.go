package classifier

import (
	"fmt"
	"strings"

	"github.com/phamduchai/spendbot/internal/domain"
)

// buildPrompt assembles the few-shot classification instruction for one
// message. The response contract is a single JSON object with exactly seven
// keys; the category whitelist is injected from the domain's closed set so
// prompt and validation can never drift apart.
func buildPrompt(messageText string) string {
	quoted := make([]string, len(domain.Categories))
	for i, c := range domain.Categories {
		quoted[i] = fmt.Sprintf("%q", string(c))
	}
	categoryList := strings.Join(quoted, ", ")

	var b strings.Builder

	b.WriteString("Phân tích tin nhắn sau đây để xác định xem nó thuộc loại nào trong ba loại sau:\n")
	b.WriteString("1. **Ghi giao dịch:** Yêu cầu ghi lại một khoản thu (income) hoặc chi tiêu (expense).\n")
	b.WriteString("2. **Yêu cầu phân tích:** Yêu cầu thống kê, báo cáo, hoặc phân tích dữ liệu chi tiêu/thu nhập ")
	b.WriteString("(ví dụ: \"tháng này tiêu bao nhiêu\", \"thống kê chi tiêu theo danh mục\", \"thu nhập 3 tháng gần nhất\").\n")
	b.WriteString("3. **Khác:** Các loại tin nhắn khác không liên quan.\n\n")

	b.WriteString("**Kết quả trả về PHẢI là một đối tượng JSON duy nhất với các trường sau:**\n")
	b.WriteString("- `request_type`: (string) Giá trị là một trong: \"transaction\", \"analysis\", \"other\".\n")
	b.WriteString("- `is_income`: (boolean) True nếu là ghi khoản thu, False nếu không.\n")
	b.WriteString("- `is_expense`: (boolean) True nếu là ghi khoản chi, False nếu không.\n")
	b.WriteString("- `amount`: (number hoặc null) Số tiền nếu là ghi giao dịch.\n")
	b.WriteString("- `category`: (string hoặc null) Danh mục nếu là ghi giao dịch (chọn từ danh sách: " + categoryList + ").\n")
	b.WriteString("- `description`: (string hoặc null) Mô tả nếu là ghi giao dịch.\n")
	b.WriteString("- `analysis_query`: (string hoặc null) Câu truy vấn/yêu cầu phân tích của người dùng nếu `request_type` là \"analysis\". Giữ nguyên ý nghĩa của yêu cầu gốc.\n\n")

	b.WriteString("**QUAN TRỌNG:**\n")
	b.WriteString("- Nếu là `request_type: \"transaction\"`, các trường `is_income`, `is_expense`, `amount`, `category`, `description` phải được điền phù hợp. `analysis_query` là null.\n")
	b.WriteString("- Nếu là `request_type: \"analysis\"`, trường `analysis_query` phải chứa yêu cầu phân tích. Các trường giao dịch là null hoặc false.\n")
	b.WriteString("- Nếu là `request_type: \"other\"`, tất cả các trường khác là null hoặc false.\n\n")

	b.WriteString("**Chỉ trả về JSON, không giải thích gì thêm.**\n\n")
	b.WriteString("Ví dụ:\n\n")

	b.WriteString("Tin nhắn: \"sáng nay ăn phở hết 50k ở quán gần nhà\"\n")
	b.WriteString(`Kết quả:
{
  "request_type": "transaction",
  "is_income": false,
  "is_expense": true,
  "amount": 50000.0,
  "category": "Ăn uống & Đồ uống",
  "description": "Phở sáng ở quán gần nhà",
  "analysis_query": null
}

`)

	b.WriteString("Tin nhắn: \"nhận lương tháng này 20 triệu\"\n")
	b.WriteString(`Kết quả:
{
  "request_type": "transaction",
  "is_income": true,
  "is_expense": false,
  "amount": 20000000.0,
  "category": "Khác",
  "description": "Nhận lương tháng này",
  "analysis_query": null
}

`)

	b.WriteString("Tin nhắn: \"thống kê chi tiêu tháng này theo danh mục\"\n")
	b.WriteString(`Kết quả:
{
  "request_type": "analysis",
  "is_income": false,
  "is_expense": false,
  "amount": null,
  "category": null,
  "description": null,
  "analysis_query": "thống kê chi tiêu tháng này theo danh mục"
}

`)

	b.WriteString("Tin nhắn: \"hôm nay trời đẹp quá\"\n")
	b.WriteString(`Kết quả:
{
  "request_type": "other",
  "is_income": false,
  "is_expense": false,
  "amount": null,
  "category": null,
  "description": null,
  "analysis_query": null
}

`)

	b.WriteString("---\nBây giờ, phân tích tin nhắn sau:\n\n")
	b.WriteString(fmt.Sprintf("Tin nhắn: %q\nKết quả:\n", messageText))

	return b.String()
}
