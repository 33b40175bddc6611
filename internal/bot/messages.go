package bot

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/phamduchai/spendbot/internal/domain"
)

// telegramMessageLimit is Telegram's hard cap on one text message.
const telegramMessageLimit = 4096

// User-facing reply texts. The bot speaks Vietnamese; every terminal branch
// of the dispatcher other than the silent ones picks exactly one of these.
const (
	msgWelcome = "Chào mừng bạn đến với Bot Quản lý Chi tiêu!\n" +
		"Gửi /register <URL_Google_Sheet> để đăng ký.\n" +
		"Sau khi đăng ký, bạn có thể nhắn tin chi tiêu tự nhiên để ghi lại.\n" +
		"Gửi /help để xem hướng dẫn chi tiết."

	msgRegisterUsage = "Vui lòng cung cấp URL Google Sheet của bạn sau lệnh /register.\n" +
		"Ví dụ: /register https://docs.google.com/spreadsheets/d/..."

	msgInvalidSheetURL = "URL Google Sheet không hợp lệ. Vui lòng kiểm tra lại."

	msgRegisterFailed = "Không thể cập nhật thông tin đăng ký. Vui lòng thử lại sau."

	msgRegistrationCheckFailed = "Đã xảy ra lỗi khi kiểm tra đăng ký của bạn."

	msgClassifyFailed = "Đã xảy ra lỗi khi phân tích tin nhắn. Vui lòng thử lại sau."

	msgSheetNotFound = "⚠️ Không tìm thấy Google Sheet. URL bạn đăng ký có đúng không?"

	msgAppendFailed = "Đã xảy ra lỗi khi ghi vào Google Sheet. Vui lòng thử lại sau."

	msgNoData = "Không tìm thấy dữ liệu giao dịch nào để phân tích."

	msgHistoryReadFailed = "Lỗi: Không thể truy cập Google Sheet của bạn để lấy dữ liệu phân tích. " +
		"Vui lòng kiểm tra quyền chia sẻ."

	msgAnalysisFailed = "Xin lỗi, đã có lỗi xảy ra trong quá trình phân tích chi tiết."
)

func msgRegistered(serviceAccountEmail string) string {
	if serviceAccountEmail == "" {
		return "✅ Đăng ký/Cập nhật thành công!\n" +
			"*QUAN TRỌNG:* Hãy nhớ chia sẻ quyền 'Người chỉnh sửa' (Editor) cho Google Sheet của bạn " +
			"với địa chỉ email dịch vụ của bot."
	}
	return fmt.Sprintf("✅ Đăng ký/Cập nhật thành công!\n"+
		"*QUAN TRỌNG:* Hãy nhớ chia sẻ quyền 'Người chỉnh sửa' (Editor) cho Google Sheet của bạn "+
		"với địa chỉ email:\n`%s`\nNếu không, tôi sẽ không thể ghi chi tiêu giúp bạn.", serviceAccountEmail)
}

func msgPermissionDenied(serviceAccountEmail string) string {
	if serviceAccountEmail == "" {
		return "⚠️ Lỗi quyền truy cập! Vui lòng kiểm tra lại bạn đã chia sẻ quyền 'Người chỉnh sửa' (Editor) " +
			"cho Google Sheet với email dịch vụ của bot chưa."
	}
	return fmt.Sprintf("⚠️ Lỗi quyền truy cập! Vui lòng kiểm tra lại bạn đã chia sẻ quyền "+
		"'Người chỉnh sửa' (Editor) cho Google Sheet với `%s` chưa.", serviceAccountEmail)
}

func msgRecorded(tx domain.TransactionRecord) string {
	kind := "chi tiêu"
	if tx.Kind == domain.KindIncome {
		kind = "thu nhập"
	}
	amount := ""
	if tx.Amount.Valid {
		amount = formatAmount(tx.Amount.Decimal)
	}
	return fmt.Sprintf("✅ Đã ghi %s: %s - %s", kind, amount, tx.Category)
}

func msgHelp(serviceAccountEmail string) string {
	share := "địa chỉ email dịch vụ của bot"
	if serviceAccountEmail != "" {
		share = "`" + serviceAccountEmail + "`"
	}
	return "*Hướng dẫn sử dụng Bot Quản lý Chi tiêu:*\n\n" +
		"1. *Đăng ký:*\n" +
		"   - Tạo một Google Sheet mới cho riêng bạn.\n" +
		"   - Lấy URL của Sheet đó.\n" +
		"   - Gửi lệnh: /register <URL_Google_Sheet_Của_Bạn>\n" +
		"   - *QUAN TRỌNG:* Chia sẻ quyền 'Người chỉnh sửa' (Editor) cho Sheet của bạn với " + share + ". " +
		"Nếu không, bot sẽ không thể ghi dữ liệu.\n\n" +
		"2. *Ghi chi tiêu:*\n" +
		"   - Sau khi đăng ký thành công và chia sẻ quyền, chỉ cần nhắn tin mô tả khoản chi tiêu của bạn một cách tự nhiên.\n" +
		"   - Ví dụ: 'sáng ăn phở 50k', 'đổ xăng 100000 đồng', 'mua sách online hết 250 nghìn cho việc học'\n" +
		"   - Bot sẽ tự động phân tích và ghi vào Google Sheet của bạn.\n\n" +
		"3. *Phân tích:*\n" +
		"   - Hỏi bot về dữ liệu của bạn, ví dụ: 'thống kê chi tiêu tháng này theo danh mục'.\n" +
		"   - Bot trả lời kèm biểu đồ khi phù hợp.\n\n" +
		"4. *Lưu ý:*\n" +
		"   - Nếu tin nhắn không được hiểu là giao dịch hay yêu cầu phân tích, bot sẽ bỏ qua.\n" +
		"   - Dữ liệu được ghi vào Sheet gồm: Ngày, Số tiền, Danh mục, Ghi chú, Loại."
}

// formatAmount renders a decimal with thousands separators, e.g. 50000 ->
// "50,000". Fractions are kept as-is after the integer part.
func formatAmount(d decimal.Decimal) string {
	s := d.String()

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart := s, ""
	if i := strings.Index(s, "."); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := b.String() + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

// truncateMessage keeps a reply within Telegram's message size limit,
// cutting on a rune boundary.
func truncateMessage(s string) string {
	if len(s) <= telegramMessageLimit {
		return s
	}
	cut := s[:telegramMessageLimit-3]
	for !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut + "..."
}
