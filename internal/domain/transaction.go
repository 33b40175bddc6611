package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind tags a record as income or expense. The stored values are the
// Vietnamese short forms used in the sheet's Type column.
type Kind string

const (
	KindIncome  Kind = "Thu"
	KindExpense Kind = "Chi"
)

// Layouts and fixed sheet structure shared by the store and the bot.
const (
	// TimestampLayout is how transaction timestamps are written to the
	// Date column.
	TimestampLayout = "2006-01-02 15:04:05"

	// SegmentLayout names the monthly tab a record lands in (YYYY-MM).
	SegmentLayout = "2006-01"
)

// HeaderRow is the fixed five-column header of every monthly segment.
var HeaderRow = []string{"Date", "Amount", "Category", "Description", "Type"}

// TransactionRecord is one income or expense entry in a user's sheet.
// Amount is nullable: rows whose Amount cell does not parse as a number are
// kept during a scan with a null amount instead of aborting the read.
// Records are immutable once stored.
type TransactionRecord struct {
	Timestamp   time.Time
	Amount      decimal.NullDecimal
	Category    Category
	Description string
	Kind        Kind
}

// SegmentName returns the YYYY-MM tab this record belongs to.
func (r TransactionRecord) SegmentName() string {
	return r.Timestamp.Format(SegmentLayout)
}

// Row maps the record to the five sheet columns, in header order.
func (r TransactionRecord) Row() []interface{} {
	amount := ""
	if r.Amount.Valid {
		amount = r.Amount.Decimal.String()
	}
	return []interface{}{
		r.Timestamp.Format(TimestampLayout),
		amount,
		string(r.Category),
		r.Description,
		string(r.Kind),
	}
}
