package sheets

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/phamduchai/spendbot/internal/domain"
	"github.com/phamduchai/spendbot/internal/logger"
)

// segmentPattern matches monthly tab names like "2025-04". Tabs outside this
// pattern belong to the user and are never touched.
var segmentPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// Store appends transaction records into a user's spreadsheet, partitioned
// into one tab per calendar month, and can scan every monthly tab back into
// a flat record list.
type Store struct {
	api API
}

// NewStore creates a store over the given Sheets API.
func NewStore(api API) *Store {
	return &Store{api: api}
}

// EnsureSegment makes sure the monthly tab exists with its header row.
// It is idempotent: an existing tab is left untouched.
func (s *Store) EnsureSegment(ctx context.Context, sheetID, segment string) error {
	titles, err := s.api.ListSheetTitles(ctx, sheetID)
	if err != nil {
		return fmt.Errorf("EnsureSegment: list tabs: %w", err)
	}

	for _, title := range titles {
		if title == segment {
			return nil
		}
	}

	if err := s.api.AddSheet(ctx, sheetID, segment); err != nil {
		return fmt.Errorf("EnsureSegment: create tab %s: %w", segment, err)
	}

	header := make([]interface{}, len(domain.HeaderRow))
	for i, col := range domain.HeaderRow {
		header[i] = col
	}
	headerRange := fmt.Sprintf("%s!A1", segment)
	if err := s.api.UpdateValues(ctx, sheetID, headerRange, [][]interface{}{header}); err != nil {
		return fmt.Errorf("EnsureSegment: write header for %s: %w", segment, err)
	}

	log := logger.FromContext(ctx)
	log.Info().
		Str("sheet_id", sheetID).
		Str("segment", segment).
		Msg("Created monthly segment")
	return nil
}

// Append writes one record into the tab for its calendar month, creating the
// tab first when needed. Rows are only ever appended after the existing
// table, never overwritten.
func (s *Store) Append(ctx context.Context, sheetID string, rec domain.TransactionRecord) error {
	segment := rec.SegmentName()
	if err := s.EnsureSegment(ctx, sheetID, segment); err != nil {
		return fmt.Errorf("Append: %w", err)
	}

	appendRange := fmt.Sprintf("%s!A1", segment)
	if err := s.api.AppendValues(ctx, sheetID, appendRange, [][]interface{}{rec.Row()}); err != nil {
		return fmt.Errorf("Append: %w", err)
	}

	log := logger.FromContext(ctx)
	log.Info().
		Str("sheet_id", sheetID).
		Str("segment", segment).
		Str("kind", string(rec.Kind)).
		Msg("Appended transaction")
	return nil
}

// ScanAll reads every monthly tab into a flat record list. The scan is
// deliberately tolerant: short rows are right-padded, non-numeric amounts
// become null with a logged warning, and a single tab's read failure is
// skipped rather than failing the whole scan.
func (s *Store) ScanAll(ctx context.Context, sheetID string) ([]domain.TransactionRecord, error) {
	log := logger.FromContext(ctx)

	titles, err := s.api.ListSheetTitles(ctx, sheetID)
	if err != nil {
		return nil, fmt.Errorf("ScanAll: list tabs: %w", err)
	}

	var records []domain.TransactionRecord
	for _, title := range titles {
		if !segmentPattern.MatchString(title) {
			continue
		}

		readRange := fmt.Sprintf("%s!A2:E", title)
		rows, err := s.api.GetValues(ctx, sheetID, readRange)
		if err != nil {
			log.Warn().Err(err).
				Str("sheet_id", sheetID).
				Str("segment", title).
				Msg("Skipping unreadable segment")
			continue
		}

		for _, row := range rows {
			records = append(records, parseRow(ctx, title, row))
		}
	}

	log.Info().
		Str("sheet_id", sheetID).
		Int("records", len(records)).
		Msg("Scanned transaction history")
	return records, nil
}

// parseRow maps one sheet row onto a record. Rows shorter than the header
// are right-padded with empty cells before mapping.
func parseRow(ctx context.Context, segment string, row []string) domain.TransactionRecord {
	cells := make([]string, len(domain.HeaderRow))
	copy(cells, row)

	log := logger.FromContext(ctx)

	rec := domain.TransactionRecord{
		Category:    domain.Category(cells[2]),
		Description: cells[3],
		Kind:        domain.Kind(cells[4]),
	}

	if ts, err := parseTimestamp(cells[0]); err == nil {
		rec.Timestamp = ts
	} else if cells[0] != "" {
		log.Warn().
			Str("segment", segment).
			Str("date", cells[0]).
			Msg("Unparseable date cell, keeping zero timestamp")
	}

	if amount, err := parseAmount(cells[1]); err == nil {
		rec.Amount = decimal.NullDecimal{Decimal: amount, Valid: true}
	} else if cells[1] != "" {
		log.Warn().
			Str("segment", segment).
			Str("amount", cells[1]).
			Msg("Non-numeric amount cell, keeping null amount")
	}

	return rec
}

func parseTimestamp(cell string) (time.Time, error) {
	cell = strings.TrimSpace(cell)
	if ts, err := time.Parse(domain.TimestampLayout, cell); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", cell)
}

// parseAmount accepts a comma decimal separator: sheets edited by hand often
// carry "50,5" instead of "50.5".
func parseAmount(cell string) (decimal.Decimal, error) {
	cell = strings.TrimSpace(strings.ReplaceAll(cell, ",", "."))
	return decimal.NewFromString(cell)
}
