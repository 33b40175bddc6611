package sheets

import (
	"context"
	"fmt"

	"github.com/phamduchai/spendbot/internal/logger"
)

// registryRange covers the two registry columns on the master sheet's first
// visible tab: user_id in A, sheet_id in B, no header row.
const registryRange = "A:B"

// Registry is the directory mapping an external chat identity to the user's
// personal spreadsheet id. It is a plain two-column table scanned linearly;
// registration is rare and user-initiated, so there is no locking and a
// concurrent Upsert race resolves to whichever write the backend applied
// last.
type Registry struct {
	api           API
	masterSheetID string
}

// NewRegistry creates a registry over the given master spreadsheet.
func NewRegistry(api API, masterSheetID string) *Registry {
	return &Registry{api: api, masterSheetID: masterSheetID}
}

// Lookup returns the sheet id registered for userID, or ErrNotRegistered
// when the user has no row.
func (r *Registry) Lookup(ctx context.Context, userID string) (string, error) {
	rows, err := r.api.GetValues(ctx, r.masterSheetID, registryRange)
	if err != nil {
		return "", fmt.Errorf("Lookup: read master sheet: %w", err)
	}

	for _, row := range rows {
		if len(row) >= 2 && row[0] == userID {
			return row[1], nil
		}
	}
	return "", fmt.Errorf("Lookup: user %s: %w", userID, ErrNotRegistered)
}

// Upsert writes the (userID, sheetID) mapping. An existing row with the same
// sheet id is a no-op; a row with a different sheet id is overwritten in
// place (last write wins); otherwise a new row is appended.
func (r *Registry) Upsert(ctx context.Context, userID, sheetID string) error {
	log := logger.FromContext(ctx)

	rows, err := r.api.GetValues(ctx, r.masterSheetID, registryRange)
	if err != nil {
		return fmt.Errorf("Upsert: read master sheet: %w", err)
	}

	rowIndex := -1
	existingSheetID := ""
	for i, row := range rows {
		if len(row) >= 1 && row[0] == userID {
			rowIndex = i + 1 // ranges are 1-based
			if len(row) >= 2 {
				existingSheetID = row[1]
			}
			break
		}
	}

	switch {
	case rowIndex != -1 && existingSheetID == sheetID:
		log.Info().Str("user_id", userID).Msg("User already registered with the same sheet, no update needed")
		return nil

	case rowIndex != -1:
		updateRange := fmt.Sprintf("A%d:B%d", rowIndex, rowIndex)
		if err := r.api.UpdateValues(ctx, r.masterSheetID, updateRange, [][]interface{}{{userID, sheetID}}); err != nil {
			return fmt.Errorf("Upsert: update row %d: %w", rowIndex, err)
		}
		log.Info().Str("user_id", userID).Str("sheet_id", sheetID).Msg("Updated registration")
		return nil

	default:
		// Appending to A1 finds the registry table and appends after its
		// last row.
		if err := r.api.AppendValues(ctx, r.masterSheetID, "A1", [][]interface{}{{userID, sheetID}}); err != nil {
			return fmt.Errorf("Upsert: append row: %w", err)
		}
		log.Info().Str("user_id", userID).Str("sheet_id", sheetID).Msg("Registered new user")
		return nil
	}
}
