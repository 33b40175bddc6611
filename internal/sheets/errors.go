package sheets

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

// Backend error taxonomy. Callers match with errors.Is to pick the
// user-facing message; the original API error stays in the message text.
var (
	// ErrBackendUnavailable covers transport and auth failures where the
	// Sheets API could not be reached at all.
	ErrBackendUnavailable = errors.New("spreadsheet backend unavailable")

	// ErrPermissionDenied maps a 403: the service account is missing
	// editor access to the sheet.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound maps a 404: the sheet was deleted or the registered id
	// is mistyped.
	ErrNotFound = errors.New("sheet not found")

	// ErrNotRegistered is returned by Registry.Lookup when the user has no
	// row in the master sheet.
	ErrNotRegistered = errors.New("user not registered")
)

// wrapAPIError classifies an error from the Sheets client. Well-formed API
// rejections keep their status-specific sentinel; anything else is treated
// as the backend being unreachable.
func wrapAPIError(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusForbidden:
			return fmt.Errorf("%s: %w: %s", op, ErrPermissionDenied, apiErr.Message)
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w: %s", op, ErrNotFound, apiErr.Message)
		}
		return fmt.Errorf("%s: sheets API status %d: %w", op, apiErr.Code, err)
	}
	return fmt.Errorf("%s: %w: %v", op, ErrBackendUnavailable, err)
}
