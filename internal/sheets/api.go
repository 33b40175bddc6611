package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"
)

// API is the narrow surface of the Sheets v4 service the registry and store
// need. Keeping it this small lets tests substitute an in-memory fake.
type API interface {
	// GetValues reads a range and returns the cell values as strings.
	GetValues(ctx context.Context, spreadsheetID, readRange string) ([][]string, error)

	// UpdateValues overwrites a range with the given rows.
	UpdateValues(ctx context.Context, spreadsheetID, updateRange string, rows [][]interface{}) error

	// AppendValues appends rows after the last row of the table anchored at
	// the given range, never overwriting existing data.
	AppendValues(ctx context.Context, spreadsheetID, appendRange string, rows [][]interface{}) error

	// ListSheetTitles returns the titles of every tab in the spreadsheet.
	ListSheetTitles(ctx context.Context, spreadsheetID string) ([]string, error)

	// AddSheet creates a new empty tab with the given title.
	AddSheet(ctx context.Context, spreadsheetID, title string) error
}

// Service implements API against the real Sheets v4 client.
type Service struct {
	svc *sheetsv4.Service
}

// NewService creates a Sheets client with the spreadsheets scope. An empty
// credentialsFile falls back to Application Default Credentials.
func NewService(ctx context.Context, credentialsFile string) (*Service, error) {
	opts := []option.ClientOption{option.WithScopes(sheetsv4.SpreadsheetsScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	svc, err := sheetsv4.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewService: create sheets client: %w", err)
	}
	return &Service{svc: svc}, nil
}

func (s *Service) GetValues(ctx context.Context, spreadsheetID, readRange string) ([][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError("GetValues", err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, fmt.Sprintf("%v", cell))
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func (s *Service) UpdateValues(ctx context.Context, spreadsheetID, updateRange string, rows [][]interface{}) error {
	body := &sheetsv4.ValueRange{Values: rows}
	_, err := s.svc.Spreadsheets.Values.Update(spreadsheetID, updateRange, body).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return wrapAPIError("UpdateValues", err)
	}
	return nil
}

func (s *Service) AppendValues(ctx context.Context, spreadsheetID, appendRange string, rows [][]interface{}) error {
	body := &sheetsv4.ValueRange{Values: rows}
	_, err := s.svc.Spreadsheets.Values.Append(spreadsheetID, appendRange, body).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return wrapAPIError("AppendValues", err)
	}
	return nil
}

func (s *Service) ListSheetTitles(ctx context.Context, spreadsheetID string) ([]string, error) {
	resp, err := s.svc.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError("ListSheetTitles", err)
	}

	titles := make([]string, 0, len(resp.Sheets))
	for _, sheet := range resp.Sheets {
		if sheet.Properties != nil {
			titles = append(titles, sheet.Properties.Title)
		}
	}
	return titles, nil
}

func (s *Service) AddSheet(ctx context.Context, spreadsheetID, title string) error {
	req := &sheetsv4.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsv4.Request{
			{
				AddSheet: &sheetsv4.AddSheetRequest{
					Properties: &sheetsv4.SheetProperties{Title: title},
				},
			},
		},
	}
	_, err := s.svc.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return wrapAPIError("AddSheet", err)
	}
	return nil
}
