package sheets

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// fakeAPI is an in-memory spreadsheet model implementing API. Each
// spreadsheet is an ordered list of tabs holding string rows; a range
// without a tab prefix addresses the first (default) tab, matching how the
// registry uses the master sheet.
type fakeAPI struct {
	tabs map[string][]string              // spreadsheetID -> ordered tab titles
	rows map[string]map[string][][]string // spreadsheetID -> tab -> rows

	getErr    map[string]error // key: spreadsheetID + "/" + tab
	listErr   error
	updateErr error
	appendErr error

	addSheetCalls []string
	appendCalls   int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		tabs:   make(map[string][]string),
		rows:   make(map[string]map[string][][]string),
		getErr: make(map[string]error),
	}
}

func (f *fakeAPI) addTab(spreadsheetID, tab string, rows [][]string) {
	f.tabs[spreadsheetID] = append(f.tabs[spreadsheetID], tab)
	if f.rows[spreadsheetID] == nil {
		f.rows[spreadsheetID] = make(map[string][][]string)
	}
	f.rows[spreadsheetID][tab] = rows
}

func (f *fakeAPI) tabRows(spreadsheetID, tab string) [][]string {
	if f.rows[spreadsheetID] == nil {
		return nil
	}
	return f.rows[spreadsheetID][tab]
}

func splitRange(rng string) (tab, cells string) {
	if i := strings.Index(rng, "!"); i >= 0 {
		return rng[:i], rng[i+1:]
	}
	return "", rng
}

var rowRangePattern = regexp.MustCompile(`^A(\d+):B\d+$`)

func (f *fakeAPI) GetValues(_ context.Context, spreadsheetID, readRange string) ([][]string, error) {
	tab, cells := splitRange(readRange)
	if err := f.getErr[spreadsheetID+"/"+tab]; err != nil {
		return nil, err
	}

	rows := f.tabRows(spreadsheetID, tab)
	// A2:E skips the header row.
	if strings.HasPrefix(cells, "A2") && len(rows) > 0 {
		return rows[1:], nil
	}
	return rows, nil
}

func (f *fakeAPI) UpdateValues(_ context.Context, spreadsheetID, updateRange string, rows [][]interface{}) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	tab, cells := splitRange(updateRange)

	target := 0
	if m := rowRangePattern.FindStringSubmatch(cells); m != nil {
		fmt.Sscanf(m[1], "%d", &target)
		target-- // 1-based range to 0-based index
	}

	existing := f.tabRows(spreadsheetID, tab)
	for len(existing) <= target {
		existing = append(existing, nil)
	}
	existing[target] = toStrings(rows[0])
	if f.rows[spreadsheetID] == nil {
		f.rows[spreadsheetID] = make(map[string][][]string)
	}
	f.rows[spreadsheetID][tab] = existing
	return nil
}

func (f *fakeAPI) AppendValues(_ context.Context, spreadsheetID, appendRange string, rows [][]interface{}) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appendCalls++
	tab, _ := splitRange(appendRange)

	existing := f.tabRows(spreadsheetID, tab)
	for _, row := range rows {
		existing = append(existing, toStrings(row))
	}
	if f.rows[spreadsheetID] == nil {
		f.rows[spreadsheetID] = make(map[string][][]string)
	}
	f.rows[spreadsheetID][tab] = existing
	return nil
}

func (f *fakeAPI) ListSheetTitles(_ context.Context, spreadsheetID string) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.tabs[spreadsheetID], nil
}

func (f *fakeAPI) AddSheet(_ context.Context, spreadsheetID, title string) error {
	f.addSheetCalls = append(f.addSheetCalls, title)
	f.addTab(spreadsheetID, title, nil)
	return nil
}

func toStrings(row []interface{}) []string {
	cells := make([]string, len(row))
	for i, cell := range row {
		cells[i] = fmt.Sprintf("%v", cell)
	}
	return cells
}
