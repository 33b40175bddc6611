package bot

import "regexp"

// sheetURLPattern matches the opaque spreadsheet id inside a Google Sheets
// URL such as https://docs.google.com/spreadsheets/d/<id>/edit.
var sheetURLPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// ExtractSheetID pulls the spreadsheet id out of a registration URL.
// It returns false for anything that does not contain the expected segment.
func ExtractSheetID(url string) (string, bool) {
	m := sheetURLPattern.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return m[1], true
}
