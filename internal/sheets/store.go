// Package sheets is the tabular store client: a spreadsheet addressed by ID
// and A1 ranges, read and appended to one request at a time.
package sheets

import "context"

// Store is a remote (or local) spreadsheet service.
type Store interface {
	// ReadRange returns the rows of rng. An empty range is not an error.
	ReadRange(ctx context.Context, spreadsheetID, rng string) ([][]string, error)
	// AppendRows writes rows after the last row of the table found in rng.
	AppendRows(ctx context.Context, spreadsheetID, rng string, rows [][]string) (*AppendResult, error)
	// WriteRange overwrites cells starting at the top-left of rng.
	WriteRange(ctx context.Context, spreadsheetID, rng string, rows [][]string) (*UpdateResult, error)
	// ClearRange blanks every cell in rng and returns the cleared range.
	ClearRange(ctx context.Context, spreadsheetID, rng string) (string, error)
	Metadata(ctx context.Context, spreadsheetID string) (*Metadata, error)
	// CreateSpreadsheet returns the ID of the new spreadsheet.
	CreateSpreadsheet(ctx context.Context, title string, sheetNames []string) (string, error)
}

// UpdateResult describes cells written by a write or append.
type UpdateResult struct {
	SpreadsheetID  string `json:"spreadsheet_id"`
	UpdatedRange   string `json:"updated_range"`
	UpdatedRows    int64  `json:"updated_rows"`
	UpdatedColumns int64  `json:"updated_columns"`
	UpdatedCells   int64  `json:"updated_cells"`
}

// AppendResult is the confirmation returned by AppendRows.
type AppendResult struct {
	UpdateResult
	// TableRange is the table the rows were appended to, empty if there was none.
	TableRange string `json:"table_range,omitempty"`
}

// Metadata describes a spreadsheet and its sheets.
type Metadata struct {
	SpreadsheetID string      `json:"spreadsheet_id"`
	Title         string      `json:"title"`
	URL           string      `json:"url,omitempty"`
	TimeZone      string      `json:"time_zone,omitempty"`
	Sheets        []SheetInfo `json:"sheets"`
}

// SheetInfo describes one sheet (tab) of a spreadsheet.
type SheetInfo struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Index       int64  `json:"index"`
	RowCount    int64  `json:"row_count"`
	ColumnCount int64  `json:"column_count"`
}

// Width returns the length of the longest row.
func Width(rows [][]string) int {
	w := 0
	for _, r := range rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

// Cells returns the total number of cells in rows.
func Cells(rows [][]string) int {
	n := 0
	for _, r := range rows {
		n += len(r)
	}
	return n
}
