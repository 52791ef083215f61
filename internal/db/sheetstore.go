package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chris/growthcoach/internal/sheets"
	"github.com/google/uuid"
)

// SheetStore is a sheets.Store kept in the local database. It follows the
// same range, append and error semantics as the Google Sheets backend.
type SheetStore struct {
	db *DB
}

// Sheets returns the local spreadsheet store.
func (d *DB) Sheets() *SheetStore {
	return &SheetStore{db: d}
}

var _ sheets.Store = (*SheetStore)(nil)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type cell struct {
	row, col int
	value    string
}

func (s *SheetStore) ReadRange(ctx context.Context, spreadsheetID, rng string) ([][]string, error) {
	r, err := s.target(ctx, s.db.conn, spreadsheetID, rng)
	if err != nil {
		return nil, err
	}
	cells, err := s.cellsIn(ctx, s.db.conn, spreadsheetID, r)
	if err != nil {
		return nil, err
	}
	return grid(r, cells), nil
}

func (s *SheetStore) AppendRows(ctx context.Context, spreadsheetID, rng string, rows [][]string) (*sheets.AppendResult, error) {
	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: beginning append: %v", sheets.ErrWrite, err)
	}
	defer tx.Rollback()

	r, err := s.target(ctx, tx, spreadsheetID, rng)
	if err != nil {
		return nil, err
	}
	existing, err := s.cellsIn(ctx, tx, spreadsheetID, r)
	if err != nil {
		return nil, err
	}

	out := &sheets.AppendResult{}
	out.SpreadsheetID = spreadsheetID
	next := r.StartRow
	if len(existing) > 0 {
		first, last := existing[0].row, existing[len(existing)-1].row
		minCol, maxCol := existing[0].col, existing[0].col
		for _, c := range existing {
			minCol = min(minCol, c.col)
			maxCol = max(maxCol, c.col)
		}
		out.TableRange = sheets.CellRange(r.Sheet, first, minCol, last, maxCol)
		next = last + 1
	}

	if err := s.put(ctx, tx, spreadsheetID, r.Sheet, next, r.StartCol, rows); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: committing append: %v", sheets.ErrWrite, err)
	}
	out.UpdateResult = updated(spreadsheetID, r.Sheet, next, r.StartCol, rows)
	return out, nil
}

func (s *SheetStore) WriteRange(ctx context.Context, spreadsheetID, rng string, rows [][]string) (*sheets.UpdateResult, error) {
	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: beginning write: %v", sheets.ErrWrite, err)
	}
	defer tx.Rollback()

	r, err := s.target(ctx, tx, spreadsheetID, rng)
	if err != nil {
		return nil, err
	}
	if r.EndRow != sheets.Unbounded && r.StartRow+len(rows)-1 > r.EndRow {
		return nil, fmt.Errorf("%w: %d rows do not fit in %s", sheets.ErrRange, len(rows), rng)
	}
	if w := sheets.Width(rows); r.EndCol != sheets.Unbounded && r.StartCol+w-1 > r.EndCol {
		return nil, fmt.Errorf("%w: %d columns do not fit in %s", sheets.ErrRange, w, rng)
	}
	if err := s.put(ctx, tx, spreadsheetID, r.Sheet, r.StartRow, r.StartCol, rows); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: committing write: %v", sheets.ErrWrite, err)
	}
	res := updated(spreadsheetID, r.Sheet, r.StartRow, r.StartCol, rows)
	return &res, nil
}

func (s *SheetStore) ClearRange(ctx context.Context, spreadsheetID, rng string) (string, error) {
	r, err := s.target(ctx, s.db.conn, spreadsheetID, rng)
	if err != nil {
		return "", err
	}
	_, err = s.db.conn.ExecContext(ctx,
		`DELETE FROM cells WHERE spreadsheet_id = ? AND sheet = ?
		   AND row_idx >= ? AND (? < 0 OR row_idx <= ?)
		   AND col_idx >= ? AND (? < 0 OR col_idx <= ?)`,
		spreadsheetID, r.Sheet, r.StartRow, r.EndRow, r.EndRow, r.StartCol, r.EndCol, r.EndCol,
	)
	if err != nil {
		return "", fmt.Errorf("%w: clearing %s: %v", sheets.ErrWrite, rng, err)
	}
	return r.String(), nil
}

func (s *SheetStore) Metadata(ctx context.Context, spreadsheetID string) (*sheets.Metadata, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("%w: spreadsheet ID is empty", sheets.ErrConfiguration)
	}
	md := &sheets.Metadata{SpreadsheetID: spreadsheetID}
	err := s.db.conn.QueryRowContext(ctx, "SELECT title FROM spreadsheets WHERE id = ?", spreadsheetID).Scan(&md.Title)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", sheets.ErrNotFound, spreadsheetID)
	}
	if err != nil {
		return nil, fmt.Errorf("getting spreadsheet: %w", err)
	}

	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT s.title, s.position, COALESCE(MAX(c.row_idx) + 1, 0), COALESCE(MAX(c.col_idx) + 1, 0)
		 FROM sheets s
		 LEFT JOIN cells c ON c.spreadsheet_id = s.spreadsheet_id AND c.sheet = s.title
		 WHERE s.spreadsheet_id = ?
		 GROUP BY s.title, s.position
		 ORDER BY s.position`, spreadsheetID)
	if err != nil {
		return nil, fmt.Errorf("listing sheets: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var info sheets.SheetInfo
		if err := rows.Scan(&info.Title, &info.Index, &info.RowCount, &info.ColumnCount); err != nil {
			return nil, fmt.Errorf("scanning sheet: %w", err)
		}
		info.ID = info.Index
		md.Sheets = append(md.Sheets, info)
	}
	return md, rows.Err()
}

func (s *SheetStore) CreateSpreadsheet(ctx context.Context, title string, sheetNames []string) (string, error) {
	if title == "" {
		return "", fmt.Errorf("creating spreadsheet: title is empty")
	}
	if len(sheetNames) == 0 {
		sheetNames = []string{"Sheet1"}
	}
	id := uuid.NewString()

	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%w: beginning create: %v", sheets.ErrWrite, err)
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, "INSERT INTO spreadsheets (id, title) VALUES (?, ?)", id, title); err != nil {
		return "", fmt.Errorf("%w: creating spreadsheet: %v", sheets.ErrWrite, err)
	}
	for i, name := range sheetNames {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO sheets (spreadsheet_id, title, position) VALUES (?, ?, ?)", id, name, i,
		); err != nil {
			return "", fmt.Errorf("%w: adding sheet %q: %v", sheets.ErrWrite, name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%w: committing create: %v", sheets.ErrWrite, err)
	}
	return id, nil
}

// target validates the ID and range and checks both exist.
func (s *SheetStore) target(ctx context.Context, q querier, spreadsheetID, rng string) (sheets.Range, error) {
	if spreadsheetID == "" {
		return sheets.Range{}, fmt.Errorf("%w: spreadsheet ID is empty", sheets.ErrConfiguration)
	}
	r, err := sheets.ParseRange(rng)
	if err != nil {
		return sheets.Range{}, err
	}
	var found int
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM spreadsheets WHERE id = ?", spreadsheetID).Scan(&found); err != nil {
		return sheets.Range{}, fmt.Errorf("looking up spreadsheet: %w", err)
	}
	if found == 0 {
		return sheets.Range{}, fmt.Errorf("%w: %s", sheets.ErrNotFound, spreadsheetID)
	}
	if err := q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sheets WHERE spreadsheet_id = ? AND title = ?", spreadsheetID, r.Sheet,
	).Scan(&found); err != nil {
		return sheets.Range{}, fmt.Errorf("looking up sheet: %w", err)
	}
	if found == 0 {
		return sheets.Range{}, fmt.Errorf("%w: no sheet named %q", sheets.ErrRange, r.Sheet)
	}
	return r, nil
}

// cellsIn returns the non-empty cells of r ordered by row, then column.
func (s *SheetStore) cellsIn(ctx context.Context, q querier, spreadsheetID string, r sheets.Range) ([]cell, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT row_idx, col_idx, value FROM cells
		 WHERE spreadsheet_id = ? AND sheet = ?
		   AND row_idx >= ? AND (? < 0 OR row_idx <= ?)
		   AND col_idx >= ? AND (? < 0 OR col_idx <= ?)
		 ORDER BY row_idx, col_idx`,
		spreadsheetID, r.Sheet, r.StartRow, r.EndRow, r.EndRow, r.StartCol, r.EndCol, r.EndCol,
	)
	if err != nil {
		return nil, fmt.Errorf("reading cells: %w", err)
	}
	defer rows.Close()
	var out []cell
	for rows.Next() {
		var c cell
		if err := rows.Scan(&c.row, &c.col, &c.value); err != nil {
			return nil, fmt.Errorf("scanning cell: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// put writes rows with their top-left at (row, col). Empty strings clear.
func (s *SheetStore) put(ctx context.Context, q querier, spreadsheetID, sheet string, row, col int, rows [][]string) error {
	for i, values := range rows {
		for j, v := range values {
			var err error
			if v == "" {
				_, err = q.ExecContext(ctx,
					"DELETE FROM cells WHERE spreadsheet_id = ? AND sheet = ? AND row_idx = ? AND col_idx = ?",
					spreadsheetID, sheet, row+i, col+j)
			} else {
				_, err = q.ExecContext(ctx,
					`INSERT INTO cells (spreadsheet_id, sheet, row_idx, col_idx, value) VALUES (?, ?, ?, ?, ?)
					 ON CONFLICT(spreadsheet_id, sheet, row_idx, col_idx) DO UPDATE SET value = excluded.value`,
					spreadsheetID, sheet, row+i, col+j, v)
			}
			if err != nil {
				return fmt.Errorf("%w: writing %s%d: %v", sheets.ErrWrite, sheets.ColumnName(col+j), row+i+1, err)
			}
		}
	}
	return nil
}

// grid lays cells out as rows relative to r's top-left corner. Trailing
// empty rows and cells are not represented, as in the Sheets API.
func grid(r sheets.Range, cells []cell) [][]string {
	if len(cells) == 0 {
		return [][]string{}
	}
	out := make([][]string, cells[len(cells)-1].row-r.StartRow+1)
	for _, c := range cells {
		i, j := c.row-r.StartRow, c.col-r.StartCol
		for len(out[i]) <= j {
			out[i] = append(out[i], "")
		}
		out[i][j] = c.value
	}
	for i := range out {
		if out[i] == nil {
			out[i] = []string{}
		}
	}
	return out
}

func updated(spreadsheetID, sheet string, row, col int, rows [][]string) sheets.UpdateResult {
	res := sheets.UpdateResult{SpreadsheetID: spreadsheetID}
	w := sheets.Width(rows)
	if len(rows) == 0 || w == 0 {
		return res
	}
	res.UpdatedRange = sheets.CellRange(sheet, row, col, row+len(rows)-1, col+w-1)
	res.UpdatedRows = int64(len(rows))
	res.UpdatedColumns = int64(w)
	res.UpdatedCells = int64(sheets.Cells(rows))
	return res
}
