// Package journal reads and writes the coach's daily entries: one row per
// day in a spreadsheet whose first row names the columns.
package journal

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/chris/growthcoach/internal/sheets"
)

const (
	// DefaultReadRange covers every entry column of the journal sheet.
	DefaultReadRange = "Sheet1!A:Z"
	// DefaultAppendRange covers the four entry columns.
	DefaultAppendRange = "Sheet1!A:D"
	// DateColumn is the header that dates each row.
	DateColumn = "Date"
	// DateLayout is the canonical date form stored in DateColumn.
	DateLayout = "2006-01-02"
)

// Header is the header row written by Init.
var Header = []string{
	DateColumn,
	"Update on how you did on yesterday's hard thing.",
	"Where are you experiencing Slobby?",
	"What is the hard thing you plan to do today?",
}

// ErrSchema means the sheet lacks the Date header column.
var ErrSchema = errors.New("schema error")

// Entry is one day's coaching outcome, in column order.
type Entry struct {
	Date                string
	YesterdayReflection string
	StruggleReflection  string
	TodayTask           string
}

// Cells returns the entry as a row in column order.
func (e Entry) Cells() []string {
	return []string{e.Date, e.YesterdayReflection, e.StruggleReflection, e.TodayTask}
}

// Journal is the dated entry log kept in one spreadsheet.
type Journal struct {
	store         sheets.Store
	spreadsheetID string
	readRange     string
	appendRange   string
}

type Option func(*Journal)

// WithRanges overrides the read and append ranges.
func WithRanges(read, appendTo string) Option {
	return func(j *Journal) {
		j.readRange = read
		j.appendRange = appendTo
	}
}

func New(store sheets.Store, spreadsheetID string, opts ...Option) *Journal {
	j := &Journal{
		store:         store,
		spreadsheetID: spreadsheetID,
		readRange:     DefaultReadRange,
		appendRange:   DefaultAppendRange,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func (j *Journal) ready() error {
	if j.spreadsheetID == "" {
		return fmt.Errorf("%w: GROWTH_COACH_SSID is not set", sheets.ErrConfiguration)
	}
	if j.store == nil {
		return fmt.Errorf("%w: no spreadsheet store configured", sheets.ErrConfiguration)
	}
	return nil
}

// Yesterday returns the entry dated the calendar day before now, in now's
// location.
func (j *Journal) Yesterday(ctx context.Context, now time.Time) (Row, error) {
	return j.FindRowForDate(ctx, now.AddDate(0, 0, -1))
}

// FindRowForDate returns the first row whose Date cell equals date. A sheet
// with no data rows, or no matching row, yields an empty Row and no error.
func (j *Journal) FindRowForDate(ctx context.Context, date time.Time) (Row, error) {
	if err := j.ready(); err != nil {
		return Row{}, err
	}
	rows, err := j.store.ReadRange(ctx, j.spreadsheetID, j.readRange)
	if err != nil {
		return Row{}, fmt.Errorf("reading journal: %w", err)
	}
	if len(rows) < 2 {
		return Row{}, nil
	}

	header := rows[0]
	dateIdx := slices.Index(header, DateColumn)
	if dateIdx < 0 {
		return Row{}, fmt.Errorf("%w: %q column not found in %s", ErrSchema, DateColumn, j.readRange)
	}

	want := date.Format(DateLayout)
	for _, row := range rows[1:] {
		if dateIdx < len(row) && row[dateIdx] == want {
			return buildRow(header, row), nil
		}
	}
	return Row{}, nil
}

// Entries returns every data row in storage order.
func (j *Journal) Entries(ctx context.Context) ([]Row, error) {
	if err := j.ready(); err != nil {
		return nil, err
	}
	rows, err := j.store.ReadRange(ctx, j.spreadsheetID, j.readRange)
	if err != nil {
		return nil, fmt.Errorf("reading journal: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil
	}
	out := make([]Row, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, buildRow(rows[0], row))
	}
	return out, nil
}

// AppendEntry appends e as one row after the last existing row and returns
// the store's confirmation unchanged.
func (j *Journal) AppendEntry(ctx context.Context, e Entry) (*sheets.AppendResult, error) {
	if err := j.ready(); err != nil {
		return nil, err
	}
	res, err := j.store.AppendRows(ctx, j.spreadsheetID, j.appendRange, [][]string{e.Cells()})
	if err != nil {
		return nil, fmt.Errorf("appending entry for %s: %w", e.Date, err)
	}
	return res, nil
}

// Init writes Header into an empty sheet. It reports whether it wrote.
func (j *Journal) Init(ctx context.Context) (bool, error) {
	if err := j.ready(); err != nil {
		return false, err
	}
	rows, err := j.store.ReadRange(ctx, j.spreadsheetID, j.readRange)
	if err != nil {
		return false, fmt.Errorf("reading journal: %w", err)
	}
	if len(rows) > 0 {
		if !slices.Contains(rows[0], DateColumn) {
			return false, fmt.Errorf("%w: sheet has data but no %q header", ErrSchema, DateColumn)
		}
		return false, nil
	}
	r, err := sheets.ParseRange(j.readRange)
	if err != nil {
		return false, err
	}
	target := sheets.CellRange(r.Sheet, r.StartRow, r.StartCol, r.StartRow, r.StartCol+len(Header)-1)
	if _, err := j.store.WriteRange(ctx, j.spreadsheetID, target, [][]string{Header}); err != nil {
		return false, fmt.Errorf("writing header: %w", err)
	}
	return true, nil
}
