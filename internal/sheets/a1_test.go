package sheets

import (
	"errors"
	"testing"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		spec string
		want Range
	}{
		{"Sheet1", Range{Sheet: "Sheet1", StartRow: 0, EndRow: Unbounded, StartCol: 0, EndCol: Unbounded}},
		{"Sheet1!A:Z", Range{Sheet: "Sheet1", StartRow: 0, EndRow: Unbounded, StartCol: 0, EndCol: 25}},
		{"Sheet1!A:D", Range{Sheet: "Sheet1", StartRow: 0, EndRow: Unbounded, StartCol: 0, EndCol: 3}},
		{"Sheet1!A1:D10", Range{Sheet: "Sheet1", StartRow: 0, EndRow: 9, StartCol: 0, EndCol: 3}},
		{"Sheet1!B2:D", Range{Sheet: "Sheet1", StartRow: 1, EndRow: Unbounded, StartCol: 1, EndCol: 3}},
		{"Sheet1!2:5", Range{Sheet: "Sheet1", StartRow: 1, EndRow: 4, StartCol: 0, EndCol: Unbounded}},
		{"Sheet1!C3", Range{Sheet: "Sheet1", StartRow: 2, EndRow: 2, StartCol: 2, EndCol: 2}},
		{"sheet1!a:aa", Range{Sheet: "sheet1", StartRow: 0, EndRow: Unbounded, StartCol: 0, EndCol: 26}},
		{"'My Sheet'!A:B", Range{Sheet: "My Sheet", StartRow: 0, EndRow: Unbounded, StartCol: 0, EndCol: 1}},
		{"'Bob''s'!A1:A1", Range{Sheet: "Bob's", StartRow: 0, EndRow: 0, StartCol: 0, EndCol: 0}},
		{"'Q1 Plan'", Range{Sheet: "Q1 Plan", StartRow: 0, EndRow: Unbounded, StartCol: 0, EndCol: Unbounded}},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := ParseRange(tt.spec)
			if err != nil {
				t.Fatalf("ParseRange(%q): %v", tt.spec, err)
			}
			if got != tt.want {
				t.Errorf("ParseRange(%q) = %+v, want %+v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestParseRange_Malformed(t *testing.T) {
	for _, spec := range []string{
		"",
		"   ",
		"!A:Z",
		"Sheet1!",
		"Sheet1!A:B:C",
		"Sheet1!A",
		"Sheet1!A1:3",
		"Sheet1!D:A",
		"Sheet1!A10:A2",
		"Sheet1!A0:B2",
		"Sheet1!1:B",
		"Sheet1!A$1",
		"'Unterminated!A:B",
		"'Sheet'A:B",
		"Sheet1!AAAA:B",
	} {
		t.Run(spec, func(t *testing.T) {
			_, err := ParseRange(spec)
			if !errors.Is(err, ErrRange) {
				t.Errorf("ParseRange(%q) err = %v, want ErrRange", spec, err)
			}
		})
	}
}

func TestRangeString(t *testing.T) {
	tests := []struct {
		spec string
		want string
	}{
		{"Sheet1", "Sheet1"},
		{"Sheet1!A:Z", "Sheet1!A:Z"},
		{"Sheet1!A1:D10", "Sheet1!A1:D10"},
		{"Sheet1!A2:D", "Sheet1!A2:D"},
		{"Sheet1!2:5", "Sheet1!2:5"},
		{"'My Sheet'!A:B", "'My Sheet'!A:B"},
	}
	for _, tt := range tests {
		r, err := ParseRange(tt.spec)
		if err != nil {
			t.Fatalf("ParseRange(%q): %v", tt.spec, err)
		}
		if got := r.String(); got != tt.want {
			t.Errorf("String() of %q = %q, want %q", tt.spec, got, tt.want)
		}
	}
}

func TestCellRange(t *testing.T) {
	if got := CellRange("Sheet1", 4, 0, 4, 3); got != "Sheet1!A5:D5" {
		t.Errorf("CellRange = %q, want Sheet1!A5:D5", got)
	}
}

func TestColumnRoundTrip(t *testing.T) {
	tests := []struct {
		letters string
		idx     int
	}{
		{"A", 0},
		{"D", 3},
		{"Z", 25},
		{"AA", 26},
		{"AZ", 51},
		{"BA", 52},
		{"ZZ", 701},
		{"AAA", 702},
	}
	for _, tt := range tests {
		got, err := ColumnIndex(tt.letters)
		if err != nil {
			t.Fatalf("ColumnIndex(%q): %v", tt.letters, err)
		}
		if got != tt.idx {
			t.Errorf("ColumnIndex(%q) = %d, want %d", tt.letters, got, tt.idx)
		}
		if name := ColumnName(tt.idx); name != tt.letters {
			t.Errorf("ColumnName(%d) = %q, want %q", tt.idx, name, tt.letters)
		}
	}
}
