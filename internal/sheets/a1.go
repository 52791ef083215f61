package sheets

import (
	"fmt"
	"strconv"
	"strings"
)

// Unbounded marks an open end of a Range (e.g. the rows of "A:Z").
const Unbounded = -1

// Range is a parsed A1 range. Rows and columns are 0-based and inclusive.
type Range struct {
	Sheet    string
	StartRow int
	EndRow   int
	StartCol int
	EndCol   int
}

// ParseRange parses "Sheet1", "Sheet1!A:Z", "Sheet1!A1:D10", "Sheet1!A2:D",
// "Sheet1!1:5", "Sheet1!B3" and quoted sheet names such as "'My Sheet'!A:B".
func ParseRange(ref string) (Range, error) {
	s := strings.TrimSpace(ref)
	if s == "" {
		return Range{}, fmt.Errorf("%w: empty range", ErrRange)
	}

	sheet, cells, err := splitSheet(s)
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q: %v", ErrRange, ref, err)
	}
	r := Range{Sheet: sheet, StartRow: 0, EndRow: Unbounded, StartCol: 0, EndCol: Unbounded}
	if cells == "" {
		return r, nil
	}

	parts := strings.Split(cells, ":")
	switch len(parts) {
	case 1:
		col, row, err := parseCell(parts[0])
		if err != nil {
			return Range{}, fmt.Errorf("%w: %q: %v", ErrRange, ref, err)
		}
		if col == Unbounded || row == Unbounded {
			return Range{}, fmt.Errorf("%w: %q: single cell needs column and row", ErrRange, ref)
		}
		r.StartCol, r.EndCol, r.StartRow, r.EndRow = col, col, row, row
		return r, nil
	case 2:
	default:
		return Range{}, fmt.Errorf("%w: %q: too many ':'", ErrRange, ref)
	}

	c1, r1, err := parseCell(parts[0])
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q: %v", ErrRange, ref, err)
	}
	c2, r2, err := parseCell(parts[1])
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q: %v", ErrRange, ref, err)
	}
	if (c1 == Unbounded) != (c2 == Unbounded) {
		return Range{}, fmt.Errorf("%w: %q: mixed column and row references", ErrRange, ref)
	}
	if c1 == Unbounded && (r1 == Unbounded || r2 == Unbounded) {
		return Range{}, fmt.Errorf("%w: %q: row range needs both rows", ErrRange, ref)
	}
	if c1 != Unbounded {
		r.StartCol, r.EndCol = c1, c2
	}
	if r1 != Unbounded {
		r.StartRow = r1
	}
	r.EndRow = r2
	if r.EndCol != Unbounded && r.StartCol > r.EndCol {
		return Range{}, fmt.Errorf("%w: %q: columns out of order", ErrRange, ref)
	}
	if r.EndRow != Unbounded && r.StartRow > r.EndRow {
		return Range{}, fmt.Errorf("%w: %q: rows out of order", ErrRange, ref)
	}
	return r, nil
}

func splitSheet(s string) (sheet, cells string, err error) {
	if strings.HasPrefix(s, "'") {
		var b strings.Builder
		i := 1
		for ; i < len(s); i++ {
			if s[i] != '\'' {
				b.WriteByte(s[i])
				continue
			}
			if i+1 < len(s) && s[i+1] == '\'' {
				b.WriteByte('\'')
				i++
				continue
			}
			break
		}
		if i >= len(s) {
			return "", "", fmt.Errorf("unterminated sheet name")
		}
		sheet = b.String()
		rest := s[i+1:]
		if rest != "" {
			var ok bool
			if cells, ok = strings.CutPrefix(rest, "!"); !ok || cells == "" {
				return "", "", fmt.Errorf("expected '!' and cells after sheet name")
			}
		}
	} else {
		var found bool
		sheet, cells, found = strings.Cut(s, "!")
		if found && cells == "" {
			return "", "", fmt.Errorf("missing cells after '!'")
		}
	}
	if sheet == "" {
		return "", "", fmt.Errorf("missing sheet name")
	}
	return sheet, cells, nil
}

// parseCell parses "B3", "B" or "3". Missing parts come back as Unbounded.
func parseCell(ref string) (col, row int, err error) {
	i := 0
	for i < len(ref) && isLetter(ref[i]) {
		i++
	}
	letters, digits := ref[:i], ref[i:]
	if letters == "" && digits == "" {
		return 0, 0, fmt.Errorf("empty cell reference")
	}
	col, row = Unbounded, Unbounded
	if letters != "" {
		col, err = ColumnIndex(letters)
		if err != nil {
			return 0, 0, err
		}
	}
	if digits != "" {
		n, err := strconv.Atoi(digits)
		if err != nil || n < 1 {
			return 0, 0, fmt.Errorf("bad row %q", digits)
		}
		row = n - 1
	}
	return col, row, nil
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// ColumnIndex converts column letters ("A", "Z", "AA") to a 0-based index.
func ColumnIndex(letters string) (int, error) {
	if letters == "" || len(letters) > 3 {
		return 0, fmt.Errorf("bad column %q", letters)
	}
	n := 0
	for i := 0; i < len(letters); i++ {
		c := letters[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if c < 'A' || c > 'Z' {
			return 0, fmt.Errorf("bad column %q", letters)
		}
		n = n*26 + int(c-'A'+1)
	}
	return n - 1, nil
}

// ColumnName converts a 0-based column index to letters.
func ColumnName(idx int) string {
	var b []byte
	for n := idx + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}
	return string(b)
}

// QuoteSheet quotes a sheet name when A1 notation requires it.
func QuoteSheet(name string) string {
	for _, r := range name {
		if !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_') {
			return "'" + strings.ReplaceAll(name, "'", "''") + "'"
		}
	}
	return name
}

// String renders r in canonical A1 form.
func (r Range) String() string {
	sheet := QuoteSheet(r.Sheet)
	allCols := r.StartCol == 0 && r.EndCol == Unbounded
	allRows := r.StartRow == 0 && r.EndRow == Unbounded
	switch {
	case allCols && allRows:
		return sheet
	case allCols:
		return fmt.Sprintf("%s!%d:%d", sheet, r.StartRow+1, r.EndRow+1)
	}
	start := ColumnName(r.StartCol)
	if r.StartRow > 0 || r.EndRow != Unbounded {
		start += strconv.Itoa(r.StartRow + 1)
	}
	end := "ZZZ"
	if r.EndCol != Unbounded {
		end = ColumnName(r.EndCol)
	}
	if r.EndRow != Unbounded {
		end += strconv.Itoa(r.EndRow + 1)
	}
	return sheet + "!" + start + ":" + end
}

// CellRange renders a bounded block of cells.
func CellRange(sheet string, startRow, startCol, endRow, endCol int) string {
	return Range{Sheet: sheet, StartRow: startRow, EndRow: endRow, StartCol: startCol, EndCol: endCol}.String()
}
