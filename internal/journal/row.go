package journal

import (
	"bytes"
	"encoding/json"
)

// Row maps header names to cell values, in header order.
type Row struct {
	keys   []string
	values map[string]string
}

// buildRow pairs header with cells. Cells missing from a short row become
// "", and a repeated header name keeps its first column.
func buildRow(header, cells []string) Row {
	r := Row{values: make(map[string]string, len(header))}
	for i, name := range header {
		if _, dup := r.values[name]; dup {
			continue
		}
		v := ""
		if i < len(cells) {
			v = cells[i]
		}
		r.keys = append(r.keys, name)
		r.values[name] = v
	}
	return r
}

// Len returns the number of columns; zero means no entry was found.
func (r Row) Len() int { return len(r.keys) }

// Keys returns the header names in column order.
func (r Row) Keys() []string {
	return append([]string(nil), r.keys...)
}

func (r Row) Get(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Map returns a copy of the row as a plain map.
func (r Row) Map() map[string]string {
	m := make(map[string]string, len(r.keys))
	for _, k := range r.keys {
		m[k] = r.values[k]
	}
	return m
}

// MarshalJSON encodes the row as an object whose keys follow header order.
func (r Row) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}
