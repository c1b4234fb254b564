// Package rdb parses NWIS tab-delimited (RDB) table extracts.
//
// An RDB file starts with any number of '#' comment lines, followed by one
// line of tab-separated column names and one format-description line
// (e.g. "5s\t15s\t8n"), which carries no data and is discarded. Every
// remaining line is a tab-separated data row.
package rdb

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrEmptyTable is returned when the input has no column line.
var ErrEmptyTable = errors.New("empty table")

// MissingColumnError reports a key column absent from a table header.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return "Missing index column " + e.Column
}

// Row maps column name to raw field text.
type Row map[string]string

// Table is a parsed RDB file. Rows keep file order.
type Table struct {
	Columns []string
	Rows    []Row

	index map[string]int
}

// SelectOptions tunes Select.
type SelectOptions struct {
	// Sorted declares the table sorted by the key column, letting Select stop
	// after the first contiguous run of matches. Not verified.
	Sorted bool
}

// Parse reads an RDB table from r.
func Parse(r io.Reader) (*Table, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read rdb table: %w", err)
	}
	return ParseLines(lines)
}

// ParseLines parses an RDB table already split into lines.
func ParseLines(lines []string) (*Table, error) {
	i := 0
	for i < len(lines) && isComment(lines[i]) {
		i++
	}
	if i >= len(lines) {
		return nil, ErrEmptyTable
	}

	columns := strings.Split(trimEOL(lines[i]), "\t")
	t := &Table{Columns: columns, index: make(map[string]int, len(columns))}
	for pos, name := range columns {
		if _, dup := t.index[name]; !dup {
			t.index[name] = pos
		}
	}

	// Column line, then the format line.
	i += 2

	for ; i < len(lines); i++ {
		line := trimEOL(lines[i])
		if strings.TrimSpace(line) == "" {
			continue
		}
		t.Rows = append(t.Rows, t.row(strings.Split(line, "\t")))
	}
	return t, nil
}

// HasColumn reports whether name is in the header.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Select returns the rows whose key column equals value exactly.
func (t *Table) Select(key, value string, opts SelectOptions) ([]Row, error) {
	if !t.HasColumn(key) {
		return nil, &MissingColumnError{Column: key}
	}

	var out []Row
	matched := false
	for _, row := range t.Rows {
		if row[key] == value {
			matched = true
			out = append(out, row)
			continue
		}
		if opts.Sorted && matched {
			break
		}
	}
	return out, nil
}

func (t *Table) row(values []string) Row {
	r := make(Row, len(t.Columns))
	for pos, name := range t.Columns {
		if pos < len(values) {
			r[name] = values[pos]
		} else {
			r[name] = ""
		}
	}
	return r
}

func isComment(line string) bool {
	return strings.HasPrefix(line, "#")
}

func trimEOL(s string) string {
	return strings.TrimRight(s, "\r\n")
}
