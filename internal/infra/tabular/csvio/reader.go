package csvio

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bryanwahyu/datalens/internal/domain/tabular"
)

// ErrEmpty indicates the file held no header row.
var ErrEmpty = errors.New("csv has no header row")

// Table is a decoded CSV file: the header in column order plus the
// rows as loosely-typed records. Every cell is a string value; numeric
// parsing happens in the consuming statistics functions.
type Table struct {
	Header []string
	Rows   []tabular.Row
}

// ParseFile decodes an on-disk CSV file.
func ParseFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return Parse(data)
}

// Parse decodes CSV bytes. The delimiter is sniffed from the header
// line among ',', ';' and '\t'. Short rows are padded by leaving the
// trailing columns absent.
func Parse(data []byte) (*Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sniffDelimiter(data)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	t := &Table{Header: header}
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(t.Rows)+1, err)
		}
		row := make(tabular.Row, len(header))
		for j, name := range header {
			if j >= len(rec) {
				continue // short row: trailing cells stay absent
			}
			row[name] = tabular.String(rec[j])
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// sniffDelimiter inspects the first line and picks the separator with
// the most occurrences, defaulting to comma.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	best, bestCount := ',', bytes.Count(line, []byte{','})
	for _, c := range []byte{';', '\t'} {
		if n := bytes.Count(line, []byte{c}); n > bestCount {
			best, bestCount = rune(c), n
		}
	}
	return best
}
