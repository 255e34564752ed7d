package csvimport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Reader streams rows from a CSV byte source. Cells are trimmed and
// BOM-stripped, all-empty rows are dropped, and every row is padded or
// truncated to the header width so downstream code can index by column.
type Reader struct {
	delimiter  rune
	hasHeader  bool
	rowLimit   int
	headers    []string
	currentRow int
	reader     *csv.Reader
	bufReader  *bufio.Reader
	pending    []string
}

// ReaderOption is a functional option for Reader configuration
type ReaderOption func(*Reader)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) ReaderOption {
	return func(r *Reader) {
		if d != 0 {
			r.delimiter = d
		}
	}
}

// WithHeader controls whether the first row is treated as a header row.
// When false, positional labels (Col1, Col2, ...) are synthesized.
func WithHeader(has bool) ReaderOption {
	return func(r *Reader) {
		r.hasHeader = has
	}
}

// WithRowLimit caps the number of data rows returned by ReadAll.
// Used only for previews; a commit must consume the entire file.
func WithRowLimit(limit int) ReaderOption {
	return func(r *Reader) {
		r.rowLimit = limit
	}
}

// NewReader creates a Reader over the given byte source
func NewReader(src io.Reader, opts ...ReaderOption) (*Reader, error) {
	r := &Reader{
		delimiter: ',',
		hasHeader: true,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.bufReader = bufio.NewReader(src)

	// Strip UTF-8 BOM: 0xEF, 0xBB, 0xBF
	prefix, err := r.bufReader.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(prefix) >= 3 && prefix[0] == 0xEF && prefix[1] == 0xBB && prefix[2] == 0xBF {
		_, _ = r.bufReader.Discard(3)
	}

	if err := validateUTF8(r.bufReader); err != nil {
		return nil, err
	}

	r.reader = csv.NewReader(r.bufReader)
	r.reader.Comma = r.delimiter
	r.reader.LazyQuotes = true
	r.reader.TrimLeadingSpace = true
	r.reader.FieldsPerRecord = -1

	if err := r.readHeader(); err != nil {
		return nil, err
	}
	return r, nil
}

// NewReaderFromBytes creates a Reader over an in-memory byte slice
func NewReaderFromBytes(data []byte, opts ...ReaderOption) (*Reader, error) {
	return NewReader(bytes.NewReader(data), opts...)
}

// validateUTF8 checks that a prefix of the content is valid UTF-8
func validateUTF8(r *bufio.Reader) error {
	const checkSize = 4096
	content, err := r.Peek(checkSize)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file for encoding validation: %w", err)
	}
	if len(content) == 0 {
		return ErrEmptyFile
	}
	// Trim a possibly split trailing rune before validating a full buffer.
	if len(content) == checkSize {
		for i := 0; i < utf8.UTFMax && len(content) > 0; i++ {
			if r, _ := utf8.DecodeLastRune(content); r != utf8.RuneError {
				break
			}
			content = content[:len(content)-1]
		}
	}
	if !utf8.Valid(content) {
		return ErrInvalidEncoding
	}
	return nil
}

// readHeader reads the header row, or synthesizes positional labels from the
// first data row when the file has no header.
func (r *Reader) readHeader() error {
	record, err := r.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	cells := make([]string, len(record))
	for i, c := range record {
		cells[i] = cleanCell(c)
	}

	if r.hasHeader {
		r.headers = cells
		return nil
	}

	// No header row: label columns positionally and replay the first row as data.
	r.headers = make([]string, len(cells))
	for i := range cells {
		r.headers[i] = fmt.Sprintf("Col%d", i+1)
	}
	r.pending = cells
	return nil
}

// Headers returns the header names
func (r *Reader) Headers() []string {
	return r.headers
}

// Row is a parsed data row. Cells are index-aligned to the headers and the
// number is 1-based over data rows (the header does not count).
type Row struct {
	Number int
	Cells  []string
}

// Get returns the cell at the given column index, or "" when out of range
func (row *Row) Get(index int) string {
	if index < 0 || index >= len(row.Cells) {
		return ""
	}
	return row.Cells[index]
}

// IsEmpty returns true if every cell is empty
func (row *Row) IsEmpty() bool {
	for _, c := range row.Cells {
		if c != "" {
			return false
		}
	}
	return true
}

// ReadRow returns the next non-blank data row, or io.EOF when the stream is
// exhausted. Short rows are right-padded with empty strings to the header
// width; long rows are truncated to it.
func (r *Reader) ReadRow() (*Row, error) {
	for {
		var record []string
		if r.pending != nil {
			record = r.pending
			r.pending = nil
		} else {
			var err error
			record, err = r.reader.Read()
			if err == io.EOF {
				return nil, io.EOF
			}
			if err != nil {
				r.currentRow++
				return nil, fmt.Errorf("error reading row %d: %w", r.currentRow, err)
			}
			for i, c := range record {
				record[i] = cleanCell(c)
			}
		}

		row := &Row{Cells: alignCells(record, len(r.headers))}
		if row.IsEmpty() {
			continue
		}
		r.currentRow++
		row.Number = r.currentRow
		return row, nil
	}
}

// ReadAll reads the remaining rows, honoring the preview row limit when set
func (r *Reader) ReadAll() ([]*Row, error) {
	var rows []*Row
	for {
		if r.rowLimit > 0 && len(rows) >= r.rowLimit {
			return rows, nil
		}
		row, err := r.ReadRow()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		rows = append(rows, row)
	}
}

// alignCells pads or truncates cells to the given width
func alignCells(cells []string, width int) []string {
	if width == 0 || len(cells) == width {
		return cells
	}
	if len(cells) > width {
		return cells[:width]
	}
	aligned := make([]string, width)
	copy(aligned, cells)
	return aligned
}

// cleanCell trims whitespace and any stray BOM from a cell value
func cleanCell(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF")
	return strings.TrimSpace(s)
}
