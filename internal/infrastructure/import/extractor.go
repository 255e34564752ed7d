package csvimport

import (
	"unicode"
)

// maxCategoryTokenLen bounds the ALL-CAPS category heuristic
const maxCategoryTokenLen = 12

// Extractor resolves canonical field values from raw rows using a confirmed
// mapping, falling back to synonym heuristics over the file's own headers
// when a field has no mapped column. Extraction is deterministic and never
// mutates its inputs.
type Extractor struct {
	mapping           Mapping
	mapper            *HeaderMapper
	normalizedHeaders []string
}

// NewExtractor creates an Extractor for one upload
func NewExtractor(mapping Mapping, mapper *HeaderMapper, headers []string) *Extractor {
	if mapper == nil {
		mapper = NewHeaderMapper(nil)
	}
	return &Extractor{
		mapping:           mapping,
		mapper:            mapper,
		normalizedHeaders: NormalizeHeaders(headers),
	}
}

// Value resolves the raw cell value for a canonical field: first the mapped
// column(s), first non-empty cell winning; then a dictionary match against
// the row's own headers; empty string when nothing resolves.
func (e *Extractor) Value(row *Row, field Field) string {
	for _, col := range e.mapping.ColumnsFor(field) {
		if v := row.Get(col); v != "" {
			return v
		}
	}
	// Secondary heuristic: a header whose normalized form is a known synonym
	// for this field, even though the caller left the column unmapped.
	for i, h := range e.normalizedHeaders {
		if f, ok := e.mapper.Lookup(h); ok && f == field {
			if v := row.Get(i); v != "" {
				return v
			}
		}
	}
	return ""
}

// CategoryValue resolves the category, adding a last-resort scan for a short
// ALL-CAPS token among the row's cells. The heuristic is a provisional guess
// with no confidence scoring and only fires when mapping and headers give
// nothing.
func (e *Extractor) CategoryValue(row *Row) string {
	if v := e.Value(row, FieldCategory); v != "" {
		return v
	}
	for _, cell := range row.Cells {
		if isCategoryToken(cell) {
			return cell
		}
	}
	return ""
}

// isCategoryToken reports whether a cell looks like a category code: short,
// at least two letters, all letters uppercase.
func isCategoryToken(s string) bool {
	if s == "" || len(s) > maxCategoryTokenLen {
		return false
	}
	letters := 0
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			letters++
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r):
			return false
		}
	}
	return letters >= 2
}

// Record is the typed, sparse view of one row after extraction; raw string
// values keyed by canonical field, empty fields absent.
type Record map[Field]string

// Extract resolves every canonical field for a row
func (e *Extractor) Extract(row *Row) Record {
	rec := make(Record)
	for _, f := range Fields() {
		var v string
		if f == FieldCategory {
			v = e.CategoryValue(row)
		} else {
			v = e.Value(row, f)
		}
		if v != "" {
			rec[f] = v
		}
	}
	return rec
}
