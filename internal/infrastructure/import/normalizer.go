package csvimport

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer decomposes characters and drops combining marks, so
// "Référence" normalizes to "Reference" before case folding.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// separatorReplacer maps separator-like punctuation to spaces so variants
// like "stock-reel", "stock.reel" and "stock/reel" collapse to one token.
var separatorReplacer = strings.NewReplacer(
	"/", " ",
	"\\", " ",
	"-", " ",
	".", " ",
	",", " ",
	":", " ",
	"_", " ",
	"(", " ",
	")", " ",
)

// NormalizeHeader collapses a raw CSV header into a canonical lookup token:
// lowercase ASCII with single spaces, diacritics transliterated, BOM and
// punctuation stripped.
func NormalizeHeader(header string) string {
	s := strings.TrimPrefix(header, "\uFEFF")
	if folded, _, err := transform.String(foldTransformer, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)
	s = separatorReplacer.Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// NormalizeHeaders normalizes a full header row, preserving column order
func NormalizeHeaders(headers []string) []string {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeHeader(h)
	}
	return normalized
}
