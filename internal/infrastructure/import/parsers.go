package csvimport

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// currencyTokens are stripped before numeric parsing, longest first so "DZD"
// wins over "DA".
var currencyTokens = []string{"DZD", "DA", "EUR", "USD", "TND", "MAD", "€", "$"}

// thousandsDotPattern matches "1.234,56" style values where the dot groups
// thousands and the comma is the decimal separator. The comma group is
// mandatory: without it a lone dot stays a decimal point, so "10.999" reads
// as ten point nine nine nine rather than ten thousand.
var thousandsDotPattern = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+,\d{1,2}$`)

// decimalCommaPattern matches a comma used as decimal separator with one or
// two trailing digits and no dot in sight.
var decimalCommaPattern = regexp.MustCompile(`^-?\d+,\d{1,2}$`)

// ParseMoney parses a heterogeneous locale money string into a 2-decimal
// rounded value. Returns nil for anything that does not normalize to a
// number; the caller treats the field as absent rather than failing the row.
//
// Supported shapes: "1 234,56", "1.234,56", "1234.56", "1,234.56",
// "68 000,00 DA".
func ParseMoney(raw string) *decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	// Non-breaking and narrow spaces show up as thousands separators.
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	upper := strings.ToUpper(s)
	for _, tok := range currencyTokens {
		upper = strings.ReplaceAll(upper, tok, "")
	}
	s = strings.TrimSpace(upper)
	s = strings.ReplaceAll(s, " ", "")

	switch {
	case thousandsDotPattern.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case decimalCommaPattern.MatchString(s):
		s = strings.ReplaceAll(s, ",", ".")
	default:
		// Remaining commas can only be thousands separators.
		s = strings.ReplaceAll(s, ",", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	rounded := d.Round(2)
	return &rounded
}

// ParseInt parses an integer out of a messy cell, keeping only digits and a
// leading minus sign. Returns nil for empty or sign-only input.
func ParseInt(raw string) *int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	var sb strings.Builder
	negative := strings.HasPrefix(s, "-")
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	digits := sb.String()
	if digits == "" {
		return nil
	}
	// Strip leading zeros manually to stay within int range checks below.
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		digits = "0"
	}
	if len(digits) > 18 {
		return nil
	}

	n := 0
	for _, r := range digits {
		n = n*10 + int(r-'0')
	}
	if negative {
		n = -n
	}
	return &n
}

// ParseYear parses a 4-digit year, returning 0 when absent or implausible
func ParseYear(raw string) int {
	y := ParseInt(raw)
	if y == nil || *y < 1900 || *y > 2100 {
		return 0
	}
	return *y
}
