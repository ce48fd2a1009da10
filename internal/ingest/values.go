package ingest

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var (
	currencyCleaner = strings.NewReplacer("$", "", ",", "", "%", "", " ", "", "\t", "", "\u00a0", "")
	percentCleaner  = strings.NewReplacer("%", "", ",", "", " ", "", "\t", "", "\u00a0", "")
	integerCleaner  = strings.NewReplacer(",", "", " ", "", "\t", "", "\u00a0", "")
)

// ParseCurrency parses "$1,234.50" style values. Unparseable input is 0.
func ParseCurrency(s string) float64 {
	return parseDecimal(currencyCleaner.Replace(s)).InexactFloat64()
}

// ParsePercent parses "12.5%" as 0.125. Unparseable input is 0.
func ParsePercent(s string) float64 {
	return parseDecimal(percentCleaner.Replace(s)).Shift(-2).InexactFloat64()
}

// ParseInteger parses "1,234" style values, truncating any fraction.
// Unparseable input is 0.
func ParseInteger(s string) int64 {
	return parseDecimal(integerCleaner.Replace(s)).IntPart()
}

func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseSheetDate parses an Excel serial day number or a date string.
// It returns nil for empty or unparseable input.
func ParseSheetDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if d, err := decimal.NewFromString(s); err == nil {
		t, err := excelize.ExcelDateToTime(d.InexactFloat64(), false)
		if err != nil {
			return nil
		}
		t = t.UTC()
		return &t
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// SnapshotDate resolves the day seed facts are recorded on: the configured
// date when it parses, otherwise today. Always the start of a UTC day.
func SnapshotDate(configured string, now time.Time) time.Time {
	t := now
	configured = strings.TrimSpace(configured)
	if configured != "" {
		for _, layout := range []string{"2006-01-02", time.RFC3339} {
			if parsed, err := time.Parse(layout, configured); err == nil {
				t = parsed
				break
			}
		}
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NormalizeID trims and upper-cases an identifier cell.
func NormalizeID(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
