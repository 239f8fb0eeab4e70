package domain

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	currencySymbol    = "$"
	currencyPlaces    = 2
	groupingThreshold = 1000

	lastUpdatedLayout = "1/2/2006 3:04:05 PM"
)

//nolint:gochecknoglobals // Printers are safe for concurrent use and costly to build
var groupedPrinter = message.NewPrinter(language.AmericanEnglish)

// snapshotTimeLayouts are tried in order when reading last_updated.
//
//nolint:gochecknoglobals // Read-only lookup table
var snapshotTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	time.DateOnly,
}

// FormatCurrency renders a USD amount with two decimals.
// Amounts that round to 1000 or more get thousands separators.
func FormatCurrency(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}

	rounded := decimal.NewFromFloat(value).Round(currencyPlaces)
	if rounded.GreaterThanOrEqual(decimal.NewFromInt(groupingThreshold)) {
		return currencySymbol + groupedPrinter.Sprintf("%.2f", rounded.InexactFloat64())
	}

	return currencySymbol + rounded.StringFixed(currencyPlaces)
}

// FormatLastUpdated renders a snapshot timestamp for display.
// It returns an empty string when the timestamp is missing or unreadable.
func FormatLastUpdated(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	for _, layout := range snapshotTimeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return "Last updated: " + ts.Format(lastUpdatedLayout)
		}
	}

	return ""
}
