// Package format renders money, counts and status labels for templates.
package format

import (
	"strings"
	"time"

	"github.com/ettle/strcase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	printer = message.NewPrinter(language.English)
	title   = cases.Title(language.English)
)

// Money formats v as US dollars with grouping, e.g. "$152,890.00".
func Money(v float64) string {
	if v < 0 {
		return "-" + printer.Sprintf("$%.2f", -v)
	}
	return printer.Sprintf("$%.2f", v)
}

// Count formats an integer with thousands separators.
func Count(n int) string {
	return printer.Sprintf("%d", n)
}

// StatusLabel turns a stored status ("pending") into a heading ("Pending").
func StatusLabel(status string) string {
	s := strings.TrimSpace(status)
	if s == "" {
		return ""
	}
	return title.String(strings.ReplaceAll(strcase.ToSnake(s), "_", " "))
}

// StatusClass returns a CSS-safe class suffix for a status badge.
func StatusClass(status string) string {
	return strcase.ToKebab(strings.TrimSpace(status))
}

// Date formats a timestamp as a short date; zero times render empty.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("Jan 2, 2006")
}

// StockLabel describes availability for the catalogue and product list.
func StockLabel(stock, lowThreshold int) string {
	switch {
	case stock <= 0:
		return "Out of stock"
	case stock < lowThreshold:
		return "Low stock"
	default:
		return "In stock"
	}
}
