// Package format holds pure display helpers. The ledger core only ever
// emits raw timestamps and numeric amounts; turning them into strings
// for a given locale happens here.
package format

import (
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"monetraq/internal/cache"
)

// Printers are cached per locale; building one is not free.
var printers = cache.NewLRU[*message.Printer](64)

func printerFor(locale string) *message.Printer {
	if p, ok := printers.Get(locale); ok {
		return p
	}
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.AmericanEnglish
	}
	p := message.NewPrinter(tag)
	printers.Set(locale, p)
	return p
}

// FormatCurrency renders an amount with the currency's symbol using the
// locale's number formatting. An unknown currency code degrades to a
// plain two-decimal number.
func FormatCurrency(value float64, code, locale string) string {
	p := printerFor(locale)
	unit, err := currency.ParseISO(code)
	if err != nil {
		return p.Sprintf("%.2f", value)
	}
	return p.Sprint(currency.Symbol(unit.Amount(value)))
}

// FormatSignedCurrency renders the amount with an explicit +/- prefix,
// used for net figures.
func FormatSignedCurrency(value float64, code, locale string) string {
	formatted := FormatCurrency(abs(value), code, locale)
	if value >= 0 {
		return "+" + formatted
	}
	return "-" + formatted
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// FormatDay renders a day heading, e.g. "Monday, Jan 15".
func FormatDay(t time.Time) string {
	return t.Format("Monday, Jan 2")
}

// FormatMonth renders a month heading, e.g. "January 2024".
func FormatMonth(t time.Time) string {
	return t.Format("January 2006")
}

// StartOfDay returns midnight at the start of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable instant of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// IsSameDay reports whether a and b fall on the same calendar day.
func IsSameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// IsSameMonth reports whether a and b fall in the same calendar month.
func IsSameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// WithinRange reports whether t lies in [start, end], inclusive.
func WithinRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
