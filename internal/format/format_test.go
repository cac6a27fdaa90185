package format

import (
	"strings"
	"testing"
	"time"
)

func TestFormatCurrency(t *testing.T) {
	got := FormatCurrency(1234.5, "USD", "en-US")
	if got == "" || !strings.Contains(got, "1,234") {
		t.Fatalf("unexpected formatting: %q", got)
	}

	// Unknown code degrades to a plain number.
	plain := FormatCurrency(12.5, "NOPE", "en-US")
	if !strings.Contains(plain, "12.50") {
		t.Fatalf("unexpected fallback: %q", plain)
	}
}

func TestFormatSignedCurrency(t *testing.T) {
	pos := FormatSignedCurrency(7, "HUF", "en-US")
	if !strings.HasPrefix(pos, "+") {
		t.Fatalf("expected + prefix, got %q", pos)
	}
	neg := FormatSignedCurrency(-7, "HUF", "en-US")
	if !strings.HasPrefix(neg, "-") {
		t.Fatalf("expected - prefix, got %q", neg)
	}
}

func TestPrinterCacheReuse(t *testing.T) {
	FormatCurrency(1, "USD", "fr-FR")
	before := printers.Size()
	FormatCurrency(2, "USD", "fr-FR")
	if printers.Size() != before {
		t.Fatal("printer not reused for same locale")
	}
}

func TestDateHelpers(t *testing.T) {
	ts := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	if got := FormatDay(ts); got != "Monday, Jan 15" {
		t.Fatalf("FormatDay = %q", got)
	}
	if got := FormatMonth(ts); got != "January 2024" {
		t.Fatalf("FormatMonth = %q", got)
	}
}

func TestDayBoundaries(t *testing.T) {
	ts := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	start := StartOfDay(ts)
	end := EndOfDay(ts)
	if start.Hour() != 0 || start.Day() != 15 {
		t.Fatalf("unexpected start %v", start)
	}
	if !end.After(ts) || end.Day() != 15 {
		t.Fatalf("unexpected end %v", end)
	}
	if !WithinRange(ts, start, end) {
		t.Fatal("timestamp should be within its own day")
	}
	if WithinRange(ts.Add(24*time.Hour), start, end) {
		t.Fatal("next day should be outside the range")
	}
}

func TestSameDayAndMonth(t *testing.T) {
	a := time.Date(2024, 1, 15, 1, 0, 0, 0, time.UTC)
	b := time.Date(2024, 1, 15, 23, 0, 0, 0, time.UTC)
	c := time.Date(2024, 2, 15, 1, 0, 0, 0, time.UTC)
	if !IsSameDay(a, b) || IsSameDay(a, c) {
		t.Fatal("IsSameDay misclassified")
	}
	if !IsSameMonth(a, b) || IsSameMonth(a, c) {
		t.Fatal("IsSameMonth misclassified")
	}
}
