package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// Totals sums the full collection; Net is always Income - Expenses.
	Totals struct {
		Income   float64 `json:"income"`
		Expenses float64 `json:"expenses"`
		Net      float64 `json:"net"`
	}

	// MonthSummary aggregates one calendar month. Figures are rounded to
	// two decimals at this boundary only.
	MonthSummary struct {
		MonthKey string  `json:"monthKey"`
		Income   float64 `json:"income"`
		Expenses float64 `json:"expenses"`
		Net      float64 `json:"net"`
	}

	// DayGroup holds one calendar day's entries, most recent first.
	DayGroup struct {
		DayKey  string  `json:"dayKey"`
		Entries []Entry `json:"entries"`
	}
)

// MonthKey returns the calendar year-month of t in local time, "2006-01".
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// DayKey returns the calendar date of t in local time, "2006-01-02".
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// SortByTimestampDesc returns a copy of entries sorted most recent first.
// Timestamp ties keep their relative order.
func SortByTimestampDesc(entries []Entry) []Entry {
	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	return sorted
}

// SumTotals computes running totals over the whole collection. Amounts are
// not pre-rounded; floating-point drift is accepted here.
func SumTotals(entries []Entry) Totals {
	var t Totals
	for _, e := range entries {
		if e.Type == Income {
			t.Income += e.Amount
		} else {
			t.Expenses += e.Amount
		}
	}
	t.Net = t.Income - t.Expenses
	return t
}

// MonthlySummaries groups entries by calendar month and sums income and
// expenses per group, rounding each reported figure to two decimals. The
// result is sorted by month key ascending, oldest month first. Note this
// is the opposite direction from GroupByDay.
func MonthlySummaries(entries []Entry) []MonthSummary {
	type bucket struct {
		income   float64
		expenses float64
	}
	buckets := make(map[string]*bucket)
	for _, e := range entries {
		key := MonthKey(e.Timestamp)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		if e.Type == Income {
			b.income += e.Amount
		} else {
			b.expenses += e.Amount
		}
	}

	summaries := make([]MonthSummary, 0, len(buckets))
	for key, b := range buckets {
		summaries = append(summaries, MonthSummary{
			MonthKey: key,
			Income:   round2(b.income),
			Expenses: round2(b.expenses),
			Net:      round2(b.income - b.expenses),
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].MonthKey < summaries[j].MonthKey
	})
	return summaries
}

// GroupByDay buckets entries by calendar date. Entries inside a group are
// sorted most recent first, and the groups themselves run most recent day
// first.
func GroupByDay(entries []Entry) []DayGroup {
	sorted := SortByTimestampDesc(entries)
	buckets := make(map[string]int)
	groups := make([]DayGroup, 0)
	for _, e := range sorted {
		key := DayKey(e.Timestamp)
		idx, ok := buckets[key]
		if !ok {
			idx = len(groups)
			buckets[key] = idx
			groups = append(groups, DayGroup{DayKey: key})
		}
		groups[idx].Entries = append(groups[idx].Entries, e)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].DayKey > groups[j].DayKey
	})
	return groups
}

// round2 rounds half away from zero on the second decimal place.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
