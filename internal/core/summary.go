package core

import (
	"sort"
	"time"
)

// MonthTotal is the absolute spend/income volume for one calendar month.
type MonthTotal struct {
	Label string // e.g. "Jan 2024"
	Year  int
	Month time.Month
	Total Money
}

// CategoryShare is one slice of the per-category breakdown.
type CategoryShare struct {
	Name       string
	Total      Money
	Percentage float64 // of the grand total, rounded to one decimal
}

// MonthlyTotals groups transactions by the calendar month+year of their
// local date, summing absolute amounts. Output is chronologically sorted.
// An empty input yields an empty (nil) result.
func MonthlyTotals(txs []Transaction) []MonthTotal {
	type key struct {
		year  int
		month time.Month
	}
	sums := make(map[key]int64)
	for _, t := range txs {
		k := key{year: t.Date.Year(), month: t.Date.Month()}
		sums[k] += t.Amount.Abs().Cents
	}

	out := make([]MonthTotal, 0, len(sums))
	for k, cents := range sums {
		out = append(out, MonthTotal{
			Label: time.Date(k.year, k.month, 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006"),
			Year:  k.year,
			Month: k.month,
			Total: Money{Cents: cents},
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	if len(out) == 0 {
		return nil
	}
	return out
}

// CategoryBreakdown groups transactions by category, summing absolute
// amounts, and computes each group's percentage of the grand total. Output
// is sorted descending by total; ties keep first-encountered order. A zero
// grand total yields 0% shares rather than NaN.
func CategoryBreakdown(txs []Transaction) []CategoryShare {
	sums := make(map[string]int64)
	var order []string
	var grand int64
	for _, t := range txs {
		if _, seen := sums[t.Category]; !seen {
			order = append(order, t.Category)
		}
		abs := t.Amount.Abs().Cents
		sums[t.Category] += abs
		grand += abs
	}

	out := make([]CategoryShare, 0, len(order))
	for _, name := range order {
		share := CategoryShare{Name: name, Total: Money{Cents: sums[name]}}
		if grand > 0 {
			pct := float64(sums[name]) / float64(grand) * 100
			share.Percentage = roundToTenth(pct)
		}
		out = append(out, share)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.Cents > out[j].Total.Cents
	})
	if len(out) == 0 {
		return nil
	}
	return out
}

func roundToTenth(v float64) float64 {
	if v < 0 {
		return float64(int64(v*10-0.5)) / 10
	}
	return float64(int64(v*10+0.5)) / 10
}
