package core

import (
	"testing"
	"time"
)

func tx(cents int64, date, desc, category string) Transaction {
	d, err := time.Parse(time.DateOnly, date)
	if err != nil {
		panic(err)
	}
	return Transaction{
		ID:          NewTransactionID(),
		Amount:      Money{Cents: cents},
		Date:        d,
		Description: desc,
		Category:    category,
	}
}

func TestMonthlyTotals(t *testing.T) {
	txs := []Transaction{
		tx(-5000, "2024-01-10", "Groceries", "Food"),
		tx(100000, "2024-01-15", "Paycheck", "Income"),
	}

	got := MonthlyTotals(txs)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Label != "Jan 2024" {
		t.Errorf("label = %q, want Jan 2024", got[0].Label)
	}
	if got[0].Total.Cents != 105000 {
		t.Errorf("total = %d cents, want 105000", got[0].Total.Cents)
	}
}

func TestMonthlyTotalsChronological(t *testing.T) {
	txs := []Transaction{
		tx(-1000, "2024-03-01", "a", "Food"),
		tx(-1000, "2023-12-31", "b", "Food"),
		tx(-1000, "2024-01-05", "c", "Food"),
		tx(-1000, "2024-03-20", "d", "Food"),
	}

	got := MonthlyTotals(txs)
	want := []string{"Dec 2023", "Jan 2024", "Mar 2024"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, label := range want {
		if got[i].Label != label {
			t.Errorf("got[%d].Label = %q, want %q", i, got[i].Label, label)
		}
	}
	if got[2].Total.Cents != 2000 {
		t.Errorf("Mar 2024 total = %d cents, want 2000", got[2].Total.Cents)
	}
}

func TestMonthlyTotalsEmpty(t *testing.T) {
	if got := MonthlyTotals(nil); len(got) != 0 {
		t.Errorf("MonthlyTotals(nil) = %v, want empty", got)
	}
}

func TestCategoryBreakdown(t *testing.T) {
	txs := []Transaction{
		tx(-5000, "2024-01-10", "Groceries", "Food"),
		tx(100000, "2024-01-15", "Paycheck", "Income"),
	}

	got := CategoryBreakdown(txs)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Name != "Income" || got[0].Total.Cents != 100000 || got[0].Percentage != 95.2 {
		t.Errorf("got[0] = %+v, want Income 100000 cents at 95.2%%", got[0])
	}
	if got[1].Name != "Food" || got[1].Total.Cents != 5000 || got[1].Percentage != 4.8 {
		t.Errorf("got[1] = %+v, want Food 5000 cents at 4.8%%", got[1])
	}
}

func TestCategoryBreakdownPercentagesSum(t *testing.T) {
	txs := []Transaction{
		tx(-3333, "2024-01-01", "a", "Food"),
		tx(-3333, "2024-01-02", "b", "Rent"),
		tx(-3334, "2024-01-03", "c", "Utilities"),
	}

	var sum float64
	prev := int64(1 << 62)
	for _, share := range CategoryBreakdown(txs) {
		sum += share.Percentage
		if share.Total.Cents > prev {
			t.Error("breakdown not sorted non-increasing")
		}
		prev = share.Total.Cents
	}
	if sum < 99.5 || sum > 100.5 {
		t.Errorf("percentages sum to %v, want ~100", sum)
	}
}

func TestCategoryBreakdownTiesKeepFirstSeenOrder(t *testing.T) {
	txs := []Transaction{
		tx(-1000, "2024-01-01", "a", "Transportation"),
		tx(-1000, "2024-01-02", "b", "Entertainment"),
		tx(-2000, "2024-01-03", "c", "Food"),
	}

	got := CategoryBreakdown(txs)
	want := []string{"Food", "Transportation", "Entertainment"}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("got[%d].Name = %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestCategoryBreakdownZeroGrandTotal(t *testing.T) {
	// Zero-amount rows never pass validation, but the aggregation must not
	// divide by zero if handed them anyway.
	txs := []Transaction{tx(0, "2024-01-01", "a", "Food")}
	got := CategoryBreakdown(txs)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Percentage != 0 {
		t.Errorf("percentage = %v, want 0", got[0].Percentage)
	}
}

func TestCategoryBreakdownEmpty(t *testing.T) {
	if got := CategoryBreakdown(nil); len(got) != 0 {
		t.Errorf("CategoryBreakdown(nil) = %v, want empty", got)
	}
}
