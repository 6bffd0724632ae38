package recon

import (
	"time"

	"github.com/shopspring/decimal"
)

// DatedAmount is the minimal shape the series builder needs; callers
// adapt transactions or invoices into it.
type DatedAmount struct {
	Date   time.Time
	DateOK bool
	Amount decimal.Decimal
}

type MonthlyBucket struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Profit  decimal.Decimal `json:"profit"`
}

// MonthlySeries buckets income and expense amounts into the twelve
// calendar months of the selected year. Off-year records and records
// with unparseable dates contribute to no bucket.
func MonthlySeries(incomes, expenses []DatedAmount, year int) [12]MonthlyBucket {
	var buckets [12]MonthlyBucket
	for i := range buckets {
		buckets[i].Month = time.Month(i + 1).String()
	}
	for _, rec := range incomes {
		if !rec.DateOK || rec.Date.Year() != year {
			continue
		}
		i := int(rec.Date.Month()) - 1
		buckets[i].Income = buckets[i].Income.Add(rec.Amount)
	}
	for _, rec := range expenses {
		if !rec.DateOK || rec.Date.Year() != year {
			continue
		}
		i := int(rec.Date.Month()) - 1
		buckets[i].Expense = buckets[i].Expense.Add(rec.Amount)
	}
	for i := range buckets {
		buckets[i].Profit = buckets[i].Income.Sub(buckets[i].Expense)
	}
	return buckets
}

// SplitLedger adapts a transaction list into the income and expense
// streams the series builder consumes.
func SplitLedger(txns []Transaction) (incomes, expenses []DatedAmount) {
	for _, t := range txns {
		rec := DatedAmount{Date: t.Date, DateOK: t.DateOK, Amount: t.Amount}
		switch t.Type {
		case TxnIncome:
			incomes = append(incomes, rec)
		case TxnExpense:
			expenses = append(expenses, rec)
		}
	}
	return incomes, expenses
}
