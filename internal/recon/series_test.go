package recon

import "testing"

func dated(s, amount string) DatedAmount {
	d, ok := DateOf(s)
	return DatedAmount{Date: d, DateOK: ok, Amount: dec(amount)}
}

func TestMonthlySeries(t *testing.T) {
	incomes := []DatedAmount{
		dated("2024-01-10", "100"),
		dated("2024-01-20", "50"),
		dated("2024-12-31", "25"),
		dated("2023-06-15", "999"), // off year
	}
	expenses := []DatedAmount{
		dated("2024-01-05", "40"),
		{Amount: dec("777")}, // unparseable date
	}

	buckets := MonthlySeries(incomes, expenses, 2024)

	if !buckets[0].Income.Equal(dec("150")) {
		t.Errorf("january income = %s, want 150", buckets[0].Income)
	}
	if !buckets[0].Expense.Equal(dec("40")) {
		t.Errorf("january expense = %s, want 40", buckets[0].Expense)
	}
	if !buckets[0].Profit.Equal(dec("110")) {
		t.Errorf("january profit = %s, want 110", buckets[0].Profit)
	}
	if !buckets[11].Income.Equal(dec("25")) {
		t.Errorf("december income = %s, want 25", buckets[11].Income)
	}
	for i := 1; i < 11; i++ {
		if !buckets[i].Income.IsZero() || !buckets[i].Expense.IsZero() {
			t.Errorf("bucket %d should be empty", i)
		}
	}
	if buckets[0].Month != "January" || buckets[11].Month != "December" {
		t.Errorf("month labels wrong: %s ... %s", buckets[0].Month, buckets[11].Month)
	}
}

func TestSplitLedger(t *testing.T) {
	txns := []Transaction{
		txn("i", TxnIncome, "10", "2024-01-01"),
		txn("e", TxnExpense, "4", "2024-01-02"),
		{ID: "junk", Type: "Transfer", Amount: dec("9")},
	}
	incomes, expenses := SplitLedger(txns)
	if len(incomes) != 1 || len(expenses) != 1 {
		t.Fatalf("split = %d/%d, want 1/1 (unknown types dropped)", len(incomes), len(expenses))
	}
	if !incomes[0].Amount.Equal(dec("10")) {
		t.Errorf("income amount = %s", incomes[0].Amount)
	}
}
