package recon

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func txn(id string, typ TransactionType, amount, date string) Transaction {
	d, ok := DateOf(date)
	return Transaction{ID: id, Type: typ, Amount: dec(amount), Date: d, DateOK: ok}
}

func TestSummarizeTransactionsOrderIndependent(t *testing.T) {
	txns := []Transaction{
		txn("t1", TxnIncome, "100", "2024-01-05"),
		txn("t2", TxnExpense, "40", "2024-01-06"),
		txn("t3", TxnIncome, "60", "2024-01-07"),
		txn("t4", TxnExpense, "25", "2024-01-08"),
	}
	reversed := []Transaction{txns[3], txns[2], txns[1], txns[0]}

	a := SummarizeTransactions(txns, Range{})
	b := SummarizeTransactions(reversed, Range{})

	if !a.NetProfitLoss.Equal(dec("95")) {
		t.Errorf("net = %s, want 95", a.NetProfitLoss)
	}
	if !a.TotalIncome.Equal(b.TotalIncome) || !a.TotalExpense.Equal(b.TotalExpense) {
		t.Error("summary must be independent of input order")
	}
}

func TestSummarizeTransactionsSkipsBadDatesWhenRanged(t *testing.T) {
	from := mustDate(t, "2024-01-01")
	to := mustDate(t, "2024-12-31")
	txns := []Transaction{
		txn("t1", TxnIncome, "100", "2024-01-05"),
		{ID: "t2", Type: TxnIncome, Amount: dec("999")}, // no parseable date
	}
	s := SummarizeTransactions(txns, Range{From: &from, To: &to})
	if !s.TotalIncome.Equal(dec("100")) {
		t.Errorf("income = %s, want 100 (bad date excluded)", s.TotalIncome)
	}
	if s.SkippedDates != 1 {
		t.Errorf("skipped = %d, want 1", s.SkippedDates)
	}

	// open range keeps the unordered record
	open := SummarizeTransactions(txns, Range{})
	if !open.TotalIncome.Equal(dec("1099")) {
		t.Errorf("open-range income = %s, want 1099", open.TotalIncome)
	}
}

func TestAggregateDashboardStatsPartialFailure(t *testing.T) {
	projects := []Project{
		{ID: "p1", Name: "Tower A", EstimatedBudget: dec("1000")},
		{ID: "p2", Name: "Tower B", EstimatedBudget: dec("2000")},
		{ID: "p3", Name: "Tower C", EstimatedBudget: dec("3000")},
	}
	summaries := []SummaryResult{
		{ProjectID: "p1", TotalIncome: dec("500"), TotalExpense: dec("200")},
		{ProjectID: "p2", Failed: true}, // fetch threw; zero contribution
		{ProjectID: "p3", TotalIncome: dec("300"), TotalExpense: dec("100")},
	}

	stats := AggregateDashboardStats(projects, summaries, nil)

	if !stats.TransactionIncome.Equal(dec("800")) {
		t.Errorf("income = %s, want 800 (projects 1 and 3 only)", stats.TransactionIncome)
	}
	if !stats.TotalExpense.Equal(dec("300")) {
		t.Errorf("expense = %s, want 300", stats.TotalExpense)
	}
	if !stats.NetProfitLoss.Equal(dec("500")) {
		t.Errorf("net = %s, want 500", stats.NetProfitLoss)
	}
	if len(stats.FailedProjectIDs) != 1 || stats.FailedProjectIDs[0] != "p2" {
		t.Errorf("failed ids = %v, want [p2]", stats.FailedProjectIDs)
	}
	if !stats.PerProject[1].FetchFailed {
		t.Error("per-project row for p2 must be marked failed")
	}
	if !stats.TotalEstimatedBudget.Equal(dec("6000")) {
		t.Errorf("budget total = %s, want 6000", stats.TotalEstimatedBudget)
	}
}

func TestAggregateDashboardStatsKeepsIncomeSourcesApart(t *testing.T) {
	projects := []Project{{ID: "p1", Name: "Tower A"}}
	summaries := []SummaryResult{{ProjectID: "p1", TotalIncome: dec("500")}}
	invoices := []Invoice{
		{ID: "i1", GrandTotal: dec("700")},
		{ID: "i2", GrandTotal: dec("300")},
	}
	stats := AggregateDashboardStats(projects, summaries, invoices)
	if !stats.TransactionIncome.Equal(dec("500")) {
		t.Errorf("transaction income = %s, want 500", stats.TransactionIncome)
	}
	if !stats.InvoiceRevenue.Equal(dec("1000")) {
		t.Errorf("invoice revenue = %s, want 1000", stats.InvoiceRevenue)
	}
	// net draws from the ledger only, never from invoices
	if !stats.NetProfitLoss.Equal(dec("500")) {
		t.Errorf("net = %s, want 500", stats.NetProfitLoss)
	}
}

func TestAggregateDashboardStatsSortsTransactions(t *testing.T) {
	projects := []Project{{ID: "p1", Name: "Tower A"}, {ID: "p2", Name: "Tower B"}}
	summaries := []SummaryResult{
		{ProjectID: "p1", Transactions: []Transaction{
			txn("old", TxnIncome, "1", "2024-01-01"),
			{ID: "undated", Type: TxnIncome, Amount: dec("1")},
		}},
		{ProjectID: "p2", Transactions: []Transaction{
			txn("new", TxnIncome, "1", "2024-06-01"),
		}},
	}
	stats := AggregateDashboardStats(projects, summaries, nil)

	if got := stats.AllTransactions[0].ID; got != "new" {
		t.Errorf("first = %s, want newest", got)
	}
	if got := stats.AllTransactions[0].ProjectName; got != "Tower B" {
		t.Errorf("tag = %s, want Tower B", got)
	}
	if got := stats.AllTransactions[2].ID; got != "undated" {
		t.Errorf("last = %s, want the unordered record", got)
	}
}

func TestSortTransactionsStableOnTies(t *testing.T) {
	d, _ := DateOf("2024-05-01")
	txns := []TaggedTransaction{
		{Transaction: Transaction{ID: "a", Date: d, DateOK: true}},
		{Transaction: Transaction{ID: "b", Date: d, DateOK: true}},
		{Transaction: Transaction{ID: "c", Date: d, DateOK: true}},
	}
	SortTransactionsByDateDesc(txns)
	if txns[0].ID != "a" || txns[1].ID != "b" || txns[2].ID != "c" {
		t.Errorf("tie order changed: %s %s %s", txns[0].ID, txns[1].ID, txns[2].ID)
	}
}

func TestComputeProfitLossReport(t *testing.T) {
	project := Project{ID: "p1", Name: "Tower A", EstimatedBudget: dec("10000")}
	invDate, _ := DateOf("2024-02-10")
	invoices := []Invoice{
		{ID: "i1", Project: Reference{Kind: RefID, ID: "p1"}, GrandTotal: dec("4000"), Date: invDate, DateOK: true},
		{ID: "i2", Project: Reference{Kind: RefID, ID: "other"}, GrandTotal: dec("9999"), Date: invDate, DateOK: true},
	}
	txns := []Transaction{
		func() Transaction {
			tr := txn("e1", TxnExpense, "2500", "2024-02-15")
			tr.Project = Reference{Kind: RefID, ID: "p1"}
			return tr
		}(),
		// income transactions never enter the budget report
		func() Transaction {
			tr := txn("in1", TxnIncome, "8888", "2024-02-16")
			tr.Project = Reference{Kind: RefID, ID: "p1"}
			return tr
		}(),
	}

	rep := ComputeProfitLossReport(project, invoices, txns, Range{})

	if !rep.InvoiceRevenue.Equal(dec("4000")) {
		t.Errorf("revenue = %s, want 4000", rep.InvoiceRevenue)
	}
	if !rep.TotalExpenditure.Equal(dec("2500")) {
		t.Errorf("expenditure = %s, want 2500", rep.TotalExpenditure)
	}
	if !rep.RemainingBudget.Equal(dec("7500")) {
		t.Errorf("remaining budget = %s, want 7500", rep.RemainingBudget)
	}
	if !rep.ProfitLoss.Equal(dec("1500")) {
		t.Errorf("profit/loss = %s, want 1500", rep.ProfitLoss)
	}
	if rep.MarginLabel != "profit" {
		t.Errorf("label = %s, want profit", rep.MarginLabel)
	}
	if rep.MarginPct != 37.5 {
		t.Errorf("margin = %v, want 37.5", rep.MarginPct)
	}
}

func TestComputeProfitLossReportDateWindow(t *testing.T) {
	project := Project{ID: "p1", EstimatedBudget: dec("1000")}
	d1, _ := DateOf("2024-03-10")
	d2, _ := DateOf("2024-05-10")
	invoices := []Invoice{
		{ID: "in", Project: Reference{Kind: RefID, ID: "p1"}, GrandTotal: dec("100"), Date: d1, DateOK: true},
		{ID: "out", Project: Reference{Kind: RefID, ID: "p1"}, GrandTotal: dec("100"), Date: d2, DateOK: true},
	}
	rng := ParseRange("2024-03-01", "2024-03-31")
	rep := ComputeProfitLossReport(project, invoices, nil, rng)
	if !rep.InvoiceRevenue.Equal(dec("100")) {
		t.Errorf("revenue = %s, want 100 (May invoice outside window)", rep.InvoiceRevenue)
	}
}

func TestMargin(t *testing.T) {
	tests := []struct {
		name    string
		pl, rev string
		want    float64
	}{
		{"loss as positive pct", "-50", "200", 25},
		{"profit", "50", "200", 25},
		{"zero revenue", "50", "0", 0},
		{"negative revenue", "50", "-10", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Margin(dec(tt.pl), dec(tt.rev)); got != tt.want {
				t.Errorf("Margin(%s, %s) = %v, want %v", tt.pl, tt.rev, got, tt.want)
			}
		})
	}
	if MarginLabel(decimal.Zero) != "profit" {
		t.Error("zero is profit")
	}
	if MarginLabel(dec("-1")) != "loss" {
		t.Error("negative is loss")
	}
}

func TestEndOfDayLastInstant(t *testing.T) {
	d := time.Date(2024, 3, 31, 9, 0, 0, 0, time.UTC)
	eod := EndOfDay(d)
	if eod.Day() != 31 || eod.Hour() != 23 || eod.Minute() != 59 {
		t.Errorf("EndOfDay = %v", eod)
	}
}
