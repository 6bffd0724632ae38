package recon

import (
	"sort"

	"github.com/shopspring/decimal"
)

// TransactionSummary is the single-project ledger rollup.
type TransactionSummary struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpense  decimal.Decimal `json:"total_expense"`
	NetProfitLoss decimal.Decimal `json:"net_profit_loss"`
	SkippedDates  int             `json:"skipped_dates"`
}

// SummarizeTransactions sums Income and Expense amounts after
// date-range filtering. Records with unparseable dates are excluded
// from ranged computations and counted, never silently dropped.
func SummarizeTransactions(txns []Transaction, rng Range) TransactionSummary {
	var s TransactionSummary
	ranged := !rng.IsOpen()
	for _, t := range txns {
		if ranged {
			if !t.DateOK {
				s.SkippedDates++
				continue
			}
			if !rng.Contains(t.Date) {
				continue
			}
		}
		switch t.Type {
		case TxnIncome:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		case TxnExpense:
			s.TotalExpense = s.TotalExpense.Add(t.Amount)
		}
	}
	s.NetProfitLoss = s.TotalIncome.Sub(s.TotalExpense)
	return s
}

// SummaryResult is one project's contribution to a cross-project
// batch. A failed fetch is a zero-valued contribution with Failed set;
// the batch never aborts for one project (partial-failure policy).
type SummaryResult struct {
	ProjectID    string          `json:"project_id"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Transactions []Transaction   `json:"-"`
	Failed       bool            `json:"failed"`
}

// TaggedTransaction is a transaction carrying its resolved project
// name for cross-project detail tables.
type TaggedTransaction struct {
	Transaction
	ProjectName string `json:"project_name"`
}

// DashboardStats is the cross-project rollup. Transaction income and
// invoice revenue are different income recognitions (cash ledger vs
// billed) and stay in separately named fields; they are never summed
// into one figure.
type DashboardStats struct {
	TransactionIncome    decimal.Decimal     `json:"transaction_income"`
	TotalExpense         decimal.Decimal     `json:"total_expense"`
	NetProfitLoss        decimal.Decimal     `json:"net_profit_loss"`
	InvoiceRevenue       decimal.Decimal     `json:"invoice_revenue"`
	TotalEstimatedBudget decimal.Decimal     `json:"total_estimated_budget"`
	ProjectCount         int                 `json:"project_count"`
	PerProject           []ProjectStat       `json:"per_project"`
	AllTransactions      []TaggedTransaction `json:"all_transactions"`
	FailedProjectIDs     []string            `json:"failed_project_ids"`
	Diagnostics          Diagnostics         `json:"diagnostics"`
}

type ProjectStat struct {
	ProjectID     string          `json:"project_id"`
	ProjectName   string          `json:"project_name"`
	Status        string          `json:"status"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpense  decimal.Decimal `json:"total_expense"`
	NetProfitLoss decimal.Decimal `json:"net_profit_loss"`
	FetchFailed   bool            `json:"fetch_failed"`
}

// AggregateDashboardStats fuses per-project summaries (index-aligned
// with projects, one fetch per project) and the invoice collection
// into the landing dashboard figures. Failed fetches contribute zero
// and are listed in FailedProjectIDs so callers can tell an empty
// project from a failed one.
func AggregateDashboardStats(projects []Project, summaries []SummaryResult, invoices []Invoice) DashboardStats {
	stats := DashboardStats{
		ProjectCount:     len(projects),
		PerProject:       make([]ProjectStat, 0, len(projects)),
		AllTransactions:  []TaggedTransaction{},
		FailedProjectIDs: []string{},
	}
	idx := NewProjectIndex(projects)

	n := len(projects)
	if len(summaries) < n {
		n = len(summaries)
	}
	for i := 0; i < n; i++ {
		p := projects[i]
		sum := summaries[i]
		stats.TotalEstimatedBudget = stats.TotalEstimatedBudget.Add(p.EstimatedBudget)
		if sum.Failed {
			stats.FailedProjectIDs = append(stats.FailedProjectIDs, p.ID)
		}
		stats.TransactionIncome = stats.TransactionIncome.Add(sum.TotalIncome)
		stats.TotalExpense = stats.TotalExpense.Add(sum.TotalExpense)
		stats.PerProject = append(stats.PerProject, ProjectStat{
			ProjectID:     p.ID,
			ProjectName:   p.Name,
			Status:        p.Status,
			TotalIncome:   sum.TotalIncome,
			TotalExpense:  sum.TotalExpense,
			NetProfitLoss: sum.TotalIncome.Sub(sum.TotalExpense),
			FetchFailed:   sum.Failed,
		})
		for _, t := range sum.Transactions {
			name := p.Name
			if t.Project.Kind != RefAbsent && !t.Project.Resolved(idx.NameLookup) {
				stats.Diagnostics.UnresolvedRefs++
			}
			stats.AllTransactions = append(stats.AllTransactions, TaggedTransaction{Transaction: t, ProjectName: name})
		}
	}
	stats.NetProfitLoss = stats.TransactionIncome.Sub(stats.TotalExpense)

	for _, inv := range invoices {
		stats.InvoiceRevenue = stats.InvoiceRevenue.Add(inv.GrandTotal)
	}

	SortTransactionsByDateDesc(stats.AllTransactions)
	return stats
}

// SortTransactionsByDateDesc orders newest first. The sort is stable
// so ties keep fetch order, and unordered records (bad dates) sink to
// the end instead of masquerading as recent.
func SortTransactionsByDateDesc(txns []TaggedTransaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		a, b := txns[i], txns[j]
		if a.DateOK != b.DateOK {
			return a.DateOK
		}
		if !a.DateOK {
			return false
		}
		return a.Date.After(b.Date)
	})
}

// Report is the budget-centric profit/loss view for one project.
// Income here comes from invoice grand totals ONLY; Expense comes from
// Expense-type transactions ONLY. Transaction-type-Income never enters
// this report (see DashboardStats for the ledger view).
type Report struct {
	ProjectID        string          `json:"project_id"`
	ProjectName      string          `json:"project_name"`
	EstimatedBudget  decimal.Decimal `json:"estimated_budget"`
	InvoiceRevenue   decimal.Decimal `json:"invoice_revenue"`
	TotalExpenditure decimal.Decimal `json:"total_expenditure"`
	RemainingBudget  decimal.Decimal `json:"remaining_budget"`
	ProfitLoss       decimal.Decimal `json:"profit_loss"`
	MarginPct        float64         `json:"margin_pct"`
	MarginLabel      string          `json:"margin_label"`
	Diagnostics      Diagnostics     `json:"diagnostics"`
}

// ComputeProfitLossReport derives the budget report for one project
// over an inclusive date window.
func ComputeProfitLossReport(project Project, invoices []Invoice, txns []Transaction, rng Range) Report {
	r := Report{
		ProjectID:       project.ID,
		ProjectName:     project.Name,
		EstimatedBudget: project.EstimatedBudget,
	}
	ranged := !rng.IsOpen()

	for _, inv := range invoices {
		if !inv.Project.Matches(project.ID) {
			continue
		}
		if ranged {
			if !inv.DateOK {
				r.Diagnostics.SkippedDates++
				continue
			}
			if !rng.Contains(inv.Date) {
				continue
			}
		}
		r.InvoiceRevenue = r.InvoiceRevenue.Add(inv.GrandTotal)
	}

	for _, t := range txns {
		if t.Type != TxnExpense {
			continue
		}
		if t.Project.Kind != RefAbsent && !t.Project.Matches(project.ID) {
			continue
		}
		if ranged {
			if !t.DateOK {
				r.Diagnostics.SkippedDates++
				continue
			}
			if !rng.Contains(t.Date) {
				continue
			}
		}
		r.TotalExpenditure = r.TotalExpenditure.Add(t.Amount)
	}

	r.RemainingBudget = r.EstimatedBudget.Sub(r.TotalExpenditure)
	r.ProfitLoss = r.InvoiceRevenue.Sub(r.TotalExpenditure)
	r.MarginPct = Margin(r.ProfitLoss, r.InvoiceRevenue)
	r.MarginLabel = MarginLabel(r.ProfitLoss)
	return r
}

// Margin is the display percentage: abs(profitLoss)/revenue*100 when
// revenue is positive, else 0.
func Margin(profitLoss, revenue decimal.Decimal) float64 {
	if !revenue.IsPositive() {
		return 0
	}
	f, _ := profitLoss.Abs().Div(revenue).Mul(decimal.NewFromInt(100)).Float64()
	return f
}

// MarginLabel treats zero as profit: non-negative means profit.
func MarginLabel(profitLoss decimal.Decimal) string {
	if profitLoss.Sign() < 0 {
		return "loss"
	}
	return "profit"
}
