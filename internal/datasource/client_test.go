package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func newBackend(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if body == "FAIL" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
}

func TestProjectsParsing(t *testing.T) {
	srv := newBackend(t, map[string]string{
		"/projects": `[{"_id":"p1","projectName":"Tower A","estimatedBudget":"5000","status":"OnGoing"}]`,
	})
	defer srv.Close()

	projects, err := NewClient(srv.URL, srv.Client()).Projects(context.Background())
	if err != nil {
		t.Fatalf("Projects: %v", err)
	}
	if len(projects) != 1 || projects[0].Name != "Tower A" {
		t.Fatalf("projects = %+v", projects)
	}
	if !projects[0].EstimatedBudget.Equal(dec("5000")) {
		t.Errorf("budget = %s", projects[0].EstimatedBudget)
	}
}

func TestProjectSummaryEnvelopeShape(t *testing.T) {
	srv := newBackend(t, map[string]string{
		"/transactions/summary/p1": `{"summary":{"totalIncome":900,"totalExpense":"400"},"allTransactions":[{"_id":"t1","type":"Income","amount":900,"date":"2024-01-02"}]}`,
	})
	defer srv.Close()

	res, err := NewClient(srv.URL, srv.Client()).ProjectSummary(context.Background(), "p1")
	if err != nil {
		t.Fatalf("ProjectSummary: %v", err)
	}
	if !res.TotalIncome.Equal(dec("900")) || !res.TotalExpense.Equal(dec("400")) {
		t.Errorf("summary = %s / %s", res.TotalIncome, res.TotalExpense)
	}
	if len(res.Transactions) != 1 {
		t.Errorf("transactions = %d, want 1", len(res.Transactions))
	}
}

func TestProjectSummaryBareArrayShape(t *testing.T) {
	srv := newBackend(t, map[string]string{
		"/transactions/summary/p1": `[{"_id":"t1","type":"Income","amount":250,"date":"2024-01-02"},{"_id":"t2","type":"Expense","amount":100,"date":"2024-01-03"}]`,
	})
	defer srv.Close()

	res, err := NewClient(srv.URL, srv.Client()).ProjectSummary(context.Background(), "p1")
	if err != nil {
		t.Fatalf("ProjectSummary: %v", err)
	}
	if !res.TotalIncome.Equal(dec("250")) || !res.TotalExpense.Equal(dec("100")) {
		t.Errorf("recomputed summary = %s / %s", res.TotalIncome, res.TotalExpense)
	}
}

func TestFetchProjectSummariesPartialFailure(t *testing.T) {
	srv := newBackend(t, map[string]string{
		"/transactions/summary/p1": `{"summary":{"totalIncome":100,"totalExpense":10},"allTransactions":[]}`,
		"/transactions/summary/p2": "FAIL",
		"/transactions/summary/p3": `{"summary":{"totalIncome":200,"totalExpense":20},"allTransactions":[]}`,
	})
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client())
	results, failed := client.FetchProjectSummaries(context.Background(), []string{"p1", "p2", "p3"})

	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	// index alignment must survive concurrency
	for i, want := range []string{"p1", "p2", "p3"} {
		if results[i].ProjectID != want {
			t.Errorf("results[%d] = %s, want %s", i, results[i].ProjectID, want)
		}
	}
	if !results[1].Failed || !results[1].TotalIncome.IsZero() {
		t.Error("p2 must be a zero-valued failed contribution")
	}
	if len(failed) != 1 || failed[0] != "p2" {
		t.Errorf("failed = %v, want [p2]", failed)
	}

	total := results[0].TotalIncome.Add(results[1].TotalIncome).Add(results[2].TotalIncome)
	if !total.Equal(dec("300")) {
		t.Errorf("batch income = %s, want 300 (p1+p3 only)", total)
	}
}

func TestMaterialMappingsQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/projectMaterialMappings") {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, srv.Client()).MaterialMappings(context.Background(), "p1", "M1", "2024-03-01", "2024-03-31")
	if err != nil {
		t.Fatalf("MaterialMappings: %v", err)
	}
	for _, part := range []string{"projectId=p1", "materialId=M1", "fromDate=2024-03-01", "toDate=2024-03-31"} {
		if !strings.Contains(gotQuery, part) {
			t.Errorf("query %q missing %q", gotQuery, part)
		}
	}
}

func TestNon2xxIsError(t *testing.T) {
	srv := newBackend(t, map[string]string{"/projects": "FAIL"})
	defer srv.Close()
	if _, err := NewClient(srv.URL, srv.Client()).Projects(context.Background()); err == nil {
		t.Fatal("expected error on 500")
	}
}
