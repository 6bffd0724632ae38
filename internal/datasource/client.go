// Package datasource is the REST collaborator the reconciliation core
// reads its collections from. Responses are decoded into raw maps and
// handed to recon's parsers; the client never interprets field values
// itself.
package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"SiteLedger/internal/config"
	"SiteLedger/internal/recon"
)

const defaultTimeout = 15 * time.Second

// FanOutLimit caps concurrent per-project fetches in a batch.
const FanOutLimit = config.DefaultFanOutLimit

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) getRawList(ctx context.Context, path string, query url.Values) ([]map[string]interface{}, error) {
	var raws []map[string]interface{}
	if err := c.getJSON(ctx, path, query, &raws); err != nil {
		return nil, err
	}
	return raws, nil
}

func (c *Client) Projects(ctx context.Context) ([]recon.Project, error) {
	raws, err := c.getRawList(ctx, "projects", nil)
	if err != nil {
		return nil, err
	}
	return recon.ParseProjects(raws), nil
}

func (c *Client) Invoices(ctx context.Context) ([]recon.Invoice, error) {
	raws, err := c.getRawList(ctx, "invoices", nil)
	if err != nil {
		return nil, err
	}
	return recon.ParseInvoices(raws), nil
}

func (c *Client) Transactions(ctx context.Context) ([]recon.Transaction, error) {
	raws, err := c.getRawList(ctx, "transactions", nil)
	if err != nil {
		return nil, err
	}
	return recon.ParseTransactions(raws), nil
}

func (c *Client) Materials(ctx context.Context) ([]recon.MaterialRecord, error) {
	raws, err := c.getRawList(ctx, "materials", nil)
	if err != nil {
		return nil, err
	}
	return recon.ParseMaterialRecords(raws), nil
}

func (c *Client) MaterialMappings(ctx context.Context, projectID, materialID, fromDate, toDate string) ([]recon.MaterialMapping, error) {
	q := url.Values{}
	if projectID != "" {
		q.Set("projectId", projectID)
	}
	if materialID != "" {
		q.Set("materialId", materialID)
	}
	if fromDate != "" {
		q.Set("fromDate", fromDate)
	}
	if toDate != "" {
		q.Set("toDate", toDate)
	}
	raws, err := c.getRawList(ctx, "projectMaterialMappings", q)
	if err != nil {
		return nil, err
	}
	return recon.ParseMaterialMappings(raws), nil
}

func (c *Client) MaterialUsage(ctx context.Context, projectID string) ([]recon.MaterialUsage, error) {
	raws, err := c.getRawList(ctx, "material-usage/project/"+url.PathEscape(projectID), nil)
	if err != nil {
		return nil, err
	}
	return recon.ParseMaterialUsages(raws), nil
}

func (c *Client) ManpowerAssignments(ctx context.Context) ([]recon.ManpowerAssignment, error) {
	raws, err := c.getRawList(ctx, "expenditures", nil)
	if err != nil {
		return nil, err
	}
	return recon.ParseManpowerAssignments(raws), nil
}

// ProjectSummary fetches one project's ledger rollup. The endpoint
// serves either {summary:{...}, allTransactions:[...]} or a bare
// transaction array depending on backend version; both shapes are
// accepted and the totals are recomputed from the transactions when
// no summary object is present.
func (c *Client) ProjectSummary(ctx context.Context, projectID string) (recon.SummaryResult, error) {
	res := recon.SummaryResult{ProjectID: projectID}

	var payload json.RawMessage
	if err := c.getJSON(ctx, "transactions/summary/"+url.PathEscape(projectID), nil, &payload); err != nil {
		return res, err
	}

	var envelope struct {
		Summary *struct {
			TotalIncome  interface{} `json:"totalIncome"`
			TotalExpense interface{} `json:"totalExpense"`
		} `json:"summary"`
		AllTransactions []map[string]interface{} `json:"allTransactions"`
	}
	if err := json.Unmarshal(payload, &envelope); err == nil && (envelope.Summary != nil || envelope.AllTransactions != nil) {
		res.Transactions = recon.ParseTransactions(envelope.AllTransactions)
		if envelope.Summary != nil {
			res.TotalIncome = recon.Amount(envelope.Summary.TotalIncome)
			res.TotalExpense = recon.Amount(envelope.Summary.TotalExpense)
		} else {
			s := recon.SummarizeTransactions(res.Transactions, recon.Range{})
			res.TotalIncome = s.TotalIncome
			res.TotalExpense = s.TotalExpense
		}
		return res, nil
	}

	var raws []map[string]interface{}
	if err := json.Unmarshal(payload, &raws); err != nil {
		return res, fmt.Errorf("summary for %s: unrecognized body", projectID)
	}
	res.Transactions = recon.ParseTransactions(raws)
	s := recon.SummarizeTransactions(res.Transactions, recon.Range{})
	res.TotalIncome = s.TotalIncome
	res.TotalExpense = s.TotalExpense
	return res, nil
}

// MaterialUsageBatch fans out the per-project usage endpoint and
// concatenates the streams, preserving projectIDs order. Failed
// projects contribute nothing and are returned in failedIDs, same
// policy as the summary batch.
func (c *Client) MaterialUsageBatch(ctx context.Context, projectIDs []string) ([]recon.MaterialUsage, []string) {
	perProject := make([][]recon.MaterialUsage, len(projectIDs))
	errs := make([]error, len(projectIDs))

	var wg sync.WaitGroup
	sem := make(chan struct{}, FanOutLimit)
	for i, id := range projectIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			usages, err := c.MaterialUsage(ctx, id)
			if err != nil {
				errs[i] = err
				return
			}
			perProject[i] = usages
		}(i, id)
	}
	wg.Wait()

	var out []recon.MaterialUsage
	failed := []string{}
	for i, id := range projectIDs {
		if errs[i] != nil {
			log.Printf("[WARN] usage fetch failed for project %s: %v", id, errs[i])
			failed = append(failed, id)
			continue
		}
		out = append(out, perProject[i]...)
	}
	return out, failed
}

// FetchProjectSummaries fans out one request per project and collects
// the batch. Results land in a slice index-aligned with projectIDs so
// per-project tagging downstream attributes transactions correctly. A
// single failed fetch becomes a zero-valued contribution plus an entry
// in failedIDs; the batch itself never aborts. Retry belongs to the
// transport, not here.
func (c *Client) FetchProjectSummaries(ctx context.Context, projectIDs []string) ([]recon.SummaryResult, []string) {
	results := make([]recon.SummaryResult, len(projectIDs))

	var wg sync.WaitGroup
	sem := make(chan struct{}, FanOutLimit)
	for i, id := range projectIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			res, err := c.ProjectSummary(ctx, id)
			if err != nil {
				log.Printf("[WARN] summary fetch failed for project %s: %v", id, err)
				results[i] = recon.SummaryResult{ProjectID: id, Failed: true, Transactions: []recon.Transaction{}}
				return
			}
			results[i] = res
		}(i, id)
	}
	wg.Wait()

	failed := []string{}
	for _, r := range results {
		if r.Failed {
			failed = append(failed, r.ProjectID)
		}
	}
	return results, failed
}
