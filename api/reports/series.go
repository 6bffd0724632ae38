package reports

import (
	"net/http"
	"time"

	"SiteLedger/api"
	"SiteLedger/api/constants"
	"SiteLedger/internal/datasource"
	"SiteLedger/internal/recon"
)

// GetMonthlySeries serves the twelve-month income/expense chart data.
// Request JSON: { "year":2024, "project_id":"optional" }
func GetMonthlySeries(client *datasource.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Year      int    `json:"year,omitempty"`
			ProjectID string `json:"project_id,omitempty"`
		}
		if !api.DecodeJSONBody(w, r, &req) {
			return
		}
		if req.Year == 0 {
			req.Year = time.Now().Year()
		}

		ctx := r.Context()
		var txns []recon.Transaction
		if req.ProjectID != "" {
			summary, err := client.ProjectSummary(ctx, req.ProjectID)
			if err != nil {
				api.RespondWithError(w, http.StatusBadGateway, constants.ErrBackendFetch+": "+err.Error())
				return
			}
			txns = summary.Transactions
		} else {
			var err error
			txns, err = client.Transactions(ctx)
			if err != nil {
				api.RespondWithError(w, http.StatusBadGateway, constants.ErrBackendFetch+": "+err.Error())
				return
			}
		}

		incomes, expenses := recon.SplitLedger(txns)
		buckets := recon.MonthlySeries(incomes, expenses, req.Year)
		api.RespondWithPayload(w, map[string]interface{}{
			"year":    req.Year,
			"buckets": buckets,
		})
	}
}
