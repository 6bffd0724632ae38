package reports

import (
	"net/http"

	"SiteLedger/api"
	"SiteLedger/api/constants"
	"SiteLedger/internal/datasource"
	"SiteLedger/internal/recon"
)

// GetProfitLossReport serves the budget-centric view for one project:
// revenue from invoices, expenditure from Expense transactions.
// Request JSON: { "project_id":"...", "from_date":"2024-03-01", "to_date":"2024-03-31" }
func GetProfitLossReport(client *datasource.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ProjectID string `json:"project_id"`
			FromDate  string `json:"from_date,omitempty"`
			ToDate    string `json:"to_date,omitempty"`
		}
		if !api.DecodeJSONBody(w, r, &req) {
			return
		}
		if req.ProjectID == "" {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrProjectIDRequired)
			return
		}

		ctx := r.Context()
		projects, err := client.Projects(ctx)
		if err != nil {
			api.RespondWithError(w, http.StatusBadGateway, constants.ErrBackendFetch+": "+err.Error())
			return
		}
		idx := recon.NewProjectIndex(projects)
		project, ok := idx[req.ProjectID]
		if !ok {
			api.RespondWithError(w, http.StatusNotFound, constants.ErrProjectNotFound)
			return
		}

		invoices, err := client.Invoices(ctx)
		if err != nil {
			api.RespondWithError(w, http.StatusBadGateway, constants.ErrBackendFetch+": "+err.Error())
			return
		}
		summary, err := client.ProjectSummary(ctx, req.ProjectID)
		if err != nil {
			api.RespondWithError(w, http.StatusBadGateway, constants.ErrBackendFetch+": "+err.Error())
			return
		}

		rng := recon.ParseRange(req.FromDate, req.ToDate)
		report := recon.ComputeProfitLossReport(project, invoices, summary.Transactions, rng)
		api.RespondWithPayload(w, report)
	}
}
