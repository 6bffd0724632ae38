package reports

import (
	"net/http"

	"SiteLedger/api"
	"SiteLedger/api/constants"
	"SiteLedger/internal/datasource"
	"SiteLedger/internal/recon"
)

// GetPayrollReport totals wages for manpower allocations.
// Request JSON: { "project_id":"optional", "from_date":"", "to_date":"" }
func GetPayrollReport(client *datasource.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ProjectID string `json:"project_id,omitempty"`
			FromDate  string `json:"from_date,omitempty"`
			ToDate    string `json:"to_date,omitempty"`
		}
		if !api.DecodeJSONBody(w, r, &req) {
			return
		}

		assignments, err := client.ManpowerAssignments(r.Context())
		if err != nil {
			api.RespondWithError(w, http.StatusBadGateway, constants.ErrBackendFetch+": "+err.Error())
			return
		}

		rng := recon.ParseRange(req.FromDate, req.ToDate)
		report := recon.ComputePayrollReport(assignments, req.ProjectID, rng)
		api.RespondWithPayload(w, report)
	}
}
