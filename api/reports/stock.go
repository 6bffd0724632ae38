package reports

import (
	"net/http"

	"SiteLedger/api"
	"SiteLedger/api/constants"
	"SiteLedger/internal/datasource"
	"SiteLedger/internal/recon"
)

// GetStockReport reconciles purchased stock against the usage stream.
// Request JSON: { "material_id":"", "project_id":"", "from_date":"", "to_date":"" }
// all fields optional.
func GetStockReport(client *datasource.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			MaterialID string `json:"material_id,omitempty"`
			ProjectID  string `json:"project_id,omitempty"`
			FromDate   string `json:"from_date,omitempty"`
			ToDate     string `json:"to_date,omitempty"`
		}
		if !api.DecodeJSONBody(w, r, &req) {
			return
		}

		ctx := r.Context()
		materials, err := client.Materials(ctx)
		if err != nil {
			api.RespondWithError(w, http.StatusBadGateway, constants.ErrBackendFetch+": "+err.Error())
			return
		}

		// the usage endpoint is per-project; a project filter needs one
		// fetch, an unfiltered report fans out across all projects
		var usages []recon.MaterialUsage
		var failedProjects []string
		if req.ProjectID != "" {
			usages, err = client.MaterialUsage(ctx, req.ProjectID)
			if err != nil {
				api.RespondWithError(w, http.StatusBadGateway, constants.ErrBackendFetch+": "+err.Error())
				return
			}
		} else {
			projects, err := client.Projects(ctx)
			if err != nil {
				api.RespondWithError(w, http.StatusBadGateway, constants.ErrBackendFetch+": "+err.Error())
				return
			}
			ids := make([]string, len(projects))
			for i, p := range projects {
				ids[i] = p.ID
			}
			usages, failedProjects = client.MaterialUsageBatch(ctx, ids)
		}

		// the usage stream is already project-scoped by the fetch
		// above; the per-project endpoint serves rows without an
		// embedded project reference, so re-applying the filter here
		// would drop every one of them
		report := recon.ComputeStockReport(materials, usages, recon.StockFilters{
			MaterialID: req.MaterialID,
			Range:      recon.ParseRange(req.FromDate, req.ToDate),
		})

		api.RespondWithPayload(w, map[string]interface{}{
			"report":             report,
			"failed_project_ids": failedProjects,
		})
	}
}
