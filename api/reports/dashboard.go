// Package reports exposes the reconciliation core over the gateway.
// Every handler fetches immutable snapshots of the collections it
// needs, runs the pure aggregation, and returns the result; no state
// survives between requests except the scheduled dashboard snapshot.
package reports

import (
	"net/http"

	"SiteLedger/api"
	"SiteLedger/api/constants"
	"SiteLedger/internal/datasource"
	"SiteLedger/internal/jobs"
	"SiteLedger/internal/recon"
)

// GetDashboardStats serves the cross-project landing figures.
// Request JSON: { "cached": true } serves the last scheduled snapshot;
// otherwise the collections are refetched and fused live.
func GetDashboardStats(client *datasource.Client, store *jobs.SnapshotStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Cached bool `json:"cached,omitempty"`
		}
		if !api.DecodeJSONBody(w, r, &req) {
			return
		}

		if req.Cached {
			snap := store.Latest()
			if snap == nil {
				api.RespondWithError(w, http.StatusServiceUnavailable, constants.ErrSnapshotNotReady)
				return
			}
			api.RespondWithPayload(w, snap)
			return
		}

		ctx := r.Context()
		projects, err := client.Projects(ctx)
		if err != nil {
			api.RespondWithError(w, http.StatusBadGateway, constants.ErrBackendFetch+": "+err.Error())
			return
		}
		ids := make([]string, len(projects))
		for i, p := range projects {
			ids[i] = p.ID
		}
		summaries, _ := client.FetchProjectSummaries(ctx, ids)
		invoices, err := client.Invoices(ctx)
		if err != nil {
			// revenue degrades, the dashboard still answers
			invoices = nil
		}

		stats := recon.AggregateDashboardStats(projects, summaries, invoices)
		api.RespondWithPayload(w, stats)
	}
}
