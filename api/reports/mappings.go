package reports

import (
	"net/http"

	"SiteLedger/api"
	"SiteLedger/api/constants"
	"SiteLedger/internal/datasource"
	"SiteLedger/internal/recon"
)

type mappingRow struct {
	Mapping      recon.MaterialMapping `json:"mapping"`
	MaterialName string                `json:"material_name"`
	Derived      recon.MappingDerived  `json:"derived"`
}

// GetMaterialMappings lists material mappings with their derived cost
// and balance figures recomputed per row. Filters are applied locally
// as well as passed upstream, since older backend versions ignore the
// query parameters.
// Request JSON: { "project_id":"", "material_id":"", "from_date":"", "to_date":"" }
func GetMaterialMappings(client *datasource.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ProjectID  string `json:"project_id,omitempty"`
			MaterialID string `json:"material_id,omitempty"`
			FromDate   string `json:"from_date,omitempty"`
			ToDate     string `json:"to_date,omitempty"`
		}
		if !api.DecodeJSONBody(w, r, &req) {
			return
		}

		ctx := r.Context()
		mappings, err := client.MaterialMappings(ctx, req.ProjectID, req.MaterialID, req.FromDate, req.ToDate)
		if err != nil {
			api.RespondWithError(w, http.StatusBadGateway, constants.ErrBackendFetch+": "+err.Error())
			return
		}
		materials, err := client.Materials(ctx)
		if err != nil {
			api.RespondWithError(w, http.StatusBadGateway, constants.ErrBackendFetch+": "+err.Error())
			return
		}
		idx := recon.NewMaterialIndex(materials)

		rng := recon.ParseRange(req.FromDate, req.ToDate)
		filtered, diag := recon.FilterMappings(mappings, req.ProjectID, req.MaterialID, rng)

		rows := make([]mappingRow, 0, len(filtered))
		for _, m := range filtered {
			name := m.Material.DisplayName(idx.NameLookup, "Material")
			if !m.Material.Resolved(idx.NameLookup) && m.Material.Kind != recon.RefAbsent {
				diag.UnresolvedRefs++
			}
			rows = append(rows, mappingRow{
				Mapping:      m,
				MaterialName: name,
				Derived:      recon.ComputeMappingDerived(m),
			})
		}

		api.RespondWithPayload(w, map[string]interface{}{
			"rows":        rows,
			"diagnostics": diag,
		})
	}
}
