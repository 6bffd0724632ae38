package recon

import "github.com/shopspring/decimal"

// MappingDerived carries the per-mapping derived figures, recomputed
// on every read since the upstream record may have been edited after
// any cached total was written.
type MappingDerived struct {
	MappingID       string           `json:"mapping_id"`
	TotalCost       decimal.Decimal  `json:"total_cost"`
	BalanceQuantity decimal.Decimal  `json:"balance_quantity"`
	Violations      []RangeViolation `json:"violations,omitempty"`
}

// ComputeMappingDerived derives totalCost = used*price and
// balanceQuantity = issued-used. A negative balance or used above
// issued is corrupted source data: it is reported as a violation,
// never clamped or hidden.
func ComputeMappingDerived(m MaterialMapping) MappingDerived {
	d := MappingDerived{
		MappingID:       m.ID,
		TotalCost:       m.QuantityUsed.Mul(m.UnitPrice),
		BalanceQuantity: m.QuantityIssued.Sub(m.QuantityUsed),
	}
	if m.QuantityUsed.GreaterThan(m.QuantityIssued) {
		d.Violations = append(d.Violations, RangeViolation{
			RecordID: m.ID,
			Field:    "quantityUsed",
			Value:    m.QuantityUsed,
			Detail:   "quantity used exceeds quantity issued",
		})
	}
	if d.BalanceQuantity.Sign() < 0 {
		d.Violations = append(d.Violations, RangeViolation{
			RecordID: m.ID,
			Field:    "balanceQuantity",
			Value:    d.BalanceQuantity,
			Detail:   "balance quantity below zero",
		})
	}
	return d
}

// StockFilters narrows the stock report. Zero values leave that
// dimension unfiltered.
type StockFilters struct {
	MaterialID string
	ProjectID  string
	Range      Range
}

type StockRow struct {
	MaterialID   string          `json:"material_id"`
	MaterialName string          `json:"material_name"`
	Unit         string          `json:"unit"`
	StockIn      decimal.Decimal `json:"stock_in"`
	StockOut     decimal.Decimal `json:"stock_out"`
	Remaining    decimal.Decimal `json:"remaining"`
	Status       string          `json:"status"`
}

type StockReport struct {
	Rows           []StockRow      `json:"rows"`
	TotalStockIn   decimal.Decimal `json:"total_stock_in"`
	TotalStockOut  decimal.Decimal `json:"total_stock_out"`
	RemainingStock decimal.Decimal `json:"remaining_stock"`
	Diagnostics    Diagnostics     `json:"diagnostics"`
}

// ComputeStockReport reconciles purchased quantity (stock-in) against
// the MaterialUsage consumption stream (stock-out) per material.
//
// Usage rows whose material is not in the filtered material set are
// excluded from BOTH totals and counted in Diagnostics.IgnoredUsage:
// stock totals must stay additive over the listed rows, so an unknown
// material cannot contribute to stock-out without a stock-in row. This
// is deliberately different from the Unknown-label join policy used in
// detail tables.
func ComputeStockReport(materials []MaterialRecord, usages []MaterialUsage, f StockFilters) StockReport {
	rep := StockReport{Rows: []StockRow{}}

	included := make([]MaterialRecord, 0, len(materials))
	for _, m := range materials {
		if f.MaterialID != "" && m.ID != f.MaterialID {
			continue
		}
		included = append(included, m)
	}
	idx := NewMaterialIndex(included)

	stockOut := make(map[string]decimal.Decimal, len(included))
	ranged := !f.Range.IsOpen()
	for _, u := range usages {
		if f.ProjectID != "" && !u.Project.Matches(f.ProjectID) {
			continue
		}
		if ranged {
			if !u.FromOK {
				rep.Diagnostics.SkippedDates++
				continue
			}
			if !f.Range.Contains(u.From) {
				continue
			}
		}
		if _, ok := idx[u.Material.ID]; !ok {
			rep.Diagnostics.IgnoredUsage++
			continue
		}
		stockOut[u.Material.ID] = stockOut[u.Material.ID].Add(u.QuantityUsed)
	}

	for _, m := range included {
		out := stockOut[m.ID]
		remaining := m.AvailableQuantity.Sub(out)
		if remaining.Sign() < 0 {
			rep.Diagnostics.RangeViolations = append(rep.Diagnostics.RangeViolations, RangeViolation{
				RecordID: m.ID,
				Field:    "remaining",
				Value:    remaining,
				Detail:   "stock-out exceeds available quantity",
			})
		}
		rep.Rows = append(rep.Rows, StockRow{
			MaterialID:   m.ID,
			MaterialName: m.Name,
			Unit:         m.Unit,
			StockIn:      m.AvailableQuantity,
			StockOut:     out,
			Remaining:    remaining,
			Status:       m.Status,
		})
		rep.TotalStockIn = rep.TotalStockIn.Add(m.AvailableQuantity)
		rep.TotalStockOut = rep.TotalStockOut.Add(out)
	}
	rep.RemainingStock = rep.TotalStockIn.Sub(rep.TotalStockOut)
	return rep
}

// FilterMappings applies optional project/material/date filters to a
// mapping list, the shape the mapping listing endpoint accepts.
func FilterMappings(mappings []MaterialMapping, projectID, materialID string, rng Range) ([]MaterialMapping, Diagnostics) {
	var diag Diagnostics
	out := make([]MaterialMapping, 0, len(mappings))
	ranged := !rng.IsOpen()
	for _, m := range mappings {
		if projectID != "" && !m.Project.Matches(projectID) {
			continue
		}
		if materialID != "" && !m.Material.Matches(materialID) {
			continue
		}
		if ranged {
			if !m.DateOK {
				diag.SkippedDates++
				continue
			}
			if !rng.Contains(m.Date) {
				continue
			}
		}
		out = append(out, m)
	}
	return out, diag
}
