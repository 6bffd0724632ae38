package recon

import "github.com/shopspring/decimal"

// Wages is the one canonical payroll formula: unitCount * payRate.
// The pay type (Daily/Monthly/Hourly/Weekly) never enters the
// arithmetic; the caller owns keeping unitCount in units consistent
// with the rate. Invalid persisted values (negative count, non-positive
// rate) yield zero instead of failing the aggregation.
func Wages(unitCount, payRate decimal.Decimal) decimal.Decimal {
	if unitCount.Sign() < 0 || !payRate.IsPositive() {
		return decimal.Zero
	}
	return unitCount.Mul(payRate)
}

// AssignmentWages recomputes wages from the assignment's own fields on
// every read; a persisted total is never trusted.
func AssignmentWages(a ManpowerAssignment) decimal.Decimal {
	return Wages(a.UnitCount, a.PayRate)
}

// PayrollRow is one assignment's line in a payroll report.
type PayrollRow struct {
	AssignmentID string          `json:"assignment_id"`
	ManpowerName string          `json:"manpower_name"`
	Designation  string          `json:"designation"`
	PayType      string          `json:"pay_type"`
	PayRate      decimal.Decimal `json:"pay_rate"`
	UnitCount    decimal.Decimal `json:"unit_count"`
	TotalWages   decimal.Decimal `json:"total_wages"`
}

type PayrollReport struct {
	ProjectID   string          `json:"project_id,omitempty"`
	Rows        []PayrollRow    `json:"rows"`
	TotalWages  decimal.Decimal `json:"total_wages"`
	Diagnostics Diagnostics     `json:"diagnostics"`
}

// ComputePayrollReport totals wages for the assignments matching an
// optional project filter and date window. The window tests the
// assignment's from-date, the field the allocation screens order by.
func ComputePayrollReport(assignments []ManpowerAssignment, projectID string, rng Range) PayrollReport {
	rep := PayrollReport{ProjectID: projectID, Rows: []PayrollRow{}}
	ranged := !rng.IsOpen()
	for _, a := range assignments {
		if projectID != "" && !a.Project.Matches(projectID) {
			continue
		}
		if ranged {
			if !a.FromOK {
				rep.Diagnostics.SkippedDates++
				continue
			}
			if !rng.Contains(a.From) {
				continue
			}
		}
		name := a.Manpower.DisplayName(nil, "Manpower")
		if name == UnknownLabel("Manpower") && a.Manpower.Kind != RefAbsent {
			rep.Diagnostics.UnresolvedRefs++
		}
		wages := AssignmentWages(a)
		rep.Rows = append(rep.Rows, PayrollRow{
			AssignmentID: a.ID,
			ManpowerName: name,
			Designation:  a.Designation,
			PayType:      a.PayType,
			PayRate:      a.PayRate,
			UnitCount:    a.UnitCount,
			TotalWages:   wages,
		})
		rep.TotalWages = rep.TotalWages.Add(wages)
	}
	return rep
}
