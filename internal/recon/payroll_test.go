package recon

import "testing"

func TestWages(t *testing.T) {
	tests := []struct {
		name      string
		units     string
		rate      string
		want      string
	}{
		{"fifteen days at 800", "15", "800", "12000"},
		{"zero units", "0", "800", "0"},
		{"negative units", "-3", "800", "0"},
		{"zero rate", "10", "0", "0"},
		{"negative rate", "10", "-5", "0"},
		{"fractional units", "7.5", "100", "750"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wages(dec(tt.units), dec(tt.rate))
			if !got.Equal(dec(tt.want)) {
				t.Errorf("Wages(%s, %s) = %s, want %s", tt.units, tt.rate, got, tt.want)
			}
		})
	}
}

func TestWagesIdempotent(t *testing.T) {
	a := ManpowerAssignment{ID: "m1", UnitCount: dec("15"), PayRate: dec("800")}
	first := AssignmentWages(a)
	second := AssignmentWages(a)
	if !first.Equal(second) {
		t.Error("recomputing wages must not accumulate state")
	}
}

func TestComputePayrollReport(t *testing.T) {
	p1 := Reference{Kind: RefID, ID: "p1"}
	from, _ := DateOf("2024-04-01")
	assignments := []ManpowerAssignment{
		{ID: "a1", Project: p1, PayType: "Daily", UnitCount: dec("15"), PayRate: dec("800"), From: from, FromOK: true},
		{ID: "a2", Project: p1, PayType: "Hourly", UnitCount: dec("0"), PayRate: dec("200"), From: from, FromOK: true},
		{ID: "a3", Project: Reference{Kind: RefID, ID: "p2"}, UnitCount: dec("5"), PayRate: dec("100"), From: from, FromOK: true},
		// persisted junk: negative rate must not fail the report
		{ID: "a4", Project: p1, UnitCount: dec("3"), PayRate: dec("-10"), From: from, FromOK: true},
	}

	rep := ComputePayrollReport(assignments, "p1", Range{})

	if len(rep.Rows) != 3 {
		t.Fatalf("rows = %d, want 3 (p2 filtered out)", len(rep.Rows))
	}
	if !rep.TotalWages.Equal(dec("12000")) {
		t.Errorf("total = %s, want 12000", rep.TotalWages)
	}
	if !rep.Rows[1].TotalWages.IsZero() {
		t.Error("zero units yields zero wages")
	}
	if !rep.Rows[2].TotalWages.IsZero() {
		t.Error("invalid rate yields zero wages, not an error")
	}
}

func TestComputePayrollReportDateWindow(t *testing.T) {
	in, _ := DateOf("2024-03-15")
	out, _ := DateOf("2024-06-15")
	assignments := []ManpowerAssignment{
		{ID: "a1", UnitCount: dec("1"), PayRate: dec("100"), From: in, FromOK: true},
		{ID: "a2", UnitCount: dec("1"), PayRate: dec("100"), From: out, FromOK: true},
		{ID: "a3", UnitCount: dec("1"), PayRate: dec("100")}, // no date
	}
	rep := ComputePayrollReport(assignments, "", ParseRange("2024-03-01", "2024-03-31"))
	if !rep.TotalWages.Equal(dec("100")) {
		t.Errorf("total = %s, want 100", rep.TotalWages)
	}
	if rep.Diagnostics.SkippedDates != 1 {
		t.Errorf("skipped = %d, want 1", rep.Diagnostics.SkippedDates)
	}
}
