package scenario

import "testing"

func TestDefaultsWithinRanges(t *testing.T) {
	for _, p := range All() {
		t.Run(string(p.Name), func(t *testing.T) {
			checks := []struct {
				field string
				value int
				r     Range
			}{
				{"temperature", p.Temperature, TemperatureRange},
				{"flu_intensity", p.FluIntensity, FluIntensityRange},
				{"prior_admissions", p.PriorAdmissions, PriorAdmissionsRange},
				{"prior_occupancy", p.PriorOccupancy, PriorOccupancyRange},
				{"available_nurses", p.AvailableNurses, AvailableNursesRange},
				{"mask_stock_days", p.MaskStockDays, MaskStockDaysRange},
			}
			for _, c := range checks {
				if !c.r.Contains(c.value) {
					t.Errorf("Expected %s=%d within [%d,%d]", c.field, c.value, c.r.Min, c.r.Max)
				}
			}
		})
	}
}

func TestDefaultsUnknownFallsBackToNormal(t *testing.T) {
	for _, name := range []string{"", "Canicule", "hiver", "NORMAL"} {
		p := Defaults(name)
		if p.Name != Normal {
			t.Errorf("Expected %q to resolve to Normal, got %s", name, p.Name)
		}
	}
}

func TestDefaultsHiver(t *testing.T) {
	p := Defaults("Hiver")
	if p.Temperature != 0 || p.FluIntensity != 60 || p.PriorAdmissions != 280 {
		t.Errorf("Unexpected Hiver profile: %+v", p)
	}
}

func TestCode(t *testing.T) {
	tests := []struct {
		name     string
		expected int
	}{
		{"Normal", 0},
		{"Hiver", 1},
		{"Épidémie", 2},
		{"Grève", 3},
		{"Afflux Massif", 4},
		{"Unknown", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Code(tt.name); got != tt.expected {
				t.Errorf("Expected code %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestAllOrderedByCode(t *testing.T) {
	all := All()
	if len(all) != 5 {
		t.Fatalf("Expected 5 scenarios, got %d", len(all))
	}
	for i, p := range all {
		if p.Code != i {
			t.Errorf("Expected code %d at position %d, got %d", i, i, p.Code)
		}
	}
}
