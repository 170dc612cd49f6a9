package engine

import "testing"

// TestClassifyBoundaries checks each zone edge with a max HR of 100 so the
// heart rate equals the percentage.
func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		hr   int
		want int
	}{
		{0, 0},
		{49, 0},
		{50, 1},
		{59, 1},
		{60, 2},
		{69, 2},
		{70, 3},
		{83, 3},
		{84, 4},
		{91, 4},
		{92, 5},
		{100, 5},
		{130, 5},
	}
	for _, tt := range tests {
		if got := Classify(tt.hr, 100); got != tt.want {
			t.Errorf("Classify(%d, 100) = %d, want %d", tt.hr, got, tt.want)
		}
	}
}

// TestClassifyDegenerateMaxHR verifies that a non-positive max HR falls back
// to zone 0 instead of dividing by zero.
func TestClassifyDegenerateMaxHR(t *testing.T) {
	for _, maxHR := range []int{0, -1, -190} {
		if got := Classify(180, maxHR); got != 0 {
			t.Errorf("Classify(180, %d) = %d, want 0", maxHR, got)
		}
	}
}

// TestClassifyMonotonic sweeps heart rates and checks that the zone never
// decreases as intensity rises.
func TestClassifyMonotonic(t *testing.T) {
	for _, maxHR := range []int{150, 187, 190, 203} {
		prev := 0
		for hr := 0; hr <= 250; hr++ {
			z := Classify(hr, maxHR)
			if z < prev {
				t.Fatalf("maxHR %d: Classify(%d) = %d after zone %d", maxHR, hr, z, prev)
			}
			prev = z
		}
	}
}

// TestZoneTable checks that the table is contiguous and that point rates
// never decrease, with zones 0 and 1 worth nothing.
func TestZoneTable(t *testing.T) {
	for i, z := range Zones {
		if z.ID != i {
			t.Errorf("Zones[%d].ID = %d", i, z.ID)
		}
		if i > 0 {
			if z.MinPct != Zones[i-1].MaxPct {
				t.Errorf("zone %d starts at %.0f, previous ends at %.0f", i, z.MinPct, Zones[i-1].MaxPct)
			}
			if z.PointsPerMin < Zones[i-1].PointsPerMin {
				t.Errorf("zone %d rate %d below zone %d rate %d", i, z.PointsPerMin, i-1, Zones[i-1].PointsPerMin)
			}
		}
	}
	if Zones[0].PointsPerMin != 0 || Zones[1].PointsPerMin != 0 {
		t.Error("zones 0 and 1 must award zero points")
	}
	if _, ok := ZoneFor(6); ok {
		t.Error("ZoneFor(6) should not exist")
	}
}
