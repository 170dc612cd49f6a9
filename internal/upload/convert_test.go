package upload

import (
	"bytes"
	"testing"
	"time"

	"github.com/tormoder/fit"
)

// TestSamplesFromRecords verifies that only records with a usable heart rate
// become samples and that timestamps are written as RFC 3339 UTC.
func TestSamplesFromRecords(t *testing.T) {
	base := time.Date(2026, 3, 10, 17, 0, 0, 0, time.FixedZone("CET", 3600))
	records := []*fit.RecordMsg{
		{Timestamp: base, HeartRate: 120},
		{Timestamp: base.Add(time.Second), HeartRate: invalidHeartRate},
		nil,
		{Timestamp: base.Add(2 * time.Second), HeartRate: 0},
		{Timestamp: base.Add(3 * time.Second), HeartRate: 150},
		{HeartRate: 140},
		{Timestamp: base.Add(time.Second), HeartRate: 130}, // steps backwards
		{Timestamp: base.Add(10 * time.Second), HeartRate: 171},
	}

	got := samplesFromRecords(records)
	if len(got) != 3 {
		t.Fatalf("got %d samples, want 3: %+v", len(got), got)
	}
	if got[0].Timestamp != "2026-03-10T16:00:00Z" || got[0].HeartRate != 120 {
		t.Errorf("first sample = %+v", got[0])
	}
	if got[1].HeartRate != 150 || got[2].HeartRate != 171 {
		t.Errorf("samples = %+v", got)
	}
}

func TestActivityFromFIT(t *testing.T) {
	base := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)
	a := &fit.ActivityFile{
		Sessions: []*fit.SessionMsg{{Sport: fit.SportRunning}},
		Records: []*fit.RecordMsg{
			{Timestamp: base, HeartRate: 110},
			{Timestamp: base.Add(90 * time.Second), HeartRate: 160},
		},
	}

	got := activityFromFIT(a)
	if got.Sport != fit.SportRunning.String() {
		t.Errorf("sport = %q", got.Sport)
	}
	if !got.Start.Equal(base) {
		t.Errorf("start = %v, want %v", got.Start, base)
	}
	if got.DurationSeconds != 90 {
		t.Errorf("duration = %d, want 90", got.DurationSeconds)
	}
	if len(got.Samples) != 2 {
		t.Errorf("samples = %d, want 2", len(got.Samples))
	}
}

// TestActivityFromFITEmpty verifies an activity without heart-rate records
// yields no samples and no duration.
func TestActivityFromFITEmpty(t *testing.T) {
	got := activityFromFIT(&fit.ActivityFile{})
	if len(got.Samples) != 0 || got.DurationSeconds != 0 || got.Sport != "" {
		t.Errorf("activity = %+v", got)
	}
}

func TestDecodeFITRejectsGarbage(t *testing.T) {
	if _, err := DecodeFIT(bytes.NewReader([]byte("not a fit file"))); err == nil {
		t.Error("expected decode error")
	}
}
