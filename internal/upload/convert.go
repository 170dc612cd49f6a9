package upload

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tormoder/fit"

	"github.com/meltforce/pulsefit/internal/models"
)

// invalidHeartRate is the FIT sentinel for an unset uint8 field.
const invalidHeartRate = 0xFF

// Activity is the part of a FIT activity file that PulseFit scores.
type Activity struct {
	Sport           string
	Start           time.Time
	DurationSeconds int
	Samples         []models.HeartRateSample
}

// DecodeFITFile reads and decodes the FIT activity at path.
func DecodeFITFile(path string) (*Activity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return DecodeFIT(bytes.NewReader(data))
}

// DecodeFIT decodes a FIT stream. Files that are not activities are rejected.
func DecodeFIT(r io.Reader) (*Activity, error) {
	file, err := fit.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding fit: %w", err)
	}
	activity, err := file.Activity()
	if err != nil {
		return nil, fmt.Errorf("fit activity: %w", err)
	}
	return activityFromFIT(activity), nil
}

func activityFromFIT(a *fit.ActivityFile) *Activity {
	out := &Activity{Samples: samplesFromRecords(a.Records)}
	if len(a.Sessions) > 0 && a.Sessions[0] != nil {
		out.Sport = a.Sessions[0].Sport.String()
	}
	if n := len(out.Samples); n > 0 {
		first, _ := out.Samples[0].Time()
		last, _ := out.Samples[n-1].Time()
		out.Start = first
		out.DurationSeconds = int(last.Sub(first).Seconds())
	}
	return out
}

// samplesFromRecords keeps records that carry a heart rate, in time order.
// Records without a timestamp, or that step backwards in time, are dropped.
func samplesFromRecords(records []*fit.RecordMsg) []models.HeartRateSample {
	var (
		out  []models.HeartRateSample
		prev time.Time
	)
	for _, rec := range records {
		if rec == nil || rec.Timestamp.IsZero() {
			continue
		}
		if rec.HeartRate == 0 || rec.HeartRate == invalidHeartRate {
			continue
		}
		ts := rec.Timestamp.UTC()
		if !prev.IsZero() && ts.Before(prev) {
			continue
		}
		prev = ts
		out = append(out, models.HeartRateSample{
			Timestamp: ts.Format(time.RFC3339),
			HeartRate: int(rec.HeartRate),
		})
	}
	return out
}
