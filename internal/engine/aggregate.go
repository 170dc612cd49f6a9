package engine

import "github.com/meltforce/pulsefit/internal/models"

// Session is the aggregate of one ordered sample sequence.
type Session struct {
	ZoneSeconds [6]int
	Zones       []models.ZoneSummary // zones 1..5, in order
	TotalPoints int
	AvgHR       int
	PeakHR      int
}

// AttributedSeconds is the total duration credited across all zones.
func (s Session) AttributedSeconds() int {
	total := 0
	for _, sec := range s.ZoneSeconds {
		total += sec
	}
	return total
}

// sampleDuration is the whole seconds between a sample and the next one,
// at least 1. The last sample, or any pair whose timestamps fail to parse,
// counts as 1 second.
func sampleDuration(samples []models.HeartRateSample, i int) int {
	if i >= len(samples)-1 {
		return 1
	}
	t1, err := samples[i].Time()
	if err != nil {
		return 1
	}
	t2, err := samples[i+1].Time()
	if err != nil {
		return 1
	}
	return max(1, int(t2.Sub(t1).Seconds()))
}

// Aggregate attributes each sample's duration to its zone and converts zone
// time to burn points. Points are earned per whole minute: 89 seconds in a
// zone is worth the same as 60, and under 60 seconds earns nothing.
// Samples must already be sorted by timestamp.
func Aggregate(samples []models.HeartRateSample, maxHR int) Session {
	var s Session
	totalHR := 0

	for i, sample := range samples {
		totalHR += sample.HeartRate
		s.PeakHR = max(s.PeakHR, sample.HeartRate)
		s.ZoneSeconds[Classify(sample.HeartRate, maxHR)] += sampleDuration(samples, i)
	}

	s.Zones = make([]models.ZoneSummary, 0, len(Zones)-1)
	for _, z := range Zones[1:] {
		minutes := s.ZoneSeconds[z.ID] / 60
		points := minutes * z.PointsPerMin
		s.TotalPoints += points
		s.Zones = append(s.Zones, models.ZoneSummary{
			Zone:            z.ID,
			Name:            z.Name,
			DurationSeconds: s.ZoneSeconds[z.ID],
			BurnPoints:      points,
			Color:           z.Color,
		})
	}

	if len(samples) > 0 {
		s.AvgHR = totalHR / len(samples)
	}
	return s
}
