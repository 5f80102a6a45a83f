package service

import (
	"context"
	"math"
	"sort"
	"time"

	"solarmon/internal/models"
	"solarmon/internal/repository"
)

// Energy integration assumes a fixed 5-second gap between samples, so each
// reading contributes power * 5/3600 Wh to its bucket. This matches the
// firmware's report rate; it is an approximation, not a measured integral
// over actual inter-sample gaps.
const sampleIntervalSeconds = 5.0

// Aggregation modes accepted on the range query. Weekly and monthly both
// collapse to daily buckets; anything else buckets hourly.
const (
	ModeHourly  = "hourly"
	ModeDaily   = "daily"
	ModeWeekly  = "weekly"
	ModeMonthly = "monthly"
)

type AggregatorService struct {
	readings repository.ReadingRepo
}

func NewAggregatorService(readings repository.ReadingRepo) *AggregatorService {
	return &AggregatorService{readings: readings}
}

// Aggregate groups readings in [start, end] into calendar buckets (UTC) and
// integrates power into watt-hours per bucket. Buckets are reported at the
// earliest constituent timestamp, ascending, energy rounded to 2 decimals.
// An empty range yields an empty slice.
func (s *AggregatorService) Aggregate(ctx context.Context, start, end time.Time, mode, espID string) ([]models.EnergyBucket, error) {
	if end.Before(start) {
		return nil, ErrInvalidRange
	}

	readings, err := s.readings.Range(ctx, start.UTC(), end.UTC(), normalizeEspID(espID))
	if err != nil {
		return nil, err
	}

	daily := isDailyOrCoarser(mode)

	type acc struct {
		energy   float64
		earliest time.Time
	}
	groups := make(map[time.Time]*acc)

	for _, rd := range readings {
		key := bucketKey(rd.Timestamp, daily)
		g, ok := groups[key]
		if !ok {
			g = &acc{earliest: rd.Timestamp}
			groups[key] = g
		}
		g.energy += rd.Power * sampleIntervalSeconds / 3600.0
		if rd.Timestamp.Before(g.earliest) {
			g.earliest = rd.Timestamp
		}
	}

	buckets := make([]models.EnergyBucket, 0, len(groups))
	for _, g := range groups {
		buckets = append(buckets, models.EnergyBucket{
			Time:   g.earliest,
			Energy: round2(g.energy),
		})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Time.Before(buckets[j].Time)
	})
	return buckets, nil
}

func isDailyOrCoarser(mode string) bool {
	switch mode {
	case ModeDaily, ModeWeekly, ModeMonthly:
		return true
	default:
		return false
	}
}

// bucketKey truncates t to the UTC calendar hour or day.
func bucketKey(t time.Time, daily bool) time.Time {
	t = t.UTC()
	if daily {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, time.UTC)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
