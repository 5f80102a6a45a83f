package service

import (
	"context"
	"sort"
	"time"

	"solarmon/internal/models"
)

// fakeReadingRepo is an in-memory ReadingRepo for service tests.
type fakeReadingRepo struct {
	readings []models.Reading
	err      error

	lastRangeStart time.Time
	lastRangeEnd   time.Time
	lastRangeEspID string
}

func (f *fakeReadingRepo) Insert(_ context.Context, r models.Reading) (models.Reading, error) {
	if f.err != nil {
		return models.Reading{}, f.err
	}
	if r.ID == "" {
		r.ID = "generated"
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC().Truncate(time.Second)
	}
	f.readings = append(f.readings, r)
	return r, nil
}

func (f *fakeReadingRepo) Latest(_ context.Context, limit int, espID string) ([]models.Reading, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := f.filtered(espID)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeReadingRepo) Range(_ context.Context, start, end time.Time, espID string) ([]models.Reading, error) {
	f.lastRangeStart, f.lastRangeEnd, f.lastRangeEspID = start, end, espID
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Reading, 0, len(f.readings))
	for _, r := range f.filtered(espID) {
		if r.Timestamp.Before(start) || r.Timestamp.After(end) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (f *fakeReadingRepo) All(_ context.Context) ([]models.Reading, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := append([]models.Reading(nil), f.readings...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (f *fakeReadingRepo) DeviceIDs(_ context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	seen := map[string]bool{}
	ids := []string{}
	for _, r := range f.readings {
		if r.EspID != "" && !seen[r.EspID] {
			seen[r.EspID] = true
			ids = append(ids, r.EspID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *fakeReadingRepo) filtered(espID string) []models.Reading {
	if espID == "" {
		return append([]models.Reading(nil), f.readings...)
	}
	out := []models.Reading{}
	for _, r := range f.readings {
		if r.EspID == espID {
			out = append(out, r)
		}
	}
	return out
}
