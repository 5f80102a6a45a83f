package service

import (
	"context"
	"testing"
	"time"

	"solarmon/internal/models"
)

func TestLatest_WindowAndOrdering(t *testing.T) {
	t.Parallel()

	repo := &fakeReadingRepo{}
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < LatestWindow+10; i++ {
		repo.readings = append(repo.readings, models.Reading{
			ID: "r", EspID: "ESP-1", Timestamp: base.Add(time.Duration(i) * time.Second),
		})
	}
	svc := NewHistoryService(repo)

	got, err := svc.Latest(context.Background(), "")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if len(got) != LatestWindow {
		t.Fatalf("window = %d, want %d", len(got), LatestWindow)
	}
	if !got[0].Timestamp.After(got[len(got)-1].Timestamp) {
		t.Fatal("latest window must be newest first")
	}
}

func TestHistorical_AscendingAll(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	repo := &fakeReadingRepo{readings: []models.Reading{
		{ID: "b", Timestamp: base.Add(time.Minute)},
		{ID: "a", Timestamp: base},
	}}
	svc := NewHistoryService(repo)

	got, err := svc.Historical(context.Background())
	if err != nil {
		t.Fatalf("Historical: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestDeviceIDs_Sorted(t *testing.T) {
	t.Parallel()

	repo := &fakeReadingRepo{readings: []models.Reading{
		{EspID: "ESP-2"}, {EspID: "ESP-1"}, {EspID: "ESP-2"},
	}}
	svc := NewHistoryService(repo)

	ids, err := svc.DeviceIDs(context.Background())
	if err != nil {
		t.Fatalf("DeviceIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != "ESP-1" || ids[1] != "ESP-2" {
		t.Fatalf("unexpected ids: %v", ids)
	}
}
