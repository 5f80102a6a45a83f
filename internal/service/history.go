package service

import (
	"context"

	"solarmon/internal/models"
	"solarmon/internal/repository"
)

// LatestWindow is how many recent readings the latest-data endpoint and
// the live broadcast push per update.
const LatestWindow = 50

type HistoryService struct {
	readings repository.ReadingRepo
}

func NewHistoryService(readings repository.ReadingRepo) *HistoryService {
	return &HistoryService{readings: readings}
}

// Latest returns the most recent readings, newest first, optionally
// filtered to one device.
func (s *HistoryService) Latest(ctx context.Context, espID string) ([]models.Reading, error) {
	return s.readings.Latest(ctx, LatestWindow, normalizeEspID(espID))
}

// Historical returns every stored reading ascending by time.
func (s *HistoryService) Historical(ctx context.Context) ([]models.Reading, error) {
	return s.readings.All(ctx)
}

// DeviceIDs returns every device identifier ever seen, sorted ascending.
func (s *HistoryService) DeviceIDs(ctx context.Context) ([]string, error) {
	return s.readings.DeviceIDs(ctx)
}
