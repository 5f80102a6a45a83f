package service

import (
	"context"

	"solarmon/internal/models"
	"solarmon/internal/repository"
)

type TelemetryService struct {
	readings repository.ReadingRepo
	liveness Liveness
	commands Commands
}

func NewTelemetryService(readings repository.ReadingRepo, liveness Liveness, commands Commands) *TelemetryService {
	return &TelemetryService{readings: readings, liveness: liveness, commands: commands}
}

// Ingest validates and persists one sample, marks the device live, and
// consumes any command pending for it. The returned command string is
// empty when nothing was queued.
func (s *TelemetryService) Ingest(ctx context.Context, p IngestParams) (models.Reading, string, error) {
	espID := normalizeEspID(p.EspID)
	if espID == "" {
		return models.Reading{}, "", ErrMissingDevice
	}

	stored, err := s.readings.Insert(ctx, models.Reading{
		Voltage: p.Voltage,
		Current: p.Current,
		Power:   p.Power,
		EspID:   espID,
	})
	if err != nil {
		return models.Reading{}, "", err
	}

	s.liveness.Touch(espID)

	cmd, _ := s.commands.Consume(espID)
	return stored, cmd, nil
}
