package service

import (
	"context"
	"errors"
	"time"

	"solarmon/internal/models"
	"solarmon/internal/repository"
)

// Validation errors surfaced to the HTTP layer as 400s. Anything else
// coming out of a service is treated as a persistence failure (500).
var (
	ErrMissingDevice   = errors.New("espId is required")
	ErrMissingFirmware = errors.New("espId and firmwareUrl required")
	ErrInvalidRange    = errors.New("end must not be before start")
)

// IngestParams carries one sample as reported by a device.
type IngestParams struct {
	Voltage float64
	Current float64
	Power   float64
	EspID   string
}

// Telemetry handles the device-facing write path: validate, persist,
// mark the device live, and hand back any command queued for it.
type Telemetry interface {
	Ingest(ctx context.Context, p IngestParams) (models.Reading, string, error)
}

// History exposes read-only access to stored readings.
type History interface {
	Latest(ctx context.Context, espID string) ([]models.Reading, error)
	Historical(ctx context.Context) ([]models.Reading, error)
	DeviceIDs(ctx context.Context) ([]string, error)
}

// Aggregator groups readings into calendar buckets and integrates power
// into energy.
type Aggregator interface {
	Aggregate(ctx context.Context, start, end time.Time, mode, espID string) ([]models.EnergyBucket, error)
}

// Liveness answers whether a device has reported recently. Advisory only;
// state is in-process and lost on restart.
type Liveness interface {
	Touch(espID string)
	IsActive(espID string, threshold time.Duration) bool
	AnyActive(threshold time.Duration) bool
}

// Commands queues at most one pending instruction per device, consumed on
// that device's next check-in.
type Commands interface {
	Prepare(espID, firmwareURL string) error
	QueueReset(espID string) error
	Consume(espID string) (string, bool)
}

// Service aggregates all sub-services.
type Service struct {
	Telemetry
	History
	Aggregator
	Liveness
	Commands
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository) *Service {
	liveness := NewLivenessTracker()
	commands := NewCommandQueue()
	return &Service{
		Telemetry:  NewTelemetryService(repos.Readings, liveness, commands),
		History:    NewHistoryService(repos.Readings),
		Aggregator: NewAggregatorService(repos.Readings),
		Liveness:   liveness,
		Commands:   commands,
	}
}
