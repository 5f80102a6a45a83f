package repository

import (
	"context"
	"database/sql"
	"time"

	"solarmon/internal/models"
)

// ReadingRepo is the durable store of sensor samples. Readings are
// append-only: inserted once, never updated or deleted.
type ReadingRepo interface {
	Insert(ctx context.Context, r models.Reading) (models.Reading, error)
	Latest(ctx context.Context, limit int, espID string) ([]models.Reading, error)
	Range(ctx context.Context, start, end time.Time, espID string) ([]models.Reading, error)
	All(ctx context.Context) ([]models.Reading, error)
	DeviceIDs(ctx context.Context) ([]string, error)
}

type Repository struct {
	Readings ReadingRepo
}

func NewRepository(conn *sql.DB) *Repository {
	return &Repository{
		Readings: NewReadingSQLite(conn),
	}
}
