package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"solarmon/internal/models"

	"github.com/google/uuid"
)

type ReadingSQLite struct {
	db *sql.DB
}

func NewReadingSQLite(db *sql.DB) *ReadingSQLite { return &ReadingSQLite{db: db} }

// SQLite TIMESTAMP format
const timestampLayout = "2006-01-02 15:04:05"

// every store call gets a bounded deadline so a wedged database surfaces
// as an error instead of hanging the request
const queryTimeout = 5 * time.Second

const insertReadingSQL = `
		INSERT INTO readings (id, voltage, current, power, esp_id, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

const selectReadingCols = `SELECT id, voltage, current, power, esp_id, recorded_at FROM readings`

// Insert persists one sample. Missing ID and Timestamp are assigned here so
// callers can pass a bare sample straight from the wire.
func (r *ReadingSQLite) Insert(ctx context.Context, rd models.Reading) (models.Reading, error) {
	if rd.ID == "" {
		rd.ID = uuid.NewString()
	}
	if rd.Timestamp.IsZero() {
		rd.Timestamp = time.Now().UTC()
	} else {
		rd.Timestamp = rd.Timestamp.UTC()
	}
	// second precision is what the TIMESTAMP column stores; keep the
	// returned struct consistent with what a later query would yield
	rd.Timestamp = rd.Timestamp.Truncate(time.Second)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, insertReadingSQL,
		rd.ID,
		rd.Voltage,
		rd.Current,
		rd.Power,
		rd.EspID,
		rd.Timestamp.Format(timestampLayout),
	)
	if err != nil {
		return models.Reading{}, err
	}
	return rd, nil
}

// Latest returns up to limit readings, newest first, optionally filtered to
// one device. rowid breaks ties between samples in the same second.
func (r *ReadingSQLite) Latest(ctx context.Context, limit int, espID string) ([]models.Reading, error) {
	q := selectReadingCols
	args := []any{}
	if espID != "" {
		q += " WHERE esp_id = ?"
		args = append(args, espID)
	}
	q += " ORDER BY recorded_at DESC, rowid DESC LIMIT ?"
	args = append(args, limit)

	return r.queryReadings(ctx, q, args...)
}

// Range returns readings with start <= recorded_at <= end (closed interval),
// ascending, optionally filtered to one device.
func (r *ReadingSQLite) Range(ctx context.Context, start, end time.Time, espID string) ([]models.Reading, error) {
	// bind the bounds in the exact text shape Insert stores; a raw
	// time.Time serializes differently and breaks the closed interval
	conds := []string{"recorded_at >= ?", "recorded_at <= ?"}
	args := []any{
		start.UTC().Format(timestampLayout),
		end.UTC().Format(timestampLayout),
	}
	if espID != "" {
		conds = append(conds, "esp_id = ?")
		args = append(args, espID)
	}

	q := selectReadingCols + " WHERE " + strings.Join(conds, " AND ") +
		" ORDER BY recorded_at ASC, rowid ASC"
	return r.queryReadings(ctx, q, args...)
}

// All returns every stored reading ascending by time.
func (r *ReadingSQLite) All(ctx context.Context) ([]models.Reading, error) {
	return r.queryReadings(ctx, selectReadingCols+" ORDER BY recorded_at ASC, rowid ASC")
}

// DeviceIDs returns every distinct device identifier ever seen, ascending.
func (r *ReadingSQLite) DeviceIDs(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT esp_id FROM readings WHERE esp_id != '' ORDER BY esp_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0, 8)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *ReadingSQLite) queryReadings(ctx context.Context, q string, args ...any) ([]models.Reading, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Reading, 0, 64)
	for rows.Next() {
		var rd models.Reading
		if err := rows.Scan(&rd.ID, &rd.Voltage, &rd.Current, &rd.Power, &rd.EspID, &rd.Timestamp); err != nil {
			return nil, err
		}
		rd.Timestamp = rd.Timestamp.UTC()
		out = append(out, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
