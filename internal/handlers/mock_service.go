package handlers

import (
	"context"
	"time"

	"solarmon/internal/models"
	"solarmon/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service mocks (used by the *_test.go files in this package) ----

type mockTelemetry struct {
	reading models.Reading
	command string
	err     error

	calls      int
	lastParams service.IngestParams
}

func (m *mockTelemetry) Ingest(_ context.Context, p service.IngestParams) (models.Reading, string, error) {
	m.calls++
	m.lastParams = p
	return m.reading, m.command, m.err
}

type mockHistory struct {
	latest     []models.Reading
	historical []models.Reading
	ids        []string
	err        error

	latestCalls int
	lastEspID   string
}

func (m *mockHistory) Latest(_ context.Context, espID string) ([]models.Reading, error) {
	m.latestCalls++
	m.lastEspID = espID
	return m.latest, m.err
}

func (m *mockHistory) Historical(_ context.Context) ([]models.Reading, error) {
	return m.historical, m.err
}

func (m *mockHistory) DeviceIDs(_ context.Context) ([]string, error) {
	return m.ids, m.err
}

type mockAggregator struct {
	buckets []models.EnergyBucket
	err     error

	lastStart time.Time
	lastEnd   time.Time
	lastMode  string
	lastEspID string
}

func (m *mockAggregator) Aggregate(_ context.Context, start, end time.Time, mode, espID string) ([]models.EnergyBucket, error) {
	m.lastStart, m.lastEnd, m.lastMode, m.lastEspID = start, end, mode, espID
	return m.buckets, m.err
}

type mockLiveness struct {
	active bool
}

func (m *mockLiveness) Touch(string)                           {}
func (m *mockLiveness) IsActive(string, time.Duration) bool    { return m.active }
func (m *mockLiveness) AnyActive(threshold time.Duration) bool { return m.active }

type mockCommands struct {
	prepareErr error
	resetErr   error

	lastPrepareID  string
	lastPrepareURL string
	lastResetID    string
}

func (m *mockCommands) Prepare(espID, firmwareURL string) error {
	m.lastPrepareID, m.lastPrepareURL = espID, firmwareURL
	return m.prepareErr
}

func (m *mockCommands) QueueReset(espID string) error {
	m.lastResetID = espID
	return m.resetErr
}

func (m *mockCommands) Consume(string) (string, bool) { return "", false }

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, "firmware")
	return h.InitRoutes()
}
