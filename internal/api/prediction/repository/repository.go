package predictionRepository

import (
	"context"
	"database/sql"
	"errors"

	"FishBiomass/internal/entity"
)

const (
	DriverCSV      = "csv"
	DriverPostgres = "postgres"
)

var ErrClosed = errors.New("observation log is closed")

// Repository is the append-only observation log. Implementations must be safe
// for concurrent use and must never leave a partially written record behind.
type Repository interface {
	AppendObservation(ctx context.Context, result entity.PredictionResult) error
	Close() error
}

type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	Rebind(query string) string
}
