package predictionRepository

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"FishBiomass/internal/entity"
	contextPkg "FishBiomass/pkg/context"
	"github.com/sirupsen/logrus"
)

// Header is the first row of every observation log file.
var Header = []string{"timestamp", "source", "tank_id", "predicted_weight_g", "quantity", "biomass_kg"}

type csvRepository struct {
	mu   sync.Mutex
	file *os.File
	path string
	log  *logrus.Logger
}

// NewCSV opens path for appending, creating it and its directory when missing.
// The header is written only when the file is empty.
func NewCSV(path string, log *logrus.Logger) (Repository, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open observation log: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat observation log: %w", err)
	}

	if info.Size() == 0 {
		line, err := encodeRecord(Header)
		if err != nil {
			f.Close()
			return nil, err
		}
		if _, err := f.Write(line); err != nil {
			f.Close()
			return nil, fmt.Errorf("write observation log header: %w", err)
		}
	}

	log.WithFields(logrus.Fields{
		"path": path,
	}).Info("Observation log opened")

	return &csvRepository{file: f, path: path, log: log}, nil
}

func (r *csvRepository) AppendObservation(ctx context.Context, result entity.PredictionResult) error {
	requestID := contextPkg.GetRequestID(ctx)

	line, err := encodeRecord(observationRecord(result))
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to encode observation")
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return ErrClosed
	}

	// one write per record so a concurrent reader never sees half a row
	if _, err := r.file.Write(line); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"path":       r.path,
			"error":      err.Error(),
		}).Error("Failed to append observation")
		return err
	}

	return nil
}

func (r *csvRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

func observationRecord(result entity.PredictionResult) []string {
	return []string{
		result.Timestamp.UTC().Format(time.RFC3339Nano),
		string(result.Source),
		result.TankID,
		strconv.FormatFloat(result.PredictedWeightG, 'f', -1, 64),
		strconv.Itoa(result.Quantity),
		strconv.FormatFloat(result.BiomassKg, 'f', -1, 64),
	}
}

func encodeRecord(fields []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(fields); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
