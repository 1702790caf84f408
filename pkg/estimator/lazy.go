package estimator

import (
	"context"
	"sync"

	"FishBiomass/internal/entity"
)

// Lazy defers loading the artifact until the first estimate. A failed load is
// retried on the next call; once loaded the model is shared read-only.
type Lazy struct {
	path  string
	load  func(string) (*LinearModel, error)
	mu    sync.Mutex
	model *LinearModel
}

func NewLazy(path string) *Lazy {
	return &Lazy{path: path, load: Load}
}

func (l *Lazy) Estimate(ctx context.Context, features entity.FeatureVector) (float64, error) {
	m, err := l.get()
	if err != nil {
		return 0, err
	}
	return m.Estimate(ctx, features)
}

func (l *Lazy) get() (*LinearModel, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.model != nil {
		return l.model, nil
	}

	m, err := l.load(l.path)
	if err != nil {
		return nil, err
	}
	l.model = m
	return m, nil
}
