package estimator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"FishBiomass/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLazySurfacesUnavailable(t *testing.T) {
	l := NewLazy(filepath.Join(t.TempDir(), "absent.json"))

	_, err := l.Estimate(context.Background(), entity.FeatureVector{Length1: 1})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLazyRetriesAfterFailureThenCaches(t *testing.T) {
	calls := 0
	l := NewLazy("model.json")
	l.load = func(string) (*LinearModel, error) {
		calls++
		if calls == 1 {
			return nil, fmt.Errorf("%w: not yet", ErrUnavailable)
		}
		return sampleModel(), nil
	}

	features := entity.FeatureVector{Length1: 23.2, Length2: 25.4, Length3: 30.0, Height: 11.52, Width: 4.02}

	_, err := l.Estimate(context.Background(), features)
	require.True(t, errors.Is(err, ErrUnavailable))

	for i := 0; i < 3; i++ {
		weight, err := l.Estimate(context.Background(), features)
		require.NoError(t, err)
		assert.InDelta(t, 360.06, weight, 1e-6)
	}
	assert.Equal(t, 2, calls)
}

func TestLazyConcurrentFirstUseLoadsOnce(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	l := NewLazy("model.json")
	l.load = func(string) (*LinearModel, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return sampleModel(), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Estimate(context.Background(), entity.FeatureVector{Length1: 10})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, calls)
}
