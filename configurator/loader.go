package configurator

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// detailLoader fetches material details through a ClassificationSource. Concurrent
// requests for the same material share one call and results are cached until reset.
type detailLoader struct {
	source ClassificationSource
	group  singleflight.Group

	mu    sync.RWMutex
	cache map[string]Material
}

func newDetailLoader(source ClassificationSource) *detailLoader {
	return &detailLoader{source: source, cache: make(map[string]Material)}
}

func (l *detailLoader) cached(materialID string) (Material, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	m, ok := l.cache[materialID]
	return m, ok
}

func (l *detailLoader) load(ctx context.Context, materialID string) (Material, error) {
	if m, ok := l.cached(materialID); ok {
		return m, nil
	}
	if l.source == nil {
		return Material{}, fmt.Errorf("material %s: %w", materialID, ErrUnknownMaterial)
	}

	v, err, _ := l.group.Do(materialID, func() (any, error) {
		if m, ok := l.cached(materialID); ok {
			return m, nil
		}
		m, err := l.source.MaterialDetail(ctx, materialID)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.cache[materialID] = m
		l.mu.Unlock()
		return m, nil
	})
	if err != nil {
		return Material{}, err
	}
	return v.(Material), nil
}

func (l *detailLoader) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.cache)
}
