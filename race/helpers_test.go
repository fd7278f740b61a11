package race

import (
	"context"
	"sync"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/carbon/pkg/cache"
	"github.com/grovetools/carbon/pkg/models"
)

// fakeSource is an in-memory footprint.Source that records its calls.
type fakeSource struct {
	mu        sync.Mutex
	roster    []models.Entity
	rosterErr error
	series    map[string]models.Series
	errs      map[string]error

	rosterCalls  int
	countryCalls []string
}

func (f *fakeSource) Countries(ctx context.Context) ([]models.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rosterCalls++
	if f.rosterErr != nil {
		return nil, f.rosterErr
	}
	return f.roster, nil
}

func (f *fakeSource) Country(ctx context.Context, id string) (models.Series, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.countryCalls = append(f.countryCalls, id)
	if err := f.errs[id]; err != nil {
		return nil, err
	}
	return f.series[id], nil
}

func (f *fakeSource) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rosterCalls, len(f.countryCalls)
}

func entity(code, name string) models.Entity {
	return models.Entity{CountryCode: code, CountryName: name, ShortName: name}
}

func rec(year int, carbon float64) models.YearRecord {
	return models.YearRecord{Year: year, Carbon: models.Float(carbon)}
}

func nullRec(year int) models.YearRecord {
	return models.YearRecord{Year: year}
}

func newGateway(t *testing.T, clock clockwork.Clock) (*cache.Gateway, *cache.BadgerBackend) {
	t.Helper()
	backend, err := cache.OpenBadger(cache.BadgerOptions{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	return cache.NewGateway(backend, cache.WithClock(clock)), backend
}

func storeOf(pairs ...interface{}) *Store {
	s := NewStore()
	for i := 0; i < len(pairs); i += 2 {
		s.Set(pairs[i].(string), pairs[i+1].(models.Series))
	}
	return s
}
