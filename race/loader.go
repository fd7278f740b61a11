package race

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/grovetools/carbon/errors"
	"github.com/grovetools/carbon/pkg/cache"
	"github.com/grovetools/carbon/pkg/footprint"
	"github.com/grovetools/carbon/pkg/models"
	"github.com/grovetools/carbon/pkg/profiling"
)

// MaxEntities caps how many countries of the roster are fetched.
const MaxEntities = 15

// LoadResult is a populated store and the year range it covers.
type LoadResult struct {
	Store     *Store
	MinYear   int
	MaxYear   int
	FromCache bool
	// Failed lists the identifiers whose series could not be fetched.
	Failed []string
}

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	// MaxEntities truncates the roster. Values outside 1..15 mean 15.
	MaxEntities    int
	DefaultMinYear int
	DefaultMaxYear int
	Logger         *logrus.Entry
}

// Loader fills an emissions store from the cache, or from the source on a
// miss, and writes fresh results back to the cache.
type Loader struct {
	source footprint.Source
	cache  *cache.Gateway
	opts   LoaderOptions
	logger *logrus.Entry
}

// NewLoader creates a Loader. gateway may be nil to bypass caching.
func NewLoader(source footprint.Source, gateway *cache.Gateway, opts LoaderOptions) *Loader {
	if opts.MaxEntities < 1 || opts.MaxEntities > MaxEntities {
		opts.MaxEntities = MaxEntities
	}
	if opts.DefaultMinYear == 0 {
		opts.DefaultMinYear = 1970
	}
	if opts.DefaultMaxYear == 0 {
		opts.DefaultMaxYear = 2020
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Loader{source: source, cache: gateway, opts: opts, logger: logger}
}

// Load returns the store for this session. On a cache hit the source is
// not contacted. On a miss the roster is fetched and truncated, every
// country is fetched concurrently, and once all have finished the result
// is cached. A failed country gets an empty series and does not fail the
// load. A failed roster returns ROSTER_FETCH_FAILED and caches nothing.
func (l *Loader) Load(ctx context.Context) (*LoadResult, error) {
	defer profiling.Start("load").Stop()

	if result, ok := l.fromCache(ctx); ok {
		return result, nil
	}

	roster, err := l.source.Countries(ctx)
	if err != nil {
		l.logger.WithError(err).Error("Error loading countries")
		return nil, errors.RosterFetchFailed(err)
	}
	if len(roster) == 0 {
		l.logger.Error("Error loading countries: roster is empty")
		return nil, errors.RosterFetchFailed(errors.New(errors.ErrCodeInvalidInput, "roster is empty"))
	}
	if len(roster) > l.opts.MaxEntities {
		roster = roster[:l.opts.MaxEntities]
	}

	series := make([]models.Series, len(roster))
	failed := make([]bool, len(roster))

	// Tasks never return an error: a failure becomes an empty series so
	// Wait only returns once every country has resolved.
	g, gctx := errgroup.WithContext(ctx)
	for i, entity := range roster {
		g.Go(func() error {
			data, err := l.source.Country(gctx, entity.Identifier())
			if err != nil {
				l.logger.WithError(errors.EntityFetchFailed(entity.Identifier(), err)).
					WithField("country", entity.DisplayName()).
					Errorf("Error loading data for %s", entity.Identifier())
				series[i] = models.Series{}
				failed[i] = true
				return nil
			}
			series[i] = data
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &LoadResult{Store: NewStore()}
	for i, entity := range roster {
		result.Store.Set(entity.DisplayName(), series[i])
		if failed[i] {
			result.Failed = append(result.Failed, entity.Identifier())
		}
	}

	result.MinYear, result.MaxYear = l.freshBounds(result.Store)

	l.toCache(ctx, result)
	return result, nil
}

// freshBounds takes the first year from the data and races at least up to
// the default last year, extending past it when the data does. A store
// without any record uses both defaults.
func (l *Loader) freshBounds(store *Store) (int, int) {
	minYear, maxYear, ok := store.Bounds()
	if !ok {
		return l.opts.DefaultMinYear, l.opts.DefaultMaxYear
	}
	return minYear, max(maxYear, l.opts.DefaultMaxYear)
}

func (l *Loader) fromCache(ctx context.Context) (*LoadResult, bool) {
	if l.cache == nil {
		return nil, false
	}
	cached, ok := cache.Get[models.CachedStore](ctx, l.cache)
	if !ok {
		return nil, false
	}

	minYear, maxYear := l.opts.DefaultMinYear, l.opts.DefaultMaxYear
	if cached.MinYear != nil {
		minYear = *cached.MinYear
	}
	if cached.MaxYear != nil {
		maxYear = *cached.MaxYear
	}
	if minYear > maxYear {
		l.logger.WithField("min", minYear).WithField("max", maxYear).
			Warn("Cached year range is inverted, using defaults")
		minYear, maxYear = l.opts.DefaultMinYear, l.opts.DefaultMaxYear
	}

	l.logger.WithField("countries", len(cached.Data)).Debug("Loaded emissions from cache")
	return &LoadResult{
		Store:     FromEntries(cached.Data),
		MinYear:   minYear,
		MaxYear:   maxYear,
		FromCache: true,
	}, true
}

func (l *Loader) toCache(ctx context.Context, result *LoadResult) {
	if l.cache == nil {
		return
	}
	minYear, maxYear := result.MinYear, result.MaxYear
	payload := models.CachedStore{
		Data:    result.Store.Entries(),
		MinYear: &minYear,
		MaxYear: &maxYear,
	}
	if err := l.cache.Set(ctx, payload); err != nil {
		l.logger.WithError(err).Warn("Failed to write emissions cache")
	}
}
