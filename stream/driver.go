package stream

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/carbon/race"
)

// Loader produces the store for a session. *race.Loader implements it.
type Loader interface {
	Load(ctx context.Context) (*race.LoadResult, error)
}

// Drive runs the race headless: it loads, applies the result, and
// publishes a frame at start and on every year tick until ctx is done.
// Drive is the only goroutine touching engine. A failed load leaves the
// server idle with no frames until ctx is done; it is not returned.
func Drive(ctx context.Context, engine *race.Engine, loader Loader, hub *Hub, logger *logrus.Entry) error {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	defer engine.Stop()

	result, err := loader.Load(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if _, ok := engine.Apply(result, err); !ok {
		logger.WithError(err).Warn("Race did not start, serving no frames")
		<-ctx.Done()
		return nil
	}

	publish := func() {
		if err := hub.Publish(FrameOf(engine)); err != nil {
			logger.WithError(err).Warn("Failed to publish frame")
		}
	}
	publish()

	ticks := engine.Ticks()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticks:
			engine.Tick()
			publish()
		}
	}
}
