package rng

import (
	"time"

	"github.com/safing/entropy/metrics"
)

func getFullFeedDuration() time.Duration {
	// full feed every 5x time of reseedAfterSeconds
	secsUntilFullFeed := reseedAfterSeconds() * 5

	// full feed at most once per minute
	if secsUntilFullFeed < 60 {
		secsUntilFullFeed = 60
	}

	return time.Duration(secsUntilFullFeed) * time.Second
}

// fullFeeder regularly reseeds the rng with everything the feeders have
// gathered in the meantime.
func fullFeeder(shutdown chan struct{}) {
	fullFeedDuration := 100 * time.Millisecond

	for {
		select {
		case <-time.After(fullFeedDuration):
			feedAll()
		case <-shutdown:
			return
		}

		fullFeedDuration = getFullFeedDuration()
	}
}

func feedAll() {
	rngLock.Lock()
	defer rngLock.Unlock()

	var fed bool
	for {
		select {
		case data := <-rngFeeder:
			rng.Reseed(data)
			metrics.RNGReseeded()
			fed = true
		default:
			if fed {
				resetReseedLimits()
			}
			return
		}
	}
}
