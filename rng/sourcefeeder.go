package rng

import (
	"time"

	"github.com/safing/entropy/log"
	"github.com/safing/entropy/metrics"
	"github.com/safing/entropy/source"
)

// sourceFeedSize is the amount of bytes pulled from a source per interval.
const sourceFeedSize = 64

// sourceFeeder pulls entropy from src every source feed interval and credits
// it with the estimate of the source's strength level.
func sourceFeeder(src source.Source, shutdown chan struct{}) {
	name := source.Name(src)
	feeder := newFeeder(shutdown)
	defer feeder.CloseFeeder()

	log.Tracef("rng: feeding from source %s", name)
	for {
		select {
		case <-time.After(time.Duration(sourceFeedInterval()) * time.Millisecond):
		case <-shutdown:
			return
		}

		if !feeder.NeedsEntropy() {
			continue
		}

		data, err := src.Generate(sourceFeedSize)
		if err != nil {
			metrics.SourceFailed(name)
			log.Warningf("rng: failed to get entropy from source %s: %s", name, err)
			continue
		}
		metrics.SourceGenerated(name, len(data))

		feeder.SupplyEntropy(data, src.Strength().EntropyBits(len(data)))
	}
}
