package rng

import (
	"time"
)

func getTickDuration() time.Duration {
	// be ready in 1/10 time of reseedAfterSeconds
	msecsAvailable := reseedAfterSeconds() * 100
	// ex.: reseed after 10 minutes: msecsAvailable = 36000

	// one tick generates 0,125 bits of entropy
	ticksNeeded := minFeedEntropy() * 8
	// ex.: minimum entropy is 256: ticksNeeded = 2048

	// msecs between ticks
	tickMsecs := msecsAvailable / ticksNeeded
	// ex.: tickMsecs = 17(,578125)

	// use a minimum of 10 msecs per tick for good entropy
	if tickMsecs < 10 {
		tickMsecs = 10
	}

	return time.Duration(tickMsecs) * time.Millisecond
}

// tickFeeder adds the least significant bit of the current nanosecond
// unixtime to its pool every time it ticks. The busier the program, the
// later the scheduler can run the goroutine, and the better the quality.
func tickFeeder(shutdown chan struct{}) {
	var value int64
	var pushes int
	feeder := newFeeder(shutdown)
	defer feeder.CloseFeeder()

	tickDuration := 1 * time.Millisecond
	for {
		select {
		case <-time.After(tickDuration):
			value = (value << 1) | (time.Now().UnixNano() % 2)

			pushes++
			if pushes >= 64 {
				feeder.SupplyEntropyAsInt(value, 8)
				pushes = 0
			}

			tickDuration = getTickDuration()

		case <-shutdown:
			return
		}
	}
}
