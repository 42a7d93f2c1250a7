package rng

import (
	"crypto/rand"
	"time"

	"github.com/safing/entropy/log"
)

func osFeeder(shutdown chan struct{}) {
	feeder := newFeeder(shutdown)
	defer feeder.CloseFeeder()

	for {
		// get feed entropy
		minEntropyBytes := int(minFeedEntropy())/8 + 1
		if minEntropyBytes < 32 {
			minEntropyBytes = 64
		}

		// get entropy
		osEntropy := make([]byte, minEntropyBytes)
		n, err := rand.Read(osEntropy)
		if err != nil || n != minEntropyBytes {
			log.Errorf("rng: could not read enough entropy from os: got %d of %d bytes: %v", n, minEntropyBytes, err)
			select {
			case <-time.After(10 * time.Second):
				continue
			case <-shutdown:
				return
			}
		}

		// feed
		feeder.SupplyEntropy(osEntropy, minEntropyBytes*8)

		select {
		case <-shutdown:
			return
		default:
		}
	}
}
