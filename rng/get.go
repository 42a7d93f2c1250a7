package rng

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"time"

	"github.com/safing/entropy/metrics"
)

var (
	// Reader provides a global instance to read from the RNG.
	Reader io.Reader = reader{}

	rngBytesRead int64
	rngLastFeed  = time.Now()

	// ErrNotReady is returned when reading from the rng before it was started.
	ErrNotReady = errors.New("rng is not ready")
	// ErrNoEntropy is returned when a due reseed could not get new entropy in time.
	ErrNoEntropy = errors.New("rng failed to get new entropy")
)

// reader provides an io.Reader interface.
type reader struct{}

// resetReseedLimits must be called with rngLock held.
func resetReseedLimits() {
	rngBytesRead = 0
	rngLastFeed = time.Now()
}

// checkEntropy must be called with rngLock held.
func checkEntropy() error {
	if !rngReady.IsSet() {
		return ErrNotReady
	}

	if rngBytesRead > reseedAfterBytes() ||
		int64(time.Since(rngLastFeed).Seconds()) > reseedAfterSeconds() {
		select {
		case r := <-rngFeeder:
			rng.Reseed(r)
			metrics.RNGReseeded()
			resetReseedLimits()
		case <-time.After(1 * time.Second):
			return ErrNoEntropy
		}
	}
	return nil
}

func pseudoRandomData(n int) ([]byte, error) {
	rngLock.Lock()
	defer rngLock.Unlock()

	if err := checkEntropy(); err != nil {
		return nil, err
	}

	data := rng.PseudoRandomData(uint(n))
	rngBytesRead += int64(n)
	metrics.RNGRead(n)
	return data, nil
}

// Read reads random bytes into the supplied byte slice.
func Read(b []byte) (n int, err error) {
	data, err := pseudoRandomData(len(b))
	if err != nil {
		return 0, err
	}
	return copy(b, data), nil
}

// Read implements the io.Reader interface.
func (r reader) Read(b []byte) (n int, err error) {
	return Read(b)
}

// Bytes allocates a new byte slice of given length and fills it with random data.
func Bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.New("rng: negative length")
	}
	return pseudoRandomData(n)
}

// Number returns a random number from 0 to (incl.) max.
func Number(max uint64) (uint64, error) {
	if max == math.MaxUint64 {
		return uint64Candidate()
	}

	// candidates below threshold would bias the lower results
	n := max + 1
	threshold := (math.MaxUint64 - n + 1) % n
	for {
		candidate, err := uint64Candidate()
		if err != nil {
			return 0, err
		}
		if candidate >= threshold {
			return candidate % n, nil
		}
	}
}

func uint64Candidate() (uint64, error) {
	randomBytes, err := Bytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(randomBytes), nil
}
