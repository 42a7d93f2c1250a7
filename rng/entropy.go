package rng

import (
	"bytes"
	"encoding/binary"
	"sync"

	"github.com/tevino/abool"
)

// The Feeder is used to feed entropy to the RNG.
type Feeder struct {
	input        chan *entropyData
	entropy      int64
	needsEntropy *abool.AtomicBool
	buffer       [][]byte

	shutdown  chan struct{}
	closed    chan struct{}
	closeOnce sync.Once
}

type entropyData struct {
	data    []byte
	entropy int
}

// NewFeeder returns a new entropy Feeder. The Feeder stops when the rng is
// stopped or when CloseFeeder is called.
func NewFeeder() *Feeder {
	return newFeeder(getShutdownSignal())
}

func newFeeder(shutdown chan struct{}) *Feeder {
	f := &Feeder{
		input:        make(chan *entropyData),
		needsEntropy: abool.NewBool(true),
		shutdown:     shutdown,
		closed:       make(chan struct{}),
	}
	go f.run()
	return f
}

// NeedsEntropy returns whether the feeder is currently gathering entropy.
func (f *Feeder) NeedsEntropy() bool {
	return f.needsEntropy.IsSet()
}

// SupplyEntropy supplies entropy to to the Feeder, it will block until the Feeder has read from it.
func (f *Feeder) SupplyEntropy(data []byte, entropy int) {
	select {
	case f.input <- &entropyData{
		data:    data,
		entropy: entropy,
	}:
	case <-f.closed:
	case <-f.shutdown:
	}
}

// SupplyEntropyIfNeeded supplies entropy to to the Feeder, but will not block if no entropy is currently needed.
func (f *Feeder) SupplyEntropyIfNeeded(data []byte, entropy int) {
	if !f.needsEntropy.IsSet() {
		return
	}

	select {
	case f.input <- &entropyData{
		data:    data,
		entropy: entropy,
	}:
	default:
	}
}

// SupplyEntropyAsInt supplies entropy to to the Feeder, it will block until the Feeder has read from it.
func (f *Feeder) SupplyEntropyAsInt(n int64, entropy int) {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(n))
	f.SupplyEntropy(b, entropy)
}

// SupplyEntropyAsIntIfNeeded supplies entropy to to the Feeder, but will not block if no entropy is currently needed.
func (f *Feeder) SupplyEntropyAsIntIfNeeded(n int64, entropy int) {
	if f.needsEntropy.IsSet() { // avoid allocating a slice if possible
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, uint64(n))
		f.SupplyEntropyIfNeeded(b, entropy)
	}
}

// CloseFeeder stops the feed processing - the responsible goroutine exits.
func (f *Feeder) CloseFeeder() {
	f.closeOnce.Do(func() {
		close(f.closed)
	})
}

func (f *Feeder) run() {
	defer f.needsEntropy.UnSet()

	for {
		// gather
		f.needsEntropy.Set()
	gather:
		for {
			select {
			case newEntropy := <-f.input:
				f.buffer = append(f.buffer, newEntropy.data)
				f.entropy += int64(newEntropy.entropy)
				if f.entropy >= minFeedEntropy() {
					break gather
				}
			case <-f.closed:
				return
			case <-f.shutdown:
				return
			}
		}
		// feed
		f.needsEntropy.UnSet()
		select {
		case rngFeeder <- bytes.Join(f.buffer, nil):
		case <-f.closed:
			return
		case <-f.shutdown:
			return
		}
		f.buffer = nil
		f.entropy = 0
	}
}
