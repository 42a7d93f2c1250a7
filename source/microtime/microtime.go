// Package microtime provides a very weak entropy source based on the current
// time and volatile process state.
//
// The source exists to be mixed with stronger sources. Its output must never
// be used on its own for anything security sensitive, which is why it always
// reports strength.VeryLow.
package microtime

import (
	"encoding/binary"
	"math"
	"runtime"
	"strconv"
	"time"

	"github.com/safing/entropy/config"
	"github.com/safing/entropy/crypto/hash"
	"github.com/safing/entropy/log"
	"github.com/safing/entropy/source"
	"github.com/safing/entropy/strength"
)

const (
	// strideSize is the amount of digest bytes exposed per round.
	strideSize = 8

	defaultAlgorithm = hash.SHA2_512
)

// counterSeedSize is the amount of bytes used to seed the counter: the
// length of the largest int64 written in hex.
var counterSeedSize = len(strconv.FormatInt(math.MaxInt64, 16))

var (
	gcJitterOption  config.BoolOption
	algorithmOption config.StringOption
)

func init() {
	err := config.Register(&config.Option{
		Name:           "Microtime GC Jitter",
		Key:            "entropy/microtime_gc_jitter",
		Description:    "Force a garbage collection before every generation of the microtime source to add timing jitter.",
		OptType:        config.OptTypeBool,
		ExpertiseLevel: config.ExpertiseLevelDeveloper,
		ReleaseLevel:   config.ReleaseLevelStable,
		DefaultValue:   true,
	})
	if err != nil {
		log.Errorf("microtime: failed to register config option: %s", err)
	}
	gcJitterOption = config.GetAsBool("entropy/microtime_gc_jitter", true)

	err = config.Register(&config.Option{
		Name:            "Microtime Hash Algorithm",
		Key:             "entropy/microtime_hash",
		Description:     "512 bit hash algorithm used to fold the state of the microtime source.",
		OptType:         config.OptTypeString,
		ExpertiseLevel:  config.ExpertiseLevelDeveloper,
		ReleaseLevel:    config.ReleaseLevelExperimental,
		DefaultValue:    defaultAlgorithm.Name(),
		ValidationRegex: "^(SHA2-512|SHA3-512|Blake2b-512|Blake3-512)$",
	})
	if err != nil {
		log.Errorf("microtime: failed to register config option: %s", err)
	}
	algorithmOption = config.GetAsString("entropy/microtime_hash", defaultAlgorithm.Name())
}

// Source is a very weak entropy source. It is not safe for concurrent use.
type Source struct {
	state   []byte
	counter *Counter

	alg    hash.Algorithm
	now    func() time.Time
	memory func() uint64
	jitter func()
	probes []Probe
}

// Option configures a Source.
type Option func(*Source)

// WithCounter sets the counter shared with other sources. Defaults to SharedCounter().
func WithCounter(counter *Counter) Option {
	return func(s *Source) {
		s.counter = counter
	}
}

// WithClock sets the clock that is read every round. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Source) {
		s.now = now
	}
}

// WithMemoryUsage sets the memory usage query mixed in on every generation.
func WithMemoryUsage(memory func() uint64) Option {
	return func(s *Source) {
		s.memory = memory
	}
}

// WithJitter sets a hook that is called before the rounds of every
// generation. Its only purpose is to make the following clock readings
// harder to predict. The default forces a garbage collection, if enabled by
// config. Passing nil disables the hook, which weakens the source.
func WithJitter(jitter func()) Option {
	return func(s *Source) {
		s.jitter = jitter
	}
}

// WithProbes sets the probes used to seed the initial state. Defaults to DefaultProbes().
func WithProbes(probes ...Probe) Option {
	return func(s *Source) {
		s.probes = probes
	}
}

// WithAlgorithm sets the hash algorithm. Only algorithms with a 512 bit
// digest are accepted, others are replaced with SHA2-512.
func WithAlgorithm(alg hash.Algorithm) Option {
	return func(s *Source) {
		s.alg = alg
	}
}

// New returns a new source. It never fails: unavailable ambient signals
// simply result in less seed material.
//
// If the counter of the source has not been seeded yet, it is seeded from
// the output of the new source.
func New(opts ...Option) *Source {
	s := &Source{
		counter: SharedCounter(),
		now:     time.Now,
		memory:  memoryUsage,
		alg:     configuredAlgorithm(),
	}
	if gcJitterOption() {
		s.jitter = runtime.GC
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.probes == nil {
		s.probes = DefaultProbes()
	}
	if s.counter == nil {
		s.counter = SharedCounter()
	}
	if s.alg.Size() != 64 {
		log.Warningf("microtime: hash algorithm %q does not have a 512 bit digest, using %s", s.alg, defaultAlgorithm)
		s.alg = defaultAlgorithm
	}

	s.state = hash.Digest(s.alg, gatherProbes(s.probes))

	if !s.counter.Initialized() {
		// Cannot fail, the size is positive.
		seed, _ := s.Generate(counterSeedSize)
		if s.counter.Init(int64(binary.BigEndian.Uint64(seed[len(seed)-8:]))) {
			log.Tracef("microtime: seeded counter")
		}
	}

	return s
}

func configuredAlgorithm() hash.Algorithm {
	alg, ok := hash.ByName(algorithmOption())
	if !ok {
		return defaultAlgorithm
	}
	return alg
}

// Name returns the name of the source.
func (s *Source) Name() string {
	return "microtime"
}

// Strength returns strength.VeryLow.
func (s *Source) Strength() strength.Level {
	return strength.VeryLow
}

// Generate returns size bytes. Requesting zero bytes does not change the
// state; a negative size returns source.ErrInvalidSize.
func (s *Source) Generate(size int) ([]byte, error) {
	if err := source.CheckSize(size); err != nil {
		return nil, err
	}
	if size == 0 {
		return []byte{}, nil
	}

	s.state = hash.Digest(s.alg, s.state, encodeTime(s.now()), encodeUint64(s.memory()))

	if s.jitter != nil {
		s.jitter()
	}

	result := make([]byte, 0, size+strideSize)
	offset := make([]byte, 4)
	count := make([]byte, 4)
	for i := 0; i < size; i += strideSize {
		binary.BigEndian.PutUint32(offset, uint32(i))
		binary.LittleEndian.PutUint32(count, uint32(s.counter.Next()))
		s.state = hash.Digest(s.alg, s.state, encodeTime(s.now()), offset, count)

		// Never expose the full state.
		result = append(result, s.state[:strideSize]...)
	}

	return result[:size], nil
}

// encodeTime encodes the seconds and microseconds of t.
func encodeTime(t time.Time) []byte {
	b := make([]byte, 12)
	binary.BigEndian.PutUint64(b, uint64(t.Unix()))
	binary.BigEndian.PutUint32(b[8:], uint32(t.Nanosecond()/1000))
	return b
}
