package microtime

import (
	"bytes"
	"crypto/sha512"
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/entropy/config"
	"github.com/safing/entropy/crypto/hash"
	"github.com/safing/entropy/source"
	"github.com/safing/entropy/strength"
)

var (
	testTime   = time.Unix(1600000000, 123456789)
	testMemory = uint64(4096)
	testSeed   = []byte("fixed ambient signals")
)

func fixedProbe() Probe {
	return Probe{
		Name: "fixed",
		Read: func() ([]byte, bool) {
			return testSeed, true
		},
	}
}

// newDeterministic returns a source whose output only depends on the counter.
func newDeterministic(counter *Counter, opts ...Option) *Source {
	return New(append([]Option{
		WithCounter(counter),
		WithClock(func() time.Time { return testTime }),
		WithMemoryUsage(func() uint64 { return testMemory }),
		WithJitter(nil),
		WithProbes(fixedProbe()),
		WithAlgorithm(hash.SHA2_512),
	}, opts...)...)
}

// referenceGenerate reimplements a single generation with the given state
// and counter value. It returns the output, the new state, the new counter
// value and the full digest of every round.
func referenceGenerate(state []byte, counter int64, size int) (output, newState []byte, newCounter int64, digests [][]byte) {
	timestamp := make([]byte, 12)
	binary.BigEndian.PutUint64(timestamp, uint64(testTime.Unix()))
	binary.BigEndian.PutUint32(timestamp[8:], uint32(testTime.Nanosecond()/1000))
	memory := make([]byte, 8)
	binary.BigEndian.PutUint64(memory, testMemory)

	sum := sha512.Sum512(append(append(append([]byte{}, state...), timestamp...), memory...))
	state = sum[:]

	for i := 0; i < size; i += 8 {
		if counter == math.MaxInt64 {
			counter = math.MinInt64
		} else {
			counter++
		}
		seed := append([]byte{}, state...)
		seed = append(seed, timestamp...)
		seed = binary.BigEndian.AppendUint32(seed, uint32(i))
		seed = binary.LittleEndian.AppendUint32(seed, uint32(counter))
		sum = sha512.Sum512(seed)
		state = sum[:]

		digests = append(digests, state)
		output = append(output, state[:8]...)
	}

	return output[:size], state, counter, digests
}

func TestStrength(t *testing.T) {
	t.Parallel()

	s := newDeterministic(NewCounter())
	assert.Equal(t, strength.VeryLow, s.Strength())
	assert.Equal(t, "microtime", source.Name(s))

	var _ source.Source = s
}

func TestGenerateSizes(t *testing.T) {
	t.Parallel()

	s := New(WithCounter(NewCounter()), WithJitter(nil))
	for n := 0; n <= 40; n++ {
		data, err := s.Generate(n)
		require.NoError(t, err)
		assert.Len(t, data, n)
	}
	data, err := s.Generate(1000)
	require.NoError(t, err)
	assert.Len(t, data, 1000)
}

func TestGenerateZero(t *testing.T) {
	t.Parallel()

	counter := NewCounter()
	s := newDeterministic(counter)
	state := append([]byte{}, s.state...)
	value := counter.Value()

	data, err := s.Generate(0)
	require.NoError(t, err)
	assert.NotNil(t, data)
	assert.Empty(t, data)
	assert.Equal(t, state, s.state)
	assert.Equal(t, value, counter.Value())
}

func TestSuccessiveOutputsDiffer(t *testing.T) {
	t.Parallel()

	s := New(WithCounter(NewCounter()))
	first, err := s.Generate(32)
	require.NoError(t, err)
	second, err := s.Generate(32)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	// even with a frozen clock
	frozen := newDeterministic(NewCounter())
	first, err = frozen.Generate(32)
	require.NoError(t, err)
	second, err = frozen.Generate(32)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestInstancesDiffer(t *testing.T) {
	t.Parallel()

	a := New(WithJitter(nil))
	b := New(WithJitter(nil))
	outA, err := a.Generate(16)
	require.NoError(t, err)
	outB, err := b.Generate(16)
	require.NoError(t, err)
	assert.NotEqual(t, outA, outB)

	// identical signals and clock, but a shared counter
	shared := NewCounter()
	c := newDeterministic(shared)
	d := newDeterministic(shared)
	outC, err := c.Generate(16)
	require.NoError(t, err)
	outD, err := d.Generate(16)
	require.NoError(t, err)
	assert.NotEqual(t, outC, outD)
}

func TestNegativeSizeKeepsState(t *testing.T) {
	t.Parallel()

	counterA := NewCounter()
	counterA.Init(42)
	counterB := NewCounter()
	counterB.Init(42)

	a := newDeterministic(counterA)
	b := newDeterministic(counterB)

	_, err := a.Generate(-1)
	assert.ErrorIs(t, err, source.ErrInvalidSize)

	outA, err := a.Generate(16)
	require.NoError(t, err)
	outB, err := b.Generate(16)
	require.NoError(t, err)
	assert.Equal(t, outB, outA)
}

func TestMatchesReference(t *testing.T) {
	t.Parallel()

	counter := NewCounter()
	counter.Init(math.MaxInt64 - 1)
	s := newDeterministic(counter)

	for _, size := range []int{1, 8, 20, 64} {
		state := append([]byte{}, s.state...)
		expected, expectedState, expectedCounter, digests := referenceGenerate(state, counter.Value(), size)

		output, err := s.Generate(size)
		require.NoError(t, err)
		assert.Equal(t, expected, output)
		assert.Equal(t, expectedState, s.state)
		assert.Equal(t, expectedCounter, counter.Value())

		// Only the first 8 bytes of every round may show up.
		for _, digest := range digests {
			for i := 8; i+8 <= len(digest); i += 8 {
				assert.False(t, bytes.Contains(output, digest[i:i+8]), "internal state leaked")
			}
		}
	}
}

func TestCounterBootstrap(t *testing.T) {
	t.Parallel()

	counter := NewCounter()
	s := newDeterministic(counter)
	require.True(t, counter.Initialized())

	initial := sha512.Sum512(testSeed)
	seed, _, _, _ := referenceGenerate(initial[:], 0, counterSeedSize)
	require.Len(t, seed, 16)
	assert.Equal(t, int64(binary.BigEndian.Uint64(seed[8:])), counter.Value())

	// A second source does not reseed the counter.
	value := counter.Value()
	newDeterministic(counter)
	assert.Equal(t, value, counter.Value())

	_, err := s.Generate(8)
	require.NoError(t, err)
	assert.Equal(t, value+1, counter.Value())
}

func TestDegradedSignals(t *testing.T) {
	t.Parallel()

	unavailable := Probe{
		Name: "unavailable",
		Read: func() ([]byte, bool) {
			return nil, false
		},
	}
	s := New(WithCounter(NewCounter()), WithProbes(unavailable, unavailable), WithJitter(nil))
	data, err := s.Generate(32)
	require.NoError(t, err)
	assert.Len(t, data, 32)

	// Missing signals contribute nothing.
	a := newDeterministic(NewCounter(), WithProbes(fixedProbe(), unavailable))
	b := newDeterministic(NewCounter(), WithProbes(fixedProbe()))
	assert.Equal(t, b.state, a.state)
}

func TestDefaultProbes(t *testing.T) {
	t.Parallel()

	probes := DefaultProbes()
	names := make([]string, 0, len(probes))
	for _, probe := range probes {
		names = append(names, probe.Name)
	}
	assert.Subset(t, names, []string{"pid", "memory usage", "environment"})

	for _, name := range []string{"pid", "memory usage", "environment"} {
		for _, probe := range probes {
			if probe.Name != name {
				continue
			}
			data, ok := probe.Read()
			assert.True(t, ok, name)
			assert.NotEmpty(t, data, name)
		}
	}
	assert.NotEmpty(t, gatherProbes(probes))
}

func TestJitterHook(t *testing.T) {
	t.Parallel()

	var calls int
	s := newDeterministic(NewCounter(), WithJitter(func() { calls++ }))
	calls = 0

	_, err := s.Generate(0)
	require.NoError(t, err)
	assert.Equal(t, 0, calls)

	_, err = s.Generate(32)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "jitter runs once per generation, not per round")
}

func TestAlgorithmSelection(t *testing.T) {
	s := newDeterministic(NewCounter(), WithAlgorithm(hash.SHA2_256))
	assert.Equal(t, hash.SHA2_512, s.alg)

	s = newDeterministic(NewCounter(), WithAlgorithm(hash.BLAKE3_512))
	assert.Equal(t, hash.BLAKE3_512, s.alg)
	assert.Len(t, s.state, 64)

	require.NoError(t, config.SetConfigOption("entropy/microtime_hash", "SHA3-512"))
	defer func() {
		assert.NoError(t, config.ResetConfigOption("entropy/microtime_hash"))
	}()
	s = New(WithCounter(NewCounter()), WithJitter(nil))
	assert.Equal(t, hash.SHA3_512, s.alg)

	assert.Error(t, config.SetConfigOption("entropy/microtime_hash", "SHA2-256"))
}

func TestJitterConfig(t *testing.T) {
	require.NoError(t, config.SetConfigOption("entropy/microtime_gc_jitter", false))
	s := New(WithCounter(NewCounter()))
	assert.Nil(t, s.jitter)

	require.NoError(t, config.ResetConfigOption("entropy/microtime_gc_jitter"))
	s = New(WithCounter(NewCounter()))
	assert.NotNil(t, s.jitter)
}
