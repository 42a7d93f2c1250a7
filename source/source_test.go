package source

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/entropy/strength"
)

// countingSource returns bytes counting upwards and is not safe for concurrent use.
type countingSource struct {
	next  byte
	calls int
}

func (cs *countingSource) Strength() strength.Level {
	return strength.Low
}

func (cs *countingSource) Generate(size int) ([]byte, error) {
	if err := CheckSize(size); err != nil {
		return nil, err
	}
	cs.calls++
	data := make([]byte, size)
	for i := range data {
		data[i] = cs.next
		cs.next++
	}
	return data, nil
}

func TestCheckSize(t *testing.T) {
	t.Parallel()

	assert.NoError(t, CheckSize(0))
	assert.NoError(t, CheckSize(32))
	assert.ErrorIs(t, CheckSize(-1), ErrInvalidSize)
}

func TestLocked(t *testing.T) {
	t.Parallel()

	cs := &countingSource{}
	l := Locked(cs)
	assert.Same(t, l, Locked(l))
	// a raw source gets a new wrapper every time
	assert.NotSame(t, l, Locked(cs))
	assert.Equal(t, strength.Low, l.Strength())
	assert.Equal(t, "*source.countingSource", Name(l))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				data, err := l.Generate(4)
				assert.NoError(t, err)
				assert.Len(t, data, 4)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1600, cs.calls)
	assert.Equal(t, byte(1600*4%256), cs.next)
}

func TestReader(t *testing.T) {
	t.Parallel()

	r := NewReader(&countingSource{})
	buf := make([]byte, 10)
	_, err := io.ReadFull(r, buf)
	require.NoError(t, err)
	assert.True(t, bytes.Equal([]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, buf))
}
