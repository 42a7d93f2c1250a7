package strength

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrdering(t *testing.T) {
	t.Parallel()

	ordered := []Level{VeryLow, Low, Medium, High, VeryHigh}
	for i := 1; i < len(ordered); i++ {
		assert.Equal(t, -1, ordered[i-1].Compare(ordered[i]))
		assert.Equal(t, 1, ordered[i].Compare(ordered[i-1]))
		assert.True(t, ordered[i].AtLeast(ordered[i-1]))
		assert.False(t, ordered[i-1].AtLeast(ordered[i]))
	}
	assert.Equal(t, 0, Medium.Compare(Medium))

	assert.Equal(t, VeryHigh, Max(Low, VeryHigh, Medium))
	assert.Equal(t, Low, Min(High, Low, Medium))
	assert.Equal(t, Level(0), Max())
	assert.Equal(t, Level(0), Min())
}

func TestConstruction(t *testing.T) {
	t.Parallel()

	l, err := New(3)
	require.NoError(t, err)
	assert.Equal(t, Medium, l)

	_, err = New(0)
	assert.ErrorIs(t, err, ErrUnknownLevel)
	_, err = New(6)
	assert.ErrorIs(t, err, ErrUnknownLevel)

	for _, name := range []string{"very low", "Very-Low", "VERY_LOW", "verylow"} {
		l, err = Parse(name)
		require.NoError(t, err, name)
		assert.Equal(t, VeryLow, l, name)
	}
	l, err = Parse(High.String())
	require.NoError(t, err)
	assert.Equal(t, High, l)

	_, err = Parse("extreme")
	assert.ErrorIs(t, err, ErrUnknownLevel)
	assert.Equal(t, "unknown(42)", Level(42).String())
	assert.False(t, Level(42).Valid())
}

func TestEntropyBits(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 8, VeryLow.EntropyBits(64))
	assert.Equal(t, 32, Low.EntropyBits(64))
	assert.Equal(t, 512, VeryHigh.EntropyBits(64))
	assert.Equal(t, 0, Medium.EntropyBits(-1))
	assert.Equal(t, 0, Level(0).EntropyBits(64))

	// stronger levels never estimate less
	for l := VeryLow; l < VeryHigh; l++ {
		assert.LessOrEqual(t, l.EntropyBits(32), (l + 1).EntropyBits(32))
	}
}
