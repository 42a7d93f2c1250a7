package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func registerTestOptions(t *testing.T) {
	t.Helper()

	require.NoError(t, Register(&Option{
		Name:            "Monkey",
		Key:             "test/monkey",
		Description:     "a string",
		OptType:         OptTypeString,
		DefaultValue:    "banana",
		ValidationRegex: "^(banana|apple)$",
	}))
	require.NoError(t, Register(&Option{
		Name:            "Elephant",
		Key:             "test/zoo/elephant",
		Description:     "an int",
		OptType:         OptTypeInt,
		DefaultValue:    2,
		ValidationRegex: "^[0-9]{1,3}$",
	}))
	require.NoError(t, Register(&Option{
		Name:         "Hot",
		Key:          "test/hot",
		Description:  "a bool",
		OptType:      OptTypeBool,
		DefaultValue: true,
	}))
}

func TestRegister(t *testing.T) {
	registerTestOptions(t)

	var ioe *InvalidOptionError
	err := Register(&Option{Key: "test/broken"})
	assert.True(t, errors.As(err, &ioe))

	err = Register(&Option{
		Name:            "Broken",
		Key:             "test/broken",
		Description:     "broken regex",
		OptType:         OptTypeString,
		ValidationRegex: "^(",
	})
	assert.True(t, errors.As(err, &ioe))
	assert.NotNil(t, ioe.Unwrap())
	assert.ErrorIs(t, err, ErrInvalidOption)

	err = Register(&Option{
		Name:         "Bad Default",
		Key:          "test/baddefault",
		Description:  "default does not match type",
		OptType:      OptTypeInt,
		DefaultValue: "zero",
	})
	assert.ErrorIs(t, err, ErrInvalidOption)
	assert.ErrorIs(t, err, ErrInvalidValue)

	err = Register(&Option{
		Name:        "Retype",
		Key:         "test/monkey",
		Description: "changes the type",
		OptType:     OptTypeInt,
	})
	assert.Error(t, err)

	assert.Contains(t, Keys(), "test/zoo/elephant")
}

func TestGetAndSet(t *testing.T) {
	registerTestOptions(t)

	monkey := GetAsString("test/monkey", "none")
	elephant := GetAsInt("test/zoo/elephant", -1)
	hot := GetAsBool("test/hot", false)
	missing := GetAsInt("test/missing", 42)

	assert.Equal(t, "banana", monkey())
	assert.Equal(t, int64(2), elephant())
	assert.True(t, hot())
	assert.Equal(t, int64(42), missing())

	require.NoError(t, SetConfigOption("test/monkey", "apple"))
	require.NoError(t, SetConfigOption("test/zoo/elephant", 7))
	require.NoError(t, SetConfigOption("test/hot", false))
	assert.Equal(t, "apple", monkey())
	assert.Equal(t, int64(7), elephant())
	assert.False(t, hot())

	// validation
	var ive *InvalidValueError
	assert.True(t, errors.As(SetConfigOption("test/monkey", "cherry"), &ive))
	assert.True(t, errors.As(SetConfigOption("test/zoo/elephant", 1000), &ive))
	assert.True(t, errors.As(SetConfigOption("test/hot", "yes"), &ive))
	assert.Equal(t, "test/hot", ive.Key)
	assert.ErrorIs(t, ive, ErrInvalidValue)
	assert.ErrorIs(t, SetConfigOption("test/missing", 1), ErrUnknownOption)
	assert.ErrorIs(t, SetConfigOption("test/monkey", []string{"x"}), ErrUnsupportedType)
	assert.Equal(t, "apple", monkey())

	// default layer
	require.NoError(t, SetDefaultConfigOption("test/zoo/elephant", 9))
	require.NoError(t, ResetConfigOption("test/zoo/elephant"))
	assert.Equal(t, int64(9), elephant())
	require.NoError(t, SetDefaultConfigOption("test/zoo/elephant", nil))
	assert.Equal(t, int64(2), elephant())

	require.NoError(t, ResetConfigOption("test/monkey"))
	require.NoError(t, ResetConfigOption("test/hot"))
	assert.ErrorIs(t, ResetConfigOption("test/missing"), ErrUnknownOption)
}

func TestConcurrentGet(t *testing.T) {
	registerTestOptions(t)

	elephant := GetAsInt("test/zoo/elephant", -1)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				v := elephant()
				assert.True(t, v == 2 || v == 5, "unexpected value %d", v)
			}
		}()
	}
	for j := 0; j < 20; j++ {
		require.NoError(t, SetConfigOption("test/zoo/elephant", 5))
		require.NoError(t, ResetConfigOption("test/zoo/elephant"))
	}
	wg.Wait()

	assert.Equal(t, int64(2), elephant())
}

func TestJSONPersistence(t *testing.T) {
	registerTestOptions(t)

	_, err := JSONToMap([]byte(`{"test": `))
	assert.ErrorIs(t, err, ErrInvalidJSON)
	_, err = JSONToMap([]byte(`[1, 2]`))
	assert.ErrorIs(t, err, ErrInvalidJSON)

	flat, err := JSONToMap([]byte(`{"test": {"monkey": "apple", "zoo": {"elephant": 3}}, "root": true}`))
	require.NoError(t, err)
	assert.Equal(t, "apple", flat["test/monkey"])
	assert.Equal(t, float64(3), flat["test/zoo/elephant"])
	assert.Equal(t, true, flat["root"])

	err = LoadJSON([]byte(`{"test": {"monkey": "apple", "zoo": {"elephant": 3}, "hot": false}}`))
	require.NoError(t, err)
	assert.Equal(t, int64(3), GetAsInt("test/zoo/elephant", 0)())

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, SaveFile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "apple", gjson.GetBytes(data, "test.monkey").String())
	assert.Equal(t, int64(3), gjson.GetBytes(data, "test.zoo.elephant").Int())
	assert.False(t, gjson.GetBytes(data, "test.hot").Bool())

	// reset and reload
	require.NoError(t, ResetConfigOption("test/zoo/elephant"))
	assert.Equal(t, int64(2), GetAsInt("test/zoo/elephant", 0)())
	require.NoError(t, LoadFile(path))
	assert.Equal(t, int64(3), GetAsInt("test/zoo/elephant", 0)())

	// partial failure
	err = LoadJSON([]byte(`{"test": {"monkey": "cherry", "nope": 1}}`))
	assert.Error(t, err)

	require.NoError(t, ResetConfigOption("test/monkey"))
	require.NoError(t, ResetConfigOption("test/zoo/elephant"))
	require.NoError(t, ResetConfigOption("test/hot"))
}
