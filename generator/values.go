package generator

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/safing/entropy/source"
)

const (
	// DefaultCharset is used by String when no charset is given.
	DefaultCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789./"

	// MaxCharsetSize is the maximum number of characters in a charset.
	MaxCharsetSize = 256
)

// Uint64 returns a uniformly distributed number from 0 to (incl.) max.
func (g *Generator) Uint64(max uint64) (uint64, error) {
	if max == math.MaxUint64 {
		return g.uint64()
	}

	n := max + 1
	// values below threshold would bias the result
	threshold := (math.MaxUint64 - n + 1) % n
	for {
		candidate, err := g.uint64()
		if err != nil {
			return 0, err
		}
		if candidate >= threshold {
			return candidate % n, nil
		}
	}
}

// Int returns a uniformly distributed number from min to (incl.) max.
func (g *Generator) Int(min, max int64) (int64, error) {
	if min > max {
		return 0, fmt.Errorf("%w: %d > %d", ErrInvalidRange, min, max)
	}
	n, err := g.Uint64(uint64(max) - uint64(min))
	if err != nil {
		return 0, err
	}
	return int64(uint64(min) + n), nil
}

// String returns a random string of length characters taken from charset.
// An empty charset selects DefaultCharset. Charsets with more than
// MaxCharsetSize characters are rejected.
func (g *Generator) String(length int, charset string) (string, error) {
	if err := source.CheckSize(length); err != nil {
		return "", err
	}
	if charset == "" {
		charset = DefaultCharset
	}
	chars := []rune(charset)
	if len(chars) > MaxCharsetSize {
		return "", fmt.Errorf("%w: %d characters, at most %d are supported", ErrInvalidCharset, len(chars), MaxCharsetSize)
	}

	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		index, err := g.Uint64(uint64(len(chars) - 1))
		if err != nil {
			return "", err
		}
		sb.WriteRune(chars[index])
	}
	return sb.String(), nil
}

func (g *Generator) uint64() (uint64, error) {
	data, err := g.Generate(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(data), nil
}
