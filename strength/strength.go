// Package strength provides the ordered rating that describes how much an
// entropy source can be trusted.
//
// Levels are only ever compared, never combined arithmetically.
package strength

import (
	"errors"
	"fmt"
	"strings"
)

// Level is the strength rating of an entropy source.
type Level uint8

// Strength Levels, ordered from weakest to strongest.
const (
	VeryLow Level = iota + 1
	Low
	Medium
	High
	VeryHigh
)

// ErrUnknownLevel is returned when constructing a level from an unknown value.
var ErrUnknownLevel = errors.New("unknown strength level")

var names = map[Level]string{
	VeryLow:  "very low",
	Low:      "low",
	Medium:   "medium",
	High:     "high",
	VeryHigh: "very high",
}

// New returns the level with the given value, rejecting unknown values.
func New(value uint8) (Level, error) {
	l := Level(value)
	if !l.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownLevel, value)
	}
	return l, nil
}

// Parse returns the level with the given name, as returned by String.
// Dashes and underscores are accepted in place of spaces.
func Parse(name string) (Level, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.NewReplacer("-", " ", "_", " ").Replace(normalized)
	for l, levelName := range names {
		if levelName == normalized || strings.ReplaceAll(levelName, " ", "") == normalized {
			return l, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
}

// Valid returns whether the level is one of the defined levels.
func (l Level) Valid() bool {
	return l >= VeryLow && l <= VeryHigh
}

func (l Level) String() string {
	name, ok := names[l]
	if !ok {
		return fmt.Sprintf("unknown(%d)", uint8(l))
	}
	return name
}

// Compare returns -1 if l is weaker than other, 1 if it is stronger and 0 if both are equal.
func (l Level) Compare(other Level) int {
	switch {
	case l < other:
		return -1
	case l > other:
		return 1
	default:
		return 0
	}
}

// AtLeast returns whether l is as strong as other or stronger.
func (l Level) AtLeast(other Level) bool {
	return l >= other
}

// EntropyBits estimates how many bits of entropy n bytes from a source of
// this level carry. The estimate is used to decide when a feeder has
// gathered enough material.
func (l Level) EntropyBits(n int) int {
	if n <= 0 {
		return 0
	}
	switch l {
	case VeryLow:
		return n / 8
	case Low:
		return n / 2
	case Medium:
		return n * 2
	case High:
		return n * 4
	case VeryHigh:
		return n * 8
	default:
		return 0
	}
}

// Max returns the strongest of the given levels, or 0 if none are given.
func Max(levels ...Level) Level {
	var highest Level
	for _, l := range levels {
		if l > highest {
			highest = l
		}
	}
	return highest
}

// Min returns the weakest of the given levels, or 0 if none are given.
func Min(levels ...Level) Level {
	if len(levels) == 0 {
		return 0
	}
	lowest := levels[0]
	for _, l := range levels[1:] {
		if l < lowest {
			lowest = l
		}
	}
	return lowest
}
