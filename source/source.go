// Package source defines the capability every entropy source provides.
//
// Sources are leaf producers of unpredictable bytes, each rated with a
// strength level. They are meant to be combined by an aggregator, which
// ranks them by strength and mixes their output.
package source

import (
	"errors"
	"fmt"
	"sync"

	"github.com/safing/entropy/strength"
)

// ErrInvalidSize is returned when a negative amount of bytes is requested.
var ErrInvalidSize = errors.New("invalid size")

// Source is an entropy source.
//
// Generate must return exactly size bytes. A single instance is not
// required to be safe for concurrent use; wrap it with Locked if it is
// shared.
type Source interface {
	// Strength reports the strength of the source. It is free of side effects.
	Strength() strength.Level
	// Generate returns size bytes.
	Generate(size int) ([]byte, error)
}

// Namer may be implemented by sources to provide a name for logs and metrics.
type Namer interface {
	Name() string
}

// CheckSize returns ErrInvalidSize if size is negative.
func CheckSize(size int) error {
	if size < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return nil
}

// Name returns the name of the source, falling back to its type.
func Name(src Source) string {
	if namer, ok := src.(Namer); ok {
		return namer.Name()
	}
	return fmt.Sprintf("%T", src)
}

type locked struct {
	lock sync.Mutex
	src  Source
}

// Locked returns a Source that serializes all calls to Generate of src.
// Sources that are already locked are returned as is.
//
// Every call with a source that is not locked yet returns a new wrapper
// with its own mutex. To share a source between several users, such as
// two generators or a generator and the rng, lock it once and hand the
// returned value to all of them.
func Locked(src Source) Source {
	if l, ok := src.(*locked); ok {
		return l
	}
	return &locked{src: src}
}

func (l *locked) Strength() strength.Level {
	return l.src.Strength()
}

func (l *locked) Generate(size int) ([]byte, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	return l.src.Generate(size)
}

func (l *locked) Name() string {
	return Name(l.src)
}
