package config

import (
	"sync"

	"github.com/safing/entropy/log"
)

type (
	// StringOption returns the current value of a string option.
	StringOption func() string
	// IntOption returns the current value of an int option.
	IntOption func() int64
	// BoolOption returns the current value of a bool option.
	BoolOption func() bool
)

// GetAsString returns a function that returns the value of the string option
// key, or fallback if the option is missing or of another type.
func GetAsString(key string, fallback string) StringOption {
	return getAs(key, fallback, func(v interface{}) (string, bool) {
		s, ok := v.(string)
		return s, ok
	})
}

// GetAsInt returns a function that returns the value of the int option key,
// or fallback if the option is missing or of another type.
func GetAsInt(key string, fallback int64) IntOption {
	return getAs(key, fallback, toInt64)
}

// GetAsBool returns a function that returns the value of the bool option key,
// or fallback if the option is missing or of another type.
func GetAsBool(key string, fallback bool) BoolOption {
	return getAs(key, fallback, func(v interface{}) (bool, bool) {
		b, ok := v.(bool)
		return b, ok
	})
}

// getAs returns a getter that caches the converted value until the
// configuration changes. The getter is safe for concurrent use.
func getAs[T any](key string, fallback T, convert func(interface{}) (T, bool)) func() T {
	var (
		lock  sync.Mutex
		valid = getValidityFlag()
		value = lookup(key, fallback, convert)
	)
	return func() T {
		lock.Lock()
		defer lock.Unlock()

		if !valid.IsSet() {
			valid = getValidityFlag()
			value = lookup(key, fallback, convert)
		}
		return value
	}
}

func lookup[T any](key string, fallback T, convert func(interface{}) (T, bool)) T {
	raw := activeValue(key)
	if raw == nil {
		return fallback
	}
	if v, ok := convert(raw); ok {
		return v
	}
	return fallback
}

// activeValue returns the user value, the default layer or the registered
// default of key, in that order.
func activeValue(key string) interface{} {
	option, ok := getOption(key)
	if !ok {
		log.Errorf("config: request for unregistered option: %s", key)
		return nil
	}

	option.Lock()
	defer option.Unlock()

	switch {
	case option.activeValue != nil:
		return option.activeValue
	case option.activeDefaultValue != nil:
		return option.activeDefaultValue
	default:
		return option.DefaultValue
	}
}
