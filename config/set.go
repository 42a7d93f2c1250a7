package config

import (
	"fmt"
	"sync"

	"github.com/tevino/abool"
)

var (
	validityFlag     = abool.NewBool(true)
	validityFlagLock sync.RWMutex
)

// getValidityFlag returns a flag that signifies if the configuration has been changed. This flag must not be changed, only read.
func getValidityFlag() *abool.AtomicBool {
	validityFlagLock.RLock()
	defer validityFlagLock.RUnlock()
	return validityFlag
}

// signalChanges marks the configs validtityFlag as dirty.
func signalChanges() {
	validityFlagLock.Lock()
	defer validityFlagLock.Unlock()

	validityFlag.SetTo(false)
	validityFlag = abool.NewBool(true)
}

// SetConfigOption sets a single value in the (prioritized) user defined config.
func SetConfigOption(key string, value interface{}) error {
	return setConfigOption(key, value, false)
}

// SetDefaultConfigOption sets a single value in the (fallback) default config.
func SetDefaultConfigOption(key string, value interface{}) error {
	return setConfigOption(key, value, true)
}

// ResetConfigOption removes the user defined value of an option.
func ResetConfigOption(key string) error {
	option, ok := getOption(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOption, key)
	}

	option.Lock()
	option.activeValue = nil
	option.Unlock()

	signalChanges()
	return nil
}

func setConfigOption(key string, value interface{}, asDefault bool) error {
	option, ok := getOption(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOption, key)
	}

	option.Lock()
	if value == nil {
		if asDefault {
			option.activeDefaultValue = nil
		} else {
			option.activeValue = nil
		}
		option.Unlock()
		signalChanges()
		return nil
	}

	validated, err := validateValue(option, value)
	if err == nil {
		if asDefault {
			option.activeDefaultValue = validated
		} else {
			option.activeValue = validated
		}
	}
	option.Unlock()
	if err != nil {
		return err
	}

	signalChanges()
	return nil
}

// setConfig applies a flattened map of values to the user defined config.
func setConfig(newValues map[string]interface{}) error {
	var firstErr error
	var errCnt int

	for key, value := range newValues {
		if err := setConfigOption(key, value, false); err != nil {
			errCnt++
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if firstErr != nil {
		if errCnt > 1 {
			return fmt.Errorf("encountered %d errors, first was: %w", errCnt, firstErr)
		}
		return firstErr
	}
	return nil
}
