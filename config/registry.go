package config

import (
	"regexp"
	"sort"
	"sync"
)

var (
	optionsLock sync.RWMutex
	options     = make(map[string]*Option)
)

// Register registers a new configuration option.
func Register(option *Option) error {
	if option.Name == "" {
		return newInvalidOptionError("name is required", nil)
	}
	if option.Key == "" {
		return newInvalidOptionError("key is required", nil)
	}
	if option.Description == "" {
		return newInvalidOptionError("description is required", nil)
	}
	if option.OptType == 0 {
		return newInvalidOptionError("type is required", nil)
	}
	if option.ExpertiseLevel == 0 {
		option.ExpertiseLevel = ExpertiseLevelUser
	}

	var err error
	if option.ValidationRegex != "" {
		option.compiledRegex, err = regexp.Compile(option.ValidationRegex)
		if err != nil {
			return newInvalidOptionError("validation regex failed to compile", err)
		}
	}

	if option.DefaultValue != nil {
		if _, err := validateValue(option, option.DefaultValue); err != nil {
			return newInvalidOptionError("default value is invalid", err)
		}
	}

	optionsLock.Lock()
	defer optionsLock.Unlock()

	// re-registering is fine as long as the type stays the same
	if existing, ok := options[option.Key]; ok && existing.OptType != option.OptType {
		return newInvalidOptionError("option "+option.Key+" already registered with type "+getTypeName(existing.OptType), nil)
	}
	options[option.Key] = option

	signalChanges()
	return nil
}

func getOption(key string) (*Option, bool) {
	optionsLock.RLock()
	defer optionsLock.RUnlock()

	option, ok := options[key]
	return option, ok
}

// Keys returns the keys of all registered options in sorted order.
func Keys() []string {
	optionsLock.RLock()
	defer optionsLock.RUnlock()

	keys := make([]string, 0, len(options))
	for key := range options {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
