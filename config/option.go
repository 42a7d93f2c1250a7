package config

import (
	"regexp"
	"sync"
)

// Variable Type IDs for frontend Identification. Values over 100 are free for custom use.
const (
	OptTypeString uint8 = 1
	OptTypeInt    uint8 = 3
	OptTypeBool   uint8 = 4
)

// Expertise Levels.
const (
	ExpertiseLevelUser      uint8 = 1
	ExpertiseLevelExpert    uint8 = 2
	ExpertiseLevelDeveloper uint8 = 3
)

// Release Levels.
const (
	ReleaseLevelStable       uint8 = 0
	ReleaseLevelBeta         uint8 = 1
	ReleaseLevelExperimental uint8 = 2
)

func getTypeName(t uint8) string {
	switch t {
	case OptTypeString:
		return "string"
	case OptTypeInt:
		return "int"
	case OptTypeBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Option describes a configuration option.
type Option struct {
	sync.Mutex

	Name            string
	Key             string // category/sub/key
	Description     string
	OptType         uint8
	ExpertiseLevel  uint8
	ReleaseLevel    uint8
	DefaultValue    interface{}
	ValidationRegex string

	compiledRegex      *regexp.Regexp
	activeValue        interface{}
	activeDefaultValue interface{}
}
