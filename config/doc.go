// Package config provides a registry of typed, validated configuration options.
//
// Options are registered once with their defaults and read through accessor
// functions that cache the current value until the configuration changes.
package config
