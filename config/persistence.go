package config

import (
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/safing/entropy/log"
)

// LoadFile reads a hierarchical json config file and applies it to the user defined config.
func LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return LoadJSON(data)
}

// SaveFile writes all user defined values to a hierarchical json config file.
func SaveFile(path string) error {
	data, err := ExportJSON()
	if err != nil {
		log.Errorf("config: failed to save config: %s", err)
		return err
	}
	return os.WriteFile(path, data, 0o0600)
}

// LoadJSON parses a hierarchical json object and applies it to the user defined config.
func LoadJSON(jsonData []byte) error {
	values, err := JSONToMap(jsonData)
	if err != nil {
		return err
	}
	return setConfig(values)
}

// JSONToMap parses and flattens a hierarchical json object.
func JSONToMap(jsonData []byte) (map[string]interface{}, error) {
	if !gjson.ValidBytes(jsonData) {
		return nil, ErrInvalidJSON
	}
	parsed := gjson.ParseBytes(jsonData)
	if !parsed.IsObject() {
		return nil, ErrInvalidJSON
	}

	loaded := make(map[string]interface{})
	flatten(loaded, parsed, "")
	return loaded, nil
}

func flatten(rootMap map[string]interface{}, subMap gjson.Result, subKey string) {
	subMap.ForEach(func(key, value gjson.Result) bool {
		// get next level key
		subbedKey := key.String()
		if subKey != "" {
			subbedKey = subKey + "/" + subbedKey
		}

		// check for next subMap
		if value.IsObject() {
			flatten(rootMap, value, subbedKey)
		} else {
			rootMap[subbedKey] = value.Value()
		}
		return true
	})
}

// ExportJSON returns all user defined values as a hierarchical json object.
func ExportJSON() ([]byte, error) {
	data := []byte("{}")

	optionsLock.RLock()
	defer optionsLock.RUnlock()

	var err error
	for key, option := range options {
		option.Lock()
		value := option.activeValue
		option.Unlock()
		if value == nil {
			continue
		}

		data, err = sjson.SetBytes(data, toJSONPath(key), value)
		if err != nil {
			return nil, err
		}
	}

	return data, nil
}

func toJSONPath(key string) string {
	escaped := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`).Replace(key)
	return strings.ReplaceAll(escaped, "/", ".")
}
