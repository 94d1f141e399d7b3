// parsers.go: Configuration file parsers for file-backed sources
//
// Supported formats:
// - JSON (.json)
// - YAML (.yml, .yaml) via go.yaml.in/yaml/v3
// - TOML (.toml) - flat key/value subset
// - INI (.ini, .conf, .cfg) - flat sections
// - Properties (.properties)
//
// A file source only ever needs one scalar string per key, so the TOML,
// INI and properties parsers deliberately cover the flat subset rather
// than the full grammars.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import (
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/agilira/go-errors"
	"go.yaml.in/yaml/v3"
)

// ConfigFormat identifies a configuration file format.
type ConfigFormat int

const (
	FormatJSON ConfigFormat = iota
	FormatYAML
	FormatTOML
	FormatINI
	FormatProperties
	FormatUnknown
)

func (cf ConfigFormat) String() string {
	switch cf {
	case FormatJSON:
		return "JSON"
	case FormatYAML:
		return "YAML"
	case FormatTOML:
		return "TOML"
	case FormatINI:
		return "INI"
	case FormatProperties:
		return "Properties"
	default:
		return "Unknown"
	}
}

// DetectFormat maps a file path to its configuration format by extension.
func DetectFormat(filePath string) ConfigFormat {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".json":
		return FormatJSON
	case ".yml", ".yaml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".ini", ".conf", ".cfg":
		return FormatINI
	case ".properties":
		return FormatProperties
	default:
		return FormatUnknown
	}
}

// ParseConfig parses raw file bytes into a configuration map.
func ParseConfig(data []byte, format ConfigFormat) (map[string]interface{}, error) {
	switch format {
	case FormatJSON:
		return parseJSON(data)
	case FormatYAML:
		return parseYAML(data)
	case FormatTOML:
		return parseTOML(data)
	case FormatINI:
		return parseINI(data)
	case FormatProperties:
		return parseProperties(data)
	default:
		return nil, errors.New(ErrCodeParse, "unsupported configuration format").
			WithContext("format", format.String())
	}
}

func parseJSON(data []byte) (map[string]interface{}, error) {
	var config map[string]interface{}
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(err, ErrCodeParse, "invalid JSON configuration")
	}
	return config, nil
}

func parseYAML(data []byte) (map[string]interface{}, error) {
	var config map[string]interface{}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(err, ErrCodeParse, "invalid YAML configuration")
	}
	if config == nil {
		config = make(map[string]interface{})
	}
	return config, nil
}

// parseTOML covers the flat key/value subset with [section] prefixes.
func parseTOML(data []byte) (map[string]interface{}, error) {
	config := make(map[string]interface{})
	section := ""
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSpace(line[1 : len(line)-1])
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"`)
		if section != "" {
			key = section + "." + key
		}
		config[key] = parseValue(value)
	}
	return config, nil
}

func parseINI(data []byte) (map[string]interface{}, error) {
	config := make(map[string]interface{})
	section := ""
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSpace(line[1 : len(line)-1])
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if section != "" {
			key = section + "." + key
		}
		config[key] = parseValue(value)
	}
	return config, nil
}

func parseProperties(data []byte) (map[string]interface{}, error) {
	config := make(map[string]interface{})
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		sep := strings.IndexAny(line, "=:")
		if sep < 0 {
			continue
		}
		key := strings.TrimSpace(line[:sep])
		value := strings.TrimSpace(line[sep+1:])
		config[key] = parseValue(value)
	}
	return config, nil
}

// parseValue detects booleans, integers and floats; everything else
// stays a string.
func parseValue(value string) interface{} {
	switch strings.ToLower(value) {
	case "true":
		return true
	case "false":
		return false
	}
	if intVal, err := strconv.Atoi(value); err == nil {
		return intVal
	}
	if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
		return floatVal
	}
	return value
}
