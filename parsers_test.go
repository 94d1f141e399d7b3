// parsers_test.go: Testing configuration file parsers
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import "testing"

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want ConfigFormat
	}{
		{"config.json", FormatJSON},
		{"config.yaml", FormatYAML},
		{"config.yml", FormatYAML},
		{"config.toml", FormatTOML},
		{"config.ini", FormatINI},
		{"app.conf", FormatINI},
		{"settings.cfg", FormatINI},
		{"app.properties", FormatProperties},
		{"CONFIG.JSON", FormatJSON},
		{"noextension", FormatUnknown},
		{"archive.tar.gz", FormatUnknown},
	}
	for _, tt := range tests {
		if got := DetectFormat(tt.path); got != tt.want {
			t.Errorf("DetectFormat(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestParseJSON(t *testing.T) {
	data := []byte(`{"logging": {"level": "Warning"}, "port": 8080}`)
	config, err := ParseConfig(data, FormatJSON)
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	logging := config["logging"].(map[string]interface{})
	if logging["level"] != "Warning" {
		t.Errorf("level = %v", logging["level"])
	}

	_, err = ParseConfig([]byte(`{broken`), FormatJSON)
	assertErrorCode(t, err, ErrCodeParse)
}

func TestParseYAML(t *testing.T) {
	data := []byte("logging:\n  level: Information\nport: 9090\n")
	config, err := ParseConfig(data, FormatYAML)
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	logging, ok := config["logging"].(map[string]interface{})
	if !ok {
		t.Fatalf("logging section missing or wrong type: %T", config["logging"])
	}
	if logging["level"] != "Information" {
		t.Errorf("level = %v", logging["level"])
	}

	// Empty document parses to an empty map, not nil.
	config, err = ParseConfig([]byte(""), FormatYAML)
	if err != nil {
		t.Fatalf("empty YAML failed: %v", err)
	}
	if config == nil {
		t.Error("empty YAML should yield an empty map")
	}
}

func TestParseTOML(t *testing.T) {
	data := []byte("# comment\ntitle = \"demo\"\n\n[logging]\nlevel = \"Error\"\nenabled = true\n")
	config, err := ParseConfig(data, FormatTOML)
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	if config["title"] != "demo" {
		t.Errorf("title = %v", config["title"])
	}
	if config["logging.level"] != "Error" {
		t.Errorf("logging.level = %v", config["logging.level"])
	}
	if config["logging.enabled"] != true {
		t.Errorf("logging.enabled = %v", config["logging.enabled"])
	}
}

func TestParseINI(t *testing.T) {
	data := []byte("; comment\nglobal = 1\n[server]\nhost = localhost\nport = 8080\n")
	config, err := ParseConfig(data, FormatINI)
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	if config["global"] != 1 {
		t.Errorf("global = %v", config["global"])
	}
	if config["server.host"] != "localhost" {
		t.Errorf("server.host = %v", config["server.host"])
	}
	if config["server.port"] != 8080 {
		t.Errorf("server.port = %v", config["server.port"])
	}
}

func TestParseProperties(t *testing.T) {
	data := []byte("# comment\napp.name=proteus\napp.level: Warning\napp.ratio=0.5\n")
	config, err := ParseConfig(data, FormatProperties)
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	if config["app.name"] != "proteus" {
		t.Errorf("app.name = %v", config["app.name"])
	}
	if config["app.level"] != "Warning" {
		t.Errorf("app.level = %v", config["app.level"])
	}
	if config["app.ratio"] != 0.5 {
		t.Errorf("app.ratio = %v", config["app.ratio"])
	}
}

func TestParseValueTypeDetection(t *testing.T) {
	tests := []struct {
		in   string
		want interface{}
	}{
		{"true", true},
		{"FALSE", false},
		{"42", 42},
		{"-7", -7},
		{"3.25", 3.25},
		{"hello", "hello"},
	}
	for _, tt := range tests {
		if got := parseValue(tt.in); got != tt.want {
			t.Errorf("parseValue(%q) = %v (%T), want %v (%T)", tt.in, got, got, tt.want, tt.want)
		}
	}
}

func TestParseConfigUnknownFormat(t *testing.T) {
	_, err := ParseConfig([]byte("x"), FormatUnknown)
	assertErrorCode(t, err, ErrCodeParse)
}
