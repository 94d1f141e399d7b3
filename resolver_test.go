// resolver_test.go: Testing the value resolution engine
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import (
	"net/url"
	"reflect"
	"testing"
	"time"

	"github.com/agilira/go-errors"
)

// testResolver builds a resolver with diagnostics disabled so tests never
// touch the shared diagnostic database.
func testResolver(t *testing.T, mutate ...func(*Config)) *Resolver {
	t.Helper()
	config := Config{
		Diagnostics: &DiagConfig{Enabled: false},
	}
	for _, m := range mutate {
		m(&config)
	}
	r, err := New(config)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	coder, ok := err.(errors.ErrorCoder)
	if !ok {
		t.Fatalf("expected ErrorCoder, got %T: %v", err, err)
	}
	if string(coder.ErrorCode()) != code {
		t.Errorf("expected code %s, got %s", code, coder.ErrorCode())
	}
}

func TestResolveStringGenericConversions(t *testing.T) {
	r := testResolver(t)

	tests := []struct {
		name   string
		raw    string
		target reflect.Type
		want   interface{}
	}{
		{"string", "hello", reflect.TypeOf(""), "hello"},
		{"int", "42", reflect.TypeOf(int(0)), 42},
		{"int64", "-7", reflect.TypeOf(int64(0)), int64(-7)},
		{"uint", "7", reflect.TypeOf(uint(0)), uint(7)},
		{"bool", "true", reflect.TypeOf(false), true},
		{"float", "3.5", reflect.TypeOf(float64(0)), 3.5},
		{"trimmed int", "  42  ", reflect.TypeOf(int(0)), 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ResolveString(tt.raw, tt.target)
			if err != nil {
				t.Fatalf("ResolveString(%q) failed: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ResolveString(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestResolveStringGenericFailures(t *testing.T) {
	r := testResolver(t)

	// Overflow is a conversion failure, not a silent truncation.
	if _, err := r.ResolveString("300", reflect.TypeOf(int8(0))); err == nil {
		t.Fatal("expected overflow error for int8")
	} else {
		assertErrorCode(t, err, ErrCodeConversion)
	}

	if _, err := r.ResolveString("abc", reflect.TypeOf(int(0))); err == nil {
		t.Fatal("expected error for non-numeric int")
	} else {
		assertErrorCode(t, err, ErrCodeConversion)
	}

	// A struct without a registered converter has no generic path.
	type opaque struct{ X int }
	if _, err := r.ResolveString("x", reflect.TypeOf(opaque{})); err == nil {
		t.Fatal("expected error for struct without converter")
	} else {
		assertErrorCode(t, err, ErrCodeConversion)
	}
}

func TestResolveNullableBlankYieldsTypedNil(t *testing.T) {
	r := testResolver(t)

	for _, raw := range []string{"", "   ", "\t"} {
		got, err := r.ResolveString(raw, reflect.TypeOf((*int)(nil)))
		if err != nil {
			t.Fatalf("ResolveString(%q) failed: %v", raw, err)
		}
		ptr, ok := got.(*int)
		if !ok {
			t.Fatalf("expected *int, got %T", got)
		}
		if ptr != nil {
			t.Errorf("expected nil *int for blank input %q, got %v", raw, *ptr)
		}
	}
}

func TestResolveNullableNonBlankBoxesInner(t *testing.T) {
	r := testResolver(t)

	got, err := r.ResolveString("42", reflect.TypeOf((*int)(nil)))
	if err != nil {
		t.Fatalf("ResolveString failed: %v", err)
	}
	ptr := got.(*int)
	if ptr == nil || *ptr != 42 {
		t.Errorf("expected *int pointing at 42, got %v", ptr)
	}

	// Inner failure stays terminal.
	if _, err := r.ResolveString("abc", reflect.TypeOf((*int)(nil))); err == nil {
		t.Fatal("expected error for non-numeric nullable int")
	}
}

func TestResolveNullableLevel(t *testing.T) {
	r := testResolver(t)

	got, err := r.ResolveString("Warning", reflect.TypeOf((*Level)(nil)))
	if err != nil {
		t.Fatalf("ResolveString failed: %v", err)
	}
	ptr := got.(*Level)
	if ptr == nil || *ptr != LevelWarning {
		t.Errorf("expected *Level Warning, got %v", ptr)
	}
}

func TestResolveEnumLevel(t *testing.T) {
	r := testResolver(t)

	got, err := r.ResolveString("Information", reflect.TypeOf(LevelVerbose))
	if err != nil {
		t.Fatalf("ResolveString failed: %v", err)
	}
	if got.(Level) != LevelInformation {
		t.Errorf("expected Information, got %v", got)
	}

	// Case-insensitive fallback.
	got, err = r.ResolveString("warning", reflect.TypeOf(LevelVerbose))
	if err != nil {
		t.Fatalf("case-insensitive parse failed: %v", err)
	}
	if got.(Level) != LevelWarning {
		t.Errorf("expected Warning, got %v", got)
	}

	// Unknown member is a terminal parse failure, not a fall-through.
	if _, err := r.ResolveString("NotALevel", reflect.TypeOf(LevelVerbose)); err == nil {
		t.Fatal("expected parse error for unknown enum member")
	} else {
		assertErrorCode(t, err, ErrCodeParse)
	}
}

func TestResolveRegisteredConverterBeatsGeneric(t *testing.T) {
	r := testResolver(t)

	got, err := r.ResolveString("2500ms", reflect.TypeOf(time.Duration(0)))
	if err != nil {
		t.Fatalf("duration resolution failed: %v", err)
	}
	if got.(time.Duration) != 2500*time.Millisecond {
		t.Errorf("expected 2.5s, got %v", got)
	}

	// Converter failure is terminal with a conversion code.
	if _, err := r.ResolveString("not-a-duration", reflect.TypeOf(time.Duration(0))); err == nil {
		t.Fatal("expected converter error")
	} else {
		assertErrorCode(t, err, ErrCodeConversion)
	}
}

func TestResolveURLConverter(t *testing.T) {
	r := testResolver(t)

	got, err := r.ResolveString("https://example.com/path", reflect.TypeOf((*url.URL)(nil)))
	if err != nil {
		t.Fatalf("URL resolution failed: %v", err)
	}
	u, ok := got.(*url.URL)
	if !ok {
		t.Fatalf("expected *url.URL, got %T", got)
	}
	if u.Host != "example.com" {
		t.Errorf("expected host example.com, got %s", u.Host)
	}
}

func TestResolveEnvironmentExpansion(t *testing.T) {
	r := testResolver(t)
	t.Setenv("PROTEUS_TEST_LEVEL", "Warning")

	got, err := r.ResolveString("%PROTEUS_TEST_LEVEL%", reflect.TypeOf(LevelVerbose))
	if err != nil {
		t.Fatalf("expanded resolution failed: %v", err)
	}
	if got.(Level) != LevelWarning {
		t.Errorf("expected Warning via environment, got %v", got)
	}
}

func TestResolveUnresolvedEnvReferenceStaysLiteral(t *testing.T) {
	r := testResolver(t)

	got, err := r.ResolveString("%PROTEUS_DEFINITELY_UNSET%", reflect.TypeOf(""))
	if err != nil {
		t.Fatalf("ResolveString failed: %v", err)
	}
	if got != "%PROTEUS_DEFINITELY_UNSET%" {
		t.Errorf("unresolved reference should stay literal, got %q", got)
	}
}

type greeter interface{ Greet() string }

type englishGreeter struct{}

func (englishGreeter) Greet() string { return "hello" }

func TestResolveIndirectAccessorForInterface(t *testing.T) {
	r := testResolver(t)

	if err := r.Types().RegisterValue("Greetings", "Default", englishGreeter{}); err != nil {
		t.Fatalf("RegisterValue failed: %v", err)
	}

	target := reflect.TypeOf((*greeter)(nil)).Elem()
	got, err := r.ResolveString("Greetings::Default", target)
	if err != nil {
		t.Fatalf("indirect resolution failed: %v", err)
	}
	if got.(greeter).Greet() != "hello" {
		t.Error("resolved value does not behave as registered")
	}
}

func TestResolveIndirectTypeNameConstruction(t *testing.T) {
	r := testResolver(t)

	if err := r.Types().RegisterType("EnglishGreeter", func() (interface{}, error) {
		return englishGreeter{}, nil
	}); err != nil {
		t.Fatalf("RegisterType failed: %v", err)
	}

	target := reflect.TypeOf((*greeter)(nil)).Elem()
	got, err := r.ResolveString("EnglishGreeter", target)
	if err != nil {
		t.Fatalf("type-name resolution failed: %v", err)
	}
	if _, ok := got.(englishGreeter); !ok {
		t.Errorf("expected englishGreeter instance, got %T", got)
	}
}

func TestResolveIndirectAccessorFailureIsTerminal(t *testing.T) {
	r := testResolver(t)

	target := reflect.TypeOf((*greeter)(nil)).Elem()

	// Accessor grammar matched but type unknown: fatal, never falls through.
	_, err := r.ResolveString("Missing::Member", target)
	assertErrorCode(t, err, ErrCodeResolution)
}

func TestResolveUnknownNameFallsThroughForAny(t *testing.T) {
	r := testResolver(t)

	// Neither accessor nor registered type name: for a bare interface{}
	// target the engine falls through to the generic strategy, which
	// passes the string along.
	got, err := r.ResolveString("just a plain value", reflect.TypeOf((*interface{})(nil)).Elem())
	if err != nil {
		t.Fatalf("fall-through resolution failed: %v", err)
	}
	if got != "just a plain value" {
		t.Errorf("expected raw string, got %v", got)
	}
}

func TestResolveIndirectMismatchRejected(t *testing.T) {
	r := testResolver(t)

	if err := r.Types().RegisterValue("Numbers", "Answer", 42); err != nil {
		t.Fatalf("RegisterValue failed: %v", err)
	}

	target := reflect.TypeOf((*greeter)(nil)).Elem()
	_, err := r.ResolveString("Numbers::Answer", target)
	assertErrorCode(t, err, ErrCodeResolution)
}

func TestResolveLevelSwitchFromStaticSource(t *testing.T) {
	r := testResolver(t)

	got, err := r.Resolve(StaticSource("Debug"), reflect.TypeOf((*LevelSwitch)(nil)))
	if err != nil {
		t.Fatalf("level switch resolution failed: %v", err)
	}
	sw, ok := got.(*LevelSwitch)
	if !ok {
		t.Fatalf("expected *LevelSwitch, got %T", got)
	}
	if sw.Level() != LevelDebug {
		t.Errorf("expected Debug, got %v", sw.Level())
	}
	if sw.Bound() {
		t.Error("static source must yield an unbound switch")
	}
}

func TestResolveNamedStringType(t *testing.T) {
	type hostname string
	r := testResolver(t)

	got, err := r.ResolveString("db.internal", reflect.TypeOf(hostname("")))
	if err != nil {
		t.Fatalf("named string resolution failed: %v", err)
	}
	if got.(hostname) != "db.internal" {
		t.Errorf("expected db.internal, got %v", got)
	}
}
