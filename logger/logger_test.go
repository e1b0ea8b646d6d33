package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.Component() != "test-svc" {
		t.Errorf("expected component 'test-svc', got %q", l.Component())
	}
}

func TestNewInvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "invalid-level", Format: FormatJSON}, &buf, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
	l.Debug("hidden")
	l.Info("shown")
	if strings.Contains(buf.String(), "hidden") {
		t.Error("invalid level should fall back to info")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("expected info message to be written")
	}
}

func TestJSONOutputCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "debug", Format: FormatJSON}, &buf, "flatten")

	l.Debug("cursor opened", Fields(FieldDirection, "back", FieldCount, 3))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "cursor opened" {
		t.Errorf("unexpected message %v", entry["message"])
	}
	if entry[FieldComponent] != "flatten" {
		t.Errorf("expected component field, got %v", entry[FieldComponent])
	}
	if entry[FieldDirection] != "back" {
		t.Errorf("expected direction 'back', got %v", entry[FieldDirection])
	}
	if entry["level"] != "debug" {
		t.Errorf("expected level 'debug', got %v", entry["level"])
	}
}

func TestLevelsAreScopedPerLogger(t *testing.T) {
	var quiet, loud bytes.Buffer
	q := NewWithWriter(&Config{Level: "error", Format: FormatJSON}, &quiet, "q")
	l := NewWithWriter(&Config{Level: "debug", Format: FormatJSON}, &loud, "l")

	q.Info("dropped")
	l.Debug("kept")

	if quiet.Len() != 0 {
		t.Errorf("expected nothing below error, got %q", quiet.String())
	}
	if !strings.Contains(loud.String(), "kept") {
		t.Error("a quieter logger must not silence another one")
	}
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: FormatConsole, NoColor: true}, &buf, "svc")
	l.Warn("careful")
	out := buf.String()
	if !strings.Contains(out, "[WRN]") {
		t.Errorf("expected plain level tag, got %q", out)
	}
	if strings.Contains(out, "\033[") {
		t.Errorf("expected no color codes, got %q", out)
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	if l.DebugEnabled() {
		t.Error("nop logger should not enable debug")
	}
	l.Error("nothing happens")
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: FormatJSON}, &buf, "")
	cl := l.WithComponent("pipeline")
	if cl.Component() != "pipeline" {
		t.Errorf("expected component 'pipeline', got %q", cl.Component())
	}
	cl.Info("hello")
	if !strings.Contains(buf.String(), `"component":"pipeline"`) {
		t.Errorf("expected component field, got %q", buf.String())
	}
}

func TestWithFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: FormatJSON}, &buf, "")
	l.WithFields(map[string]interface{}{"key": "value"}).WithError(errors.New("boom")).Error("failed")

	out := buf.String()
	if !strings.Contains(out, `"key":"value"`) {
		t.Errorf("expected key field, got %q", out)
	}
	if !strings.Contains(out, `"error":"boom"`) {
		t.Errorf("expected error field, got %q", out)
	}
}

func TestGlobalLogger(t *testing.T) {
	globalLogger = nil
	if GetGlobalLogger() == nil {
		t.Fatal("expected default global logger to be created")
	}

	l := NewDefault("custom")
	SetGlobalLogger(l)
	if GetGlobalLogger() != l {
		t.Error("expected SetGlobalLogger to set the global logger")
	}

	Init(&Config{Level: "debug", Format: FormatConsole, Output: "stdout"})
	// These should not panic
	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	Error("error msg")
	if WithComponent("x") == nil {
		t.Error("expected component logger")
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != FormatConsole {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stdout" {
		t.Errorf("expected output 'stdout', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected Timestamp to be true")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json"}, false},
		{"valid console", Config{Level: "debug", Format: "console"}, false},
		{"valid stderr", Config{Level: "warn", Format: "json", Output: "stderr"}, false},
		{"invalid level", Config{Level: "bad", Format: "json"}, true},
		{"invalid format", Config{Level: "info", Format: "xml"}, true},
		{"invalid output", Config{Level: "info", Format: "json", Output: "file"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestFields(t *testing.T) {
	tests := []struct {
		name     string
		input    []interface{}
		expected map[string]interface{}
	}{
		{
			"key-value pairs",
			[]interface{}{"op", "drain", "count", 42},
			map[string]interface{}{"op": "drain", "count": 42},
		},
		{
			"odd number of args",
			[]interface{}{"op", "drain", "trailing"},
			map[string]interface{}{"op": "drain"},
		},
		{
			"empty",
			[]interface{}{},
			map[string]interface{}{},
		},
		{
			"non-string key skipped",
			[]interface{}{123, "value", "key", "val"},
			map[string]interface{}{"key": "val"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Fields(tc.input...)
			if len(result) != len(tc.expected) {
				t.Errorf("expected %d fields, got %d", len(tc.expected), len(result))
			}
			for k, v := range tc.expected {
				if result[k] != v {
					t.Errorf("Fields[%q] = %v, expected %v", k, result[k], v)
				}
			}
		})
	}
}

func TestErrorAndDurationFields(t *testing.T) {
	ef := ErrorFields("collect", errors.New("boom"))
	if ef[FieldOperation] != "collect" || ef[FieldError] != "boom" {
		t.Errorf("unexpected error fields %v", ef)
	}

	df := DurationFields("collect", 1500*time.Millisecond)
	if df[FieldDuration] != int64(1500) {
		t.Errorf("expected duration 1500, got %v", df[FieldDuration])
	}

	merged := MergeWithError(nil, errors.New("late"))
	if merged[FieldError] != "late" {
		t.Errorf("expected merged error, got %v", merged)
	}
}
