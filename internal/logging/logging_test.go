package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected logrus.Level
	}{
		{"trace", logrus.TraceLevel},
		{"debug", logrus.DebugLevel},
		{"DEBUG", logrus.DebugLevel},
		{"info", logrus.InfoLevel},
		{"warn", logrus.WarnLevel},
		{"WARNING", logrus.WarnLevel},
		{" error ", logrus.ErrorLevel},
		{"unknown", logrus.InfoLevel},
		{"", logrus.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestNewTextLogger(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "warn", Output: &buf})

	l.Info("hidden")
	Component(l, "history").WithField("cursor", 3).Warn("replay failed")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line written at warn level: %q", out)
	}
	for _, want := range []string{"replay failed", "component=history", "cursor=3", "level=warning"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "debug", Format: FormatJSON, Output: &buf})
	l.WithField("tool", "fill").Debug("committed")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if line["tool"] != "fill" || line["msg"] != "committed" {
		t.Errorf("line = %v", line)
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	if l.IsLevelEnabled(logrus.ErrorLevel) {
		t.Error("Discard logger should not enable error level")
	}
}
