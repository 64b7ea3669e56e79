package telemetry

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func TestInfoWritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	Configure(&buf, "json", "info")
	defer Configure(os.Stdout, "json", "info")

	Info("request.complete", map[string]any{"status": 200, "path": "/analyze"})

	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &payload); err != nil {
		t.Fatalf("decode log json: %v (%q)", err, buf.String())
	}
	for _, key := range []string{"ts", "level", "msg", "status", "path"} {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing log field: %s", key)
		}
	}
	if payload["msg"] != "request.complete" {
		t.Fatalf("unexpected msg: %v", payload["msg"])
	}
	if payload["level"] != "info" {
		t.Fatalf("unexpected level: %v", payload["level"])
	}
}

func TestLevelFiltersInfo(t *testing.T) {
	var buf bytes.Buffer
	Configure(&buf, "json", "error")
	defer Configure(os.Stdout, "json", "info")

	Info("dropped", nil)
	Error("kept", map[string]any{"err": "boom"})

	out := strings.TrimSpace(buf.String())
	if strings.Contains(out, "dropped") {
		t.Fatalf("info line should be filtered: %s", out)
	}
	if !strings.Contains(out, `"kept"`) {
		t.Fatalf("expected error line, got %s", out)
	}
}
