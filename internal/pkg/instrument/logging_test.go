package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return out
}

func TestHandlerKeysAndCorrelation(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, "gomodoro", nil, nil))

	ctx := SetCorrelationID(context.Background(), "cid-1")
	logger.InfoContext(ctx, "timer started", "status", "running")

	line := decodeLine(t, &buf)
	for _, key := range []string{"ts", "severity", "msg"} {
		if _, ok := line[key]; !ok {
			t.Errorf("missing key %q in %v", key, line)
		}
	}
	if line["_cID"] != "cid-1" {
		t.Errorf("_cID = %v, want cid-1", line["_cID"])
	}
	if line["service"] != "gomodoro" {
		t.Errorf("service = %v", line["service"])
	}
}

func TestHandlerMasksFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, "gomodoro", nil, []string{" Password ", "token"}))

	logger.Info("request",
		"password", "hunter2",
		"body", `{"token":"abc","seconds":10}`,
		slog.Group("nested", slog.String("TOKEN", "xyz")),
	)

	line := decodeLine(t, &buf)
	if line["password"] != maskedValue {
		t.Errorf("password = %v", line["password"])
	}
	if line["body"] != `{"seconds":10,"token":"***"}` {
		t.Errorf("body = %v", line["body"])
	}
	nested, _ := line["nested"].(map[string]any)
	if nested["TOKEN"] != maskedValue {
		t.Errorf("nested = %v", nested)
	}
}

func TestGetCorrelationIDEmpty(t *testing.T) {
	if got := GetCorrelationID(context.Background()); got != "" {
		t.Errorf("GetCorrelationID() = %q, want empty", got)
	}
}
