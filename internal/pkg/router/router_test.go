package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/gomodoro/internal/pkg/config"
	"github.com/shandysiswandi/gomodoro/internal/pkg/goerror"
	"github.com/shandysiswandi/gomodoro/internal/pkg/instrument"
	"github.com/shandysiswandi/gomodoro/internal/pkg/validator"
)

type fixedID string

func (f fixedID) Generate() string { return string(f) }

func newTestRouter(t *testing.T, yaml string) *Router {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	return NewRouter(Config{Config: cfg, UUID: fixedID("cid-test"), Instrument: instrument.NewNoop()})
}

func serve(ro *Router, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	ro := newTestRouter(t, "app:\n  version: 1.2.3\n")

	rec := serve(ro, http.MethodGet, "/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != "ok" || got.Version != "1.2.3" {
		t.Errorf("health = %+v", got)
	}
}

func TestEndpointEnvelope(t *testing.T) {
	ro := newTestRouter(t, "app: {}")
	ro.GET("/ok", func(*Request) (any, error) { return map[string]int{"remaining": 10}, nil })

	rec := serve(ro, http.MethodGet, "/ok", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get(HeaderCorrelationID) != "cid-test" {
		t.Errorf("correlation header = %q", rec.Header().Get(HeaderCorrelationID))
	}
	var env struct {
		Message string         `json:"message"`
		Data    map[string]int `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data["remaining"] != 10 || env.Message == "" {
		t.Errorf("envelope = %+v", env)
	}
}

func TestEndpointErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
		wantField  string
	}{
		{name: "invalid format", err: goerror.NewInvalidFormat("seconds is required"), wantStatus: http.StatusBadRequest, wantMsg: "seconds is required"},
		{name: "validation", err: goerror.NewInvalidInput(validator.V10ValidationError{"workDuration": "too big"}), wantStatus: http.StatusUnprocessableEntity, wantMsg: "Validation error", wantField: "workDuration"},
		{name: "unknown", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantMsg: "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ro := newTestRouter(t, "app: {}")
			ro.POST("/fail", func(*Request) (any, error) { return nil, tt.err })

			rec := serve(ro, http.MethodPost, "/fail", "")

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var env errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", env.Message, tt.wantMsg)
			}
			if tt.wantField != "" && env.Error[tt.wantField] == "" {
				t.Errorf("missing field %q in %v", tt.wantField, env.Error)
			}
		})
	}
}

func TestRecoverer(t *testing.T) {
	ro := newTestRouter(t, "app: {}")
	ro.GET("/panic", func(*Request) (any, error) { panic("boom") })

	rec := serve(ro, http.MethodGet, "/panic", "")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestMaintenance(t *testing.T) {
	ro := newTestRouter(t, "app:\n  maintenance:\n    endpoints: /api/v1/timer/start\n")
	ro.POST("/api/v1/timer/start", func(*Request) (any, error) { return map[string]string{}, nil })

	rec := serve(ro, http.MethodPost, "/api/v1/timer/start", "")

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestDecodeBody(t *testing.T) {
	type payload struct {
		Duration any `json:"duration"`
	}

	tests := []struct {
		name     string
		body     string
		optional bool
		lenient  bool
		wantErr  bool
	}{
		{name: "valid", body: `{"duration": 60}`},
		{name: "empty optional", body: "", optional: true},
		{name: "empty required", body: "", wantErr: true},
		{name: "unknown field", body: `{"foo": 1}`, wantErr: true},
		{name: "trailing data", body: `{"duration": 1}{}`, wantErr: true},
		{name: "malformed", body: `{"duration":`, optional: true, wantErr: true},
		{name: "lenient unknown field", body: `{"duration": 1, "foo": 1}`, lenient: true},
		{name: "lenient empty", body: "", lenient: true},
		{name: "lenient malformed", body: `{"duration":`, lenient: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &Request{Request: httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))}
			var dst payload

			var err error
			switch {
			case tt.lenient:
				err = req.DecodeBodyLenient(&dst)
			case tt.optional:
				err = req.DecodeBodyOptional(&dst)
			default:
				err = req.DecodeBody(&dst)
			}

			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRealIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := realIP(req); got != "203.0.113.9" {
		t.Errorf("realIP = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	if got := realIP(req); got != "192.0.2.1" {
		t.Errorf("realIP = %q", got)
	}
}
