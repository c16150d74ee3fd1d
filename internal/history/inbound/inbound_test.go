package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shandysiswandi/gomodoro/internal/history/entity"
	"github.com/shandysiswandi/gomodoro/internal/history/usecase"
	"github.com/shandysiswandi/gomodoro/internal/pkg/config"
	"github.com/shandysiswandi/gomodoro/internal/pkg/goerror"
	"github.com/shandysiswandi/gomodoro/internal/pkg/goroutine"
	"github.com/shandysiswandi/gomodoro/internal/pkg/instrument"
	"github.com/shandysiswandi/gomodoro/internal/pkg/messaging"
	"github.com/shandysiswandi/gomodoro/internal/pkg/router"
	"github.com/shandysiswandi/gomodoro/internal/pkg/uid"
	"github.com/shandysiswandi/gomodoro/internal/shared/event"
)

var completedAt = time.Date(2025, 8, 27, 12, 0, 0, 0, time.UTC)

type fakeUC struct {
	mu        sync.Mutex
	consumed  []usecase.ConsumeTimerCompletedInput
	cIDs      []string
	limit     int32
	consumeFn func(usecase.ConsumeTimerCompletedInput) error
	exportErr error
}

func (f *fakeUC) ConsumeTimerCompleted(ctx context.Context, in usecase.ConsumeTimerCompletedInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.consumed = append(f.consumed, in)
	f.cIDs = append(f.cIDs, instrument.GetCorrelationID(ctx))
	if f.consumeFn != nil {
		return f.consumeFn(in)
	}
	return nil
}

func (f *fakeUC) received() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.consumed)
}

func (f *fakeUC) ListHistory(_ context.Context, in usecase.ListHistoryInput) ([]entity.Entry, error) {
	f.limit = in.Limit
	return []entity.Entry{{
		ID: 1234567890123456789, EventID: "evt-1", SessionType: "work", DurationSeconds: 1500, PomodoroCount: 4, CompletedAt: completedAt,
	}}, nil
}

func (*fakeUC) GetStats(context.Context) (entity.Stats, error) {
	return entity.Stats{
		Totals: entity.Totals{
			TotalSessions:  2,
			TotalSeconds:   1800,
			TotalPomodoros: 1,
			WorkSeconds:    1500,
			BreakSeconds:   300,
			TodaySessions:  1,
			TodaySeconds:   300,
		},
		AverageSeconds: 900,
	}, nil
}

func (f *fakeUC) ExportHistory(context.Context) (entity.Export, error) {
	if f.exportErr != nil {
		return entity.Export{}, f.exportErr
	}
	return entity.Export{Key: "exports/h.csv", URL: "https://files.test/exports/h.csv", Rows: 1, ExpiresAt: completedAt}, nil
}

func newRouter(t *testing.T, f *fakeUC) *router.Router {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("app: {}"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	ro := router.NewRouter(router.Config{Config: cfg, UUID: uid.NewUUID(), Instrument: instrument.NewNoop()})
	RegisterHTTPEndpoint(ro, f)

	return ro
}

func serve(ro *router.Router, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestHTTPEndpoint_ListHistory(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := &fakeUC{}
		rec := serve(newRouter(t, f), http.MethodGet, "/api/v1/history?limit=5")

		if rec.Code != http.StatusOK || f.limit != 5 {
			t.Fatalf("code = %d, limit = %d", rec.Code, f.limit)
		}
		var got struct {
			Data ListHistoryResponse `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		want := ListHistoryResponse{Entries: []HistoryEntryResponse{{
			ID: "1234567890123456789", EventID: "evt-1", SessionType: "work", DurationSeconds: 1500, PomodoroCount: 4, CompletedAt: completedAt,
		}}}
		if diff := cmp.Diff(want, got.Data); diff != "" {
			t.Fatalf("response mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("InvalidLimit", func(t *testing.T) {
		rec := serve(newRouter(t, &fakeUC{}), http.MethodGet, "/api/v1/history?limit=abc")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("code = %d, want 400", rec.Code)
		}
	})
}

func TestHTTPEndpoint_GetStats(t *testing.T) {
	rec := serve(newRouter(t, &fakeUC{}), http.MethodGet, "/api/v1/history/stats")

	var got struct {
		Data StatsResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := StatsResponse{
		TotalSessions:  2,
		TotalSeconds:   1800,
		TotalPomodoros: 1,
		TotalWorkTime:  1500,
		TotalBreakTime: 300,
		TodaySessions:  1,
		TodaySeconds:   300,
		AverageSeconds: 900,
	}
	if rec.Code != http.StatusOK || got.Data != want {
		t.Fatalf("code = %d, stats = %+v", rec.Code, got.Data)
	}
}

func TestHTTPEndpoint_ExportHistory(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		rec := serve(newRouter(t, &fakeUC{}), http.MethodPost, "/api/v1/history/export")

		var got struct {
			Data ExportResponse `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if rec.Code != http.StatusOK || got.Data.URL != "https://files.test/exports/h.csv" || got.Data.Rows != 1 {
			t.Fatalf("code = %d, export = %+v", rec.Code, got.Data)
		}
	})

	t.Run("Unavailable", func(t *testing.T) {
		f := &fakeUC{exportErr: goerror.NewUnavailable("history export is not configured")}
		rec := serve(newRouter(t, f), http.MethodPost, "/api/v1/history/export")

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("code = %d, want 503", rec.Code)
		}
	})
}

func TestMQHandler_TimerCompletedHistory(t *testing.T) {
	body, err := json.Marshal(event.TimerCompletedMessage{ID: "evt-1", DurationSeconds: 1500, CompletedAt: completedAt})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	tests := []struct {
		name      string
		msg       messaging.Message
		consumeFn func(usecase.ConsumeTimerCompletedInput) error
		wantErr   bool
		wantCalls int
	}{
		{
			name:      "Success",
			msg:       messaging.Message{Body: body, Headers: map[string]string{"cID": "cid-1"}},
			wantCalls: 1,
		},
		{
			name:      "BadPayloadIsDropped",
			msg:       messaging.Message{Body: []byte("{")},
			wantCalls: 0,
		},
		{
			name: "InvalidInputIsDropped",
			msg:  messaging.Message{Body: body},
			consumeFn: func(usecase.ConsumeTimerCompletedInput) error {
				return goerror.NewInvalidInput(errors.New("bad"))
			},
			wantCalls: 1,
		},
		{
			name: "ServerErrorIsRetried",
			msg:  messaging.Message{Body: body},
			consumeFn: func(usecase.ConsumeTimerCompletedInput) error {
				return goerror.NewServer(errors.New("db down"))
			},
			wantErr:   true,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := &fakeUC{consumeFn: tt.consumeFn}
			h := &MQHandler{uc: f, uuid: uid.NewUUID(), ins: instrument.NewNoop()}

			// Act
			err := h.TimerCompletedHistory(context.Background(), tt.msg)

			// Assert
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if f.received() != tt.wantCalls {
				t.Fatalf("calls = %d, want %d", f.received(), tt.wantCalls)
			}
		})
	}

	t.Run("CorrelationID", func(t *testing.T) {
		f := &fakeUC{}
		h := &MQHandler{uc: f, uuid: uid.NewUUID(), ins: instrument.NewNoop()}

		_ = h.TimerCompletedHistory(context.Background(), messaging.Message{Body: body, Headers: map[string]string{"cID": "cid-1"}})
		_ = h.TimerCompletedHistory(context.Background(), messaging.Message{Body: body})

		if f.cIDs[0] != "cid-1" || f.cIDs[1] == "" {
			t.Fatalf("correlation ids = %q", f.cIDs)
		}
		want := usecase.ConsumeTimerCompletedInput{EventID: "evt-1", SessionType: "work", DurationSeconds: 1500, CompletedAt: completedAt}
		if diff := cmp.Diff(want, f.consumed[0]); diff != "" {
			t.Fatalf("input mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("CarriesSession", func(t *testing.T) {
		// Arrange
		f := &fakeUC{}
		h := &MQHandler{uc: f, uuid: uid.NewUUID(), ins: instrument.NewNoop()}
		b, _ := json.Marshal(event.TimerCompletedMessage{
			ID: "evt-2", SessionType: "long_break", DurationSeconds: 900, PomodoroCount: 4, CompletedAt: completedAt,
		})

		// Act
		err := h.TimerCompletedHistory(context.Background(), messaging.Message{Body: b})

		// Assert
		if err != nil {
			t.Fatalf("error = %v", err)
		}
		want := usecase.ConsumeTimerCompletedInput{
			EventID: "evt-2", SessionType: "long_break", DurationSeconds: 900, PomodoroCount: 4, CompletedAt: completedAt,
		}
		if diff := cmp.Diff(want, f.consumed[0]); diff != "" {
			t.Fatalf("input mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestRegisterMQConsumer(t *testing.T) {
	t.Run("Enabled", func(t *testing.T) {
		// Arrange
		cfg, err := config.NewViperFromBytes("yaml", []byte("modules:\n  history:\n    consumer_names: "+event.TimerCompletedConsumerHistory+"\n"))
		if err != nil {
			t.Fatalf("config: %v", err)
		}
		broker := messaging.NewMemory()
		routine := goroutine.NewManager(4)
		ctx, cancel := context.WithCancel(context.Background())
		f := &fakeUC{}
		body, _ := json.Marshal(event.TimerCompletedMessage{ID: "evt-9", DurationSeconds: 60, CompletedAt: completedAt})

		// Act
		RegisterMQConsumer(ctx, cfg, routine, broker, uid.NewUUID(), f, instrument.NewNoop())

		// The consumer subscribes asynchronously; publish until it is listening.
		deadline := time.Now().Add(5 * time.Second)
		for f.received() == 0 && time.Now().Before(deadline) {
			if err := broker.Publish(ctx, event.TimerCompletedDestination, messaging.Message{Body: body}); err != nil {
				t.Fatalf("publish: %v", err)
			}
			time.Sleep(20 * time.Millisecond)
		}

		cancel()
		_ = routine.Wait()

		// Assert
		if f.received() == 0 {
			t.Fatal("consumer never received the event")
		}
	})

	t.Run("Disabled", func(t *testing.T) {
		cfg, err := config.NewViperFromBytes("yaml", []byte("app: {}"))
		if err != nil {
			t.Fatalf("config: %v", err)
		}
		routine := goroutine.NewManager(4)

		RegisterMQConsumer(context.Background(), cfg, routine, messaging.NewMemory(), uid.NewUUID(), &fakeUC{}, instrument.NewNoop())

		if err := routine.Wait(); err != nil {
			t.Fatalf("Wait() = %v", err)
		}
	})
}
