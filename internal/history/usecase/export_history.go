package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/gomodoro/internal/history/entity"
	"github.com/shandysiswandi/gomodoro/internal/pkg/goerror"
	"github.com/shandysiswandi/gomodoro/internal/pkg/storage"
)

var exportHeader = []string{"id", "event_id", "session_type", "duration_seconds", "duration", "pomodoro_count", "completed_at"}

// ExportHistory uploads the latest entries as CSV and returns a time-limited
// download link.
func (s *Usecase) ExportHistory(ctx context.Context) (entity.Export, error) {
	ctx, span := s.startSpan(ctx, "ExportHistory")
	defer span.End()

	if s.storage == nil {
		return entity.Export{}, goerror.NewUnavailable("history export is not configured")
	}

	limit := lo.Clamp(s.cfg.GetInt32("history.export.limit"), 1, MaxEntries)
	entries, err := s.repoDB.ListEntries(ctx, limit)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list history entries", "limit", limit, "error", err)
		return entity.Export{}, goerror.NewServer(err)
	}

	payload, err := encodeCSV(entries)
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode history csv", "error", err)
		return entity.Export{}, goerror.NewServer(err)
	}

	now := s.clock.Now()
	key := fmt.Sprintf("exports/history-%s-%d.csv", now.UTC().Format("20060102T150405Z"), s.uid.Generate())

	if _, err := s.storage.PutObject(ctx, key, bytes.NewReader(payload), storage.PutOptions{
		Size:        int64(len(payload)),
		ContentType: "text/csv",
		Metadata:    map[string]string{"rows": strconv.Itoa(len(entries))},
	}); err != nil {
		slog.ErrorContext(ctx, "failed to storage put history export", "key", key, "error", err)
		return entity.Export{}, goerror.NewServer(err)
	}

	expiry := s.cfg.GetMinute("history.export.url_expiry_minutes")
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}

	url, err := s.storage.PresignGet(ctx, key, expiry)
	if err != nil {
		slog.ErrorContext(ctx, "failed to storage presign history export", "key", key, "error", err)
		return entity.Export{}, goerror.NewServer(err)
	}

	return entity.Export{
		Key:       key,
		URL:       url,
		Rows:      len(entries),
		ExpiresAt: now.Add(expiry),
	}, nil
}

func encodeCSV(entries []entity.Entry) ([]byte, error) {
	records := lo.Map(entries, func(e entity.Entry, _ int) []string {
		return []string{
			strconv.FormatInt(e.ID, 10),
			e.EventID,
			e.SessionType,
			strconv.FormatInt(e.DurationSeconds, 10),
			(time.Duration(e.DurationSeconds) * time.Second).String(),
			strconv.Itoa(e.PomodoroCount),
			e.CompletedAt.UTC().Format(time.RFC3339),
		}
	})

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	if err := w.WriteAll(records); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
