package inbound

import (
	"github.com/shandysiswandi/gomodoro/internal/history/usecase"
	"github.com/shandysiswandi/gomodoro/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

// ListHistory returns the latest completed countdowns, newest first.
// @Summary List history
// @Description Lists recorded countdown completions, newest first. The limit defaults to and is capped at 100.
// @Tags History
// @Produce json
// @Param limit query int false "Maximum entries"
// @Success 200 {object} router.successResponse{data=ListHistoryResponse} "History entries"
// @Failure 400 {object} router.errorResponse "Invalid query limit"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/history [get]
func (h *HTTPEndpoint) ListHistory(r *router.Request) (any, error) {
	limit, err := r.GetQueryInt32("limit")
	if err != nil {
		return nil, err
	}

	entries, err := h.uc.ListHistory(r.Context(), usecase.ListHistoryInput{Limit: limit})
	if err != nil {
		return nil, err
	}

	return newListHistoryResponse(entries), nil
}

// GetStats returns aggregate history totals.
// @Summary History stats
// @Description Returns overall and today's completion totals plus the average countdown length.
// @Tags History
// @Produce json
// @Success 200 {object} router.successResponse{data=StatsResponse} "History stats"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/history/stats [get]
func (h *HTTPEndpoint) GetStats(r *router.Request) (any, error) {
	stats, err := h.uc.GetStats(r.Context())
	if err != nil {
		return nil, err
	}

	return newStatsResponse(stats), nil
}

// ExportHistory uploads a CSV export and returns its download link.
// @Summary Export history
// @Description Uploads the latest entries as CSV to object storage and returns a presigned URL.
// @Tags History
// @Produce json
// @Success 200 {object} router.successResponse{data=ExportResponse} "Export location"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Failure 503 {object} router.errorResponse "Export storage not configured"
// @Router /api/v1/history/export [post]
func (h *HTTPEndpoint) ExportHistory(r *router.Request) (any, error) {
	exp, err := h.uc.ExportHistory(r.Context())
	if err != nil {
		return nil, err
	}

	return ExportResponse{
		Key:       exp.Key,
		URL:       exp.URL,
		Rows:      exp.Rows,
		ExpiresAt: exp.ExpiresAt,
	}, nil
}
