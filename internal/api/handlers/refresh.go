package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/time/rate"
)

// RankingRunner defines the interface for triggering a full ranking cycle.
type RankingRunner interface {
	TriggerRankings(ctx context.Context) (skipped bool, err error)
}

// RefreshHandler handles manual ranking refresh requests. A token-bucket
// limiter throttles callers; the engine's guard additionally rejects a
// refresh while a cycle is in flight.
type RefreshHandler struct {
	runner  RankingRunner
	limiter *rate.Limiter
}

// NewRefreshHandler creates a RefreshHandler allowing perMinute refreshes
// with the given burst.
func NewRefreshHandler(r RankingRunner, perMinute float64, burst int) *RefreshHandler {
	return &RefreshHandler{
		runner:  r,
		limiter: rate.NewLimiter(rate.Limit(perMinute/60), burst),
	}
}

// RefreshOutput is the response body for the refresh endpoint.
type RefreshOutput struct {
	Body struct {
		Status string `json:"status" example:"refresh completed" doc:"Refresh outcome"`
	}
}

// Refresh recomputes every ranking snapshot immediately.
func (h *RefreshHandler) Refresh(ctx context.Context, _ *struct{}) (*RefreshOutput, error) {
	if !h.limiter.Allow() {
		return nil, huma.Error429TooManyRequests("refresh rate limit exceeded, retry later")
	}

	skipped, err := h.runner.TriggerRankings(ctx)
	if skipped {
		return nil, huma.Error409Conflict("a ranking cycle is already running")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("ranking refresh failed: " + err.Error())
	}

	resp := &RefreshOutput{}
	resp.Body.Status = "refresh completed"
	return resp, nil
}

// RegisterRefreshRoutes registers the manual refresh endpoint with the Huma API.
func RegisterRefreshRoutes(api huma.API, h *RefreshHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "refresh-rankings",
		Method:      http.MethodPost,
		Path:        "/api/v1/rankings/refresh",
		Summary:     "Recompute all rankings now",
		Description: "Runs the full ranking cycle for every period immediately, outside the schedule.",
		Tags:        []string{"rankings"},
		Errors: []int{
			http.StatusConflict,
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
		},
	}, h.Refresh)
}
