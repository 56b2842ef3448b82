package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmreiland/bookrank/internal/api/handlers"
)

// mockRunner is a test double for RankingRunner.
type mockRunner struct {
	skipped bool
	err     error
	calls   int
}

func (m *mockRunner) TriggerRankings(_ context.Context) (bool, error) {
	m.calls++
	return m.skipped, m.err
}

func refreshAPI(t *testing.T, r *mockRunner, perMinute float64, burst int) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	handlers.RegisterRefreshRoutes(api, handlers.NewRefreshHandler(r, perMinute, burst))
	return api
}

func TestRefresh_Success(t *testing.T) {
	t.Parallel()

	r := &mockRunner{}
	resp := refreshAPI(t, r, 2, 1).Post("/api/v1/rankings/refresh")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "refresh completed")
	assert.Equal(t, 1, r.calls)
}

func TestRefresh_ConflictWhileRunning(t *testing.T) {
	t.Parallel()

	r := &mockRunner{skipped: true}
	resp := refreshAPI(t, r, 2, 1).Post("/api/v1/rankings/refresh")

	require.Equal(t, http.StatusConflict, resp.Code)
	assert.Contains(t, resp.Body.String(), "already running")
}

func TestRefresh_EngineError(t *testing.T) {
	t.Parallel()

	r := &mockRunner{err: errors.New("aggregation blew up")}
	resp := refreshAPI(t, r, 2, 1).Post("/api/v1/rankings/refresh")

	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "ranking refresh failed")
}

func TestRefresh_RateLimited(t *testing.T) {
	t.Parallel()

	r := &mockRunner{}
	api := refreshAPI(t, r, 1, 1) // one token, slow refill

	resp := api.Post("/api/v1/rankings/refresh")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = api.Post("/api/v1/rankings/refresh")
	require.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Contains(t, resp.Body.String(), "rate limit")
	assert.Equal(t, 1, r.calls, "throttled request never reaches the engine")
}
