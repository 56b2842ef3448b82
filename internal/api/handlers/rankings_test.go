package handlers_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmreiland/bookrank/internal/api/handlers"
	"github.com/dmreiland/bookrank/internal/store"
	"github.com/dmreiland/bookrank/pkg/cursor"
	domain "github.com/dmreiland/bookrank/pkg/types"
)

func rankingsAPI(t *testing.T, s *stubStore) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	handlers.RegisterRankingRoutes(api, handlers.NewRankingsHandler(s))
	return api
}

func TestListBookRankings_Success(t *testing.T) {
	t.Parallel()

	s := &stubStore{
		listBookRankings: func(q *store.RankingQuery) (*store.Page[domain.BookRanking], error) {
			assert.Equal(t, "WEEKLY", q.Period)
			assert.Equal(t, cursor.Desc, q.Direction)
			return &store.Page[domain.BookRanking]{
				Items: []domain.BookRanking{
					{ID: "r1", BookID: "b1", Title: "Dune", Period: "WEEKLY", Rank: 1, Score: 7.6},
				},
				NextCursor: "tok",
				HasNext:    true,
			}, nil
		},
	}

	resp := rankingsAPI(t, s).Get("/api/v1/rankings/books?period=WEEKLY")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"Dune"`)
	assert.Contains(t, resp.Body.String(), `"next_cursor":"tok"`)
	assert.Contains(t, resp.Body.String(), `"has_next":true`)
}

func TestListBookRankings_DefaultsToDaily(t *testing.T) {
	t.Parallel()

	s := &stubStore{
		listBookRankings: func(q *store.RankingQuery) (*store.Page[domain.BookRanking], error) {
			assert.Equal(t, "DAILY", q.Period)
			return &store.Page[domain.BookRanking]{}, nil
		},
	}

	resp := rankingsAPI(t, s).Get("/api/v1/rankings/books")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"rankings":[]`)
}

func TestListBookRankings_UnknownPeriodRejected(t *testing.T) {
	t.Parallel()

	s := &stubStore{}
	resp := rankingsAPI(t, s).Get("/api/v1/rankings/books?period=HOURLY")
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestListBookRankings_MalformedCursor(t *testing.T) {
	t.Parallel()

	s := &stubStore{}
	resp := rankingsAPI(t, s).Get("/api/v1/rankings/books?cursor=%21%21not-base64%21%21")
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "invalid cursor")
}

func TestListBookRankings_CursorShapeMismatch(t *testing.T) {
	t.Parallel()

	// Minted DESC, presented with direction=ASC.
	token := cursor.Cursor{
		OrderBy:   "score",
		Direction: cursor.Desc,
		Primary:   "7.6",
		CreatedAt: time.Now(),
		ID:        "r1",
	}.Encode()

	s := &stubStore{}
	resp := rankingsAPI(t, s).Get("/api/v1/rankings/books?cursor=" + token + "&direction=ASC")
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "invalid cursor")
}

func TestListBookRankings_ValidCursorPassedThrough(t *testing.T) {
	t.Parallel()

	token := cursor.Cursor{
		OrderBy:   "score",
		Direction: cursor.Desc,
		Primary:   "7.6",
		CreatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		ID:        "r1",
	}.Encode()

	s := &stubStore{
		listBookRankings: func(q *store.RankingQuery) (*store.Page[domain.BookRanking], error) {
			require.NotNil(t, q.Cursor)
			assert.Equal(t, "r1", q.Cursor.ID)
			return &store.Page[domain.BookRanking]{}, nil
		},
	}

	resp := rankingsAPI(t, s).Get("/api/v1/rankings/books?cursor=" + token)
	require.Equal(t, http.StatusOK, resp.Code)
}

func TestListBookRankings_StoreError(t *testing.T) {
	t.Parallel()

	s := &stubStore{
		listBookRankings: func(*store.RankingQuery) (*store.Page[domain.BookRanking], error) {
			return nil, errors.New("db down")
		},
	}

	resp := rankingsAPI(t, s).Get("/api/v1/rankings/books")
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "ranking query failed")
}

func TestListUserRankings_Success(t *testing.T) {
	t.Parallel()

	s := &stubStore{
		listUserRankings: func(q *store.RankingQuery) (*store.Page[domain.UserRanking], error) {
			assert.Equal(t, "ALL_TIME", q.Period)
			return &store.Page[domain.UserRanking]{
				Items: []domain.UserRanking{
					{ID: "u1", UserID: "user-1", Nickname: "prolific", Rank: 1, Score: 42},
				},
			}, nil
		},
	}

	resp := rankingsAPI(t, s).Get("/api/v1/rankings/users?period=ALL_TIME")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"prolific"`)
	assert.Contains(t, resp.Body.String(), `"has_next":false`)
}

func TestListUserRankings_AfterWatermark(t *testing.T) {
	t.Parallel()

	s := &stubStore{
		listUserRankings: func(q *store.RankingQuery) (*store.Page[domain.UserRanking], error) {
			require.NotNil(t, q.After)
			assert.Equal(t, 2025, q.After.Year())
			return &store.Page[domain.UserRanking]{}, nil
		},
	}

	// 2025-06-01T00:00:00Z in Unix milliseconds.
	resp := rankingsAPI(t, s).Get("/api/v1/rankings/users?after=1748736000000")
	require.Equal(t, http.StatusOK, resp.Code)
}
