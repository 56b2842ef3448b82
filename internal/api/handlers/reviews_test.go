package handlers_test

import (
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmreiland/bookrank/internal/api/handlers"
	"github.com/dmreiland/bookrank/internal/store"
	domain "github.com/dmreiland/bookrank/pkg/types"
)

func reviewsAPI(t *testing.T, s *stubStore) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	handlers.RegisterReviewRoutes(api, handlers.NewReviewsHandler(s))
	return api
}

func TestListReviews_Success(t *testing.T) {
	t.Parallel()

	s := &stubStore{
		listReviews: func(q *store.ReviewQuery) (*store.Page[domain.Review], error) {
			assert.Equal(t, "created_at", q.OrderBy)
			return &store.Page[domain.Review]{
				Items: []domain.Review{{ID: "r1", BookID: "b1", Content: "great read"}},
			}, nil
		},
	}

	resp := reviewsAPI(t, s).Get("/api/v1/reviews")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"great read"`)
}

func TestListReviews_ScopedToBook(t *testing.T) {
	t.Parallel()

	s := &stubStore{
		listReviews: func(q *store.ReviewQuery) (*store.Page[domain.Review], error) {
			assert.Equal(t, "51a7e014-5def-4e23-9b1c-f4e4a37296b4", q.BookID)
			assert.Equal(t, "rating", q.OrderBy)
			return &store.Page[domain.Review]{}, nil
		},
	}

	resp := reviewsAPI(t, s).Get(
		"/api/v1/reviews?book_id=51a7e014-5def-4e23-9b1c-f4e4a37296b4&order_by=rating")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"reviews":[]`)
}

func TestListReviews_UnknownOrderByRejected(t *testing.T) {
	t.Parallel()

	s := &stubStore{}
	resp := reviewsAPI(t, s).Get("/api/v1/reviews?order_by=like_count")
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}
