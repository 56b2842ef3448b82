package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dmreiland/bookrank/internal/store"
	domain "github.com/dmreiland/bookrank/pkg/types"
)

// ReviewsHandler serves the paginated review feed.
type ReviewsHandler struct {
	store store.Store
}

// NewReviewsHandler creates a new ReviewsHandler.
func NewReviewsHandler(s store.Store) *ReviewsHandler {
	return &ReviewsHandler{store: s}
}

// ListReviewsInput is the input for listing reviews.
type ListReviewsInput struct {
	BookID    string `query:"book_id"   doc:"Scope to one book"                      format:"uuid"`
	Keyword   string `query:"keyword"   doc:"Match against review content"`
	OrderBy   string `query:"order_by"  doc:"Sort field"                             enum:"created_at,rating," default:"created_at"`
	Direction string `query:"direction" doc:"Sort direction (default DESC)"         enum:"ASC,DESC,"`
	Cursor    string `query:"cursor"    doc:"Opaque resume token from a prior page"`
	After     int64  `query:"after"     doc:"Only reviews created after this Unix millisecond timestamp" minimum:"0"`
	Limit     int    `query:"limit"     doc:"Page size (default 50)"                 minimum:"1" maximum:"100"`
}

// ListReviewsOutput is the response for listing reviews.
type ListReviewsOutput struct {
	Body struct {
		Reviews    []domain.Review `json:"reviews"`
		NextCursor string          `json:"next_cursor,omitempty"`
		Size       int             `json:"size"`
		HasNext    bool            `json:"has_next"`
	}
}

// ListReviews returns one page of reviews, optionally scoped to a book.
func (h *ReviewsHandler) ListReviews(
	ctx context.Context,
	input *ListReviewsInput,
) (*ListReviewsOutput, error) {
	orderBy := input.OrderBy
	if orderBy == "" {
		orderBy = "created_at"
	}

	dir, cur, after, err := pageParams(orderBy, input.Direction, input.Cursor, input.After)
	if err != nil {
		return nil, err
	}

	page, err := h.store.ListReviews(ctx, &store.ReviewQuery{
		Keyword:   input.Keyword,
		BookID:    input.BookID,
		OrderBy:   orderBy,
		Direction: dir,
		Cursor:    cur,
		After:     after,
		Limit:     input.Limit,
	})
	if err != nil {
		if isRequestError(err) {
			return nil, huma.Error400BadRequest(err.Error())
		}
		return nil, huma.Error500InternalServerError("review query failed: " + err.Error())
	}

	resp := &ListReviewsOutput{}
	resp.Body.Reviews = page.Items
	if resp.Body.Reviews == nil {
		resp.Body.Reviews = []domain.Review{}
	}
	resp.Body.NextCursor = page.NextCursor
	resp.Body.Size = len(resp.Body.Reviews)
	resp.Body.HasNext = page.HasNext
	return resp, nil
}

// RegisterReviewRoutes registers review endpoints with the Huma API.
func RegisterReviewRoutes(api huma.API, h *ReviewsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-reviews",
		Method:      http.MethodGet,
		Path:        "/api/v1/reviews",
		Summary:     "List reviews",
		Description: "Returns one page of reviews, optionally scoped to a book, with keyset pagination.",
		Tags:        []string{"reviews"},
		Errors:      []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, h.ListReviews)
}
