package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dmreiland/bookrank/internal/store"
	domain "github.com/dmreiland/bookrank/pkg/types"
)

// BooksHandler serves the paginated book catalog.
type BooksHandler struct {
	store store.Store
}

// NewBooksHandler creates a new BooksHandler.
func NewBooksHandler(s store.Store) *BooksHandler {
	return &BooksHandler{store: s}
}

// ListBooksInput is the input for listing books.
type ListBooksInput struct {
	Keyword   string `query:"keyword"   doc:"Match against title or author"`
	OrderBy   string `query:"order_by"  doc:"Sort field"                            enum:"title,published_date,rating,review_count," default:"title"`
	Direction string `query:"direction" doc:"Sort direction (default DESC)"        enum:"ASC,DESC,"`
	Cursor    string `query:"cursor"    doc:"Opaque resume token from a prior page"`
	After     int64  `query:"after"     doc:"Only books created after this Unix millisecond timestamp" minimum:"0"`
	Limit     int    `query:"limit"     doc:"Page size (default 50)"                minimum:"1" maximum:"100"`
}

// ListBooksOutput is the response for listing books.
type ListBooksOutput struct {
	Body struct {
		Books      []domain.Book `json:"books"`
		NextCursor string        `json:"next_cursor,omitempty"`
		Size       int           `json:"size"`
		HasNext    bool          `json:"has_next"`
	}
}

// ListBooks returns one page of the book catalog.
func (h *BooksHandler) ListBooks(
	ctx context.Context,
	input *ListBooksInput,
) (*ListBooksOutput, error) {
	orderBy := input.OrderBy
	if orderBy == "" {
		orderBy = "title"
	}

	dir, cur, after, err := pageParams(orderBy, input.Direction, input.Cursor, input.After)
	if err != nil {
		return nil, err
	}

	page, err := h.store.ListBooks(ctx, &store.BookQuery{
		Keyword:   input.Keyword,
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
		return nil, huma.Error500InternalServerError("book query failed: " + err.Error())
	}

	resp := &ListBooksOutput{}
	resp.Body.Books = page.Items
	if resp.Body.Books == nil {
		resp.Body.Books = []domain.Book{}
	}
	resp.Body.NextCursor = page.NextCursor
	resp.Body.Size = len(resp.Body.Books)
	resp.Body.HasNext = page.HasNext
	return resp, nil
}

// RegisterBookRoutes registers book endpoints with the Huma API.
func RegisterBookRoutes(api huma.API, h *BooksHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-books",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns one page of the book catalog with optional keyword filtering and keyset pagination.",
		Tags:        []string{"books"},
		Errors:      []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, h.ListBooks)
}
