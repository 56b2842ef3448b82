package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dmreiland/bookrank/internal/store"
	"github.com/dmreiland/bookrank/pkg/period"
	domain "github.com/dmreiland/bookrank/pkg/types"
)

// RankingsHandler serves the precomputed ranking snapshots.
type RankingsHandler struct {
	store store.Store
}

// NewRankingsHandler creates a new RankingsHandler.
func NewRankingsHandler(s store.Store) *RankingsHandler {
	return &RankingsHandler{store: s}
}

// ListRankingsInput is the shared input shape for both ranking collections.
// Rankings are always ordered by score; direction flips between best-first
// and worst-first.
type ListRankingsInput struct {
	Period    string `query:"period"    doc:"Ranking period"                         enum:"DAILY,WEEKLY,MONTHLY,ALL_TIME" default:"DAILY"`
	Direction string `query:"direction" doc:"Score sort direction (default DESC)"   enum:"ASC,DESC,"`
	Cursor    string `query:"cursor"    doc:"Opaque resume token from a prior page"`
	After     int64  `query:"after"     doc:"Only snapshot rows created after this Unix millisecond timestamp" minimum:"0"`
	Limit     int    `query:"limit"     doc:"Page size (default 50)"                 minimum:"1" maximum:"100"`
}

// ListBookRankingsOutput is the response for the popular-book ranking.
type ListBookRankingsOutput struct {
	Body struct {
		Rankings   []domain.BookRanking `json:"rankings"`
		NextCursor string               `json:"next_cursor,omitempty"`
		Size       int                  `json:"size"`
		HasNext    bool                 `json:"has_next"`
	}
}

// ListUserRankingsOutput is the response for the power-user ranking.
type ListUserRankingsOutput struct {
	Body struct {
		Rankings   []domain.UserRanking `json:"rankings"`
		NextCursor string               `json:"next_cursor,omitempty"`
		Size       int                  `json:"size"`
		HasNext    bool                 `json:"has_next"`
	}
}

func (input *ListRankingsInput) toQuery() (*store.RankingQuery, error) {
	p, err := period.Parse(input.Period)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	dir, cur, after, err := pageParams("score", input.Direction, input.Cursor, input.After)
	if err != nil {
		return nil, err
	}

	return &store.RankingQuery{
		Period:    string(p),
		Direction: dir,
		Cursor:    cur,
		After:     after,
		Limit:     input.Limit,
	}, nil
}

// ListBookRankings returns one page of a period's popular-book snapshot.
func (h *RankingsHandler) ListBookRankings(
	ctx context.Context,
	input *ListRankingsInput,
) (*ListBookRankingsOutput, error) {
	q, err := input.toQuery()
	if err != nil {
		return nil, err
	}

	page, err := h.store.ListBookRankings(ctx, q)
	if err != nil {
		if isRequestError(err) {
			return nil, huma.Error400BadRequest(err.Error())
		}
		return nil, huma.Error500InternalServerError("ranking query failed: " + err.Error())
	}

	resp := &ListBookRankingsOutput{}
	resp.Body.Rankings = page.Items
	if resp.Body.Rankings == nil {
		resp.Body.Rankings = []domain.BookRanking{}
	}
	resp.Body.NextCursor = page.NextCursor
	resp.Body.Size = len(resp.Body.Rankings)
	resp.Body.HasNext = page.HasNext
	return resp, nil
}

// ListUserRankings returns one page of a period's power-user snapshot.
func (h *RankingsHandler) ListUserRankings(
	ctx context.Context,
	input *ListRankingsInput,
) (*ListUserRankingsOutput, error) {
	q, err := input.toQuery()
	if err != nil {
		return nil, err
	}

	page, err := h.store.ListUserRankings(ctx, q)
	if err != nil {
		if isRequestError(err) {
			return nil, huma.Error400BadRequest(err.Error())
		}
		return nil, huma.Error500InternalServerError("ranking query failed: " + err.Error())
	}

	resp := &ListUserRankingsOutput{}
	resp.Body.Rankings = page.Items
	if resp.Body.Rankings == nil {
		resp.Body.Rankings = []domain.UserRanking{}
	}
	resp.Body.NextCursor = page.NextCursor
	resp.Body.Size = len(resp.Body.Rankings)
	resp.Body.HasNext = page.HasNext
	return resp, nil
}

// RegisterRankingRoutes registers ranking read endpoints with the Huma API.
func RegisterRankingRoutes(api huma.API, h *RankingsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-book-rankings",
		Method:      http.MethodGet,
		Path:        "/api/v1/rankings/books",
		Summary:     "List the popular-book ranking",
		Description: "Returns one page of the precomputed popular-book snapshot for a period, ordered by score.",
		Tags:        []string{"rankings"},
		Errors:      []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, h.ListBookRankings)

	huma.Register(api, huma.Operation{
		OperationID: "list-user-rankings",
		Method:      http.MethodGet,
		Path:        "/api/v1/rankings/users",
		Summary:     "List the power-user ranking",
		Description: "Returns one page of the precomputed power-user snapshot for a period, ordered by score.",
		Tags:        []string{"rankings"},
		Errors:      []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, h.ListUserRankings)
}
