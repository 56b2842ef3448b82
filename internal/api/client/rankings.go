package client

import (
	"context"
	"net/url"
	"strconv"

	domain "github.com/dmreiland/bookrank/pkg/types"
)

// RankingParams selects one page of a ranking snapshot.
type RankingParams struct {
	Period    string
	Direction string
	Cursor    string
	Limit     int
}

func (p *RankingParams) encode() string {
	v := url.Values{}
	if p.Period != "" {
		v.Set("period", p.Period)
	}
	if p.Direction != "" {
		v.Set("direction", p.Direction)
	}
	if p.Cursor != "" {
		v.Set("cursor", p.Cursor)
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// BookRankingPage is one page of the popular-book ranking.
type BookRankingPage struct {
	Rankings   []domain.BookRanking `json:"rankings"`
	NextCursor string               `json:"next_cursor"`
	Size       int                  `json:"size"`
	HasNext    bool                 `json:"has_next"`
}

// UserRankingPage is one page of the power-user ranking.
type UserRankingPage struct {
	Rankings   []domain.UserRanking `json:"rankings"`
	NextCursor string               `json:"next_cursor"`
	Size       int                  `json:"size"`
	HasNext    bool                 `json:"has_next"`
}

// ListBookRankings returns one page of the popular-book ranking.
func (c *Client) ListBookRankings(ctx context.Context, p *RankingParams) (*BookRankingPage, error) {
	var page BookRankingPage
	if err := c.get(ctx, "/api/v1/rankings/books"+p.encode(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListUserRankings returns one page of the power-user ranking.
func (c *Client) ListUserRankings(ctx context.Context, p *RankingParams) (*UserRankingPage, error) {
	var page UserRankingPage
	if err := c.get(ctx, "/api/v1/rankings/users"+p.encode(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// RefreshRankings asks the server to recompute every ranking snapshot now.
func (c *Client) RefreshRankings(ctx context.Context) error {
	return c.post(ctx, "/api/v1/rankings/refresh", nil, nil)
}
