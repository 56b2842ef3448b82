// Package handlers implements HTTP handlers for the bookrank API.
package handlers

import (
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dmreiland/bookrank/internal/metrics"
	"github.com/dmreiland/bookrank/internal/store"
	"github.com/dmreiland/bookrank/pkg/cursor"
)

// StatusResponse is a generic status response body.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// pageParams validates the shared pagination query parameters: direction,
// cursor token, and the after watermark (Unix milliseconds). The cursor
// must have been minted for the same (order_by, direction) shape as this
// request.
func pageParams(
	orderBy, dirStr, token string,
	afterMS int64,
) (cursor.Direction, *cursor.Cursor, *time.Time, error) {
	dir, err := cursor.ParseDirection(dirStr)
	if err != nil {
		return "", nil, nil, huma.Error400BadRequest(err.Error())
	}

	var cur *cursor.Cursor
	if token != "" {
		c, err := cursor.DecodeFor(token, orderBy, dir)
		if err != nil {
			metrics.CursorDecodeFailuresTotal.Inc()
			return "", nil, nil, huma.Error400BadRequest(err.Error())
		}
		cur = &c
	}

	var afterPtr *time.Time
	if afterMS > 0 {
		t := time.UnixMilli(afterMS).UTC()
		afterPtr = &t
	}

	return dir, cur, afterPtr, nil
}

// isRequestError reports whether a store error was caused by bad client
// input rather than a server fault.
func isRequestError(err error) bool {
	return errors.Is(err, cursor.ErrInvalid) || errors.Is(err, store.ErrUnknownOrderBy)
}
