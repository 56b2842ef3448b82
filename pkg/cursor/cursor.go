// Package cursor implements the opaque keyset-pagination token shared by
// every list endpoint. A token pins the exact (order_by, direction) shape
// that produced it plus the last-seen row's sort-key values, so a scan can
// resume without offsets.
package cursor

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Direction is the primary sort direction a cursor was minted under.
type Direction string

// Sort directions.
const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// ParseDirection validates a client-supplied direction. Empty input falls
// back to DESC; anything else outside the set is an error.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case "":
		return Desc, nil
	case Asc, Desc:
		return Direction(s), nil
	default:
		return "", fmt.Errorf("unknown direction %q", s)
	}
}

// ErrInvalid reports a token that could not be decoded or that was minted
// under a different (order_by, direction) shape than the request. Always a
// client error, never a server fault.
var ErrInvalid = errors.New("invalid cursor")

// Cursor carries everything needed to resume a keyset scan: the shape it is
// valid for and the last retained row's (primary, created_at, id) triple.
type Cursor struct {
	OrderBy   string    `json:"order_by"`
	Direction Direction `json:"direction"`
	Primary   string    `json:"primary"`
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
}

// Encode serializes the cursor into an opaque URL-safe token.
func (c Cursor) Encode() string {
	data, err := json.Marshal(c)
	if err != nil {
		// Cursor has no unmarshalable fields; this cannot fire.
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(data)
}

// Decode parses a token. Malformed base64 or JSON yields ErrInvalid.
func Decode(token string) (Cursor, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: %s", ErrInvalid, "not base64url")
	}

	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return Cursor{}, fmt.Errorf("%w: %s", ErrInvalid, "not a cursor payload")
	}

	if c.ID == "" || c.OrderBy == "" {
		return Cursor{}, fmt.Errorf("%w: %s", ErrInvalid, "missing fields")
	}

	return c, nil
}

// DecodeFor parses a token and verifies it was minted for the given
// (order_by, direction) pair. A shape mismatch fails with ErrInvalid rather
// than silently resuming a different ordering.
func DecodeFor(token, orderBy string, dir Direction) (Cursor, error) {
	c, err := Decode(token)
	if err != nil {
		return Cursor{}, err
	}

	if c.OrderBy != orderBy || c.Direction != dir {
		return Cursor{}, fmt.Errorf(
			"%w: minted for (%s, %s), request is (%s, %s)",
			ErrInvalid, c.OrderBy, c.Direction, orderBy, dir,
		)
	}

	return c, nil
}

// FormatFloat renders a float primary value so it round-trips exactly.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatTime renders a timestamp primary value so it round-trips exactly.
func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// PrimaryFloat parses the primary value of a cursor minted over a numeric
// column.
func (c Cursor) PrimaryFloat() (float64, error) {
	v, err := strconv.ParseFloat(c.Primary, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: primary %q is not numeric", ErrInvalid, c.Primary)
	}
	return v, nil
}

// PrimaryTime parses the primary value of a cursor minted over a timestamp
// column.
func (c Cursor) PrimaryTime() (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, c.Primary)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: primary %q is not a timestamp", ErrInvalid, c.Primary)
	}
	return t, nil
}
