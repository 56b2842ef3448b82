package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmreiland/bookrank/pkg/cursor"
)

const (
	defaultLimit             = 50
	defaultNotificationLimit = 20
	maxLimit                 = 100
)

// ColumnKind tells the keyset builder how to parse a cursor's primary value
// back into a typed SQL argument.
type ColumnKind int

// Column kinds.
const (
	ColText ColumnKind = iota
	ColNumeric
	ColTime
)

// OrderColumn binds an order_by name to its SQL column expression and type.
type OrderColumn struct {
	Column string
	Kind   ColumnKind
}

// BookOrderColumns is the allow-list of book list orderings. Anything
// outside this map is a request error, never a silent fallback.
var BookOrderColumns = map[string]OrderColumn{
	"title":          {Column: "title", Kind: ColText},
	"published_date": {Column: "published_date", Kind: ColTime},
	"rating":         {Column: "rating", Kind: ColNumeric},
	"review_count":   {Column: "review_count", Kind: ColNumeric},
}

// ReviewOrderColumns is the allow-list of review list orderings.
var ReviewOrderColumns = map[string]OrderColumn{
	"created_at": {Column: "r.created_at", Kind: ColTime},
	"rating":     {Column: "r.rating", Kind: ColNumeric},
}

// Keyset builds the resume predicate, ordering, and limit for one
// cursor-paginated scan. The scan is totally ordered by
// (primary Direction, created DESC, id DESC); the cursor holds the last
// retained row's values for all three keys.
type Keyset struct {
	OrderBy   string // the order_by name the cursor must match
	Primary   OrderColumn
	Created   string // created_at column expression
	ID        string // id column expression
	Direction cursor.Direction
	Cursor    *cursor.Cursor
	After     *time.Time
	Limit     int
}

// clampedLimit applies the default and hard cap. Out-of-range client input
// is rejected earlier, at request validation; this only guards direct
// callers.
func (k *Keyset) clampedLimit(def int) int {
	limit := k.Limit
	if limit <= 0 {
		limit = def
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit
}

// primaryArg converts the cursor's primary value into a typed SQL argument.
func (k *Keyset) primaryArg() (any, error) {
	switch k.Primary.Kind {
	case ColNumeric:
		return k.Cursor.PrimaryFloat()
	case ColTime:
		return k.Cursor.PrimaryTime()
	default:
		return k.Cursor.Primary, nil
	}
}

// Apply appends the after-filter and the cursor resume predicate to the
// accumulated WHERE conditions. Positional parameters continue from
// len(args)+1.
func (k *Keyset) Apply(conds []string, args []any) ([]string, []any, error) {
	if k.After != nil {
		conds = append(conds, fmt.Sprintf("%s > $%d", k.Created, len(args)+1))
		args = append(args, *k.After)
	}

	if k.Cursor == nil {
		return conds, args, nil
	}

	primary, err := k.primaryArg()
	if err != nil {
		return nil, nil, err
	}

	cmp := "<"
	if k.Direction == cursor.Asc {
		cmp = ">"
	}

	p := len(args) + 1
	// Resume strictly after the cursor row. The secondary keys always run
	// descending regardless of the primary direction.
	conds = append(conds, fmt.Sprintf(
		"(%[1]s %[4]s $%[5]d OR (%[1]s = $%[5]d AND (%[2]s < $%[6]d OR (%[2]s = $%[6]d AND %[3]s < $%[7]d))))",
		k.Primary.Column, k.Created, k.ID, cmp, p, p+1, p+2,
	))
	args = append(args, primary, k.Cursor.CreatedAt, k.Cursor.ID)

	return conds, args, nil
}

// OrderLimitSQL renders the ORDER BY and LIMIT clauses. One extra row past
// the page size detects the next page without a count query.
func (k *Keyset) OrderLimitSQL(defaultPageSize int) string {
	return fmt.Sprintf(
		" ORDER BY %s %s, %s DESC, %s DESC LIMIT %d",
		k.Primary.Column, k.Direction, k.Created, k.ID,
		k.clampedLimit(defaultPageSize)+1,
	)
}

// NextCursor mints the token for the page after a row with the given keys.
func (k *Keyset) NextCursor(primary string, createdAt time.Time, id string) string {
	return cursor.Cursor{
		OrderBy:   k.OrderBy,
		Direction: k.Direction,
		Primary:   primary,
		CreatedAt: createdAt,
		ID:        id,
	}.Encode()
}

// whereSQL joins accumulated conditions into a WHERE clause, or returns the
// empty string when there are none.
func whereSQL(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}
