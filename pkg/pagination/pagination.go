package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/pos-backend/pkg/types"
)

const (
	DefaultLimit = 25
	MaxLimit     = 100
)

// Params is a page request as received from the query string.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor is the keyset position after the last row of a page, newest first.
type Cursor[I types.Identifier] struct {
	CreatedAt time.Time
	ID        I
}

func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return min(limit, MaxLimit)
}

// LimitWithBuffer is the row count to fetch so a following page can be detected.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// Page trims rows fetched with LimitWithBuffer down to one page. The returned
// pointer is the last kept row when another page exists, nil otherwise.
func Page[T any](rows []T, limit int) ([]T, *T) {
	limit = NormalizeLimit(limit)
	if len(rows) <= limit {
		return rows, nil
	}
	rows = rows[:limit]
	return rows, &rows[limit-1]
}

// EncodeCursor renders a URL-safe cursor for the ?cursor= query parameter.
func EncodeCursor[I types.Identifier](cursor Cursor[I]) string {
	id := struct{ uuid.UUID }(cursor.ID).UUID
	payload := cursor.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + id.String()
	return base64.RawURLEncoding.EncodeToString([]byte(payload))
}

// ParseCursor decodes a cursor produced by EncodeCursor. Blank input is the first page.
func ParseCursor[I types.Identifier](value string) (*Cursor[I], error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	decoded, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	createdAt, rawID, ok := strings.Cut(string(decoded), "|")
	if !ok {
		return nil, fmt.Errorf("invalid cursor format")
	}

	at, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor timestamp: %w", err)
	}
	id, err := types.Parse[I](rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor id: %w", err)
	}
	return &Cursor[I]{CreatedAt: at, ID: id}, nil
}
