// Package pagination implements keyset cursors for list endpoints.
package pagination

import (
	"encoding/base64"
	"errors"
	"strconv"
)

// PageResult represents a paginated result set
type PageResult[T any] struct {
	Items   []T    `json:"items"`
	Cursor  string `json:"cursor,omitempty"`
	HasMore bool   `json:"has_more"`
}

var (
	ErrInvalidCursor = errors.New("invalid cursor format")
)

// EncodeCursor creates an opaque cursor from the last item's ordering key.
func EncodeCursor(lastID int64) string {
	if lastID == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString([]byte(strconv.FormatInt(lastID, 10)))
}

// DecodeCursor returns the ordering key encoded in a cursor. An empty
// cursor decodes to zero, the start of the result set.
func DecodeCursor(cursor string) (int64, error) {
	if cursor == "" {
		return 0, nil
	}

	raw, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return 0, ErrInvalidCursor
	}

	id, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil || id < 0 {
		return 0, ErrInvalidCursor
	}

	return id, nil
}
