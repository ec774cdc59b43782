package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// Cursor is the position of the last row of a page ordered by (time DESC, id DESC).
type Cursor struct {
	At time.Time
	ID string
}

// EncodeToken creates a URL-safe token from a row timestamp and its ID.
func EncodeToken(at time.Time, id string) string {
	tokenStr := fmt.Sprintf("%s|%s", at.UTC().Format(timeFormat), id)
	return base64.RawURLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a token produced by EncodeToken.
func DecodeToken(token string) (Cursor, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return Cursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	at, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (time parse): %w", err)
	}
	return Cursor{At: at, ID: parts[1]}, nil
}

// NextToken returns the token for the page after rows when the page is full, else nil.
func NextToken[T any](rows []T, limit int, key func(T) (time.Time, string)) *string {
	if limit <= 0 || len(rows) < limit {
		return nil
	}
	at, id := key(rows[len(rows)-1])
	token := EncodeToken(at, id)
	return &token
}
