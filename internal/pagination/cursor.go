package pagination

import (
	"encoding/base64"
	"encoding/json"
	"strconv"
	"time"
)

// Cursor marks the last item of a feed page by (created_at, id). Feeds
// paginate on creation order rather than the rank key because hot/rising
// keys are time-relative and not reproducible between requests.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// wireCursor is the token payload. created_at travels as an RFC 3339
// string so the token survives schema-unaware callers echoing it back.
type wireCursor struct {
	CreatedAt string `json:"created_at"`
	ID        string `json:"id"`
}

// Encode returns an opaque URL-safe token for c.
func Encode(c Cursor) string {
	raw, _ := json.Marshal(wireCursor{
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339Nano),
		ID:        c.ID,
	})
	return base64.RawURLEncoding.EncodeToString(raw)
}

// Decode parses a token produced by Encode. It fails closed: malformed,
// truncated or otherwise invalid input yields nil, which callers must
// treat as "start from the beginning", never as an error.
func Decode(token string) *Cursor {
	if token == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil
	}
	var w wireCursor
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil
	}
	if w.ID == "" || w.CreatedAt == "" {
		return nil
	}
	ts, err := time.Parse(time.RFC3339Nano, w.CreatedAt)
	if err != nil {
		return nil
	}
	return &Cursor{CreatedAt: ts, ID: w.ID}
}

// ParseLimit clamps a raw limit query value to [min, max], falling back to
// def when the value is absent or not a number.
func ParseLimit(raw string, min, max, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
