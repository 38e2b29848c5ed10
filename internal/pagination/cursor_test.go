package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	c := Cursor{
		CreatedAt: time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC),
		ID:        "01JD2QZBM4T9GVXK3W5E8YHNRC",
	}

	decoded := Decode(Encode(c))
	require.NotNil(t, decoded)
	assert.True(t, decoded.CreatedAt.Equal(c.CreatedAt))
	assert.Equal(t, c.ID, decoded.ID)
}

func TestCursorRoundTripNonUTC(t *testing.T) {
	loc := time.FixedZone("KST", 9*60*60)
	c := Cursor{CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, loc), ID: "01ABC"}

	decoded := Decode(Encode(c))
	require.NotNil(t, decoded)
	// same instant, normalized to UTC on the wire
	assert.True(t, decoded.CreatedAt.Equal(c.CreatedAt))
}

func TestDecodeFailsClosed(t *testing.T) {
	valid := Encode(Cursor{CreatedAt: time.Now(), ID: "01ABC"})

	cases := map[string]string{
		"empty":           "",
		"not base64":      "!!!not-base64!!!",
		"not json":        base64.RawURLEncoding.EncodeToString([]byte("plain text")),
		"missing id":      base64.RawURLEncoding.EncodeToString([]byte(`{"created_at":"2026-01-01T00:00:00Z"}`)),
		"missing time":    base64.RawURLEncoding.EncodeToString([]byte(`{"id":"01ABC"}`)),
		"bad timestamp":   base64.RawURLEncoding.EncodeToString([]byte(`{"created_at":"yesterday","id":"01ABC"}`)),
		"truncated token": valid[:len(valid)/2],
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Nil(t, Decode(token))
		})
	}
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, 25, ParseLimit("", 1, 50, 25))
	assert.Equal(t, 25, ParseLimit("abc", 1, 50, 25))
	assert.Equal(t, 10, ParseLimit("10", 1, 50, 25))
	assert.Equal(t, 1, ParseLimit("0", 1, 50, 25))
	assert.Equal(t, 1, ParseLimit("-3", 1, 50, 25))
	assert.Equal(t, 50, ParseLimit("500", 1, 50, 25))
}
