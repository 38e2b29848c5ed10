package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseSort(t *testing.T) {
	assert.Equal(t, SortNew, ParseSort("new"))
	assert.Equal(t, SortTop, ParseSort("top"))
	assert.Equal(t, SortRising, ParseSort("rising"))
	assert.Equal(t, SortHot, ParseSort("hot"))
	assert.Equal(t, SortHot, ParseSort(""))
	assert.Equal(t, SortHot, ParseSort("controversial"))
}

func TestParseCommentSort(t *testing.T) {
	assert.Equal(t, SortNew, ParseCommentSort("new"))
	assert.Equal(t, SortTop, ParseCommentSort("top"))
	assert.Equal(t, SortTop, ParseCommentSort("hot"))
	assert.Equal(t, SortTop, ParseCommentSort(""))
}

func TestRankNewAndTop(t *testing.T) {
	now := time.Now()
	older := now.Add(-2 * time.Hour)

	assert.Greater(t, Rank(0, now, now, SortNew), Rank(100, older, now, SortNew))
	assert.Equal(t, 42.0, Rank(42, older, now, SortTop))
	assert.Equal(t, -7.0, Rank(-7, older, now, SortTop))
}

func TestRankHotDecay(t *testing.T) {
	now := time.Now()
	fresh := now.Add(-1 * time.Hour)
	stale := now.Add(-48 * time.Hour)

	// same score, fresher item ranks higher
	assert.Greater(t, Rank(10, fresh, now, SortHot), Rank(10, stale, now, SortHot))
	// same age, higher score ranks higher
	assert.Greater(t, Rank(20, stale, now, SortHot), Rank(10, stale, now, SortHot))
}

func TestRisingDecaysFasterThanHot(t *testing.T) {
	now := time.Now()
	aged := now.Add(-24 * time.Hour)

	hot := Rank(10, aged, now, SortHot)
	rising := Rank(10, aged, now, SortRising)
	assert.Less(t, rising, hot)

	// a very recent item with a little traction beats an older high scorer
	// under rising but not under top
	recent := now.Add(-30 * time.Minute)
	assert.Greater(t, Rank(3, recent, now, SortRising), Rank(50, aged, now, SortRising))
	assert.Less(t, Rank(3, recent, now, SortTop), Rank(50, aged, now, SortTop))
}

func TestOrderByAlwaysTieBreaks(t *testing.T) {
	for _, s := range []Sort{SortHot, SortNew, SortTop, SortRising} {
		assert.True(t, strings.HasSuffix(OrderBy(s), "p.created_at DESC, p.id DESC"), "sort %s", s)
	}
	assert.True(t, strings.HasSuffix(CommentOrderBy(SortNew), "c.id DESC"))
	assert.True(t, strings.HasSuffix(CommentOrderBy(SortTop), "c.created_at DESC, c.id DESC"))
}
