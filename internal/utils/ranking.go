package utils

import (
	"math"
	"time"
)

// Feed sort variants. hot and rising divide score by a power of the item's
// age, so their rank keys drift as time passes and a ranked feed reshuffles
// between requests. That is expected; pagination therefore cuts on
// (created_at, id), not on the rank key.
type Sort string

const (
	SortHot    Sort = "hot"
	SortNew    Sort = "new"
	SortTop    Sort = "top"
	SortRising Sort = "rising"
)

const (
	hotGravity    = 1.8
	risingGravity = 2.5
)

// ParseSort maps a raw query value to a post sort. Unknown values fall
// back to hot.
func ParseSort(raw string) Sort {
	switch Sort(raw) {
	case SortNew, SortTop, SortRising:
		return Sort(raw)
	default:
		return SortHot
	}
}

// ParseCommentSort maps a raw query value to a comment sort. Comments only
// support new and top; anything else falls back to top.
func ParseCommentSort(raw string) Sort {
	if Sort(raw) == SortNew {
		return SortNew
	}
	return SortTop
}

// Rank computes the primary sort key for an item under the given variant.
// Ties are broken by (created_at, id) descending, handled by the caller;
// every variant shares that tie-break so the ordering is a strict total
// order.
func Rank(score int, createdAt, now time.Time, sort Sort) float64 {
	switch sort {
	case SortNew:
		return float64(createdAt.UnixNano())
	case SortTop:
		return float64(score)
	case SortRising:
		return decayed(score, createdAt, now, risingGravity)
	default:
		return decayed(score, createdAt, now, hotGravity)
	}
}

func decayed(score int, createdAt, now time.Time, gravity float64) float64 {
	ageHours := now.Sub(createdAt).Hours()
	if ageHours < 0 {
		ageHours = 0
	}
	return float64(score) / math.Pow(ageHours+2.0, gravity)
}

// OrderBy returns the ORDER BY expression for post feeds. Columns are
// qualified for queries aliasing posts as p.
func OrderBy(sort Sort) string {
	switch sort {
	case SortNew:
		return "p.created_at DESC, p.id DESC"
	case SortTop:
		return "p.score DESC, p.created_at DESC, p.id DESC"
	case SortRising:
		return "(p.score / POWER(EXTRACT(EPOCH FROM (NOW() - p.created_at)) / 3600 + 2, 2.5)) DESC, p.created_at DESC, p.id DESC"
	default:
		return "(p.score / POWER(EXTRACT(EPOCH FROM (NOW() - p.created_at)) / 3600 + 2, 1.8)) DESC, p.created_at DESC, p.id DESC"
	}
}

// CommentOrderBy returns the ORDER BY expression for comment listings,
// qualified for queries aliasing comments as c.
func CommentOrderBy(sort Sort) string {
	if sort == SortNew {
		return "c.created_at DESC, c.id DESC"
	}
	return "c.score DESC, c.created_at DESC, c.id DESC"
}
