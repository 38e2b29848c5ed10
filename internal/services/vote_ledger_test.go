package services

import (
	"context"
	"testing"
	"time"

	"moltbook/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoteDeltas(t *testing.T) {
	cases := []struct {
		name            string
		old, new        int
		score, up, down int
	}{
		{"first upvote", 0, 1, 1, 1, 0},
		{"first downvote", 0, -1, -1, 0, 1},
		{"repeat upvote", 1, 1, 0, 0, 0},
		{"repeat downvote", -1, -1, 0, 0, 0},
		{"flip up to down", 1, -1, -2, -1, 1},
		{"flip down to up", -1, 1, 2, 1, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			score, up, down := voteDeltas(tc.old, tc.new)
			assert.Equal(t, tc.score, score, "score delta")
			assert.Equal(t, tc.up, up, "upvote delta")
			assert.Equal(t, tc.down, down, "downvote delta")
		})
	}
}

func TestVoteDeltasSumsToScore(t *testing.T) {
	// The score delta always equals the upvote delta minus the downvote
	// delta, for every old/new pair.
	for _, old := range []int{-1, 0, 1} {
		for _, new := range []int{-1, 1} {
			score, up, down := voteDeltas(old, new)
			assert.Equal(t, up-down, score, "old=%d new=%d", old, new)
		}
	}
}

func postLockRows(score, up, down int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "submolt_id", "author_agent_id", "title", "kind",
		"score", "upvotes", "downvotes", "comment_count", "created_at",
	}).AddRow(
		"post1", "sub1", "author1", "hello", "text",
		score, up, down, 0, time.Now(),
	)
}

func emptyVoteRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "agent_id", "target_type", "target_id", "value"})
}

func TestApplyVoteFirstUpvote(t *testing.T) {
	db, mock := newTestDB(t)
	ledger := NewVoteLedger(db, testLogger(), nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "posts"`).WillReturnRows(postLockRows(0, 0, 0))
	mock.ExpectQuery(`SELECT \* FROM "votes"`).WillReturnRows(emptyVoteRows())
	mock.ExpectExec(`INSERT INTO "votes"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "posts" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "posts"`).WillReturnRows(postLockRows(1, 1, 0))
	mock.ExpectQuery(`SELECT "name" FROM "agents"`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Clawdia"))
	mock.ExpectCommit()

	res, err := ledger.ApplyVote(context.Background(), "voter1", models.TargetPost, "post1", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Score)
	assert.Equal(t, 1, res.Upvotes)
	assert.Equal(t, 0, res.Downvotes)
	assert.Equal(t, "author1", res.AuthorAgentID)
	assert.Equal(t, "Clawdia", res.AuthorName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func existingVoteRows(value int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "agent_id", "target_type", "target_id", "value"}).
		AddRow("vote1", "voter1", "post", "post1", value)
}

func TestApplyVoteIdempotentRepeat(t *testing.T) {
	db, mock := newTestDB(t)
	ledger := NewVoteLedger(db, testLogger(), nil)

	// Same value again: no vote write, no counter update, just re-reads.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "posts"`).WillReturnRows(postLockRows(1, 1, 0))
	mock.ExpectQuery(`SELECT \* FROM "votes"`).WillReturnRows(existingVoteRows(1))
	mock.ExpectQuery(`SELECT \* FROM "posts"`).WillReturnRows(postLockRows(1, 1, 0))
	mock.ExpectQuery(`SELECT "name" FROM "agents"`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Clawdia"))
	mock.ExpectCommit()

	res, err := ledger.ApplyVote(context.Background(), "voter1", models.TargetPost, "post1", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Score)
	assert.Equal(t, 1, res.Upvotes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyVoteFlip(t *testing.T) {
	db, mock := newTestDB(t)
	ledger := NewVoteLedger(db, testLogger(), nil)

	// Upvote on record, downvote arrives: vote row updated in place,
	// counters move by the flip deltas (-2, -1, +1).
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "posts"`).WillReturnRows(postLockRows(1, 1, 0))
	mock.ExpectQuery(`SELECT \* FROM "votes"`).WillReturnRows(existingVoteRows(1))
	mock.ExpectExec(`UPDATE "votes" SET "value"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "posts" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "posts"`).WillReturnRows(postLockRows(-1, 0, 1))
	mock.ExpectQuery(`SELECT "name" FROM "agents"`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Clawdia"))
	mock.ExpectCommit()

	res, err := ledger.ApplyVote(context.Background(), "voter1", models.TargetPost, "post1", -1)
	require.NoError(t, err)
	assert.Equal(t, -1, res.Score)
	assert.Equal(t, 0, res.Upvotes)
	assert.Equal(t, 1, res.Downvotes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyVoteMissingPost(t *testing.T) {
	db, mock := newTestDB(t)
	ledger := NewVoteLedger(db, testLogger(), nil)

	// Soft-deleted and absent posts look the same: zero rows.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "posts"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := ledger.ApplyVote(context.Background(), "voter1", models.TargetPost, "gone", 1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyVoteRejectsBadValue(t *testing.T) {
	db, _ := newTestDB(t)
	ledger := NewVoteLedger(db, testLogger(), nil)

	_, err := ledger.ApplyVote(context.Background(), "voter1", models.TargetPost, "post1", 0)
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = ledger.ApplyVote(context.Background(), "voter1", models.TargetPost, "post1", 2)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestApplyVoteRejectsCommentDownvote(t *testing.T) {
	db, _ := newTestDB(t)
	ledger := NewVoteLedger(db, testLogger(), nil)

	_, err := ledger.ApplyVote(context.Background(), "voter1", models.TargetComment, "comment1", -1)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestApplyVoteCommentUpvote(t *testing.T) {
	db, mock := newTestDB(t)
	ledger := NewVoteLedger(db, testLogger(), nil)

	commentRows := sqlmock.NewRows([]string{
		"id", "post_id", "author_agent_id", "content", "score", "upvotes", "created_at",
	}).AddRow("comment1", "post1", "author1", "nice", 0, 0, time.Now())
	freshRows := sqlmock.NewRows([]string{
		"id", "post_id", "author_agent_id", "content", "score", "upvotes", "created_at",
	}).AddRow("comment1", "post1", "author1", "nice", 1, 1, time.Now())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "comments"`).WillReturnRows(commentRows)
	mock.ExpectQuery(`SELECT \* FROM "votes"`).WillReturnRows(emptyVoteRows())
	mock.ExpectExec(`INSERT INTO "votes"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "comments" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "comments"`).WillReturnRows(freshRows)
	mock.ExpectCommit()

	res, err := ledger.ApplyVote(context.Background(), "voter1", models.TargetComment, "comment1", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Score)
	assert.Equal(t, 1, res.Upvotes)
	assert.Equal(t, "author1", res.AuthorAgentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVoteSequenceUpThenDownTwice(t *testing.T) {
	// +1 then -1 then -1 on a fresh post nets score -1, 0 up, 1 down.
	score, up, down := 0, 0, 0
	recorded := 0

	apply := func(value int) {
		ds, du, dd := voteDeltas(recorded, value)
		score += ds
		up += du
		down += dd
		recorded = value
	}

	apply(1)
	apply(-1)
	apply(-1)

	assert.Equal(t, -1, score)
	assert.Equal(t, 0, up)
	assert.Equal(t, 1, down)
}
