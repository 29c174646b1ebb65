package mongo

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nullchan-dev/nullchan/internal/config"
	"github.com/nullchan-dev/nullchan/internal/domain"
	internal_errors "github.com/nullchan-dev/nullchan/internal/errors"
)

var storage *Storage

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Waiting for connections").WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		log.Fatalf("failed to start container: %s", err)
	}
	defer func() {
		if err := container.Terminate(ctx); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}()

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		log.Fatalf("failed to obtain connection string: %s", err)
	}

	storage, err = New(ctx, uri, config.Mongo{
		Dbname:            "nullchan_test",
		ThreadsCollection: "threads",
		RepliesCollection: "replies",
	})
	if err != nil {
		log.Fatalf("failed to connect to mongo container: %s", err)
	}
	defer storage.Cleanup()

	os.Exit(m.Run())
}

// --- helpers ---

// createThreadAt inserts a thread with explicit timestamps so ordering tests
// are deterministic. Timestamps use millisecond precision, matching what the
// store round-trips.
func createThreadAt(t *testing.T, board, text string, ts time.Time) domain.Thread {
	t.Helper()
	ctx := context.Background()

	id, err := storage.CreateThread(ctx, domain.NewThread(board, text, "hash", ts))
	require.NoError(t, err)

	thread, err := storage.GetThread(ctx, board, id.Hex())
	require.NoError(t, err)
	return thread
}

// addReplyAt performs the two-write reply creation the service runs: insert
// the reply, then bump the freshly loaded parent thread.
func addReplyAt(t *testing.T, thread domain.Thread, text string, ts time.Time) primitive.ObjectID {
	t.Helper()
	ctx := context.Background()

	parent, err := storage.GetThread(ctx, thread.Board, thread.Id.Hex())
	require.NoError(t, err)

	id, err := storage.CreateReply(ctx, domain.NewReply(parent.Id, text, "hash", ts))
	require.NoError(t, err)
	require.NoError(t, storage.BumpThread(ctx, parent, ts))
	return id
}

func baseTime() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// --- tests ---

func TestListRecentBoundsAndOrder(t *testing.T) {
	ctx := context.Background()
	base := baseTime()

	var created []domain.Thread
	for i := 0; i < 12; i++ {
		created = append(created, createThreadAt(t, "lim", "thread", base.Add(time.Duration(i)*10*time.Millisecond)))
	}

	threads, err := storage.ListRecent(ctx, "lim", 10, 3)
	require.NoError(t, err)
	require.Len(t, threads, 10, "listing must never exceed the thread limit")

	// most recently bumped first; the two oldest threads fall off
	for i := 0; i < 10; i++ {
		assert.Equal(t, created[11-i].Id, threads[i].Id, "position %d", i)
	}
	for _, th := range threads {
		assert.Empty(t, th.Replies)
		assert.Equal(t, 0, th.ReplyCount)
	}
}

func TestBumpMovesRepliedThreadToFront(t *testing.T) {
	ctx := context.Background()
	base := baseTime()

	t1 := createThreadAt(t, "bump", "t1", base)
	t2 := createThreadAt(t, "bump", "t2", base.Add(10*time.Millisecond))
	t3 := createThreadAt(t, "bump", "t3", base.Add(20*time.Millisecond))

	addReplyAt(t, t1, "bump me", base.Add(30*time.Millisecond))

	threads, err := storage.ListRecent(ctx, "bump", 10, 3)
	require.NoError(t, err)
	require.Len(t, threads, 3)

	// the replied-to thread moves to the front, the rest keep relative order
	assert.Equal(t, t1.Id, threads[0].Id)
	assert.Equal(t, t3.Id, threads[1].Id)
	assert.Equal(t, t2.Id, threads[2].Id)
}

func TestReplyPreviewLimitAndFullCount(t *testing.T) {
	ctx := context.Background()
	base := baseTime()

	thread := createThreadAt(t, "preview", "op", base)
	var replyIds []primitive.ObjectID
	for i := 0; i < 5; i++ {
		replyIds = append(replyIds, addReplyAt(t, thread, "reply", base.Add(time.Duration(i+1)*10*time.Millisecond)))
	}

	threads, err := storage.ListRecent(ctx, "preview", 10, 3)
	require.NoError(t, err)
	require.Len(t, threads, 1)

	summary := threads[0]
	require.Len(t, summary.Replies, 3, "the preview is capped")
	assert.Equal(t, 5, summary.ReplyCount, "the count covers all active replies, not just the preview")

	// newest first: replies 4, 3, 2
	assert.Equal(t, replyIds[4], summary.Replies[0].Id)
	assert.Equal(t, replyIds[3], summary.Replies[1].Id)
	assert.Equal(t, replyIds[2], summary.Replies[2].Id)
}

func TestGetFullThreadReturnsAllReplies(t *testing.T) {
	ctx := context.Background()
	base := baseTime()

	thread := createThreadAt(t, "full", "op", base)
	var replyIds []primitive.ObjectID
	for i := 0; i < 5; i++ {
		replyIds = append(replyIds, addReplyAt(t, thread, "reply", base.Add(time.Duration(i+1)*10*time.Millisecond)))
	}

	full, err := storage.GetFullThread(ctx, "full", thread.Id.Hex())
	require.NoError(t, err)
	require.NotNil(t, full)
	require.Len(t, full.Replies, 5, "the full fetch has no reply limit")
	for i := 0; i < 5; i++ {
		assert.Equal(t, replyIds[4-i], full.Replies[i].Id)
	}
}

func TestGetFullThreadAbsentIsNil(t *testing.T) {
	ctx := context.Background()

	full, err := storage.GetFullThread(ctx, "nowhere", primitive.NewObjectID().Hex())
	require.NoError(t, err)
	assert.Nil(t, full)

	// syntactically invalid ids are simply absent
	full, err = storage.GetFullThread(ctx, "nowhere", "not-a-hex-id")
	require.NoError(t, err)
	assert.Nil(t, full)
}

func TestFlagThread(t *testing.T) {
	ctx := context.Background()
	thread := createThreadAt(t, "flag", "op", baseTime())

	require.NoError(t, storage.FlagThread(ctx, "flag", thread.Id.Hex()))

	// flagging does not hide the thread
	threads, err := storage.ListRecent(ctx, "flag", 10, 3)
	require.NoError(t, err)
	require.Len(t, threads, 1)

	// the repeated write replaces the document with itself; the store
	// confirms no modification, which surfaces as WriteFailed
	err = storage.FlagThread(ctx, "flag", thread.Id.Hex())
	require.Error(t, err)
	assert.True(t, internal_errors.Is(err, internal_errors.KindWriteFailed))

	// unknown and malformed ids are NotFound
	err = storage.FlagThread(ctx, "flag", primitive.NewObjectID().Hex())
	assert.True(t, internal_errors.Is(err, internal_errors.KindNotFound))
	err = storage.FlagThread(ctx, "flag", "zzz")
	assert.True(t, internal_errors.Is(err, internal_errors.KindNotFound))
}

func TestSoftDeleteThreadHidesEverywhere(t *testing.T) {
	ctx := context.Background()
	base := baseTime()

	doomed := createThreadAt(t, "tdel", "doomed", base)
	keeper := createThreadAt(t, "tdel", "keeper", base.Add(10*time.Millisecond))
	addReplyAt(t, keeper, "keeper reply", base.Add(20*time.Millisecond))

	require.NoError(t, storage.SoftDeleteThread(ctx, doomed, base.Add(30*time.Millisecond)))

	// gone from the listing, the survivor unaffected
	threads, err := storage.ListRecent(ctx, "tdel", 10, 3)
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.Equal(t, keeper.Id, threads[0].Id)
	assert.Equal(t, 1, threads[0].ReplyCount)

	// gone from the full fetch
	full, err := storage.GetFullThread(ctx, "tdel", doomed.Id.Hex())
	require.NoError(t, err)
	assert.Nil(t, full)

	// a second delete finds nothing to load
	_, err = storage.GetThread(ctx, "tdel", doomed.Id.Hex())
	assert.True(t, internal_errors.Is(err, internal_errors.KindNotFound))

	// a raced delete holding the old document cannot modify anything
	err = storage.SoftDeleteThread(ctx, doomed, base.Add(40*time.Millisecond))
	assert.True(t, internal_errors.Is(err, internal_errors.KindWriteFailed))
}

func TestSoftDeleteReplyRedactsAndHides(t *testing.T) {
	ctx := context.Background()
	base := baseTime()

	thread := createThreadAt(t, "rdel", "op", base)
	keepId := addReplyAt(t, thread, "keep", base.Add(10*time.Millisecond))
	doomedId := addReplyAt(t, thread, "doomed", base.Add(20*time.Millisecond))

	doomed, err := storage.GetReply(ctx, thread.Id.Hex(), doomedId.Hex())
	require.NoError(t, err)
	require.NoError(t, storage.SoftDeleteReply(ctx, doomed, base.Add(30*time.Millisecond)))

	// hidden from point reads
	_, err = storage.GetReply(ctx, thread.Id.Hex(), doomedId.Hex())
	assert.True(t, internal_errors.Is(err, internal_errors.KindNotFound))

	// hidden from the full fetch and excluded from counts
	full, err := storage.GetFullThread(ctx, "rdel", thread.Id.Hex())
	require.NoError(t, err)
	require.NotNil(t, full)
	require.Len(t, full.Replies, 1)
	assert.Equal(t, keepId, full.Replies[0].Id)

	threads, err := storage.ListRecent(ctx, "rdel", 10, 3)
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.Equal(t, 1, threads[0].ReplyCount)

	// the raw document is retained, tombstoned
	var raw domain.Reply
	require.NoError(t, storage.replies.FindOne(ctx, bson.D{{Key: "_id", Value: doomedId}}).Decode(&raw))
	assert.Equal(t, domain.Tombstone, raw.Text)
	assert.NotNil(t, raw.DeletedOn)
}

func TestFlagReply(t *testing.T) {
	ctx := context.Background()
	base := baseTime()

	thread := createThreadAt(t, "rflag", "op", base)
	replyId := addReplyAt(t, thread, "flag me", base.Add(10*time.Millisecond))

	require.NoError(t, storage.FlagReply(ctx, thread.Id.Hex(), replyId.Hex()))

	// still visible
	full, err := storage.GetFullThread(ctx, "rflag", thread.Id.Hex())
	require.NoError(t, err)
	require.NotNil(t, full)
	assert.Len(t, full.Replies, 1)

	err = storage.FlagReply(ctx, thread.Id.Hex(), primitive.NewObjectID().Hex())
	assert.True(t, internal_errors.Is(err, internal_errors.KindNotFound))
}

func TestListRecentEmptyBoard(t *testing.T) {
	ctx := context.Background()

	threads, err := storage.ListRecent(ctx, "empty-board", 10, 3)
	require.NoError(t, err)
	assert.NotNil(t, threads)
	assert.Empty(t, threads)
}
