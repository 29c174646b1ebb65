package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nullchan-dev/nullchan/internal/domain"
	internal_errors "github.com/nullchan-dev/nullchan/internal/errors"
)

func (s *Storage) CreateThread(ctx context.Context, thread domain.Thread) (primitive.ObjectID, error) {
	result, err := s.threads.InsertOne(ctx, thread)
	if err != nil {
		return primitive.NilObjectID, storeErr("failed to insert thread", err)
	}
	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok || id.IsZero() {
		return primitive.NilObjectID, internal_errors.WriteFailed("thread could not be created")
	}
	return id, nil
}

// GetThread fetches an active thread by board and id. Soft-deleted threads
// are indistinguishable from absent ones.
func (s *Storage) GetThread(ctx context.Context, board string, threadId string) (domain.Thread, error) {
	id, err := parseId(threadId, "thread")
	if err != nil {
		return domain.Thread{}, err
	}

	var thread domain.Thread
	err = s.threads.FindOne(ctx, activeThreadFilter(board, id)).Decode(&thread)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Thread{}, internal_errors.NotFound("no thread with that board and id was found")
		}
		return domain.Thread{}, storeErr("failed to fetch thread", err)
	}
	return thread, nil
}

// ListRecent returns up to threadLimit active threads for a board, most
// recently bumped first, each carrying up to replyLimit recent active
// replies and the full active reply count.
func (s *Storage) ListRecent(ctx context.Context, board string, threadLimit, replyLimit int) ([]domain.ThreadSummary, error) {
	pipeline := []interface{}{
		matchActiveBoard(board),
		sortByDesc("bumped_on"),
		limitTo(threadLimit),
		threadProjection(),
		activeRepliesLookup(s.repliesName, replyLimit),
		replyCountLookup(s.repliesName),
		flattenReplyCount(),
	}

	cursor, err := s.threads.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, storeErr("failed to list threads", err)
	}
	defer cursor.Close(ctx)

	threads := []domain.ThreadSummary{}
	if err := cursor.All(ctx, &threads); err != nil {
		return nil, storeErr("failed to decode thread listing", err)
	}
	return threads, nil
}

// FlagThread marks an active thread for moderator attention. Flagging an
// already-flagged thread repeats the same write.
func (s *Storage) FlagThread(ctx context.Context, board string, threadId string) error {
	id, err := parseId(threadId, "thread")
	if err != nil {
		return err
	}
	filter := activeThreadFilter(board, id)

	var thread domain.Thread
	if err := s.threads.FindOne(ctx, filter).Decode(&thread); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return internal_errors.NotFound("no thread with that board and id was found")
		}
		return storeErr("failed to fetch thread", err)
	}

	thread.Reported = true

	result, err := s.threads.ReplaceOne(ctx, filter, thread)
	if err != nil {
		return storeErr("failed to flag thread", err)
	}
	if result.ModifiedCount == 0 {
		// Lost the replace race, or the store confirmed nothing. The filter
		// re-asserts deleted_on == null, so a concurrently deleted thread
		// lands here too.
		return internal_errors.WriteFailed("thread could not be flagged")
	}
	return nil
}

// SoftDeleteThread hides a previously loaded thread. The replace filter
// matches active documents only, so a concurrent delete makes this report
// WriteFailed rather than silently double-deleting.
func (s *Storage) SoftDeleteThread(ctx context.Context, thread domain.Thread, now time.Time) error {
	filter := activeThreadFilter(thread.Board, thread.Id)
	thread.DeletedOn = &now

	result, err := s.threads.ReplaceOne(ctx, filter, thread)
	if err != nil {
		return storeErr("failed to delete thread", err)
	}
	if result.ModifiedCount == 0 {
		return internal_errors.WriteFailed("thread could not be deleted")
	}
	return nil
}

// BumpThread moves a previously loaded thread's ordering timestamp forward.
func (s *Storage) BumpThread(ctx context.Context, thread domain.Thread, bumpedOn time.Time) error {
	filter := activeThreadFilter(thread.Board, thread.Id)
	thread.BumpedOn = bumpedOn

	result, err := s.threads.ReplaceOne(ctx, filter, thread)
	if err != nil {
		return storeErr("failed to bump thread", err)
	}
	if result.ModifiedCount == 0 {
		return internal_errors.WriteFailed("thread could not be bumped")
	}
	return nil
}
