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

func (s *Storage) CreateReply(ctx context.Context, reply domain.Reply) (primitive.ObjectID, error) {
	result, err := s.replies.InsertOne(ctx, reply)
	if err != nil {
		return primitive.NilObjectID, storeErr("failed to insert reply", err)
	}
	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok || id.IsZero() {
		return primitive.NilObjectID, internal_errors.WriteFailed("reply could not be created")
	}
	return id, nil
}

func (s *Storage) GetReply(ctx context.Context, threadId, replyId string) (domain.Reply, error) {
	tid, err := parseId(threadId, "reply")
	if err != nil {
		return domain.Reply{}, err
	}
	rid, err := parseId(replyId, "reply")
	if err != nil {
		return domain.Reply{}, err
	}

	var reply domain.Reply
	err = s.replies.FindOne(ctx, activeReplyFilter(tid, rid)).Decode(&reply)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Reply{}, internal_errors.NotFound("no reply with that thread id and reply id was found")
		}
		return domain.Reply{}, storeErr("failed to fetch reply", err)
	}
	return reply, nil
}

// GetFullThread returns an active thread with all of its active replies,
// newest first. An absent (or deleted, or syntactically invalid) thread is a
// nil result, not an error: callers distinguish "nothing there" from
// repository failures.
func (s *Storage) GetFullThread(ctx context.Context, board string, threadId string) (*domain.FullThread, error) {
	id, err := primitive.ObjectIDFromHex(threadId)
	if err != nil {
		return nil, nil
	}

	pipeline := []interface{}{
		matchActiveThread(board, id),
		threadProjection(),
		activeRepliesLookup(s.repliesName, 0),
	}

	cursor, err := s.threads.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, storeErr("failed to fetch full thread", err)
	}
	defer cursor.Close(ctx)

	var threads []domain.FullThread
	if err := cursor.All(ctx, &threads); err != nil {
		return nil, storeErr("failed to decode full thread", err)
	}
	if len(threads) == 0 {
		return nil, nil
	}
	return &threads[0], nil
}

func (s *Storage) FlagReply(ctx context.Context, threadId, replyId string) error {
	tid, err := parseId(threadId, "reply")
	if err != nil {
		return err
	}
	rid, err := parseId(replyId, "reply")
	if err != nil {
		return err
	}
	filter := activeReplyFilter(tid, rid)

	var reply domain.Reply
	if err := s.replies.FindOne(ctx, filter).Decode(&reply); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return internal_errors.NotFound("no reply with that thread id and reply id was found")
		}
		return storeErr("failed to fetch reply", err)
	}

	reply.Reported = true

	result, err := s.replies.ReplaceOne(ctx, filter, reply)
	if err != nil {
		return storeErr("failed to flag reply", err)
	}
	if result.ModifiedCount == 0 {
		return internal_errors.WriteFailed("reply could not be flagged")
	}
	return nil
}

// SoftDeleteReply hides a previously loaded reply and redacts its text to
// the tombstone value. The record stays in the collection.
func (s *Storage) SoftDeleteReply(ctx context.Context, reply domain.Reply, now time.Time) error {
	filter := activeReplyFilter(reply.ThreadId, reply.Id)
	reply.DeletedOn = &now
	reply.Text = domain.Tombstone

	result, err := s.replies.ReplaceOne(ctx, filter, reply)
	if err != nil {
		return storeErr("failed to delete reply", err)
	}
	if result.ModifiedCount == 0 {
		return internal_errors.WriteFailed("reply could not be deleted")
	}
	return nil
}
