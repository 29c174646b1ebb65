// Package mongo implements the thread and reply repositories over a shared
// MongoDB connection. Soft-deleted documents stay in their collections and
// every read and replace filter re-asserts deleted_on == null, so a deleted
// document can never be listed, fetched or mutated again.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nullchan-dev/nullchan/internal/config"
	internal_errors "github.com/nullchan-dev/nullchan/internal/errors"
)

type Storage struct {
	client  *mongo.Client
	threads *mongo.Collection
	replies *mongo.Collection

	// repliesName is the raw collection name, needed as the $lookup "from"
	repliesName string
}

func New(ctx context.Context, uri string, cfg config.Mongo) (*Storage, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := client.Database(cfg.Dbname)
	s := &Storage{
		client:      client,
		threads:     db.Collection(cfg.ThreadsCollection),
		replies:     db.Collection(cfg.RepliesCollection),
		repliesName: cfg.RepliesCollection,
	}

	if err := s.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}
	return s, nil
}

func (s *Storage) ensureIndexes(ctx context.Context) error {
	_, err := s.threads.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "board", Value: 1}, {Key: "deleted_on", Value: 1}, {Key: "bumped_on", Value: -1}}},
	})
	if err != nil {
		return err
	}
	_, err = s.replies.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "thread_id", Value: 1}, {Key: "deleted_on", Value: 1}, {Key: "created_on", Value: -1}}},
	})
	return err
}

func (s *Storage) Cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.client.Disconnect(ctx)
}

// parseId converts a caller-supplied hex identifier. A syntactically invalid
// id can never match a stored document, so it surfaces as NotFound.
func parseId(hex, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, internal_errors.NotFound(fmt.Sprintf("no %s with that id was found", what))
	}
	return id, nil
}

// storeErr classifies driver failures (I/O, timeout, cancellation) that are
// not a business outcome.
func storeErr(op string, err error) error {
	return internal_errors.StoreUnavailable(op, err)
}

func activeThreadFilter(board string, id primitive.ObjectID) bson.D {
	return bson.D{
		{Key: "board", Value: board},
		{Key: "_id", Value: id},
		{Key: "deleted_on", Value: nil},
	}
}

func activeReplyFilter(threadId, replyId primitive.ObjectID) bson.D {
	return bson.D{
		{Key: "thread_id", Value: threadId},
		{Key: "_id", Value: replyId},
		{Key: "deleted_on", Value: nil},
	}
}
