package service

import (
	"context"
	"fmt"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nullchan-dev/nullchan/internal/domain"
	internal_errors "github.com/nullchan-dev/nullchan/internal/errors"
	"github.com/nullchan-dev/nullchan/internal/logger"
)

type ReplyStorage interface {
	CreateReply(ctx context.Context, reply domain.Reply) (primitive.ObjectID, error)
	GetReply(ctx context.Context, threadId, replyId string) (domain.Reply, error)
	GetFullThread(ctx context.Context, board, threadId string) (*domain.FullThread, error)
	FlagReply(ctx context.Context, threadId, replyId string) error
	SoftDeleteReply(ctx context.Context, reply domain.Reply, now time.Time) error
}

type Reply struct {
	storage   ReplyStorage
	threads   ThreadStorage
	hasher    Hasher
	sanitizer *bluemonday.Policy
}

func NewReply(storage ReplyStorage, threads ThreadStorage, hasher Hasher) *Reply {
	return &Reply{
		storage:   storage,
		threads:   threads,
		hasher:    hasher,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Create inserts a reply and bumps the parent thread to the reply's creation
// time. The two writes are not atomic: if the bump fails after the insert
// succeeded, the operation reports the failure and the orphaned reply is
// logged for reconciliation.
func (r *Reply) Create(ctx context.Context, board, threadId, text, password string) (string, error) {
	thread, err := r.threads.GetThread(ctx, board, threadId)
	if err != nil {
		return "", err
	}

	text = r.sanitizer.Sanitize(text)

	hash, err := r.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash delete password: %w", err)
	}

	now := time.Now().UTC()
	id, err := r.storage.CreateReply(ctx, domain.NewReply(thread.Id, text, hash, now))
	if err != nil {
		return "", err
	}

	if err := r.threads.BumpThread(ctx, thread, now); err != nil {
		logger.Log.Warn("reply inserted but thread bump failed; reply is orphaned",
			"reply_id", id.Hex(), "thread_id", threadId, "err", err)
		return "", err
	}
	return id.Hex(), nil
}

// GetFull returns a thread with all of its active replies, or nil when no
// matching active thread exists.
func (r *Reply) GetFull(ctx context.Context, board, threadId string) (*domain.FullThread, error) {
	return r.storage.GetFullThread(ctx, board, threadId)
}

func (r *Reply) Flag(ctx context.Context, threadId, replyId string) error {
	return r.storage.FlagReply(ctx, threadId, replyId)
}

func (r *Reply) Delete(ctx context.Context, threadId, replyId, password string) error {
	reply, err := r.storage.GetReply(ctx, threadId, replyId)
	if err != nil {
		return err
	}
	if !r.hasher.Verify(password, reply.DeletePassword) {
		return internal_errors.InvalidCredential("incorrect password")
	}
	return r.storage.SoftDeleteReply(ctx, reply, time.Now().UTC())
}
