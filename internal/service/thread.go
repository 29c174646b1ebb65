package service

import (
	"context"
	"fmt"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nullchan-dev/nullchan/internal/config"
	"github.com/nullchan-dev/nullchan/internal/domain"
	internal_errors "github.com/nullchan-dev/nullchan/internal/errors"
)

type ThreadStorage interface {
	CreateThread(ctx context.Context, thread domain.Thread) (primitive.ObjectID, error)
	GetThread(ctx context.Context, board, threadId string) (domain.Thread, error)
	ListRecent(ctx context.Context, board string, threadLimit, replyLimit int) ([]domain.ThreadSummary, error)
	FlagThread(ctx context.Context, board, threadId string) error
	SoftDeleteThread(ctx context.Context, thread domain.Thread, now time.Time) error
	BumpThread(ctx context.Context, thread domain.Thread, bumpedOn time.Time) error
}

type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

type Thread struct {
	storage   ThreadStorage
	hasher    Hasher
	sanitizer *bluemonday.Policy

	threadsPerPage int
	repliesPreview int
}

func NewThread(storage ThreadStorage, hasher Hasher, cfg config.Public) *Thread {
	return &Thread{
		storage:        storage,
		hasher:         hasher,
		sanitizer:      bluemonday.StrictPolicy(),
		threadsPerPage: cfg.ThreadsPerPage,
		repliesPreview: cfg.RepliesPreview,
	}
}

func (t *Thread) Create(ctx context.Context, board, text, password string) (string, error) {
	text = t.sanitizer.Sanitize(text)

	hash, err := t.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash delete password: %w", err)
	}

	now := time.Now().UTC()
	id, err := t.storage.CreateThread(ctx, domain.NewThread(board, text, hash, now))
	if err != nil {
		return "", err
	}
	return id.Hex(), nil
}

func (t *Thread) List(ctx context.Context, board string) ([]domain.ThreadSummary, error) {
	return t.storage.ListRecent(ctx, board, t.threadsPerPage, t.repliesPreview)
}

func (t *Thread) Flag(ctx context.Context, board, threadId string) error {
	return t.storage.FlagThread(ctx, board, threadId)
}

// Delete verifies the per-thread password before hiding the thread. A wrong
// password leaves the thread untouched.
func (t *Thread) Delete(ctx context.Context, board, threadId, password string) error {
	thread, err := t.storage.GetThread(ctx, board, threadId)
	if err != nil {
		return err
	}
	if !t.hasher.Verify(password, thread.DeletePassword) {
		return internal_errors.InvalidCredential("incorrect password")
	}
	return t.storage.SoftDeleteThread(ctx, thread, time.Now().UTC())
}
