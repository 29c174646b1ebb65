package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/nullchan-dev/nullchan/internal/domain"
	"github.com/nullchan-dev/nullchan/internal/logger"
)

type ThreadService interface {
	Create(ctx context.Context, board, text, password string) (string, error)
	List(ctx context.Context, board string) ([]domain.ThreadSummary, error)
	Flag(ctx context.Context, board, threadId string) error
	Delete(ctx context.Context, board, threadId, password string) error
}

type ReplyService interface {
	Create(ctx context.Context, board, threadId, text, password string) (string, error)
	GetFull(ctx context.Context, board, threadId string) (*domain.FullThread, error)
	Flag(ctx context.Context, threadId, replyId string) error
	Delete(ctx context.Context, threadId, replyId, password string) error
}

type Handler struct {
	thread    ThreadService
	reply     ReplyService
	opTimeout time.Duration
}

func New(thread ThreadService, reply ReplyService, opTimeout time.Duration) *Handler {
	return &Handler{thread: thread, reply: reply, opTimeout: opTimeout}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// opContext derives a request context with the configured store deadline.
func (h *Handler) opContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.opTimeout)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "err", err)
	}
}
