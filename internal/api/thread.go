package api

import "github.com/nullchan-dev/nullchan/internal/domain"

// Request DTOs. Board always arrives as a path variable; thread_id, reply_id
// and delete_password may arrive via query string or JSON body (query wins).

type CreateThreadRequest struct {
	Text           string `json:"text" validate:"required"`
	DeletePassword string `json:"delete_password" validate:"required"`
}

type FlagThreadRequest struct {
	ThreadId string `json:"thread_id"`
}

type DeleteThreadRequest struct {
	ThreadId       string `json:"thread_id"`
	DeletePassword string `json:"delete_password"`
}

// Response DTOs

type ThreadsResponse struct {
	Threads []domain.ThreadSummary `json:"threads"`
}

type FullThreadResponse struct {
	// Thread is null when no matching active thread exists.
	Thread *domain.FullThread `json:"thread"`
}

type CreatedResponse struct {
	Id string `json:"id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
