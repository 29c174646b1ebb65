package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nullchan-dev/nullchan/internal/api"
	"github.com/nullchan-dev/nullchan/internal/utils"
)

// GetFullThread returns a thread with every active reply. An absent thread
// is {"thread": null}, not an error status.
func (h *Handler) GetFullThread(w http.ResponseWriter, r *http.Request) {
	board := mux.Vars(r)["board"]
	threadId := r.URL.Query().Get("thread_id")
	if threadId == "" {
		http.Error(w, "thread_id is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := h.opContext(r)
	defer cancel()

	thread, err := h.reply.GetFull(ctx, board, threadId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.FullThreadResponse{Thread: thread})
}

func (h *Handler) CreateReply(w http.ResponseWriter, r *http.Request) {
	board := mux.Vars(r)["board"]

	var body api.CreateReplyRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	threadId := firstNonEmpty(r.URL.Query().Get("thread_id"), body.ThreadId)
	if threadId == "" {
		http.Error(w, "thread_id is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := h.opContext(r)
	defer cancel()

	id, err := h.reply.Create(ctx, board, threadId, body.Text, body.DeletePassword)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.Header().Set("X-New-Id", id)
	writeJSON(w, http.StatusCreated, api.CreatedResponse{Id: id})
}

func (h *Handler) FlagReply(w http.ResponseWriter, r *http.Request) {
	var body api.FlagReplyRequest
	decodeBody(r, &body)
	threadId := firstNonEmpty(r.URL.Query().Get("thread_id"), body.ThreadId)
	replyId := firstNonEmpty(r.URL.Query().Get("reply_id"), body.ReplyId)
	if threadId == "" || replyId == "" {
		http.Error(w, "thread_id and reply_id are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := h.opContext(r)
	defer cancel()

	if err := h.reply.Flag(ctx, threadId, replyId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.MessageResponse{Message: "success"})
}

func (h *Handler) DeleteReply(w http.ResponseWriter, r *http.Request) {
	var body api.DeleteReplyRequest
	decodeBody(r, &body)
	threadId := firstNonEmpty(r.URL.Query().Get("thread_id"), body.ThreadId)
	replyId := firstNonEmpty(r.URL.Query().Get("reply_id"), body.ReplyId)
	password := firstNonEmpty(r.URL.Query().Get("delete_password"), body.DeletePassword)
	if threadId == "" || replyId == "" || password == "" {
		http.Error(w, "thread_id, reply_id and delete_password are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := h.opContext(r)
	defer cancel()

	if err := h.reply.Delete(ctx, threadId, replyId, password); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.MessageResponse{Message: "success"})
}
