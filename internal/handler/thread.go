package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nullchan-dev/nullchan/internal/api"
	"github.com/nullchan-dev/nullchan/internal/utils"
)

func (h *Handler) ListThreads(w http.ResponseWriter, r *http.Request) {
	board := mux.Vars(r)["board"]

	ctx, cancel := h.opContext(r)
	defer cancel()

	threads, err := h.thread.List(ctx, board)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.ThreadsResponse{Threads: threads})
}

func (h *Handler) CreateThread(w http.ResponseWriter, r *http.Request) {
	board := mux.Vars(r)["board"]

	var body api.CreateThreadRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := h.opContext(r)
	defer cancel()

	id, err := h.thread.Create(ctx, board, body.Text, body.DeletePassword)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.Header().Set("X-New-Id", id)
	writeJSON(w, http.StatusCreated, api.CreatedResponse{Id: id})
}

func (h *Handler) FlagThread(w http.ResponseWriter, r *http.Request) {
	board := mux.Vars(r)["board"]

	var body api.FlagThreadRequest
	decodeBody(r, &body)
	threadId := firstNonEmpty(r.URL.Query().Get("thread_id"), body.ThreadId)
	if threadId == "" {
		http.Error(w, "thread_id is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := h.opContext(r)
	defer cancel()

	if err := h.thread.Flag(ctx, board, threadId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.MessageResponse{Message: "success"})
}

func (h *Handler) DeleteThread(w http.ResponseWriter, r *http.Request) {
	board := mux.Vars(r)["board"]

	var body api.DeleteThreadRequest
	decodeBody(r, &body)
	threadId := firstNonEmpty(r.URL.Query().Get("thread_id"), body.ThreadId)
	password := firstNonEmpty(r.URL.Query().Get("delete_password"), body.DeletePassword)
	if threadId == "" || password == "" {
		http.Error(w, "thread_id and delete_password are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := h.opContext(r)
	defer cancel()

	if err := h.thread.Delete(ctx, board, threadId, password); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.MessageResponse{Message: "success"})
}
