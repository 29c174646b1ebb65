package router

import (
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mw "github.com/nullchan-dev/nullchan/internal/middleware"
	"github.com/nullchan-dev/nullchan/internal/setup"
)

// New creates and configures the mux router with all the routes.
func New(deps *setup.Dependencies) *mux.Router {
	r := mux.NewRouter()

	r.Use(handlers.CompressHandler)
	r.Use(handlers.CORS(
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	))
	r.Use(mw.SecurityHeaders(deps.Config.Public.Https))
	r.Use(mw.RequestLogging)
	r.Use(mw.Metrics)

	h := deps.Handler

	r.HandleFunc("/health", h.Health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/threads/{board}", h.ListThreads).Methods("GET")
	api.HandleFunc("/threads/{board}", h.CreateThread).Methods("POST")
	api.HandleFunc("/threads/{board}", h.FlagThread).Methods("PUT")
	api.HandleFunc("/threads/{board}", h.DeleteThread).Methods("DELETE")

	api.HandleFunc("/replies/{board}", h.GetFullThread).Methods("GET")
	api.HandleFunc("/replies/{board}", h.CreateReply).Methods("POST")
	api.HandleFunc("/replies/{board}", h.FlagReply).Methods("PUT")
	api.HandleFunc("/replies/{board}", h.DeleteReply).Methods("DELETE")

	return r
}
