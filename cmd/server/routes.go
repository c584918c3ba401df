package main

import (
	"context"
	"io/fs"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/iyunix/go-chatnest/internal/handlers"
	"github.com/iyunix/go-chatnest/internal/middleware"
)

// RouterDeps are the pieces the router needs.
type RouterDeps struct {
	Tokens  middleware.TokenValidator
	Limiter middleware.RateLimiter
	Logger  middleware.Logger

	Auth        *handlers.AuthHandler
	Chats       *handlers.ChatHandler
	Attachments *handlers.AttachmentHandler
	Models      *handlers.ModelHandler
	Pages       *handlers.PageHandler

	Static fs.FS
	Health func(ctx context.Context) error
}

// NewRouter registers every route. The access log, panic recovery and
// tracing wrap the whole router so unmatched requests are covered too.
func NewRouter(d RouterDeps) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Metrics)

	apiAuth := middleware.NewAPIAuthMiddleware(d.Tokens)
	pageAuth := middleware.NewJWTMiddleware(d.Tokens)

	// --- Operational Routes ---
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/health", healthHandler(d.Health)).Methods(http.MethodGet)
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(d.Static))))

	// --- Public Routes ---
	r.Handle("/api/auth/register", middleware.RateLimitMiddleware(d.Limiter, "register")(http.HandlerFunc(d.Auth.Register))).Methods(http.MethodPost)
	r.Handle("/api/auth/login", middleware.RateLimitMiddleware(d.Limiter, "login")(http.HandlerFunc(d.Auth.Login))).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/logout", d.Auth.Logout).Methods(http.MethodPost)

	r.HandleFunc("/", d.Pages.ShowIndexPage).Methods(http.MethodGet)
	r.HandleFunc("/login", d.Pages.ShowLoginPage).Methods(http.MethodGet)
	r.HandleFunc("/register", d.Pages.ShowRegisterPage).Methods(http.MethodGet)

	// --- Protected Pages ---
	r.Handle("/chat", pageAuth(http.HandlerFunc(d.Pages.ShowChatPage))).Methods(http.MethodGet)

	// --- Protected API ---
	api := r.PathPrefix("/api").Subrouter()
	api.Use(apiAuth)
	api.HandleFunc("/chats", d.Chats.GetUserChats).Methods(http.MethodGet)
	api.HandleFunc("/chats", d.Chats.CreateChat).Methods(http.MethodPost)
	api.HandleFunc("/chats/{id:[0-9]+}", d.Chats.DeleteChat).Methods(http.MethodDelete)
	api.HandleFunc("/chats/{id:[0-9]+}/messages", d.Chats.GetChatMessages).Methods(http.MethodGet)
	api.HandleFunc("/chats/{id:[0-9]+}/messages", d.Chats.HandleChatMessage).Methods(http.MethodPost)
	api.HandleFunc("/upload", d.Attachments.Upload).Methods(http.MethodPost)
	api.HandleFunc("/attachments", d.Attachments.ListAttachments).Methods(http.MethodGet)
	api.HandleFunc("/models", d.Models.ListModels).Methods(http.MethodGet)

	// --- Custom Error Handlers ---
	r.NotFoundHandler = http.HandlerFunc(d.Pages.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d.Pages.ShowErrorPage(w, http.StatusMethodNotAllowed, "Method Not Allowed", "The method is not allowed for this resource.")
	})

	var handler http.Handler = r
	handler = middleware.RequestLogger(d.Logger)(handler)
	handler = middleware.RecoverPanic(d.Logger)(handler)
	return otelhttp.NewHandler(handler, "chatnest.http")
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("unavailable"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}
