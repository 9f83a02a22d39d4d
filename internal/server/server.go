// Package server exposes the HTTP surface: the messaging webhook and a
// health endpoint.
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"wildlife-report-hub/backend/internal/conversation"
	"wildlife-report-hub/backend/internal/messaging"
	"wildlife-report-hub/backend/internal/observability"
)

// maxWebhookBody bounds what we read from the platform.
const maxWebhookBody = 1 << 20

// Dispatcher handles one reporter input. Satisfied by the conversation
// engine.
type Dispatcher interface {
	Handle(ctx context.Context, in *conversation.Input) error
}

type Server struct {
	router        chi.Router
	channelSecret string
	dispatcher    Dispatcher
}

func New(channelSecret string, dispatcher Dispatcher) *Server {
	s := &Server{
		channelSecret: channelSecret,
		dispatcher:    dispatcher,
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestIDContext)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Get("/healthz", s.handleHealth)
	r.Post("/webhook", s.handleWebhook)
	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// requestIDContext copies chi's request id into our logging context.
func requestIDContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := middleware.GetReqID(r.Context())
		next.ServeHTTP(w, r.WithContext(observability.WithRequestID(r.Context(), reqID)))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// handleWebhook validates the signature, acknowledges the delivery, and
// processes the events afterwards. The platform retries on non-2xx, so the
// ack must not wait for the dialogue.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	logger := observability.FromContext(r.Context())

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}
	signature := r.Header.Get("X-Line-Signature")
	if !messaging.ValidateSignature(s.channelSecret, signature, body) {
		logger.WarnContext(r.Context(), "webhook signature rejected")
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	req, err := messaging.ParseWebhook(body)
	if err != nil {
		logger.WarnContext(r.Context(), "webhook body rejected", "error", err)
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)

	// Keep processing after the client connection is done.
	ctx := context.WithoutCancel(r.Context())
	go s.processEvents(ctx, req.Events)
}

func (s *Server) processEvents(ctx context.Context, events []messaging.WebhookEvent) {
	logger := observability.FromContext(ctx)
	for _, event := range events {
		in, ok := translateEvent(&event)
		if !ok {
			continue
		}
		if err := s.dispatcher.Handle(ctx, in); err != nil {
			logger.ErrorContext(ctx, "webhook event failed",
				"user_id", in.UserID, "kind", string(in.Kind), "error", err)
		}
	}
}
