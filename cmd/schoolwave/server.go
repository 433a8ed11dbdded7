package main

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/schoolwave/schoolwave-go/internal/platform"
	"github.com/schoolwave/schoolwave-go/internal/state"
	"github.com/schoolwave/schoolwave-go/internal/webpage"
)

// callbackServer is the loopback listener the OAuth redirect lands on.
// It validates the state parameter and resolves the pending loopback
// window so the poller sees the redirect URL.
type callbackServer struct {
	router *chi.Mux
	pages  *webpage.Pages
	states *state.Manager
	logger *zap.Logger

	mu      sync.Mutex
	pending *platform.LoopbackWindow
}

func newCallbackServer(pages *webpage.Pages, states *state.Manager, logger *zap.Logger) *callbackServer {
	s := &callbackServer{
		router: chi.NewRouter(),
		pages:  pages,
		states: states,
		logger: logger,
	}

	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(10 * time.Second))

	s.router.Get("/auth/callback", s.handleCallback)
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return s
}

// arm registers the window the next redirect resolves.
func (s *callbackServer) arm(win *platform.LoopbackWindow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = win
}

func (s *callbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if err := s.states.Validate(q.Get("state")); err != nil {
		s.logger.Warn("rejected oauth redirect", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		if err := s.pages.RenderError(w, webpage.ErrorData{Message: "잘못된 요청입니다"}); err != nil {
			s.logger.Error("rendering error page", zap.Error(err))
		}
		return
	}

	s.mu.Lock()
	win := s.pending
	s.pending = nil
	s.mu.Unlock()

	if win == nil {
		s.logger.Warn("oauth redirect with no login in progress")
		w.WriteHeader(http.StatusConflict)
		if err := s.pages.RenderError(w, webpage.ErrorData{Message: "진행 중인 로그인이 없습니다"}); err != nil {
			s.logger.Error("rendering error page", zap.Error(err))
		}
		return
	}

	win.Resolve(r.URL.String())
	if err := s.pages.RenderComplete(w, webpage.CompleteData{}); err != nil {
		s.logger.Error("rendering complete page", zap.Error(err))
	}
}
