package server

import (
	"log/slog"
	"net/http"

	"github.com/bornholm/gifparty/internal/logx"
	"github.com/bornholm/gifparty/pkg/gif"
	"github.com/bornholm/gifparty/pkg/page"
	"github.com/bornholm/gifparty/pkg/party"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

const (
	SessionCookieName  = "gifparty_session"
	DefaultMaxSessions = 1000
)

// Server serves one party page per browser session.
type Server struct {
	fetcher  gif.Fetcher
	sessions *lru.Cache[string, *page.Page]
	mux      *http.ServeMux
}

type Options struct {
	MaxSessions int
}

type OptionFunc func(*Options)

// WithMaxSessions sets how many session pages are kept in memory.
// The least recently used pages are dropped first.
func WithMaxSessions(max int) OptionFunc {
	return func(opts *Options) {
		opts.MaxSessions = max
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, err := s.session(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")

	if err := p.Render(w); err != nil {
		slog.ErrorContext(ctx, "could not render page", slog.Any("error", errors.WithStack(err)))
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	p, err := s.session(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	input := party.NewTermInput(r.PostFormValue("term"))
	controller := party.NewController(s.fetcher, party.NewRenderer(p), input)

	controller.Submit(r.Context())

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	p, err := s.session(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	controller := party.NewController(s.fetcher, party.NewRenderer(p), party.NewTermInput(""))
	controller.Clear()

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// session returns the page bound to the request's session cookie,
// creating a new session when none matches.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*page.Page, error) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if p, exists := s.sessions.Get(cookie.Value); exists {
			return p, nil
		}
	}

	p, err := page.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	id := uuid.NewString()
	s.sessions.Add(id, p)

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	slog.DebugContext(r.Context(), "new session", slog.String("session", id))

	return p, nil
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "could not handle request", slog.Any("error", err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (s *Server) withLogAttrs(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attrs := []slog.Attr{
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		}

		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			attrs = append(attrs, slog.String("session", cookie.Value))
		}

		ctx := logx.WithAttrs(r.Context(), attrs...)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func New(fetcher gif.Fetcher, funcs ...OptionFunc) (*Server, error) {
	opts := &Options{
		MaxSessions: DefaultMaxSessions,
	}
	for _, fn := range funcs {
		fn(opts)
	}

	sessions, err := lru.New[string, *page.Page](opts.MaxSessions)
	if err != nil {
		return nil, errors.Wrap(err, "could not create session store")
	}

	s := &Server{
		fetcher:  fetcher,
		sessions: sessions,
		mux:      http.NewServeMux(),
	}

	s.mux.Handle("GET /{$}", s.withLogAttrs(http.HandlerFunc(s.handleIndex)))
	s.mux.Handle("POST /search", s.withLogAttrs(http.HandlerFunc(s.handleSearch)))
	s.mux.Handle("POST /clear", s.withLogAttrs(http.HandlerFunc(s.handleClear)))
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	return s, nil
}

var _ http.Handler = &Server{}
