package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"librarydesk/internal/app"
	"librarydesk/internal/ratelimit"
	"librarydesk/internal/util"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App *app.App

	// Login rate limiting; disabled when RedisAddr is empty.
	RedisAddr       string
	RedisPassword   string
	LoginRateLimit  int
	LoginRateWindow time.Duration

	TrustedProxies []string
}

// Server exposes the HTTP surface: library CRUD, membership and catalog
// routes, global book/member records, login, and lend/return.
type Server struct {
	app          *app.App
	mux          *http.ServeMux
	loginLimiter *ratelimit.FixedWindowLimiter
	proxies      *util.TrustedProxies
}

// New constructs the server with routes configured.
func New(cfg Config) (*Server, error) {
	s := &Server{
		app: cfg.App,
		mux: http.NewServeMux(),
	}
	if cfg.RedisAddr != "" {
		limit := cfg.LoginRateLimit
		if limit <= 0 {
			limit = 10
		}
		window := cfg.LoginRateWindow
		if window <= 0 {
			window = time.Minute
		}
		limiter, err := ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, "librarydesk:login", limit, window)
		if err != nil {
			return nil, err
		}
		s.loginLimiter = limiter
	}
	proxies, err := util.NewTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return nil, err
	}
	s.proxies = proxies
	s.routes()
	return s, nil
}

// Router returns the configured handler wrapped in middleware.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(util.WithRequestLog("librarydesk", util.WithSecurityHeaders(util.WithCORS(s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.HandleFunc("/login", s.handleLogin)
	s.mux.HandleFunc("/library", s.handleLibraries)
	s.mux.HandleFunc("/library/", s.handleLibrarySubtree)
	s.mux.HandleFunc("/books", s.handleBooks)
	s.mux.HandleFunc("/books/", s.handleBookByID)
	s.mux.HandleFunc("/members", s.handleMembers)
	s.mux.HandleFunc("/members/", s.handleMemberByID)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLibrarySubtree dispatches everything under /library/{id}.
func (s *Server) handleLibrarySubtree(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/library/"), "/")
	libraryID, ok := parseID(parts[0])
	if !ok {
		notFound(w)
		return
	}

	switch {
	case len(parts) == 1:
		s.handleLibraryByID(w, r, libraryID)
	case len(parts) == 2 && parts[1] == "members":
		s.handleLibraryMembers(w, r, libraryID)
	case len(parts) == 3 && parts[1] == "members":
		memberID, ok := parseID(parts[2])
		if !ok {
			notFound(w)
			return
		}
		s.handleLibraryMemberByID(w, r, libraryID, memberID)
	case len(parts) == 2 && parts[1] == "books":
		s.handleLibraryBooks(w, r, libraryID)
	case len(parts) == 3 && parts[1] == "books":
		bookID, ok := parseID(parts[2])
		if !ok {
			notFound(w)
			return
		}
		s.handleLibraryBookByID(w, r, libraryID, bookID)
	case len(parts) == 2 && parts[1] == "lend":
		s.handleLend(w, r, libraryID)
	case len(parts) == 2 && parts[1] == "return":
		s.handleReturn(w, r, libraryID)
	default:
		notFound(w)
	}
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "not found")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeAppError maps application errors onto the HTTP taxonomy. The
// error messages themselves are the contract and pass through verbatim;
// anything unrecognized is a store-level failure and becomes a 500.
func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, app.ErrLibraryNotFound),
		errors.Is(err, app.ErrBookNotFound),
		errors.Is(err, app.ErrMemberNotFound),
		errors.Is(err, app.ErrNotInLibrary),
		errors.Is(err, app.ErrNoBooks):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, app.ErrNotLibraryMember),
		errors.Is(err, app.ErrAlreadyBorrowed),
		errors.Is(err, app.ErrInvalidName),
		errors.Is(err, app.ErrInvalidPassword),
		errors.Is(err, app.ErrInvalidMemberName),
		errors.Is(err, app.ErrMissingBookFields):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		util.LoggerFromContext(r.Context()).Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
