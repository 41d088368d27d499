// Package mock provides an offline stand-in for the demo book store API.
package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abdul-hamid-achik/bookspec/packages/bookstore"
	"github.com/abdul-hamid-achik/bookspec/packages/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const tokenLifetime = 7 * 24 * time.Hour

// Server serves the book list and token endpoints.
type Server struct {
	router      chi.Router
	port        int
	delay       time.Duration
	verbose     bool
	mu          sync.RWMutex
	books       []models.Book
	users       map[string]string
	customUsers bool
	requests    atomic.Int64
	now         func() time.Time
}

// Option is a functional option for Server
type Option func(*Server)

// WithPort sets the server port
func WithPort(port int) Option {
	return func(s *Server) {
		s.port = port
	}
}

// WithDelay adds a delay to all responses
func WithDelay(delay time.Duration) Option {
	return func(s *Server) {
		s.delay = delay
	}
}

// WithVerbose enables verbose logging
func WithVerbose(verbose bool) Option {
	return func(s *Server) {
		s.verbose = verbose
	}
}

// WithBooks replaces the served catalog.
func WithBooks(books []models.Book) Option {
	return func(s *Server) {
		s.books = books
	}
}

// WithUser adds an account accepted by the token endpoint. Configuring any
// user replaces the default account.
func WithUser(userName, password string) Option {
	return func(s *Server) {
		if !s.customUsers {
			s.users = make(map[string]string)
			s.customUsers = true
		}
		s.users[userName] = password
	}
}

// NewServer creates a new mock server
func NewServer(opts ...Option) *Server {
	s := &Server{
		port:  3000,
		books: DefaultBooks,
		users: map[string]string{DefaultUser: DefaultPassword},
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.logRequests)

	r.Get(bookstore.BooksPath, s.handleListBooks)
	r.Post(bookstore.GenerateTokenPath, s.handleGenerateToken)

	return r
}

// Handler exposes the routes, e.g. for httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.router
}

// SetBooks swaps the catalog while the server runs.
func (s *Server) SetBooks(books []models.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books = books
}

// Requests returns how many requests the server has handled.
func (s *Server) Requests() int64 {
	return s.requests.Load()
}

func shutdownServer(server *http.Server, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Mock server shutdown: %v", err)
	}
}

// Start starts the mock server
func (s *Server) Start() error {
	return s.StartWithContext(context.Background())
}

// StartWithContext starts the server with context for graceful shutdown
func (s *Server) StartWithContext(ctx context.Context) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.router,
	}

	go func() {
		<-ctx.Done()
		shutdownServer(server, 5*time.Second)
	}()

	log.Printf("Mock server starting on http://localhost:%d", s.port)
	if s.verbose {
		log.Printf("  GET  %s", bookstore.BooksPath)
		log.Printf("  POST %s", bookstore.GenerateTokenPath)
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		s.requests.Add(1)

		if s.delay > 0 {
			time.Sleep(s.delay)
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		if s.verbose {
			log.Printf("%s %s -> %d (%s)", r.Method, r.URL.Path, rec.status, time.Since(start))
		}
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	books := s.books
	s.mu.RUnlock()

	if books == nil {
		books = []models.Book{}
	}
	writeJSON(w, http.StatusOK, models.Books{Books: books})
}

type tokenResponse struct {
	Token   *string `json:"token"`
	Expires *string `json:"expires"`
	Status  string  `json:"status"`
	Result  string  `json:"result"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleGenerateToken(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.UserName == "" || creds.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "1200", Message: "UserName and Password required."})
		return
	}

	s.mu.RLock()
	password, ok := s.users[creds.UserName]
	s.mu.RUnlock()

	if !ok || password != creds.Password {
		writeJSON(w, http.StatusOK, tokenResponse{
			Status: "Failed",
			Result: "User authorization failed.",
		})
		return
	}

	token := uuid.NewString()
	expires := s.now().UTC().Add(tokenLifetime).Format("2006-01-02T15:04:05.000Z")
	writeJSON(w, http.StatusOK, tokenResponse{
		Token:   &token,
		Expires: &expires,
		Status:  models.StatusSuccess,
		Result:  "User authorized successfully.",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("mock: encoding response: %v", err)
	}
}
