// Package portaltest is a stand-in for the fee portal backend: the three PHP
// endpoints served by an in-process chi router. It backs the client tests and
// cmd/portalstub for offline development.
package portaltest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-fee-portal/internal/domain"
	jwtinfra "github.com/go-fee-portal/internal/infrastructure/jwt"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

const DefaultPrefix = "/flutter-api"

// Account is a portal user the stub accepts.
type Account struct {
	UserID   string
	Password string
	Name     string
	Mobile   string
}

// Options configures a Server. Zero values get usable defaults.
type Options struct {
	Prefix         string
	Accounts       []Account
	OTP            string
	JWTSecret      []byte
	TokenTTL       time.Duration
	Dashboard      domain.Dashboard
	AllowedOrigins []string
	// RateLimit applies to login.php and verify_otp.php; zero disables it.
	RateLimit rate.Limit
	Burst     int
	AccessLog bool
	// Banners, when set, replaces the dashboard carousel on every request.
	Banners BannerSource
	// SMS, when set, receives the OTP for accounts with a mobile number.
	SMS SMSSender
}

type BannerSource interface {
	URLs(ctx context.Context) ([]string, error)
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

// Call is one request as the stub received it.
type Call struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	ContentType   string
	Body          string
}

type canned struct {
	status int
	body   string
}

type Server struct {
	opts     Options
	accounts map[string]Account
	hashes   map[string][]byte
	tokens   *jwtinfra.Provider

	mu      sync.Mutex
	calls   []Call
	pending map[string]bool
	scripts map[string]canned
}

// New builds a stub server. Passwords are held only as bcrypt hashes.
func New(opts Options) (*Server, error) {
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	if opts.OTP == "" {
		opts.OTP = "123456"
	}
	if len(opts.JWTSecret) == 0 {
		opts.JWTSecret = []byte("portaltest")
	}
	if opts.TokenTTL == 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	tokens, err := jwtinfra.NewProvider(opts.JWTSecret, opts.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("token provider: %w", err)
	}
	s := &Server{
		opts:     opts,
		tokens:   tokens,
		accounts: make(map[string]Account, len(opts.Accounts)),
		hashes:   make(map[string][]byte, len(opts.Accounts)),
		pending:  make(map[string]bool),
		scripts:  make(map[string]canned),
	}
	for _, a := range opts.Accounts {
		h, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.MinCost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", a.UserID, err)
		}
		s.accounts[a.UserID] = a
		s.hashes[a.UserID] = h
	}
	return s, nil
}

// Handler returns the stub's router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	if s.opts.AccessLog {
		r.Use(chimiddleware.Logger)
	}
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(s.record)

	limit := func(next http.Handler) http.Handler { return next }
	if s.opts.RateLimit > 0 {
		limit = NewRateLimiter(s.opts.RateLimit, max(s.opts.Burst, 1)).Limit
	}

	r.Route(s.opts.Prefix, func(r chi.Router) {
		r.Use(s.scripted)
		r.With(limit).Post("/login.php", s.login)
		r.With(limit).Post("/verify_otp.php", s.verifyOTP)
		r.Get("/dashboard.php", s.dashboard)
	})
	return r
}

// Script makes the next and all later requests to path (e.g. "login.php")
// answer with a fixed status and raw body until Unscript is called.
func (s *Server) Script(path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts[path] = canned{status: status, body: body}
}

func (s *Server) Unscript(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.scripts, path)
}

// Calls returns every request received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallsTo returns the requests whose path ends in name.
func (s *Server) CallsTo(name string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Path == s.opts.Prefix+"/"+name {
			out = append(out, c)
		}
	}
	return out
}

// IssueToken signs a session token for userID.
func (s *Server) IssueToken(userID string) (string, error) {
	return s.tokens.Sign(userID)
}

func (s *Server) verifyToken(raw string) (string, error) {
	claims, err := s.tokens.Verify(raw)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		s.mu.Lock()
		s.calls = append(s.calls, Call{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
			ContentType:   r.Header.Get("Content-Type"),
			Body:          string(body),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) scripted(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, s.opts.Prefix), "/")
		s.mu.Lock()
		c, ok := s.scripts[name]
		s.mu.Unlock()
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(c.status)
		_, _ = io.WriteString(w, c.body)
	})
}
