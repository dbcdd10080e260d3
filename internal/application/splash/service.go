package splash

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-fee-portal/internal/domain"
)

type TokenReader interface {
	Token(ctx context.Context) (string, error)
}

type Navigator interface {
	Replace(to domain.Route)
}

type ServiceDeps struct {
	Sessions TokenReader
	Nav      Navigator
	Delay    time.Duration
	Log      *slog.Logger
}

type Service interface {
	// Run reads the stored token, holds the splash for the configured delay,
	// then routes to the dashboard if a token exists and to login otherwise.
	// It returns ctx.Err() without navigating if ctx ends during the delay.
	Run(ctx context.Context) (domain.Route, error)
}

type service struct {
	sessions TokenReader
	nav      Navigator
	delay    time.Duration
	log      *slog.Logger
}

func NewService(d ServiceDeps) Service {
	return &service{sessions: d.Sessions, nav: d.Nav, delay: d.Delay, log: d.Log}
}

func (s *service) Run(ctx context.Context) (domain.Route, error) {
	token, err := s.sessions.Token(ctx)
	if err != nil {
		s.log.Warn("session read failed, starting at login", "error", err)
		token = ""
	}

	if s.delay > 0 {
		t := time.NewTimer(s.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return domain.Route{}, ctx.Err()
		case <-t.C:
		}
	}

	to := domain.Route{Screen: domain.ScreenLogin}
	if token != "" {
		to = domain.Route{Screen: domain.ScreenDashboard}
	}
	s.nav.Replace(to)
	return to, nil
}
