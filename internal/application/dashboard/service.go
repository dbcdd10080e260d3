package dashboard

import (
	"context"
	"log/slog"

	"github.com/go-fee-portal/internal/domain"
	"github.com/go-fee-portal/internal/infrastructure/portal"
)

const (
	MsgFailed        = "Failed to load dashboard."
	MsgConfirmLogout = "Are you sure you want to logout?"
)

type Portal interface {
	Dashboard(ctx context.Context, token string) (*portal.DashboardEnvelope, error)
}

type Sessions interface {
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

type Navigator interface {
	Replace(to domain.Route)
}

type ServiceDeps struct {
	Portal   Portal
	Sessions Sessions
	Nav      Navigator
	Log      *slog.Logger
}

type Service interface {
	// Fetch loads the dashboard into v. Without a stored token it navigates
	// to login and makes no request. The returned error carries the alert
	// to show; v keeps whatever it showed before a failure.
	Fetch(ctx context.Context, v *View) error
	// Logout clears the session and returns to login when confirmed.
	Logout(ctx context.Context, v *View, confirmed bool) error
}

type service struct {
	portal   Portal
	sessions Sessions
	nav      Navigator
	log      *slog.Logger
}

func NewService(d ServiceDeps) Service {
	return &service{portal: d.Portal, sessions: d.Sessions, nav: d.Nav, log: d.Log}
}

func (s *service) Fetch(ctx context.Context, v *View) error {
	v.begin()
	defer v.finish()

	tok, err := s.sessions.Token(ctx)
	if err != nil {
		s.log.Error("session read failed", "error", err)
		return domain.Transport(err)
	}
	if tok == "" {
		s.nav.Replace(domain.Route{Screen: domain.ScreenLogin})
		return nil
	}

	resp, err := s.portal.Dashboard(ctx, tok)
	if err != nil {
		s.log.Error("dashboard request failed", "error", err)
		return domain.Transport(err)
	}
	if bool(resp.Status) {
		p := resp.DashboardPayload
		v.loaded(&p, tok)
		return nil
	}

	msg := resp.Msg
	if msg == "" {
		msg = MsgFailed
	}
	s.log.Warn("dashboard rejected", "msg", msg)
	// A rejected token does not end the session: the user stays on the
	// dashboard with the stored token until they log out.
	if tok == "" {
		s.nav.Replace(domain.Route{Screen: domain.ScreenLogin})
	}
	return domain.Rejected(msg)
}

func (s *service) Logout(ctx context.Context, v *View, confirmed bool) error {
	if !confirmed {
		return nil
	}
	if err := s.sessions.Clear(ctx); err != nil {
		s.log.Error("logout failed", "error", err)
		return domain.Transport(err)
	}
	v.reset()
	s.nav.Replace(domain.Route{Screen: domain.ScreenLogin})
	return nil
}
