package login

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/go-fee-portal/internal/domain"
	"github.com/go-fee-portal/internal/infrastructure/portal"
	"github.com/go-fee-portal/internal/pkg/validate"
)

const (
	MsgMissingFields = "Please enter both userid and password"
	MsgFailed        = "Login failed"
)

type Request struct {
	UserID   string `validate:"required"`
	Password string `validate:"required"`
}

type Portal interface {
	Login(ctx context.Context, req portal.LoginRequest) (*portal.LoginEnvelope, error)
}

type Navigator interface {
	Replace(to domain.Route)
}

type ServiceDeps struct {
	Portal Portal
	Nav    Navigator
	Log    *slog.Logger
}

type Service interface {
	// Login submits the credentials. On acceptance it navigates to the OTP
	// screen and returns the portal's message; otherwise it returns a
	// *domain.Error carrying the message to show.
	Login(ctx context.Context, req Request) (string, error)
	Busy() bool
}

type service struct {
	portal Portal
	nav    Navigator
	log    *slog.Logger
	busy   atomic.Bool
}

func NewService(d ServiceDeps) Service {
	return &service{portal: d.Portal, nav: d.Nav, log: d.Log}
}

func (s *service) Busy() bool { return s.busy.Load() }

func (s *service) Login(ctx context.Context, req Request) (string, error) {
	if err := validate.Struct(req); err != nil {
		return "", domain.Validation(MsgMissingFields)
	}
	if !s.busy.CompareAndSwap(false, true) {
		return "", domain.ErrBusy
	}
	defer s.busy.Store(false)

	resp, err := s.portal.Login(ctx, portal.LoginRequest{UserID: req.UserID, Password: req.Password})
	if err != nil {
		s.log.Error("login request failed", "userid", req.UserID, "error", err)
		return "", domain.Transport(err)
	}
	if !bool(resp.Status) {
		msg := resp.Msg
		if msg == "" {
			msg = MsgFailed
		}
		s.log.Info("login rejected", "userid", req.UserID, "msg", msg)
		return "", domain.Rejected(msg)
	}

	userID := resp.UserID.String()
	if userID == "" {
		userID = req.UserID
	}
	s.nav.Replace(domain.Route{Screen: domain.ScreenOTP, UserID: userID})
	return resp.Msg, nil
}
