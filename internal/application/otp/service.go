package otp

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/go-fee-portal/internal/domain"
	"github.com/go-fee-portal/internal/infrastructure/portal"
	"github.com/go-fee-portal/internal/pkg/validate"
)

const (
	MsgIncomplete = "Please enter complete 6-digit OTP"
	MsgFailed     = "OTP verification failed"
	// MsgResend answers a resend request; the portal has no resend endpoint.
	MsgResend = "Resend is not available. Please try logging in again."
)

var errNoToken = errors.New("verify_otp.php accepted the code but returned no token")

type code struct {
	OTP string `validate:"len=6,numeric"`
}

type Portal interface {
	VerifyOTP(ctx context.Context, req portal.VerifyOTPRequest) (*portal.VerifyEnvelope, error)
}

type SessionWriter interface {
	Save(ctx context.Context, s domain.Session) error
}

type Navigator interface {
	Replace(to domain.Route)
}

type ServiceDeps struct {
	Portal   Portal
	Sessions SessionWriter
	Nav      Navigator
	Log      *slog.Logger
}

type Service interface {
	// Verify submits the entered code for userID. On success the session is
	// persisted and the dashboard becomes current. On any failure the entry
	// is left as typed. The portal's message is returned on success.
	Verify(ctx context.Context, userID string, entry *domain.OtpEntry) (string, error)
	Busy() bool
}

type service struct {
	portal   Portal
	sessions SessionWriter
	nav      Navigator
	log      *slog.Logger
	busy     atomic.Bool
}

func NewService(d ServiceDeps) Service {
	return &service{portal: d.Portal, sessions: d.Sessions, nav: d.Nav, log: d.Log}
}

func (s *service) Busy() bool { return s.busy.Load() }

func (s *service) Verify(ctx context.Context, userID string, entry *domain.OtpEntry) (string, error) {
	c := code{OTP: entry.Code()}
	if err := validate.Struct(c); err != nil {
		return "", domain.Validation(MsgIncomplete)
	}
	if !s.busy.CompareAndSwap(false, true) {
		return "", domain.ErrBusy
	}
	defer s.busy.Store(false)

	resp, err := s.portal.VerifyOTP(ctx, portal.VerifyOTPRequest{UserID: userID, OTP: c.OTP})
	if err != nil {
		s.log.Error("otp verification request failed", "userid", userID, "error", err)
		return "", domain.Transport(err)
	}
	if !bool(resp.Status) {
		msg := resp.Msg
		if msg == "" {
			msg = MsgFailed
		}
		s.log.Info("otp rejected", "userid", userID, "msg", msg)
		return "", domain.Rejected(msg)
	}

	token := resp.Token.String()
	if token == "" {
		s.log.Error("otp verification returned no token", "userid", userID)
		return "", domain.Transport(errNoToken)
	}
	if err := s.sessions.Save(ctx, domain.Session{Token: token, UserID: userID}); err != nil {
		s.log.Error("session save failed", "userid", userID, "error", err)
		return "", domain.Transport(err)
	}

	s.nav.Replace(domain.Route{Screen: domain.ScreenDashboard})
	return resp.Msg, nil
}
