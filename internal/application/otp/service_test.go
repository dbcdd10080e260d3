package otp

import (
	"context"
	"errors"
	"testing"

	"github.com/go-fee-portal/internal/domain"
	"github.com/go-fee-portal/internal/infrastructure/portal"
	"github.com/go-fee-portal/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockPortal struct{ mock.Mock }

func (m *mockPortal) VerifyOTP(ctx context.Context, req portal.VerifyOTPRequest) (*portal.VerifyEnvelope, error) {
	args := m.Called(ctx, req)
	if e, _ := args.Get(0).(*portal.VerifyEnvelope); e != nil {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSessions struct{ mock.Mock }

func (m *mockSessions) Save(ctx context.Context, s domain.Session) error {
	return m.Called(ctx, s).Error(0)
}

type mockNav struct{ mock.Mock }

func (m *mockNav) Replace(to domain.Route) { m.Called(to) }

type fixture struct {
	portal   *mockPortal
	sessions *mockSessions
	nav      *mockNav
	svc      Service
}

func newFixture() *fixture {
	f := &fixture{portal: &mockPortal{}, sessions: &mockSessions{}, nav: &mockNav{}}
	f.svc = NewService(ServiceDeps{Portal: f.portal, Sessions: f.sessions, Nav: f.nav, Log: logging.Discard()})
	return f
}

func typed(code string) *domain.OtpEntry {
	e := domain.NewOtpEntry()
	e.Type(code)
	return e
}

// --- tests ---

func TestVerify_Incomplete(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Verify(context.Background(), "U1", typed("12345"))
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, MsgIncomplete, domain.Message(err))
	f.portal.AssertNotCalled(t, "VerifyOTP", mock.Anything, mock.Anything)
}

func TestVerify_GapInMiddleIsIncomplete(t *testing.T) {
	f := newFixture()
	e := typed("123456")
	e.Input(2, "")
	_, err := f.svc.Verify(context.Background(), "U1", e)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestVerify_Success(t *testing.T) {
	f := newFixture()
	f.portal.On("VerifyOTP", mock.Anything, portal.VerifyOTPRequest{UserID: "U1", OTP: "123456"}).
		Return(&portal.VerifyEnvelope{Status: true, Msg: "Verified", Token: "T1"}, nil)
	f.sessions.On("Save", mock.Anything, domain.Session{Token: "T1", UserID: "U1"}).Return(nil)
	f.nav.On("Replace", domain.Route{Screen: domain.ScreenDashboard}).Return()

	msg, err := f.svc.Verify(context.Background(), "U1", typed("123456"))
	require.NoError(t, err)
	assert.Equal(t, "Verified", msg)
	f.sessions.AssertExpectations(t)
	f.nav.AssertExpectations(t)
}

func TestVerify_RejectedKeepsDigits(t *testing.T) {
	f := newFixture()
	f.portal.On("VerifyOTP", mock.Anything, mock.Anything).
		Return(&portal.VerifyEnvelope{Status: false, Msg: "Invalid OTP"}, nil)

	e := typed("999999")
	_, err := f.svc.Verify(context.Background(), "U1", e)
	require.ErrorIs(t, err, domain.ErrRejected)
	assert.Equal(t, "Invalid OTP", domain.Message(err))
	assert.Equal(t, "999999", e.Code())
	f.sessions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	f.nav.AssertNotCalled(t, "Replace", mock.Anything)
}

func TestVerify_RejectedWithoutMessage(t *testing.T) {
	f := newFixture()
	f.portal.On("VerifyOTP", mock.Anything, mock.Anything).Return(&portal.VerifyEnvelope{}, nil)

	_, err := f.svc.Verify(context.Background(), "U1", typed("999999"))
	assert.Equal(t, MsgFailed, domain.Message(err))
}

func TestVerify_TransportFailure(t *testing.T) {
	f := newFixture()
	f.portal.On("VerifyOTP", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	_, err := f.svc.Verify(context.Background(), "U1", typed("123456"))
	require.ErrorIs(t, err, domain.ErrTransport)
	assert.Equal(t, domain.MsgNetworkError, domain.Message(err))
	assert.False(t, f.svc.Busy())
}

func TestVerify_MissingToken(t *testing.T) {
	f := newFixture()
	f.portal.On("VerifyOTP", mock.Anything, mock.Anything).
		Return(&portal.VerifyEnvelope{Status: true}, nil)

	_, err := f.svc.Verify(context.Background(), "U1", typed("123456"))
	assert.ErrorIs(t, err, domain.ErrTransport)
	f.sessions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	f.nav.AssertNotCalled(t, "Replace", mock.Anything)
}

func TestVerify_SaveFailureStaysOnOTP(t *testing.T) {
	f := newFixture()
	f.portal.On("VerifyOTP", mock.Anything, mock.Anything).
		Return(&portal.VerifyEnvelope{Status: true, Token: "T1"}, nil)
	f.sessions.On("Save", mock.Anything, mock.Anything).Return(errors.New("read-only fs"))

	_, err := f.svc.Verify(context.Background(), "U1", typed("123456"))
	assert.ErrorIs(t, err, domain.ErrTransport)
	f.nav.AssertNotCalled(t, "Replace", mock.Anything)
}
