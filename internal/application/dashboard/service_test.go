package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-fee-portal/internal/domain"
	"github.com/go-fee-portal/internal/infrastructure/portal"
	"github.com/go-fee-portal/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockPortal struct{ mock.Mock }

func (m *mockPortal) Dashboard(ctx context.Context, token string) (*portal.DashboardEnvelope, error) {
	args := m.Called(ctx, token)
	if e, _ := args.Get(0).(*portal.DashboardEnvelope); e != nil {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSessions struct{ mock.Mock }

func (m *mockSessions) Token(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
func (m *mockSessions) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
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

func okEnvelope(name string) *portal.DashboardEnvelope {
	return &portal.DashboardEnvelope{
		Status: true,
		DashboardPayload: domain.DashboardPayload{
			User: domain.DashboardUser{UserID: "U1", Name: name},
			Dashboard: domain.Dashboard{
				Amount: domain.FeeAmounts{Total: 5000, Paid: 2500, Due: 2500},
			},
		},
	}
}

// --- tests ---

func TestFetch_NoTokenGoesToLogin(t *testing.T) {
	f := newFixture()
	f.sessions.On("Token", mock.Anything).Return("", nil)
	f.nav.On("Replace", domain.Route{Screen: domain.ScreenLogin}).Return()

	require.NoError(t, f.svc.Fetch(context.Background(), NewView()))
	f.nav.AssertExpectations(t)
	f.portal.AssertNotCalled(t, "Dashboard", mock.Anything, mock.Anything)
}

func TestFetch_Success(t *testing.T) {
	f := newFixture()
	f.sessions.On("Token", mock.Anything).Return("T1", nil)
	f.portal.On("Dashboard", mock.Anything, "T1").Return(okEnvelope("Asha"), nil)

	v := NewView()
	require.NoError(t, f.svc.Fetch(context.Background(), v))
	assert.Equal(t, StateLoaded, v.State())
	assert.False(t, v.Refreshing())
	require.NotNil(t, v.Payload())
	assert.Equal(t, "Asha", v.Payload().User.DisplayName())
	assert.Equal(t, 50, v.Payload().Dashboard.Amount.PaidPercent())
	_, ok := v.Token()
	assert.False(t, ok, "opaque token has no decodable claims")
}

func TestFetch_DecodesJWTSession(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "U1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	f := newFixture()
	f.sessions.On("Token", mock.Anything).Return(raw, nil)
	f.portal.On("Dashboard", mock.Anything, raw).Return(okEnvelope("Asha"), nil)

	v := NewView()
	require.NoError(t, f.svc.Fetch(context.Background(), v))
	info, ok := v.Token()
	require.True(t, ok)
	assert.Equal(t, "U1", info.Subject)
	assert.True(t, info.ExpiresAt.Equal(exp))
}

func TestFetch_RejectedWithTokenStaysOnDashboard(t *testing.T) {
	f := newFixture()
	f.sessions.On("Token", mock.Anything).Return("expired", nil)
	f.portal.On("Dashboard", mock.Anything, "expired").
		Return(&portal.DashboardEnvelope{Status: false, Msg: "Session expired"}, nil)

	v := NewView()
	err := f.svc.Fetch(context.Background(), v)
	require.ErrorIs(t, err, domain.ErrRejected)
	assert.Equal(t, "Session expired", domain.Message(err))
	assert.Equal(t, StateFailed, v.State())
	f.nav.AssertNotCalled(t, "Replace", mock.Anything)
}

func TestFetch_RejectedWithoutMessage(t *testing.T) {
	f := newFixture()
	f.sessions.On("Token", mock.Anything).Return("T1", nil)
	f.portal.On("Dashboard", mock.Anything, "T1").Return(&portal.DashboardEnvelope{}, nil)

	err := f.svc.Fetch(context.Background(), NewView())
	assert.Equal(t, MsgFailed, domain.Message(err))
}

func TestFetch_RefreshFailureKeepsPreviousData(t *testing.T) {
	f := newFixture()
	f.sessions.On("Token", mock.Anything).Return("T1", nil)
	f.portal.On("Dashboard", mock.Anything, "T1").Return(okEnvelope("Asha"), nil).Once()
	f.portal.On("Dashboard", mock.Anything, "T1").Return(nil, errors.New("reset by peer")).Once()

	v := NewView()
	require.NoError(t, f.svc.Fetch(context.Background(), v))

	err := f.svc.Fetch(context.Background(), v)
	require.ErrorIs(t, err, domain.ErrTransport)
	assert.Equal(t, domain.MsgNetworkError, domain.Message(err))
	assert.Equal(t, StateLoaded, v.State())
	assert.Equal(t, "Asha", v.Payload().User.DisplayName())
}

func TestFetch_TokenReadFailure(t *testing.T) {
	f := newFixture()
	f.sessions.On("Token", mock.Anything).Return("", errors.New("sealed"))

	v := NewView()
	err := f.svc.Fetch(context.Background(), v)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Equal(t, StateFailed, v.State())
	f.nav.AssertNotCalled(t, "Replace", mock.Anything)
}

func TestLogout_Cancelled(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.svc.Logout(context.Background(), NewView(), false))
	f.sessions.AssertNotCalled(t, "Clear", mock.Anything)
	f.nav.AssertNotCalled(t, "Replace", mock.Anything)
}

func TestLogout_Confirmed(t *testing.T) {
	f := newFixture()
	f.sessions.On("Token", mock.Anything).Return("T1", nil)
	f.portal.On("Dashboard", mock.Anything, "T1").Return(okEnvelope("Asha"), nil)
	f.sessions.On("Clear", mock.Anything).Return(nil)
	f.nav.On("Replace", domain.Route{Screen: domain.ScreenLogin}).Return()

	v := NewView()
	require.NoError(t, f.svc.Fetch(context.Background(), v))
	require.NoError(t, f.svc.Logout(context.Background(), v, true))

	assert.Nil(t, v.Payload())
	assert.Equal(t, StateLoading, v.State())
	f.sessions.AssertExpectations(t)
	f.nav.AssertExpectations(t)
}

func TestLogout_ClearFailure(t *testing.T) {
	f := newFixture()
	f.sessions.On("Clear", mock.Anything).Return(errors.New("permission denied"))

	err := f.svc.Logout(context.Background(), NewView(), true)
	assert.ErrorIs(t, err, domain.ErrTransport)
	f.nav.AssertNotCalled(t, "Replace", mock.Anything)
}
