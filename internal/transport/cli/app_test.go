package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-fee-portal/internal/application/dashboard"
	"github.com/go-fee-portal/internal/application/login"
	"github.com/go-fee-portal/internal/application/navigation"
	"github.com/go-fee-portal/internal/application/otp"
	"github.com/go-fee-portal/internal/application/session"
	"github.com/go-fee-portal/internal/application/splash"
	"github.com/go-fee-portal/internal/domain"
	"github.com/go-fee-portal/internal/infrastructure/memory"
	"github.com/go-fee-portal/internal/infrastructure/portal"
	"github.com/go-fee-portal/internal/logging"
	"github.com/go-fee-portal/internal/portaltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	stub   *portaltest.Server
	store  *memory.Store
	router *navigation.Router
	out    *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	stub, err := portaltest.New(portaltest.Options{
		Accounts: []portaltest.Account{{UserID: "U1", Password: "secret", Name: "asha", Mobile: "9876543210"}},
		Dashboard: domain.Dashboard{
			Carousel: []string{"https://cdn.example/a.jpg"},
			Student:  domain.StudentCounts{Boy: 12, Girl: 30},
			Amount:   domain.FeeAmounts{Total: 125000, Paid: 50000, Due: 75000},
		},
	})
	require.NoError(t, err)

	return &harness{
		stub:   stub,
		store:  memory.NewStore(),
		router: navigation.NewRouter(logging.Discard()),
		out:    &bytes.Buffer{},
	}
}

func (h *harness) run(t *testing.T, baseURL, input string) {
	t.Helper()
	log := logging.Discard()
	client, err := portal.NewClient(baseURL, 0, log)
	require.NoError(t, err)
	sessions := session.NewService(h.store)

	app := New(Deps{
		Router:    h.router,
		Splash:    splash.NewService(splash.ServiceDeps{Sessions: sessions, Nav: h.router, Log: log}),
		Login:     login.NewService(login.ServiceDeps{Portal: client, Nav: h.router, Log: log}),
		OTP:       otp.NewService(otp.ServiceDeps{Portal: client, Sessions: sessions, Nav: h.router, Log: log}),
		Dashboard: dashboard.NewService(dashboard.ServiceDeps{Portal: client, Sessions: sessions, Nav: h.router, Log: log}),
		In:        strings.NewReader(input),
		Out:       h.out,
		Log:       log,
	})
	require.NoError(t, app.Run(context.Background()))
}

func (h *harness) serve(t *testing.T) string {
	t.Helper()
	ts := httptest.NewServer(h.stub.Handler())
	t.Cleanup(ts.Close)
	return ts.URL + portaltest.DefaultPrefix
}

func (h *harness) screens() []domain.Screen {
	var out []domain.Screen
	for _, r := range h.router.History() {
		out = append(out, r.Screen)
	}
	return out
}

func TestRun_FullSignIn(t *testing.T) {
	h := newHarness(t)
	h.run(t, h.serve(t), "U1\nsecret\n123456\nq\n")

	out := h.out.String()
	assert.Contains(t, out, "[Success] OTP sent to your registered mobile number")
	assert.Contains(t, out, "[Success] OTP verified successfully")
	assert.Contains(t, out, "(A)  Welcome")
	assert.Contains(t, out, "₹125,000")
	assert.Contains(t, out, "₹50,000")
	assert.Contains(t, out, "(40% completed)")
	assert.Contains(t, out, "Total: 42")
	assert.Contains(t, out, "1. https://cdn.example/a.jpg")
	assert.Contains(t, out, "Goodbye.")

	tok, ok, _ := h.store.Get(context.Background(), domain.KeyAuthToken)
	assert.True(t, ok)
	assert.NotEmpty(t, tok)
	uid, _, _ := h.store.Get(context.Background(), domain.KeyUserID)
	assert.Equal(t, "U1", uid)

	assert.Equal(t, []domain.Screen{
		domain.ScreenSplash, domain.ScreenLogin, domain.ScreenOTP, domain.ScreenDashboard,
	}, h.screens())
}

func TestRun_EmptyCredentialsMakeNoCall(t *testing.T) {
	h := newHarness(t)
	h.run(t, h.serve(t), "\n\n")

	assert.Contains(t, h.out.String(), "[Error] Please enter both userid and password")
	assert.Empty(t, h.stub.CallsTo(portal.PathLogin))
}

func TestRun_WrongPasswordStaysOnLogin(t *testing.T) {
	h := newHarness(t)
	h.run(t, h.serve(t), "U1\nnope\n")

	assert.Contains(t, h.out.String(), "[Error] Invalid userid or password")
	assert.Equal(t, domain.ScreenLogin, h.router.Current().Screen)
}

func TestRun_ShortOTPIsRejectedLocally(t *testing.T) {
	h := newHarness(t)
	h.run(t, h.serve(t), "U1\nsecret\n123\nresend\n")

	out := h.out.String()
	assert.Contains(t, out, "[Error] Please enter complete 6-digit OTP")
	assert.Contains(t, out, "OTP [1][2][3][_][_][_]: ")
	assert.Contains(t, out, "[Resend] "+otp.MsgResend)
	assert.Empty(t, h.stub.CallsTo(portal.PathVerifyOTP))
	assert.Equal(t, domain.Route{Screen: domain.ScreenOTP, UserID: "U1"}, h.router.Current())
}

func TestRun_LongOTPLineIsNotSent(t *testing.T) {
	h := newHarness(t)
	h.run(t, h.serve(t), "U1\nsecret\n1234567\n\n")

	out := h.out.String()
	assert.Equal(t, 2, strings.Count(out, "[Error] "+otp.MsgIncomplete))
	assert.NotContains(t, out, "OTP [1][2][3][4][5]")
	assert.Empty(t, h.stub.CallsTo(portal.PathVerifyOTP))
	assert.Equal(t, domain.ScreenOTP, h.router.Current().Screen)
}

func TestRun_StoredTokenSkipsLogin(t *testing.T) {
	h := newHarness(t)
	tok, err := h.stub.IssueToken("U1")
	require.NoError(t, err)
	require.NoError(t, h.store.Set(context.Background(), domain.KeyAuthToken, tok))

	h.run(t, h.serve(t), "q\n")

	assert.Equal(t, []domain.Screen{domain.ScreenSplash, domain.ScreenDashboard}, h.screens())
	assert.Contains(t, h.out.String(), "session expires")
}

func TestRun_RejectedTokenStaysOnDashboard(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.Set(context.Background(), domain.KeyAuthToken, "stale"))
	h.stub.Script(portal.PathDashboard, http.StatusOK, `{"status":false,"msg":"Session expired"}`)

	h.run(t, h.serve(t), "r\nq\n")

	out := h.out.String()
	assert.Equal(t, 2, strings.Count(out, "[Error] Session expired"))
	assert.Contains(t, out, "Failed to load dashboard")
	assert.Contains(t, out, "[r] retry")
	assert.Equal(t, domain.ScreenDashboard, h.router.Current().Screen)
}

func TestRun_Logout(t *testing.T) {
	h := newHarness(t)
	tok, err := h.stub.IssueToken("U1")
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, h.store.Set(ctx, domain.KeyAuthToken, tok))
	require.NoError(t, h.store.Set(ctx, domain.KeyUserID, "U1"))

	// First answer declines, second confirms; input then ends on the login screen.
	h.run(t, h.serve(t), "l\nn\nl\ny\n")

	assert.Contains(t, h.out.String(), "Are you sure you want to logout? [y/N]: ")
	_, ok, _ := h.store.Get(ctx, domain.KeyAuthToken)
	assert.False(t, ok)
	_, ok, _ = h.store.Get(ctx, domain.KeyUserID)
	assert.False(t, ok)
	assert.Equal(t, domain.ScreenLogin, h.router.Current().Screen)
	assert.Len(t, h.stub.CallsTo(portal.PathDashboard), 1)
}

func TestRun_UnreachablePortal(t *testing.T) {
	h := newHarness(t)
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL + portaltest.DefaultPrefix
	ts.Close()

	h.run(t, url, "U1\nsecret\n")
	assert.Contains(t, h.out.String(), "[Error] "+domain.MsgNetworkError)
}

func TestRun_NullLoginBodyIsANetworkError(t *testing.T) {
	h := newHarness(t)
	h.stub.Script(portal.PathLogin, http.StatusOK, `null`)

	h.run(t, h.serve(t), "U1\nsecret\n")
	assert.Contains(t, h.out.String(), "[Error] "+domain.MsgNetworkError)
	assert.Equal(t, domain.ScreenLogin, h.router.Current().Screen)
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "[--------------------]", progressBar(0, 0))
	assert.Equal(t, "[##########----------]", progressBar(50, 100))
	assert.Equal(t, "[####################]", progressBar(150, 100))
}
