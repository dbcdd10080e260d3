package portal

import "github.com/go-fee-portal/internal/domain"

// Endpoint paths, relative to the portal base URL.
const (
	PathLogin     = "login.php"
	PathVerifyOTP = "verify_otp.php"
	PathDashboard = "dashboard.php"
)

type LoginRequest struct {
	UserID   string `json:"userid"`
	Password string `json:"password"`
}

type VerifyOTPRequest struct {
	UserID string `json:"userid"`
	OTP    string `json:"otp"`
}

// LoginEnvelope is the body returned by login.php.
type LoginEnvelope struct {
	Status domain.Flag `json:"status"`
	Msg    string      `json:"msg"`
	UserID domain.Text `json:"userid"`
}

// VerifyEnvelope is the body returned by verify_otp.php.
type VerifyEnvelope struct {
	Status domain.Flag `json:"status"`
	Msg    string      `json:"msg"`
	Token  domain.Text `json:"token"`
}

// DashboardEnvelope is the body returned by dashboard.php. On success the
// user and dashboard objects sit next to status at the top level.
type DashboardEnvelope struct {
	Status domain.Flag `json:"status"`
	Msg    string      `json:"msg"`
	domain.DashboardPayload
}
