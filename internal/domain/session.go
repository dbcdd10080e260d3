package domain

// Keys under which the session is persisted on the device.
const (
	KeyAuthToken = "authToken"
	KeyUserID    = "userid"
)

// Session is the persisted login state established after OTP verification.
type Session struct {
	Token  string `json:"authToken"`
	UserID string `json:"userid"`
}
