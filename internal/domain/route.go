package domain

import "fmt"

type Screen int

const (
	ScreenSplash Screen = iota
	ScreenLogin
	ScreenOTP
	ScreenDashboard
)

func (s Screen) String() string {
	switch s {
	case ScreenSplash:
		return "Splash"
	case ScreenLogin:
		return "Login"
	case ScreenOTP:
		return "OTP"
	case ScreenDashboard:
		return "Dashboard"
	}
	return fmt.Sprintf("Screen(%d)", int(s))
}

// Route is a navigation target. UserID is only set on the way to the OTP
// screen, where the user is known but no session exists yet.
type Route struct {
	Screen Screen
	UserID string
}

func (r Route) String() string {
	if r.UserID != "" {
		return fmt.Sprintf("%s(userid=%s)", r.Screen, r.UserID)
	}
	return r.Screen.String()
}
