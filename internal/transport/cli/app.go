package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/go-fee-portal/internal/application/dashboard"
	"github.com/go-fee-portal/internal/application/login"
	"github.com/go-fee-portal/internal/application/navigation"
	"github.com/go-fee-portal/internal/application/otp"
	"github.com/go-fee-portal/internal/application/splash"
	"github.com/go-fee-portal/internal/domain"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var errQuit = errors.New("quit")

// PasswordReader reads a secret without echoing it.
type PasswordReader func() (string, error)

// TerminalPassword returns a PasswordReader for f when it is a terminal, and
// nil otherwise so the password is read as a plain line.
func TerminalPassword(f *os.File) PasswordReader {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil
	}
	return func() (string, error) {
		b, err := term.ReadPassword(fd)
		return string(b), err
	}
}

type Deps struct {
	Router    *navigation.Router
	Splash    splash.Service
	Login     login.Service
	OTP       otp.Service
	Dashboard dashboard.Service
	In        io.Reader
	Out       io.Writer
	Password  PasswordReader
	Log       *slog.Logger
}

// App drives the screens on a line-oriented terminal.
type App struct {
	router    *navigation.Router
	splash    splash.Service
	login     login.Service
	otp       otp.Service
	dashboard dashboard.Service
	in        *bufio.Reader
	out       io.Writer
	password  PasswordReader
	printer   *message.Printer
	log       *slog.Logger
}

func New(d Deps) *App {
	return &App{
		router:    d.Router,
		splash:    d.Splash,
		login:     d.Login,
		otp:       d.OTP,
		dashboard: d.Dashboard,
		in:        bufio.NewReader(d.In),
		out:       d.Out,
		password:  d.Password,
		printer:   message.NewPrinter(language.English),
		log:       d.Log,
	}
}

// Run shows screens until the user quits or input ends.
func (a *App) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		route := a.router.Current()
		a.log.Debug("show screen", "route", route.String())
		switch route.Screen {
		case domain.ScreenSplash:
			err = a.splashScreen(ctx)
		case domain.ScreenLogin:
			err = a.loginScreen(ctx)
		case domain.ScreenOTP:
			err = a.otpScreen(ctx, route.UserID)
		case domain.ScreenDashboard:
			err = a.dashboardScreen(ctx)
		default:
			err = fmt.Errorf("no screen for route %s", route)
		}
		if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
			a.printf("Goodbye.\n")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (a *App) splashScreen(ctx context.Context) error {
	a.printf("\nFee Portal\nLoading...\n")
	_, err := a.splash.Run(ctx)
	return err
}

func (a *App) loginScreen(ctx context.Context) error {
	a.printf("\n== Login ==\n")
	a.printf("User ID: ")
	userID, err := a.readLine()
	if err != nil {
		return err
	}
	a.printf("Password: ")
	password, err := a.readPassword()
	if err != nil {
		return err
	}

	msg, err := a.login.Login(ctx, login.Request{UserID: userID, Password: password})
	if err != nil {
		a.alert("Error", domain.Message(err))
		return nil
	}
	a.alert("Success", msg)
	return nil
}

func (a *App) otpScreen(ctx context.Context, userID string) error {
	entry := domain.NewOtpEntry()
	a.printf("\n== OTP Verification ==\n")
	a.printf("Enter the 6-digit code sent to your registered mobile number\n")
	a.printf("(type the code, 'resend', or an empty line to resubmit)\n")

	for a.router.Current().Screen == domain.ScreenOTP {
		a.printf("OTP %s: ", otpBoxes(entry))
		line, err := a.readLine()
		if err != nil {
			return err
		}
		code := strings.TrimSpace(line)
		switch {
		case strings.EqualFold(code, "resend"):
			a.alert("Resend", otp.MsgResend)
			continue
		case code == "":
		case utf8.RuneCountInString(code) > domain.OTPLength:
			// Six fields cannot hold a longer line; nothing is sent.
			a.alert("Error", otp.MsgIncomplete)
			continue
		default:
			entry.Reset()
			entry.Type(code)
		}

		msg, err := a.otp.Verify(ctx, userID, entry)
		if err != nil {
			a.alert("Error", domain.Message(err))
			continue
		}
		a.alert("Success", msg)
	}
	return nil
}

func (a *App) dashboardScreen(ctx context.Context) error {
	v := dashboard.NewView()
	a.printf("\nLoading Dashboard..\n")
	a.fetch(ctx, v)

	for a.router.Current().Screen == domain.ScreenDashboard {
		a.renderDashboard(v)
		if v.State() == dashboard.StateFailed {
			a.printf("[r] retry  [l] log out  [q] quit: ")
		} else {
			a.printf("[r] refresh  [l] logout  [q] quit: ")
		}
		line, err := a.readLine()
		if err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "r":
			a.fetch(ctx, v)
		case "l":
			if err := a.logout(ctx, v); err != nil {
				return err
			}
		case "q":
			return errQuit
		default:
			a.printf("Unknown command %q\n", line)
		}
	}
	return nil
}

func (a *App) fetch(ctx context.Context, v *dashboard.View) {
	if err := a.dashboard.Fetch(ctx, v); err != nil {
		a.alert("Error", domain.Message(err))
	}
}

func (a *App) logout(ctx context.Context, v *dashboard.View) error {
	a.printf("%s [y/N]: ", dashboard.MsgConfirmLogout)
	answer, err := a.readLine()
	if err != nil {
		return err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	confirmed := answer == "y" || answer == "yes"
	if err := a.dashboard.Logout(ctx, v, confirmed); err != nil {
		a.alert("Error", domain.Message(err))
	}
	return nil
}

func (a *App) alert(title, msg string) {
	a.printf("[%s] %s\n", title, msg)
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

// readLine returns the next input line without its line ending. A final
// line without a newline is returned before io.EOF.
func (a *App) readLine() (string, error) {
	line, err := a.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *App) readPassword() (string, error) {
	if a.password == nil {
		return a.readLine()
	}
	p, err := a.password()
	a.printf("\n")
	return p, err
}

func otpBoxes(e *domain.OtpEntry) string {
	var b strings.Builder
	for i := 0; i < domain.OTPLength; i++ {
		d := e.Digit(i)
		if d == "" {
			d = "_"
		}
		b.WriteString("[" + d + "]")
	}
	return b.String()
}
