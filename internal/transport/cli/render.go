package cli

import (
	"math"
	"strings"
	"time"

	"github.com/go-fee-portal/internal/application/dashboard"
	"golang.org/x/text/number"
)

const progressWidth = 20

func (a *App) renderDashboard(v *dashboard.View) {
	p := v.Payload()
	if p == nil {
		if v.State() == dashboard.StateFailed {
			a.printf("\nFailed to load dashboard\n")
		}
		return
	}
	user, d := p.User, p.Dashboard

	a.printf("\n========================================\n")
	a.printf(" (%s)  Welcome\n", user.Initial())
	a.printf("       %s\n", user.DisplayName())
	a.printf("       %s\n", user.DisplayMobile())
	a.printf(" theme %s\n", p.ThemeColor())
	if info, ok := v.Token(); ok && !info.ExpiresAt.IsZero() {
		a.printf(" session expires %s\n", info.ExpiresAt.Local().Format(time.DateTime))
	}
	a.printf("========================================\n")

	if len(d.Carousel) > 0 {
		a.printf("\nBanners\n")
		for i, url := range d.Carousel {
			a.printf("  %d. %s\n", i+1, url)
		}
	}

	a.printf("\nStudent Statistics\n")
	a.printf("  Boys: %s   Girls: %s   Total: %s\n",
		a.decimal(d.Student.Boy.Float()),
		a.decimal(d.Student.Girl.Float()),
		a.decimal(d.Student.Total()))

	amt := d.Amount
	a.printf("\nFee Overview\n")
	a.printf("  Total Fee   %s   (Academic Year 2024-25)\n", a.rupees(amt.Total.Float()))
	a.printf("  Paid Fee    %s   (%d%% completed)\n", a.rupees(amt.Paid.Float()), amt.PaidPercent())
	a.printf("  %s\n", progressBar(amt.Paid.Float(), amt.Total.Float()))
	a.printf("  Due Fee     %s   (Payment pending)\n", a.rupees(amt.Due.Float()))

	a.printf("\nAccount Information\n")
	a.printf("  User ID  %s\n", user.DisplayUserID())
	a.printf("  Mobile   %s\n", user.DisplayMobile())
	if v.Refreshing() {
		a.printf("(refreshing)\n")
	}
}

// rupees formats v with thousands grouping and a rupee sign, e.g. ₹12,500.
func (a *App) rupees(v float64) string {
	return "₹" + a.decimal(v)
}

func (a *App) decimal(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return a.printer.Sprintf("%d", int64(v))
	}
	return a.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

func progressBar(paid, total float64) string {
	filled := 0
	if total != 0 {
		filled = int(math.Round(paid / total * progressWidth))
	}
	filled = max(0, min(progressWidth, filled))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", progressWidth-filled) + "]"
}
