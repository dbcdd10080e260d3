package domain

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	DefaultThemeColor = "#AA4948"
	fallbackNA        = "N/A"
)

type DashboardPayload struct {
	User      DashboardUser `json:"user"`
	Dashboard Dashboard     `json:"dashboard"`
}

type DashboardUser struct {
	UserID Text   `json:"userid"`
	Name   string `json:"name"`
	Mobile Text   `json:"mobile"`
}

type Dashboard struct {
	Color    ThemeColor    `json:"color"`
	Carousel []string      `json:"carousel"`
	Student  StudentCounts `json:"student"`
	Amount   FeeAmounts    `json:"amount"`
}

type ThemeColor struct {
	DynamicColor string `json:"dynamic_color"`
}

type StudentCounts struct {
	Boy  Number `json:"Boy"`
	Girl Number `json:"Girl"`
}

type FeeAmounts struct {
	Total Number `json:"Total"`
	Paid  Number `json:"Paid"`
	Due   Number `json:"due"`
}

func (p *DashboardPayload) ThemeColor() string {
	if c := strings.TrimSpace(p.Dashboard.Color.DynamicColor); c != "" {
		return c
	}
	return DefaultThemeColor
}

// Initial is the avatar letter: the upper-cased first letter of the name.
func (u DashboardUser) Initial() string {
	r, _ := utf8.DecodeRuneInString(u.Name)
	if r == utf8.RuneError {
		return "U"
	}
	return string(unicode.ToUpper(r))
}

func (u DashboardUser) DisplayName() string {
	if u.Name == "" {
		return "User"
	}
	return u.Name
}

func (u DashboardUser) DisplayMobile() string { return orNA(string(u.Mobile)) }

func (u DashboardUser) DisplayUserID() string { return orNA(string(u.UserID)) }

func (s StudentCounts) Total() float64 { return s.Boy.Float() + s.Girl.Float() }

// PaidPercent is Paid/Total as a whole percentage, 0 when Total is 0.
func (a FeeAmounts) PaidPercent() int {
	if a.Total == 0 {
		return 0
	}
	return int(math.Round(a.Paid.Float() / a.Total.Float() * 100))
}

func orNA(s string) string {
	if s == "" {
		return fallbackNA
	}
	return s
}
