package domain

import "strings"

// OTPLength is the number of single-digit fields on the OTP screen.
const OTPLength = 6

// OtpEntry models the six OTP input fields and the focused field.
type OtpEntry struct {
	digits [OTPLength]string
	focus  int
}

func NewOtpEntry() *OtpEntry { return &OtpEntry{} }

// Input sets field i to v. Only "" or a single ASCII digit is accepted;
// anything else leaves the entry untouched and returns false. A non-empty
// digit moves focus to the next field.
func (o *OtpEntry) Input(i int, v string) bool {
	if i < 0 || i >= OTPLength {
		return false
	}
	if v != "" && (len(v) != 1 || v[0] < '0' || v[0] > '9') {
		return false
	}
	o.digits[i] = v
	o.focus = i
	if v != "" && i < OTPLength-1 {
		o.focus = i + 1
	}
	return true
}

// Backspace handles a backspace key press on field i: when the field is
// already empty focus moves back one field.
func (o *OtpEntry) Backspace(i int) {
	if i < 0 || i >= OTPLength {
		return
	}
	o.focus = i
	if o.digits[i] == "" && i > 0 {
		o.focus = i - 1
	}
}

// Type feeds each rune of s into the focused field, as if typed key by key.
// Rejected runes are skipped. A field holds one digit, so once the focused
// field is filled further keys are dropped.
func (o *OtpEntry) Type(s string) {
	for _, r := range s {
		if o.digits[o.focus] != "" {
			return
		}
		o.Input(o.focus, string(r))
	}
}

func (o *OtpEntry) Focus() int { return o.focus }

func (o *OtpEntry) Digit(i int) string {
	if i < 0 || i >= OTPLength {
		return ""
	}
	return o.digits[i]
}

// Code concatenates all fields.
func (o *OtpEntry) Code() string { return strings.Join(o.digits[:], "") }

func (o *OtpEntry) Complete() bool { return len(o.Code()) == OTPLength }

func (o *OtpEntry) Reset() { *o = OtpEntry{} }
