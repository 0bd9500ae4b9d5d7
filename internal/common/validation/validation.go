package validation

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	MsgUsernameInvalid = "Enter a valid username. Letters, digits and @/./+/-/_ only."
	MsgUsernameTooLong = "Username must be 150 characters or fewer."
	MsgEmailInvalid    = "Enter a valid email address."
	MsgPhoneInvalid    = "Phone number must be entered in the format: '+999999999'. 9 to 15 digits allowed."

	MsgPasswordTooShort       = "Password must be at least 8 characters long."
	MsgPasswordTooLong        = "Password must be at most 72 characters long."
	MsgPasswordMissingDigit   = "Password must contain at least one digit."
	MsgPasswordMissingLower   = "Password must contain at least one lowercase letter."
	MsgPasswordMissingUpper   = "Password must contain at least one uppercase letter."
	MsgPasswordMissingSpecial = "Password must contain at least one special character (!@#$%^&*/)."
	MsgPasswordBadCharacter   = "Password contains characters that are not allowed."
)

const passwordSpecialSet = "!@#$%^&*/"

var (
	usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex    = regexp.MustCompile(`^\+?\d{9,15}$`)

	// Word characters plus the punctuation set a password may consist of.
	passwordCharsetRegex = regexp.MustCompile(`^[\w!@#$%^&*()\-_+=\[\]{}|:;<>,./]+$`)
)

// Username returns an empty string when valid, otherwise the violated-rule message.
func Username(v string) string {
	if len(v) > 150 {
		return MsgUsernameTooLong
	}
	if !usernameRegex.MatchString(v) {
		return MsgUsernameInvalid
	}
	return ""
}

func Email(v string) string {
	if !emailRegex.MatchString(v) {
		return MsgEmailInvalid
	}
	return ""
}

func Phone(v string) string {
	if !phoneRegex.MatchString(v) {
		return MsgPhoneInvalid
	}
	return ""
}

type passwordRule struct {
	valid   func(string) bool
	message string
}

// passwordRules run in priority order; only the first failure is reported.
var passwordRules = []passwordRule{
	{func(p string) bool { return len(p) >= 8 }, MsgPasswordTooShort},
	{func(p string) bool { return len(p) <= 72 }, MsgPasswordTooLong},
	{containsClass(unicode.IsDigit), MsgPasswordMissingDigit},
	{containsClass(unicode.IsLower), MsgPasswordMissingLower},
	{containsClass(unicode.IsUpper), MsgPasswordMissingUpper},
	{func(p string) bool { return strings.ContainsAny(p, passwordSpecialSet) }, MsgPasswordMissingSpecial},
	{passwordCharsetRegex.MatchString, MsgPasswordBadCharacter},
}

func containsClass(class func(rune) bool) func(string) bool {
	return func(p string) bool {
		for _, r := range p {
			if class(r) {
				return true
			}
		}
		return false
	}
}

// Password checks a candidate password against the composition rules and
// returns the first violated-rule message, or an empty string when compliant.
func Password(v string) string {
	for _, r := range passwordRules {
		if !r.valid(v) {
			return r.message
		}
	}
	return ""
}
