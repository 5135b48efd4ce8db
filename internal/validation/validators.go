package validation

import (
	"regexp"
	"strings"
	"unicode/utf16"
)

// Field keys shared by the auth forms and their templates.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldGeneral         = "general"
)

// Messages shown next to form fields.
const (
	MsgUsernameTooShort = "Username must be at least 3 characters long"
	MsgUsernameChars    = "Username can only contain letters, numbers, and underscores"

	MsgPasswordLength    = "Password must be at least 8 characters long"
	MsgPasswordUppercase = "Password must contain at least one uppercase letter"
	MsgPasswordLowercase = "Password must contain at least one lowercase letter"
	MsgPasswordNumber    = "Password must contain at least one number"
	MsgPasswordSpecial   = "Password must contain at least one special character (!@#$%^&*)"

	MsgEmailRequired = "Email is required"
	MsgEmailInvalid  = "Please enter a valid email address"

	MsgPasswordsMismatch = "Passwords do not match"
)

const (
	minUsernameLen = 3
	minPasswordLen = 8
	specialChars   = "!@#$%^&*"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	// Whitespace here also covers vertical tab, Unicode separators and the BOM.
	emailPattern = regexp.MustCompile(`^[^\s\x0B\p{Z}\x{FEFF}@]+@[^\s\x0B\p{Z}\x{FEFF}@]+\.[^\s\x0B\p{Z}\x{FEFF}@]+$`)
)

// Validator is a function that validates a string value and returns an error message if invalid.
type Validator func(v string) string

// RequiredMsg returns msg when the value is blank after trimming.
func RequiredMsg(msg string) Validator {
	return func(v string) string {
		if strings.TrimSpace(v) == "" {
			return msg
		}
		return ""
	}
}

// MinLength returns msg when the value is shorter than n. Length is counted the way
// browsers count input length (UTF-16 code units); the value is not trimmed.
func MinLength(n int, msg string) Validator {
	return func(v string) string {
		if textLength(v) < n {
			return msg
		}
		return ""
	}
}

// Pattern returns msg when the value does not match re.
func Pattern(re *regexp.Regexp, msg string) Validator {
	return func(v string) string {
		if !re.MatchString(v) {
			return msg
		}
		return ""
	}
}

// Matches returns msg unless the value equals other exactly.
func Matches(other, msg string) Validator {
	return func(v string) string {
		if v != other {
			return msg
		}
		return ""
	}
}

// Username checks length first, then the allowed character set.
func Username() []Validator {
	return []Validator{
		MinLength(minUsernameLen, MsgUsernameTooShort),
		Pattern(usernamePattern, MsgUsernameChars),
	}
}

// Email requires a non-blank, well-formed address.
func Email() []Validator {
	return []Validator{
		RequiredMsg(MsgEmailRequired),
		func(v string) string {
			if !ValidateEmail(v) {
				return MsgEmailInvalid
			}
			return ""
		},
	}
}

// Password reports the first unmet password rule.
func Password() Validator {
	return func(v string) string {
		if errs := ValidatePassword(v); len(errs) > 0 {
			return errs[0]
		}
		return ""
	}
}

// ValidateUsername returns the first username problem, or "" when valid.
func ValidateUsername(s string) string {
	return first(s, Username()...)
}

// ValidateEmail reports whether s looks like local@domain.tld.
func ValidateEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidatePassword returns every unmet password rule in a fixed order:
// length, uppercase, lowercase, digit, special character.
func ValidatePassword(s string) []string {
	var errs []string
	if textLength(s) < minPasswordLen {
		errs = append(errs, MsgPasswordLength)
	}
	if !strings.ContainsFunc(s, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		errs = append(errs, MsgPasswordUppercase)
	}
	if !strings.ContainsFunc(s, func(r rune) bool { return r >= 'a' && r <= 'z' }) {
		errs = append(errs, MsgPasswordLowercase)
	}
	if !strings.ContainsFunc(s, func(r rune) bool { return r >= '0' && r <= '9' }) {
		errs = append(errs, MsgPasswordNumber)
	}
	if !strings.ContainsAny(s, specialChars) {
		errs = append(errs, MsgPasswordSpecial)
	}
	return errs
}

// RegistrationInput is the raw register form.
type RegistrationInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// ValidateRegistration runs every field check and collects all failures,
// keyed by field. An empty map means the input may be submitted.
func ValidateRegistration(in RegistrationInput) map[string]string {
	return New().
		Validate(FieldUsername, in.Username, Username()...).
		Validate(FieldEmail, in.Email, Email()...).
		Validate(FieldPassword, in.Password, Password()).
		Validate(FieldConfirmPassword, in.ConfirmPassword, Matches(in.Password, MsgPasswordsMismatch)).
		Errors()
}

func first(v string, validators ...Validator) string {
	for _, fn := range validators {
		if msg := fn(v); msg != "" {
			return msg
		}
	}
	return ""
}

// FieldValidator provides a fluent API for validating multiple fields.
type FieldValidator struct {
	errors map[string]string
}

// New creates a new FieldValidator instance.
func New() *FieldValidator {
	return &FieldValidator{errors: make(map[string]string)}
}

// Validate validates a field with one or more validators.
// It stops at the first error for each field.
func (fv *FieldValidator) Validate(field, value string, validators ...Validator) *FieldValidator {
	if msg := first(value, validators...); msg != "" {
		fv.errors[field] = msg
	}
	return fv
}

// Errors returns the accumulated validation errors.
func (fv *FieldValidator) Errors() map[string]string {
	return fv.errors
}

// HasErrors reports whether any field failed.
func (fv *FieldValidator) HasErrors() bool {
	return len(fv.errors) > 0
}

// textLength counts UTF-16 code units, so characters outside the BMP count twice.
func textLength(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}
