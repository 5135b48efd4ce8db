package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "empty", value: "", want: MsgUsernameTooShort},
		{name: "two chars", value: "ab", want: MsgUsernameTooShort},
		{name: "two chars with bad symbol reports length first", value: "a-", want: MsgUsernameTooShort},
		{name: "three chars", value: "abc", want: ""},
		{name: "underscore and digits", value: "user_01", want: ""},
		{name: "hyphen", value: "user-01", want: MsgUsernameChars},
		{name: "space", value: "john doe", want: MsgUsernameChars},
		{name: "leading space not trimmed", value: " bob", want: MsgUsernameChars},
		{name: "email style", value: "a@b.com", want: MsgUsernameChars},
		{name: "non ascii letters", value: "jöhn", want: MsgUsernameChars},
		{name: "two bmp letters are too short", value: "éé", want: MsgUsernameTooShort},
		{name: "astral characters count twice", value: "😀😀", want: MsgUsernameChars},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateUsername(tt.value))
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{name: "strong", value: "Abcdef1!", want: nil},
		{name: "missing special", value: "Abcdefg1", want: []string{MsgPasswordSpecial}},
		{name: "astral characters count twice toward length", value: "Aa1!😀😀", want: nil},
		{name: "seven bmp characters are short", value: "Aa1!ééé", want: []string{MsgPasswordLength}},
		{
			name:  "only lowercase short",
			value: "abc",
			want: []string{
				MsgPasswordLength,
				MsgPasswordUppercase,
				MsgPasswordNumber,
				MsgPasswordSpecial,
			},
		},
		{
			name:  "empty reports all in order",
			value: "",
			want: []string{
				MsgPasswordLength,
				MsgPasswordUppercase,
				MsgPasswordLowercase,
				MsgPasswordNumber,
				MsgPasswordSpecial,
			},
		},
		{name: "no uppercase", value: "abcdef1!", want: []string{MsgPasswordUppercase}},
		{name: "no lowercase", value: "ABCDEF1!", want: []string{MsgPasswordLowercase}},
		{name: "no digit", value: "Abcdefg!", want: []string{MsgPasswordNumber}},
		{name: "unlisted symbol is not special", value: "Abcdef1?", want: []string{MsgPasswordSpecial}},
		{name: "non ascii upper does not count", value: "Ébcdef1!", want: []string{MsgPasswordUppercase}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePassword(tt.value))
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"a@b.co", true},
		{"first.last@sub.example.org", true},
		{"a@b.c.d", true},
		{"", false},
		{"plain", false},
		{"a@b", false},
		{"a@b.", false},
		{"@b.com", false},
		{"a@@b.com", false},
		{"a b@c.com", false},
		{" a@b.com", false},
		{"a@b .com", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateEmail(tt.value))
		})
	}
}

func TestValidateRegistration(t *testing.T) {
	valid := RegistrationInput{
		Username:        "new_user",
		Email:           "new@example.com",
		Password:        "Secret1!x",
		ConfirmPassword: "Secret1!x",
	}

	t.Run("valid input has no errors", func(t *testing.T) {
		assert.Empty(t, ValidateRegistration(valid))
	})

	t.Run("collects every failing field", func(t *testing.T) {
		got := ValidateRegistration(RegistrationInput{
			Username:        "x",
			Email:           "   ",
			Password:        "weak",
			ConfirmPassword: "other",
		})
		assert.Equal(t, map[string]string{
			FieldUsername:        MsgUsernameTooShort,
			FieldEmail:           MsgEmailRequired,
			FieldPassword:        MsgPasswordLength,
			FieldConfirmPassword: MsgPasswordsMismatch,
		}, got)
	})

	t.Run("password shows only first rule", func(t *testing.T) {
		in := valid
		in.Password = "short"
		in.ConfirmPassword = "short"
		got := ValidateRegistration(in)
		assert.Equal(t, MsgPasswordLength, got[FieldPassword])
		assert.NotContains(t, got, FieldConfirmPassword)
	})

	t.Run("malformed email", func(t *testing.T) {
		in := valid
		in.Email = "not-an-email"
		assert.Equal(t, map[string]string{FieldEmail: MsgEmailInvalid}, ValidateRegistration(in))
	})

	t.Run("confirm compares exactly", func(t *testing.T) {
		in := valid
		in.ConfirmPassword = strings.ToLower(valid.Password)
		assert.Equal(t, map[string]string{FieldConfirmPassword: MsgPasswordsMismatch}, ValidateRegistration(in))
	})
}

func TestFieldValidator(t *testing.T) {
	fv := New().
		Validate("a", "", RequiredMsg("A is required"), MinLength(2, "too short")).
		Validate("b", "ok", RequiredMsg("B is required"))

	assert.True(t, fv.HasErrors())
	assert.Equal(t, map[string]string{"a": "A is required"}, fv.Errors())
	assert.False(t, New().HasErrors())
}

func TestTextLength(t *testing.T) {
	assert.Equal(t, 0, textLength(""))
	assert.Equal(t, 3, textLength("abc"))
	assert.Equal(t, 2, textLength("éé"))
	assert.Equal(t, 4, textLength("😀😀"))
	assert.Equal(t, 1, textLength("\xff"))
}
