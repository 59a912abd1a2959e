package handlers

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode"
)

// Alphanumeric with single internal space/underscore/hyphen separators;
// must start and end with an alphanumeric character.
var usernameRegexp = regexp.MustCompile(`^[A-Za-z0-9]+(?:[ _-][A-Za-z0-9]+)*$`)

func validateUsername(username string) error {
	if len(username) < 2 || len(username) > 20 {
		return errBadRequest("Username must be between 2 and 20 characters")
	}
	if !usernameRegexp.MatchString(username) {
		return errBadRequest("Username must not contain special characters")
	}
	return nil
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return errBadRequest("Invalid email address")
	}
	return nil
}

func validateFullname(fullname string) error {
	if len(fullname) < 3 {
		return errBadRequest("Fullname must be of atleast 3 characters")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 6 {
		return errBadRequest("Password must be of atleast 6 characters")
	}
	return nil
}

// validateStrongPassword enforces the stricter policy tier used when a
// password is changed: at least 8 characters with an uppercase letter, a
// lowercase letter and a digit.
func validateStrongPassword(password string) error {
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if len(password) < 8 || !hasUpper || !hasLower || !hasDigit {
		return errBadRequest("Password must have at least 8 characters, 1 uppercase letter, 1 lowercase letter and 1 number")
	}
	return nil
}

func validateCommentContent(content string) error {
	if len(strings.TrimSpace(content)) < 3 {
		return errBadRequest("Comment must be of atleast 3 characters")
	}
	return nil
}
