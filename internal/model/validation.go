package model

import (
	"fmt"
	"regexp"
)

// FieldValidationError reports a field whose value does not match its
// required format. Raised before any persistence call so an invalid entity
// never exists, not even transiently.
type FieldValidationError struct {
	Field  string
	Reason string
}

func (e *FieldValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

	// Matches the algorithm$iterations$base64(hash)$base64(salt) hash-string
	// produced by the password service.
	passwordRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+\$[0-9]+\$[a-zA-Z0-9/+]+=*\$[a-zA-Z0-9/+]+=*$`)
)

func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return &FieldValidationError{Field: "username", Reason: "must be 3-20 alphanumeric or underscore characters"}
	}
	return nil
}

// ValidatePasswordFormat rejects anything that is not a structured
// hash-string, which keeps plaintext passwords out of the users table.
func ValidatePasswordFormat(password string) error {
	if !passwordRegex.MatchString(password) {
		return &FieldValidationError{Field: "password", Reason: "must be a formatted password hash"}
	}
	return nil
}
