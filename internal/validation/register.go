// Package validation contains input validation rules for API requests.
package validation

import (
	"fmt"
	"strings"
)

const (
	// MinPasswordLength and MaxPasswordLength bound accepted passwords.
	// The upper bound matches the bcrypt input limit of 72 bytes.
	MinPasswordLength = 10
	MaxPasswordLength = 72

	// MinUsernameLength is the minimum accepted username length.
	MinUsernameLength = 1
)

// ValidateRegistration checks the registration fields against the account
// rules: no field may start or end with whitespace, username and display
// name must be non-empty, and the password length must be within bounds.
func ValidateRegistration(username, password, displayName string) error {
	for name, value := range map[string]string{
		"username":    username,
		"password":    password,
		"displayName": displayName,
	} {
		if strings.TrimSpace(value) != value {
			return fmt.Errorf("field '%s' cannot start or end with whitespace", name)
		}
	}

	if len(username) < MinUsernameLength {
		return fmt.Errorf("field 'username' must be at least %d character long", MinUsernameLength)
	}
	if len(displayName) < 1 {
		return fmt.Errorf("field 'displayName' must not be empty")
	}
	if len(password) < MinPasswordLength {
		return fmt.Errorf("field 'password' must be at least %d characters long", MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("field 'password' must be at most %d characters long", MaxPasswordLength)
	}

	return nil
}
