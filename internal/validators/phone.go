package validators

import (
	"errors"
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 \-()]{6,18}[0-9]$`)

// ValidatePhoneFormat checks that a phone number looks dialable: optional
// leading +, digits with common separators, 8 to 20 characters.
func ValidatePhoneFormat(phone string) error {
	if !phonePattern.MatchString(strings.TrimSpace(phone)) {
		return errors.New("phone number should contain 8 to 20 digits")
	}
	return nil
}
