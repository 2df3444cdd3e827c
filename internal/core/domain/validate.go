package domain

import (
	"regexp"
	"strings"
	"unicode"
)

// specialChars are the characters rejected in free-text name fields.
const specialChars = "@#$%^&*+=://;?><}{[]()"

// phonePattern matches international numbers: a leading + followed by
// 6 to 14 optionally space-separated digit groups and a final digit.
var phonePattern = regexp.MustCompile(`^\+(?:[0-9] ?){6,14}[0-9]$`)

// ValidName reports whether a free-text name field is free of special
// characters.
func ValidName(value string) bool {
	return !strings.ContainsAny(value, specialChars)
}

// ValidPhone reports whether number is in the accepted international
// format. Spaces inside the number are tolerated by the pattern itself.
func ValidPhone(number string) bool {
	return phonePattern.MatchString(number)
}

// ValidPassword applies the strength policy: at least 8 characters,
// at least one letter and one digit (so never entirely numeric).
func ValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}
