// Package validators contains the stateless syntactic checks applied to all
// user-supplied text before any engine transition runs. The checks are pure:
// they either pass or fail with a FormatError naming the offending field.
package validators

import "regexp"

var (
	emailRegexp    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	usernameRegexp = regexp.MustCompile(`^[A-Za-z0-9]{3,}$`)
	passwordRegexp = regexp.MustCompile(`^[A-Za-z0-9]{5,}$`)
	uuidRegexp     = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
)

// CheckEmail verifies that s has a conventional local@domain.tld shape.
func CheckEmail(s string) error {
	if !emailRegexp.MatchString(s) {
		return &FormatError{Field: "email", Reason: "email does not have a recognised form"}
	}
	return nil
}

// CheckUsername verifies that s is at least 3 characters long and contains
// only letters and digits.
func CheckUsername(s string) error {
	if !usernameRegexp.MatchString(s) {
		return &FormatError{Field: "username", Reason: "username must be at least 3 characters long and contain only standard characters"}
	}
	return nil
}

// CheckPassword verifies that s is at least 5 characters long and contains
// only letters and digits.
func CheckPassword(s string) error {
	if !passwordRegexp.MatchString(s) {
		return &FormatError{Field: "password", Reason: "password must be at least 5 characters long and contain only standard characters"}
	}
	return nil
}

// CheckUUIDForm reports whether s matches the canonical 8-4-4-4-12
// lowercase-hex UUID shape. Unlike the other checks this one is non-fatal:
// callers branch on the result instead of propagating an error.
func CheckUUIDForm(s string) bool {
	return uuidRegexp.MatchString(s)
}
