package validators

// FormatError reports a user-supplied value that fails a syntactic check.
// Field names the rejected input ("email", "username", "password").
type FormatError struct {
	Field  string
	Reason string
}

func (e *FormatError) Error() string {
	return e.Reason
}
