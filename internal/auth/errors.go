package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("username or password are not correct")
	ErrDuplicateUsername  = errors.New("username already exists")
)

// Validation reasons. A ValidationError unwraps to exactly one of these.
var (
	ErrRequired         = errors.New("required field is empty")
	ErrWeakPassword     = errors.New("password does not meet the password policy")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrTermsNotAccepted = errors.New("terms and conditions not accepted")
)

// ValidationError is a locally detected input problem. Message is the
// user-facing text; Reason is one of the sentinel reasons above.
type ValidationError struct {
	Field   string
	Message string
	Reason  error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

func required(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message, Reason: ErrRequired}
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var reasonNames = map[error]string{
	ErrRequired:         "required",
	ErrWeakPassword:     "weak_password",
	ErrPasswordMismatch: "password_mismatch",
	ErrTermsNotAccepted: "terms_not_accepted",
}

// ReasonName returns a stable name for a validation reason, or "" if reason
// is not one of the sentinel reasons.
func ReasonName(reason error) string {
	return reasonNames[reason]
}

// ReasonByName is the inverse of ReasonName. Unknown names map to ErrRequired.
func ReasonByName(name string) error {
	for reason, n := range reasonNames {
		if n == name {
			return reason
		}
	}
	return ErrRequired
}
