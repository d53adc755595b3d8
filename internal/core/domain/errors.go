package domain

import "errors"

// Error categories. Every service error wraps exactly one of these so the
// transport layer can pick a status code with errors.Is.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrDuplicateEntry = errors.New("duplicate entry")
	ErrRuleViolation  = errors.New("business rule violation")
)

// Error is a categorized error with its own message
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// NewError creates an error of the given category
func NewError(kind error, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Validation failures raised by the pure rules
var (
	ErrNonPositiveAmount   = NewError(ErrInvalidInput, "amount must be greater than zero")
	ErrInvalidDuration     = NewError(ErrInvalidInput, "duration must be between 1 and the loan type maximum")
	ErrInvalidPercentage   = NewError(ErrInvalidInput, "percentage must be between 0 and 100")
	ErrInvalidTransition   = NewError(ErrRuleViolation, "invalid status transition")
	ErrInvalidGender       = NewError(ErrInvalidInput, "gender must be Male or Female")
	ErrInvalidRole         = NewError(ErrInvalidInput, "invalid role")
	ErrInvalidWithdrawType = NewError(ErrInvalidInput, "invalid withdrawal type")
)
