package httperr

import "errors"

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// Code extracts the business code, if any.
func Code(err error) (string, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return "", false
}

// FieldErrors is a validation failure keyed by request field.
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	return "validation_error"
}

func NewFieldError(field, message string) FieldErrors {
	return FieldErrors{field: {message}}
}
