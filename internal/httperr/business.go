package httperr

import "errors"

// BusinessError carrega um código estável para o cliente.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

// Code returns the business code of err, or "" when err is not one.
func Code(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
