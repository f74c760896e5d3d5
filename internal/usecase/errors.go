package usecase

import "errors"

const (
	CodeInvalidStatus     = "INVALID_STATUS"
	CodeInvalidAssignment = "INVALID_ASSIGNMENT"
	CodeLeadNotFound      = "LEAD_NOT_FOUND"
	CodeStoreFailure      = "STORE_FAILURE"
)

// DomainError é erro de regra de negócio, devolvido ao painel como 4xx.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// ErrorCode devolve o código de um DomainError/TechnicalError, ou "".
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	var te *TechnicalError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}
