package usecase

// DomainError is an expected business failure the caller can act on.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

// TechnicalError is an infrastructure failure (store I/O and friends),
// surfaced to the caller as a generic failure.
type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}
