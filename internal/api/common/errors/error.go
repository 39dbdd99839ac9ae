package errors

import "fmt"

// ValidationError covers every bad-input condition: unknown field name,
// missing or malformed dates, inverted ranges, empty city. Always maps to
// a 400 response and is never retried.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return e.Reason
}

func ValidationErr(format string, args ...interface{}) ValidationError {
	return ValidationError{Reason: fmt.Sprintf(format, args...)}
}

type NotFoundError struct {
	Type string
	Name string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Type, e.Name)
}

func NotFoundErr(t, name string) NotFoundError {
	return NotFoundError{
		Type: t,
		Name: name,
	}
}

// ConfigError marks an absent or unusable operator-provided setting, e.g.
// the upstream API credential. Operator-fixable, distinct from bad input.
type ConfigError struct {
	Name string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("%s is not configured", e.Name)
}

func ConfigErr(name string) ConfigError {
	return ConfigError{Name: name}
}

// UpstreamTimeoutError is a timeout or transport failure talking to the
// weather history API.
type UpstreamTimeoutError struct {
	Date string
}

func (e UpstreamTimeoutError) Error() string {
	return fmt.Sprintf("weather API timeout for %s", e.Date)
}

func UpstreamTimeoutErr(date string) UpstreamTimeoutError {
	return UpstreamTimeoutError{Date: date}
}

// UpstreamError is an error payload reported by the weather history API.
type UpstreamError struct {
	Date    string
	Message string
}

func (e UpstreamError) Error() string {
	return fmt.Sprintf("weather API error for %s: %s", e.Date, e.Message)
}

func UpstreamErr(date, message string) UpstreamError {
	return UpstreamError{
		Date:    date,
		Message: message,
	}
}

// StorageError wraps a database read/write failure.
type StorageError struct {
	Op  string
	Err error
}

func (e StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e StorageError) Unwrap() error {
	return e.Err
}

func StorageErr(op string, err error) StorageError {
	return StorageError{
		Op:  op,
		Err: err,
	}
}
