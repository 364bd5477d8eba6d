package models

// Error types consumed by helper.HTTPHelper when mapping failures to HTTP
// status codes. Persistence failures all surface as ErrorOperationFailed with
// a user-facing message; the underlying cause stays in the logs.

type ErrorNotFound struct {
	Message string
}

func (e ErrorNotFound) Error() string { return e.Message }

type ErrorUnauthorized struct {
	Message string
}

func (e ErrorUnauthorized) Error() string { return e.Message }

type ErrorValidation struct {
	Message string
	Fields  map[string][]string
}

func (e ErrorValidation) Error() string { return e.Message }

type ErrorOperationFailed struct {
	Message string
}

func (e ErrorOperationFailed) Error() string { return e.Message }
