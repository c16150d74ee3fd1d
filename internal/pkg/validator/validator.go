package validator

// Validator validates a struct and returns V10ValidationError (or another
// error for unsupported input) on failure.
type Validator interface {
	Validate(data any) error
}
