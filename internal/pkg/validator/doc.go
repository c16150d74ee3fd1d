// Package validator validates request structs and reports failures as a
// field-to-message map keyed by JSON field names.
//
// Business code depends on the Validator interface; V10Validator is the
// go-playground/validator implementation with English messages.
package validator
