// Package validator provides struct validation for tracedump.
//
// This package wraps go-playground/validator to provide:
//   - A shared validator instance
//   - Human-readable error messages keyed by snake_case config names
//
// Use validator.Validate() directly:
//
//	if err := validator.Validate(cfg); err != nil {
//	    // err is a validator.ValidationErrors
//	}
package validator
