// Package errors provides application error types for tracedump.
//
// This package defines:
//   - AppError type with error classification
//   - Error constructors for the dump error taxonomy
//   - Error type checking helpers
//
// # Error Types
//
//   - Connectivity: tracking server unreachable; fatal at startup
//   - Fetch: a single resource call failed; non-fatal, resource treated
//     as empty and traversal continues
//   - Serialization: writing the output document failed; non-fatal, the
//     in-memory result is unaffected
//   - Validation: invalid configuration or input
//   - NotFound: resource does not exist on the server
//
// # Usage
//
// Create errors using constructor functions:
//
//	return apperrors.Fetch("runs for experiment 42")
//	return apperrors.Connectivity("server unreachable").WithError(err)
//
// Check error types:
//
//	if apperrors.IsConnectivity(err) {
//	    os.Exit(1)
//	}
//
// # Error Wrapping
//
// Errors support wrapping with fmt.Errorf:
//
//	return fmt.Errorf("health check: %w", apperrors.Connectivity(msg))
package errors
