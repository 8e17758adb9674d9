// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys, secure random
// code generation, HTTP response writing, JWT token generation and
// validation, and other common operations.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// AssignmentIDCtxKey is the key used to store the verified assignment
// identifier in the context. It is populated exclusively by the token
// middleware after a successful token validation; handlers must never put a
// client-supplied id under this key.
//
// Example of writing a value to the context:
//
//	ctx := context.WithValue(ctx, utils.AssignmentIDCtxKey, int64(42))
var AssignmentIDCtxKey = contextKey("assignmentID")

// GetAssignmentIDFromContext retrieves the verified assignment identifier
// from the context.
//
// Returns the assignment ID of type int64 and an ok flag:
//   - ok == true  — value is found and has the correct int64 type
//   - ok == false — value is missing or has an unexpected type
func GetAssignmentIDFromContext(ctx context.Context) (int64, bool) {
	assignmentID, ok := ctx.Value(AssignmentIDCtxKey).(int64)
	return assignmentID, ok
}
