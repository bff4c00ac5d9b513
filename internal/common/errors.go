// Package common defines sentinel errors shared by the datafaker packages.
// Callers should match them with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Seeding errors.
	ErrEmptyBatch = errors.New("batch size must be at least 1")

	// Configuration errors.
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrUnknownBackend = errors.New("unknown store backend")
)
