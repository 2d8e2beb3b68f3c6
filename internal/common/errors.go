// Package common defines sentinel errors shared by the direct-upload layers.
// Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors.
	ErrConfigurationNotFound = errors.New("configuration not found")
	ErrFilesystemNotFound    = errors.New("filesystem not found")

	// ErrAdapterNotFound also matches ErrConfigurationNotFound.
	ErrAdapterNotFound = fmt.Errorf("direct upload adapter: %w", ErrConfigurationNotFound)

	// Client errors.
	ErrInvalidRequest = errors.New("invalid request")
	ErrInvalidToken   = errors.New("invalid token")

	// Local upload verification.
	ErrInvalidSignature = errors.New("invalid signature")

	// Adapter capability errors.
	ErrNotImplemented = errors.New("not implemented")
)
