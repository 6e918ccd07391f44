package domain

import "github.com/google/uuid"

// NewID generates a fresh immutable identifier for subjects and objects
// created without a caller-supplied id.
func NewID() string {
	return uuid.NewString()
}
