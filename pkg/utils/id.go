package utils

import "github.com/google/uuid"

// NewID returns a type-4 UUID; used for entity ids and list-item identity.
func NewID() string { return uuid.NewString() }
