package idgen

import "github.com/google/uuid"

// NewFunc produces record identifiers. Tests replace it to force collisions
// or deterministic values.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new globally unique identifier as string.
func New() string { return NewFunc() }
