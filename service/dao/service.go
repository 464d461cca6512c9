package dao

import (
	"context"
)

// Service is an append-only, order preserving collection of T.
type Service[T any] interface {
	Create(ctx context.Context, t *T) (*T, error)

	Load(ctx context.Context, id string) (*T, error)

	FindMany(ctx context.Context, parameters ...*Parameter) ([]*T, error)

	Count(ctx context.Context) (int, error)
}
