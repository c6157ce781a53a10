// Package dao defines the storage abstraction for kernel records. The task
// table is its main user: every live or zombie task is registered by pid so
// that ids (parent links, waitpid arguments) can be resolved back to control
// blocks.
package dao

import (
	"context"
)

type Service[K comparable, T any] interface {
	Save(ctx context.Context, t *T) error

	Load(ctx context.Context, id K) (*T, error)

	Delete(ctx context.Context, id K) error

	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}
