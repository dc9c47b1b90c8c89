package workflow

import (
	"context"
	"log/slog"
)

// LoadState is where a list fetch ended up.
type LoadState int

const (
	StateIdle LoadState = iota
	StateLoading
	StateLoaded
	StateError
	// StateCancelled means the originating request went away; the result
	// must not be rendered.
	StateCancelled
)

// LoadResult is the outcome of Load.
type LoadResult[T any] struct {
	State LoadState
	Items []T
	Err   error
}

func (r LoadResult[T]) Failed() bool    { return r.State == StateError }
func (r LoadResult[T]) Cancelled() bool { return r.State == StateCancelled }

// Load runs fetch for a list screen. A failure is logged and yields an empty
// list; a response arriving after ctx is done is dropped.
func Load[T any](ctx context.Context, name string, fetch func(ctx context.Context) ([]T, error)) LoadResult[T] {
	items, err := fetch(ctx)
	if ctx.Err() != nil {
		slog.Debug("dropping response of cancelled request", slog.String("list", name))
		return LoadResult[T]{State: StateCancelled, Err: ctx.Err()}
	}
	if err != nil {
		slog.Error("load list failed", slog.String("list", name), slog.Any("err", err))
		return LoadResult[T]{State: StateError, Items: []T{}, Err: err}
	}
	if items == nil {
		items = []T{}
	}
	return LoadResult[T]{State: StateLoaded, Items: items}
}
