package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"libraryhub/internal/microservices/http-api/repository"
)

const (
	DefaultIDSpace     int64 = 1<<31 - 1
	DefaultMaxAttempts       = 32
)

// ExistsFunc reports whether an id is already used within one entity type.
type ExistsFunc func(ctx context.Context, id int64) (bool, error)

// IDReserver claims a candidate id across processes before it is checked.
type IDReserver interface {
	Reserve(ctx context.Context, namespace string, id int64) (bool, error)
}

// IDAllocator hands out random ids in [1, space] that are not yet used.
// It holds no mutable state and is safe for concurrent use.
type IDAllocator struct {
	namespace   string
	exists      ExistsFunc
	reserver    IDReserver
	space       int64
	maxAttempts int
	draw        func(n int64) int64
}

// AllocatorOption configures an IDAllocator.
type AllocatorOption func(*IDAllocator)

// WithIDSpace sets the upper bound of the id range.
func WithIDSpace(space int64) AllocatorOption {
	return func(a *IDAllocator) { a.space = space }
}

// WithMaxAttempts bounds the number of candidates drawn per allocation.
func WithMaxAttempts(n int) AllocatorOption {
	return func(a *IDAllocator) { a.maxAttempts = n }
}

// WithReserver adds a cross-process reservation step.
func WithReserver(r IDReserver) AllocatorOption {
	return func(a *IDAllocator) { a.reserver = r }
}

// withDraw replaces the random source, draw(n) must return a value in [0, n).
func withDraw(draw func(n int64) int64) AllocatorOption {
	return func(a *IDAllocator) { a.draw = draw }
}

func NewIDAllocator(namespace string, exists ExistsFunc, opts ...AllocatorOption) *IDAllocator {
	a := &IDAllocator{
		namespace:   namespace,
		exists:      exists,
		space:       DefaultIDSpace,
		maxAttempts: DefaultMaxAttempts,
		draw:        rand.Int63n,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Allocate returns an id not currently used. It fails with ErrIDSpaceExhausted
// after maxAttempts taken candidates, which means the configured space is too
// small for the data set.
func (a *IDAllocator) Allocate(ctx context.Context) (int64, error) {
	if a.space < 1 || a.maxAttempts < 1 {
		return 0, fmt.Errorf("%w: %s allocator misconfigured (space=%d, attempts=%d)",
			ErrIDSpaceExhausted, a.namespace, a.space, a.maxAttempts)
	}
	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		id, ok, err := a.try(ctx)
		if err != nil {
			return 0, err
		}
		if ok {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: no free %s id after %d attempts", ErrIDSpaceExhausted, a.namespace, a.maxAttempts)
}

func (a *IDAllocator) try(ctx context.Context) (int64, bool, error) {
	id := 1 + a.draw(a.space)
	if a.reserver != nil {
		reserved, err := a.reserver.Reserve(ctx, a.namespace, id)
		if err != nil {
			return 0, false, storageError("reserve "+a.namespace+" id", err)
		}
		if !reserved {
			return 0, false, nil
		}
	}
	taken, err := a.exists(ctx, id)
	if err != nil {
		return 0, false, storageError("check "+a.namespace+" id", err)
	}
	return id, !taken, nil
}

// AllocateWith allocates an id and hands it to insert. When insert reports a
// primary key collision, a concurrent writer took the id between the check and
// the insert, so a fresh id is drawn. The same attempt bound applies.
func (a *IDAllocator) AllocateWith(ctx context.Context, insert func(ctx context.Context, id int64) error) (int64, error) {
	for attempt := 0; attempt < max(a.maxAttempts, 1); attempt++ {
		id, err := a.Allocate(ctx)
		if err != nil {
			return 0, err
		}
		err = insert(ctx, id)
		if errors.Is(err, repository.ErrDuplicateID) {
			continue
		}
		if err != nil {
			return 0, err
		}
		return id, nil
	}
	return 0, fmt.Errorf("%w: %s ids kept colliding on insert", ErrIDSpaceExhausted, a.namespace)
}
