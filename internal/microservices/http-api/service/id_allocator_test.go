package service

import (
	"context"
	"errors"
	"testing"

	"libraryhub/internal/microservices/http-api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequence returns a draw function yielding vals in order, then repeating the last.
func sequence(vals ...int64) func(int64) int64 {
	i := 0
	return func(int64) int64 {
		v := vals[min(i, len(vals)-1)]
		i++
		return v
	}
}

func takenSet(ids ...int64) ExistsFunc {
	taken := map[int64]bool{}
	for _, id := range ids {
		taken[id] = true
	}
	return func(_ context.Context, id int64) (bool, error) {
		return taken[id], nil
	}
}

type stubReserver struct {
	refused map[int64]bool
	err     error
	calls   []int64
}

func (r *stubReserver) Reserve(_ context.Context, _ string, id int64) (bool, error) {
	r.calls = append(r.calls, id)
	if r.err != nil {
		return false, r.err
	}
	return !r.refused[id], nil
}

func TestIDAllocator_ReturnsFreeCandidate(t *testing.T) {
	// draw values are zero based, ids are draw+1
	a := NewIDAllocator("books", takenSet(4, 5), withDraw(sequence(3, 4, 9)))

	id, err := a.Allocate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(10), id)
}

func TestIDAllocator_StaysInRange(t *testing.T) {
	a := NewIDAllocator("users", takenSet(), WithIDSpace(1024))

	for i := 0; i < 500; i++ {
		id, err := a.Allocate(context.Background())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, id, int64(1))
		assert.LessOrEqual(t, id, int64(1024))
	}
}

func TestIDAllocator_Exhausted(t *testing.T) {
	calls := 0
	exists := func(context.Context, int64) (bool, error) {
		calls++
		return true, nil
	}
	a := NewIDAllocator("users", exists, WithMaxAttempts(5))

	_, err := a.Allocate(context.Background())
	assert.ErrorIs(t, err, ErrIDSpaceExhausted)
	assert.Equal(t, 5, calls)
}

func TestIDAllocator_Misconfigured(t *testing.T) {
	a := NewIDAllocator("users", takenSet(), WithIDSpace(0))
	_, err := a.Allocate(context.Background())
	assert.ErrorIs(t, err, ErrIDSpaceExhausted)

	a = NewIDAllocator("users", takenSet(), WithMaxAttempts(0))
	_, err = a.Allocate(context.Background())
	assert.ErrorIs(t, err, ErrIDSpaceExhausted)
}

func TestIDAllocator_ExistsFailureIsStorageError(t *testing.T) {
	boom := errors.New("connection refused")
	a := NewIDAllocator("books", func(context.Context, int64) (bool, error) { return false, boom })

	_, err := a.Allocate(context.Background())
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, boom)
}

func TestIDAllocator_Reserver(t *testing.T) {
	t.Run("SkipsRefusedCandidates", func(t *testing.T) {
		r := &stubReserver{refused: map[int64]bool{1: true}}
		a := NewIDAllocator("books", takenSet(), WithReserver(r), withDraw(sequence(0, 1)))

		id, err := a.Allocate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(2), id)
		assert.Equal(t, []int64{1, 2}, r.calls)
	})

	t.Run("ReserverFailure", func(t *testing.T) {
		r := &stubReserver{err: repository.ErrTransient}
		a := NewIDAllocator("books", takenSet(), WithReserver(r))

		_, err := a.Allocate(context.Background())
		assert.ErrorIs(t, err, ErrStorage)
	})
}

func TestIDAllocator_AllocateWith(t *testing.T) {
	t.Run("RetriesOnDuplicateID", func(t *testing.T) {
		a := NewIDAllocator("users", takenSet(), withDraw(sequence(10, 20)))
		var tried []int64
		id, err := a.AllocateWith(context.Background(), func(_ context.Context, id int64) error {
			tried = append(tried, id)
			if id == 11 {
				return repository.ErrDuplicateID
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, int64(21), id)
		assert.Equal(t, []int64{11, 21}, tried)
	})

	t.Run("OtherErrorsReturned", func(t *testing.T) {
		a := NewIDAllocator("users", takenSet())
		_, err := a.AllocateWith(context.Background(), func(context.Context, int64) error {
			return repository.ErrDuplicateUsername
		})
		assert.ErrorIs(t, err, repository.ErrDuplicateUsername)
	})

	t.Run("BoundedCollisions", func(t *testing.T) {
		a := NewIDAllocator("users", takenSet(), WithMaxAttempts(3))
		calls := 0
		_, err := a.AllocateWith(context.Background(), func(context.Context, int64) error {
			calls++
			return repository.ErrDuplicateID
		})
		assert.ErrorIs(t, err, ErrIDSpaceExhausted)
		assert.Equal(t, 3, calls)
	})
}
