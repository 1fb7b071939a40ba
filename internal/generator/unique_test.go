package generator

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/willfong/riskgen/internal/database"
)

// collidingExists reports the first n lookups as taken
func collidingExists(n int, calls *int) ExistsFunc {
	return func(ctx context.Context, value string) (bool, error) {
		*calls++
		return *calls <= n, nil
	}
}

func counterGen() func() string {
	i := 0
	return func() string {
		i++
		return "candidate-" + strconv.Itoa(i)
	}
}

func TestAllocateUnique(t *testing.T) {
	ctx := context.Background()

	t.Run("collisions below the limit succeed", func(t *testing.T) {
		for collisions := 0; collisions < 5; collisions++ {
			calls := 0
			got, err := AllocateUnique(ctx, database.FieldEmail, counterGen(), collidingExists(collisions, &calls), 5)
			if err != nil {
				t.Fatalf("collisions=%d: unexpected error: %v", collisions, err)
			}
			want := "candidate-" + strconv.Itoa(collisions+1)
			if got != want {
				t.Errorf("Expected %s, got %s", want, got)
			}
			if calls != collisions+1 {
				t.Errorf("Expected %d lookups, got %d", collisions+1, calls)
			}
		}
	})

	t.Run("collisions at the limit exhaust", func(t *testing.T) {
		for _, collisions := range []int{5, 6, 100} {
			calls := 0
			_, err := AllocateUnique(ctx, database.FieldPAN, counterGen(), collidingExists(collisions, &calls), 5)
			if !errors.Is(err, ErrUniqueFieldExhausted) {
				t.Fatalf("collisions=%d: expected ErrUniqueFieldExhausted, got %v", collisions, err)
			}
			if !strings.Contains(err.Error(), string(database.FieldPAN)) {
				t.Errorf("Expected error to name the field, got %q", err)
			}
			if calls != 5 {
				t.Errorf("Expected 5 lookups, got %d", calls)
			}
		}
	})

	t.Run("default limit", func(t *testing.T) {
		calls := 0
		_, err := AllocateUnique(ctx, database.FieldAadhar, counterGen(), collidingExists(1000, &calls), 0)
		if !errors.Is(err, ErrUniqueFieldExhausted) {
			t.Fatalf("Expected ErrUniqueFieldExhausted, got %v", err)
		}
		if calls != 5 {
			t.Errorf("Expected 5 lookups with the default limit, got %d", calls)
		}
	})

	t.Run("lookup errors propagate unchanged", func(t *testing.T) {
		boom := errors.New("connection lost")
		_, err := AllocateUnique(ctx, database.FieldEmail, counterGen(), func(context.Context, string) (bool, error) {
			return false, boom
		}, 5)
		if !errors.Is(err, boom) {
			t.Fatalf("Expected lookup error, got %v", err)
		}
		if errors.Is(err, ErrUniqueFieldExhausted) {
			t.Error("Lookup error must not be reported as exhaustion")
		}
	})

	t.Run("cancelled context stops probing", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		calls := 0
		_, err := AllocateUnique(cctx, database.FieldEmail, counterGen(), collidingExists(0, &calls), 5)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Expected context.Canceled, got %v", err)
		}
		if calls != 0 {
			t.Errorf("Expected no lookups, got %d", calls)
		}
	})
}
