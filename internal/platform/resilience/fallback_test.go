package resilience

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nonEmpty(v []int) bool { return len(v) > 0 }

func TestFirstAccepted(t *testing.T) {
	t.Parallel()

	errPrimary := errors.New("primary down")
	errSecondary := errors.New("secondary down")

	ok := func(v ...int) Attempt[[]int] {
		return func(context.Context) ([]int, error) { return v, nil }
	}
	fail := func(err error) Attempt[[]int] {
		return func(context.Context) ([]int, error) { return nil, err }
	}

	cases := []struct {
		name     string
		attempts []Attempt[[]int]
		want     []int
		wantErr  error
	}{
		{name: "first accepted wins", attempts: []Attempt[[]int]{ok(1), ok(2)}, want: []int{1}},
		{name: "empty primary falls through", attempts: []Attempt[[]int]{ok(), ok(3, 4)}, want: []int{3, 4}},
		{name: "error then accepted", attempts: []Attempt[[]int]{fail(errPrimary), ok(5)}, want: []int{5}},
		{name: "all rejected returns last success", attempts: []Attempt[[]int]{ok(), fail(errSecondary)}, want: []int{}},
		{name: "all failed returns last error", attempts: []Attempt[[]int]{fail(errPrimary), fail(errSecondary)}, wantErr: errSecondary},
		{name: "no attempts", attempts: nil, wantErr: ErrNoAttempts},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := FirstAccepted(context.Background(), tc.attempts, nonEmpty)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, len(tc.want))
			if len(tc.want) > 0 {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestFirstAccepted_StopsAfterAcceptance(t *testing.T) {
	t.Parallel()

	calls := 0
	attempt := func(v int) Attempt[int] {
		return func(context.Context) (int, error) {
			calls++
			return v, nil
		}
	}

	got, err := FirstAccepted(context.Background(), []Attempt[int]{attempt(1), attempt(2), attempt(3)}, func(v int) bool { return v >= 2 })
	require.NoError(t, err)
	assert.Equal(t, 2, got)
	assert.Equal(t, 2, calls)
}

func TestFirstAccepted_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FirstAccepted(ctx, []Attempt[int]{func(context.Context) (int, error) { return 1, nil }}, nil)
	require.ErrorIs(t, err, context.Canceled)
}
