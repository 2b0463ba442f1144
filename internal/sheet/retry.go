package sheet

import (
	"context"

	"github.com/nordwind-labs/taskdeck/internal/retry"
)

// retryStore decorates a Store with a retry policy. Callers above the
// Store boundary never see transient rate-limit errors, only success,
// permanent rejection, or retry exhaustion.
type retryStore struct {
	inner  Store
	policy retry.Policy
}

// WithRetry wraps a Store so every operation runs under the policy.
func WithRetry(inner Store, policy retry.Policy) Store {
	return &retryStore{inner: inner, policy: policy}
}

func (s *retryStore) ReadAll(ctx context.Context, table string) ([][]string, error) {
	var rows [][]string
	err := s.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		rows, err = s.inner.ReadAll(ctx, table)
		return err
	})
	return rows, err
}

func (s *retryStore) AppendRow(ctx context.Context, table string, row []string) error {
	return s.policy.Do(ctx, func(ctx context.Context) error {
		return s.inner.AppendRow(ctx, table, row)
	})
}

func (s *retryStore) UpdateCell(ctx context.Context, table string, row, col int, value string) error {
	return s.policy.Do(ctx, func(ctx context.Context) error {
		return s.inner.UpdateCell(ctx, table, row, col, value)
	})
}

func (s *retryStore) DeleteRow(ctx context.Context, table string, row int) error {
	return s.policy.Do(ctx, func(ctx context.Context) error {
		return s.inner.DeleteRow(ctx, table, row)
	})
}

func (s *retryStore) EnsureTable(ctx context.Context, table string, header []string) error {
	return s.policy.Do(ctx, func(ctx context.Context) error {
		return s.inner.EnsureTable(ctx, table, header)
	})
}
