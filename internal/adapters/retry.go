package adapters

import (
	"context"

	"crossfund/internal/errs"
)

// errsWithRetry adapts errs.WithRetry (which wraps a bare error-returning
// thunk) to adapter calls that also need to return a value.
func errsWithRetry[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := errs.WithRetry(ctx, errs.DefaultRetryConfig(), func(ctx context.Context) error {
		r, ferr := fn(ctx)
		if ferr != nil {
			return ferr
		}
		result = r
		return nil
	})
	return result, err
}
