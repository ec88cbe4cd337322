package postgres

import (
	"context"
	"database/sql/driver"
	"time"

	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/logger"
	"github.com/cenkalti/backoff/v4"
	"github.com/cockroachdb/errors"
	"github.com/lib/pq"
)

// maxRetryAttempts bounds the optimistic retry loop for counter updates.
// The primary path is a single conditional statement that needs no retry;
// only store-level serialization failures re-run the operation.
const maxRetryAttempts = 5

// withConflictRetry runs fn, retrying with exponential backoff while the
// store reports a serialization failure. Exhausting the attempts fails with
// ErrContention so the caller can surface a "try again" error.
func withConflictRetry(ctx context.Context, log *logger.Logger, op string, fn func() error) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(newBackOff(), maxRetryAttempts-1),
		ctx,
	)

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		err := fn()
		if err == nil {
			return nil
		}
		if isSerializationFailure(err) {
			log.Warnw("retrying conflicting counter update",
				"op", op,
				"attempt", attempt,
			)
			return err
		}
		return backoff.Permanent(err)
	}, policy)

	if err != nil && isSerializationFailure(err) {
		return ierr.WithError(err).
			WithHint("The operation conflicted with concurrent updates, please retry").
			WithReportableDetails(map[string]any{
				"op":       op,
				"attempts": attempt,
			}).
			Mark(ierr.ErrContention)
	}

	return err
}

func newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 5 * time.Millisecond
	b.MaxInterval = 100 * time.Millisecond
	return b
}

// isSerializationFailure matches postgres serialization_failure (40001) and
// deadlock_detected (40P01), both of which are safe to re-run.
func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}

// isConnectionFailure matches driver-level and class 08 connection errors,
// which indicate the store itself is unreachable rather than a bad request.
func isConnectionFailure(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Class() == "08"
	}
	return false
}

// markStoreError wraps a store failure with the right sentinel: connection
// failures become ErrStoreUnavailable, everything else ErrDatabase.
func markStoreError(err error, hint string, details map[string]any) error {
	builder := ierr.WithError(err).WithHint(hint)
	if details != nil {
		builder = builder.WithReportableDetails(details)
	}
	if isConnectionFailure(err) {
		return builder.Mark(ierr.ErrStoreUnavailable)
	}
	return builder.Mark(ierr.ErrDatabase)
}
