package storage

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/chdeepakkumar/portfolio/internal/common"
	"github.com/chdeepakkumar/portfolio/internal/logging"
)

// Retry decorates a Backend with bounded exponential-backoff retries to mask
// the remote store's eventual-consistency window.
//
// common.ErrNotFound is a legitimate terminal result for reads and existence
// checks (the object may simply not exist) and is never retried. Transport
// errors are retried up to the attempt budget and then surfaced. Write
// verification is performed here with the same budget and downgraded to a
// logged warning when the store has not yet converged.
type Retry struct {
	inner       Backend
	maxAttempts int
	initial     time.Duration
	logger      logging.Logger
}

// WithRetry wraps inner with the given policy. maxAttempts counts the first
// try, so 3 means one call plus two retries.
func WithRetry(inner Backend, maxAttempts int, initial time.Duration, logger logging.Logger) *Retry {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Retry{
		inner:       inner,
		maxAttempts: maxAttempts,
		initial:     initial,
		logger:      logger.With("component", "storage_retry"),
	}
}

func (r *Retry) policy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initial
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(r.maxAttempts-1)), ctx)
}

// do runs op under the retry policy, treating ErrNotFound and validation
// failures as permanent.
func (r *Retry) do(ctx context.Context, op func() error) error {
	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		if errors.Is(err, common.ErrNotFound) || errors.Is(err, common.ErrValidation) {
			return backoff.Permanent(err)
		}
		return err
	}, r.policy(ctx))
}

func (r *Retry) Read(ctx context.Context, p string) (string, error) {
	var out string
	err := r.do(ctx, func() error {
		var err error
		out, err = r.inner.Read(ctx, p)
		return err
	})
	return out, err
}

func (r *Retry) ReadBytes(ctx context.Context, p string) ([]byte, error) {
	var out []byte
	err := r.do(ctx, func() error {
		var err error
		out, err = r.inner.ReadBytes(ctx, p)
		return err
	})
	return out, err
}

func (r *Retry) Write(ctx context.Context, p string, content string, verify bool) error {
	err := r.do(ctx, func() error {
		return r.inner.Write(ctx, p, content, false)
	})
	if err != nil {
		return err
	}
	if verify {
		r.verifyVisible(ctx, p)
	}
	return nil
}

func (r *Retry) WriteBytes(ctx context.Context, p string, data []byte) error {
	return r.do(ctx, func() error {
		return r.inner.WriteBytes(ctx, p, data)
	})
}

// verifyVisible probes for the just-written object under the retry policy.
// A miss is a warning, never an error: the write already succeeded
// server-side, the store just has not converged yet.
func (r *Retry) verifyVisible(ctx context.Context, p string) {
	err := r.do(ctx, func() error {
		ok, err := r.inner.Exists(ctx, p)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("object not visible after write")
		}
		return nil
	})
	if err != nil {
		r.logger.Warn(ctx, "write verification did not converge, object should appear shortly",
			"path", p, "error", err)
	}
}

// Exists retries transport errors, then degrades a persistent failure to a
// logged false so bootstrap-time probes never crash the caller.
func (r *Retry) Exists(ctx context.Context, p string) (bool, error) {
	var out bool
	err := r.do(ctx, func() error {
		var err error
		out, err = r.inner.Exists(ctx, p)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			return false, err
		}
		r.logger.Warn(ctx, "existence check failed after retries, treating as absent",
			"path", p, "error", err)
		return false, nil
	}
	return out, nil
}

func (r *Retry) Delete(ctx context.Context, p string) error {
	return r.do(ctx, func() error {
		return r.inner.Delete(ctx, p)
	})
}

func (r *Retry) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var out []ObjectInfo
	err := r.do(ctx, func() error {
		var err error
		out, err = r.inner.List(ctx, prefix)
		return err
	})
	return out, err
}

func (r *Retry) Stat(ctx context.Context, p string) (ObjectInfo, error) {
	var out ObjectInfo
	err := r.do(ctx, func() error {
		var err error
		out, err = r.inner.Stat(ctx, p)
		return err
	})
	return out, err
}
