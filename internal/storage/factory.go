package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/chdeepakkumar/portfolio/internal/common"
	"github.com/chdeepakkumar/portfolio/internal/logging"
)

// Options selects and configures the backend for this process. Kind is
// "local" or "s3"; the choice is made once and never switched at runtime.
type Options struct {
	Kind    string
	DataDir string
	S3      S3Options

	RetryMaxAttempts    int
	RetryInitialBackoff time.Duration
}

// New constructs the process-wide Backend. The remote backend is always
// wrapped in the retry decorator; the local backend is used bare because the
// filesystem is immediately consistent.
func New(ctx context.Context, opts Options, logger logging.Logger) (Backend, error) {
	switch opts.Kind {
	case "local":
		return NewLocal(opts.DataDir, logger)
	case "s3":
		remote, err := NewS3(ctx, opts.S3, logger)
		if err != nil {
			return nil, err
		}
		return WithRetry(remote, opts.RetryMaxAttempts, opts.RetryInitialBackoff, logger), nil
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", common.ErrConfig, opts.Kind)
	}
}
