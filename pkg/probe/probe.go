// Package probe performs ephemeral connectivity tests against external
// database endpoints. Probes never touch the metadata store: callers
// routinely test unsaved or modified credentials before committing them.
package probe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tiangong-ops/opshub/pkg/apperrors"
)

// Params is the full set of connection parameters for a probe. The
// record they came from may never have been persisted.
type Params struct {
	EngineType string
	Host       string
	Port       int
	Database   string
	Username   string
	Secret     string
}

// Error wraps a driver failure, preserving the driver's literal error
// text and, when the driver reports one, its machine-readable code.
// Operators rely on the verbatim driver text to diagnose firewall and
// credential issues, so the text must survive to the API response.
type Error struct {
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %v", e.Code, e.Err)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Runner dispatches probes to registered engine probers and enforces a
// hard deadline via context cancellation. Driver-level timeouts alone
// are not trusted; driver defaults can be unbounded.
type Runner struct {
	timeout time.Duration
}

// NewRunner creates a Runner with the given per-probe deadline.
func NewRunner(timeout time.Duration) *Runner {
	return &Runner{timeout: timeout}
}

// Probe attempts a live connection using p. It returns nil on success,
// apperrors.ErrUnsupportedEngine (without any network I/O) when no
// prober is registered for the engine type, apperrors.ErrTimeout when
// the deadline is exceeded, and otherwise the prober's failure with
// driver text intact.
func (r *Runner) Probe(ctx context.Context, p Params) error {
	fn := GetProber(p.EngineType)
	if fn == nil {
		return fmt.Errorf("%w: %s", apperrors.ErrUnsupportedEngine, p.EngineType)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	err := fn(ctx, p)
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s: %v", apperrors.ErrTimeout, r.timeout, err)
	}
	return err
}
