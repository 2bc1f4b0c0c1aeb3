// Package controller is the state machine behind the source-management
// screen. It owns list loading with an offline fallback, the shared
// create/edit form, per-row connectivity-test state with auto-revert,
// and the confirm-then-delete flow. Rendering is left to the caller;
// the controller exposes snapshots and the caller draws them.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tiangong-ops/opshub/pkg/apperrors"
	"github.com/tiangong-ops/opshub/pkg/client"
)

// API is the slice of the registry client the controller needs.
// *client.Client satisfies it.
type API interface {
	ListSources(ctx context.Context) ([]client.Source, error)
	SaveSource(ctx context.Context, s client.Source) (client.Source, error)
	DeleteSource(ctx context.Context, id string) error
	TestSource(ctx context.Context, req client.TestRequest) error
}

// Phase is the list-level lifecycle state.
type Phase int

const (
	// PhaseLoading means the initial list fetch has not completed.
	PhaseLoading Phase = iota
	// PhaseReady means the list reflects live registry data.
	PhaseReady
	// PhaseDegraded means the registry is unreachable and the list shows
	// fallback data (or nothing, when fallback is disabled).
	PhaseDegraded
)

// TestState is the per-row connectivity-test display state.
type TestState int

const (
	TestIdle TestState = iota
	TestRunning
	TestSucceeded
	TestFailed
)

// TestResult is a row's current test state plus the failure message
// when TestFailed.
type TestResult struct {
	State   TestState
	Message string
}

// Errors returned by controller operations.
var (
	ErrClosed          = errors.New("controller is closed")
	ErrSaveInFlight    = errors.New("a save for this source is already in flight")
	ErrNoSuchRow       = errors.New("no such source in the current list")
	ErrNoPendingDelete = errors.New("no delete is pending confirmation")
)

// Options tune controller behavior.
type Options struct {
	// RevertAfter is how long a test verdict stays on a row before it
	// reverts to idle. Zero means the 4s default.
	RevertAfter time.Duration

	// DisableFallback suppresses the compiled-in seed dataset; degraded
	// mode then shows an empty list. Production deployments should set
	// this so fabricated rows can never be mistaken for live data.
	DisableFallback bool

	Logger *zap.Logger
}

const defaultRevertAfter = 4 * time.Second

type rowTest struct {
	result TestResult
	timer  *time.Timer
	seq    int
}

// Controller coordinates the source-management screen against the
// registry API. All methods are safe for concurrent use; network calls
// run on the calling goroutine while internal state stays behind a
// mutex, so operating one row never blocks another.
type Controller struct {
	api         API
	revertAfter time.Duration
	noFallback  bool
	logger      *zap.Logger

	mu            sync.Mutex
	phase         Phase
	sources       []client.Source
	lastErr       error
	tests         map[string]*rowTest
	saving        map[string]bool
	pendingDelete string
	generation    int
	closed        bool
}

// New creates a controller. Call Load to populate it.
func New(api API, opts Options) *Controller {
	if opts.RevertAfter <= 0 {
		opts.RevertAfter = defaultRevertAfter
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Controller{
		api:         api,
		revertAfter: opts.RevertAfter,
		noFallback:  opts.DisableFallback,
		logger:      opts.Logger,
		phase:       PhaseLoading,
		tests:       make(map[string]*rowTest),
		saving:      make(map[string]bool),
	}
}

// Load fetches the source list. On any failure it enters degraded mode
// with the fallback dataset instead of failing the screen; the fetch
// error is kept for display. Retry calls Load again.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.phase = PhaseLoading
	gen := c.generation
	c.mu.Unlock()

	sources, err := c.api.ListSources(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.generation {
		return ErrClosed
	}

	if err != nil {
		c.logger.Warn("Source list fetch failed, entering degraded mode", zap.Error(err))
		c.phase = PhaseDegraded
		c.lastErr = err
		if c.noFallback {
			c.sources = nil
		} else {
			c.sources = seedSources()
		}
		return err
	}

	c.phase = PhaseReady
	c.lastErr = nil
	c.sources = sources
	return nil
}

// Retry re-attempts the list fetch after a degraded load.
func (c *Controller) Retry(ctx context.Context) error {
	return c.Load(ctx)
}

// Phase reports the list-level state.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Degraded reports whether the list currently shows fallback data.
func (c *Controller) Degraded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase == PhaseDegraded
}

// LastError returns the most recent load failure, or nil when the list
// is live.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Sources returns a copy of the rows currently on display.
func (c *Controller) Sources() []client.Source {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]client.Source, len(c.sources))
	copy(out, c.sources)
	return out
}

// RowTest reports a row's connectivity-test display state.
func (c *Controller) RowTest(id string) TestResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	if rt, ok := c.tests[id]; ok {
		return rt.result
	}
	return TestResult{State: TestIdle}
}

// TestRow probes the listed source's endpoint. The stored secret never
// reaches the client, so the probe runs with an empty password; that
// still proves network reachability and surfaces auth state. The
// verdict stays on the row for the revert window, then clears. Testing
// one row does not block any other row.
func (c *Controller) TestRow(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	row, ok := c.findRow(id)
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNoSuchRow, id)
	}
	rt := c.tests[id]
	if rt == nil {
		rt = &rowTest{}
		c.tests[id] = rt
	}
	if rt.result.State == TestRunning {
		c.mu.Unlock()
		return nil
	}
	if rt.timer != nil {
		rt.timer.Stop()
		rt.timer = nil
	}
	rt.seq++
	seq := rt.seq
	gen := c.generation
	rt.result = TestResult{State: TestRunning}
	req := client.TestRequest{
		Type:     row.Type,
		Host:     row.Host,
		Port:     row.Port,
		Database: row.Database,
		Username: row.Username,
	}
	c.mu.Unlock()

	err := c.api.TestSource(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.generation || rt.seq != seq {
		return ErrClosed
	}

	if err != nil {
		rt.result = TestResult{State: TestFailed, Message: err.Error()}
	} else {
		rt.result = TestResult{State: TestSucceeded}
	}
	c.scheduleRevert(id, rt, seq, gen)
	return err
}

// TestDraft probes with form contents, including a typed password, for
// the test-before-save workflow. Nothing is persisted either way.
func (c *Controller) TestDraft(ctx context.Context, req client.TestRequest) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.mu.Unlock()

	return c.api.TestSource(ctx, req)
}

// scheduleRevert clears the row's verdict after the display window.
// Callers hold c.mu.
func (c *Controller) scheduleRevert(id string, rt *rowTest, seq, gen int) {
	rt.timer = time.AfterFunc(c.revertAfter, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		// A newer test or a Close supersedes this revert.
		if c.closed || gen != c.generation || rt.seq != seq {
			return
		}
		rt.result = TestResult{State: TestIdle}
		rt.timer = nil
	})
}

// BeginCreate returns a blank form for a new source.
func (c *Controller) BeginCreate() client.Source {
	return client.Source{Port: 3306, Type: "mysql"}
}

// BeginEdit returns a form snapshot of the row. The password field is
// always blank: stored secrets never populate the form, and leaving it
// blank on submit keeps the stored secret unchanged.
func (c *Controller) BeginEdit(id string) (client.Source, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	row, ok := c.findRow(id)
	if !ok {
		return client.Source{}, fmt.Errorf("%w: %s", ErrNoSuchRow, id)
	}
	form := row
	form.Password = ""
	return form, nil
}

// Submit saves the form. While a save for an id is in flight further
// submits for that id are rejected, so two edits of one source cannot
// race to completion out of order. On success the list is refetched
// from the registry rather than merged locally, because the server's
// merge semantics (secret preservation, id assignment) are canonical.
// On failure the caller keeps the form open and shows the error.
func (c *Controller) Submit(ctx context.Context, form client.Source) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	key := form.ID
	if key == "" {
		key = "(new)"
	}
	if c.saving[key] {
		c.mu.Unlock()
		return ErrSaveInFlight
	}
	c.saving[key] = true
	gen := c.generation
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.saving, key)
		c.mu.Unlock()
	}()

	if _, err := c.api.SaveSource(ctx, form); err != nil {
		return err
	}

	sources, err := c.api.ListSources(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.generation {
		return ErrClosed
	}
	if err != nil {
		// The save landed but the refresh failed; keep the stale list and
		// surface the fetch error.
		c.lastErr = err
		return err
	}
	c.phase = PhaseReady
	c.lastErr = nil
	c.sources = sources
	return nil
}

// RequestDelete stages a row for deletion pending confirmation.
func (c *Controller) RequestDelete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if _, ok := c.findRow(id); !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchRow, id)
	}
	c.pendingDelete = id
	return nil
}

// PendingDelete returns the id staged for deletion, or "".
func (c *Controller) PendingDelete() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingDelete
}

// CancelDelete clears the staged deletion.
func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingDelete = ""
}

// ConfirmDelete deletes the staged row. A NotFound from the registry
// means the row is already gone; it is removed locally and treated as
// success. Any other failure leaves the row in place.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	id := c.pendingDelete
	if id == "" {
		c.mu.Unlock()
		return ErrNoPendingDelete
	}
	gen := c.generation
	c.mu.Unlock()

	err := c.api.DeleteSource(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.generation {
		return ErrClosed
	}
	c.pendingDelete = ""

	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	kept := c.sources[:0]
	for _, s := range c.sources {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	c.sources = kept
	if rt, ok := c.tests[id]; ok {
		if rt.timer != nil {
			rt.timer.Stop()
		}
		delete(c.tests, id)
	}
	return nil
}

// Close tears the controller down. Timers are cancelled and any async
// completion still in flight is discarded instead of applied to stale
// state. The controller cannot be reused afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.generation++
	for _, rt := range c.tests {
		if rt.timer != nil {
			rt.timer.Stop()
			rt.timer = nil
		}
	}
}

// findRow locates a displayed row by id. Callers hold c.mu.
func (c *Controller) findRow(id string) (client.Source, bool) {
	for _, s := range c.sources {
		if s.ID == id {
			return s, true
		}
	}
	return client.Source{}, false
}
