// Package fetch implements a generic fetch/refresh state machine for views
// that render data from the explorer API.
//
// A Controller issues a request when it starts, when its parameters change,
// on Refetch and optionally on a fixed timer. Each issue supersedes the one
// before it: the previous request context is cancelled and its response, if it
// still arrives, is discarded. Data from the last success is kept while a new
// request is loading and after a failure.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/blockandplay/explorer/pkg/logging"
)

var fetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "explorer_fetch_total",
	Help: "Completed controller fetches by outcome (success, error, superseded)",
}, []string{"outcome"})

var (
	// ErrStarted is returned by Start on a running controller.
	ErrStarted = errors.New("controller already started")

	// ErrClosed is returned by Start after Close.
	ErrClosed = errors.New("controller closed")
)

// Status is the phase of a controller.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// State is a snapshot of a controller.
type State[P comparable, T any] struct {
	Status Status
	// Data is the payload of the last successful fetch.
	Data T
	// HasData is false until the first success.
	HasData bool
	// Err is set after a failed fetch and cleared when loading starts.
	Err       *Error
	Params    P
	Loading   bool
	UpdatedAt time.Time
}

// RequestFunc performs one fetch for params. It should honour ctx.
type RequestFunc[P comparable, T any] func(ctx context.Context, params P) (T, error)

// Option configures a Controller.
type Option func(*options)

type options struct {
	clock    clock.Clock
	name     string
	interval time.Duration
}

// WithClock injects the clock driving auto-refresh.
func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithName labels the controller in logs.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithAutoRefresh enables polling at interval from Start.
func WithAutoRefresh(interval time.Duration) Option {
	return func(o *options) { o.interval = interval }
}

// Controller is a fetch/refresh state machine. All methods are safe for
// concurrent use.
type Controller[P comparable, T any] struct {
	fn     RequestFunc[P, T]
	clock  clock.Clock
	logger zerolog.Logger

	mu         sync.Mutex
	state      State[P, T]
	generation uint64
	cancel     context.CancelFunc
	baseCtx    context.Context
	baseCancel context.CancelFunc
	started    bool
	closed     bool
	interval   time.Duration
	stopTicker chan struct{}
	onChange   func(State[P, T])

	// notifyMu keeps OnChange deliveries in transition order.
	notifyMu sync.Mutex
	loops    sync.WaitGroup
}

// New creates an idle controller. Nothing is fetched until Start.
func New[P comparable, T any](fn RequestFunc[P, T], params P, opts ...Option) *Controller[P, T] {
	o := options{clock: clock.New(), name: "default"}
	for _, opt := range opts {
		opt(&o)
	}

	return &Controller[P, T]{
		fn:       fn,
		clock:    o.clock,
		logger:   logging.NewLogger("fetch").With().Str("controller", o.name).Logger(),
		state:    State[P, T]{Status: StatusIdle, Params: params},
		interval: o.interval,
	}
}

// OnChange registers an observer called after every state transition.
// It must not call back into the controller synchronously.
func (c *Controller[P, T]) OnChange(fn func(State[P, T])) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// State returns the current snapshot.
func (c *Controller[P, T]) State() State[P, T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start mounts the controller: it enters loading, issues the first request
// and starts auto-refresh when configured. ctx bounds every request.
func (c *Controller[P, T]) Start(ctx context.Context) error {
	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return ErrClosed
	case c.started:
		c.mu.Unlock()
		return ErrStarted
	}
	c.started = true
	c.baseCtx, c.baseCancel = context.WithCancel(ctx)
	if c.interval > 0 {
		c.startTickerLocked(c.interval)
	}
	c.issueLocked("start")
	return nil
}

// SetParams replaces the parameters and re-issues the request when they
// differ from the current ones. It reports whether a request was issued.
func (c *Controller[P, T]) SetParams(params P) bool {
	c.mu.Lock()
	if params == c.state.Params {
		c.mu.Unlock()
		return false
	}
	c.state.Params = params
	if !c.started || c.closed {
		c.mu.Unlock()
		return false
	}
	c.issueLocked("params")
	return true
}

// Refetch re-issues the request with the current parameters.
func (c *Controller[P, T]) Refetch() {
	c.issue("refetch")
}

// SetAutoRefresh turns polling on or off. Enabling replaces any running timer.
func (c *Controller[P, T]) SetAutoRefresh(enabled bool, interval time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopTickerLocked()
	if !enabled || interval <= 0 {
		c.interval = 0
		return
	}
	c.interval = interval
	if c.started && !c.closed {
		c.startTickerLocked(interval)
	}
}

// Close unmounts the controller. The in-flight request is cancelled, the
// timer stopped, and no further fetches happen.
func (c *Controller[P, T]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.generation++
	c.stopTickerLocked()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.baseCancel != nil {
		c.baseCancel()
	}
	if c.state.Loading {
		c.state.Loading = false
		c.state.Status = StatusIdle
		c.notifyAndUnlock()
	} else {
		c.mu.Unlock()
	}

	c.loops.Wait()
}

func (c *Controller[P, T]) issue(reason string) {
	c.mu.Lock()
	if !c.started || c.closed {
		c.mu.Unlock()
		return
	}
	c.issueLocked(reason)
}

// issueTick fetches for a tick of the ticker owning stop. A tick received
// before SetAutoRefresh or Close replaced that ticker is dropped.
func (c *Controller[P, T]) issueTick(stop chan struct{}) {
	c.mu.Lock()
	if !c.started || c.closed || c.stopTicker != stop {
		c.mu.Unlock()
		return
	}
	c.issueLocked("timer")
}

// issueLocked must be called with mu held and releases it.
func (c *Controller[P, T]) issueLocked(reason string) {
	c.generation++
	gen := c.generation
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(c.baseCtx)
	c.cancel = cancel

	params := c.state.Params
	c.state.Status = StatusLoading
	c.state.Loading = true
	c.state.Err = nil

	c.logger.Debug().
		Uint64("generation", gen).
		Str("reason", reason).
		Interface("params", params).
		Msg("Issuing fetch")

	c.notifyAndUnlock()

	go c.run(ctx, cancel, gen, params)
}

func (c *Controller[P, T]) run(ctx context.Context, cancel context.CancelFunc, gen uint64, params P) {
	defer cancel()

	data, err := c.call(ctx, params)

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		fetchTotal.WithLabelValues("superseded").Inc()
		c.logger.Debug().
			Uint64("generation", gen).
			Interface("params", params).
			Msg("Discarding superseded response")
		return
	}

	c.state.Loading = false
	c.cancel = nil
	if err != nil {
		c.state.Status = StatusError
		c.state.Err = normalize(err)
		fetchTotal.WithLabelValues("error").Inc()
		c.logger.Warn().
			Err(err).
			Str("kind", string(c.state.Err.Kind)).
			Interface("params", params).
			Msg("Fetch failed")
	} else {
		c.state.Status = StatusSuccess
		c.state.Data = data
		c.state.HasData = true
		c.state.UpdatedAt = c.clock.Now()
		fetchTotal.WithLabelValues("success").Inc()
	}
	c.notifyAndUnlock()
}

// call runs the request function, turning a panic into an error.
func (c *Controller[P, T]) call(ctx context.Context, params P) (data T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &Error{Kind: KindPanic, Err: fmt.Errorf("request panicked: %v", r)}
		}
	}()
	return c.fn(ctx, params)
}

// notifyAndUnlock releases mu and delivers the snapshot taken under it.
func (c *Controller[P, T]) notifyAndUnlock() {
	fn := c.onChange
	snapshot := c.state
	if fn == nil {
		c.mu.Unlock()
		return
	}
	c.notifyMu.Lock()
	c.mu.Unlock()
	defer c.notifyMu.Unlock()
	fn(snapshot)
}

func (c *Controller[P, T]) startTickerLocked(interval time.Duration) {
	stop := make(chan struct{})
	c.stopTicker = stop
	ticker := c.clock.Ticker(interval)

	c.loops.Add(1)
	go func() {
		defer c.loops.Done()
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				c.issueTick(stop)
			}
		}
	}()
}

func (c *Controller[P, T]) stopTickerLocked() {
	if c.stopTicker != nil {
		close(c.stopTicker)
		c.stopTicker = nil
	}
}
