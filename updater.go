package sheetlive

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// Source fetches the values of a range from the remote sheet.
type Source interface {
	Fetch(ctx context.Context, rng BoundingRange) (Grid, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, rng BoundingRange) (Grid, error)

// Fetch calls f(ctx, rng).
func (f SourceFunc) Fetch(ctx context.Context, rng BoundingRange) (Grid, error) {
	return f(ctx, rng)
}

// Stats summarises what the updater has done so far.
type Stats struct {
	Cycles        int64     `json:"cycles"`
	Skipped       int64     `json:"skipped"`
	Failed        int64     `json:"failed"`
	HandlerErrors int64     `json:"handlerErrors"`
	LastError     string    `json:"lastError,omitempty"`
	LastSuccess   time.Time `json:"lastSuccess"`
}

// Updater polls a Source on an interval and writes the values into a Surface.
type Updater struct {
	plan     *Plan
	source   Source
	surface  Surface
	registry *Registry
	interval time.Duration
	timeout  time.Duration
	log      logrus.FieldLogger

	polling atomic.Bool
	busy    atomic.Bool

	mu    sync.Mutex
	stats Stats
}

// New compiles settings and builds an Updater. Errors here are fatal: without a
// valid plan there is no request to make.
func New(settings Settings, source Source, surface Surface, opts ...Option) (*Updater, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if source == nil || surface == nil {
		return nil, fmt.Errorf("updater needs a source and a surface")
	}

	plan, err := Compile(settings)
	if err != nil {
		return nil, err
	}

	reg := NewRegistry()
	for _, p := range o.presets {
		if err := reg.Import(p); err != nil {
			return nil, err
		}
	}

	timeout := o.timeout
	if timeout == 0 {
		timeout = o.interval
	}
	return &Updater{
		plan:     plan,
		source:   source,
		surface:  surface,
		registry: reg,
		interval: o.interval,
		timeout:  timeout,
		log:      o.logger,
	}, nil
}

// Plan returns the compiled plan.
func (u *Updater) Plan() *Plan { return u.plan }

// Registry returns the updater's operation registry.
func (u *Updater) Registry() *Registry { return u.registry }

// Interval returns the poll interval.
func (u *Updater) Interval() time.Duration { return u.interval }

// AddOperation registers a new operation kind; existing kinds are left untouched.
func (u *Updater) AddOperation(name string, op Operation, simple bool) error {
	if err := u.registry.Add(name, op, simple); err != nil {
		u.log.WithError(err).Warn("operation not added")
		return err
	}
	return nil
}

// ImportPreset registers a bundled preset.
func (u *Updater) ImportPreset(p Preset) error {
	return u.AddOperation(p.Name, p.Operation, p.Simple)
}

// Polling reports whether Start has been called.
func (u *Updater) Polling() bool {
	return u.polling.Load()
}

// Stats returns a copy of the updater's counters.
func (u *Updater) Stats() Stats {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.stats
}

// Start runs one cycle immediately and then one per interval until ctx is done.
// It can be called once; later calls return ErrAlreadyPolling and start nothing.
func (u *Updater) Start(ctx context.Context) error {
	if !u.polling.CompareAndSwap(false, true) {
		u.log.Warn("start ignored: the updater is already polling")
		return ErrAlreadyPolling
	}
	u.log.WithFields(logrus.Fields{
		"range":    u.plan.Range.String(),
		"interval": u.interval,
		"entries":  len(u.plan.Entries),
	}).Info("updater started")

	go u.loop(ctx)
	return nil
}

func (u *Updater) loop(ctx context.Context) {
	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	u.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			u.log.Info("updater stopped")
			return
		case <-ticker.C:
			u.tick(ctx)
		}
	}
}

// tick starts a cycle in the background unless the previous one is still running.
func (u *Updater) tick(ctx context.Context) {
	if !u.busy.CompareAndSwap(false, true) {
		u.recordSkip()
		return
	}
	go func() {
		defer u.busy.Store(false)
		_ = u.cycle(ctx)
	}()
}

// Update runs a single fetch-decode-dispatch cycle and waits for it.
// It returns ErrCycleInProgress when another cycle is running, the fetch error
// when the cycle was skipped, or the collected handler errors.
func (u *Updater) Update(ctx context.Context) error {
	if !u.busy.CompareAndSwap(false, true) {
		u.recordSkip()
		return ErrCycleInProgress
	}
	defer u.busy.Store(false)
	return u.cycle(ctx)
}

func (u *Updater) cycle(ctx context.Context) error {
	log := u.log.WithField("cycle", uuid.NewString())

	fetchCtx, cancel := context.WithTimeout(ctx, u.timeout)
	grid, err := u.source.Fetch(fetchCtx, u.plan.Range)
	cancel()
	if err != nil {
		if !errors.Is(err, ErrFetchFailed) && !errors.Is(err, ErrDecodeFailed) {
			err = fmt.Errorf("%w: %v", ErrFetchFailed, err)
		}
		log.WithError(err).Warn("skipping cycle")
		u.recordFailure(err)
		return err
	}

	var result *multierror.Error
	for _, e := range u.plan.Entries {
		value := grid.Value(e.Coord)
		elog := log.WithFields(logrus.Fields{"kind": e.Kind, "cell": e.Label})
		if err := u.dispatch(e, value, elog); err != nil {
			elog.WithError(err).Warn("failed to update overlay entry")
			result = multierror.Append(result, err)
		}
	}

	u.recordSuccess(result)
	log.WithField("handlerErrors", len(result.WrappedErrors())).Debug("cycle complete")
	return result.ErrorOrNil()
}

// dispatch runs one entry, turning handler errors and panics into a HandlerError.
func (u *Updater) dispatch(e Entry, value string, log logrus.FieldLogger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &HandlerError{Kind: e.Kind, Cell: e.Label, Value: value, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	call := Call{Surface: u.surface, Log: log, Descriptor: e.Descriptor, Value: value}
	if err := u.registry.Dispatch(e.Kind, call); err != nil {
		return &HandlerError{Kind: e.Kind, Cell: e.Label, Value: value, Err: err}
	}
	return nil
}

func (u *Updater) recordSkip() {
	u.mu.Lock()
	u.stats.Skipped++
	u.mu.Unlock()
	u.log.Debug("tick skipped: previous cycle still running")
}

func (u *Updater) recordFailure(err error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.stats.Cycles++
	u.stats.Failed++
	u.stats.LastError = err.Error()
}

func (u *Updater) recordSuccess(handlerErrs *multierror.Error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.stats.Cycles++
	u.stats.LastSuccess = time.Now()
	if n := len(handlerErrs.WrappedErrors()); n > 0 {
		u.stats.HandlerErrors += int64(n)
		u.stats.LastError = handlerErrs.Error()
	}
}
