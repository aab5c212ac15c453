package system

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Option configures an executor.
type Option func(*options)

type options struct {
	locker sync.Locker
	logger zerolog.Logger
}

func newOptions(opts []Option) options {
	o := options{logger: log.Logger}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = o.logger.With().Str("component", "executor").Logger()
	return o
}

// WithLocker locks l for the duration of every Run. Passing a *depot.World queues
// the inserts systems enqueue and applies them once the batch is done.
func WithLocker(l sync.Locker) Option {
	return func(o *options) {
		o.locker = l
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// unlock releases the locker after a run. A panic from Unlock, such as a queued
// insert hitting a borrowed column, becomes the run's error unless one is set.
func (o options) unlock(err *error) {
	defer func() {
		if r := recover(); r != nil {
			unlockErr := eris.Wrap(&PanicError{System: -1, Value: r}, "failed to unlock after run")
			o.logger.Error().Err(unlockErr).Msg("unlock failed")
			if *err == nil {
				*err = unlockErr
			}
		}
	}()
	o.locker.Unlock()
}

// Sequential runs its systems one after another, in the order they were added.
type Sequential struct {
	systems []System
	opts    options
}

func NewSequential(opts ...Option) *Sequential {
	return &Sequential{opts: newOptions(opts)}
}

// With adds a system to the batch.
func (e *Sequential) With(s System) *Sequential {
	e.systems = append(e.systems, s)
	return e
}

// Run stops at the first system that panics or when ctx is done.
func (e *Sequential) Run(ctx context.Context) (err error) {
	if e.opts.locker != nil {
		e.opts.locker.Lock()
		defer e.opts.unlock(&err)
	}
	for i, s := range e.systems {
		if err := ctx.Err(); err != nil {
			return eris.Wrap(err, "sequential run cancelled")
		}
		if err := runSystem(i, s); err != nil {
			e.opts.logger.Error().Err(err).Int("system", i).Msg("system failed")
			return eris.Wrapf(err, "failed to run system %d", i)
		}
	}
	return nil
}

// Parallel runs every system of the batch on its own goroutine.
type Parallel struct {
	systems []System
	opts    options
}

func NewParallel(opts ...Option) *Parallel {
	return &Parallel{opts: newOptions(opts)}
}

func (e *Parallel) With(s System) *Parallel {
	e.systems = append(e.systems, s)
	return e
}

// Run waits for every system and returns the first failure. Systems that declare
// overlapping writes fail instead of waiting for each other.
func (e *Parallel) Run(ctx context.Context) (err error) {
	if e.opts.locker != nil {
		e.opts.locker.Lock()
		defer e.opts.unlock(&err)
	}
	eg, ctx := errgroup.WithContext(ctx)
	for i, s := range e.systems {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return eris.Wrap(err, "parallel run cancelled")
			}
			if err := runSystem(i, s); err != nil {
				e.opts.logger.Error().Err(err).Int("system", i).Msg("system failed")
				return eris.Wrapf(err, "failed to run system %d", i)
			}
			return nil
		})
	}
	return eg.Wait()
}
