// Package app drives the plot client: loading plots, seeding sample data
// and booking visits, with every outcome recorded in a state.Store.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/evcraddock/plot-visits/internal/client"
	"github.com/evcraddock/plot-visits/internal/plot"
	"github.com/evcraddock/plot-visits/internal/state"
	"github.com/evcraddock/plot-visits/internal/visit"
)

// API is the subset of the plots API the controller needs.
type API interface {
	ListPlots(ctx context.Context) ([]plot.Plot, error)
	Seed(ctx context.Context) error
	CreateVisitRequest(ctx context.Context, r visit.Request) error
}

// Controller runs operations for one client session.
type Controller struct {
	api    API
	store  *state.Store
	ctx    context.Context
	cancel context.CancelFunc
	log    *slog.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewController creates a controller with a fresh store.
func NewController(api API) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		api:    api,
		store:  state.NewStore(),
		ctx:    ctx,
		cancel: cancel,
		log:    slog.Default(),
	}
}

// Store returns the controller's state store.
func (c *Controller) Store() *state.Store {
	return c.store
}

// Snapshot returns the current status.
func (c *Controller) Snapshot() state.Status {
	return c.store.Snapshot()
}

// Close cancels every in-flight operation and waits for them to return.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}

// LoadPlots fetches the plot list. Only the most recently started load
// may change the status.
func (c *Controller) LoadPlots() *Op {
	token := c.store.StartLoad()
	return c.start("load", func(ctx context.Context) {
		c.load(ctx, token)
	})
}

// Seed asks the API for sample plots, then reloads. It returns nil,
// changing nothing, while another seed is in flight.
func (c *Controller) Seed() *Op {
	if _, ok := c.store.Dispatch(state.SeedStarted{}); !ok {
		return nil
	}
	return c.start("seed", func(ctx context.Context) {
		if err := c.api.Seed(ctx); err != nil {
			c.log.Warn("seed failed", "error", err)
			c.store.Complete(ctx, state.SeedFailed{Err: seedErrorText(err)}, state.SeedCancelled{})
			return
		}
		if ctx.Err() != nil {
			c.store.Dispatch(state.SeedCancelled{})
			return
		}
		c.load(ctx, c.store.StartLoad())
		c.store.Complete(ctx, state.SeedSucceeded{}, state.SeedCancelled{})
	})
}

// OpenForm opens the booking form for the plot rendered as key.
// It reports false if no such plot is listed.
func (c *Controller) OpenForm(key string) bool {
	p, ok := plot.Find(c.store.Snapshot().Plots, key)
	if !ok {
		return false
	}
	c.store.Dispatch(state.FormOpened{Plot: p})
	return true
}

// CloseForm closes the booking form without submitting.
func (c *Controller) CloseForm() {
	c.store.Dispatch(state.FormClosed{})
}

// Submit sends a visit request for the selected plot. It returns nil,
// changing nothing, when no plot is selected or a submit is in flight.
func (c *Controller) Submit(form visit.BookingForm) *Op {
	s, ok := c.store.Dispatch(state.SubmitStarted{Form: form})
	if !ok {
		return nil
	}
	req := visit.NewRequest(s.Selected.ID, form)
	return c.start("submit", func(ctx context.Context) {
		if err := c.api.CreateVisitRequest(ctx, req); err != nil {
			c.log.Warn("visit request failed", "plot_id", req.PlotID.String(), "error", err)
			c.store.Complete(ctx, state.SubmitFailed{Err: submitErrorText(err)}, state.SubmitCancelled{})
			return
		}
		c.log.Info("visit request submitted", "plot_id", req.PlotID.String())
		c.store.Complete(ctx, state.SubmitSucceeded{}, state.SubmitCancelled{})
	})
}

func (c *Controller) load(ctx context.Context, token uint64) {
	c.log.Debug("loading plots", "token", token)
	plots, err := c.api.ListPlots(ctx)
	if err != nil {
		c.log.Warn("loading plots failed", "token", token, "error", err)
		c.store.Complete(ctx, state.LoadFailed{Token: token, Err: loadErrorText(err)}, state.LoadCancelled{Token: token})
		return
	}
	if _, ok := c.store.Complete(ctx, state.LoadSucceeded{Token: token, Plots: plots}, state.LoadCancelled{Token: token}); !ok {
		c.log.Debug("discarding stale plot load", "token", token)
	}
}

// start runs fn in its own goroutine under a cancellable child of the
// controller's context. After Close, fn never runs.
func (c *Controller) start(name string, fn func(ctx context.Context)) *Op {
	ctx, cancel := context.WithCancel(c.ctx)
	op := &Op{name: name, cancel: cancel, done: make(chan struct{})}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		cancel()
		close(op.done)
		return op
	}
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		defer close(op.done)
		defer cancel()
		fn(ctx)
	}()
	return op
}

func loadErrorText(err error) string {
	var se *client.StatusError
	if errors.As(err, &se) {
		return fmt.Sprintf("Failed to load plots (%d)", se.Code)
	}
	return err.Error()
}

func seedErrorText(err error) string {
	var se *client.StatusError
	if errors.As(err, &se) {
		return state.ErrSeedFailed
	}
	return err.Error()
}

func submitErrorText(err error) string {
	var se *client.StatusError
	if errors.As(err, &se) {
		if se.Detail != "" {
			return se.Detail
		}
		return state.ErrSubmit
	}
	return err.Error()
}
