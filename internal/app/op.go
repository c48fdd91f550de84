package app

import (
	"context"
)

// Op is a handle to an in-flight operation. A nil *Op stands for an
// operation that was never started.
type Op struct {
	name   string
	cancel context.CancelFunc
	done   chan struct{}
}

var closedDone = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Name identifies the operation kind ("load", "seed", "submit").
func (o *Op) Name() string {
	if o == nil {
		return ""
	}
	return o.name
}

// Cancel aborts the operation. Its result will not be applied.
func (o *Op) Cancel() {
	if o != nil {
		o.cancel()
	}
}

// Done is closed when the operation has finished.
func (o *Op) Done() <-chan struct{} {
	if o == nil {
		return closedDone
	}
	return o.done
}

// Wait blocks until the operation finishes or ctx is done.
func (o *Op) Wait(ctx context.Context) error {
	select {
	case <-o.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
