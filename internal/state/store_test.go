package state

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestStoreDispatchNotifies(t *testing.T) {
	st := NewStore()
	ch := st.Changed()

	st.Dispatch(SeedStarted{})

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("changed channel not closed")
	}
	if st.Changed() == ch {
		t.Error("expected a fresh changed channel after dispatch")
	}
}

func TestStoreRejectedEventDoesNotNotify(t *testing.T) {
	st := NewStore()
	ch := st.Changed()

	if _, ok := st.Dispatch(SubmitStarted{}); ok {
		t.Fatal("submit without selection accepted")
	}

	select {
	case <-ch:
		t.Error("changed closed for rejected event")
	default:
	}
}

func TestStoreStartLoadTokensIncrease(t *testing.T) {
	st := NewStore()
	a := st.StartLoad()
	b := st.StartLoad()
	if b <= a {
		t.Errorf("tokens not increasing: %d then %d", a, b)
	}
}

func TestStoreComplete(t *testing.T) {
	st := NewStore()
	tok := st.StartLoad()

	s, ok := st.Complete(context.Background(), LoadSucceeded{Token: tok, Plots: testPlots(2)}, LoadCancelled{Token: tok})
	if !ok || len(s.Plots) != 2 {
		t.Errorf("complete = %+v, %v", s, ok)
	}
}

func TestStoreCompleteCancelled(t *testing.T) {
	st := NewStore()
	tok := st.StartLoad()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, _ := st.Complete(ctx, LoadSucceeded{Token: tok, Plots: testPlots(2)}, LoadCancelled{Token: tok})
	if len(s.Plots) != 0 {
		t.Errorf("cancelled load applied plots: %d", len(s.Plots))
	}
	if s.Loading {
		t.Error("loading not released")
	}
}

func TestStoreCompleteCancelledNilEvent(t *testing.T) {
	st := NewStore()
	st.Dispatch(SeedStarted{})
	ch := st.Changed()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, ok := st.Complete(ctx, SeedSucceeded{}, nil); ok {
		t.Error("nil cancelled event accepted")
	}
	select {
	case <-ch:
		t.Error("state changed")
	default:
	}
}

func TestStoreConcurrentDispatch(t *testing.T) {
	st := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok := st.StartLoad()
			st.Dispatch(LoadSucceeded{Token: tok, Plots: testPlots(1)})
		}()
	}
	wg.Wait()

	if got := st.Snapshot().latestLoad; got != 50 {
		t.Errorf("latest load = %d, want 50", got)
	}
}
