package state

import (
	"testing"

	"github.com/evcraddock/plot-visits/internal/plot"
	"github.com/evcraddock/plot-visits/internal/visit"
)

func mustApply(t *testing.T, s Status, e Event) Status {
	t.Helper()
	next, ok := Apply(s, e)
	if !ok {
		t.Fatalf("event %T rejected", e)
	}
	return next
}

func startLoad(t *testing.T, s Status) (Status, uint64) {
	t.Helper()
	s = mustApply(t, s, LoadStarted{})
	return s, s.latestLoad
}

func testPlots(n int) []plot.Plot {
	plots := make([]plot.Plot, n)
	for i := range plots {
		plots[i] = plot.Plot{ID: plot.IntID(int64(i + 1)), Title: "Plot"}
	}
	return plots
}

func TestLoadSucceeded(t *testing.T) {
	for _, n := range []int{0, 1, 3} {
		s, tok := startLoad(t, Initial())
		s = mustApply(t, s, LoadSucceeded{Token: tok, Plots: testPlots(n)})

		if s.Loading {
			t.Errorf("n=%d: loading still true", n)
		}
		if len(s.Plots) != n {
			t.Errorf("n=%d: got %d plots", n, len(s.Plots))
		}
		wantMsg := ""
		if n == 0 {
			wantMsg = MsgNoPlots
		}
		if s.Message() != wantMsg {
			t.Errorf("n=%d: message = %q, want %q", n, s.Message(), wantMsg)
		}
		if s.Error() != "" {
			t.Errorf("n=%d: unexpected error %q", n, s.Error())
		}
	}
}

func TestLoadSucceededKeepsOrder(t *testing.T) {
	plots := []plot.Plot{{ID: plot.IntID(9), Title: "z"}, {ID: plot.IntID(1), Title: "a"}, {ID: plot.IntID(9), Title: "dup"}}
	s, tok := startLoad(t, Initial())
	s = mustApply(t, s, LoadSucceeded{Token: tok, Plots: plots})

	for i := range plots {
		if s.Plots[i].Title != plots[i].Title {
			t.Errorf("plots[%d] = %q, want %q", i, s.Plots[i].Title, plots[i].Title)
		}
	}
}

func TestLoadFailedKeepsPlots(t *testing.T) {
	s, tok := startLoad(t, Initial())
	s = mustApply(t, s, LoadSucceeded{Token: tok, Plots: testPlots(2)})

	s, tok = startLoad(t, s)
	s = mustApply(t, s, LoadFailed{Token: tok, Err: "Failed to load plots (500)"})

	if len(s.Plots) != 2 {
		t.Errorf("plots = %d, want 2 (stale but visible)", len(s.Plots))
	}
	if s.Error() != "Failed to load plots (500)" {
		t.Errorf("error = %q", s.Error())
	}
	if s.Loading {
		t.Error("loading still true")
	}
}

func TestLoadStartedClearsErrorOnly(t *testing.T) {
	s := Initial()
	s.Banner = errorBanner("boom")
	s, _ = startLoad(t, s)
	if s.Error() != "" {
		t.Errorf("error = %q, want cleared", s.Error())
	}

	s.Banner = messageBanner("hello")
	s, _ = startLoad(t, s)
	if s.Message() != "hello" {
		t.Errorf("message = %q, want kept until load completes", s.Message())
	}
}

func TestStaleLoadIgnored(t *testing.T) {
	s, first := startLoad(t, Initial())
	s, second := startLoad(t, s)

	next, ok := Apply(s, LoadSucceeded{Token: first, Plots: testPlots(5)})
	if ok {
		t.Fatal("stale load accepted")
	}
	if len(next.Plots) != 0 || !next.Loading {
		t.Errorf("stale load changed status: %+v", next)
	}

	if _, ok := Apply(s, LoadFailed{Token: first, Err: "x"}); ok {
		t.Error("stale failure accepted")
	}

	s = mustApply(t, s, LoadSucceeded{Token: second, Plots: testPlots(1)})
	if s.Loading || len(s.Plots) != 1 {
		t.Errorf("latest load not applied: %+v", s)
	}
}

func TestLoadCancelled(t *testing.T) {
	s, tok := startLoad(t, Initial())
	s.Banner = messageBanner("kept")
	s = mustApply(t, s, LoadCancelled{Token: tok})

	if s.Loading {
		t.Error("loading still true")
	}
	if s.Message() != "kept" {
		t.Errorf("banner changed: %+v", s.Banner)
	}
}

func TestSeedSucceededOverwritesLoadMessage(t *testing.T) {
	s := mustApply(t, Initial(), SeedStarted{})
	s, tok := startLoad(t, s)
	s = mustApply(t, s, LoadSucceeded{Token: tok, Plots: []plot.Plot{}})
	if s.Message() != MsgNoPlots {
		t.Fatalf("message = %q", s.Message())
	}

	s = mustApply(t, s, SeedSucceeded{})
	if s.Message() != MsgSeeded {
		t.Errorf("message = %q, want %q", s.Message(), MsgSeeded)
	}
}

func TestSeedSucceededOverwritesLoadError(t *testing.T) {
	s := mustApply(t, Initial(), SeedStarted{})
	s, tok := startLoad(t, s)
	s = mustApply(t, s, LoadFailed{Token: tok, Err: "Failed to load plots (502)"})

	s = mustApply(t, s, SeedSucceeded{})
	if s.Error() != "" {
		t.Errorf("error = %q, want cleared", s.Error())
	}
	if s.Message() != MsgSeeded {
		t.Errorf("message = %q, want %q", s.Message(), MsgSeeded)
	}
	if s.Seeding {
		t.Error("seeding still true")
	}
}

func TestSeedingMarksBusy(t *testing.T) {
	s := Initial()
	s.Loading = false
	if s.Busy() {
		t.Fatal("idle status reported busy")
	}

	s = mustApply(t, s, SeedStarted{})
	if !s.Seeding || !s.Busy() {
		t.Errorf("seeding = %v busy = %v, want both true", s.Seeding, s.Busy())
	}
	if _, ok := Apply(s, SeedStarted{}); ok {
		t.Error("second seed accepted while one is running")
	}

	s = mustApply(t, s, SeedCancelled{})
	if s.Seeding || s.Busy() {
		t.Error("cancelled seed did not release the flag")
	}
}

func TestSeedFailed(t *testing.T) {
	s := Initial()
	s.Banner = messageBanner(MsgNoPlots)
	s = mustApply(t, s, SeedStarted{})
	if s.Banner.Kind != BannerNone {
		t.Errorf("banner = %+v, want cleared", s.Banner)
	}
	s = mustApply(t, s, SeedFailed{Err: ErrSeedFailed})
	if s.Error() != ErrSeedFailed {
		t.Errorf("error = %q", s.Error())
	}
	if s.Seeding {
		t.Error("seeding still true after failure")
	}
}

func TestFormOpenedResetsForm(t *testing.T) {
	plots := testPlots(2)
	s := mustApply(t, Initial(), FormOpened{Plot: plots[0]})
	s.Form.Name = "Filled In"
	s.Form.Guests = 4

	s = mustApply(t, s, FormOpened{Plot: plots[1]})
	if s.Selected == nil || s.Selected.ID.String() != "2" {
		t.Fatalf("selected = %+v, want plot 2", s.Selected)
	}
	if s.Form != visit.NewForm() {
		t.Errorf("form = %+v, want defaults", s.Form)
	}
}

func TestFormClosed(t *testing.T) {
	s := mustApply(t, Initial(), FormOpened{Plot: testPlots(1)[0]})
	s.Form.Name = "x"
	s = mustApply(t, s, FormClosed{})
	if s.BookingOpen() {
		t.Error("booking still open")
	}
	if s.Form != visit.NewForm() {
		t.Errorf("form = %+v, want defaults", s.Form)
	}
}

func TestSubmitStartedRequiresSelection(t *testing.T) {
	s := Initial()
	next, ok := Apply(s, SubmitStarted{Form: visit.NewForm()})
	if ok {
		t.Error("submit without selection accepted")
	}
	if next.Submitting {
		t.Error("submitting set without selection")
	}
}

func TestSubmitStartedSingleFlight(t *testing.T) {
	s := mustApply(t, Initial(), FormOpened{Plot: testPlots(1)[0]})
	s = mustApply(t, s, SubmitStarted{Form: visit.NewForm()})
	if _, ok := Apply(s, SubmitStarted{Form: visit.NewForm()}); ok {
		t.Error("second submit accepted while in flight")
	}
}

func TestSubmitSucceeded(t *testing.T) {
	s := mustApply(t, Initial(), FormOpened{Plot: testPlots(1)[0]})
	f := visit.NewForm()
	f.Name = "Lee"
	s = mustApply(t, s, SubmitStarted{Form: f})
	if !s.Submitting || s.Form.Name != "Lee" {
		t.Fatalf("status after start = %+v", s)
	}

	s = mustApply(t, s, SubmitSucceeded{})
	if s.Submitting {
		t.Error("submitting still true")
	}
	if s.Selected != nil {
		t.Error("selection not cleared")
	}
	if s.Message() != MsgSubmitted {
		t.Errorf("message = %q", s.Message())
	}
}

func TestSubmitFailedKeepsModal(t *testing.T) {
	p := testPlots(1)[0]
	s := mustApply(t, Initial(), FormOpened{Plot: p})
	f := visit.NewForm()
	f.Phone = "abc"
	s = mustApply(t, s, SubmitStarted{Form: f})
	s = mustApply(t, s, SubmitFailed{Err: "Invalid phone"})

	if s.Error() != "Invalid phone" {
		t.Errorf("error = %q", s.Error())
	}
	if s.Selected == nil || s.Selected.ID.String() != p.ID.String() {
		t.Errorf("selected = %+v, want unchanged", s.Selected)
	}
	if s.Form.Phone != "abc" {
		t.Errorf("form not preserved: %+v", s.Form)
	}
	if s.Submitting {
		t.Error("submitting still true")
	}
}

func TestBannerExclusive(t *testing.T) {
	s := Initial()
	s.Banner = errorBanner("bad")
	if s.Message() != "" {
		t.Error("message visible alongside error")
	}
	s.Banner = messageBanner("good")
	if s.Error() != "" {
		t.Error("error visible alongside message")
	}
}
