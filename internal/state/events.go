package state

import (
	"github.com/evcraddock/plot-visits/internal/plot"
	"github.com/evcraddock/plot-visits/internal/visit"
)

// Event is a state transition. Events are applied with Apply.
type Event interface {
	apply(s Status) (Status, bool)
}

// Apply returns the status after e, and whether e was accepted.
// A rejected event leaves the status untouched.
func Apply(s Status, e Event) (Status, bool) {
	if e == nil {
		return s, false
	}
	return e.apply(s)
}

// LoadStarted begins a plot load and issues the next load token.
type LoadStarted struct{}

func (LoadStarted) apply(s Status) (Status, bool) {
	s.latestLoad++
	s.Loading = true
	if s.Banner.Kind == BannerError {
		s.Banner = Banner{}
	}
	return s, true
}

// LoadSucceeded replaces the plot list. Stale tokens are ignored.
type LoadSucceeded struct {
	Token uint64
	Plots []plot.Plot
}

func (e LoadSucceeded) apply(s Status) (Status, bool) {
	if e.Token != s.latestLoad {
		return s, false
	}
	s.Loading = false
	s.Plots = e.Plots
	if s.Plots == nil {
		s.Plots = []plot.Plot{}
	}
	if len(s.Plots) == 0 {
		s.Banner = messageBanner(MsgNoPlots)
	} else {
		s.Banner = Banner{}
	}
	return s, true
}

// LoadFailed reports a failed load. Plots are left as they were.
type LoadFailed struct {
	Token uint64
	Err   string
}

func (e LoadFailed) apply(s Status) (Status, bool) {
	if e.Token != s.latestLoad {
		return s, false
	}
	s.Loading = false
	s.Banner = errorBanner(e.Err)
	return s, true
}

// LoadCancelled releases the loading flag of a cancelled load.
type LoadCancelled struct {
	Token uint64
}

func (e LoadCancelled) apply(s Status) (Status, bool) {
	if e.Token != s.latestLoad {
		return s, false
	}
	s.Loading = false
	return s, true
}

// SeedStarted marks a seed in flight and clears the banner. It is
// rejected while another seed is running.
type SeedStarted struct{}

func (SeedStarted) apply(s Status) (Status, bool) {
	if s.Seeding {
		return s, false
	}
	s.Seeding = true
	s.Banner = Banner{}
	return s, true
}

// SeedFailed reports a failed seed request.
type SeedFailed struct {
	Err string
}

func (e SeedFailed) apply(s Status) (Status, bool) {
	s.Seeding = false
	s.Banner = errorBanner(e.Err)
	return s, true
}

// SeedSucceeded confirms seeding after the follow-up load. The confirmation
// replaces whatever banner the load left, error included.
type SeedSucceeded struct{}

func (SeedSucceeded) apply(s Status) (Status, bool) {
	s.Seeding = false
	s.Banner = messageBanner(MsgSeeded)
	return s, true
}

// SeedCancelled releases the seeding flag of a cancelled seed.
type SeedCancelled struct{}

func (SeedCancelled) apply(s Status) (Status, bool) {
	s.Seeding = false
	return s, true
}

// FormOpened selects a plot and resets the booking form.
type FormOpened struct {
	Plot plot.Plot
}

func (e FormOpened) apply(s Status) (Status, bool) {
	p := e.Plot
	s.Selected = &p
	s.Form = visit.NewForm()
	return s, true
}

// FormClosed clears the selection and discards the form.
type FormClosed struct{}

func (FormClosed) apply(s Status) (Status, bool) {
	s.Selected = nil
	s.Form = visit.NewForm()
	return s, true
}

// SubmitStarted records the submitted form and marks the request in flight.
// It is rejected when no plot is selected or a submit is already running.
type SubmitStarted struct {
	Form visit.BookingForm
}

func (e SubmitStarted) apply(s Status) (Status, bool) {
	if s.Selected == nil || s.Submitting {
		return s, false
	}
	s.Submitting = true
	s.Banner = Banner{}
	s.Form = e.Form
	return s, true
}

// SubmitSucceeded confirms the request and closes the booking modal.
type SubmitSucceeded struct{}

func (SubmitSucceeded) apply(s Status) (Status, bool) {
	s.Submitting = false
	s.Banner = messageBanner(MsgSubmitted)
	s.Selected = nil
	s.Form = visit.NewForm()
	return s, true
}

// SubmitFailed reports a failed submit. The modal stays open.
type SubmitFailed struct {
	Err string
}

func (e SubmitFailed) apply(s Status) (Status, bool) {
	s.Submitting = false
	s.Banner = errorBanner(e.Err)
	return s, true
}

// SubmitCancelled releases the submitting flag of a cancelled submit.
type SubmitCancelled struct{}

func (SubmitCancelled) apply(s Status) (Status, bool) {
	s.Submitting = false
	return s, true
}
