// Package state holds the client status shown by the web UI and the
// transitions that change it.
package state

import (
	"github.com/evcraddock/plot-visits/internal/plot"
	"github.com/evcraddock/plot-visits/internal/visit"
)

// Banner texts.
const (
	MsgNoPlots    = "No plots found. You can load sample plots below."
	MsgSeeded     = "Loaded sample plots"
	MsgSubmitted  = "Your visit request has been submitted! We will contact you shortly."
	ErrSeedFailed = "Seeding failed"
	ErrSubmit     = "Failed to create visit request"
)

// BannerKind distinguishes error banners from informational ones.
type BannerKind int

const (
	BannerNone BannerKind = iota
	BannerError
	BannerMessage
)

// Banner is the single alert shown above the plot grid. Holding one banner
// keeps error and message mutually exclusive.
type Banner struct {
	Kind BannerKind
	Text string
}

func errorBanner(text string) Banner {
	if text == "" {
		return Banner{}
	}
	return Banner{Kind: BannerError, Text: text}
}

func messageBanner(text string) Banner {
	if text == "" {
		return Banner{}
	}
	return Banner{Kind: BannerMessage, Text: text}
}

// Status is everything the UI renders.
type Status struct {
	Loading    bool
	Seeding    bool
	Submitting bool
	Plots      []plot.Plot
	Selected   *plot.Plot
	Form       visit.BookingForm
	Banner     Banner

	// latestLoad is the token of the most recently started load.
	latestLoad uint64
}

// Initial returns the status of a freshly mounted client. Loading starts
// true because a load is issued on mount.
func Initial() Status {
	return Status{Loading: true, Plots: []plot.Plot{}, Form: visit.NewForm()}
}

// Error returns the error banner text, if any.
func (s Status) Error() string {
	if s.Banner.Kind == BannerError {
		return s.Banner.Text
	}
	return ""
}

// Message returns the informational banner text, if any.
func (s Status) Message() string {
	if s.Banner.Kind == BannerMessage {
		return s.Banner.Text
	}
	return ""
}

// BookingOpen reports whether the booking modal is shown.
func (s Status) BookingOpen() bool {
	return s.Selected != nil
}

// Busy reports whether any request is in flight.
func (s Status) Busy() bool {
	return s.Loading || s.Seeding || s.Submitting
}

// CanSeed reports whether the seed action is offered.
func (s Status) CanSeed() bool {
	return len(s.Plots) == 0
}
