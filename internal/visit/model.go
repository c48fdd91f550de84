// Package visit provides the visit booking form and the visit request payload.
package visit

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/evcraddock/plot-visits/internal/plot"
)

// Guest limits enforced by the form's number input.
const (
	MinGuests     = 1
	MaxGuests     = 10
	DefaultGuests = 1
)

// BookingForm holds the fields a visitor fills in to book a plot visit.
// The validate tags mirror the form's HTML5 attributes.
type BookingForm struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone" validate:"required"`
	PreferredDate string `json:"preferred_date" validate:"required,datetime=2006-01-02"`
	PreferredTime string `json:"preferred_time" validate:"required,datetime=15:04"`
	Guests        int    `json:"guests" validate:"min=1,max=10"`
	Notes         string `json:"notes"`
}

// NewForm returns an empty form with default guests.
func NewForm() BookingForm {
	return BookingForm{Guests: DefaultGuests}
}

// FormFromValues decodes a submitted HTML form. The browser enforces
// required fields and the guests range; a missing or non-numeric guests
// value falls back to the default.
func FormFromValues(v url.Values) BookingForm {
	f := BookingForm{
		Name:          strings.TrimSpace(v.Get("name")),
		Email:         strings.TrimSpace(v.Get("email")),
		Phone:         strings.TrimSpace(v.Get("phone")),
		PreferredDate: v.Get("preferred_date"),
		PreferredTime: v.Get("preferred_time"),
		Guests:        DefaultGuests,
		Notes:         v.Get("notes"),
	}
	if n, err := strconv.Atoi(strings.TrimSpace(v.Get("guests"))); err == nil {
		f.Guests = n
	}
	return f
}

var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return v
}()

// Validate applies the same rules the browser enforces on the HTML form.
// It is for callers without a browser, such as the CLI.
func (f BookingForm) Validate() error {
	err := validate.Struct(f)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", fe.Field())
	case "email":
		return fmt.Errorf("%s must be an email address", fe.Field())
	case "datetime":
		return fmt.Errorf("%s must be formatted as %s", fe.Field(), layoutHint(fe.Param()))
	case "min", "max":
		return fmt.Errorf("%s must be between %d and %d", fe.Field(), MinGuests, MaxGuests)
	}
	return fmt.Errorf("%s is invalid", fe.Field())
}

func layoutHint(layout string) string {
	switch layout {
	case "2006-01-02":
		return "YYYY-MM-DD"
	case "15:04":
		return "HH:MM"
	}
	return layout
}

// Request is the payload sent to POST /api/visit-requests.
type Request struct {
	PlotID        plot.ID `json:"plot_id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	PreferredDate string  `json:"preferred_date"`
	PreferredTime string  `json:"preferred_time"`
	Guests        int     `json:"guests"`
	Notes         string  `json:"notes"`
}

// NewRequest builds the payload for the given plot from a filled-in form.
func NewRequest(id plot.ID, f BookingForm) Request {
	return Request{
		PlotID:        id,
		Name:          f.Name,
		Email:         f.Email,
		Phone:         f.Phone,
		PreferredDate: f.PreferredDate,
		PreferredTime: f.PreferredTime,
		Guests:        f.Guests,
		Notes:         f.Notes,
	}
}
