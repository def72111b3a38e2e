// Package recency colours a dossier by how long ago it was last measured.
package recency

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/broconnector/gmw-map/internal/wells"
)

var ErrUnknownPolicy = errors.New("unknown recency policy")

// Color is a recency class rendered as a hex colour.
type Color string

const (
	Fresh   Color = "#4CAF50"
	Warning Color = "#FFC107"
	Stale   Color = "#F44336"
	Neutral Color = "#9E9E9E"
)

// RGBA converts the class to an opaque colour.
func (c Color) RGBA() color.RGBA {
	rgba, err := wells.ParseHexColor(string(c))
	if err != nil {
		return color.RGBA{R: 158, G: 158, B: 158, A: 255}
	}
	return rgba
}

const (
	year  = 365 * 24 * time.Hour
	month = year / 12
)

// Policy maps an observation type and measurement date to a colour.
type Policy interface {
	Name() string
	Color(observationType string, measured *time.Time, now time.Time) Color
}

// MonthlyByType uses shorter windows for regular measurements than for
// control measurements.
type MonthlyByType struct{}

func (MonthlyByType) Name() string { return "monthly_by_type" }

func (MonthlyByType) Color(observationType string, measured *time.Time, now time.Time) Color {
	if measured == nil {
		return Neutral
	}
	age := now.Sub(*measured)
	switch observationType {
	case wells.ObservationControl:
		return classify(age, 2*month, 6*month)
	case wells.ObservationRegular:
		return classify(age, month, 2*month)
	}
	return Neutral
}

// YearlyFixed ignores the observation type and uses one and two year windows.
type YearlyFixed struct{}

func (YearlyFixed) Name() string { return "yearly_fixed" }

func (YearlyFixed) Color(_ string, measured *time.Time, now time.Time) Color {
	if measured == nil {
		return Neutral
	}
	return classify(now.Sub(*measured), year, 2*year)
}

func classify(age, fresh, warning time.Duration) Color {
	switch {
	case age <= fresh:
		return Fresh
	case age <= warning:
		return Warning
	default:
		return Stale
	}
}

// ByName returns the policy registered under name. An empty name selects
// MonthlyByType.
func ByName(name string) (Policy, error) {
	switch name {
	case "", MonthlyByType{}.Name():
		return MonthlyByType{}, nil
	case YearlyFixed{}.Name():
		return YearlyFixed{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}
