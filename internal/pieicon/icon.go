// Package pieicon draws the marker icons of the validation map: a pie with one
// slice per visible dossier, coloured by how recently it was measured.
package pieicon

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/broconnector/gmw-map/internal/recency"
	"github.com/broconnector/gmw-map/internal/visibility"
	"github.com/broconnector/gmw-map/internal/wells"
)

// DefaultSize is the edge length of an icon in pixels.
const DefaultSize = 64

// MinSize and MaxSize bound the sizes served over HTTP.
const (
	MinSize = 8
	MaxSize = 2 * DefaultSize
)

// MaxSlices bounds the slices a key may describe. No well has this many tubes.
const MaxSlices = 32

var ErrInvalidKey = errors.New("invalid icon key")

// Slice is one dossier in the pie. Control slices are hatched.
type Slice struct {
	Color   color.RGBA
	Control bool
}

// Icon describes what to draw. Empty wells (no dossiers at all) get a ring
// glyph instead of a pie.
type Icon struct {
	Empty  bool
	Slices []Slice
}

const (
	emptyKey = "empty"
	noneKey  = "none"
)

// Key is a URL-safe signature of the icon content. Equal keys render to
// identical images.
func (i Icon) Key() string {
	if i.Empty {
		return emptyKey
	}
	if len(i.Slices) == 0 {
		return noneKey
	}
	parts := make([]string, len(i.Slices))
	for n, s := range i.Slices {
		parts[n] = fmt.Sprintf("%02x%02x%02x", s.Color.R, s.Color.G, s.Color.B)
		if s.Control {
			parts[n] += "h"
		}
	}
	return strings.Join(parts, "_")
}

// ParseKey is the inverse of Key.
func ParseKey(key string) (Icon, error) {
	switch key {
	case emptyKey:
		return Icon{Empty: true}, nil
	case noneKey:
		return Icon{}, nil
	case "":
		return Icon{}, ErrInvalidKey
	}
	if strings.Count(key, "_") >= MaxSlices {
		return Icon{}, fmt.Errorf("%w: more than %d slices", ErrInvalidKey, MaxSlices)
	}
	parts := strings.Split(key, "_")
	icon := Icon{Slices: make([]Slice, 0, len(parts))}
	for _, p := range parts {
		control := strings.HasSuffix(p, "h")
		p = strings.TrimSuffix(p, "h")
		c, err := wells.ParseHexColor("#" + p)
		if err != nil {
			return Icon{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
		icon.Slices = append(icon.Slices, Slice{Color: c, Control: control})
	}
	return icon, nil
}

// ForWell builds the icon for a well under the given filters.
func ForWell(ds *wells.Dataset, w *wells.Well, f visibility.Filters, policy recency.Policy, now time.Time) Icon {
	if len(w.GLDs) == 0 {
		return Icon{Empty: true}
	}
	glds := visibility.WellGLDs(ds, w, f)
	icon := Icon{Slices: make([]Slice, 0, len(glds))}
	for _, g := range glds {
		icon.Slices = append(icon.Slices, Slice{
			Color:   policy.Color(g.ObservationType, g.LatestMeasurementDate, now).RGBA(),
			Control: g.ObservationType == wells.ObservationControl,
		})
	}
	return icon
}
