package visibility

import (
	"github.com/broconnector/gmw-map/internal/wells"
)

// FilterByType drops dossiers whose resolved observation type is disabled.
func FilterByType(glds []ResolvedGLD, t TypeFilter) []ResolvedGLD {
	out := make([]ResolvedGLD, 0, len(glds))
	for _, g := range glds {
		switch g.ObservationType {
		case "":
			if !t.NoObservation {
				continue
			}
		case wells.ObservationControl:
			if !t.Control {
				continue
			}
		case wells.ObservationRegular:
			if !t.Regular {
				continue
			}
		}
		out = append(out, g)
	}
	return out
}

// FilterByStatus drops dossiers whose resolved validation status is disabled.
func FilterByStatus(glds []ResolvedGLD, s StatusFilter) []ResolvedGLD {
	out := make([]ResolvedGLD, 0, len(glds))
	for _, g := range glds {
		switch g.Status {
		case "":
			if !s.NoStatus {
				continue
			}
		case wells.StatusValidated:
			if !s.Validated {
				continue
			}
		case wells.StatusTentative:
			if !s.Tentative {
				continue
			}
		case wells.StatusUnknown:
			if !s.Unknown {
				continue
			}
		}
		out = append(out, g)
	}
	return out
}

// FilterGLDs applies the type filters and then, if anything is left, the
// status filters.
func FilterGLDs(glds []ResolvedGLD, f Filters) []ResolvedGLD {
	glds = FilterByType(glds, f.Types)
	if len(glds) == 0 {
		return glds
	}
	return FilterByStatus(glds, f.Statuses)
}

// WellGLDs is the list of dossiers a well displays under f, by tube number.
func WellGLDs(ds *wells.Dataset, w *wells.Well, f Filters) []ResolvedGLD {
	return FilterGLDs(ResolveAll(ds.GLDsOf(w), f.Types), f)
}

// Dimensions selects the filter checks a page applies.
type Dimensions struct {
	Organisation bool `yaml:"organisation" json:"organisation"`
	GMN          bool `yaml:"gmn" json:"gmn"`
	WellValue    bool `yaml:"well_value" json:"well_value"`
	GLD          bool `yaml:"gld" json:"gld"`
}

// AllDimensions applies every check.
var AllDimensions = Dimensions{Organisation: true, GMN: true, WellValue: true, GLD: true}

type Engine struct {
	Dims Dimensions
}

func NewEngine(dims Dimensions) Engine {
	return Engine{Dims: dims}
}

// WellIsShown reports whether a well passes every active filter dimension.
func (e Engine) WellIsShown(ds *wells.Dataset, w *wells.Well, f Filters) bool {
	if e.Dims.Organisation && !f.organisationVisible(w.DeliveryAccountableParty) {
		return false
	}
	if e.Dims.GMN && !gmnShown(w, f) {
		return false
	}
	if e.Dims.WellValue {
		for key, state := range f.WellValues {
			v, known := w.Value(key)
			if known && !state.Admits(v) {
				return false
			}
		}
	}
	if e.Dims.GLD {
		if len(w.GLDs) == 0 {
			return f.NoGLDs
		}
		return len(WellGLDs(ds, w, f)) > 0
	}
	return true
}

// VisibleWells returns the shown wells in dataset order.
func (e Engine) VisibleWells(ds *wells.Dataset, f Filters) []*wells.Well {
	var out []*wells.Well
	for _, w := range ds.Wells {
		if e.WellIsShown(ds, w, f) {
			out = append(out, w)
		}
	}
	return out
}

func gmnShown(w *wells.Well, f Filters) bool {
	if len(w.LinkedGMNs) == 0 {
		return f.NoLinkedGMN
	}
	for _, g := range w.LinkedGMNs {
		if f.gmnVisible(g) {
			return true
		}
	}
	return false
}
