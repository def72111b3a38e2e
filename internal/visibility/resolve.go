package visibility

import (
	"time"

	"github.com/broconnector/gmw-map/internal/wells"
)

// ResolvedGLD is a dossier together with the measurement that is current for
// the enabled observation types.
type ResolvedGLD struct {
	GLD                   *wells.GLD `json:"gld"`
	ObservationType       string     `json:"observation_type"`
	Status                string     `json:"status"`
	LatestMeasurementDate *time.Time `json:"latest_measurement_date"`
	LatestObservationID   *int64     `json:"latest_observation_id"`
}

func controlBranch(g *wells.GLD) ResolvedGLD {
	return ResolvedGLD{
		GLD:                   g,
		ObservationType:       deref(g.ObservationTypeControle),
		Status:                deref(g.StatusControle),
		LatestMeasurementDate: g.LatestMeasurementDateControle,
		LatestObservationID:   g.LatestObservationIDControle,
	}
}

func regularBranch(g *wells.GLD) ResolvedGLD {
	return ResolvedGLD{
		GLD:                   g,
		ObservationType:       deref(g.ObservationTypeRegular),
		Status:                deref(g.StatusRegular),
		LatestMeasurementDate: g.LatestMeasurementDateRegular,
		LatestObservationID:   g.LatestObservationIDRegular,
	}
}

// Resolve picks the control or regular measurement of a dossier. With both
// types enabled the most recent measurement wins, control on a tie.
func Resolve(g *wells.GLD, t TypeFilter) ResolvedGLD {
	switch {
	case t.Control && t.Regular:
		c, r := g.LatestMeasurementDateControle, g.LatestMeasurementDateRegular
		switch {
		case c != nil && r != nil:
			if c.Before(*r) {
				return regularBranch(g)
			}
			return controlBranch(g)
		case c != nil:
			return controlBranch(g)
		case r != nil:
			return regularBranch(g)
		}
		return ResolvedGLD{GLD: g}
	case t.Control:
		return controlBranch(g)
	case t.Regular:
		return regularBranch(g)
	}
	return ResolvedGLD{GLD: g}
}

// ResolveAll resolves every dossier, keeping the input order.
func ResolveAll(glds []*wells.GLD, t TypeFilter) []ResolvedGLD {
	out := make([]ResolvedGLD, len(glds))
	for i, g := range glds {
		out[i] = Resolve(g, t)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
