// Package visibility decides which wells and dossiers a map page shows for a
// given set of checkbox filters. Every function is a pure projection of the
// dataset; nothing in the dataset is modified.
package visibility

import (
	"encoding/json"
	"fmt"
)

// TriState is a well-value checkbox: unset (indeterminate), yes or no.
type TriState int8

const (
	Unset TriState = iota
	Yes
	No
)

// Next is the state after one click: unset -> yes -> no -> unset.
func (t TriState) Next() TriState {
	switch t {
	case Unset:
		return Yes
	case Yes:
		return No
	default:
		return Unset
	}
}

// Admits reports whether a well attribute passes this checkbox.
func (t TriState) Admits(v bool) bool {
	switch t {
	case Yes:
		return v
	case No:
		return !v
	default:
		return true
	}
}

func (t TriState) MarshalJSON() ([]byte, error) {
	switch t {
	case Yes:
		return []byte("true"), nil
	case No:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

func (t *TriState) UnmarshalJSON(b []byte) error {
	var v *bool
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("tri-state must be true, false or null: %w", err)
	}
	switch {
	case v == nil:
		*t = Unset
	case *v:
		*t = Yes
	default:
		*t = No
	}
	return nil
}

// TypeFilter enables dossiers per observation type.
type TypeFilter struct {
	NoObservation bool `json:"no_obs"`
	Control       bool `json:"controle"`
	Regular       bool `json:"regular"`
}

// StatusFilter enables dossiers per validation status.
type StatusFilter struct {
	NoStatus  bool `json:"no_status"`
	Validated bool `json:"validated"`
	Tentative bool `json:"tentative"`
	Unknown   bool `json:"unknown"`
}

// Filters is the full checkbox state of a map page. Organisations and GMNs
// missing from their maps count as visible.
type Filters struct {
	Organisations map[int64]bool      `json:"organisations"`
	GMNs          map[string]bool     `json:"gmns"`
	NoLinkedGMN   bool                `json:"no_linked_gmn"`
	WellValues    map[string]TriState `json:"well_values"`
	Types         TypeFilter          `json:"type"`
	Statuses      StatusFilter        `json:"status"`
	NoGLDs        bool                `json:"no_glds"`
}

// DefaultFilters has every checkbox on and every well value indeterminate.
func DefaultFilters() Filters {
	return Filters{
		Organisations: map[int64]bool{},
		GMNs:          map[string]bool{},
		NoLinkedGMN:   true,
		WellValues:    map[string]TriState{},
		Types:         TypeFilter{NoObservation: true, Control: true, Regular: true},
		Statuses:      StatusFilter{NoStatus: true, Validated: true, Tentative: true, Unknown: true},
		NoGLDs:        true,
	}
}

// ToggleAllTypes turns every type filter on if any is off, otherwise turns
// them all off.
func (f Filters) ToggleAllTypes() Filters {
	t := f.Types
	on := !t.NoObservation || !t.Control || !t.Regular
	f.Types = TypeFilter{NoObservation: on, Control: on, Regular: on}
	return f
}

// ToggleAllStatuses is ToggleAllTypes for the validation statuses.
func (f Filters) ToggleAllStatuses() Filters {
	s := f.Statuses
	on := !s.NoStatus || !s.Validated || !s.Tentative || !s.Unknown
	f.Statuses = StatusFilter{NoStatus: on, Validated: on, Tentative: on, Unknown: on}
	return f
}

// CycleWellValue advances the tri-state checkbox for key and returns the new filters.
func (f Filters) CycleWellValue(key string) Filters {
	next := make(map[string]TriState, len(f.WellValues)+1)
	for k, v := range f.WellValues {
		next[k] = v
	}
	next[key] = next[key].Next()
	f.WellValues = next
	return f
}

func (f Filters) organisationVisible(id int64) bool {
	v, ok := f.Organisations[id]
	return !ok || v
}

func (f Filters) gmnVisible(name string) bool {
	v, ok := f.GMNs[name]
	return !ok || v
}
