// Package search backs the well search box on the map pages.
package search

import (
	"strings"

	"github.com/broconnector/gmw-map/internal/wells"
	"golang.org/x/text/cases"
)

// Option is one entry in the search dropdown.
type Option struct {
	WellID  int64  `json:"id"`
	Label   string `json:"label"`
	Keyword string `json:"keyword"`

	folded string
	well   *wells.Well
}

// Index holds the precomputed options of a dataset.
type Index struct {
	options []Option
	byID    map[int64]*wells.Well
	fold    cases.Caser
}

// BuildOptions creates one option per well. Its keyword joins the label and
// the well's identifiers.
func BuildOptions(ds *wells.Dataset) []Option {
	fold := cases.Fold()
	opts := make([]Option, 0, len(ds.Wells))
	for _, w := range ds.Wells {
		keyword := strings.Join(nonEmpty(w.Label(), w.WellCode, w.BroID, w.NitgCode), " ")
		opts = append(opts, Option{
			WellID:  w.ID,
			Label:   w.Label(),
			Keyword: keyword,
			folded:  fold.String(keyword),
			well:    w,
		})
	}
	return opts
}

func NewIndex(ds *wells.Dataset) *Index {
	idx := &Index{
		options: BuildOptions(ds),
		byID:    make(map[int64]*wells.Well, len(ds.Wells)),
		fold:    cases.Fold(),
	}
	for _, w := range ds.Wells {
		idx.byID[w.ID] = w
	}
	return idx
}

// Match returns the options whose well is visible and whose keyword contains
// the query as typed, ignoring case. An empty query matches every visible well.
func (idx *Index) Match(query string, visible func(*wells.Well) bool) []Option {
	q := idx.fold.String(query)
	out := make([]Option, 0, len(idx.options))
	for _, o := range idx.options {
		if !visible(o.well) {
			continue
		}
		if q != "" && !strings.Contains(o.folded, q) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// Select returns the well behind an option.
func (idx *Index) Select(id int64) (*wells.Well, error) {
	w, ok := idx.byID[id]
	if !ok {
		return nil, wells.ErrWellNotFound
	}
	return w, nil
}

func nonEmpty(values ...string) []string {
	out := values[:0]
	seen := map[string]struct{}{}
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
