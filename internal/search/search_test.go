package search_test

import (
	"errors"
	"testing"

	"github.com/broconnector/gmw-map/internal/search"
	"github.com/broconnector/gmw-map/internal/wells"
)

func dataset() *wells.Dataset {
	return wells.NewDataset([]wells.Well{
		{ID: 1, WellCode: "ZLD-Kapelle-01", BroID: "GMW000000000001"},
		{ID: 2, WellCode: "ZLD-Goes-02", BroID: "GMW000000000002", NitgCode: "B48A0100"},
		{ID: 3, BroID: "GMW000000000003"},
	}, nil, nil)
}

func all(*wells.Well) bool { return true }

func ids(opts []search.Option) []int64 {
	out := make([]int64, len(opts))
	for i, o := range opts {
		out[i] = o.WellID
	}
	return out
}

func TestMatchIsCaseInsensitive(t *testing.T) {
	idx := search.NewIndex(dataset())

	got := ids(idx.Match("kapelle", all))
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("expected well 1, got %v", got)
	}
	got = ids(idx.Match("b48a", all))
	if len(got) != 1 || got[0] != 2 {
		t.Errorf("expected a match on the NITG code, got %v", got)
	}
	got = ids(idx.Match("GMW0000", all))
	if len(got) != 3 {
		t.Errorf("expected every well, got %v", got)
	}
}

func TestMatchRequiresVisibility(t *testing.T) {
	idx := search.NewIndex(dataset())
	hideTwo := func(w *wells.Well) bool { return w.ID != 2 }

	if got := idx.Match("goes", hideTwo); len(got) != 0 {
		t.Errorf("hidden wells must not match, got %v", ids(got))
	}
	got := ids(idx.Match("", hideTwo))
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("an empty query should restore every visible option, got %v", got)
	}
}

func TestMatchKeepsWhitespace(t *testing.T) {
	idx := search.NewIndex(dataset())

	got := ids(idx.Match(" ", all))
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("a space should only match keywords containing one, got %v", got)
	}
	if got := idx.Match("kapelle ", all); len(got) != 0 {
		t.Errorf("trailing space must not be dropped, got %v", ids(got))
	}
}

func TestOptionKeyword(t *testing.T) {
	idx := search.NewIndex(dataset())
	opts := idx.Match("", all)
	if opts[0].Keyword != "ZLD-Kapelle-01 GMW000000000001" {
		t.Errorf("unexpected keyword %q", opts[0].Keyword)
	}
	if opts[2].Label != "GMW000000000003" {
		t.Errorf("expected BRO id label, got %q", opts[2].Label)
	}
}

func TestSelect(t *testing.T) {
	idx := search.NewIndex(dataset())
	w, err := idx.Select(2)
	if err != nil || w.WellCode != "ZLD-Goes-02" {
		t.Errorf("unexpected selection %v, %v", w, err)
	}
	if _, err := idx.Select(99); !errors.Is(err, wells.ErrWellNotFound) {
		t.Errorf("expected ErrWellNotFound, got %v", err)
	}
}
