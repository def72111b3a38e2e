package wells

import (
	"slices"
	"sort"
)

// Dataset is an immutable in-memory snapshot of everything a map page needs.
type Dataset struct {
	Wells         []*Well
	Organisations []*Organisation

	glds     []*GLD
	wellByID map[int64]*Well
	gldByID  map[int64]*GLD
	orgByID  map[int64]*Organisation
}

func NewDataset(wells []Well, glds []GLD, orgs []Organisation) *Dataset {
	ds := &Dataset{
		Wells:         make([]*Well, 0, len(wells)),
		Organisations: make([]*Organisation, 0, len(orgs)),
		glds:          make([]*GLD, 0, len(glds)),
		wellByID:      make(map[int64]*Well, len(wells)),
		gldByID:       make(map[int64]*GLD, len(glds)),
		orgByID:       make(map[int64]*Organisation, len(orgs)),
	}
	for i := range wells {
		w := &wells[i]
		ds.Wells = append(ds.Wells, w)
		ds.wellByID[w.ID] = w
	}
	for i := range glds {
		g := &glds[i]
		ds.glds = append(ds.glds, g)
		ds.gldByID[g.ID] = g
	}
	for i := range orgs {
		o := &orgs[i]
		ds.Organisations = append(ds.Organisations, o)
		ds.orgByID[o.ID] = o
	}
	return ds
}

func (d *Dataset) Well(id int64) (*Well, bool) {
	w, ok := d.wellByID[id]
	return w, ok
}

func (d *Dataset) GLD(id int64) (*GLD, bool) {
	g, ok := d.gldByID[id]
	return g, ok
}

func (d *Dataset) Organisation(id int64) (*Organisation, bool) {
	o, ok := d.orgByID[id]
	return o, ok
}

// GLDs returns every dossier in the snapshot.
func (d *Dataset) GLDs() []*GLD { return d.glds }

// GLDsOf returns the dossiers linked to a well ordered by tube number.
// Ids that are not part of the snapshot are skipped.
func (d *Dataset) GLDsOf(w *Well) []*GLD {
	out := make([]*GLD, 0, len(w.GLDs))
	for _, id := range w.GLDs {
		if g, ok := d.gldByID[id]; ok {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TubeNumber < out[j].TubeNumber })
	return out
}

// GMNs is the sorted set of monitoring network names linked to any well.
func (d *Dataset) GMNs() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, w := range d.Wells {
		for _, g := range w.LinkedGMNs {
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			out = append(out, g)
		}
	}
	slices.Sort(out)
	return out
}

// OrganisationIDs lists the ids of all organisations in the snapshot.
func (d *Dataset) OrganisationIDs() []int64 {
	ids := make([]int64, 0, len(d.Organisations))
	for _, o := range d.Organisations {
		ids = append(ids, o.ID)
	}
	return ids
}

// Restrict returns a snapshot holding only the given wells together with the
// dossiers and organisations those wells reference.
func (d *Dataset) Restrict(ids []int64) *Dataset {
	keep := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}
	out := &Dataset{
		wellByID: make(map[int64]*Well, len(ids)),
		gldByID:  map[int64]*GLD{},
		orgByID:  map[int64]*Organisation{},
	}
	for _, w := range d.Wells {
		if _, ok := keep[w.ID]; !ok {
			continue
		}
		out.Wells = append(out.Wells, w)
		out.wellByID[w.ID] = w
		for _, id := range w.GLDs {
			if g, ok := d.gldByID[id]; ok {
				out.gldByID[id] = g
			}
		}
		if o, ok := d.orgByID[w.DeliveryAccountableParty]; ok {
			out.orgByID[o.ID] = o
		}
	}
	for _, g := range d.glds {
		if _, ok := out.gldByID[g.ID]; ok {
			out.glds = append(out.glds, g)
		}
	}
	for _, o := range d.Organisations {
		if _, ok := out.orgByID[o.ID]; ok {
			out.Organisations = append(out.Organisations, o)
		}
	}
	return out
}
