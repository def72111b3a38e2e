package visibility_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/broconnector/gmw-map/internal/visibility"
	"github.com/broconnector/gmw-map/internal/wells"
)

var now = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func daysAgo(d int) *time.Time { return ptr(now.AddDate(0, 0, -d)) }

func regularGLD(id int64, tube int, status string, measured *time.Time) wells.GLD {
	return wells.GLD{
		ID:                           id,
		TubeNumber:                   tube,
		LatestMeasurementDateRegular: measured,
		ObservationTypeRegular:       ptr(wells.ObservationRegular),
		StatusRegular:                ptr(status),
		LatestObservationIDRegular:   ptr(id * 100),
	}
}

func controlGLD(id int64, tube int, status string, measured *time.Time) wells.GLD {
	return wells.GLD{
		ID:                            id,
		TubeNumber:                    tube,
		LatestMeasurementDateControle: measured,
		ObservationTypeControle:       ptr(wells.ObservationControl),
		StatusControle:                ptr(status),
		LatestObservationIDControle:   ptr(id*100 + 1),
	}
}

func TestResolvePicksLatestWhenBothTypesEnabled(t *testing.T) {
	g := &wells.GLD{
		ID:                            1,
		LatestMeasurementDateControle: daysAgo(3),
		LatestMeasurementDateRegular:  daysAgo(20),
		ObservationTypeControle:       ptr(wells.ObservationControl),
		ObservationTypeRegular:        ptr(wells.ObservationRegular),
		StatusControle:                ptr(wells.StatusUnknown),
		StatusRegular:                 ptr(wells.StatusValidated),
		LatestObservationIDControle:   ptr(int64(11)),
		LatestObservationIDRegular:    ptr(int64(22)),
	}
	both := visibility.TypeFilter{NoObservation: true, Control: true, Regular: true}

	got := visibility.Resolve(g, both)
	if got.ObservationType != wells.ObservationControl || got.Status != wells.StatusUnknown || *got.LatestObservationID != 11 {
		t.Errorf("expected the control measurement to win, got %+v", got)
	}
	if !got.LatestMeasurementDate.Equal(*g.LatestMeasurementDateControle) {
		t.Errorf("expected control date, got %v", got.LatestMeasurementDate)
	}

	g.LatestMeasurementDateRegular = daysAgo(1)
	got = visibility.Resolve(g, both)
	if got.ObservationType != wells.ObservationRegular || got.Status != wells.StatusValidated || *got.LatestObservationID != 22 {
		t.Errorf("expected the regular measurement to win, got %+v", got)
	}

	g.LatestMeasurementDateRegular = g.LatestMeasurementDateControle
	got = visibility.Resolve(g, both)
	if got.ObservationType != wells.ObservationControl {
		t.Errorf("expected control to win a tie, got %q", got.ObservationType)
	}
}

func TestResolveSingleAndNoType(t *testing.T) {
	g := &wells.GLD{
		LatestMeasurementDateRegular: daysAgo(5),
		ObservationTypeRegular:       ptr(wells.ObservationRegular),
		StatusRegular:                ptr(wells.StatusTentative),
	}

	onlyControl := visibility.Resolve(g, visibility.TypeFilter{Control: true})
	if onlyControl.ObservationType != "" || onlyControl.LatestMeasurementDate != nil {
		t.Errorf("control-only view of a regular dossier should be empty, got %+v", onlyControl)
	}

	onlyRegular := visibility.Resolve(g, visibility.TypeFilter{Regular: true})
	if onlyRegular.Status != wells.StatusTentative {
		t.Errorf("expected tentative status, got %q", onlyRegular.Status)
	}

	neither := visibility.Resolve(g, visibility.TypeFilter{NoObservation: true})
	if neither.ObservationType != "" || neither.Status != "" || neither.LatestMeasurementDate != nil || neither.LatestObservationID != nil {
		t.Errorf("expected null fields, got %+v", neither)
	}
	if neither.GLD != g {
		t.Error("resolved dossier should point back to its source")
	}
}

func TestResolveDoesNotMutate(t *testing.T) {
	g := regularGLD(1, 1, wells.StatusValidated, daysAgo(2))
	before := g
	visibility.Resolve(&g, visibility.TypeFilter{Control: true})
	visibility.Resolve(&g, visibility.TypeFilter{Regular: true, Control: true})
	if g.LatestMeasurementDateRegular != before.LatestMeasurementDateRegular || g.StatusRegular != before.StatusRegular {
		t.Error("Resolve modified the dossier")
	}
}

func TestStatusFilterOnlyRunsWhenTypesLeaveSomething(t *testing.T) {
	resolved := []visibility.ResolvedGLD{
		{ObservationType: wells.ObservationControl, Status: wells.StatusUnknown},
	}
	f := visibility.DefaultFilters()
	f.Types.Control = false

	if got := visibility.FilterGLDs(resolved, f); len(got) != 0 {
		t.Errorf("expected nothing after type filtering, got %d", len(got))
	}

	f = visibility.DefaultFilters()
	f.Statuses.Unknown = false
	if got := visibility.FilterGLDs(resolved, f); len(got) != 0 {
		t.Errorf("expected the unknown status to be filtered, got %d", len(got))
	}
}

func TestFilterByTypeHandlesMissingObservation(t *testing.T) {
	resolved := []visibility.ResolvedGLD{
		{ObservationType: ""},
		{ObservationType: wells.ObservationRegular},
	}
	got := visibility.FilterByType(resolved, visibility.TypeFilter{Regular: true, Control: true})
	if len(got) != 1 || got[0].ObservationType != wells.ObservationRegular {
		t.Errorf("expected only the regular dossier, got %+v", got)
	}
}

func TestWellWithoutGLDsFollowsNoGLDsFlag(t *testing.T) {
	ds := wells.NewDataset([]wells.Well{{ID: 1}}, nil, nil)
	w, _ := ds.Well(1)
	e := visibility.NewEngine(visibility.Dimensions{GLD: true})

	f := visibility.DefaultFilters()
	if !e.WellIsShown(ds, w, f) {
		t.Error("expected well without dossiers to be shown")
	}
	f.NoGLDs = false
	if e.WellIsShown(ds, w, f) {
		t.Error("expected well without dossiers to be hidden")
	}
	f.Types = visibility.TypeFilter{}
	f.NoGLDs = true
	if !e.WellIsShown(ds, w, f) {
		t.Error("type filters must not affect wells without dossiers")
	}
}

func TestWellWithGLDsNeedsOneSurvivor(t *testing.T) {
	ds := wells.NewDataset(
		[]wells.Well{{ID: 1, GLDs: []int64{1, 2}}},
		[]wells.GLD{
			regularGLD(1, 1, wells.StatusValidated, daysAgo(10)),
			controlGLD(2, 2, wells.StatusUnknown, daysAgo(240)),
		},
		nil,
	)
	w, _ := ds.Well(1)
	e := visibility.NewEngine(visibility.Dimensions{GLD: true})

	f := visibility.DefaultFilters()
	if got := visibility.WellGLDs(ds, w, f); len(got) != 2 {
		t.Fatalf("expected both dossiers, got %d", len(got))
	}

	f.Statuses.Unknown = false
	got := visibility.WellGLDs(ds, w, f)
	if len(got) != 1 || got[0].GLD.ID != 1 {
		t.Fatalf("expected only GLD 1, got %+v", got)
	}
	if !e.WellIsShown(ds, w, f) {
		t.Error("well should still be shown")
	}

	f.Statuses.Validated = false
	if e.WellIsShown(ds, w, f) {
		t.Error("well should be hidden once no dossier survives")
	}
	f.NoGLDs = true
	if e.WellIsShown(ds, w, f) {
		t.Error("NoGLDs must not apply to wells that have dossiers")
	}
}

func TestOrganisationAndGMNDimensions(t *testing.T) {
	ds := wells.NewDataset([]wells.Well{
		{ID: 1, DeliveryAccountableParty: 10, LinkedGMNs: []string{"KRW", "Provinciaal"}},
		{ID: 2, DeliveryAccountableParty: 20},
	}, nil, nil)
	w1, _ := ds.Well(1)
	w2, _ := ds.Well(2)
	e := visibility.NewEngine(visibility.Dimensions{Organisation: true, GMN: true})

	f := visibility.DefaultFilters()
	f.Organisations[10] = false
	if e.WellIsShown(ds, w1, f) {
		t.Error("hidden organisation should hide its wells")
	}
	if !e.WellIsShown(ds, w2, f) {
		t.Error("other organisations stay visible")
	}

	f = visibility.DefaultFilters()
	f.GMNs["KRW"] = false
	if !e.WellIsShown(ds, w1, f) {
		t.Error("one visible network is enough")
	}
	f.GMNs["Provinciaal"] = false
	if e.WellIsShown(ds, w1, f) {
		t.Error("well with only hidden networks should be hidden")
	}

	f.NoLinkedGMN = false
	if e.WellIsShown(ds, w2, f) {
		t.Error("well without networks should follow NoLinkedGMN")
	}
}

func TestWellValueTriState(t *testing.T) {
	ds := wells.NewDataset([]wells.Well{
		{ID: 1, CompleteBRO: true},
		{ID: 2, CompleteBRO: false},
	}, nil, nil)
	complete, _ := ds.Well(1)
	incomplete, _ := ds.Well(2)
	e := visibility.NewEngine(visibility.Dimensions{WellValue: true})

	f := visibility.DefaultFilters()
	if !e.WellIsShown(ds, complete, f) || !e.WellIsShown(ds, incomplete, f) {
		t.Fatal("indeterminate filters should show everything")
	}

	f = f.CycleWellValue("complete_bro")
	if !e.WellIsShown(ds, complete, f) || e.WellIsShown(ds, incomplete, f) {
		t.Error("yes should only show complete wells")
	}

	f = f.CycleWellValue("complete_bro")
	if e.WellIsShown(ds, complete, f) || !e.WellIsShown(ds, incomplete, f) {
		t.Error("no should only show incomplete wells")
	}

	f = f.CycleWellValue("complete_bro")
	if f.WellValues["complete_bro"] != visibility.Unset {
		t.Errorf("expected the cycle to return to unset, got %v", f.WellValues["complete_bro"])
	}
}

func TestToggleAll(t *testing.T) {
	f := visibility.DefaultFilters()
	f = f.ToggleAllTypes()
	if f.Types.Control || f.Types.Regular || f.Types.NoObservation {
		t.Error("all types on should toggle to all off")
	}
	f.Types.Control = true
	f = f.ToggleAllTypes()
	if !f.Types.Control || !f.Types.Regular || !f.Types.NoObservation {
		t.Error("any type off should toggle to all on")
	}

	f.Statuses.Tentative = false
	f = f.ToggleAllStatuses()
	if !f.Statuses.Tentative || !f.Statuses.Unknown {
		t.Error("any status off should toggle to all on")
	}
}

func TestFiltersJSONKeepsDefaultsForMissingKeys(t *testing.T) {
	f := visibility.DefaultFilters()
	body := `{"status":{"no_status":true,"validated":true,"tentative":true,"unknown":false},"well_values":{"in_management":false,"complete_bro":null}}`
	if err := json.Unmarshal([]byte(body), &f); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !f.Types.Control || !f.NoGLDs {
		t.Error("fields absent from the body should keep their defaults")
	}
	if f.Statuses.Unknown {
		t.Error("unknown status should be off")
	}
	if f.WellValues["in_management"] != visibility.No || f.WellValues["complete_bro"] != visibility.Unset {
		t.Errorf("unexpected well values %v", f.WellValues)
	}
}
