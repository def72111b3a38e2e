package mapview_test

import (
	"testing"
	"time"

	"github.com/broconnector/gmw-map/internal/mapstate"
	"github.com/broconnector/gmw-map/internal/mapview"
	"github.com/broconnector/gmw-map/internal/wells"
)

var now = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func testDataset() *wells.Dataset {
	return wells.NewDataset(
		[]wells.Well{
			{ID: 1, WellCode: "GW-1", Lon: 3.9, Lat: 51.5, DeliveryAccountableParty: 10, GLDs: []int64{100}},
			{ID: 2, WellCode: "GW-2", Lon: 4.0, Lat: 51.6, DeliveryAccountableParty: 20},
		},
		[]wells.GLD{{
			ID: 100, TubeNumber: 1,
			LatestMeasurementDateControle: ptr(now.AddDate(0, 0, -5)),
			ObservationTypeControle:       ptr(wells.ObservationControl),
			StatusControle:                ptr(wells.StatusValidated),
		}},
		[]wells.Organisation{{ID: 10, Name: "Zeeland", Color: "#ff0000"}},
	)
}

func profile(t *testing.T, name string) *mapview.Profile {
	t.Helper()
	pages, err := mapview.LoadPages("")
	if err != nil {
		t.Fatal(err)
	}
	p, err := pages.Get(name)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestScatterplotLayer(t *testing.T) {
	a := mapview.NewAdapter(profile(t, "overview"), testDataset(), now)
	view := mapview.NewView()
	view.Filters.Organisations[20] = false

	layers := a.Layers(view)
	if len(layers) != 1 {
		t.Fatalf("expected only the marker layer, got %d", len(layers))
	}
	l := layers[0]
	if l.ID != mapview.ScatterplotLayerID || l.Type != mapview.ScatterplotLayer {
		t.Errorf("unexpected layer %s/%s", l.ID, l.Type)
	}
	if len(l.Data) != 2 {
		t.Fatalf("hidden wells keep their feature, got %d features", len(l.Data))
	}
	if l.Data[0].Size != 10 || l.Data[1].Size != 0 {
		t.Errorf("unexpected radii %v, %v", l.Data[0].Size, l.Data[1].Size)
	}
	if *l.Data[0].Color != [4]uint8{255, 0, 0, 200} {
		t.Errorf("expected organisation colour, got %v", *l.Data[0].Color)
	}
	if *l.Data[1].Color != [4]uint8{158, 158, 158, 200} {
		t.Errorf("expected grey for an unknown organisation, got %v", *l.Data[1].Color)
	}
	if l.Data[0].Position != [2]float64{3.9, 51.5} {
		t.Errorf("position is lon, lat; got %v", l.Data[0].Position)
	}
}

func TestFixedColor(t *testing.T) {
	a := mapview.NewAdapter(profile(t, "detail"), testDataset(), now)
	l := a.Layers(mapview.NewView())[0]
	if *l.Data[0].Color != [4]uint8{0, 0, 255, 150} {
		t.Errorf("expected the fixed blue, got %v", *l.Data[0].Color)
	}
}

func TestIconLayer(t *testing.T) {
	a := mapview.NewAdapter(profile(t, "validation"), testDataset(), now)
	view := mapview.NewView()

	l := a.Layers(view)[0]
	if l.ID != mapview.IconLayerID || l.Type != mapview.IconLayer {
		t.Fatalf("unexpected layer %s/%s", l.ID, l.Type)
	}
	if l.Data[0].Icon != "/map/icons/4caf50h.png" || l.Data[0].Size != 25 {
		t.Errorf("unexpected icon feature %+v", l.Data[0])
	}
	if l.Data[1].Icon != "/map/icons/empty.png" || l.Data[1].Size != 25 {
		t.Errorf("a well without dossiers shows the empty glyph, got %+v", l.Data[1])
	}

	view.Filters.NoGLDs = false
	view.Filters.Types.Control = false
	view.Filters.Types.NoObservation = false
	l = a.Layers(view)[0]
	if l.Data[0].Size != 0 || l.Data[1].Size != 0 {
		t.Errorf("both wells should be hidden, got %+v", l.Data)
	}
	if l.Data[0].Icon != "/map/icons/none.png" {
		t.Errorf("expected an empty pie, got %s", l.Data[0].Icon)
	}
}

func TestTextLayerZoomGate(t *testing.T) {
	a := mapview.NewAdapter(profile(t, "overview"), testDataset(), now)

	view := mapview.NewView()
	view.Labels = true
	view.Zoom = mapview.TextZoomThreshold - 0.5
	if got := len(a.Layers(view)); got != 1 {
		t.Errorf("labels should stay off below the threshold, got %d layers", got)
	}

	view.Zoom = mapview.TextZoomThreshold
	layers := a.Layers(view)
	if len(layers) != 2 || layers[1].ID != mapview.TextLayerID {
		t.Fatalf("expected the text layer at the threshold, got %+v", layers)
	}
	if layers[1].Data[0].Text != "GW-1" || layers[1].Data[0].Size != 100 {
		t.Errorf("unexpected label feature %+v", layers[1].Data[0])
	}

	view.Labels = false
	if got := len(a.Layers(view)); got != 1 {
		t.Errorf("labels toggled off, got %d layers", got)
	}
}

func TestChangesRemoveAndReAddText(t *testing.T) {
	a := mapview.NewAdapter(profile(t, "overview"), testDataset(), now)

	zoomed := mapview.NewView()
	zoomed.Labels = true
	zoomed.Zoom = 13

	c := a.Changes(zoomed, zoomed)
	if len(c.Update) != 1 || c.Update[0].ID != mapview.ScatterplotLayerID {
		t.Errorf("marker layer must always be updated, got %+v", c.Update)
	}
	if len(c.Remove) != 1 || c.Remove[0] != mapview.TextLayerID {
		t.Errorf("text layer must be removed, got %v", c.Remove)
	}
	if len(c.Add) != 1 || c.Add[0].ID != mapview.TextLayerID {
		t.Errorf("text layer must be added again, got %+v", c.Add)
	}

	out := zoomed
	out.Zoom = 10
	c = a.Changes(zoomed, out)
	if len(c.Remove) != 1 || len(c.Add) != 0 {
		t.Errorf("zooming out removes the labels, got %+v", c)
	}

	c = a.Changes(out, zoomed)
	if len(c.Remove) != 0 || len(c.Add) != 1 {
		t.Errorf("zooming in adds the labels, got %+v", c)
	}
}

func TestInitialView(t *testing.T) {
	p := profile(t, "validation")

	got := p.InitialView(nil)
	want := mapview.Camera{Lon: mapview.DefaultLon, Lat: mapview.DefaultLat, Zoom: mapview.DefaultZoom}
	if got != want {
		t.Errorf("expected default camera %+v, got %+v", want, got)
	}

	state := &mapstate.ViewState{Lon: ptr(4.1), Lat: ptr(51.4), Zoom: ptr(12.5)}
	if got := p.InitialView(state); got != (mapview.Camera{Lon: 4.1, Lat: 51.4, Zoom: 12.5}) {
		t.Errorf("expected saved camera, got %+v", got)
	}

	if got := profile(t, "detail").InitialView(nil); got.Zoom != 14 {
		t.Errorf("detail page zooms to 14, got %v", got.Zoom)
	}
}
