package mapview

import (
	"time"

	"github.com/broconnector/gmw-map/internal/mapstate"
	"github.com/broconnector/gmw-map/internal/pieicon"
	"github.com/broconnector/gmw-map/internal/visibility"
	"github.com/broconnector/gmw-map/internal/wells"
)

// TextZoomThreshold is the lowest zoom at which well labels are drawn.
const TextZoomThreshold = 12

const (
	DefaultLon  = 3.945697
	DefaultLat  = 51.522601
	DefaultZoom = 9
	// FocusZoom is used when the map flies to a single well.
	FocusZoom = 15
)

// Deck.gl layer classes.
const (
	ScatterplotLayer = "ScatterplotLayer"
	IconLayer        = "IconLayer"
	TextLayer        = "TextLayer"
)

const (
	ScatterplotLayerID = "scatterplot-layer"
	IconLayerID        = "pie-icon-layer"
	TextLayerID        = "text-layer"
)

const (
	markerRadius = 10
	iconSize     = 25
	textSize     = 100
)

// IconPathPrefix is where the icon endpoint is mounted.
const IconPathPrefix = "/map/icons/"

// Feature is one well in a layer. Hidden wells keep their entry with size 0
// so Deck.gl does not rebuild its attribute buffers.
type Feature struct {
	WellID   int64      `json:"id"`
	Position [2]float64 `json:"position"`
	Size     float64    `json:"size"`
	Color    *[4]uint8  `json:"color,omitempty"`
	Icon     string     `json:"icon,omitempty"`
	Text     string     `json:"text,omitempty"`
}

// LayerSpec is a declarative Deck.gl layer.
type LayerSpec struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Visible bool      `json:"visible"`
	Data    []Feature `json:"data"`
}

// View is what the browser reports after every checkbox, zoom or label toggle.
type View struct {
	Filters visibility.Filters `json:"filters"`
	Zoom    float64            `json:"zoom"`
	Labels  bool               `json:"labels"`
}

// NewView returns a view with every filter enabled.
func NewView() View {
	return View{Filters: visibility.DefaultFilters(), Zoom: DefaultZoom}
}

// ShowsText reports whether the label layer belongs on the map.
func (v View) ShowsText() bool {
	return v.Labels && v.Zoom >= TextZoomThreshold
}

// Change lists the layer operations that take the map from one view to the next.
type Change struct {
	Remove []string    `json:"remove"`
	Add    []LayerSpec `json:"add"`
	Update []LayerSpec `json:"update"`
}

// Adapter turns a dataset and a page profile into layer specs.
type Adapter struct {
	Profile *Profile
	Dataset *wells.Dataset
	Now     time.Time
}

func NewAdapter(p *Profile, ds *wells.Dataset, now time.Time) *Adapter {
	return &Adapter{Profile: p, Dataset: ds, Now: now}
}

// Layers returns the marker layer and, when labels are on and the map is
// zoomed in far enough, the text layer.
func (a *Adapter) Layers(v View) []LayerSpec {
	layers := []LayerSpec{a.markerLayer(v.Filters)}
	if v.ShowsText() {
		layers = append(layers, a.textLayer(v.Filters))
	}
	return layers
}

// Changes always updates the marker layer. The text layer is never updated in
// place: it is removed when present and added again when it should show.
func (a *Adapter) Changes(prev, next View) Change {
	c := Change{Update: []LayerSpec{a.markerLayer(next.Filters)}}
	if prev.ShowsText() {
		c.Remove = append(c.Remove, TextLayerID)
	}
	if next.ShowsText() {
		c.Add = append(c.Add, a.textLayer(next.Filters))
	}
	return c
}

func (a *Adapter) markerLayer(f visibility.Filters) LayerSpec {
	if a.Profile.Marker == MarkerPie {
		return a.iconLayer(f)
	}
	return a.scatterplotLayer(f)
}

func (a *Adapter) scatterplotLayer(f visibility.Filters) LayerSpec {
	e := a.Profile.Engine()
	spec := LayerSpec{ID: ScatterplotLayerID, Type: ScatterplotLayer, Visible: true}
	for _, w := range a.Dataset.Wells {
		color := a.wellColor(w)
		feat := Feature{WellID: w.ID, Position: position(w), Color: &color}
		if e.WellIsShown(a.Dataset, w, f) {
			feat.Size = markerRadius
		}
		spec.Data = append(spec.Data, feat)
	}
	return spec
}

func (a *Adapter) iconLayer(f visibility.Filters) LayerSpec {
	e := a.Profile.Engine()
	spec := LayerSpec{ID: IconLayerID, Type: IconLayer, Visible: true}
	for _, w := range a.Dataset.Wells {
		icon := pieicon.ForWell(a.Dataset, w, f, a.Profile.Policy(), a.Now)
		feat := Feature{WellID: w.ID, Position: position(w), Icon: IconPath(icon)}
		if e.WellIsShown(a.Dataset, w, f) {
			feat.Size = iconSize
		}
		spec.Data = append(spec.Data, feat)
	}
	return spec
}

func (a *Adapter) textLayer(f visibility.Filters) LayerSpec {
	e := a.Profile.Engine()
	spec := LayerSpec{ID: TextLayerID, Type: TextLayer, Visible: true}
	for _, w := range a.Dataset.Wells {
		feat := Feature{WellID: w.ID, Position: position(w), Text: w.Label()}
		if e.WellIsShown(a.Dataset, w, f) {
			feat.Size = textSize
		}
		spec.Data = append(spec.Data, feat)
	}
	return spec
}

func (a *Adapter) wellColor(w *wells.Well) [4]uint8 {
	if fc := a.Profile.FixedColor; len(fc) == 4 {
		return [4]uint8{uint8(fc[0]), uint8(fc[1]), uint8(fc[2]), uint8(fc[3])}
	}
	if o, ok := a.Dataset.Organisation(w.DeliveryAccountableParty); ok {
		return o.RGB()
	}
	return (&wells.Organisation{}).RGB()
}

// IconPath is the URL of a rendered pie icon.
func IconPath(icon pieicon.Icon) string {
	return IconPathPrefix + icon.Key() + ".png"
}

func position(w *wells.Well) [2]float64 {
	return [2]float64{w.Lon, w.Lat}
}

// Camera is a map centre and zoom.
type Camera struct {
	Lon  float64 `json:"lon"`
	Lat  float64 `json:"lat"`
	Zoom float64 `json:"zoom"`
}

// InitialView restores the saved position when the state carries one, else
// centres on the province at the profile's zoom.
func (p *Profile) InitialView(state *mapstate.ViewState) Camera {
	if state.HasPosition() {
		return Camera{Lon: *state.Lon, Lat: *state.Lat, Zoom: *state.Zoom}
	}
	return Camera{Lon: DefaultLon, Lat: DefaultLat, Zoom: p.Zoom}
}

// Focus centres the map on a single well.
func Focus(w *wells.Well) Camera {
	return Camera{Lon: w.Lon, Lat: w.Lat, Zoom: FocusZoom}
}
