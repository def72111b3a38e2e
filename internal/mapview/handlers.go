package mapview

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/broconnector/gmw-map/internal/mapstate"
	"github.com/broconnector/gmw-map/internal/pieicon"
	"github.com/broconnector/gmw-map/internal/popup"
	"github.com/broconnector/gmw-map/internal/search"
	"github.com/broconnector/gmw-map/internal/utils"
	"github.com/broconnector/gmw-map/internal/visibility"
	"github.com/broconnector/gmw-map/internal/wells"
	"github.com/go-chi/chi/v5"
)

//go:embed templates/page.html
var pageFS embed.FS

// Loader reads dataset snapshots. wells.Store implements it.
type Loader interface {
	Load(ctx context.Context) (*wells.Dataset, error)
	LoadWell(ctx context.Context, id int64) (*wells.Dataset, error)
}

// Server serves the map pages and their data endpoints.
type Server struct {
	Pages  Pages
	Data   Loader
	States mapstate.Store
	Icons  *pieicon.Cache
	Popups *popup.Renderer
	Now    func() time.Time

	shell *template.Template
}

func NewServer(pages Pages, data Loader, states mapstate.Store, icons *pieicon.Cache) (*Server, error) {
	popups, err := popup.NewRenderer()
	if err != nil {
		return nil, err
	}
	shell, err := template.ParseFS(pageFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	return &Server{
		Pages:  pages,
		Data:   data,
		States: states,
		Icons:  icons,
		Popups: popups,
		Now:    time.Now,
		shell:  shell,
	}, nil
}

// page is everything a request needs about the map page it targets.
type page struct {
	Profile *Profile
	Dataset *wells.Dataset
	State   *mapstate.ViewState
}

// loadPage resolves the page profile and loads its dataset. It writes the
// error response itself and returns ok=false when the request cannot go on.
func (s *Server) loadPage(w http.ResponseWriter, r *http.Request) (page, bool) {
	profile, err := s.Pages.Get(chi.URLParam(r, "page"))
	if err != nil {
		http.Error(w, "Map page not found", http.StatusNotFound)
		return page{}, false
	}
	p := page{Profile: profile}

	var ds *wells.Dataset
	if raw := r.URL.Query().Get("id"); profile.SingleWell && raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "Invalid well id", http.StatusBadRequest)
			return page{}, false
		}
		ds, err = s.Data.LoadWell(r.Context(), id)
		if errors.Is(err, wells.ErrWellNotFound) {
			http.Error(w, "Well not found", http.StatusNotFound)
			return page{}, false
		}
		if err != nil {
			http.Error(w, "Failed to load well: "+err.Error(), http.StatusInternalServerError)
			return page{}, false
		}
	} else {
		ds, err = s.Data.Load(r.Context())
		if err != nil {
			http.Error(w, "Failed to load wells: "+err.Error(), http.StatusInternalServerError)
			return page{}, false
		}
	}

	if profile.UseState && s.States != nil {
		if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
			state, err := s.States.Find(r.Context(), userID)
			switch {
			case err == nil:
				p.State = state
				ds = ds.Restrict(state.IDs)
			case !errors.Is(err, mapstate.ErrNoState):
				http.Error(w, "Failed to load view state: "+err.Error(), http.StatusInternalServerError)
				return page{}, false
			}
		}
	}

	p.Dataset = ds
	return p, true
}

func (s *Server) adapter(p page) *Adapter {
	return NewAdapter(p.Profile, p.Dataset, s.Now())
}

type shellData struct {
	Profile       *Profile
	Camera        Camera
	Wells         []*wells.Well
	GLDs          []*wells.GLD
	GMNs          []string
	Organisations []*wells.Organisation
	State         *mapstate.ViewState
	Layers        []LayerSpec
}

// ServePage renders the page shell with the dataset embedded as JSON.
func (s *Server) ServePage(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loadPage(w, r)
	if !ok {
		return
	}

	camera := p.Profile.InitialView(p.State)
	if lon, lat, ok := queryPosition(r); ok {
		camera.Lon, camera.Lat = lon, lat
	}

	data := shellData{
		Profile:       p.Profile,
		Camera:        camera,
		Wells:         p.Dataset.Wells,
		GLDs:          p.Dataset.GLDs(),
		GMNs:          p.Dataset.GMNs(),
		Organisations: p.Dataset.Organisations,
		State:         p.State,
		Layers:        s.adapter(p).Layers(NewView()),
	}

	var buf bytes.Buffer
	if err := s.shell.Execute(&buf, data); err != nil {
		log.Printf("[mapview] render %s: %v", p.Profile.Name, err)
		http.Error(w, "Failed to render page: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func queryPosition(r *http.Request) (float64, float64, bool) {
	lon, err := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		return 0, 0, false
	}
	return lon, lat, true
}

// Layers returns the layer specs for the posted view.
func (s *Server) Layers(w http.ResponseWriter, r *http.Request) {
	view := NewView()
	if err := json.NewDecoder(r.Body).Decode(&view); err != nil {
		http.Error(w, "Invalid view", http.StatusBadRequest)
		return
	}
	p, ok := s.loadPage(w, r)
	if !ok {
		return
	}
	writeJSON(w, s.adapter(p).Layers(view))
}

type changeRequest struct {
	Prev View `json:"prev"`
	Next View `json:"next"`
}

// Changes returns the layer operations between two views.
func (s *Server) Changes(w http.ResponseWriter, r *http.Request) {
	req := changeRequest{Prev: NewView(), Next: NewView()}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid views", http.StatusBadRequest)
		return
	}
	p, ok := s.loadPage(w, r)
	if !ok {
		return
	}
	writeJSON(w, s.adapter(p).Changes(req.Prev, req.Next))
}

// Popup renders the page's popup for a well under the posted filters. A well
// that is filtered out answers 204 so the browser closes the popup.
func (s *Server) Popup(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "well_id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid well id", http.StatusBadRequest)
		return
	}
	filters, ok := decodeFilters(w, r)
	if !ok {
		return
	}
	p, ok := s.loadPage(w, r)
	if !ok {
		return
	}
	well, found := p.Dataset.Well(id)
	if !found {
		http.Error(w, "Well not found", http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	outcome, err := s.Popups.Refresh(&buf, p.Profile.Popup, p.Dataset, well, p.Profile.Engine(), filters, p.Profile.Policy(), s.Now())
	if err != nil {
		log.Printf("[mapview] popup %d: %v", id, err)
		http.Error(w, "Failed to render popup: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if outcome == popup.Removed {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// Search matches the q parameter against the wells visible under the
// filters. GET uses the default filters, POST reads them from the body.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	filters := visibility.DefaultFilters()
	if r.Method == http.MethodPost {
		var ok bool
		if filters, ok = decodeFilters(w, r); !ok {
			return
		}
	}
	p, ok := s.loadPage(w, r)
	if !ok {
		return
	}
	e := p.Profile.Engine()
	visible := func(well *wells.Well) bool { return e.WellIsShown(p.Dataset, well, filters) }
	writeJSON(w, search.NewIndex(p.Dataset).Match(r.URL.Query().Get("q"), visible))
}

type selection struct {
	Option search.Option `json:"option"`
	Camera Camera        `json:"camera"`
}

// Select returns where to fly to for a chosen search option.
func (s *Server) Select(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "well_id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid well id", http.StatusBadRequest)
		return
	}
	p, ok := s.loadPage(w, r)
	if !ok {
		return
	}
	well, err := search.NewIndex(p.Dataset).Select(id)
	if err != nil {
		http.Error(w, "Well not found", http.StatusNotFound)
		return
	}
	writeJSON(w, selection{
		Option: search.Option{WellID: well.ID, Label: well.Label()},
		Camera: Focus(well),
	})
}

// Icon serves a pie icon by content key.
func (s *Server) Icon(w http.ResponseWriter, r *http.Request) {
	icon, err := pieicon.ParseKey(chi.URLParam(r, "key"))
	if err != nil {
		http.Error(w, "Invalid icon key", http.StatusBadRequest)
		return
	}
	size := pieicon.DefaultSize
	if raw := r.URL.Query().Get("size"); raw != "" {
		size, err = strconv.Atoi(raw)
		if err != nil || size < pieicon.MinSize || size > pieicon.MaxSize {
			http.Error(w, "Invalid icon size", http.StatusBadRequest)
			return
		}
	}
	png, err := s.Icons.PNG(icon, size)
	if err != nil {
		http.Error(w, "Failed to render icon: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	// Keys describe the content, so a key never changes meaning.
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Write(png)
}

func decodeFilters(w http.ResponseWriter, r *http.Request) (visibility.Filters, bool) {
	filters := visibility.DefaultFilters()
	if r.Body == nil || r.ContentLength == 0 {
		return filters, true
	}
	if err := json.NewDecoder(r.Body).Decode(&filters); err != nil {
		http.Error(w, "Invalid filters", http.StatusBadRequest)
		return filters, false
	}
	return filters, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[mapview] encode response: %v", err)
	}
}

// Index lists the configured pages.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	var b strings.Builder
	for _, name := range s.Pages.Names() {
		fmt.Fprintf(&b, "/map/%s\n", name)
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(b.String()))
}
