// Package popup renders the HTML shown when a well marker is clicked.
package popup

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/broconnector/gmw-map/internal/recency"
	"github.com/broconnector/gmw-map/internal/visibility"
	"github.com/broconnector/gmw-map/internal/wells"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	// DateLayout is the day-month-year format used throughout the admin.
	DateLayout  = "02-01-2006"
	Placeholder = "—"
)

var funcMap = template.FuncMap{
	"checkOrCross": func(b bool) template.HTML {
		if b {
			return "&check;"
		}
		return "&cross;"
	},
	"join": func(s []string) string { return strings.Join(s, ", ") },
}

// Renderer holds the parsed popup templates. It is safe for concurrent use.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("popup").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse popup templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

type links struct {
	ObjectURL    string
	BroLoketURL  string
	GLDSearchURL string
	FRDSearchURL string
}

func linksFor(w *wells.Well) links {
	return links{
		ObjectURL:    fmt.Sprintf("/admin/gmw/groundwatermonitoringwellstatic/%d", w.ID),
		BroLoketURL:  "https://www.broloket.nl/ondergrondgegevens?bro-id=" + w.BroID,
		GLDSearchURL: "/admin/gld/groundwaterleveldossier/?q=" + w.BroID,
		FRDSearchURL: "/admin/frd/formationresistancedossier/?q=" + w.BroID,
	}
}

type wellView struct {
	links
	Well *wells.Well
}

// RenderWell writes the overview popup with the well's registration details.
func (r *Renderer) RenderWell(out io.Writer, w *wells.Well) error {
	return r.tmpl.ExecuteTemplate(out, "well", wellView{links: linksFor(w), Well: w})
}

// GLDView is one collapsible dossier section.
type GLDView struct {
	TubeNumber      int
	BroID           string
	ObservationType string
	TypeSummary     string
	Status          string
	LatestDate      string
	Color           string
	PageURL         string
	ObservationURL  string
}

type gldsView struct {
	links
	Well            *wells.Well
	GLDs            []GLDView
	EmptyMessage    string
	DisabledFilters []string
}

// NewGLDView formats a resolved dossier for display.
func NewGLDView(g visibility.ResolvedGLD, policy recency.Policy, now time.Time) GLDView {
	v := GLDView{
		TubeNumber:      g.GLD.TubeNumber,
		BroID:           orPlaceholder(g.GLD.GLDBroID),
		ObservationType: orPlaceholder(g.ObservationType),
		TypeSummary:     g.ObservationType,
		Status:          orPlaceholder(g.Status),
		LatestDate:      FormatDate(g.LatestMeasurementDate),
		Color:           string(policy.Color(g.ObservationType, g.LatestMeasurementDate, now)),
		PageURL:         fmt.Sprintf("/admin/gld/groundwaterleveldossier/%d", g.GLD.ID),
	}
	if v.TypeSummary == "" {
		v.TypeSummary = "geen meting"
	}
	if g.LatestObservationID != nil {
		v.ObservationURL = fmt.Sprintf("/admin/gld/observation/%d", *g.LatestObservationID)
	}
	return v
}

// RenderGLDs writes the validation popup: one section per visible dossier, or
// a note explaining why none are left.
func (r *Renderer) RenderGLDs(out io.Writer, w *wells.Well, glds []visibility.ResolvedGLD, f visibility.Filters, policy recency.Policy, now time.Time) error {
	view := gldsView{links: linksFor(w), Well: w}
	for _, g := range glds {
		view.GLDs = append(view.GLDs, NewGLDView(g, policy, now))
	}
	if len(view.GLDs) == 0 {
		view.EmptyMessage, view.DisabledFilters = filterStatus(w, f)
	}
	return r.tmpl.ExecuteTemplate(out, "glds", view)
}

func filterStatus(w *wells.Well, f visibility.Filters) (string, []string) {
	msg := "Geen GLDs voor deze put"
	if len(w.GLDs) == 0 {
		return msg, nil
	}
	var disabled []string
	if !f.Types.NoObservation {
		disabled = append(disabled, "Geen meting")
	}
	if !f.Types.Control {
		disabled = append(disabled, "Controle meting")
	}
	if !f.Types.Regular {
		disabled = append(disabled, "Reguliere meting")
	}
	return msg + " na filteren op:", disabled
}

// FormatDate formats a measurement date, or the placeholder when there is none.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return Placeholder
	}
	return t.Format(DateLayout)
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

// Kind selects which popup a page opens.
type Kind string

const (
	KindWell Kind = "well"
	KindGLDs Kind = "glds"
)

// Outcome tells the caller what happened to an open popup after the filters
// changed.
type Outcome int

const (
	Updated Outcome = iota
	Removed
)

// Refresh re-renders an open popup for new filters. A well that is no longer
// shown gets Removed and nothing is written.
func (r *Renderer) Refresh(out io.Writer, kind Kind, ds *wells.Dataset, w *wells.Well, e visibility.Engine, f visibility.Filters, policy recency.Policy, now time.Time) (Outcome, error) {
	if !e.WellIsShown(ds, w, f) {
		return Removed, nil
	}
	switch kind {
	case KindGLDs:
		return Updated, r.RenderGLDs(out, w, visibility.WellGLDs(ds, w, f), f, policy, now)
	default:
		return Updated, r.RenderWell(out, w)
	}
}
