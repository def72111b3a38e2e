package mapview

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/broconnector/gmw-map/internal/popup"
	"github.com/broconnector/gmw-map/internal/recency"
	"github.com/broconnector/gmw-map/internal/visibility"
	"github.com/goccy/go-yaml"
)

//go:embed pages.yaml
var defaultPages []byte

var ErrUnknownPage = errors.New("unknown map page")

const (
	MarkerScatterplot = "scatterplot"
	MarkerPie         = "pie"
)

// Profile configures one map page: which marker layer it draws, which filter
// checks apply and which popup opens on click.
type Profile struct {
	Name       string                `yaml:"-" json:"name"`
	Title      string                `yaml:"title" json:"title"`
	Marker     string                `yaml:"marker" json:"marker"`
	Popup      popup.Kind            `yaml:"popup" json:"popup"`
	Recency    string                `yaml:"recency" json:"recency"`
	UseState   bool                  `yaml:"use_state" json:"use_state"`
	SingleWell bool                  `yaml:"single_well" json:"single_well"`
	FixedColor []int                 `yaml:"fixed_color" json:"fixed_color,omitempty"`
	Zoom       float64               `yaml:"zoom" json:"zoom"`
	Dimensions visibility.Dimensions `yaml:"dimensions" json:"dimensions"`

	policy recency.Policy
}

// Policy is the recency colouring selected by the profile.
func (p *Profile) Policy() recency.Policy { return p.policy }

// Engine is the visibility engine restricted to the profile's dimensions.
func (p *Profile) Engine() visibility.Engine { return visibility.NewEngine(p.Dimensions) }

func (p *Profile) validate() error {
	switch p.Marker {
	case MarkerScatterplot, MarkerPie:
	case "":
		p.Marker = MarkerScatterplot
	default:
		return fmt.Errorf("page %s: unknown marker %q", p.Name, p.Marker)
	}
	switch p.Popup {
	case popup.KindWell, popup.KindGLDs:
	case "":
		p.Popup = popup.KindWell
	default:
		return fmt.Errorf("page %s: unknown popup %q", p.Name, p.Popup)
	}
	if p.FixedColor != nil && len(p.FixedColor) != 4 {
		return fmt.Errorf("page %s: fixed_color needs 4 components", p.Name)
	}
	for _, c := range p.FixedColor {
		if c < 0 || c > 255 {
			return fmt.Errorf("page %s: fixed_color component %d out of range", p.Name, c)
		}
	}
	if p.Zoom == 0 {
		p.Zoom = DefaultZoom
	}
	policy, err := recency.ByName(p.Recency)
	if err != nil {
		return fmt.Errorf("page %s: %w", p.Name, err)
	}
	p.policy = policy
	return nil
}

// Pages holds the profiles by URL name.
type Pages map[string]*Profile

// ParsePages decodes and validates a YAML page file.
func ParsePages(data []byte) (Pages, error) {
	var pages Pages
	if err := yaml.Unmarshal(data, &pages); err != nil {
		return nil, fmt.Errorf("parse map pages: %w", err)
	}
	if len(pages) == 0 {
		return nil, errors.New("parse map pages: no pages defined")
	}
	for name, p := range pages {
		if p == nil {
			p = &Profile{}
			pages[name] = p
		}
		p.Name = name
		if err := p.validate(); err != nil {
			return nil, err
		}
	}
	return pages, nil
}

// LoadPages reads the page file at path, or the built-in pages when path is empty.
func LoadPages(path string) (Pages, error) {
	if path == "" {
		return ParsePages(defaultPages)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map pages: %w", err)
	}
	return ParsePages(data)
}

func (p Pages) Get(name string) (*Profile, error) {
	profile, ok := p[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPage, name)
	}
	return profile, nil
}

// Names lists the page names in order.
func (p Pages) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
