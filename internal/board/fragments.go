package board

import (
	"embed"
	"html"
	"strings"
	"text/template"

	"tarediiran-industries.com/departure-board/internal/transit"
)

//go:embed templates/*.tmpl templates/*.html
var templatesFS embed.FS

// FragmentRenderer turns departures into the HTML snippets that fill the
// board's row slots. Names are interpolated verbatim unless escaping is on.
type FragmentRenderer struct {
	tmpl *template.Template
}

func NewFragmentRenderer(escapeNames bool) (*FragmentRenderer, error) {
	name := func(s string) string { return s }
	if escapeNames {
		name = html.EscapeString
	}

	tmpl, err := template.New("root").
		Funcs(template.FuncMap{"name": name}).
		ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}

	return &FragmentRenderer{tmpl: tmpl}, nil
}

func (renderer *FragmentRenderer) render(name string, data any) (string, error) {
	var out strings.Builder
	if err := renderer.tmpl.ExecuteTemplate(&out, name, data); err != nil {
		return "", err
	}
	return out.String(), nil
}

// rows renders up to transit.MaxDestinations departures and pads the remaining
// slots with the empty fragment.
func (renderer *FragmentRenderer) rows(rowTemplate string, emptyTemplate string, departures []transit.Departure) ([]string, error) {
	fragments := make([]string, 0, transit.MaxDestinations)

	for _, departure := range departures[:min(len(departures), transit.MaxDestinations)] {
		fragment, err := renderer.render(rowTemplate, departure)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, fragment)
	}

	for len(fragments) < transit.MaxDestinations {
		fragment, err := renderer.render(emptyTemplate, nil)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, fragment)
	}

	return fragments, nil
}

func (renderer *FragmentRenderer) RailRows(departures []transit.Departure) ([]string, error) {
	return renderer.rows("rail_row", "rail_empty", departures)
}

func (renderer *FragmentRenderer) MetroRows(departures []transit.Departure) ([]string, error) {
	return renderer.rows("metro_row", "metro_empty", departures)
}

// StaticRows is the fixed pair of fragments that closes the board.
func (renderer *FragmentRenderer) StaticRows() ([]string, error) {
	empty, err := renderer.render("static_empty", nil)
	if err != nil {
		return nil, err
	}
	purple, err := renderer.render("purple_line", nil)
	if err != nil {
		return nil, err
	}
	return []string{empty, purple}, nil
}
