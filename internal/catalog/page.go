package catalog

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"tvnav/internal/config"
	"tvnav/internal/dom"
	"tvnav/internal/domain"
)

// Element ids and class names the page and the App agree on
const (
	GridID        = "grid"
	SearchID      = "search"
	DetailID      = "detail"
	DetailTitleID = "detail-title"
	DetailInfoID  = "detail-info"
	DetailTextID  = "detail-synopsis"
	PlayID        = "detail-play"
	TrailerID     = "detail-trailer"
	CloseID       = "detail-close"
	TitleAttr     = "data-title"
	TilePrefix    = "tile-"
)

// Layout places tiles on the page
type Layout struct {
	Columns        int
	TileWidth      float64
	TileHeight     float64
	Gap            float64
	ViewportHeight float64
}

// LayoutFromConfig reads the layout from the catalog section
func LayoutFromConfig(cfg config.CatalogConfig) Layout {
	return Layout{
		Columns:        cfg.Columns,
		TileWidth:      cfg.TileWidth,
		TileHeight:     cfg.TileHeight,
		Gap:            cfg.Gap,
		ViewportHeight: cfg.ViewportHeight,
	}
}

const headerHeight = 40

// Width is the page width
func (l Layout) Width() float64 {
	return l.Gap + float64(l.Columns)*(l.TileWidth+l.Gap)
}

// TileRect returns the box of the i-th shown tile
func (l Layout) TileRect(i int) domain.Rect {
	cols := max(l.Columns, 1)
	row, col := i/cols, i%cols
	return domain.Rect{
		Left:   l.Gap + float64(col)*(l.TileWidth+l.Gap),
		Top:    headerHeight + l.Gap + float64(row)*(l.TileHeight+l.Gap),
		Width:  l.TileWidth,
		Height: l.TileHeight,
	}
}

// overlayRect centres the detail overlay in the viewport
func (l Layout) overlayRect() domain.Rect {
	w := min(l.Width()-2*l.Gap, 640)
	h := min(l.ViewportHeight-2*l.Gap, 360)
	return domain.Rect{Left: (l.Width() - w) / 2, Top: (l.ViewportHeight - h) / 2, Width: w, Height: h}
}

type tileView struct {
	ID    string
	DOMID string
	Name  string
	Meta  string
	Rect  string
}

type buttonView struct {
	ID, Action, Label, Rect, Class string
}

type pageView struct {
	SearchRect  string
	Tiles       []tileView
	OverlayRect string
	Buttons     []buttonView
	DecorRect   string
	TitleAttr   string
}

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<html><head><title>Catalog</title></head>
<body>
<header><input id="` + SearchID + `" type="search" placeholder="Search" data-rect="{{.SearchRect}}"></header>
<main id="` + GridID + `">{{template "tiles" .Tiles}}</main>
<div class="overlay" id="` + DetailID + `" role="dialog" data-fixed data-rect="{{.OverlayRect}}">
<h2 id="` + DetailTitleID + `"></h2>
<p id="` + DetailInfoID + `"></p>
<p id="` + DetailTextID + `"></p>
{{range .Buttons}}<button id="{{.ID}}"{{if .Class}} class="{{.Class}}"{{end}} data-action="{{.Action}}" data-rect="{{.Rect}}">{{.Label}}</button>
{{end}}<div class="decor" aria-hidden="true"><button tabindex="-1" data-rect="{{.DecorRect}}">&#9733;</button></div>
</div>
</body></html>
{{define "tiles"}}{{range .}}<div class="tile" id="{{.DOMID}}" ` + TitleAttr + `="{{.ID}}" data-rect="{{.Rect}}"><a href="/title/{{.ID}}" data-action="open-detail" data-rect="{{.Rect}}">{{.Name}}</a><span class="meta">{{.Meta}}</span></div>
{{end}}{{end}}`))

func tileViews(titles []domain.Title, l Layout) []tileView {
	out := make([]tileView, len(titles))
	for i, t := range titles {
		out[i] = tileView{
			ID:    t.ID,
			DOMID: TilePrefix + t.ID,
			Name:  t.Name,
			Meta:  Meta(t),
			Rect:  dom.FormatRect(l.TileRect(i)),
		}
	}
	return out
}

// Meta is the one-line description shown under a title
func Meta(t domain.Title) string {
	switch {
	case t.Year > 0 && t.Kind != "":
		return fmt.Sprintf("%s · %d", t.Kind, t.Year)
	case t.Year > 0:
		return fmt.Sprint(t.Year)
	}
	return t.Kind
}

// RenderPage writes the full catalog page
func RenderPage(w io.Writer, titles []domain.Title, l Layout) error {
	ov := l.overlayRect()
	btnTop := ov.Top + ov.Height - 60
	button := func(i int, id, action, label, class string) buttonView {
		r := domain.Rect{Left: ov.Left + 20 + float64(i)*130, Top: btnTop, Width: 110, Height: 36}
		return buttonView{ID: id, Action: action, Label: label, Rect: dom.FormatRect(r), Class: class}
	}
	view := pageView{
		SearchRect:  dom.FormatRect(domain.Rect{Left: l.Gap, Top: 4, Width: l.Width() - 2*l.Gap, Height: headerHeight - 8}),
		Tiles:       tileViews(titles, l),
		OverlayRect: dom.FormatRect(ov),
		Buttons: []buttonView{
			button(0, PlayID, "play", "Play", ""),
			button(1, TrailerID, "trailer", "Trailer", ""),
			button(2, CloseID, "close-detail", "Close", "overlay-close"),
		},
		DecorRect: dom.FormatRect(domain.Rect{Left: ov.Left + ov.Width - 40, Top: ov.Top + 10, Width: 30, Height: 30}),
	}
	if err := pageTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}

// RenderTiles returns only the tile markup, for replacing the grid contents
func RenderTiles(titles []domain.Title, l Layout) (string, error) {
	var buf bytes.Buffer
	if err := pageTemplate.ExecuteTemplate(&buf, "tiles", tileViews(titles, l)); err != nil {
		return "", fmt.Errorf("failed to render tiles: %w", err)
	}
	return buf.String(), nil
}

// NewDocument renders titles and parses the result into a live document
func NewDocument(titles []domain.Title, l Layout, opts dom.Options) (*dom.Document, error) {
	var buf bytes.Buffer
	if err := RenderPage(&buf, titles, l); err != nil {
		return nil, err
	}
	opts.ViewportHeight = l.ViewportHeight
	return dom.Parse(&buf, opts)
}
