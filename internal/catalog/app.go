package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"tvnav/internal/dom"
	"tvnav/internal/domain"
	"tvnav/internal/eventbus"
)

var (
	ErrUnknownTitle = errors.New("unknown title")
	ErrNoDetail     = errors.New("detail overlay not found")
)

// App is the catalog page's own behaviour. Its action handlers run inside
// navigation calls and only touch the document.
type App struct {
	doc    *dom.Document
	layout Layout
	bus    eventbus.EventBus
	logger *slog.Logger

	mu      sync.Mutex
	titles  []domain.Title
	byID    map[string]domain.Title
	query   string
	shown   int
	playing string
	trailer string
}

// NewApp creates the app for doc. bus may be nil.
func NewApp(doc *dom.Document, titles []domain.Title, layout Layout, bus eventbus.EventBus, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{doc: doc, layout: layout, bus: bus, logger: logger}
	a.setTitles(titles)
	a.shown = len(titles)
	return a
}

// Register binds the page's data-action handlers
func (a *App) Register() {
	a.doc.RegisterAction("open-detail", a.openDetail)
	a.doc.RegisterAction("close-detail", a.closeDetail)
	a.doc.RegisterAction("play", a.play)
	a.doc.RegisterAction("trailer", a.playTrailer)
}

func (a *App) setTitles(titles []domain.Title) {
	a.titles = append([]domain.Title(nil), titles...)
	a.byID = make(map[string]domain.Title, len(titles))
	for _, t := range titles {
		a.byID[t.ID] = t
	}
}

// Title looks a title up by id
func (a *App) Title(id string) (domain.Title, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, ok := a.byID[id]
	return t, ok
}

// Titles returns the loaded titles in page order
func (a *App) Titles() []domain.Title {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.Title(nil), a.titles...)
}

// Playing returns the id of the title last played
func (a *App) Playing() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.playing
}

// Trailer returns the id of the trailer last played
func (a *App) Trailer() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.trailer
}

// Query returns the active search query
func (a *App) Query() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.query
}

// Shown is the number of tiles matching the query
func (a *App) Shown() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.shown
}

// DetailTitle returns the title the open overlay shows, if any
func (a *App) DetailTitle() (domain.Title, bool) {
	detail, ok := a.doc.ByID(DetailID)
	if !ok || !detail.HasClass("open") {
		return domain.Title{}, false
	}
	id, _ := detail.Attr(TitleAttr)
	return a.Title(id)
}

func (a *App) openDetail(n *dom.Node) error {
	tile, ok := n.Closest(".tile")
	if !ok {
		return fmt.Errorf("%w: %s is outside a tile", ErrUnknownTitle, n.ID())
	}
	id, _ := tile.Attr(TitleAttr)
	t, ok := a.Title(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTitle, id)
	}

	err := a.doc.Mutate(func(tx *dom.Tx) error {
		detail, ok := tx.ByID(DetailID)
		if !ok {
			return ErrNoDetail
		}
		if el, ok := tx.ByID(DetailTitleID); ok {
			tx.SetText(el, t.Name)
		}
		if el, ok := tx.ByID(DetailInfoID); ok {
			tx.SetText(el, Meta(t))
		}
		if el, ok := tx.ByID(DetailTextID); ok {
			tx.SetText(el, t.Synopsis)
		}
		tx.SetAttr(detail, TitleAttr, t.ID)
		tx.AddClass(detail, "open")
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to open detail: %w", err)
	}
	a.logger.Debug("catalog: detail opened", "title", t.ID)
	return nil
}

func (a *App) closeDetail(*dom.Node) error {
	return a.doc.Mutate(func(tx *dom.Tx) error {
		detail, ok := tx.ByID(DetailID)
		if !ok {
			return ErrNoDetail
		}
		tx.RemoveClass(detail, "open")
		return nil
	})
}

func (a *App) detailTitle() (domain.Title, error) {
	t, ok := a.DetailTitle()
	if !ok {
		return domain.Title{}, fmt.Errorf("%w: nothing is open", ErrUnknownTitle)
	}
	return t, nil
}

func (a *App) play(*dom.Node) error {
	t, err := a.detailTitle()
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.playing = t.ID
	a.mu.Unlock()

	a.logger.Info("catalog: playback started", "title", t.ID)
	if a.bus != nil {
		a.bus.Publish(domain.PlaybackStartedEvent{TitleID: t.ID, Name: t.Name})
	}
	return nil
}

func (a *App) playTrailer(*dom.Node) error {
	t, err := a.detailTitle()
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.trailer = t.ID
	a.mu.Unlock()
	a.logger.Info("catalog: trailer started", "title", t.ID)
	return nil
}

// Search hides tiles that do not match query and packs the rest into the
// grid in page order
func (a *App) Search(query string) error {
	a.mu.Lock()
	a.query = query
	titles := a.titles
	a.mu.Unlock()

	shown := 0
	err := a.doc.Mutate(func(tx *dom.Tx) error {
		for _, t := range titles {
			tile, ok := tx.ByID(TilePrefix + t.ID)
			if !ok {
				continue
			}
			if !Matches(t, query) {
				tx.SetAttr(tile, "hidden", "")
				continue
			}
			tx.RemoveAttr(tile, "hidden")
			rect := dom.FormatRect(a.layout.TileRect(shown))
			tx.SetAttr(tile, "data-rect", rect)
			for _, link := range tx.Find(tile, "a") {
				tx.SetAttr(link, "data-rect", rect)
			}
			shown++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to filter catalog: %w", err)
	}

	a.mu.Lock()
	a.shown = shown
	a.mu.Unlock()
	a.logger.Debug("catalog: search", "query", query, "shown", shown)
	return nil
}

// Reload replaces the grid with titles and reapplies the current search
func (a *App) Reload(titles []domain.Title) error {
	markup, err := RenderTiles(titles, a.layout)
	if err != nil {
		return err
	}
	err = a.doc.Mutate(func(tx *dom.Tx) error {
		grid, ok := tx.ByID(GridID)
		if !ok {
			return fmt.Errorf("grid %q not found", GridID)
		}
		_, err := tx.ReplaceChildren(grid, markup)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to reload catalog: %w", err)
	}

	a.mu.Lock()
	a.setTitles(titles)
	query := a.query
	a.mu.Unlock()

	if err := a.Search(query); err != nil {
		return err
	}
	a.logger.Info("catalog: reloaded", "titles", len(titles))
	if a.bus != nil {
		a.bus.Publish(domain.CatalogReloadedEvent{Titles: len(titles)})
	}
	return nil
}
