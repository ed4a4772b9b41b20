package controller

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yourusername/tribo-console/internal/backend"
	"github.com/yourusername/tribo-console/internal/metrics"
	"github.com/yourusername/tribo-console/internal/view"
)

const (
	galleryEmptyMessage = "No charts found."
	galleryFailed       = "Failed to load charts"
)

// Gallery tracks the active category tab, the last listing and the displayed image
type Gallery struct {
	api    API
	view   view.View
	logger zerolog.Logger

	mu       sync.Mutex
	active   backend.Category
	listing  backend.Listing
	selected string
	seq      sequencer
	out      outbox
}

// NewGallery creates a gallery controller with initial as the active tab
func NewGallery(api API, v view.View, initial backend.Category, logger zerolog.Logger) *Gallery {
	if initial == "" {
		initial = backend.CategoryTrial
	}
	v.SetActiveTab(initial)
	return &Gallery{
		api:     api,
		view:    v,
		logger:  logger.With().Str("component", "gallery").Logger(),
		active:  initial,
		listing: backend.Listing{},
	}
}

// Active returns the active category
func (g *Gallery) Active() backend.Category {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

// Selected returns the displayed image name, empty if none was selected
func (g *Gallery) Selected() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.selected
}

// Entries returns the names rendered for the active category
func (g *Gallery) Entries() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.listing.For(g.active))
}

// SetCategory switches the active tab, redraws it from the last successful listing and then
// refreshes. A failed refresh therefore leaves the new tab showing its cached entries, never the
// previous tab's.
func (g *Gallery) SetCategory(ctx context.Context, cat backend.Category) error {
	g.mu.Lock()
	g.active = cat
	draw := g.render()
	ticket := g.out.take()
	g.mu.Unlock()

	g.out.deliver(ticket, func() {
		g.view.SetActiveTab(cat)
		draw()
	})

	return g.Refresh(ctx)
}

// Refresh fetches the listing of every category and renders the active one. A response is
// dropped when a newer refresh was issued or the tab changed while it was in flight.
func (g *Gallery) Refresh(ctx context.Context) error {
	g.mu.Lock()
	seq := g.seq.next()
	target := g.active
	g.mu.Unlock()

	listing, err := g.api.Listing(ctx)

	g.mu.Lock()
	if !g.seq.latest(seq) || g.active != target {
		active := g.active
		g.mu.Unlock()
		metrics.StaleResponsesTotal.WithLabelValues("gallery").Inc()
		g.logger.Debug().
			Uint64("seq", seq).
			Str("target", string(target)).
			Str("active", string(active)).
			Msg("Discarding stale gallery response")
		return nil
	}
	if err != nil {
		if ctx.Err() != nil {
			g.mu.Unlock()
			return err
		}
		ticket := g.out.take()
		g.mu.Unlock()

		g.logger.Warn().Err(err).Msg("Failed to load gallery listing")
		g.out.deliver(ticket, func() {
			g.view.SetStatus(galleryFailed, view.StyleError)
		})
		return err
	}

	g.listing = listing
	draw := g.render()
	ticket := g.out.take()
	g.mu.Unlock()

	for _, cat := range backend.Categories {
		metrics.GalleryEntries.WithLabelValues(string(cat)).Set(float64(len(listing.For(cat))))
	}
	g.out.deliver(ticket, draw)
	return nil
}

// render captures the active category's entries and returns the view updates that draw them.
// Callers hold g.mu.
func (g *Gallery) render() func() {
	names := slices.Clone(g.listing.For(g.active))
	selected := g.selected
	if len(names) == 0 {
		return func() { g.view.ShowGalleryEmpty(galleryEmptyMessage) }
	}
	mark := selected != "" && slices.Contains(names, selected)
	return func() {
		g.view.ShowGalleryEntries(names)
		if mark {
			g.view.MarkSelected(selected)
		}
	}
}

// SelectEntry displays name in the preview and marks it as the only selected entry
func (g *Gallery) SelectEntry(name string) {
	if name == "" {
		return
	}
	g.mu.Lock()
	g.selected = name
	ticket := g.out.take()
	g.mu.Unlock()

	g.out.deliver(ticket, func() {
		g.view.ShowPreview(backend.FilePath(name), name)
		g.view.MarkSelected(name)
	})
}

// Fetch downloads the image bytes of an entry
func (g *Gallery) Fetch(ctx context.Context, name string) ([]byte, error) {
	return g.api.FetchFile(ctx, name)
}
