package controller

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/tribo-console/internal/backend"
	"github.com/yourusername/tribo-console/internal/metrics"
	"github.com/yourusername/tribo-console/internal/view"
)

func staticListing(l backend.Listing) func() (backend.Listing, error) {
	return func() (backend.Listing, error) { return l, nil }
}

func TestGallery_SelectAnalysisEntry(t *testing.T) {
	api := &fakeAPI{listing: staticListing(backend.Listing{
		backend.CategoryAnalysis: {"a.png", "b.png"},
	})}
	v := view.NewMemory()
	g := NewGallery(api, v, backend.CategoryTrial, zerolog.Nop())

	require.NoError(t, g.SetCategory(context.Background(), backend.CategoryAnalysis))
	g.SelectEntry("b.png")

	s := v.Snapshot()
	assert.Equal(t, backend.CategoryAnalysis, s.ActiveTab)
	assert.Equal(t, []view.Entry{{Name: "a.png"}, {Name: "b.png", Selected: true}}, s.Entries)
	assert.True(t, s.PreviewVisible)
	assert.Equal(t, "/files/b.png", s.PreviewSrc)
	assert.Equal(t, "b.png", s.PreviewAlt)
	assert.Equal(t, "b.png", g.Selected())
}

func TestGallery_EmptyCategory(t *testing.T) {
	tests := []struct {
		name    string
		listing backend.Listing
	}{
		{name: "empty list", listing: backend.Listing{backend.CategoryTrial: {}}},
		{name: "absent key", listing: backend.Listing{backend.CategoryAnalysis: {"a.png"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{listing: staticListing(tt.listing)}
			v := view.NewMemory()
			g := NewGallery(api, v, backend.CategoryTrial, zerolog.Nop())

			require.NoError(t, g.Refresh(context.Background()))

			s := v.Snapshot()
			assert.Equal(t, "No charts found.", s.GalleryEmpty)
			assert.Empty(t, s.Entries)
		})
	}
}

func TestGallery_SetCategoryIsIdempotent(t *testing.T) {
	api := &fakeAPI{listing: staticListing(backend.Listing{
		backend.CategorySummary: {"grafico_atrito_medio.png"},
	})}
	v := view.NewMemory()
	g := NewGallery(api, v, backend.CategoryTrial, zerolog.Nop())

	require.NoError(t, g.SetCategory(context.Background(), backend.CategorySummary))
	first := v.Snapshot()
	require.NoError(t, g.SetCategory(context.Background(), backend.CategorySummary))
	second := v.Snapshot()

	assert.Equal(t, first.Entries, second.Entries)
	assert.Equal(t, first.ActiveTab, second.ActiveTab)
	assert.Equal(t, []string{"grafico_atrito_medio.png"}, g.Entries())
}

func TestGallery_StaleResponseAfterTabSwitch(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var n atomic.Int32
	api := &fakeAPI{listing: func() (backend.Listing, error) {
		if n.Add(1) == 1 {
			close(started)
			<-release
		}
		return backend.Listing{
			backend.CategoryTrial:   {"grafico_ensaio_1.png"},
			backend.CategorySummary: {"grafico_atrito_medio.png"},
		}, nil
	}}
	v := view.NewMemory()
	g := NewGallery(api, v, backend.CategoryTrial, zerolog.Nop())
	before := testutil.ToFloat64(metrics.StaleResponsesTotal.WithLabelValues("gallery"))

	done := make(chan error, 1)
	go func() { done <- g.Refresh(context.Background()) }()
	<-started

	require.NoError(t, g.SetCategory(context.Background(), backend.CategorySummary))
	rendersAfterSwitch := v.Snapshot().Renders
	close(release)
	require.NoError(t, <-done)

	s := v.Snapshot()
	assert.Equal(t, rendersAfterSwitch, s.Renders)
	assert.Equal(t, []view.Entry{{Name: "grafico_atrito_medio.png"}}, s.Entries)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.StaleResponsesTotal.WithLabelValues("gallery")))
}

func TestGallery_RefreshFailureKeepsEntries(t *testing.T) {
	fail := false
	api := &fakeAPI{listing: func() (backend.Listing, error) {
		if fail {
			return nil, errOffline
		}
		return backend.Listing{backend.CategoryTrial: {"x.png"}}, nil
	}}
	v := view.NewMemory()
	g := NewGallery(api, v, backend.CategoryTrial, zerolog.Nop())
	require.NoError(t, g.Refresh(context.Background()))

	fail = true
	require.Error(t, g.Refresh(context.Background()))

	s := v.Snapshot()
	assert.Equal(t, "Failed to load charts", s.StatusText)
	assert.Equal(t, view.StyleError, s.StatusStyle)
	assert.Equal(t, []view.Entry{{Name: "x.png"}}, s.Entries)
}

func TestGallery_TabSwitchFailureRendersNewTab(t *testing.T) {
	tests := []struct {
		name        string
		listing     backend.Listing
		wantEntries []view.Entry
		wantEmpty   string
	}{
		{
			name:      "new tab never listed",
			listing:   backend.Listing{backend.CategoryTrial: {"t1.png", "t2.png"}},
			wantEmpty: "No charts found.",
		},
		{
			name: "new tab has cached entries",
			listing: backend.Listing{
				backend.CategoryTrial:    {"t1.png", "t2.png"},
				backend.CategoryAnalysis: {"grafico_01_mu_s.png"},
			},
			wantEntries: []view.Entry{{Name: "grafico_01_mu_s.png"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fail := false
			api := &fakeAPI{listing: func() (backend.Listing, error) {
				if fail {
					return nil, errOffline
				}
				return tt.listing, nil
			}}
			v := view.NewMemory()
			g := NewGallery(api, v, backend.CategoryTrial, zerolog.Nop())
			require.NoError(t, g.Refresh(context.Background()))
			require.Len(t, v.Snapshot().Entries, 2)

			fail = true
			require.Error(t, g.SetCategory(context.Background(), backend.CategoryAnalysis))

			s := v.Snapshot()
			assert.Equal(t, backend.CategoryAnalysis, s.ActiveTab)
			assert.Equal(t, tt.wantEntries, s.Entries)
			assert.Equal(t, tt.wantEmpty, s.GalleryEmpty)
			assert.Equal(t, "Failed to load charts", s.StatusText)
		})
	}
}

func TestGallery_ViewWritesDoNotHoldLock(t *testing.T) {
	api := &fakeAPI{listing: staticListing(backend.Listing{
		backend.CategoryTrial: {"a.png"},
	})}
	v := newBlockingView()
	g := NewGallery(api, v, backend.CategoryTrial, zerolog.Nop())

	done := make(chan error, 1)
	go func() { done <- g.Refresh(context.Background()) }()
	<-v.entered

	// the view is blocked mid-render; readers must still get through
	assert.Equal(t, backend.CategoryTrial, g.Active())
	assert.Equal(t, "", g.Selected())
	assert.Equal(t, []string{"a.png"}, g.Entries())

	close(v.release)
	require.NoError(t, <-done)
	assert.Equal(t, []view.Entry{{Name: "a.png"}}, v.Snapshot().Entries)
}

func TestGallery_SelectionSurvivesRefresh(t *testing.T) {
	names := []string{"a.png", "b.png"}
	api := &fakeAPI{listing: func() (backend.Listing, error) {
		return backend.Listing{backend.CategoryTrial: names}, nil
	}}
	v := view.NewMemory()
	g := NewGallery(api, v, backend.CategoryTrial, zerolog.Nop())
	require.NoError(t, g.Refresh(context.Background()))
	g.SelectEntry("a.png")

	names = []string{"a.png", "b.png", "c.png"}
	require.NoError(t, g.Refresh(context.Background()))

	s := v.Snapshot()
	require.Len(t, s.Entries, 3)
	assert.True(t, s.Entries[0].Selected)
	assert.False(t, s.Entries[1].Selected)
	assert.Equal(t, "/files/a.png", s.PreviewSrc)
}
