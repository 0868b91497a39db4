package imagesearch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Laisky/image-search-client/internal/imagesearch"
	"github.com/Laisky/image-search-client/internal/imagesearch/backend"
	"github.com/Laisky/image-search-client/internal/mockbackend"
)

func startBackend(t *testing.T, opts ...mockbackend.Option) (*mockbackend.Server, *backend.Client) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := mockbackend.New(opts...)
	httpSrv := httptest.NewServer(srv.Handler())
	t.Cleanup(httpSrv.Close)

	client, err := backend.NewClient(httpSrv.URL, backend.WithHTTPClient(httpSrv.Client()))
	require.NoError(t, err)
	return srv, client
}

func TestEndToEndSearchAndPaginate(t *testing.T) {
	srv, client := startBackend(t,
		mockbackend.WithPageSize(2),
		mockbackend.WithResultsPerTerm(6),
	)
	ctx := context.Background()

	view, err := imagesearch.NewRecentSearchesView(client, nil)
	require.NoError(t, err)
	view.Load(ctx)
	require.Empty(t, view.Entries())

	c, err := imagesearch.NewSearchController(client)
	require.NoError(t, err)

	q, ok := c.SubmitSearch("cats")
	require.True(t, ok)
	require.True(t, c.Run(ctx, q))

	snap := c.Snapshot()
	require.Len(t, snap.Images, 2)
	require.Equal(t, 3, snap.TotalPages)
	require.Equal(t, []imagesearch.PageControl{
		{Page: 1, Active: true},
		{Page: 2},
		{Page: 3},
	}, snap.Pages)
	pageOne := snap.Images

	q, ok = c.ChangePage(2)
	require.True(t, ok)
	require.True(t, c.Run(ctx, q))

	snap = c.Snapshot()
	require.Len(t, snap.Images, 2)
	for _, img := range snap.Images {
		require.NotContains(t, pageOne, img)
	}
	require.True(t, snap.Pages[1].Active)

	// the backend recorded both searches, the cached view does not know
	searchHits, recentHits := srv.Hits()
	require.Equal(t, 2, searchHits)
	require.Equal(t, 1, recentHits)
	require.Empty(t, view.Entries())
}

func TestEndToEndBackendFailure(t *testing.T) {
	srv, client := startBackend(t)
	ctx := context.Background()

	srv.Record("earlier")
	view, err := imagesearch.NewRecentSearchesView(client, nil)
	require.NoError(t, err)
	c, err := imagesearch.NewSearchController(client)
	require.NoError(t, err)

	q, _ := c.SubmitSearch("cats")
	require.True(t, c.Run(ctx, q))
	require.NotEmpty(t, c.Snapshot().Images)
	totalPages := c.Snapshot().TotalPages

	srv.FailSearch(http.StatusInternalServerError)
	q, _ = c.ChangePage(2)
	require.True(t, c.Run(ctx, q))
	require.Empty(t, c.Snapshot().Images)
	require.Equal(t, totalPages, c.Snapshot().TotalPages)

	kind, ok := backend.KindOf(c.Err())
	require.True(t, ok)
	require.Equal(t, backend.KindStatus, kind)

	srv.FailRecent(http.StatusBadGateway)
	view.Load(ctx)
	require.Empty(t, view.Entries())
	require.Error(t, view.Err())
}
