package imagesearch

import (
	"context"
	"strings"
	"testing"

	"github.com/Laisky/errors/v2"
	"github.com/stretchr/testify/require"

	"github.com/Laisky/image-search-client/internal/imagesearch/backend"
)

type searchCall struct {
	term string
	page int
}

type testSearcher struct {
	calls []searchCall
	resp  map[int]*backend.SearchResponse
	err   error
}

func (s *testSearcher) SearchImages(_ context.Context, term string, page int) (*backend.SearchResponse, error) {
	s.calls = append(s.calls, searchCall{term: term, page: page})
	if s.err != nil {
		return nil, s.err
	}
	if resp, ok := s.resp[page]; ok {
		return resp, nil
	}
	return &backend.SearchResponse{Images: []backend.Image{}}, nil
}

func catsSearcher() *testSearcher {
	return &testSearcher{resp: map[int]*backend.SearchResponse{
		1: {
			Images: []backend.Image{
				{ID: "1", URL: "https://img/1.png", Description: "tabby"},
				{ID: "2", URL: "https://img/2.png"},
			},
			TotalPages: 3,
		},
		2: {
			Images:     []backend.Image{{ID: "3", URL: "https://img/3.png", Description: "calico"}},
			TotalPages: 3,
		},
	}}
}

func newTestController(t *testing.T, searcher ImageSearcher) *SearchController {
	t.Helper()
	c, err := NewSearchController(searcher)
	require.NoError(t, err)
	return c
}

func TestNewSearchControllerRequiresSearcher(t *testing.T) {
	_, err := NewSearchController(nil)
	require.Error(t, err)
}

func TestSubmitSearchIssuesFirstPage(t *testing.T) {
	c := newTestController(t, catsSearcher())

	for _, term := range []string{"cats", "  dogs ", "a b", "猫"} {
		c.ChangePage(5)
		q, ok := c.SubmitSearch(term)
		require.True(t, ok)
		require.Equal(t, 1, q.Page)
		require.Equal(t, 1, c.Page())
		require.Equal(t, strings.TrimSpace(term), q.Term)
		require.Equal(t, q.Term, c.Term())
	}
}

func TestSubmitSearchBlankTermIsNoop(t *testing.T) {
	searcher := catsSearcher()
	c := newTestController(t, searcher)

	q, ok := c.SubmitSearch("cats")
	require.True(t, ok)
	require.True(t, c.Run(context.Background(), q))
	before := c.Snapshot()

	for _, term := range []string{"", "   ", "\t\n"} {
		_, ok := c.SubmitSearch(term)
		require.False(t, ok)
	}

	require.Equal(t, before, c.Snapshot())
	require.Len(t, searcher.calls, 1)
}

func TestChangePageBeforeSearchIsNoop(t *testing.T) {
	searcher := catsSearcher()
	c := newTestController(t, searcher)

	_, ok := c.ChangePage(2)
	require.False(t, ok)
	require.Equal(t, 1, c.Page())
	require.Empty(t, searcher.calls)
}

func TestSearchAndPaginate(t *testing.T) {
	searcher := catsSearcher()
	c := newTestController(t, searcher)
	ctx := context.Background()

	q, ok := c.SubmitSearch("cats")
	require.True(t, ok)
	require.True(t, c.Run(ctx, q))

	snap := c.Snapshot()
	require.Equal(t, []Image{
		{ID: "1", URL: "https://img/1.png", Description: "tabby"},
		{ID: "2", URL: "https://img/2.png"},
	}, snap.Images)
	require.Equal(t, 3, snap.TotalPages)
	require.Equal(t, []PageControl{
		{Page: 1, Active: true},
		{Page: 2},
		{Page: 3},
	}, snap.Pages)
	require.NoError(t, snap.Err)

	q, ok = c.ChangePage(2)
	require.True(t, ok)
	require.Equal(t, "cats", q.Term)
	require.Equal(t, 2, q.Page)
	require.True(t, c.Run(ctx, q))

	snap = c.Snapshot()
	require.Equal(t, []Image{{ID: "3", URL: "https://img/3.png", Description: "calico"}}, snap.Images)
	require.Equal(t, []PageControl{
		{Page: 1},
		{Page: 2, Active: true},
		{Page: 3},
	}, snap.Pages)

	require.Equal(t, []searchCall{{"cats", 1}, {"cats", 2}}, searcher.calls)
}

func TestPageControlsOnlyWhenPaginated(t *testing.T) {
	searcher := &testSearcher{resp: map[int]*backend.SearchResponse{
		1: {Images: []backend.Image{{ID: "1"}}, TotalPages: 1},
	}}
	c := newTestController(t, searcher)

	q, _ := c.SubmitSearch("single")
	c.Run(context.Background(), q)
	require.Empty(t, c.PageControls())
	require.Equal(t, 1, c.Snapshot().TotalPages)
}

func TestPageControlsWindowForHugeTotalPages(t *testing.T) {
	const total = 1 << 62
	searcher := &testSearcher{resp: map[int]*backend.SearchResponse{
		1:     {Images: []backend.Image{{ID: "1"}}, TotalPages: total},
		500:   {Images: []backend.Image{{ID: "500"}}, TotalPages: total},
		total: {Images: []backend.Image{{ID: "last"}}, TotalPages: total},
	}}
	c := newTestController(t, searcher)
	ctx := context.Background()

	q, _ := c.SubmitSearch("cats")
	require.NotPanics(t, func() { c.Run(ctx, q) })

	var snap Snapshot
	require.NotPanics(t, func() { snap = c.Snapshot() })
	require.Equal(t, total, snap.TotalPages)
	require.Len(t, snap.Pages, MaxPageControls)
	require.Equal(t, PageControl{Page: 1, Active: true}, snap.Pages[0])
	require.Equal(t, MaxPageControls, snap.Pages[MaxPageControls-1].Page)

	q, _ = c.ChangePage(500)
	c.Run(ctx, q)
	pages := c.PageControls()
	require.Len(t, pages, MaxPageControls)
	require.Equal(t, 500-MaxPageControls/2, pages[0].Page)
	require.True(t, pages[MaxPageControls/2].Active)

	q, _ = c.ChangePage(total)
	c.Run(ctx, q)
	pages = c.PageControls()
	require.Len(t, pages, MaxPageControls)
	require.Equal(t, total, pages[MaxPageControls-1].Page)
	require.True(t, pages[MaxPageControls-1].Active)
}

func TestFetchIsIdempotent(t *testing.T) {
	c := newTestController(t, catsSearcher())
	ctx := context.Background()

	q, _ := c.SubmitSearch("cats")
	require.True(t, c.Run(ctx, q))
	first := c.Snapshot()

	require.True(t, c.Apply(c.Fetch(ctx, q)))
	require.Equal(t, first, c.Snapshot())
	require.Len(t, c.Snapshot().Images, 2)
}

func TestFailureEmptiesImagesAndKeepsTotalPages(t *testing.T) {
	searcher := catsSearcher()
	c := newTestController(t, searcher)
	ctx := context.Background()

	q, _ := c.SubmitSearch("cats")
	require.True(t, c.Run(ctx, q))

	searcher.err = &backend.Error{Kind: backend.KindStatus, StatusCode: 500, Err: errors.New("boom")}
	q, _ = c.ChangePage(2)
	require.True(t, c.Run(ctx, q))

	snap := c.Snapshot()
	require.NotNil(t, snap.Images)
	require.Empty(t, snap.Images)
	require.Equal(t, 3, snap.TotalPages)
	require.Equal(t, 2, snap.Page)
	require.Error(t, snap.Err)

	kind, ok := backend.KindOf(c.Err())
	require.True(t, ok)
	require.Equal(t, backend.KindStatus, kind)

	// a later success clears the error slot
	searcher.err = nil
	q, _ = c.ChangePage(1)
	require.True(t, c.Run(ctx, q))
	require.NoError(t, c.Err())
	require.Len(t, c.Snapshot().Images, 2)
}

func TestStaleOutcomeIsDiscarded(t *testing.T) {
	searcher := catsSearcher()
	c := newTestController(t, searcher)
	ctx := context.Background()

	first, _ := c.SubmitSearch("cats")
	second, _ := c.ChangePage(2)
	require.Greater(t, second.Seq, first.Seq)

	secondOut := c.Fetch(ctx, second)
	firstOut := c.Fetch(ctx, first)

	// responses resolve out of order
	require.True(t, c.Apply(secondOut))
	require.False(t, c.Apply(firstOut))

	snap := c.Snapshot()
	require.Equal(t, 2, snap.Page)
	require.Equal(t, []Image{{ID: "3", URL: "https://img/3.png", Description: "calico"}}, snap.Images)
}

func TestStaleFailureDoesNotClearResults(t *testing.T) {
	c := newTestController(t, catsSearcher())
	ctx := context.Background()

	old, _ := c.SubmitSearch("dogs")
	latest, _ := c.SubmitSearch("cats")
	require.True(t, c.Run(ctx, latest))

	require.False(t, c.Apply(Outcome{Query: old, Err: errors.New("timeout")}))
	require.Len(t, c.Snapshot().Images, 2)
	require.NoError(t, c.Err())
}

func TestSnapshotIsACopy(t *testing.T) {
	c := newTestController(t, catsSearcher())
	q, _ := c.SubmitSearch("cats")
	c.Run(context.Background(), q)

	snap := c.Snapshot()
	snap.Images[0].ID = "mutated"
	require.Equal(t, "1", c.Snapshot().Images[0].ID)
}
