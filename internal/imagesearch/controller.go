// Package imagesearch coordinates searching, paging and the recent searches list.
//
// Neither SearchController nor RecentSearchesView is safe for concurrent
// mutation. Both are meant to be driven from a single UI loop: Fetch may run
// on any goroutine, Apply and the other mutating methods must run on the loop.
package imagesearch

import (
	"context"
	"strings"

	"github.com/Laisky/errors/v2"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"

	"github.com/Laisky/image-search-client/internal/imagesearch/backend"
	"github.com/Laisky/image-search-client/library/log"
)

// ImageSearcher is the part of the backend the controller queries.
type ImageSearcher interface {
	SearchImages(ctx context.Context, term string, page int) (*backend.SearchResponse, error)
}

// Image is a single renderable search result.
type Image struct {
	ID          string
	URL         string
	Description string
}

// Query is one issued search request.
type Query struct {
	Term string
	Page int
	// Seq increases with every issued query, only the latest one is applied.
	Seq uint64
}

// ResultSet is the page of images currently on display.
type ResultSet struct {
	Images     []Image
	TotalPages int
}

// PageControl is one selectable page.
type PageControl struct {
	Page   int
	Active bool
}

// Outcome is the resolution of a Query.
type Outcome struct {
	Query  Query
	Result ResultSet
	Err    error
}

// Snapshot is a read-only copy of the controller state.
type Snapshot struct {
	Term       string
	Page       int
	Images     []Image
	TotalPages int
	Pages      []PageControl
	Err        error
}

// MaxPageControls bounds the page controls listed at once.
// Larger results get a window of pages around the current one.
const MaxPageControls = 100

// ControllerOption customises a SearchController.
type ControllerOption func(*SearchController)

// WithControllerLogger overrides the controller logger.
func WithControllerLogger(logger logSDK.Logger) ControllerOption {
	return func(c *SearchController) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// SearchController owns the search term, current page and displayed results.
type SearchController struct {
	searcher ImageSearcher
	logger   logSDK.Logger

	term    string
	page    int
	result  ResultSet
	lastErr error
	seq     uint64
}

// NewSearchController builds a controller that queries searcher.
func NewSearchController(searcher ImageSearcher, opts ...ControllerOption) (*SearchController, error) {
	if searcher == nil {
		return nil, errors.New("image searcher cannot be nil")
	}

	c := &SearchController{
		searcher: searcher,
		logger:   log.Logger.Named("search_controller"),
		page:     1,
		result:   ResultSet{Images: []Image{}},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// SubmitSearch starts a new search for term at page 1.
//
// It returns false and leaves every state untouched when the trimmed
// term is empty, otherwise the returned query must be fetched.
func (c *SearchController) SubmitSearch(term string) (Query, bool) {
	term = strings.TrimSpace(term)
	if term == "" {
		return Query{}, false
	}

	c.term = term
	c.page = 1
	return c.issue(), true
}

// ChangePage re-queries the last submitted term at page.
//
// Nothing is issued before the first search. page is not checked
// against the total page count, the backend decides what it means.
func (c *SearchController) ChangePage(page int) (Query, bool) {
	if c.term == "" {
		c.logger.Debug("ignore page change before any search", zap.Int("page", page))
		return Query{}, false
	}

	c.page = page
	return c.issue(), true
}

func (c *SearchController) issue() Query {
	c.seq++
	q := Query{Term: c.term, Page: c.page, Seq: c.seq}
	c.logger.Debug("issue search query",
		zap.String("term", q.Term),
		zap.Int("page", q.Page),
		zap.Uint64("seq", q.Seq))
	return q
}

// Fetch performs q against the backend.
//
// It does not touch controller state and may run off the UI loop.
func (c *SearchController) Fetch(ctx context.Context, q Query) Outcome {
	out := Outcome{Query: q}
	resp, err := c.searcher.SearchImages(ctx, q.Term, q.Page)
	if err != nil {
		out.Err = err
		return out
	}

	images := make([]Image, 0, len(resp.Images))
	for _, img := range resp.Images {
		images = append(images, Image{
			ID:          img.ID,
			URL:         img.URL,
			Description: img.Description,
		})
	}
	out.Result = ResultSet{Images: images, TotalPages: resp.TotalPages}
	return out
}

// Apply reconciles out into the displayed state and reports whether it was applied.
//
// Outcomes of superseded queries are dropped. A failed outcome empties the
// images and keeps the previous page count, the error only goes to the log
// and to the error slot returned by Err.
func (c *SearchController) Apply(out Outcome) bool {
	logger := c.logger.With(
		zap.String("term", out.Query.Term),
		zap.Int("page", out.Query.Page),
		zap.Uint64("seq", out.Query.Seq),
	)

	if out.Query.Seq != c.seq {
		logger.Debug("discard stale search outcome", zap.Uint64("latest_seq", c.seq))
		return false
	}

	if out.Err != nil {
		logger.Error("fetch images", zap.Error(out.Err))
		c.result.Images = []Image{}
		c.lastErr = out.Err
		return true
	}

	images := out.Result.Images
	if images == nil {
		images = []Image{}
	}
	c.result = ResultSet{Images: images, TotalPages: out.Result.TotalPages}
	c.lastErr = nil
	if out.Result.TotalPages > MaxPageControls {
		logger.Warn("too many pages, only list a window of page controls",
			zap.Int("total_pages", out.Result.TotalPages),
			zap.Int("max_page_controls", MaxPageControls))
	}
	logger.Debug("apply search outcome",
		zap.Int("images", len(images)),
		zap.Int("total_pages", out.Result.TotalPages))
	return true
}

// Run fetches q and applies the outcome on the calling goroutine.
func (c *SearchController) Run(ctx context.Context, q Query) bool {
	return c.Apply(c.Fetch(ctx, q))
}

// Term returns the last submitted term
func (c *SearchController) Term() string {
	return c.term
}

// Page returns the current page
func (c *SearchController) Page() int {
	return c.page
}

// TotalPages returns the page count of the displayed result
func (c *SearchController) TotalPages() int {
	return c.result.TotalPages
}

// Err returns the error of the last applied outcome, nil after a success.
func (c *SearchController) Err() error {
	return c.lastErr
}

// PageControls lists one control per page when there is more than one page.
//
// At most MaxPageControls controls are returned, a window around the
// current page when the result has more pages than that.
func (c *SearchController) PageControls() []PageControl {
	total := c.result.TotalPages
	if total <= 1 {
		return nil
	}

	first, last := 1, total
	if total > MaxPageControls {
		if c.page > MaxPageControls/2 {
			first = c.page - MaxPageControls/2
		}
		if limit := total - MaxPageControls + 1; first > limit {
			first = limit
		}
		last = first + MaxPageControls - 1
	}

	pages := make([]PageControl, 0, last-first+1)
	for p := first; p <= last; p++ {
		pages = append(pages, PageControl{Page: p, Active: p == c.page})
	}
	return pages
}

// Snapshot copies the current state.
func (c *SearchController) Snapshot() Snapshot {
	images := make([]Image, len(c.result.Images))
	copy(images, c.result.Images)

	return Snapshot{
		Term:       c.term,
		Page:       c.page,
		Images:     images,
		TotalPages: c.result.TotalPages,
		Pages:      c.PageControls(),
		Err:        c.lastErr,
	}
}
