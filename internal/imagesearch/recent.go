package imagesearch

import (
	"context"

	"github.com/Laisky/errors/v2"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"

	"github.com/Laisky/image-search-client/internal/imagesearch/backend"
	"github.com/Laisky/image-search-client/library/log"
)

// MissingTermLabel is shown for recent searches recorded without a term.
const MissingTermLabel = "No term available"

// RecentLister is the part of the backend the recent searches view reads.
type RecentLister interface {
	RecentSearches(ctx context.Context) (*backend.RecentResponse, error)
}

// RecentSearch is a search recorded by the backend.
type RecentSearch struct {
	ID   string
	Term string
}

// Label returns the term, or MissingTermLabel when the backend recorded none.
func (r RecentSearch) Label() string {
	if r.Term == "" {
		return MissingTermLabel
	}
	return r.Term
}

// RecentOutcome is the resolution of a recent searches request.
type RecentOutcome struct {
	Entries []RecentSearch
	Err     error
}

// RecentSearchesView caches the recent searches fetched at start-up.
//
// The cache is never refreshed by searches issued afterwards.
type RecentSearchesView struct {
	lister  RecentLister
	logger  logSDK.Logger
	entries []RecentSearch
	lastErr error
}

// NewRecentSearchesView builds an empty view reading from lister.
func NewRecentSearchesView(lister RecentLister, logger logSDK.Logger) (*RecentSearchesView, error) {
	if lister == nil {
		return nil, errors.New("recent lister cannot be nil")
	}
	if logger == nil {
		logger = log.Logger.Named("recent_searches")
	}

	return &RecentSearchesView{
		lister:  lister,
		logger:  logger,
		entries: []RecentSearch{},
	}, nil
}

// Fetch requests the recent searches without touching the cache.
func (v *RecentSearchesView) Fetch(ctx context.Context) RecentOutcome {
	resp, err := v.lister.RecentSearches(ctx)
	if err != nil {
		return RecentOutcome{Err: err}
	}

	entries := make([]RecentSearch, 0, len(resp.RecentSearches))
	for _, s := range resp.RecentSearches {
		entries = append(entries, RecentSearch{ID: s.ID, Term: s.Term})
	}
	return RecentOutcome{Entries: entries}
}

// Apply replaces the cache with out, or empties it when out failed.
func (v *RecentSearchesView) Apply(out RecentOutcome) {
	if out.Err != nil {
		v.logger.Error("fetch recent searches", zap.Error(out.Err))
		v.entries = []RecentSearch{}
		v.lastErr = out.Err
		return
	}

	v.entries = out.Entries
	if v.entries == nil {
		v.entries = []RecentSearch{}
	}
	v.lastErr = nil
	v.logger.Debug("apply recent searches", zap.Int("entries", len(v.entries)))
}

// Load fetches and applies on the calling goroutine.
func (v *RecentSearchesView) Load(ctx context.Context) {
	v.Apply(v.Fetch(ctx))
}

// Entries returns a copy of the cached searches in backend order.
func (v *RecentSearchesView) Entries() []RecentSearch {
	entries := make([]RecentSearch, len(v.entries))
	copy(entries, v.entries)
	return entries
}

// Err returns the error of the last load, if any
func (v *RecentSearchesView) Err() error {
	return v.lastErr
}
