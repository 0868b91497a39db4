// Package mockbackend serves an in-memory image search backend for local runs and tests.
package mockbackend

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	gmw "github.com/Laisky/gin-middlewares/v7"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Laisky/image-search-client/internal/imagesearch/backend"
	"github.com/Laisky/image-search-client/library/log"
)

const (
	defaultPageSize      = 10
	defaultResultPerTerm = 25
	defaultRecentLimit   = 10
)

// Option configures a Server.
type Option func(*Server)

// WithPageSize sets how many images a page holds.
func WithPageSize(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithResultsPerTerm sets how many images every term matches.
func WithResultsPerTerm(n int) Option {
	return func(s *Server) {
		if n >= 0 {
			s.resultsPerTerm = n
		}
	}
}

// WithRecentLimit bounds the recorded search history.
func WithRecentLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.recentLimit = n
		}
	}
}

// WithLogger overrides the server logger.
func WithLogger(logger logSDK.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Server is a fake backend that generates images for any term
// and records every search it answers.
type Server struct {
	pageSize       int
	resultsPerTerm int
	recentLimit    int
	logger         logSDK.Logger

	mu           sync.Mutex
	recent       []backend.RecentSearch
	searchStatus int
	recentStatus int
	searchHits   int
	recentHits   int
}

// New returns a Server with an empty history.
func New(opts ...Option) *Server {
	s := &Server{
		pageSize:       defaultPageSize,
		resultsPerTerm: defaultResultPerTerm,
		recentLimit:    defaultRecentLimit,
		logger:         log.Logger.Named("mock_backend"),
		recent:         []backend.RecentSearch{},
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// FailSearch makes the search endpoint answer with status, 0 restores it.
func (s *Server) FailSearch(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchStatus = status
}

// FailRecent makes the recent endpoint answer with status, 0 restores it.
func (s *Server) FailRecent(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recentStatus = status
}

// Hits returns how many requests each endpoint received.
func (s *Server) Hits() (search, recent int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchHits, s.recentHits
}

// Record adds term to the history as if it had been searched.
func (s *Server) Record(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordLocked(term)
}

func (s *Server) recordLocked(term string) {
	entry := backend.RecentSearch{ID: uuid.NewString(), Term: term}
	s.recent = append([]backend.RecentSearch{entry}, s.recent...)
	if len(s.recent) > s.recentLimit {
		s.recent = s.recent[:s.recentLimit]
	}
}

// Handler builds the gin engine serving the backend api.
func (s *Server) Handler() http.Handler {
	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		gmw.NewLoggerMiddleware(
			gmw.WithLogger(s.logger.Named("gin")),
		),
	)

	engine.GET("/health", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "hello, world")
	})

	api := engine.Group("/api")
	api.GET("/imagesearch", s.search)
	api.GET("/recent", s.listRecent)

	return engine
}

// Run serves on addr until the listener fails.
func (s *Server) Run(addr string) error {
	s.logger.Info("listening on http", zap.String("addr", addr))
	return http.ListenAndServe(addr, s.Handler()) // nolint: gosec
}

func (s *Server) search(ctx *gin.Context) {
	logger := gmw.GetLogger(ctx)
	term := strings.TrimSpace(ctx.Query("term"))

	page := 1
	if raw := ctx.Query("page"); raw != "" {
		var err error
		if page, err = strconv.Atoi(raw); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "page must be an integer"})
			return
		}
	}

	s.mu.Lock()
	s.searchHits++
	status := s.searchStatus
	if status == 0 && term != "" {
		s.recordLocked(term)
	}
	s.mu.Unlock()

	if status != 0 {
		ctx.JSON(status, gin.H{"error": http.StatusText(status)})
		return
	}
	if term == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "term is required"})
		return
	}

	images := s.page(term, page)
	logger.Debug("answer image search",
		zap.String("term", term),
		zap.Int("page", page),
		zap.Int("images", len(images)))

	ctx.JSON(http.StatusOK, backend.SearchResponse{
		Images:     images,
		TotalPages: s.totalPages(),
	})
}

func (s *Server) listRecent(ctx *gin.Context) {
	s.mu.Lock()
	s.recentHits++
	status := s.recentStatus
	recent := make([]backend.RecentSearch, len(s.recent))
	copy(recent, s.recent)
	s.mu.Unlock()

	if status != 0 {
		ctx.JSON(status, gin.H{"error": http.StatusText(status)})
		return
	}

	ctx.JSON(http.StatusOK, backend.RecentResponse{RecentSearches: recent})
}

func (s *Server) totalPages() int {
	return (s.resultsPerTerm + s.pageSize - 1) / s.pageSize
}

// page returns the images of term on page, empty when page is out of range.
func (s *Server) page(term string, page int) []backend.Image {
	images := []backend.Image{}
	if page < 1 || page > s.totalPages() {
		return images
	}

	start := (page - 1) * s.pageSize
	for i := start; i < start+s.pageSize && i < s.resultsPerTerm; i++ {
		id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("%s#%d", term, i)))
		img := backend.Image{
			ID:  id.String(),
			URL: fmt.Sprintf("https://images.example.com/%s.jpg", id),
		}
		// every third image comes without a description
		if i%3 != 2 {
			img.Description = fmt.Sprintf("%s #%d", term, i+1)
		}
		images = append(images, img)
	}

	return images
}
