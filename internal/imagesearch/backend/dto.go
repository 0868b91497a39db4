package backend

// Image is a single image returned by the search endpoint.
type Image struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// SearchResponse is the body of `GET /api/imagesearch`.
type SearchResponse struct {
	Images     []Image `json:"images"`
	TotalPages int     `json:"totalPages"`
}

// RecentSearch is one search recorded by the backend.
type RecentSearch struct {
	ID   string `json:"_id"`
	Term string `json:"term,omitempty"`
}

// RecentResponse is the body of `GET /api/recent`.
type RecentResponse struct {
	RecentSearches []RecentSearch `json:"recentSearches"`
}
