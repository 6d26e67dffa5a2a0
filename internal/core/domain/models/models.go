package models

import (
	"errors"
	"sort"
	"strings"
)

// ErrCatalogUnavailable is returned when the root feed cannot be fetched or parsed.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// Book is a normalized catalog record. Empty optional strings mean "absent".
type Book struct {
	ID            string   `json:"id" yaml:"id"`
	Title         string   `json:"title" yaml:"title"`
	Author        string   `json:"author" yaml:"author"`
	Summary       string   `json:"summary" yaml:"summary"`
	Cover         string   `json:"cover" yaml:"cover"`
	DownloadLink  string   `json:"download_link" yaml:"download_link"`
	Language      string   `json:"language" yaml:"language"`
	Level         string   `json:"level,omitempty" yaml:"level,omitempty"`
	Categories    []string `json:"categories" yaml:"categories"`
	Tags          []string `json:"tags" yaml:"tags"`
	Publisher     string   `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	PublishedDate string   `json:"published_date,omitempty" yaml:"published_date,omitempty"`
	Rating        *float64 `json:"rating,omitempty" yaml:"rating,omitempty"`
}

// DateFilter selects a publication window or an ordering.
type DateFilter string

const (
	DateAll        DateFilter = "all"
	DateNewest     DateFilter = "newest"
	DateOldest     DateFilter = "oldest"
	DateLast30Days DateFilter = "last30days"
	DateLastYear   DateFilter = "lastyear"
)

// ParseDateFilter maps unknown values to DateAll.
func ParseDateFilter(s string) DateFilter {
	switch f := DateFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case DateNewest, DateOldest, DateLast30Days, DateLastYear:
		return f
	default:
		return DateAll
	}
}

// Selection is a set of facet values. An empty selection accepts everything.
type Selection map[string]struct{}

func NewSelection(values ...string) Selection {
	s := make(Selection, len(values))
	for _, v := range values {
		s.Add(v)
	}
	return s
}

func (s Selection) Add(v string) {
	if v = strings.TrimSpace(v); v != "" {
		s[v] = struct{}{}
	}
}

func (s Selection) Has(v string) bool {
	_, ok := s[v]
	return ok
}

func (s Selection) Len() int { return len(s) }

// Values returns the selected values sorted.
func (s Selection) Values() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// FilterState is the caller-owned facet selection.
type FilterState struct {
	Languages   Selection  `json:"languages"`
	Levels      Selection  `json:"levels"`
	Categories  Selection  `json:"categories"`
	Publishers  Selection  `json:"publishers"`
	Date        DateFilter `json:"date"`
	SearchQuery string     `json:"search_query"`
}

// FilterOptions lists the selectable values per facet.
type FilterOptions struct {
	Languages  []string `json:"languages" yaml:"languages"`
	Levels     []string `json:"levels" yaml:"levels"`
	Categories []string `json:"categories" yaml:"categories"`
	Publishers []string `json:"publishers" yaml:"publishers"`
}

type SearchResult struct {
	Book  Book    `json:"book" yaml:"book"`
	Score float64 `json:"score" yaml:"score"`
}
