// Package search ranks books against a free-text query.
//
// Every field is scored against the whole lower-cased query with a three-tier
// match (exact, prefix, contains). Term lists saturate so a book tagged with
// ten variants of the query does not outrank an exact title hit.
package search

import (
	"math"
	"sort"
	"storyshelf/internal/core/domain/models"
	"strings"
	"unicode/utf8"
)

const (
	DefaultMaxResults     = 1000
	DefaultMinQueryLength = 2

	matchExact    = 1.0
	matchPrefix   = 0.8
	matchContains = 0.5

	ratingBoostFloor = 3.0
	ratingBoostMax   = 0.1
)

// Weights are the per-field contributions to a score.
type Weights struct {
	Title       float64
	Author      float64
	Publisher   float64
	Language    float64
	Summary     float64
	SummaryDamp float64
	Tags        float64
	TagCap      int
	Categories  float64
	CategoryCap int
}

// DefaultWeights favours titles, then authors and tags.
var DefaultWeights = Weights{
	Title:       0.40,
	Author:      0.15,
	Publisher:   0.10,
	Language:    0.05,
	Summary:     0.05,
	SummaryDamp: 0.5,
	Tags:        0.12,
	TagCap:      3,
	Categories:  0.06,
	CategoryCap: 2,
}

type Searcher struct {
	Weights        Weights
	MaxResults     int
	MinQueryLength int
}

func NewSearcher() *Searcher {
	return &Searcher{
		Weights:        DefaultWeights,
		MaxResults:     DefaultMaxResults,
		MinQueryLength: DefaultMinQueryLength,
	}
}

// Search returns the books with a non-zero score, best first. Ties keep
// catalog order. Results beyond MaxResults are dropped, not paginated.
func (s *Searcher) Search(books []models.Book, query string) []models.SearchResult {
	q := normalizeQuery(query)
	if q == "" || utf8.RuneCountInString(q) < s.MinQueryLength {
		return []models.SearchResult{}
	}

	results := make([]models.SearchResult, 0)
	for _, b := range books {
		if score := s.Score(b, q); score > 0 {
			results = append(results, models.SearchResult{Book: b, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if s.MaxResults > 0 && len(results) > s.MaxResults {
		results = results[:s.MaxResults]
	}
	return results
}

// Score rates one book against an already normalized query.
func (s *Searcher) Score(b models.Book, q string) float64 {
	w := s.Weights
	score := w.Title*matchStrength(b.Title, q) +
		w.Author*matchStrength(b.Author, q) +
		w.Publisher*matchStrength(b.Publisher, q) +
		w.Language*matchStrength(b.Language, q) +
		w.Summary*w.SummaryDamp*matchStrength(b.Summary, q) +
		w.Tags*saturate(countMatches(b.Tags, q), w.TagCap) +
		w.Categories*saturate(countMatches(b.Categories, q), w.CategoryCap)

	if score == 0 {
		return 0
	}
	if b.Rating != nil && *b.Rating > ratingBoostFloor {
		score *= 1 + (*b.Rating/5)*ratingBoostMax
	}
	return math.Min(1, math.Max(0, score))
}

// Tokenize splits a query into lower-cased words. Scoring itself uses the
// whole query.
func Tokenize(query string) []string {
	return strings.Fields(normalizeQuery(query))
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

func matchStrength(field, q string) float64 {
	if field == "" {
		return 0
	}
	f := strings.ToLower(field)
	switch {
	case f == q:
		return matchExact
	case strings.HasPrefix(f, q):
		return matchPrefix
	case strings.Contains(f, q):
		return matchContains
	default:
		return 0
	}
}

func countMatches(terms []string, q string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(strings.ToLower(t), q) {
			n++
		}
	}
	return n
}

func saturate(n, limit int) float64 {
	if n <= 0 || limit <= 0 {
		return 0
	}
	return math.Min(1, float64(n)/float64(limit))
}
