// Package filter applies facet selections and date ordering to a catalog
// snapshot and derives the selectable facet values.
package filter

import (
	"sort"
	"storyshelf/internal/core/domain/models"
	"storyshelf/internal/core/taxonomy"
	"time"
)

const dateLayout = "2006-01-02"

// Engine is pure: it never mutates the books it is given.
type Engine struct {
	// Now anchors the trailing date windows. Defaults to time.Now.
	Now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{Now: time.Now}
}

// FilterBooks returns the books passing every facet of state, in catalog
// order, then applies the date ordering.
func (e *Engine) FilterBooks(books []models.Book, state models.FilterState) []models.Book {
	since, windowed := e.windowStart(state.Date)

	out := make([]models.Book, 0, len(books))
	for _, b := range books {
		if !matchLanguage(b, state.Languages) ||
			!matchLevel(b, state.Levels) ||
			!matchCategories(b, state.Categories) ||
			!matchPublisher(b, state.Publishers) {
			continue
		}
		if windowed && !publishedSince(b, since) {
			continue
		}
		out = append(out, b)
	}
	return e.SortBooks(out, state.Date)
}

// SortBooks orders books by publication date for newest/oldest and leaves
// the order alone otherwise. Missing dates count as the oldest possible date.
// The input slice is not reordered.
func (e *Engine) SortBooks(books []models.Book, date models.DateFilter) []models.Book {
	if date != models.DateNewest && date != models.DateOldest {
		return books
	}
	books = append([]models.Book(nil), books...)
	sort.SliceStable(books, func(i, j int) bool {
		a, b := publishedTime(books[i]), publishedTime(books[j])
		if date == models.DateNewest {
			return a.After(b)
		}
		return a.Before(b)
	})
	return books
}

// Options lists the canonical facet values present in books.
func (e *Engine) Options(books []models.Book) models.FilterOptions {
	languages := models.NewSelection()
	levels := models.NewSelection()
	categories := models.NewSelection()
	publishers := models.NewSelection()

	for _, b := range books {
		languages.Add(canonical(taxonomy.MapLanguage, b.Language))
		if b.Level != "" {
			levels.Add(canonical(taxonomy.MapLevel, b.Level))
		}
		for _, c := range b.Categories {
			categories.Add(canonical(taxonomy.MapCategory, c))
		}
		publishers.Add(b.Publisher)
	}

	vocab := make([]string, 0, len(taxonomy.Categories))
	for _, c := range taxonomy.Categories {
		if categories.Has(c) {
			vocab = append(vocab, c)
		}
	}

	return models.FilterOptions{
		Languages:  languages.Values(),
		Levels:     levels.Values(),
		Categories: vocab,
		Publishers: publishers.Values(),
	}
}

// canonical falls back to the raw value on a mapping miss.
func canonical(mapFn func(string) (string, bool), raw string) string {
	if mapped, ok := mapFn(raw); ok {
		return mapped
	}
	return raw
}

func matchLanguage(b models.Book, sel models.Selection) bool {
	if sel.Len() == 0 || sel.Has(b.Language) {
		return true
	}
	mapped, ok := taxonomy.MapLanguage(b.Language)
	return ok && sel.Has(mapped)
}

func matchLevel(b models.Book, sel models.Selection) bool {
	if sel.Len() == 0 {
		return true
	}
	if b.Level == "" {
		return false
	}
	if sel.Has(b.Level) {
		return true
	}
	mapped, ok := taxonomy.MapLevel(b.Level)
	return ok && sel.Has(mapped)
}

func matchCategories(b models.Book, sel models.Selection) bool {
	if sel.Len() == 0 {
		return true
	}
	for _, c := range b.Categories {
		if sel.Has(c) {
			return true
		}
		if mapped, ok := taxonomy.MapCategory(c); ok && sel.Has(mapped) {
			return true
		}
	}
	return false
}

func matchPublisher(b models.Book, sel models.Selection) bool {
	if sel.Len() == 0 {
		return true
	}
	return b.Publisher != "" && sel.Has(b.Publisher)
}

// windowStart returns the earliest date admitted by a trailing window.
func (e *Engine) windowStart(date models.DateFilter) (time.Time, bool) {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	t := now().UTC()
	today := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

	switch date {
	case models.DateLast30Days:
		return today.AddDate(0, 0, -30), true
	case models.DateLastYear:
		return today.AddDate(-1, 0, 0), true
	default:
		return time.Time{}, false
	}
}

// publishedSince lets unknown and unparsable dates through.
func publishedSince(b models.Book, since time.Time) bool {
	if b.PublishedDate == "" {
		return true
	}
	d, err := time.Parse(dateLayout, b.PublishedDate)
	if err != nil {
		return true
	}
	return !d.Before(since)
}

func publishedTime(b models.Book) time.Time {
	d, err := time.Parse(dateLayout, b.PublishedDate)
	if err != nil {
		return time.Time{}
	}
	return d
}
