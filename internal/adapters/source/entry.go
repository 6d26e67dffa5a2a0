package source

import (
	"math"
	"net/url"
	"sort"
	"storyshelf/internal/core/domain/models"
	"strconv"
	"strings"

	ext "github.com/mmcdole/gofeed/extensions"
	"github.com/mmcdole/gofeed/atom"
)

const (
	relNext        = "next"
	relAcquisition = "acquisition"
	relImage       = "http://opds-spec.org/image"
	relThumbnail   = "http://opds-spec.org/image/thumbnail"
	relSubsection  = "subsection"
)

// Normalizer turns one Atom entry into a sanitized Book.
type Normalizer struct {
	// NewID synthesizes an id for entries that carry none.
	NewID func() string
}

func NewNormalizer() *Normalizer {
	return &Normalizer{NewID: syntheticID}
}

// Normalize returns false when the entry has no usable title. Relative links
// are resolved against base when it is non-nil. The level term is kept raw;
// mapping happens at match time.
func (n *Normalizer) Normalize(entry *atom.Entry, fields EntryFields, language string, base *url.URL) (models.Book, bool) {
	if entry == nil {
		return models.Book{}, false
	}
	title := textValue(entry.Title, fields.TitleType)
	if title == "" {
		return models.Book{}, false
	}

	level, terms := splitCategories(entry.Categories)
	book := models.Book{
		ID:            strings.TrimSpace(entry.ID),
		Title:         title,
		Author:        joinAuthors(entry.Authors),
		Summary:       entrySummary(entry, fields),
		Cover:         resolveHref(base, coverLink(entry.Links)),
		DownloadLink:  resolveHref(base, acquisitionLink(entry.Links)),
		Language:      language,
		Level:         level,
		Categories:    terms,
		Tags:          append([]string(nil), terms...),
		Publisher:     firstNonEmpty(fields.Publisher, extensionValue(entry.Extensions, "publisher")),
		PublishedDate: publishedDate(entry),
		Rating:        parseRating(firstNonEmpty(fields.Rating, extensionValue(entry.Extensions, "rating"))),
	}
	if book.ID == "" && n.NewID != nil {
		book.ID = n.NewID()
	}
	return Sanitize(book), true
}

func joinAuthors(people []*atom.Person) string {
	names := make([]string, 0, len(people))
	for _, p := range people {
		if p == nil {
			continue
		}
		if name := strings.TrimSpace(p.Name); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "Unknown"
	}
	return strings.Join(names, ", ")
}

// entrySummary falls back to the content when the summary is blank.
func entrySummary(entry *atom.Entry, fields EntryFields) string {
	if s := textValue(entry.Summary, fields.SummaryType); s != "" {
		return s
	}
	if entry.Content != nil {
		return textValue(entry.Content.Value, fields.ContentType)
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// splitCategories returns the first level-scheme term and every other term.
func splitCategories(cats []*atom.Category) (string, []string) {
	var (
		level string
		terms []string
	)
	for _, c := range cats {
		if c == nil {
			continue
		}
		term := strings.TrimSpace(c.Term)
		if strings.Contains(strings.ToLower(c.Scheme), "level") {
			if level == "" {
				level = term
			}
			continue
		}
		if term != "" {
			terms = append(terms, term)
		}
	}
	return level, terms
}

// coverLink prefers the full image and falls back to the thumbnail.
func coverLink(links []*atom.Link) string {
	if href := firstLink(links, func(rel string) bool { return rel == relImage }); href != "" {
		return href
	}
	return firstLink(links, func(rel string) bool { return rel == relThumbnail })
}

func acquisitionLink(links []*atom.Link) string {
	return firstLink(links, func(rel string) bool { return strings.Contains(rel, relAcquisition) })
}

func firstLink(links []*atom.Link, match func(rel string) bool) string {
	for _, l := range links {
		if l != nil && strings.TrimSpace(l.Href) != "" && match(l.Rel) {
			return l.Href
		}
	}
	return ""
}

func resolveHref(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

func publishedDate(entry *atom.Entry) string {
	if entry.PublishedParsed == nil {
		return ""
	}
	return entry.PublishedParsed.UTC().Format("2006-01-02")
}

func parseRating(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// extensionValue finds the first non-empty foreign-namespace element with the
// given local name, whatever prefix it was declared under.
func extensionValue(exts ext.Extensions, name string) string {
	prefixes := make([]string, 0, len(exts))
	for p := range exts {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)

	for _, p := range prefixes {
		for _, e := range exts[p][name] {
			if v := strings.TrimSpace(e.Value); v != "" {
				return v
			}
			if v := strings.TrimSpace(e.Attrs["value"]); v != "" {
				return v
			}
		}
	}
	return ""
}
