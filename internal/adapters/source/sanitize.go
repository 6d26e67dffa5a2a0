package source

import (
	"math"
	"storyshelf/internal/core/domain/models"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/net/html"
	htmlatom "golang.org/x/net/html/atom"
)

const (
	maxTitleLen     = 200
	maxAuthorLen    = 100
	maxSummaryLen   = 1000
	maxURLLen       = 500
	maxLanguageLen  = 50
	maxLevelLen     = 50
	maxTermLen      = 50
	maxPublisherLen = 100
	maxDateLen      = 10
	maxRating       = 5.0
)

// Sanitize enforces the Book field bounds: valid UTF-8, rune-safe truncation,
// de-duplicated non-empty terms and a rating within [0,5].
func Sanitize(b models.Book) models.Book {
	out := models.Book{
		ID:            clean(b.ID, 0),
		Title:         orDefault(clean(b.Title, maxTitleLen), "Untitled"),
		Author:        orDefault(clean(b.Author, maxAuthorLen), "Unknown"),
		Summary:       clean(b.Summary, maxSummaryLen),
		Cover:         clean(b.Cover, maxURLLen),
		DownloadLink:  clean(b.DownloadLink, maxURLLen),
		Language:      orDefault(clean(b.Language, maxLanguageLen), "Unknown"),
		Level:         clean(b.Level, maxLevelLen),
		Categories:    cleanTerms(b.Categories),
		Tags:          cleanTerms(b.Tags),
		Publisher:     clean(b.Publisher, maxPublisherLen),
		PublishedDate: clean(b.PublishedDate, maxDateLen),
		Rating:        clampRating(b.Rating),
	}
	if out.ID == "" {
		out.ID = syntheticID()
	}
	return out
}

func syntheticID() string {
	return "book-" + uuid.NewString()
}

func clean(s string, limit int) string {
	s = strings.TrimSpace(strings.ToValidUTF8(s, ""))
	if limit > 0 && utf8.RuneCountInString(s) > limit {
		s = strings.TrimSpace(string([]rune(s)[:limit]))
	}
	return s
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func cleanTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		t = clean(t, maxTermLen)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func clampRating(r *float64) *float64 {
	if r == nil || math.IsNaN(*r) {
		return nil
	}
	v := math.Min(maxRating, math.Max(0, *r))
	return &v
}

var inlineElements = map[htmlatom.Atom]bool{
	htmlatom.A:      true,
	htmlatom.B:      true,
	htmlatom.Em:     true,
	htmlatom.I:      true,
	htmlatom.Small:  true,
	htmlatom.Span:   true,
	htmlatom.Strong: true,
	htmlatom.Sub:    true,
	htmlatom.Sup:    true,
	htmlatom.U:      true,
}

// plainText reduces an HTML fragment to whitespace-collapsed text.
func plainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	nodes, err := html.ParseFragment(strings.NewReader(s), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: htmlatom.Body,
	})
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
		case html.ElementNode:
			if n.DataAtom == htmlatom.Script || n.DataAtom == htmlatom.Style {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && !inlineElements[n.DataAtom] {
			sb.WriteByte(' ')
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}
