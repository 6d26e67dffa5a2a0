package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"storyshelf/internal/core/domain/models"
	"storyshelf/internal/core/domain/ports"
	"strings"

	"github.com/mmcdole/gofeed/atom"
	"golang.org/x/sync/errgroup"
)

var _ ports.CatalogSource = (*OPDSAdapter)(nil)

// Link relations that point back into the catalog rather than at a section.
var skippedRels = map[string]bool{
	"self":     true,
	"start":    true,
	"up":       true,
	"search":   true,
	"next":     true,
	"previous": true,
	"prev":     true,
	"first":    true,
	"last":     true,
}

// OPDSAdapter walks a two-level OPDS catalog: a root navigation feed whose
// links name per-language sections, each an acquisition feed of books.
type OPDSAdapter struct {
	rootURL     string
	fetcher     ports.FeedFetcher
	normalizer  *Normalizer
	concurrency int
	maxPages    int

	// EntryNavigation also follows navigation links carried by root entries.
	// Off by default: only the root feed's own links name sections.
	EntryNavigation bool
}

func NewOPDSAdapter(rootURL string, fetcher ports.FeedFetcher, concurrency, maxPages int) *OPDSAdapter {
	if concurrency < 1 {
		concurrency = 1
	}
	if maxPages < 1 {
		maxPages = 1
	}
	return &OPDSAdapter{
		rootURL:     strings.TrimSpace(rootURL),
		fetcher:     fetcher,
		normalizer:  NewNormalizer(),
		concurrency: concurrency,
		maxPages:    maxPages,
	}
}

type section struct {
	title string
	href  string
}

// FetchAllBooks returns every book across all sections. A failing section is
// logged and skipped; only a root failure is returned, wrapping
// models.ErrCatalogUnavailable.
func (a *OPDSAdapter) FetchAllBooks(ctx context.Context) ([]models.Book, error) {
	if a.rootURL == "" {
		return nil, fmt.Errorf("%w: OPDS root URL is not configured", models.ErrCatalogUnavailable)
	}
	root, err := url.Parse(a.rootURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid root URL %q: %w", models.ErrCatalogUnavailable, a.rootURL, err)
	}

	slog.Info("Fetching OPDS catalog", "url", a.rootURL)
	rootPage, err := a.fetchFeed(ctx, a.rootURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrCatalogUnavailable, err)
	}

	sections := sectionLinks(rootPage.feed, root, a.EntryNavigation)
	slog.Info("Found catalog sections", "count", len(sections))

	// Indexed by section so the aggregate does not depend on completion order.
	perSection := make([][]models.Book, len(sections))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, s := range sections {
		g.Go(func() error {
			books, err := a.fetchSection(gctx, s)
			if err != nil {
				slog.Warn("Skipping catalog section", "section", s.title, "url", s.href, "error", err)
				return nil
			}
			perSection[i] = books
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var all []models.Book
	for _, books := range perSection {
		all = append(all, books...)
	}
	slog.Info("Loaded catalog", "books", len(all), "sections", len(sections))
	return all, nil
}

// fetchSection follows rel="next" pagination up to maxPages. A failure after
// the first page keeps the pages already read.
func (a *OPDSAdapter) fetchSection(ctx context.Context, s section) ([]models.Book, error) {
	var books []models.Book
	visited := make(map[string]bool)
	next := s.href

	for page := 0; next != "" && page < a.maxPages && !visited[next]; page++ {
		visited[next] = true

		p, err := a.fetchFeed(ctx, next)
		if err != nil {
			if page == 0 {
				return nil, err
			}
			slog.Warn("Stopping section pagination", "section", s.title, "url", next, "error", err)
			break
		}

		base, _ := url.Parse(next)
		for i, entry := range p.feed.Entries {
			if entry == nil {
				continue
			}
			book, ok := a.normalizer.Normalize(entry, p.entryFields(i), s.title, base)
			if !ok {
				slog.Debug("Skipping OPDS entry without title", "section", s.title, "id", entry.ID)
				continue
			}
			books = append(books, book)
		}
		next = nextPage(p.feed, base)
	}

	slog.Debug("Fetched catalog section", "section", s.title, "books", len(books))
	return books, nil
}

// feedPage is one parsed feed document plus the per-entry fields the Atom
// tree does not keep.
type feedPage struct {
	feed   *atom.Feed
	fields []EntryFields
}

// entryFields returns the scanned fields for entry i, or zero fields when the
// scan and the Atom tree disagree on the entry count.
func (p *feedPage) entryFields(i int) EntryFields {
	if len(p.fields) != len(p.feed.Entries) || i >= len(p.fields) {
		return EntryFields{}
	}
	return p.fields[i]
}

func (a *OPDSAdapter) fetchFeed(ctx context.Context, target string) (*feedPage, error) {
	body, err := a.fetcher.Fetch(ctx, target)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read OPDS feed %s: %w", target, err)
	}

	page, err := parseFeedPage(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OPDS feed %s as Atom: %w", target, err)
	}
	return page, nil
}

func parseFeedPage(doc []byte) (*feedPage, error) {
	fp := &atom.Parser{}
	feed, err := fp.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, err
	}

	fields, err := scanEntryFields(doc)
	if err != nil {
		slog.Debug("Falling back to Atom entry fields", "error", err)
	}
	return &feedPage{feed: feed, fields: fields}, nil
}

// sectionLinks collects the root's section links in document order. Feed-level
// links come first; navigation links carried by root entries follow when
// entryLinks is set. Links must have an href and a title (entry links fall
// back to the entry title).
func sectionLinks(feed *atom.Feed, root *url.URL, entryLinks bool) []section {
	seen := map[string]bool{root.String(): true}
	var out []section

	add := func(l *atom.Link, title string) {
		title = strings.TrimSpace(title)
		if l == nil || strings.TrimSpace(l.Href) == "" || title == "" {
			return
		}
		if !isSectionLink(l) || skippedRels[strings.ToLower(l.Rel)] {
			return
		}
		href := resolveHref(root, l.Href)
		if seen[href] {
			return
		}
		seen[href] = true
		out = append(out, section{title: title, href: href})
	}

	for _, l := range feed.Links {
		if l != nil {
			add(l, l.Title)
		}
	}
	if !entryLinks {
		return out
	}
	for _, e := range feed.Entries {
		if e == nil {
			continue
		}
		for _, l := range e.Links {
			if l == nil {
				continue
			}
			title := l.Title
			if strings.TrimSpace(title) == "" {
				title = e.Title
			}
			add(l, title)
		}
	}
	return out
}

func isSectionLink(l *atom.Link) bool {
	typ := strings.ToLower(l.Type)
	rel := strings.ToLower(l.Rel)
	return strings.Contains(typ, "navigation") ||
		strings.Contains(typ, "acquisition") ||
		rel == relSubsection ||
		strings.Contains(rel, "navigation")
}

func nextPage(feed *atom.Feed, base *url.URL) string {
	for _, l := range feed.Links {
		if l != nil && l.Rel == relNext && strings.TrimSpace(l.Href) != "" {
			return resolveHref(base, l.Href)
		}
	}
	return ""
}
