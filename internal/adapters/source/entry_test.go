package source

import (
	"net/url"
	"storyshelf/internal/core/domain/models"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parsePage(t *testing.T, entries string) *feedPage {
	t.Helper()
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom"
      xmlns:dcterms="http://purl.org/dc/terms/"
      xmlns:opds="http://opds-spec.org/2010/catalog">` + entries + `</feed>`
	page, err := parseFeedPage([]byte(doc))
	require.NoError(t, err)
	require.Len(t, page.fields, len(page.feed.Entries))
	return page
}

func normalizeAt(n *Normalizer, page *feedPage, i int, language string, base *url.URL) (models.Book, bool) {
	return n.Normalize(page.feed.Entries[i], page.entryFields(i), language, base)
}

const fullEntry = `
<entry>
  <title>The Dragon's Tale</title>
  <id>urn:sw:42</id>
  <author><name>Asha Rao</name></author>
  <author><name>Vikram Seth</name></author>
  <summary type="html">&lt;p&gt;A &lt;b&gt;brave&lt;/b&gt; dragon.&lt;/p&gt;&lt;p&gt;Second part.&lt;/p&gt;</summary>
  <published>2024-06-01T18:30:00+05:30</published>
  <dcterms:publisher>Pratham Books</dcterms:publisher>
  <opds:rating>4.5</opds:rating>
  <category scheme="http://example.org/reading-level" term="Level 2"/>
  <category term="Animal Story"/>
  <category term="Fantasy"/>
  <category term="Animal Story"/>
  <category term="   "/>
  <link rel="http://opds-spec.org/image/thumbnail" href="/thumb/42.jpg"/>
  <link rel="http://opds-spec.org/image" href="/covers/42.jpg"/>
  <link rel="http://opds-spec.org/acquisition/open-access" href="/dl/42.epub" type="application/epub+zip"/>
</entry>`

func TestNormalize_FullEntry(t *testing.T) {
	page := parsePage(t, fullEntry)
	require.Len(t, page.feed.Entries, 1)

	base, _ := url.Parse("https://books.example.org/opds/english")
	book, ok := normalizeAt(NewNormalizer(), page, 0, "English", base)
	require.True(t, ok)

	assert.Equal(t, "urn:sw:42", book.ID)
	assert.Equal(t, "The Dragon's Tale", book.Title)
	assert.Equal(t, "Asha Rao, Vikram Seth", book.Author)
	assert.Equal(t, "A brave dragon. Second part.", book.Summary)
	assert.Equal(t, "https://books.example.org/covers/42.jpg", book.Cover)
	assert.Equal(t, "https://books.example.org/dl/42.epub", book.DownloadLink)
	assert.Equal(t, "English", book.Language)
	assert.Equal(t, "Level 2", book.Level)
	assert.Equal(t, []string{"Animal Story", "Fantasy"}, book.Categories)
	assert.Equal(t, book.Categories, book.Tags)
	assert.Equal(t, "Pratham Books", book.Publisher)
	assert.Equal(t, "2024-06-01", book.PublishedDate)
	require.NotNil(t, book.Rating)
	assert.InDelta(t, 4.5, *book.Rating, 1e-9)
}

func TestNormalize_Defaults(t *testing.T) {
	page := parsePage(t, `
<entry>
  <title>Untagged</title>
  <published>not a date</published>
  <opds:rating>five</opds:rating>
  <link rel="http://opds-spec.org/image/thumbnail" href="https://cdn.example.org/t.jpg"/>
</entry>`)

	n := &Normalizer{NewID: func() string { return "book-fixed" }}
	book, ok := normalizeAt(n, page, 0, "Tamil", nil)
	require.True(t, ok)

	assert.Equal(t, "book-fixed", book.ID)
	assert.Equal(t, "Unknown", book.Author)
	assert.Empty(t, book.Level)
	assert.Empty(t, book.PublishedDate)
	assert.Nil(t, book.Rating)
	assert.Empty(t, book.DownloadLink)
	assert.Equal(t, "https://cdn.example.org/t.jpg", book.Cover, "thumbnail stands in for a missing image")
	assert.Empty(t, book.Categories)
	assert.NotNil(t, book.Categories)
}

func TestNormalize_ContentFallback(t *testing.T) {
	page := parsePage(t, `
<entry>
  <title>Content Only</title>
  <content type="text">Plain content body</content>
</entry>`)
	book, ok := normalizeAt(NewNormalizer(), page, 0, "English", nil)
	require.True(t, ok)
	assert.Equal(t, "Plain content body", book.Summary)
}

func TestNormalize_RejectsMissingTitle(t *testing.T) {
	page := parsePage(t, `
<entry><id>x</id><title>   </title></entry>
<entry><id>y</id><title type="html">&lt;b&gt; &lt;/b&gt;&lt;script&gt;x()&lt;/script&gt;</title></entry>
<entry><id>z</id><title type="xhtml"><div xmlns="http://www.w3.org/1999/xhtml"><span> </span></div></title></entry>`)
	require.Len(t, page.feed.Entries, 3)
	for i := range page.feed.Entries {
		_, ok := normalizeAt(NewNormalizer(), page, i, "English", nil)
		assert.False(t, ok, "entry %d", i)
	}

	_, ok := NewNormalizer().Normalize(nil, EntryFields{}, "English", nil)
	assert.False(t, ok)
}

func TestNormalize_Idempotent(t *testing.T) {
	page := parsePage(t, fullEntry+`<entry><title>No Id</title></entry>`)
	n := NewNormalizer()

	a, _ := normalizeAt(n, page, 0, "English", nil)
	b, _ := normalizeAt(n, page, 0, "English", nil)
	assert.Equal(t, a, b)

	c, _ := normalizeAt(n, page, 1, "English", nil)
	d, _ := normalizeAt(n, page, 1, "English", nil)
	assert.NotEqual(t, c.ID, d.ID)
	assert.True(t, strings.HasPrefix(c.ID, "book-"))
	c.ID, d.ID = "", ""
	assert.Equal(t, c, d)
}

func TestNormalize_TextTypes(t *testing.T) {
	page := parsePage(t, `
<entry>
  <title>Tom &amp; Jerry &lt;3</title>
  <summary>Use &lt;b&gt; for bold</summary>
</entry>
<entry>
  <title type="text">a &lt; b</title>
  <content type="text">x &lt;y&gt; z</content>
</entry>
<entry>
  <title type="html">The &lt;i&gt;Little&lt;/i&gt; Bird</title>
  <summary type="html">&lt;p&gt;One&lt;/p&gt;&lt;p&gt;Two&lt;/p&gt;</summary>
</entry>
<entry>
  <title type="xhtml"><div xmlns="http://www.w3.org/1999/xhtml">Rain <b>Song</b></div></title>
  <content type="xhtml"><div xmlns="http://www.w3.org/1999/xhtml"><p>Wet</p><p>day</p></div></content>
</entry>`)

	tests := []struct {
		title   string
		summary string
	}{
		{"Tom & Jerry <3", "Use <b> for bold"},
		{"a < b", "x <y> z"},
		{"The Little Bird", "One Two"},
		{"Rain Song", "Wet day"},
	}
	require.Len(t, page.feed.Entries, len(tests))
	for i, tt := range tests {
		book, ok := normalizeAt(NewNormalizer(), page, i, "English", nil)
		require.True(t, ok, "entry %d", i)
		assert.Equal(t, tt.title, book.Title, "entry %d", i)
		assert.Equal(t, tt.summary, book.Summary, "entry %d", i)
	}
}

func TestNormalize_AtomNamespacePublisherAndRating(t *testing.T) {
	page := parsePage(t, `
<entry>
  <title>Plain Fields</title>
  <publisher>Tulika Books</publisher>
  <rating>3.5</rating>
</entry>
<entry>
  <title>Both Forms</title>
  <publisher>  </publisher>
  <dcterms:publisher>Pratham Books</dcterms:publisher>
  <rating value="4"/>
  <opds:rating>2</opds:rating>
</entry>`)
	require.Len(t, page.feed.Entries, 2)

	book, ok := normalizeAt(NewNormalizer(), page, 0, "English", nil)
	require.True(t, ok)
	assert.Equal(t, "Tulika Books", book.Publisher)
	require.NotNil(t, book.Rating)
	assert.InDelta(t, 3.5, *book.Rating, 1e-9)

	book, ok = normalizeAt(NewNormalizer(), page, 1, "English", nil)
	require.True(t, ok)
	assert.Equal(t, "Pratham Books", book.Publisher, "blank plain element falls back to the extension")
	require.NotNil(t, book.Rating)
	assert.InDelta(t, 4.0, *book.Rating, 1e-9, "plain element wins over the extension")
}

func TestScanEntryFields(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:x="urn:x">
  stray text
  <x:entry><title type="html">not an entry</title></x:entry>
  <entry>
    <title type="HTML">A</title>
    <x:rating>9</x:rating>
    <publisher>Pub <b>House</b></publisher>
  </entry>
  <!-- comment -->
  <entry><summary type="xhtml"/></entry>
</feed>`
	fields, err := scanEntryFields([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, []EntryFields{
		{TitleType: "html", Publisher: "Pub House"},
		{SummaryType: "xhtml"},
	}, fields)

	_, err = scanEntryFields([]byte(`<feed xmlns="http://www.w3.org/2005/Atom"><entry>`))
	assert.Error(t, err)
}

func TestSanitize_Bounds(t *testing.T) {
	long := strings.Repeat("é", 2000)
	high, low := 9.0, -3.0

	book := Sanitize(models.Book{
		Title:         long,
		Author:        long,
		Summary:       long,
		Cover:         long,
		DownloadLink:  long,
		Language:      long,
		Level:         long,
		Categories:    []string{long, long + "x", "", "ok"},
		Tags:          []string{"a", "a", " "},
		Publisher:     long,
		PublishedDate: "2024-06-01T00:00:00Z",
		Rating:        &high,
	})

	bounds := map[string]struct {
		value string
		max   int
	}{
		"title":     {book.Title, maxTitleLen},
		"author":    {book.Author, maxAuthorLen},
		"summary":   {book.Summary, maxSummaryLen},
		"cover":     {book.Cover, maxURLLen},
		"download":  {book.DownloadLink, maxURLLen},
		"language":  {book.Language, maxLanguageLen},
		"level":     {book.Level, maxLevelLen},
		"publisher": {book.Publisher, maxPublisherLen},
		"date":      {book.PublishedDate, maxDateLen},
	}
	for name, b := range bounds {
		assert.LessOrEqual(t, utf8.RuneCountInString(b.value), b.max, name)
		assert.True(t, utf8.ValidString(b.value), name)
	}

	// both long terms truncate to the same 50 runes and collapse into one
	assert.Equal(t, []string{strings.Repeat("é", 50), "ok"}, book.Categories)
	assert.Equal(t, []string{"a"}, book.Tags)
	assert.Equal(t, "2024-06-01", book.PublishedDate)
	require.NotNil(t, book.Rating)
	assert.Equal(t, 5.0, *book.Rating)
	assert.NotEmpty(t, book.ID)

	book = Sanitize(models.Book{Rating: &low})
	assert.Equal(t, 0.0, *book.Rating)
	assert.Equal(t, "Untitled", book.Title)
	assert.Equal(t, "Unknown", book.Language)
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Tom & Jerry", plainText("Tom &amp; Jerry"))
	assert.Equal(t, "Dragon story", plainText("<b>Drag</b>on <script>x()</script>story"))
	assert.Equal(t, "one two", plainText("one\n\n   two"))
}
