package filter

import (
	"storyshelf/internal/core/domain/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedEngine() *Engine {
	return &Engine{Now: func() time.Time {
		return time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)
	}}
}

func catalog() []models.Book {
	return []models.Book{
		{ID: "1", Title: "Recent", Language: "English", Level: "Level 2", Categories: []string{"Animal Story"}, Publisher: "Pratham", PublishedDate: "2024-06-01"},
		{ID: "2", Title: "Old", Language: "en", Level: "level one", Categories: []string{"Fantasy", "Magic"}, PublishedDate: "2023-01-01"},
		{ID: "3", Title: "Undated", Language: "हिन्दी", Categories: []string{"zzz-unknown"}, Publisher: "Tulika"},
		{ID: "4", Title: "Last Autumn", Language: "Hindi", Level: "Read Aloud", Categories: []string{"Science and Technology"}, Publisher: "Pratham", PublishedDate: "2023-10-20"},
		{ID: "5", Title: "Broken Date", Language: "Kannada", Categories: []string{"Folktale"}, PublishedDate: "someday"},
	}
}

func ids(books []models.Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.ID)
	}
	return out
}

func TestFilterBooks_Vacuity(t *testing.T) {
	books := catalog()
	got := fixedEngine().FilterBooks(books, models.FilterState{Date: models.DateAll})
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(got))
}

func TestFilterBooks_Facets(t *testing.T) {
	e := fixedEngine()
	tests := []struct {
		name  string
		state models.FilterState
		want  []string
	}{
		{
			name:  "language raw and mapped",
			state: models.FilterState{Languages: models.NewSelection("English")},
			want:  []string{"1", "2"},
		},
		{
			name:  "language native script maps",
			state: models.FilterState{Languages: models.NewSelection("Hindi")},
			want:  []string{"3", "4"},
		},
		{
			name:  "level excludes books without a level",
			state: models.FilterState{Levels: models.NewSelection("Level 1", "Read Aloud")},
			want:  []string{"2", "4"},
		},
		{
			name:  "category via mapping",
			state: models.FilterState{Categories: models.NewSelection("Animal Stories", "Folk Tales")},
			want:  []string{"1", "5"},
		},
		{
			name:  "category raw value",
			state: models.FilterState{Categories: models.NewSelection("zzz-unknown")},
			want:  []string{"3"},
		},
		{
			name:  "publisher",
			state: models.FilterState{Publishers: models.NewSelection("Pratham")},
			want:  []string{"1", "4"},
		},
		{
			name: "facets combine",
			state: models.FilterState{
				Languages:  models.NewSelection("English", "Hindi"),
				Publishers: models.NewSelection("Pratham"),
			},
			want: []string{"1", "4"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(e.FilterBooks(catalog(), tt.state)))
		})
	}
}

func TestFilterBooks_Monotonic(t *testing.T) {
	e := fixedEngine()
	books := catalog()
	all := len(e.FilterBooks(books, models.FilterState{}))

	narrowed := []models.FilterState{
		{Languages: models.NewSelection("Kannada")},
		{Levels: models.NewSelection("Level 4")},
		{Categories: models.NewSelection("Fantasy")},
		{Publishers: models.NewSelection("Tulika")},
		{Date: models.DateLast30Days},
	}
	for _, state := range narrowed {
		assert.LessOrEqual(t, len(e.FilterBooks(books, state)), all)
	}
}

func TestFilterBooks_DateWindows(t *testing.T) {
	e := fixedEngine()

	got := e.FilterBooks(catalog(), models.FilterState{Date: models.DateLast30Days})
	assert.Equal(t, []string{"1", "3", "5"}, ids(got), "undated and unparsable dates always pass")

	got = e.FilterBooks(catalog(), models.FilterState{Date: models.DateLastYear})
	assert.Equal(t, []string{"1", "3", "4", "5"}, ids(got))
}

func TestSortBooks(t *testing.T) {
	e := fixedEngine()
	books := catalog()

	newest := e.FilterBooks(books, models.FilterState{Date: models.DateNewest})
	assert.Equal(t, []string{"1", "4", "2", "3", "5"}, ids(newest))

	oldest := e.SortBooks(books, models.DateOldest)
	assert.Equal(t, []string{"3", "5", "2", "4", "1"}, ids(oldest))
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(books), "input order is untouched")
}

func TestOptions(t *testing.T) {
	opts := fixedEngine().Options(catalog())

	assert.Equal(t, []string{"English", "Hindi", "Kannada"}, opts.Languages)
	assert.Equal(t, []string{"Level 1", "Level 2", "Read Aloud"}, opts.Levels)
	require.Equal(t, []string{"Animal Stories", "Fantasy", "Folk Tales", "Science & Technology"}, opts.Categories)
	assert.Equal(t, []string{"Pratham", "Tulika"}, opts.Publishers)
}

func TestOptions_Empty(t *testing.T) {
	opts := fixedEngine().Options(nil)
	assert.Empty(t, opts.Languages)
	assert.Empty(t, opts.Categories)
	assert.NotNil(t, opts.Categories)
}
