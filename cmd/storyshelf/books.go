package main

import (
	"storyshelf/internal/core/domain/models"
	"strings"

	"github.com/spf13/cobra"
)

type filterFlags struct {
	languages  []string
	levels     []string
	categories []string
	publishers []string
	date       string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.languages, "language", nil, "keep books in these languages (repeatable)")
	cmd.Flags().StringSliceVar(&f.levels, "level", nil, "keep books at these reading levels (repeatable)")
	cmd.Flags().StringSliceVar(&f.categories, "category", nil, "keep books in any of these categories (repeatable)")
	cmd.Flags().StringSliceVar(&f.publishers, "publisher", nil, "keep books from these publishers (repeatable)")
	cmd.Flags().StringVar(&f.date, "date", "all", "all, newest, oldest, last30days or lastyear")
}

func (f *filterFlags) state(query string) models.FilterState {
	return models.FilterState{
		Languages:   models.NewSelection(f.languages...),
		Levels:      models.NewSelection(f.levels...),
		Categories:  models.NewSelection(f.categories...),
		Publishers:  models.NewSelection(f.publishers...),
		Date:        models.ParseDateFilter(f.date),
		SearchQuery: strings.TrimSpace(query),
	}
}

type booksOutput struct {
	Total int           `json:"total" yaml:"total"`
	Books []models.Book `json:"books" yaml:"books"`
}

type searchOutput struct {
	Query   string                `json:"query" yaml:"query"`
	Total   int                   `json:"total" yaml:"total"`
	Results []models.SearchResult `json:"results" yaml:"results"`
}

func newBooksCmd(a *app) *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "books",
		Short: "List catalog books matching the facet filters",
		Example: `  # Hindi read-aloud books, newest first
  storyshelf books --language Hindi --level "Read Aloud" --date newest

  # Everything from two publishers as YAML
  storyshelf books --publisher Pratham --publisher Tulika -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			res, err := a.catalog.Query(cmd.Context(), filters.state(""))
			if err != nil {
				return err
			}
			books := res.Books
			if books == nil {
				books = []models.Book{}
			}
			return writeOutput(cmd.OutOrStdout(), a.outputFormat(), booksOutput{Total: res.Total, Books: books})
		},
	}
	filters.register(cmd)
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Rank filtered books by relevance to a query",
		Example: `  storyshelf search dragon
  storyshelf search "the moon" --language English`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			query := strings.Join(args, " ")
			res, err := a.catalog.Query(cmd.Context(), filters.state(query))
			if err != nil {
				return err
			}
			results := res.Results
			if results == nil {
				results = []models.SearchResult{}
			}
			return writeOutput(cmd.OutOrStdout(), a.outputFormat(), searchOutput{
				Query:   query,
				Total:   len(results),
				Results: results,
			})
		},
	}
	filters.register(cmd)
	return cmd
}

func newOptionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "Show the selectable values for every facet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			opts, err := a.catalog.Options(cmd.Context())
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), a.outputFormat(), opts)
		},
	}
}
