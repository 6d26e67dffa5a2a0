package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"storyshelf/internal/core/search"
	"strings"
	"sync"

	"github.com/spf13/cobra"
)

func newBrowseCmd(a *app) *cobra.Command {
	var (
		filters filterFlags
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Search interactively, one query per input line",
		Long: `Reads queries from stdin, one per line. Queries typed in quick succession
are debounced so only the last one in a burst is scored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}

			var mu sync.Mutex
			out := cmd.OutOrStdout()
			run := func(query string) {
				mu.Lock()
				defer mu.Unlock()

				res, err := a.catalog.Query(cmd.Context(), filters.state(query))
				if err != nil {
					slog.Error("Query failed", "query", query, "error", err)
					fmt.Fprintf(out, "error: %v\n", err)
					return
				}
				fmt.Fprintf(out, "%q: %d result(s)\n", query, res.Total)
				for i, r := range res.Results {
					if i == limit {
						break
					}
					fmt.Fprintf(out, "  %.3f  %s (%s)\n", r.Score, r.Book.Title, r.Book.Author)
				}
			}

			debouncer := search.NewDebouncer(a.cfg.SearchDebounce)
			defer debouncer.Stop()

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				query := strings.TrimSpace(scanner.Text())
				if query == "" {
					continue
				}
				debouncer.Trigger(func() { run(query) })
			}
			debouncer.Flush()
			return scanner.Err()
		},
	}
	filters.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", 10, "results shown per query")
	return cmd
}
