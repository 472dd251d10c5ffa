// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search runs a PubMed query through a Searcher and renders the
// results as a table, JSON, or CSL-YAML, or saves them to a query file.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pdiddy/pubmed-search/pkg/types"
)

// Searcher returns up to maxResults articles for a free-text query.
// *pubmed.Client implements it.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]types.Article, error)
}

// Query holds the search parameters.
type Query struct {
	Term       string
	MaxResults int
}

// SearchOutput holds one search's results and when it ran.
type SearchOutput struct {
	Query     Query
	Results   []types.Article
	Timestamp time.Time
	Elapsed   time.Duration
}

// Run executes q against s. Errors from s are returned unchanged so
// callers can still inspect them with errors.Is and errors.As.
func Run(ctx context.Context, s Searcher, q Query) (SearchOutput, error) {
	start := time.Now()
	results, err := s.Search(ctx, q.Term, q.MaxResults)
	if err != nil {
		return SearchOutput{}, err
	}
	return SearchOutput{
		Query:     q,
		Results:   results,
		Timestamp: start.UTC(),
		Elapsed:   time.Since(start),
	}, nil
}

// FormatTable writes results as a human-readable table to w.
func FormatTable(out SearchOutput, w io.Writer) {
	if len(out.Results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-10s  %-50s  %-20s  %-4s  %s\n",
		"Rank", "PMID", "Title", "Authors", "Year", "Journal")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for i, a := range out.Results {
		fmt.Fprintf(w, "%-4d  %-10s  %-50s  %-20s  %-4s  %s\n",
			i+1, a.PMID, truncate(a.Title, 50), formatAuthors(a.Authors), a.Year, truncate(a.Journal, 30))
	}

	fmt.Fprintf(w, "\n%d results\n", len(out.Results))
}

// FormatJSON writes results as indented JSON to w. An empty result set is
// written as [].
func FormatJSON(out SearchOutput, w io.Writer) error {
	results := out.Results
	if results == nil {
		results = []types.Article{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
