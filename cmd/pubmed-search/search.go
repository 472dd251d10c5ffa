package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubmed-search/internal/httputil"
	"github.com/pdiddy/pubmed-search/internal/library"
	"github.com/pdiddy/pubmed-search/internal/pubmed"
	"github.com/pdiddy/pubmed-search/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search PubMed for articles",
	Long: `Search sends the query to PubMed's esearch endpoint, resolves the matching
PMIDs through esummary, and prints one record per resolved article in
relevance order. PMIDs without a document summary are omitted.

The query is passed to PubMed unchanged, so field tags such as
"metformin[tiab]" or "smith j[au]" work as they do on the website.`,
	Example: `  pubmed-search search type 2 diabetes metformin
  pubmed-search search --max-results 20 --json "crispr[tiab] AND 2023[dp]"
  pubmed-search search --save metformin.yaml --library metformin`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntP("max-results", "n", 0, "maximum number of PMIDs to request (default 5)")
	searchCmd.Flags().Duration("timeout", 0, "HTTP timeout for each request (default 10s)")
	searchCmd.Flags().String("email", "", "contact email sent to NCBI")
	searchCmd.Flags().String("tool", "", "tool name sent to NCBI")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().Bool("csl", false, "output results as CSL-YAML")
	searchCmd.Flags().String("save", "", "write query and results to a YAML query file")
	searchCmd.Flags().Bool("library", false, "save the results into the local library")
	searchCmd.MarkFlagsMutuallyExclusive("json", "csl")

	_ = viper.BindPFlag("search.timeout", searchCmd.Flags().Lookup("timeout"))
	_ = viper.BindPFlag("search.email", searchCmd.Flags().Lookup("email"))
	_ = viper.BindPFlag("search.tool", searchCmd.Flags().Lookup("tool"))

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	client := pubmed.New(cfg.Search, pubmed.WithLogger(logger))

	maxResults := client.DefaultMaxResults()
	if cmd.Flags().Changed("max-results") {
		maxResults, _ = cmd.Flags().GetInt("max-results")
	}
	q := search.Query{Term: strings.Join(args, " "), MaxResults: maxResults}

	logger.Debug("searching", "term", q.Term, "max_results", q.MaxResults)
	out, err := search.Run(ctx, client, q)
	if err != nil {
		return describeSearchError(err)
	}
	logger.Debug("search complete", "results", len(out.Results), "elapsed", out.Elapsed)

	if path, _ := cmd.Flags().GetString("save"); path != "" {
		if err := search.WriteQueryFile(path, out); err != nil {
			return err
		}
		logger.Info("saved query file", "path", path)
	}

	if saveLib, _ := cmd.Flags().GetBool("library"); saveLib {
		store, err := library.NewStore(cfg.Library)
		if err != nil {
			return err
		}
		defer store.Close()
		id, err := store.SaveSearch(ctx, out)
		if err != nil {
			return err
		}
		logger.Info("saved to library", "id", id, "articles", len(out.Results))
	}

	return writeOutput(cmd, out, cmd.OutOrStdout())
}

// writeOutput renders out in the format selected by --json or --csl.
func writeOutput(cmd *cobra.Command, out search.SearchOutput, w io.Writer) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	asCSL, _ := cmd.Flags().GetBool("csl")
	switch {
	case asJSON:
		return search.FormatJSON(out, w)
	case asCSL:
		return search.FormatCSL(out, w)
	default:
		search.FormatTable(out, w)
		return nil
	}
}

// describeSearchError prefixes err with its failure class so the user can
// tell a network problem from an error reported by PubMed.
func describeSearchError(err error) error {
	switch {
	case errors.Is(err, pubmed.ErrEmptyQuery), errors.Is(err, pubmed.ErrInvalidMaxResults):
		return err
	case errors.Is(err, httputil.ErrTransport):
		return fmt.Errorf("could not reach PubMed: %w", err)
	case httputil.IsStatus(err, 0):
		return fmt.Errorf("PubMed returned an error: %w", err)
	case errors.Is(err, pubmed.ErrMalformedResponse):
		return fmt.Errorf("unexpected PubMed response: %w", err)
	default:
		return err
	}
}
