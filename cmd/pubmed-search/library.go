// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubmed-search/internal/library"
	"github.com/pdiddy/pubmed-search/internal/search"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Browse articles saved with search --library",
	Long: `Library reads the local SQLite library populated by "search --library".
It never contacts PubMed.`,
}

// --- list subcommand ---

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved articles, optionally filtered",
	Args:  cobra.NoArgs,
	RunE:  runLibraryList,
}

func runLibraryList(cmd *cobra.Command, args []string) error {
	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	var f library.Filter
	f.Text, _ = cmd.Flags().GetString("text")
	f.Journal, _ = cmd.Flags().GetString("journal")
	f.Year, _ = cmd.Flags().GetString("year")
	f.Author, _ = cmd.Flags().GetString("author")
	f.Limit, _ = cmd.Flags().GetInt("limit")

	articles, err := store.Articles(cmd.Context(), f)
	if err != nil {
		return err
	}
	return writeOutput(cmd, search.SearchOutput{Results: articles}, cmd.OutOrStdout())
}

// --- searches subcommand ---

var librarySearchesCmd = &cobra.Command{
	Use:   "searches",
	Short: "List saved searches, newest first",
	Args:  cobra.NoArgs,
	RunE:  runLibrarySearches,
}

func runLibrarySearches(cmd *cobra.Command, args []string) error {
	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	searches, err := store.Searches(cmd.Context())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		if searches == nil {
			searches = []library.SavedSearch{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(searches)
	}

	if len(searches) == 0 {
		fmt.Fprintln(w, "No saved searches.")
		return nil
	}
	for _, s := range searches {
		fmt.Fprintf(w, "%s  %s  %3d  %s\n",
			s.ID, s.CreatedAt.Local().Format("2006-01-02 15:04"), s.ResultCount, s.Term)
	}
	return nil
}

// --- show subcommand ---

var libraryShowCmd = &cobra.Command{
	Use:   "show <search-id>",
	Short: "Show the articles of one saved search in rank order",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryShow,
}

func runLibraryShow(cmd *cobra.Command, args []string) error {
	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	articles, err := store.SearchArticles(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return writeOutput(cmd, search.SearchOutput{Results: articles}, cmd.OutOrStdout())
}

func openLibrary() (*library.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if _, err := os.Stat(cfg.Library.Dir); os.IsNotExist(err) {
		return nil, fmt.Errorf("no library at %s: save a search with search --library first", cfg.Library.Dir)
	}
	return library.NewStore(cfg.Library)
}

func init() {
	libraryListCmd.Flags().String("text", "", "filter by title substring")
	libraryListCmd.Flags().String("journal", "", "filter by journal substring")
	libraryListCmd.Flags().String("year", "", "filter by publication year")
	libraryListCmd.Flags().String("author", "", "filter by author substring")
	libraryListCmd.Flags().Int("limit", 20, "maximum number of articles to list")

	for _, c := range []*cobra.Command{libraryListCmd, libraryShowCmd} {
		c.Flags().Bool("json", false, "output results as JSON")
		c.Flags().Bool("csl", false, "output results as CSL-YAML")
		c.MarkFlagsMutuallyExclusive("json", "csl")
	}
	librarySearchesCmd.Flags().Bool("json", false, "output searches as JSON")

	libraryCmd.AddCommand(libraryListCmd, librarySearchesCmd, libraryShowCmd)
	rootCmd.AddCommand(libraryCmd)
}
