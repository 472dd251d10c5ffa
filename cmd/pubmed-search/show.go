package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/pubmed-search/internal/search"
)

var showCmd = &cobra.Command{
	Use:   "show <query-file>",
	Short: "Display results from a saved query file",
	Long: `Show reads a query file written by "search --save" and prints its results
without contacting PubMed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		qf, err := search.ReadQueryFile(args[0])
		if err != nil {
			return err
		}
		loggerFromContext(cmd.Context()).Debug("loaded query file",
			"term", qf.Query.Term, "saved", qf.Summary.Timestamp)
		return writeOutput(cmd, qf.Output(), cmd.OutOrStdout())
	},
}

func init() {
	showCmd.Flags().Bool("json", false, "output results as JSON")
	showCmd.Flags().Bool("csl", false, "output results as CSL-YAML")
	showCmd.MarkFlagsMutuallyExclusive("json", "csl")

	rootCmd.AddCommand(showCmd)
}
