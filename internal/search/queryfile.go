// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubmed-search/pkg/types"
)

// QueryFile is the on-disk representation of a search query and its results.
// A saved search can be displayed again later without re-querying PubMed.
type QueryFile struct {
	Query   QueryParams     `yaml:"query"`
	Results []types.Article `yaml:"results"`
	Summary QuerySummary    `yaml:"summary"`
}

// QueryParams stores the query parameters in a serializable form.
type QueryParams struct {
	Term       string `yaml:"term"`
	MaxResults int    `yaml:"max_results"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	Total     int       `yaml:"total"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteQueryFile saves query parameters and results to a YAML file.
func WriteQueryFile(path string, out SearchOutput) error {
	qf := QueryFile{
		Query: QueryParams{
			Term:       out.Query.Term,
			MaxResults: out.Query.MaxResults,
		},
		Results: out.Results,
		Summary: QuerySummary{
			Total:     len(out.Results),
			Timestamp: out.Timestamp,
		},
	}
	if qf.Results == nil {
		qf.Results = []types.Article{}
	}
	if qf.Summary.Timestamp.IsZero() {
		qf.Summary.Timestamp = time.Now().UTC()
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}

// Output converts a loaded query file back into a SearchOutput for display.
func (qf *QueryFile) Output() SearchOutput {
	return SearchOutput{
		Query:     Query{Term: qf.Query.Term, MaxResults: qf.Query.MaxResults},
		Results:   qf.Results,
		Timestamp: qf.Summary.Timestamp,
	}
}
