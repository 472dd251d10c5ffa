package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubmed-search/pkg/types"
)

// --- mock searcher ---

type mockSearcher struct {
	results []types.Article
	err     error

	gotQuery string
	gotMax   int
}

func (m *mockSearcher) Search(_ context.Context, query string, maxResults int) ([]types.Article, error) {
	m.gotQuery = query
	m.gotMax = maxResults
	return m.results, m.err
}

func sampleArticles() []types.Article {
	return []types.Article{
		{
			PMID:    "31978945",
			Title:   "A Novel Coronavirus from Patients with Pneumonia in China, 2019",
			Journal: "The New England journal of medicine",
			Year:    "2020",
			Authors: []string{"Zhu N", "Zhang D", "Wang W"},
		},
		{
			PMID:    "111",
			Title:   "Metformin in T2D",
			Journal: "Diabetes Care",
			Year:    "2020",
			Authors: []string{"Smith A"},
		},
	}
}

// --- Run ---

func TestRunPassesQuery(t *testing.T) {
	m := &mockSearcher{results: sampleArticles()}
	out, err := Run(context.Background(), m, Query{Term: "covid", MaxResults: 2})
	require.NoError(t, err)

	assert.Equal(t, "covid", m.gotQuery)
	assert.Equal(t, 2, m.gotMax)
	assert.Equal(t, sampleArticles(), out.Results)
	assert.Equal(t, "covid", out.Query.Term)
	assert.False(t, out.Timestamp.IsZero())
}

func TestRunReturnsSearcherError(t *testing.T) {
	sentinel := errors.New("boom")
	m := &mockSearcher{err: sentinel}
	out, err := Run(context.Background(), m, Query{Term: "covid", MaxResults: 2})
	assert.ErrorIs(t, err, sentinel)
	assert.Empty(t, out.Results)
}

// --- Formatting ---

func TestFormatTable(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(SearchOutput{Results: sampleArticles()}, &buf)
	s := buf.String()

	if !strings.Contains(s, "31978945") {
		t.Error("table should contain the first PMID")
	}
	if !strings.Contains(s, "Zhu N et al.") {
		t.Error("table should abbreviate multiple authors with et al.")
	}
	if !strings.Contains(s, "Smith A") {
		t.Error("table should contain single author")
	}
	if !strings.Contains(s, "...") {
		t.Error("long titles should be truncated")
	}
	if !strings.Contains(s, "2 results") {
		t.Error("table should report result count")
	}
	// First PMID is ranked before the second.
	if strings.Index(s, "31978945") > strings.Index(s, "Metformin") {
		t.Error("table rows should keep result order")
	}
}

func TestFormatTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(SearchOutput{}, &buf)
	if !strings.Contains(buf.String(), "No results found.") {
		t.Errorf("got %q, want no-results message", buf.String())
	}
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatJSON(SearchOutput{Results: sampleArticles()[1:]}, &buf))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "111", got[0]["pmid"])
	assert.Equal(t, "Metformin in T2D", got[0]["title"])
	assert.Equal(t, "Diabetes Care", got[0]["journal"])
	assert.Equal(t, "2020", got[0]["year"])
	assert.Equal(t, []any{"Smith A"}, got[0]["authors"])
}

func TestFormatJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatJSON(SearchOutput{}, &buf))
	assert.Equal(t, "[]\n", buf.String())
}

func TestFormatJSONEmptyAuthors(t *testing.T) {
	var buf bytes.Buffer
	out := SearchOutput{Results: []types.Article{{PMID: "1", Authors: []string{}}}}
	require.NoError(t, FormatJSON(out, &buf))
	assert.Contains(t, buf.String(), `"authors": []`)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"ééééééééééé", 10, "ééééééé..."},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := truncate(tt.in, tt.max); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}
