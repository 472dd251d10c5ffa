package search

import (
	"io"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubmed-search/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-JSON/CSL-YAML schema
// so that output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Author         []CSLName `yaml:"author,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	PMID           string    `yaml:"PMID"`
	URL            string    `yaml:"URL"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

const pubmedArticleURL = "https://pubmed.ncbi.nlm.nih.gov/"

// FormatCSL writes search results as a CSL-YAML list to w.
func FormatCSL(out SearchOutput, w io.Writer) error {
	items := make([]CSLItem, len(out.Results))
	for i, a := range out.Results {
		items[i] = toCSLItem(a)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// toCSLItem converts an Article to a CSLItem.
func toCSLItem(a types.Article) CSLItem {
	item := CSLItem{
		ID:             "pmid:" + a.PMID,
		Type:           "article-journal",
		Title:          a.Title,
		ContainerTitle: a.Journal,
		PMID:           a.PMID,
		URL:            pubmedArticleURL + a.PMID + "/",
	}

	for _, name := range a.Authors {
		item.Author = append(item.Author, parseAuthorName(name))
	}

	if year, err := strconv.Atoi(a.Year); err == nil {
		item.Issued = &CSLDate{DateParts: [][]int{{year}}}
	}

	return item
}

// parseAuthorName splits a PubMed author string into CSL family/given parts.
// PubMed lists names as "Family Initials" (e.g. "Smith AB"), so the last
// token is treated as the given part. Single-token names, usually
// collective authors, use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Family: name[:idx],
		Given:  name[idx+1:],
	}
}
