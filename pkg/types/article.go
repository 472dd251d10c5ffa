// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for pubmed-search: the
// normalized article record returned by the search client and the
// configuration structs bound from flags, files, and environment.
package types

// Article is the normalized record built from one PubMed document summary.
// Articles only exist for identifiers the summary endpoint resolved.
type Article struct {
	// PMID is the PubMed identifier (a numeric string, e.g. "31978945").
	PMID string `json:"pmid" yaml:"pmid"`

	// Title is the article title as returned by esummary. Empty when absent.
	Title string `json:"title" yaml:"title"`

	// Journal is the full journal name. Empty when absent.
	Journal string `json:"journal" yaml:"journal"`

	// Year is the first four characters of the publication date, or empty
	// when the date is missing or too short.
	Year string `json:"year" yaml:"year"`

	// Authors lists author names in source order.
	Authors []string `json:"authors" yaml:"authors"`
}
