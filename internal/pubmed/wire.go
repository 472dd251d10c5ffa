// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"encoding/json"

	"github.com/pdiddy/pubmed-search/pkg/types"
)

// E-utilities JSON structures. Only the fields the search reads are decoded.

type esearchResponse struct {
	Result *esearchResult `json:"esearchresult"`
}

type esearchResult struct {
	Count  string   `json:"count"`
	IDList []string `json:"idlist"`
	// Error is set by NCBI instead of idlist when the term is rejected.
	Error string `json:"ERROR"`
}

// esummaryResponse keeps result entries raw: besides one object per PMID the
// map holds a "uids" array, which is never looked up.
type esummaryResponse struct {
	Result map[string]json.RawMessage `json:"result"`
}

type esummaryDoc struct {
	UID             string           `json:"uid"`
	Title           string           `json:"title"`
	FullJournalName string           `json:"fulljournalname"`
	PubDate         string           `json:"pubdate"`
	Authors         []esummaryAuthor `json:"authors"`
	Error           string           `json:"error"`
}

type esummaryAuthor struct {
	Name string `json:"name"`
}

// decodeSummary decodes one result entry. present is false for entries
// that carry no document: null, {}, or a per-identifier error object.
func decodeSummary(raw json.RawMessage) (doc esummaryDoc, present bool, err error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return doc, false, err
	}
	if len(fields) == 0 {
		return doc, false, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, false, err
	}
	if doc.Error != "" {
		return doc, false, nil
	}
	return doc, true, nil
}

func (d esummaryDoc) article(pmid string) types.Article {
	a := types.Article{
		PMID:    pmid,
		Title:   d.Title,
		Journal: d.FullJournalName,
		Year:    publicationYear(d.PubDate),
		Authors: make([]string, 0, len(d.Authors)),
	}
	for _, au := range d.Authors {
		a.Authors = append(a.Authors, au.Name)
	}
	return a
}

// publicationYear returns the first four characters of pubdate
// (e.g. "2020 Jan 15" → "2020"), or "" when pubdate is shorter.
func publicationYear(pubdate string) string {
	r := []rune(pubdate)
	if len(r) < 4 {
		return ""
	}
	return string(r[:4])
}
