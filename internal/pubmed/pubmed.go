// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed queries the NCBI E-utilities API and returns normalized
// article records. A search is two sequential calls: esearch maps the query
// to a ranked PMID list, esummary resolves those PMIDs to document summaries.
// The client never retries, caches, or paginates.
package pubmed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/pubmed-search/internal/httputil"
	"github.com/pdiddy/pubmed-search/pkg/types"
)

const database = "pubmed"

var (
	// ErrEmptyQuery is returned when the query has no search terms.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrInvalidMaxResults is returned when maxResults is zero or negative.
	ErrInvalidMaxResults = errors.New("max results must be a positive integer")

	// ErrMalformedResponse is returned when a response lacks the fields the
	// search depends on.
	ErrMalformedResponse = errors.New("malformed response")
)

// Client runs PubMed searches. It holds no per-search state and is safe for
// concurrent use.
type Client struct {
	http   *http.Client
	cfg    types.SearchConfig
	logger *log.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the timeout-bounded client built from the config.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a Client for cfg. Zero-valued settings fall back to
// types.DefaultSearchConfig.
func New(cfg types.SearchConfig, opts ...Option) *Client {
	cfg = cfg.WithDefaults()
	c := &Client{
		http:   httputil.NewClient(cfg.Timeout),
		cfg:    cfg,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultMaxResults returns the configured default result bound.
func (c *Client) DefaultMaxResults() int { return c.cfg.MaxResults }

// Search returns up to maxResults articles for query, in the relevance
// order PubMed reported. Identifiers without a document summary are
// skipped. An empty, non-nil slice is returned when nothing matches, in
// which case esummary is not called.
//
// Failures are never partial: a transport error (wrapping
// httputil.ErrTransport), a non-2xx status (*httputil.StatusError), or a
// response missing its expected fields (ErrMalformedResponse) aborts the
// whole search.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]types.Article, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if maxResults <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMaxResults, maxResults)
	}

	ids, err := c.searchIDs(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		c.logger.Debug("no identifiers matched", "query", query)
		return []types.Article{}, nil
	}

	docs, err := c.summaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	articles := make([]types.Article, 0, len(ids))
	for _, id := range ids {
		raw, ok := docs[id]
		if !ok {
			c.logger.Debug("no summary for identifier, skipping", "pmid", id)
			continue
		}
		doc, present, err := decodeSummary(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: esummary entry %s: %w", ErrMalformedResponse, id, err)
		}
		if !present {
			c.logger.Debug("empty summary for identifier, skipping", "pmid", id, "error", doc.Error)
			continue
		}
		articles = append(articles, doc.article(id))
	}
	return articles, nil
}

// searchIDs runs esearch and returns the ranked identifier list.
func (c *Client) searchIDs(ctx context.Context, query string, maxResults int) ([]string, error) {
	params := c.params()
	params.Set("term", query)
	params.Set("retmax", strconv.Itoa(maxResults))

	var resp esearchResponse
	if err := c.get(ctx, "esearch.fcgi", params, &resp); err != nil {
		return nil, err
	}
	if resp.Result == nil {
		return nil, fmt.Errorf("%w: esearch: missing esearchresult", ErrMalformedResponse)
	}
	if resp.Result.IDList == nil {
		if resp.Result.Error != "" {
			return nil, fmt.Errorf("%w: esearch: %s", ErrMalformedResponse, resp.Result.Error)
		}
		return nil, fmt.Errorf("%w: esearch: missing idlist", ErrMalformedResponse)
	}
	c.logger.Debug("esearch", "query", query, "ids", len(resp.Result.IDList), "count", resp.Result.Count)
	return resp.Result.IDList, nil
}

// summaries runs esummary for ids and returns the raw per-identifier
// documents keyed by PMID.
func (c *Client) summaries(ctx context.Context, ids []string) (map[string]json.RawMessage, error) {
	params := c.params()
	params.Set("id", strings.Join(ids, ","))

	var resp esummaryResponse
	if err := c.get(ctx, "esummary.fcgi", params, &resp); err != nil {
		return nil, err
	}
	if resp.Result == nil {
		return nil, fmt.Errorf("%w: esummary: missing result", ErrMalformedResponse)
	}
	c.logger.Debug("esummary", "requested", len(ids), "returned", len(resp.Result))
	return resp.Result, nil
}

// params returns the parameters shared by both calls.
func (c *Client) params() url.Values {
	v := url.Values{
		"db":      {database},
		"retmode": {"json"},
	}
	if c.cfg.Tool != "" {
		v.Set("tool", c.cfg.Tool)
	}
	if c.cfg.Email != "" {
		v.Set("email", c.cfg.Email)
	}
	return v
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, v any) error {
	reqURL := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + endpoint + "?" + params.Encode()
	c.logger.Debug("GET", "endpoint", endpoint)

	err := httputil.GetJSON(ctx, c.http, reqURL, c.cfg.UserAgent, v)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, httputil.ErrDecode):
		return fmt.Errorf("%w: %s: %w", ErrMalformedResponse, endpoint, err)
	default:
		return fmt.Errorf("%s request: %w", endpoint, err)
	}
}
