// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/infobox-engine/internal/httputil"
)

// googleSearchBase is the Google Custom Search JSON API endpoint.
// Declared as a var so tests can substitute an httptest server.
var googleSearchBase = "https://www.googleapis.com/customsearch/v1"

const resultsPerPage = 10

// GoogleClient queries the Google Custom Search JSON API.
type GoogleClient struct {
	Client    *http.Client
	APIKey    string
	EngineID  string
	UserAgent string
	// Pages is the number of result pages fetched per snippet search.
	// Zero means one page.
	Pages int
}

// Snippets runs the queries as one OR-combined search and returns the
// snippet and title of every result, in result order.
func (g *GoogleClient) Snippets(ctx context.Context, queries []string) ([]string, error) {
	pages := g.Pages
	if pages <= 0 {
		pages = 1
	}
	query := ORQuery(queries)

	var snippets []string
	for page := 0; page < pages; page++ {
		resp, err := g.fetch(ctx, query, page*resultsPerPage+1)
		if err != nil {
			return nil, err
		}
		for _, item := range resp.Items {
			if item.Snippet != "" {
				snippets = append(snippets, item.Snippet)
			}
			if item.Title != "" {
				snippets = append(snippets, item.Title)
			}
		}
		if len(resp.Items) < resultsPerPage {
			break
		}
	}
	return snippets, nil
}

// Titles pages through results for the query until at least min titles
// are collected or the engine runs out of results.
func (g *GoogleClient) Titles(ctx context.Context, query string, min int) ([]string, error) {
	var titles []string
	for start := 1; len(titles) < min; start += resultsPerPage {
		resp, err := g.fetch(ctx, query, start)
		if err != nil {
			return nil, err
		}
		if len(resp.Items) == 0 {
			break
		}
		for _, item := range resp.Items {
			if item.Title != "" {
				titles = append(titles, item.Title)
			}
		}
	}
	return titles, nil
}

// HitCount returns the engine's estimated total number of results for
// the query.
func (g *GoogleClient) HitCount(ctx context.Context, query string) (int64, error) {
	resp, err := g.fetch(ctx, query, 1)
	if err != nil {
		return 0, err
	}
	if resp.SearchInformation.TotalResults == "" {
		return 0, nil
	}
	count, err := strconv.ParseInt(resp.SearchInformation.TotalResults, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing total results %q: %w", resp.SearchInformation.TotalResults, err)
	}
	return count, nil
}

func (g *GoogleClient) fetch(ctx context.Context, query string, start int) (*googleResponse, error) {
	params := url.Values{
		"key":   {g.APIKey},
		"cx":    {g.EngineID},
		"q":     {query},
		"start": {strconv.Itoa(start)},
	}
	reqURL := googleSearchBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if g.UserAgent != "" {
		req.Header.Set("User-Agent", g.UserAgent)
	}

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: search API returned HTTP %d", ErrUnavailable, resp.StatusCode)
	}

	var gr googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}
	return &gr, nil
}

// Google Custom Search JSON structures.
type googleResponse struct {
	SearchInformation googleSearchInformation `json:"searchInformation"`
	Items             []googleItem            `json:"items"`
}

type googleSearchInformation struct {
	TotalResults string `json:"totalResults"`
}

type googleItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}
