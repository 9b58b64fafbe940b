// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/infobox-engine/internal/hypernym"
	"github.com/pdiddy/infobox-engine/internal/websearch"
	"github.com/pdiddy/infobox-engine/pkg/types"
)

// Instance is a typed entity, assembled from a stored page or from a
// web search.
type Instance struct {
	Name       string
	Type       string
	Properties map[string]string
	// FromWeb marks instances typed by web search rather than by a
	// stored infobox.
	FromWeb bool
}

// findInstance resolves the term to a typed instance. The store is
// consulted first; when it has no type for the term the web search
// types it through hypernym patterns. A transient search failure
// degrades to LookupUnavailable instead of failing the query.
func (e *Engine) findInstance(ctx context.Context, term string) (*Instance, types.LookupStatus, error) {
	page, err := e.res.Resolve(ctx, term, e.cfg.Fuzzy)
	if err != nil {
		return nil, types.LookupNotFound, fmt.Errorf("resolving %q: %w", term, err)
	}
	if page != nil && page.Type != "" {
		return &Instance{
			Name:       page.Title,
			Type:       page.Type,
			Properties: page.Properties,
		}, types.LookupFound, nil
	}

	if e.search == nil {
		return pageInstance(page), types.LookupNotFound, nil
	}

	typeName, err := e.webType(ctx, term)
	if errors.Is(err, websearch.ErrUnavailable) {
		return pageInstance(page), types.LookupUnavailable, nil
	}
	if err != nil {
		return nil, types.LookupNotFound, err
	}
	if typeName == "" {
		return pageInstance(page), types.LookupNotFound, nil
	}

	inst := &Instance{Name: term, Type: typeName, FromWeb: true}
	if page != nil {
		inst.Name = page.Title
		inst.Properties = page.Properties
	}
	return inst, types.LookupFound, nil
}

// pageInstance wraps an untyped page, or returns nil when there is no
// page at all.
func pageInstance(page *types.Page) *Instance {
	if page == nil {
		return nil
	}
	return &Instance{Name: page.Title, Properties: page.Properties}
}

// webType searches the web for the term and extracts its type from the
// result snippets.
func (e *Engine) webType(ctx context.Context, term string) (string, error) {
	snippets, err := e.search.Snippets(ctx, hypernym.Queries(term))
	if err != nil {
		return "", err
	}

	var candidates []string
	seen := make(map[string]bool)
	for _, snippet := range snippets {
		found, err := e.ext.Candidates(ctx, snippet, term)
		if err != nil {
			return "", err
		}
		for _, c := range found {
			key := strings.ToLower(c)
			if !seen[key] {
				seen[key] = true
				candidates = append(candidates, c)
			}
		}
	}
	if len(candidates) == 0 {
		return "", nil
	}

	knownTypes, err := e.store.Types(ctx, 0)
	if err != nil {
		return "", fmt.Errorf("loading type vocabulary: %w", err)
	}

	// Candidates are scored by how often they appear in snippets for
	// the bare term. Those snippets are fetched once and reused.
	var termSnippets []string
	fetched := false
	count := func(ctx context.Context, candidate string) (int64, error) {
		if !fetched {
			termSnippets, err = e.search.Snippets(ctx, []string{term})
			if err != nil {
				return 0, err
			}
			fetched = true
		}
		return int64(websearch.SnippetCount(termSnippets, candidate)), nil
	}

	return hypernym.Rank(ctx, candidates, knownTypes, count)
}
