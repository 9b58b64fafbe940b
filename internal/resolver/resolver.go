// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolver maps free-form names to canonical stored records.
// The store supplies the lookup primitives; the resolver owns the
// precedence between them.
package resolver

import (
	"context"

	"github.com/pdiddy/infobox-engine/internal/lexical"
	"github.com/pdiddy/infobox-engine/pkg/types"
)

// Store is the subset of lookup primitives resolution needs.
type Store interface {
	FindByTitle(ctx context.Context, title string) (*types.Page, error)
	FindByLowercase(ctx context.Context, name string) (*types.Page, error)
	FindByStemmed(ctx context.Context, stemmed string) (*types.Page, error)
	FindByRedirectTarget(ctx context.Context, name string) (*types.Page, error)
	FindByAffix(ctx context.Context, name string) (*types.Page, error)
	FindByContainedWord(ctx context.Context, name string) (*types.Page, error)
}

// Resolver resolves names against a record store.
type Resolver struct {
	store Store
	stem  func(string) string
}

// New returns a Resolver over the given store. A nil stem function uses
// the shared lexical stemmer.
func New(store Store, stem func(string) string) *Resolver {
	if stem == nil {
		stem = lexical.Stem
	}
	return &Resolver{store: store, stem: stem}
}

// Resolve finds the record for a name, trying in order: exact
// identifier, case-insensitive form, redirect target, stemmed form,
// and — only when fuzzy is set — similarity fallbacks (whole-string
// case-insensitive, prefix/suffix, separated word). The first tier
// that hits wins. When the resolved record is itself a redirect, one
// hop to the target is followed; the target is returned as-is even if
// it carries a further redirect field. A miss returns (nil, nil).
func (r *Resolver) Resolve(ctx context.Context, name string, fuzzy bool) (*types.Page, error) {
	page, err := r.lookup(ctx, name, fuzzy, true)
	if err != nil || page == nil {
		return page, err
	}
	if page.IsRedirect() {
		target, err := r.lookup(ctx, page.Redirect, false, false)
		if err != nil {
			return nil, err
		}
		return target, nil
	}
	return page, nil
}

// Canonical resolves a name to its canonical identifier without loading
// the full record chain: a redirect's target title is returned directly,
// trusting the store. Returns ("", nil) when the name is unknown.
func (r *Resolver) Canonical(ctx context.Context, name string) (string, error) {
	page, err := r.lookup(ctx, name, false, true)
	if err != nil || page == nil {
		return "", err
	}
	if page.IsRedirect() {
		return page.Redirect, nil
	}
	return page.Title, nil
}

// lookup walks the precedence tiers. The redirect-target tier is
// skipped while resolving a redirect hop, bounding redirect chains to
// a single hop.
func (r *Resolver) lookup(ctx context.Context, name string, fuzzy, viaRedirectTarget bool) (*types.Page, error) {
	tiers := []func() (*types.Page, error){
		func() (*types.Page, error) { return r.store.FindByTitle(ctx, name) },
		func() (*types.Page, error) { return r.store.FindByLowercase(ctx, name) },
	}
	if viaRedirectTarget {
		tiers = append(tiers, func() (*types.Page, error) {
			return r.store.FindByRedirectTarget(ctx, name)
		})
	}
	tiers = append(tiers, func() (*types.Page, error) {
		return r.store.FindByStemmed(ctx, r.stem(name))
	})
	if fuzzy {
		tiers = append(tiers,
			func() (*types.Page, error) { return r.store.FindByLowercase(ctx, name) },
			func() (*types.Page, error) { return r.store.FindByAffix(ctx, name) },
			func() (*types.Page, error) { return r.store.FindByContainedWord(ctx, name) },
		)
	}

	for _, tier := range tiers {
		page, err := tier()
		if err != nil {
			return nil, err
		}
		if page != nil {
			return page, nil
		}
	}
	return nil, nil
}
