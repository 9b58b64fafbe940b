// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared data model and configuration structs for
// the infobox-engine pipeline.
package types

// Record is one extracted entity: a set of normalized key/value facts
// plus the reserved identity (page title) and category (infobox type)
// fields. A Record may instead be a redirect, in which case Redirect is
// the target title and Properties is empty.
type Record struct {
	// Title is the canonical page title the record was extracted from.
	Title string `json:"title" yaml:"title"`

	// Type is the infobox category captured from the record-start marker
	// (e.g. "person", "settlement"). Empty for redirects.
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Redirect is the target title when the page is a redirect.
	// Mutually exclusive with Type and Properties.
	Redirect string `json:"redirect,omitempty" yaml:"redirect,omitempty"`

	// Properties maps lowercase property names to normalized values.
	// First occurrence wins; later duplicate keys are dropped.
	Properties map[string]string `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// IsRedirect reports whether the record is a redirect stub.
func (r Record) IsRedirect() bool {
	return r.Redirect != ""
}

// Set adds a property unless the key is already present. It reports
// whether the value was stored.
func (r *Record) Set(key, value string) bool {
	if r.Properties == nil {
		r.Properties = make(map[string]string)
	}
	if _, ok := r.Properties[key]; ok {
		return false
	}
	r.Properties[key] = value
	return true
}

// Page is a stored record as returned by the store: the canonical title
// plus the derived lookup forms maintained alongside it.
type Page struct {
	Title      string            `json:"title" yaml:"title"`
	Lowercase  string            `json:"lowercase" yaml:"lowercase"`
	Stemmed    string            `json:"stemmed" yaml:"stemmed"`
	Type       string            `json:"type,omitempty" yaml:"type,omitempty"`
	Redirect   string            `json:"redirect,omitempty" yaml:"redirect,omitempty"`
	Properties map[string]string `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// IsRedirect reports whether the stored page is a redirect.
func (p *Page) IsRedirect() bool {
	return p.Redirect != ""
}

// PropertyCount pairs a property name with its occurrence count across a
// sample of records.
type PropertyCount struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// LookupStatus classifies the outcome of a collaborator lookup so callers
// can distinguish a genuine miss from a transient failure and decide
// retry policy themselves.
type LookupStatus int

const (
	// LookupFound means the operation returned a usable value.
	LookupFound LookupStatus = iota

	// LookupNotFound means the collaborator answered but had no result.
	LookupNotFound

	// LookupUnavailable means the collaborator could not be reached or
	// answered with a transport-level failure.
	LookupUnavailable
)

func (s LookupStatus) String() string {
	switch s {
	case LookupFound:
		return "found"
	case LookupNotFound:
		return "not-found"
	case LookupUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}
