// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scanner recovers page and record boundaries from a dump of
// markup text and emits extracted records in resumable batches.
package scanner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/pdiddy/infobox-engine/internal/wikitext"
	"github.com/pdiddy/infobox-engine/pkg/types"
)

var (
	recordStart = regexp.MustCompile(`\{\{\s*Infobox([^|}]+)`)
	pageTitle   = regexp.MustCompile(`<title>([^<]+)</title>`)
	redirect    = regexp.MustCompile(`<redirect title\s*=\s*"([^"]+)"\s*/>`)
)

// Filter restricts which records are emitted: every key must be present
// as a property and its value must contain the filter string
// (case-insensitive). A nil Filter passes everything.
type Filter map[string]string

// matchesValue reports whether the value satisfies the filter entry for
// key. Keys absent from the filter always match.
func (f Filter) matchesValue(key, value string) bool {
	want, ok := f[key]
	if !ok {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(want))
}

// matches reports whether a completed record satisfies every filter
// entry. The reserved key "infoboxtype" filters on the record's
// category field.
func (f Filter) matches(rec *types.Record) bool {
	for key, want := range f {
		value, ok := rec.Properties[key]
		if key == "infoboxtype" {
			value, ok = rec.Type, rec.Type != ""
		}
		if !ok || !strings.Contains(strings.ToLower(value), strings.ToLower(want)) {
			return false
		}
	}
	return true
}

// Options configures a scan session.
type Options struct {
	// Filter keeps only matching records. Nil keeps everything.
	Filter Filter

	// Skip passes over the first N eligible record starts without
	// materializing them. The counter spans the whole session: it is
	// never reset between batches.
	Skip int

	// Warnings receives non-fatal anomalies (duplicate keys, dropped
	// records). Nil discards them.
	Warnings io.Writer
}

// Scanner is a line-oriented state machine over one dump stream. It
// tracks the current page title, the open record, and a heuristic brace
// depth. A Scanner is not safe for concurrent use; concurrent scans
// need independent Scanners.
type Scanner struct {
	lines    *bufio.Scanner
	filter   Filter
	warnings io.Writer

	// Transient per-line cursor state.
	title string
	rec   *types.Record
	depth int

	// Session-global counters: record starts still to skip, and starts
	// (skipped or materialized) plus redirects consumed so far.
	toSkip int
	starts int

	done bool
}

// New returns a Scanner reading dump lines from r.
func New(r io.Reader, opts Options) *Scanner {
	lines := bufio.NewScanner(r)
	lines.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	w := opts.Warnings
	if w == nil {
		w = io.Discard
	}
	return &Scanner{
		lines:    lines,
		filter:   opts.Filter,
		warnings: w,
		toSkip:   opts.Skip,
	}
}

// Starts returns how many record starts and redirects the session has
// consumed so far, including skipped ones.
func (s *Scanner) Starts() int { return s.starts }

// Done reports whether the input stream is exhausted. A batch can come
// back empty before Done when every start in it was skipped or
// filtered.
func (s *Scanner) Done() bool { return s.done }

// NextBatch consumes lines until it has seen up to max record starts
// (emitted, skipped, or redirect) or the input ends, and returns the
// records emitted on the way. An empty batch means the input is
// exhausted. Cancellation is honored only between lines; mid-record
// state is not resumable from an interrupted point.
func (s *Scanner) NextBatch(ctx context.Context, max int) ([]types.Record, error) {
	if s.done {
		return nil, nil
	}

	var batch []types.Record
	seen := 0

	for seen < max || max <= 0 {
		select {
		case <-ctx.Done():
			return batch, ctx.Err()
		default:
		}

		if !s.lines.Scan() {
			if err := s.lines.Err(); err != nil {
				return batch, fmt.Errorf("reading dump: %w", err)
			}
			s.done = true
			return batch, nil
		}
		line := s.lines.Text()

		// Heuristic nesting estimate: count opener and closer pairs on
		// the line. Literal "{{" or "}}" inside a value throws this
		// off; that is an accepted approximation, not a parser.
		s.depth += strings.Count(line, "{{") - strings.Count(line, "}}")

		if m := pageTitle.FindStringSubmatch(line); m != nil {
			s.title = m[1]
			s.rec = nil
			continue
		}

		if m := redirect.FindStringSubmatch(line); m != nil {
			if s.title == "" {
				continue
			}
			seen++
			s.starts++
			batch = append(batch, types.Record{Title: s.title, Redirect: m[1]})
			s.title = ""
			s.rec = nil
			continue
		}

		if s.rec != nil && s.depth <= 0 {
			if s.filter.matches(s.rec) {
				batch = append(batch, *s.rec)
			} else {
				fmt.Fprintf(s.warnings, "dropping filtered record %q\n", s.rec.Title)
			}
			s.rec = nil
			s.title = ""
			continue
		}

		if s.title != "" {
			if m := recordStart.FindStringSubmatch(line); m != nil {
				seen++
				s.starts++
				s.depth = 1
				if s.toSkip > 0 {
					s.toSkip--
				} else {
					s.rec = &types.Record{
						Title:      s.title,
						Type:       wikitext.Clean(m[1]),
						Properties: make(map[string]string),
					}
				}
			}
		}

		// Property extraction runs on every line of an open record,
		// including the start line itself.
		if s.rec != nil {
			s.mergeProperties(line)
		}
	}

	return batch, nil
}

// mergeProperties extracts |key=value pairs from the line and merges
// them into the open record. When a filter entry rejects a matched
// value the in-progress record is abandoned immediately rather than at
// record end.
func (s *Scanner) mergeProperties(line string) {
	for _, prop := range wikitext.ExtractProperties(line) {
		if !s.filter.matchesValue(prop.Key, prop.Value) {
			fmt.Fprintf(s.warnings, "abandoning record %q: %s=%q fails filter\n",
				s.rec.Title, prop.Key, prop.Value)
			s.rec = nil
			return
		}
		if !s.rec.Set(prop.Key, prop.Value) {
			fmt.Fprintf(s.warnings, "duplicate property %q in record %q\n", prop.Key, s.rec.Title)
		}
	}
}
