// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package answer

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/infobox-engine/pkg/types"
)

// ReadQueryFile reads queries from a TAB-separated log file. The first
// line is a header and is skipped; the query is the second field of
// each row. At most limit queries are returned, taken from the top of
// the file or, when random is set, sampled from the whole file.
func ReadQueryFile(path string, limit int, random bool) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening query file: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	header := true
	for sc.Scan() {
		if header {
			header = false
			continue
		}
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}

	if random {
		rand.Shuffle(len(lines), func(i, j int) {
			lines[i], lines[j] = lines[j], lines[i]
		})
	}

	var queries []string
	for _, line := range lines {
		if limit > 0 && len(queries) >= limit {
			break
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 || strings.TrimSpace(fields[1]) == "" {
			continue
		}
		queries = append(queries, fields[1])
	}
	return queries, nil
}

// SessionFile is the on-disk record of an answering session: the
// configuration used and the result of every query.
type SessionFile struct {
	Config  types.QueryConfig `yaml:"config"`
	Results []Result          `yaml:"results"`
	Summary SessionSummary    `yaml:"summary"`
}

// SessionSummary stores result statistics and a timestamp.
type SessionSummary struct {
	Total     int       `yaml:"total"`
	Answered  int       `yaml:"answered"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteSessionFile saves the session results to a YAML file.
func WriteSessionFile(path string, cfg types.QueryConfig, results []Result) error {
	answered := 0
	for _, r := range results {
		if r.View == ViewSingle || r.View == ViewList {
			answered++
		}
	}
	sf := SessionFile{
		Config:  cfg,
		Results: results,
		Summary: SessionSummary{
			Total:     len(results),
			Answered:  answered,
			Timestamp: time.Now(),
		},
	}

	data, err := yaml.Marshal(&sf)
	if err != nil {
		return fmt.Errorf("marshaling session file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadSessionFile loads a previously saved session file from disk.
func ReadSessionFile(path string) (*SessionFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}
	var sf SessionFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing session file: %w", err)
	}
	return &sf, nil
}
