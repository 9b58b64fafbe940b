// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/infobox-engine/internal/scanner"
	"github.com/pdiddy/infobox-engine/internal/store"
	"github.com/pdiddy/infobox-engine/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [dump file]",
	Short: "Scan a Wikipedia dump and load infobox records into the store",
	Long: `Extract streams a Wikipedia XML dump (optionally gzip or bzip2
compressed), scans it for infobox records and redirects, and inserts
them into the SQLite store in batches.

Use --limit and --skip to process a slice of the dump, and --filter to
keep only records whose properties contain given values, e.g.
--filter infoboxtype=company.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	skip, _ := cmd.Flags().GetInt("skip")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	filterSpecs, _ := cmd.Flags().GetStringSlice("filter")

	filter, err := parseFilter(filterSpecs)
	if err != nil {
		return err
	}
	if batchSize <= 0 {
		batchSize = 100
	}

	cfg := types.ExtractConfig{
		DumpPath:  args[0],
		Limit:     limit,
		Skip:      skip,
		BatchSize: batchSize,
		Filter:    filter,
	}

	dump, err := scanner.OpenDump(cfg.DumpPath)
	if err != nil {
		return err
	}
	defer dump.Close()

	st, err := store.Open(types.StoreConfig{Path: storePath()})
	if err != nil {
		return err
	}
	defer st.Close()

	sc := scanner.New(dump, scanner.Options{
		Filter:   scanner.Filter(cfg.Filter),
		Skip:     cfg.Skip,
		Warnings: os.Stderr,
	})

	ctx := context.Background()
	var total store.InsertSummary
	for {
		remaining := 0
		if cfg.Limit > 0 {
			remaining = cfg.Limit - sc.Starts()
			if remaining <= 0 {
				break
			}
			if remaining > cfg.BatchSize {
				remaining = cfg.BatchSize
			}
		} else {
			remaining = cfg.BatchSize
		}

		records, err := sc.NextBatch(ctx, remaining)
		if err != nil {
			return fmt.Errorf("scanning dump: %w", err)
		}
		if len(records) == 0 && sc.Done() {
			break
		}
		if len(records) == 0 {
			continue
		}

		summary, err := st.InsertRecords(ctx, records, os.Stderr)
		if err != nil {
			return fmt.Errorf("storing records: %w", err)
		}
		total.Stored += summary.Stored
		total.Duplicates += summary.Duplicates
		total.Dropped += summary.Dropped
		fmt.Fprintf(os.Stderr, "processed %d record starts, stored %d\n", sc.Starts(), total.Stored)
	}

	fmt.Printf("Record starts seen: %d\n", sc.Starts())
	fmt.Printf("Stored: %d\nDuplicates: %d\nDropped: %d\n",
		total.Stored, total.Duplicates, total.Dropped)
	return nil
}

// parseFilter turns key=value specs into a scanner filter.
func parseFilter(specs []string) (scanner.Filter, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	filter := make(scanner.Filter, len(specs))
	for _, spec := range specs {
		key, value, ok := strings.Cut(spec, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid filter %q: want key=value", spec)
		}
		filter[key] = value
	}
	return filter, nil
}

func init() {
	extractCmd.Flags().Int("limit", 0, "stop after this many record starts (0 = all)")
	extractCmd.Flags().Int("skip", 0, "skip the first N record starts")
	extractCmd.Flags().Int("batch-size", 100, "records inserted per transaction")
	extractCmd.Flags().StringSlice("filter", nil, "keep only records matching key=value (repeatable; infoboxtype matches the record type)")

	rootCmd.AddCommand(extractCmd)
}
