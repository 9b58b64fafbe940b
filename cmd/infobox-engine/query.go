// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/infobox-engine/internal/answer"
	"github.com/pdiddy/infobox-engine/internal/lexical"
	"github.com/pdiddy/infobox-engine/internal/resolver"
	"github.com/pdiddy/infobox-engine/internal/store"
	"github.com/pdiddy/infobox-engine/internal/websearch"
	"github.com/pdiddy/infobox-engine/pkg/types"
)

var queryCmd = &cobra.Command{
	Use:   "query [question or query file]",
	Short: "Answer a question from the infobox store",
	Long: `Query answers a natural-language question against the store. When the
argument is an existing file it is read as a TAB-separated query log:
the first line is skipped as a header and the question is taken from
the second field of each row.

Entities the store cannot type are typed through a web search when
API credentials are configured (.secrets/google-api-key and
.secrets/google-cse-id, or the --api-key and --cse-id flags).`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg := queryConfigFromFlags(cmd)

	st, err := store.Open(types.StoreConfig{
		Path:              storePath(),
		MaxInstanceSample: 50,
	})
	if err != nil {
		return err
	}
	defer st.Close()

	search := searchFromFlags(cmd, st)
	if search == nil {
		fmt.Fprintln(os.Stderr, "No search API credentials, answering from the store only.")
	}

	vocab := lexical.DefaultVocab()
	if stopwordFile, _ := cmd.Flags().GetString("stopwords"); stopwordFile != "" {
		if err := vocab.AddStopwordFile(stopwordFile); err != nil {
			return err
		}
	}

	engine := answer.New(st, resolver.New(st, nil), search, vocab, cfg)

	queries := args[:1]
	if _, statErr := os.Stat(args[0]); statErr == nil {
		queries, err = answer.ReadQueryFile(args[0], cfg.MaxQueries, cfg.RandomQueries)
		if err != nil {
			return err
		}
	}

	ctx := context.Background()
	results := make([]answer.Result, 0, len(queries))
	for _, q := range queries {
		res, err := engine.Answer(ctx, q, os.Stdout)
		if err != nil {
			return err
		}
		results = append(results, *res)
		fmt.Println()
	}

	if sessionFile, _ := cmd.Flags().GetString("session"); sessionFile != "" {
		if err := answer.WriteSessionFile(sessionFile, cfg, results); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Session written to %s\n", sessionFile)
	}
	return nil
}

func queryConfigFromFlags(cmd *cobra.Command) types.QueryConfig {
	maxQueries, _ := cmd.Flags().GetInt("max-queries")
	random, _ := cmd.Flags().GetBool("random")
	top, _ := cmd.Flags().GetInt("top-properties")
	fuzzy, _ := cmd.Flags().GetBool("fuzzy")

	return types.QueryConfig{
		MaxQueries:    maxQueries,
		RandomQueries: random,
		TopProperties: top,
		Fuzzy:         fuzzy,
	}
}

// searchFromFlags builds the web search source, or returns nil when no
// credentials are available or --offline is set.
func searchFromFlags(cmd *cobra.Command, st *store.Store) websearch.Source {
	if offline, _ := cmd.Flags().GetBool("offline"); offline {
		return nil
	}

	apiKey, _ := cmd.Flags().GetString("api-key")
	engineID, _ := cmd.Flags().GetString("cse-id")
	pages, _ := cmd.Flags().GetInt("pages")
	noCache, _ := cmd.Flags().GetBool("no-cache")

	cfg := types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: "infobox-engine/" + version,
		},
		APIKey:       secretDefault("google-api-key", apiKey),
		EngineID:     secretDefault("google-cse-id", engineID),
		Pages:        pages,
		CacheResults: !noCache,
	}
	if cfg.APIKey == "" || cfg.EngineID == "" {
		return nil
	}

	client := &websearch.GoogleClient{
		Client:    &http.Client{Timeout: cfg.Timeout},
		APIKey:    cfg.APIKey,
		EngineID:  cfg.EngineID,
		UserAgent: cfg.UserAgent,
		Pages:     cfg.Pages,
	}

	if !cfg.CacheResults {
		return client
	}
	return websearch.NewCachedSource(client, st)
}

func init() {
	queryCmd.Flags().Int("max-queries", 10, "maximum queries read from a query file")
	queryCmd.Flags().Bool("random", false, "sample query-file lines randomly instead of from the top")
	queryCmd.Flags().Int("top-properties", 10, "frequent properties listed for an answer's type")
	queryCmd.Flags().Bool("fuzzy", false, "enable similarity fallback when resolving names")
	queryCmd.Flags().String("stopwords", "", "comma-separated stopword file merged into the built-in list")
	queryCmd.Flags().String("session", "", "write a YAML session file with all results")
	queryCmd.Flags().String("api-key", "", "search API key (overrides .secrets/google-api-key)")
	queryCmd.Flags().String("cse-id", "", "search engine ID (overrides .secrets/google-cse-id)")
	queryCmd.Flags().Int("pages", 1, "result pages fetched per snippet search")
	queryCmd.Flags().Bool("no-cache", false, "bypass the snippet cache")
	queryCmd.Flags().Bool("offline", false, "never touch the web, even with credentials")

	rootCmd.AddCommand(queryCmd)
}
