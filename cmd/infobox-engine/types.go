// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/infobox-engine/internal/store"
	"github.com/pdiddy/infobox-engine/pkg/types"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the category vocabulary extracted from infoboxes",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		st, err := store.Open(types.StoreConfig{Path: storePath()})
		if err != nil {
			return err
		}
		defer st.Close()

		names, err := st.Types(context.Background(), limit)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		fmt.Printf("\n%d type names\n", len(names))
		return nil
	},
}

var instancesCmd = &cobra.Command{
	Use:   "instances [type]",
	Short: "List stored pages matching a type name",
	Long: `Instances prints the titles of every stored page whose infobox type,
stemmed type, or "type" property matches the given name.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(types.StoreConfig{Path: storePath()})
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := context.Background()
		typeNames, err := st.MatchTypes(ctx, args[0])
		if err != nil {
			return err
		}
		if len(typeNames) == 0 {
			typeNames = []string{args[0]}
		}

		var titles []string
		for _, typeName := range typeNames {
			pages, err := st.FindPagesByType(ctx, typeName)
			if err != nil {
				return err
			}
			titles = append(titles, pages...)
		}
		fmt.Println(strings.Join(titles, ", "))
		return nil
	},
}

func init() {
	typesCmd.Flags().Int("limit", 0, "maximum type names to list (0 = all)")

	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(instancesCmd)
}
