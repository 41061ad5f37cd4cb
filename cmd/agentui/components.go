package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/counselkit/agentui/pkg/registry"
)

func componentsCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "components",
		Short: "Print the component catalog as JSON",
		Long: `Prints the registry's metadata export: the catalog of component
types a spec producer may reference. This is the same payload the
server exposes on /api/components.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.Default()

			metas := reg.ExportMetadata()
			if category != "" {
				c := registry.Category(category)
				if !c.Valid() {
					return fmt.Errorf("unknown category %q", category)
				}
				metas = reg.GetByCategory(c)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(metas)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "filter by category")

	return cmd
}
