package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"crud-gateway/internal/config"
)

func newResourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resources",
		Short: "List registered resources and their routes",
		Long: `Resources prints every registered resource with the routes serve would
mount for it. No database connection is needed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			reg, err := newRegistry(cfg)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range reg.ResourceNames() {
				base := cfg.Server.BasePath + "/" + name
				fmt.Fprintf(w, "%s\n", name)
				fmt.Fprintf(w, "\tGET\t%s\n", base)
				fmt.Fprintf(w, "\tGET\t%s/:id\n", base)
				fmt.Fprintf(w, "\tPOST\t%s\n", base)
				fmt.Fprintf(w, "\tPATCH\t%s/:id\n", base)
				fmt.Fprintf(w, "\tDELETE\t%s/:id\n", base)
			}
			return w.Flush()
		},
	}
}
