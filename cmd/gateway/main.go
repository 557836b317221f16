// Package main provides the gateway CLI: serve the CRUD API, list the
// registered resources and mint development tokens.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"crud-gateway/internal/config"
	"crud-gateway/internal/entities"
	"crud-gateway/internal/naming"
	"crud-gateway/internal/schema"
)

var (
	// Version is set at build time via -ldflags "-X main.Version=...".
	Version = "dev"
	Commit  = "none"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gateway",
		Short: "Table-driven CRUD gateway",
		Long: `gateway serves create, read, update and delete endpoints for every
registered entity. Payloads are validated against the entity's contracts
before they reach the database, and storage errors are mapped onto
field-scoped HTTP responses.`,
		SilenceUsage: true,
	}
	config.DefineFlags(root.PersistentFlags())

	root.AddCommand(newServeCmd())
	root.AddCommand(newResourcesCmd())
	root.AddCommand(newTokenCmd())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gateway %s (%s)\n", Version, Commit)
		},
	})
	return root
}

// newRegistry registers every entity under the configured naming rules.
func newRegistry(cfg *config.Config) (*schema.Registry, error) {
	reg := schema.NewRegistry(naming.New(cfg.Naming))
	if err := reg.Register(entities.All()...); err != nil {
		return nil, fmt.Errorf("register entities: %w", err)
	}
	return reg, nil
}
