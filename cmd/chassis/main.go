// Package main runs the service chassis: an HTTP service skeleton with
// problem-details error handling, readiness probes, a kill switch and the
// example resource API.
//
// Usage:
//
//	chassis serve
package main

import (
	"fmt"
	"os"

	"github.com/fwplatform/service-chassis/pkg/http/resources"
	"github.com/fwplatform/service-chassis/pkg/modules"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "chassis",
		Short:   "Run the service chassis",
		Long:    `chassis runs an HTTP service built on the platform scaffold: problem-details error handling, health probes, kill switch and the example resource API.`,
		Version: version,
	}

	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(
				modules.NewCoreModule(),
				modules.NewHTTPModule(),
				resources.NewResourcesModule(),
			)
			app.Run()
			return nil
		},
	}
}
