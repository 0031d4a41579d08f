package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/finsight-ai/finsight/internal/config"
	"github.com/finsight-ai/finsight/internal/index"
	"github.com/finsight-ai/finsight/internal/logging"
	"github.com/finsight-ai/finsight/internal/registry"
)

var (
	registryPath string
	indexRoot    string
	version      = "dev"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "finsightctl",
	Short: "Inspect and maintain FinSight session data",
	Long: `finsightctl works directly on the session registry and the index
directories, without going through the HTTP API.

Quick start:
  finsightctl list                        # List stored sessions
  finsightctl show <session-id>           # Print a transcript
  finsightctl export <session-id> --format yaml
  finsightctl sweep                       # Remove orphaned index directories`,
	Version: version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&registryPath, "registry", "", "Session registry file (defaults to REGISTRY_PATH)")
	rootCmd.PersistentFlags().StringVar(&indexRoot, "index-root", "", "Directory holding per-session indexes (defaults to INDEX_ROOT)")
}

// openState wires the offline pieces every subcommand works on. None of
// them talk to the model provider, so no API key is needed here.
func openState() (*registry.Registry, *index.Manager, *zap.Logger) {
	cfg := config.Load()
	if registryPath != "" {
		cfg.RegistryPath = registryPath
	}
	if indexRoot != "" {
		cfg.IndexRoot = indexRoot
	}

	logger := logging.New("warn", cfg.LogFile)
	return registry.New(cfg.RegistryPath), index.NewManager(cfg.IndexRoot, logger), logger
}
