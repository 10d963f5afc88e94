package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/faraday-ai/faraday-dashboard/internal"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	dataDir string
	apiURL  string
	version string = "dev"
	commit  string = "unknown"
	date    string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "faraday-dashboard",
	Short: "Manage your Faraday AI teaching dashboard from the terminal",
	Long: `A CLI for the Faraday AI teaching assistant dashboard.

The dashboard is a set of widgets (attendance, fitness, scheduling, teams,
and more) kept in local storage and mirrored to your Faraday account when
you are signed in. Everything works offline and without an account; signing
in adds best-effort sync to the remote dashboard.

Features:
  • Add, resize, and remove dashboard widgets
  • Chat with the Faraday assistant; replies can populate widgets
  • Works fully as a guest — no account required
  • Transcribe recorded audio and send it as chat input
  • Export widgets and conversations (JSON, JSONL, Markdown, YAML)

Quick Start:
  faraday-dashboard list                 # Show your dashboard
  faraday-dashboard add attendance       # Add a widget
  faraday-dashboard chat                 # Talk to the assistant

Configuration comes from FARADAY_* environment variables (see .env support),
with --api-url and --data overriding detection.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "Custom data directory (defaults to the OS data dir)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Faraday API base URL (overrides FARADAY_API_URL)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// newController builds the session controller for one command invocation
func newController(ctx context.Context) (*internal.Controller, error) {
	cfg, err := internal.LoadConfig()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	return internal.NewController(ctx, cfg, dataDir)
}
