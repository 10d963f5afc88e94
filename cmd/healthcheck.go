package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/faraday-ai/faraday-dashboard/internal"
	"github.com/spf13/cobra"
)

var (
	healthcheckVerbose bool
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check local storage and API connectivity",
	Long: `Check the health of faraday-dashboard by verifying:
  • Data path detection
  • Local database access and round-trip
  • Widget state readability
  • Faraday API reachability (warning only — the dashboard works offline)

This command is useful for debugging storage or connectivity issues.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(sectionStyle.Render("🔍 Faraday Dashboard Health Check"))
		fmt.Println()

		// Step 1: Detect data paths
		fmt.Println(infoStyle.Render("Step 1: Detecting data paths..."))
		paths, err := internal.GetDataPaths(dataDir)
		if err != nil {
			fmt.Println(errorStyle.Render("❌ Failed to detect data paths:"), err)
			os.Exit(1)
		}
		fmt.Println(successStyle.Render("✅ Data paths detected"))
		if healthcheckVerbose {
			fmt.Printf("   Base dir: %s\n", paths.BaseDir)
			fmt.Printf("   Database: %s\n", paths.DatabasePath)
		}
		fmt.Println()

		// Step 2: Open local database and round-trip a value
		fmt.Println(infoStyle.Render("Step 2: Checking local database..."))
		if err := paths.EnsureDataDir(); err != nil {
			fmt.Println(errorStyle.Render("❌ Cannot create data directory:"), err)
			os.Exit(1)
		}
		db, err := internal.OpenDatabase(paths.DatabasePath)
		if err != nil {
			fmt.Println(errorStyle.Render("❌ Cannot open database:"), err)
			os.Exit(1)
		}
		defer db.Close()

		if err := internal.PutValue(db, "health:probe", "ok"); err != nil {
			fmt.Println(errorStyle.Render("❌ Database write failed:"), err)
			os.Exit(1)
		}
		if value, ok, err := internal.GetValue(db, "health:probe"); err != nil || !ok || value != "ok" {
			fmt.Println(errorStyle.Render("❌ Database round-trip failed"))
			os.Exit(1)
		}
		_ = internal.DeleteValue(db, "health:probe")
		fmt.Println(successStyle.Render("✅ Local database OK"))
		fmt.Println()

		// Step 3: Load widget state
		fmt.Println(infoStyle.Render("Step 3: Checking widget state..."))
		local := internal.NewLocalStore(db)
		widgets := local.LoadWidgets()
		fmt.Println(successStyle.Render(fmt.Sprintf("✅ Widget state loaded (%d widgets)", len(widgets))))
		if healthcheckVerbose {
			for _, w := range widgets {
				fmt.Printf("   %s (%s, %s)\n", w.Name, w.Type, w.Size)
			}
		}
		fmt.Println()

		// Step 4: API reachability. A warning only, the dashboard works offline.
		fmt.Println(infoStyle.Render("Step 4: Checking Faraday API..."))
		cfg, err := internal.LoadConfig()
		if err != nil {
			fmt.Println(warningStyle.Render("⚠️  Configuration error:"), err)
			return nil
		}
		if apiURL != "" {
			cfg.APIURL = apiURL
		}
		api, err := internal.NewAPIClient(cfg.APIURL, internal.WithHTTPTimeout(cfg.HTTPTimeout))
		if err != nil {
			fmt.Println(warningStyle.Render("⚠️  Cannot build API client:"), err)
			return nil
		}
		if token, ok := local.LoadToken(); ok {
			api.SetToken(token)
		}
		if _, err := api.Whoami(cmd.Context()); err != nil {
			fmt.Println(warningStyle.Render("⚠️  API not reachable (dashboard still works offline):"), err)
		} else {
			fmt.Println(successStyle.Render("✅ Faraday API reachable"))
		}

		return nil
	},
}

func init() {
	healthcheckCmd.Flags().BoolVar(&healthcheckVerbose, "details", false, "Show detailed path and widget information")
	rootCmd.AddCommand(healthcheckCmd)
}
