package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	profile    string
	jsonOutput bool
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gig",
	Short: "Gig - band and venue contracts",
	Long: `Gig CLI

Review, accept, decline and cancel booking contracts between bands and
venues, see the revenue dashboard and the calendar of confirmed shows,
or serve the same views to the mobile app over HTTP.

Usage:
  go run ./cmd/gig [command]

Examples:
  go run ./cmd/gig login --token <token>
  go run ./cmd/gig contracts --tab pending
  go run ./cmd/gig accept 42
  go run ./cmd/gig dashboard
  go run ./cmd/gig api`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "session profile (default SESSION_PROFILE)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of text")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
