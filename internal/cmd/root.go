package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "deskctl",
	Short: "Terminal client for the support desk platform",
	Long: `deskctl is the terminal client for the support desk platform.
It lets you open and track support tickets, and gives admins, department
managers, and support staff their management surfaces, all against the
remote platform API.

Run 'deskctl ui' for the interactive interface, or use the subcommands
directly.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with a context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("quiet", false, "Only log errors")
}
