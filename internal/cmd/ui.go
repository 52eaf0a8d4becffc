package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/opsdesk/deskctl/internal/session"
	"github.com/opsdesk/deskctl/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Start the interactive interface",
	Long: `Start the full-screen interactive interface.

The interface restores your session from stored credentials, shows the
navigation entries your role allows, and returns you to the login screen
if the platform rejects your session.

Examples:
  deskctl ui`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newAppEnv(cmd)
		if err != nil {
			return err
		}

		sess := session.NewContext(env.client, env.logger)
		model := tui.New(cmd.Context(), env.client, sess)

		program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("interface failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}
