package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/opsdesk/deskctl/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View deskctl configuration",
	Long: `Manage deskctl configuration stored at ~/.deskctl/config.yaml

Configuration includes:
  • Platform API URL
  • Request timeout
  • Logging settings

Environment variables override the file: DESKCTL_API_URL, DESKCTL_TIMEOUT,
DESKCTL_LOG_LEVEL.

Examples:
  deskctl config view
  deskctl config path`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Display the active configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the configuration file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(config.Path())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configViewCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}
