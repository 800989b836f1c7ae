package app

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	resetDB    bool
	revoke     bool
)

var rootCmd = &cobra.Command{
	Use:   "farmlog-api",
	Short: "FarmLog API - farming runs, drops and drop statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Start(configPath)
	},
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Start(configPath)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Migrate(configPath, resetDB)
	},
}

var staffCmd = &cobra.Command{
	Use:   "staff <username>",
	Short: "Allow a user to create and delete games and farm sources",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return SetStaff(configPath, args[0], !revoke)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "config file path")
	migrateCmd.Flags().BoolVar(&resetDB, "reset", false, "drop every table before migrating")

	staffCmd.Flags().BoolVar(&revoke, "revoke", false, "remove the staff flag instead")

	rootCmd.AddCommand(serveCmd, migrateCmd, staffCmd)
}

// Execute runs the command selected on the command line, serve by default.
func Execute() error {
	return rootCmd.Execute()
}
