package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ariano",
	Short: "Terminal learning path for R",
	Long: `Ariano: work through an R course module by module in the terminal.

Progress is kept as a single record and survives restarts. Run without a
subcommand to open the interactive learning path.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: ./ariano.yaml or the user config dir)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides ARIANO_DB env var)")
	rootCmd.PersistentFlags().String("backend", "", "Progress storage backend: sqlite, redis or memory")
	rootCmd.PersistentFlags().String("catalog", "", "Path to a course catalog YAML file (default: built-in R course)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(outlineCmd)
	rootCmd.AddCommand(unlockCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}
