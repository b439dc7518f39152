package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/ariano/internal/app"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the interactive learning path",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	// The alternate screen owns the terminal; logs only reach log.file.
	d, err := buildDeps(cmd, io.Discard)
	if err != nil {
		return err
	}
	defer d.Close()

	noSplash, _ := cmd.Flags().GetBool("no-splash")
	return app.Run(app.Options{
		Tracker:     d.tracker,
		Grader:      d.grader,
		Logger:      d.log.Named("tui"),
		SkipWelcome: noSplash,
	})
}

func init() {
	rootCmd.Flags().Bool("no-splash", false, "Skip the welcome screen")
	runCmd.Flags().Bool("no-splash", false, "Skip the welcome screen")
}
