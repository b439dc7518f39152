package cmd

import (
	"encoding/json"
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/ariano/internal/progress"
	"github.com/abhisek/ariano/internal/ui/components"
	"github.com/abhisek/ariano/internal/ui/theme"
)

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the learning path with module progress",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer d.Close()

		rec := d.tracker.Reconcile(cmd.Context())
		out := cmd.OutOrStdout()

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		}

		bar := components.NewProgressBar("Overall", rec.OverallProgress, true, 60)
		lipgloss.Fprintln(out, bar.View())
		fmt.Fprintln(out)

		for _, mod := range d.catalog.Ordered() {
			m := rec.Modules[mod.ID]
			marker := "  "
			if mod.ID == rec.LastActiveModuleID {
				marker = "▸ "
			}
			line := fmt.Sprintf("%s%s %-4s %-40s %-12s %s %s",
				marker,
				m.State.Icon(),
				mod.ID,
				mod.Title,
				m.Progress.Label(),
				check("content", m.ContentViewed),
				check("challenge", m.ChallengeCompleted),
			)
			if m.Progress == progress.StageCompleted {
				line = theme.Correct.Render(line)
			}
			lipgloss.Fprintln(out, line)
		}
		return nil
	},
}

func check(label string, done bool) string {
	if done {
		return label + " ✓"
	}
	return label + " ·"
}

func init() {
	pathCmd.Flags().Bool("json", false, "Print the reconciled progress record as JSON")
}
