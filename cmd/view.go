package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view <module-id>",
	Short: "Show a module's lesson and mark its content as viewed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer d.Close()

		id := args[0]
		out := cmd.OutOrStdout()
		quiet, _ := cmd.Flags().GetBool("quiet")

		mod, ok := d.catalog.Module(id)
		if ok && !quiet {
			fmt.Fprintf(out, "%s\n%s\n\n", mod.Title, mod.Description)
			if mod.VideoURL != "" {
				fmt.Fprintf(out, "Video: %s\n\n", mod.VideoURL)
			}
			for _, o := range mod.Objectives {
				fmt.Fprintf(out, "  • %s\n", o)
			}
			if len(mod.Objectives) > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, strings.TrimSpace(mod.Content))
			fmt.Fprintln(out)
		}

		if err := d.tracker.RecordContentViewed(cmd.Context(), id); err != nil {
			return err
		}

		fmt.Fprintf(out, "Module %s: %s\n", id, d.tracker.ModuleStage(cmd.Context(), id).Label())
		return nil
	},
}

func init() {
	viewCmd.Flags().BoolP("quiet", "q", false, "Only record the view, do not print the lesson")
}
