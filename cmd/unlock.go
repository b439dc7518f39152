package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var unlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Unlock every module of the learning path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer d.Close()

		d.tracker.UnlockAll(cmd.Context())
		fmt.Fprintf(cmd.OutOrStdout(), "All %d modules unlocked.\n", d.catalog.Len())
		return nil
	},
}
