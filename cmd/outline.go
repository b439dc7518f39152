package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/ariano/internal/catalog"
)

var outlineCmd = &cobra.Command{
	Use:   "outline <module-id>",
	Short: "Print the heading outline of a module's lesson",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Only the catalog is needed; no storage is opened.
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cat, err := loadCatalog(cfg.Catalog.Path)
		if err != nil {
			return err
		}

		mod, ok := cat.Module(args[0])
		if !ok {
			return fmt.Errorf("module %q not in catalog", args[0])
		}

		out := cmd.OutOrStdout()
		for _, h := range catalog.Outline(mod.Content) {
			fmt.Fprintf(out, "%s%s\n", strings.Repeat("  ", h.Level-1), h.Text)
		}
		for _, ch := range cat.ChallengesFor(mod.ID) {
			fmt.Fprintf(out, "  [%s] %s (%s)\n", ch.ID, ch.Title, ch.Kind)
		}
		return nil
	},
}
