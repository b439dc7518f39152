package catalog

import (
	"fmt"
	"strings"
)

// validateCatalog performs all structural checks on the catalog.
// Returns a combined error describing all problems found, or nil if valid.
func validateCatalog(c *Catalog) error {
	var errs []string

	moduleSet := make(map[string]bool, len(c.Modules))
	for _, m := range c.Modules {
		if m.ID == "" {
			errs = append(errs, "module with empty ID")
			continue
		}
		if moduleSet[m.ID] {
			errs = append(errs, fmt.Sprintf("duplicate module ID: %q", m.ID))
		}
		moduleSet[m.ID] = true
		if m.Order < 1 {
			errs = append(errs, fmt.Sprintf("module %q has non-positive order %d", m.ID, m.Order))
		}
	}

	challengeSet := make(map[string]bool, len(c.Challenges))
	for _, ch := range c.Challenges {
		if ch.ID == "" {
			errs = append(errs, "challenge with empty ID")
			continue
		}
		if challengeSet[ch.ID] {
			errs = append(errs, fmt.Sprintf("duplicate challenge ID: %q", ch.ID))
		}
		challengeSet[ch.ID] = true

		if !moduleSet[ch.ModuleID] {
			errs = append(errs, fmt.Sprintf("challenge %q references nonexistent module %q", ch.ID, ch.ModuleID))
		}

		switch {
		case ch.Kind == KindCode:
			if strings.TrimSpace(ch.Solution) == "" {
				errs = append(errs, fmt.Sprintf("code challenge %q has no solution", ch.ID))
			}
		case ch.Kind.IsChoice():
			if len(ch.Options) == 0 {
				errs = append(errs, fmt.Sprintf("challenge %q has no options", ch.ID))
			}
			if ch.CorrectOption == nil {
				errs = append(errs, fmt.Sprintf("challenge %q has no correct option", ch.ID))
			} else if *ch.CorrectOption < 0 || *ch.CorrectOption >= len(ch.Options) {
				errs = append(errs, fmt.Sprintf("challenge %q correct option %d out of range [0,%d)", ch.ID, *ch.CorrectOption, len(ch.Options)))
			}
		default:
			errs = append(errs, fmt.Sprintf("challenge %q has unknown kind %q", ch.ID, ch.Kind))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
