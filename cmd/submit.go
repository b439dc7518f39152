package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/ariano/internal/catalog"
	"github.com/abhisek/ariano/internal/grading"
)

var submitCmd = &cobra.Command{
	Use:   "submit <challenge-id> [answer...]",
	Short: "Submit an answer to a challenge",
	Long: `Grade an answer and, when it is correct, mark the challenge's module as
solved.

Code challenges take the code as arguments or from --file ("-" reads stdin).
Quiz and multiple-choice challenges take the option number (1-based) or its
letter.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer d.Close()

		ch, err := d.catalog.Challenge(args[0])
		if err != nil {
			return err
		}

		answer := strings.Join(args[1:], " ")
		if file, _ := cmd.Flags().GetString("file"); file != "" {
			answer, err = readAnswer(cmd, file)
			if err != nil {
				return err
			}
		}

		sub, err := parseSubmission(ch, answer)
		if err != nil {
			return err
		}

		res, err := d.grader.Submit(cmd.Context(), d.tracker, ch, sub)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, res.Message)
		if res.Correct {
			fmt.Fprintf(out, "Module %s: %s (overall %d%%)\n",
				ch.ModuleID,
				d.tracker.ModuleStage(cmd.Context(), ch.ModuleID).Label(),
				d.tracker.OverallProgress(cmd.Context()))
		}
		return nil
	},
}

func readAnswer(cmd *cobra.Command, file string) (string, error) {
	var data []byte
	var err error
	if file == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return string(data), nil
}

// parseSubmission turns a raw answer into a Submission for ch. Choice
// answers accept "2" or "B"; both address the second option.
func parseSubmission(ch catalog.Challenge, answer string) (grading.Submission, error) {
	if !ch.Kind.IsChoice() {
		if strings.TrimSpace(answer) == "" {
			return grading.Submission{}, fmt.Errorf("challenge %s: no code given", ch.ID)
		}
		return grading.Submission{Code: answer}, nil
	}

	a := strings.TrimSpace(answer)
	if n, err := strconv.Atoi(a); err == nil {
		return grading.Submission{Choice: n - 1}, nil
	}
	if len(a) == 1 {
		c := strings.ToUpper(a)[0]
		if c >= 'A' && c <= 'Z' {
			return grading.Submission{Choice: int(c - 'A')}, nil
		}
	}
	return grading.Submission{}, fmt.Errorf("challenge %s: answer %q is not an option number: %w", ch.ID, a, grading.ErrInvalidChoice)
}

func init() {
	submitCmd.Flags().StringP("file", "f", "", `Read the answer from a file ("-" for stdin)`)
}
