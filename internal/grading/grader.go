package grading

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/ariano/internal/catalog"
)

var (
	// ErrNotGradable is returned for challenges without an expected answer.
	ErrNotGradable = errors.New("challenge cannot be graded")

	// ErrInvalidChoice is returned when a chosen option does not exist.
	ErrInvalidChoice = errors.New("invalid option")
)

// SolutionChecker decides whether submitted code satisfies an expected
// solution.
type SolutionChecker interface {
	Check(expected, submitted string) bool
}

// SubstringChecker accepts a submission when, after trimming and collapsing
// whitespace, either text contains the other. Empty submissions never pass.
type SubstringChecker struct{}

func (SubstringChecker) Check(expected, submitted string) bool {
	got := normalize(submitted)
	want := normalize(expected)
	if got == "" || want == "" {
		return false
	}
	return strings.Contains(got, want) || strings.Contains(want, got)
}

// normalize trims s and collapses every whitespace run to one space.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Submission is a learner's answer to a challenge. Code is used for code
// challenges, Choice (zero-based) for quiz and multiple-choice challenges.
type Submission struct {
	Code   string
	Choice int
}

// Result is the outcome of grading a submission.
type Result struct {
	Correct bool
	Message string
}

// Recorder receives completed challenges.
type Recorder interface {
	RecordChallengeCompleted(ctx context.Context, moduleID string) error
}

// Grader grades submissions against catalog challenges.
type Grader struct {
	Code SolutionChecker
}

// NewGrader returns a Grader using the substring checker for code.
func NewGrader() *Grader {
	return &Grader{Code: SubstringChecker{}}
}

// Grade checks a submission without recording anything.
func (g *Grader) Grade(ch catalog.Challenge, sub Submission) (Result, error) {
	switch {
	case ch.Kind == catalog.KindCode:
		if strings.TrimSpace(ch.Solution) == "" {
			return Result{}, fmt.Errorf("challenge %q: %w", ch.ID, ErrNotGradable)
		}
		if g.Code.Check(ch.Solution, sub.Code) {
			return Result{Correct: true, Message: "Correct! The module's challenge is marked as completed."}, nil
		}
		return Result{Message: "Not quite yet. Try again!"}, nil

	case ch.Kind.IsChoice():
		if ch.CorrectOption == nil {
			return Result{}, fmt.Errorf("challenge %q: %w", ch.ID, ErrNotGradable)
		}
		if sub.Choice < 0 || sub.Choice >= len(ch.Options) {
			return Result{}, fmt.Errorf("choice %d of %d: %w", sub.Choice+1, len(ch.Options), ErrInvalidChoice)
		}
		if sub.Choice == *ch.CorrectOption {
			return Result{Correct: true, Message: "Correct!"}, nil
		}
		return Result{Message: fmt.Sprintf("Wrong. The correct answer is: %s", ch.Options[*ch.CorrectOption])}, nil
	}

	return Result{}, fmt.Errorf("challenge %q has kind %q: %w", ch.ID, ch.Kind, ErrNotGradable)
}

// Submit grades a submission and, when it is correct, records the
// challenge's module as completed.
func (g *Grader) Submit(ctx context.Context, rec Recorder, ch catalog.Challenge, sub Submission) (Result, error) {
	res, err := g.Grade(ch, sub)
	if err != nil || !res.Correct {
		return res, err
	}
	if err := rec.RecordChallengeCompleted(ctx, ch.ModuleID); err != nil {
		return res, fmt.Errorf("record completion: %w", err)
	}
	return res, nil
}
