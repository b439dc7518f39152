package catalog

import (
	"fmt"
	"sort"
)

// Kind identifies how a challenge is answered.
type Kind string

const (
	KindCode           Kind = "code"
	KindQuiz           Kind = "quiz"
	KindMultipleChoice Kind = "multiple-choice"
)

// IsChoice reports whether the challenge is answered by picking an option.
func (k Kind) IsChoice() bool {
	return k == KindQuiz || k == KindMultipleChoice
}

// Difficulty is the advertised difficulty of a challenge.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// DifficultyDisplayName returns a human-readable label for a difficulty.
func DifficultyDisplayName(d Difficulty) string {
	switch d {
	case DifficultyEasy:
		return "Easy"
	case DifficultyMedium:
		return "Medium"
	case DifficultyHard:
		return "Hard"
	default:
		return string(d)
	}
}

// Module is one unit of lesson content.
type Module struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	VideoURL    string   `yaml:"video_url"`
	Content     string   `yaml:"content"`
	Objectives  []string `yaml:"objectives"`
	Order       int      `yaml:"order"`
}

// Challenge is an exercise attached to exactly one module.
type Challenge struct {
	ID          string     `yaml:"id"`
	ModuleID    string     `yaml:"module_id"`
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Kind        Kind       `yaml:"kind"`
	Difficulty  Difficulty `yaml:"difficulty"`
	Order       int        `yaml:"order"`

	// Code challenges.
	CodeTemplate string `yaml:"code_template"`
	Language     string `yaml:"language"`
	Solution     string `yaml:"solution"`

	// Quiz and multiple-choice challenges.
	Question      string   `yaml:"question"`
	Options       []string `yaml:"options"`
	CorrectOption *int     `yaml:"correct_option"`
}

// Catalog is the fixed set of modules and challenges a learner works through.
type Catalog struct {
	Modules    []Module    `yaml:"modules"`
	Challenges []Challenge `yaml:"challenges"`

	moduleIdx    map[string]int
	challengeIdx map[string]int
}

// New builds a catalog from modules and challenges and validates it.
func New(modules []Module, challenges []Challenge) (*Catalog, error) {
	c := &Catalog{Modules: modules, Challenges: challenges}
	if err := c.init(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) init() error {
	if err := validateCatalog(c); err != nil {
		return err
	}
	c.moduleIdx = make(map[string]int, len(c.Modules))
	for i, m := range c.Modules {
		c.moduleIdx[m.ID] = i
	}
	c.challengeIdx = make(map[string]int, len(c.Challenges))
	for i, ch := range c.Challenges {
		c.challengeIdx[ch.ID] = i
	}
	return nil
}

// Len returns the number of modules.
func (c *Catalog) Len() int {
	return len(c.Modules)
}

// Module returns the module with the given ID.
func (c *Catalog) Module(id string) (Module, bool) {
	i, ok := c.moduleIdx[id]
	if !ok {
		return Module{}, false
	}
	return c.Modules[i], true
}

// Challenge returns the challenge with the given ID.
func (c *Catalog) Challenge(id string) (Challenge, error) {
	i, ok := c.challengeIdx[id]
	if !ok {
		return Challenge{}, fmt.Errorf("challenge %q not found", id)
	}
	return c.Challenges[i], nil
}

// Ordered returns the modules sorted by their display order.
func (c *Catalog) Ordered() []Module {
	out := make([]Module, len(c.Modules))
	copy(out, c.Modules)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// ChallengesFor returns the challenges of a module in display order.
func (c *Catalog) ChallengesFor(moduleID string) []Challenge {
	var out []Challenge
	for _, ch := range c.Challenges {
		if ch.ModuleID == moduleID {
			out = append(out, ch)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}
