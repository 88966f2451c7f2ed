package scoring

import (
	"fmt"
	"math"

	"github.com/Iron-Ham/taskrank/internal/depgraph"
	"github.com/Iron-Ham/taskrank/internal/logging"
	"github.com/Iron-Ham/taskrank/internal/task"
)

// Level is the priority tier derived from a final score.
type Level string

// Priority tiers.
const (
	LevelHigh   Level = "HIGH"
	LevelMedium Level = "MEDIUM"
	LevelLow    Level = "LOW"
)

// Tier thresholds on the unrounded final score.
const (
	HighThreshold   = 80.0
	MediumThreshold = 50.0
	MaxScore        = 100.0
)

// LevelFor classifies a final score.
func LevelFor(score float64) Level {
	switch {
	case score >= HighThreshold:
		return LevelHigh
	case score >= MediumThreshold:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Component is one factor of a score as reported to callers.
type Component struct {
	Score         float64 `json:"score" yaml:"score"`
	Weight        float64 `json:"weight" yaml:"weight"`
	WeightedScore float64 `json:"weighted_score" yaml:"weighted_score"`
	Explanation   string  `json:"explanation" yaml:"explanation"`
}

// Breakdown holds the four scoring components of a task.
type Breakdown struct {
	Urgency    Component `json:"urgency" yaml:"urgency"`
	Importance Component `json:"importance" yaml:"importance"`
	Effort     Component `json:"effort" yaml:"effort"`
	Dependency Component `json:"dependency" yaml:"dependency"`
}

// Factor names a breakdown component.
type Factor struct {
	Name string
	Component
}

// Factors returns the components in their fixed order: urgency, importance,
// effort, dependency.
func (b Breakdown) Factors() []Factor {
	return []Factor{
		{Name: "urgency", Component: b.Urgency},
		{Name: "importance", Component: b.Importance},
		{Name: "effort", Component: b.Effort},
		{Name: "dependency", Component: b.Dependency},
	}
}

// ScoredTask is a sanitized task together with its score, tier and the
// explanation of how the score was reached.
type ScoredTask struct {
	task.Task `yaml:",inline"`

	PriorityScore    float64   `json:"priority_score" yaml:"priority_score"`
	PriorityLevel    Level     `json:"priority_level" yaml:"priority_level"`
	ScoringBreakdown Breakdown `json:"scoring_breakdown" yaml:"scoring_breakdown"`
	StrategyUsed     Strategy  `json:"strategy_used" yaml:"strategy_used"`
	Warnings         []string  `json:"warnings" yaml:"warnings"`
}

// Scorer computes priority scores under a fixed strategy, weight vector and
// reference date. It holds no per-batch state and is safe for concurrent use.
type Scorer struct {
	strategy      Strategy
	weights       Weights
	referenceDate task.Date
	logger        *logging.Logger
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithStrategy selects the strategy and its weight vector. A later
// WithWeights overrides the weights but keeps the strategy name.
func WithStrategy(s Strategy) Option {
	return func(sc *Scorer) {
		if !s.Valid() {
			s = DefaultStrategy
		}
		sc.strategy = s
		sc.weights = WeightsFor(s)
	}
}

// WithWeights replaces the weight vector. The weights are used as given, so
// build them with NewWeights or ParseWeightOverride.
func WithWeights(w Weights) Option {
	return func(sc *Scorer) {
		sc.weights = w
	}
}

// WithReferenceDate sets the date urgency is measured against.
func WithReferenceDate(d task.Date) Option {
	return func(sc *Scorer) {
		sc.referenceDate = d
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *logging.Logger) Option {
	return func(sc *Scorer) {
		if l != nil {
			sc.logger = l
		}
	}
}

// NewScorer creates a Scorer. Without options it uses the smart_balance
// strategy and today's date.
func NewScorer(opts ...Option) *Scorer {
	sc := &Scorer{
		strategy:      DefaultStrategy,
		weights:       WeightsFor(DefaultStrategy),
		referenceDate: task.Today(),
		logger:        logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(sc)
	}
	return sc
}

// Strategy returns the strategy the scorer reports in its results.
func (sc *Scorer) Strategy() Strategy { return sc.strategy }

// Weights returns the weight vector in use.
func (sc *Scorer) Weights() Weights { return sc.weights }

// ReferenceDate returns the date urgency is measured against.
func (sc *Scorer) ReferenceDate() task.Date { return sc.referenceDate }

// UrgencyScore scores a due date relative to the reference date. Overdue
// tasks score above 100 so that they dominate the weighted sum; the final
// score is capped later.
func (sc *Scorer) UrgencyScore(due *task.Date) (float64, string) {
	if due == nil {
		return 20, "No due date set - assigned baseline urgency"
	}

	days := sc.referenceDate.DaysUntil(*due)
	d := float64(days)

	switch {
	case days < 0:
		overdue := -days
		return math.Min(150, 100+float64(overdue)*5),
			fmt.Sprintf("OVERDUE by %d day(s) - critical priority", overdue)
	case days == 0:
		return 100, "Due TODAY - maximum urgency"
	case days == 1:
		return 90, "Due tomorrow - very high urgency"
	case days <= 3:
		return 90 - (d-1)*5, fmt.Sprintf("Due in %d days - high urgency", days)
	case days <= 7:
		return 80 - (d-3)*2.5, fmt.Sprintf("Due this week (%d days) - moderate-high urgency", days)
	case days <= 14:
		return 70 - (d-7)*2, fmt.Sprintf("Due in %d days - moderate urgency", days)
	case days <= 30:
		return 56 - (d - 14), fmt.Sprintf("Due in %d days - lower urgency", days)
	default:
		return math.Max(10, 40-(d-30)*0.5), fmt.Sprintf("Due in %d days - low urgency", days)
	}
}

// ImportanceScore maps a 1-10 rating onto 0-100 with a mild convex curve.
func ImportanceScore(importance int) (float64, string) {
	normalized := float64(importance-1) / 9
	score := math.Pow(math.Max(normalized, 0), 1.1) * 100

	var label string
	switch {
	case importance >= 9:
		label = "Critical"
	case importance >= 7:
		label = "High"
	case importance >= 5:
		label = "Medium"
	case importance >= 3:
		label = "Lower"
	default:
		label = "Low"
	}
	return score, fmt.Sprintf("%s importance (%d/10)", label, importance)
}

// EffortScore favors small estimates. Scores fall with the estimate and
// flatten out logarithmically past a working day, never dropping below 10.
func EffortScore(hours float64) (float64, string) {
	h := task.FormatHours(hours)

	switch {
	case hours < 0.5:
		return 100, fmt.Sprintf("Quick win (%sh) - very low effort", h)
	case hours < 1:
		return 95, fmt.Sprintf("Quick task (%sh) - low effort", h)
	case hours <= 2:
		return 90 - (hours-1)*20, fmt.Sprintf("Short task (%sh) - manageable effort", h)
	case hours <= 4:
		return 70 - (hours-2)*10, fmt.Sprintf("Medium task (%sh) - moderate effort", h)
	case hours <= 8:
		return 50 - (hours-4)*5, fmt.Sprintf("Long task (%sh) - significant effort", h)
	default:
		return math.Max(10, 30-math.Log2(hours/8)*10), fmt.Sprintf("Major task (%sh) - consider breaking down", h)
	}
}

// DependencyScore rewards tasks that block others. A task that is itself
// waiting on in-batch work is discounted. Without a graph or an id the score
// is neutral.
func DependencyScore(id string, g *depgraph.Graph) (float64, string) {
	if g == nil || id == "" {
		return 50, "No dependency analysis available"
	}

	blocking := g.BlockingCount(id)

	var score float64
	var explanation string
	switch {
	case blocking == 0:
		score, explanation = 40, "Doesn't block other tasks"
	case blocking == 1:
		score, explanation = 70, "Blocks 1 other task"
	case blocking <= 3:
		score, explanation = 85, fmt.Sprintf("Blocks %d tasks - important dependency", blocking)
	default:
		score, explanation = 100, fmt.Sprintf("Blocks %d tasks - critical path", blocking)
	}

	if g.HasUnmetDependencies(id, nil) {
		score *= 0.7
		explanation += " (has unmet dependencies)"
	}
	return score, explanation
}

// Score computes the priority of a sanitized task. warnings are the
// validator's corrections and are carried into the result unchanged. g may be
// nil when the task is scored outside of a batch.
func (sc *Scorer) Score(t task.Task, warnings []string, g *depgraph.Graph) ScoredTask {
	urgency, urgencyWhy := sc.UrgencyScore(t.DueDate)
	importance, importanceWhy := ImportanceScore(t.Importance)
	effort, effortWhy := EffortScore(t.EstimatedHours)
	dependency, dependencyWhy := DependencyScore(t.ID, g)

	w := sc.weights
	final := math.Min(MaxScore,
		urgency*w.Urgency+
			importance*w.Importance+
			effort*w.Effort+
			dependency*w.Dependency)

	if warnings == nil {
		warnings = []string{}
	}

	scored := ScoredTask{
		Task:          t,
		PriorityScore: Round(final),
		PriorityLevel: LevelFor(final),
		ScoringBreakdown: Breakdown{
			Urgency:    component(urgency, w.Urgency, urgencyWhy),
			Importance: component(importance, w.Importance, importanceWhy),
			Effort:     component(effort, w.Effort, effortWhy),
			Dependency: component(dependency, w.Dependency, dependencyWhy),
		},
		StrategyUsed: sc.strategy,
		Warnings:     warnings,
	}

	sc.logger.Debug("scored task",
		"task_id", t.ID,
		"score", scored.PriorityScore,
		"level", string(scored.PriorityLevel),
		"warnings", len(warnings),
	)
	return scored
}

// ScoreRaw validates a raw record and scores the result.
func (sc *Scorer) ScoreRaw(raw task.Raw, g *depgraph.Graph) ScoredTask {
	t, warnings := task.Validate(raw)
	return sc.Score(t, warnings, g)
}

func component(score, weight float64, explanation string) Component {
	return Component{
		Score:         Round(score),
		Weight:        weight,
		WeightedScore: Round(score * weight),
		Explanation:   explanation,
	}
}

// Round rounds to two decimal places, the precision scores are reported in.
func Round(v float64) float64 {
	return math.Round(v*100) / 100
}
