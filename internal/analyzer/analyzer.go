// Package analyzer ranks whole batches of tasks. It validates each raw record,
// builds one dependency graph per batch, scores every task against it and
// assembles the ranked, explained result.
//
// An Analyzer is immutable after construction. Each call builds its own graph
// and result, so one Analyzer may serve many batches concurrently.
package analyzer

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/sourcegraph/conc/iter"

	"github.com/Iron-Ham/taskrank/internal/depgraph"
	"github.com/Iron-Ham/taskrank/internal/logging"
	"github.com/Iron-Ham/taskrank/internal/scoring"
	"github.com/Iron-Ham/taskrank/internal/task"
)

// SyntheticIDPrefix prefixes the id given to tasks that arrive without one.
const SyntheticIDPrefix = "task_"

// Distribution counts scored tasks per priority tier.
type Distribution struct {
	High   int `json:"high" yaml:"high"`
	Medium int `json:"medium" yaml:"medium"`
	Low    int `json:"low" yaml:"low"`
}

// Result is the ranked analysis of one batch.
type Result struct {
	Tasks                []scoring.ScoredTask `json:"tasks" yaml:"tasks"`
	TotalCount           int                  `json:"total_count" yaml:"total_count"`
	Strategy             scoring.Strategy     `json:"strategy" yaml:"strategy"`
	Weights              scoring.Weights      `json:"weights" yaml:"weights"`
	CircularDependencies [][]string           `json:"circular_dependencies" yaml:"circular_dependencies"`
	AnalysisDate         string               `json:"analysis_date" yaml:"analysis_date"`
	PriorityDistribution Distribution         `json:"priority_distribution" yaml:"priority_distribution"`
}

// Analyzer scores batches of raw tasks under one strategy and weight vector.
type Analyzer struct {
	scorer *scoring.Scorer
	logger *logging.Logger

	maxParallel int
}

type options struct {
	strategy      scoring.Strategy
	customWeights map[string]any
	referenceDate *task.Date
	logger        *logging.Logger
	maxParallel   int
}

// Option configures an Analyzer.
type Option func(*options)

// WithStrategy selects a strategy by name. Unknown names fall back to
// smart_balance.
func WithStrategy(name string) Option {
	return func(o *options) {
		o.strategy, _ = scoring.ParseStrategy(name)
	}
}

// WithCustomWeights overrides the strategy's weights with a loosely-typed
// mapping. An empty or nil mapping is ignored.
func WithCustomWeights(raw map[string]any) Option {
	return func(o *options) {
		o.customWeights = raw
	}
}

// WithReferenceDate sets the date urgency is measured against. The default
// is today.
func WithReferenceDate(d task.Date) Option {
	return func(o *options) {
		o.referenceDate = &d
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMaxParallel bounds how many batches AnalyzeAll processes at once.
func WithMaxParallel(n int) Option {
	return func(o *options) {
		o.maxParallel = n
	}
}

// New creates an Analyzer. It fails only when custom weights cannot be
// normalized.
func New(opts ...Option) (*Analyzer, error) {
	o := options{strategy: scoring.DefaultStrategy}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NopLogger()
	}

	logger := o.logger.WithStrategy(o.strategy.String())

	scorerOpts := []scoring.Option{
		scoring.WithStrategy(o.strategy),
		scoring.WithLogger(logger),
	}
	if len(o.customWeights) > 0 {
		w, err := scoring.ParseWeightOverride(o.customWeights)
		if err != nil {
			return nil, fmt.Errorf("custom weights: %w", err)
		}
		scorerOpts = append(scorerOpts, scoring.WithWeights(w))
	}
	if o.referenceDate != nil {
		scorerOpts = append(scorerOpts, scoring.WithReferenceDate(*o.referenceDate))
	}

	return &Analyzer{
		scorer:      scoring.NewScorer(scorerOpts...),
		logger:      logger,
		maxParallel: o.maxParallel,
	}, nil
}

// Scorer returns the underlying scorer.
func (a *Analyzer) Scorer() *scoring.Scorer {
	return a.scorer
}

// Analyze validates, scores and ranks one batch. Every input record yields
// exactly one scored task. Tasks are sorted by descending score; equal scores
// keep their input order. An empty batch gives an empty, well-formed result.
func (a *Analyzer) Analyze(raws []task.Raw) Result {
	result := Result{
		Tasks:                make([]scoring.ScoredTask, 0, len(raws)),
		Strategy:             a.scorer.Strategy(),
		Weights:              a.scorer.Weights(),
		CircularDependencies: make([][]string, 0),
		AnalysisDate:         a.scorer.ReferenceDate().String(),
	}
	if len(raws) == 0 {
		a.logger.Debug("empty batch")
		return result
	}

	validations := task.ValidateBatch(raws)
	tasks := make([]task.Task, len(validations))
	for i := range validations {
		if !validations[i].Task.HasID() {
			validations[i].Task.ID = fmt.Sprintf("%s%d", SyntheticIDPrefix, i)
		}
		tasks[i] = validations[i].Task
	}

	g := depgraph.Build(tasks)
	result.CircularDependencies = g.DetectCycles()

	corrected := 0
	for _, v := range validations {
		if !v.Valid() {
			corrected++
		}
		scored := a.scorer.Score(v.Task, v.Warnings, g)
		result.Tasks = append(result.Tasks, scored)

		switch scored.PriorityLevel {
		case scoring.LevelHigh:
			result.PriorityDistribution.High++
		case scoring.LevelMedium:
			result.PriorityDistribution.Medium++
		default:
			result.PriorityDistribution.Low++
		}
	}

	slices.SortStableFunc(result.Tasks, func(x, y scoring.ScoredTask) int {
		return cmp.Compare(y.PriorityScore, x.PriorityScore)
	})
	result.TotalCount = len(result.Tasks)

	a.logger.Debug("batch analyzed",
		"tasks", result.TotalCount,
		"graph_nodes", g.Len(),
		"high", result.PriorityDistribution.High,
		"medium", result.PriorityDistribution.Medium,
		"low", result.PriorityDistribution.Low,
	)
	if len(result.CircularDependencies) > 0 {
		a.logger.Warn("circular dependencies detected", "cycles", result.CircularDependencies)
	}
	if corrected > 0 {
		a.logger.Warn("tasks needed corrections", "count", corrected)
	}

	return result
}

// AnalyzeAll analyzes independent batches concurrently and returns their
// results in input order.
func (a *Analyzer) AnalyzeAll(batches [][]task.Raw) []Result {
	mapper := iter.Mapper[[]task.Raw, Result]{MaxGoroutines: a.maxParallel}
	return mapper.Map(batches, func(batch *[]task.Raw) Result {
		return a.Analyze(*batch)
	})
}

// AnalyzeWithStrategy is a one-shot helper: it analyzes raws under the named
// strategy and optional custom weights, using today as the reference date.
func AnalyzeWithStrategy(raws []task.Raw, strategy string, customWeights map[string]any) (Result, error) {
	a, err := New(WithStrategy(strategy), WithCustomWeights(customWeights))
	if err != nil {
		return Result{}, err
	}
	return a.Analyze(raws), nil
}
