package analyzer

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Iron-Ham/taskrank/internal/errors"
	"github.com/Iron-Ham/taskrank/internal/scoring"
	"github.com/Iron-Ham/taskrank/internal/task"
)

const refDate = "2025-01-10"

func newTestAnalyzer(t *testing.T, opts ...Option) *Analyzer {
	t.Helper()
	ref, err := task.ParseDate(refDate)
	require.NoError(t, err)

	a, err := New(append([]Option{WithReferenceDate(ref)}, opts...)...)
	require.NoError(t, err)
	return a
}

func ids(tasks []scoring.ScoredTask) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestAnalyze_Empty(t *testing.T) {
	a := newTestAnalyzer(t)

	for _, raws := range [][]task.Raw{nil, {}} {
		got := a.Analyze(raws)

		assert.Equal(t, 0, got.TotalCount)
		assert.NotNil(t, got.Tasks)
		assert.Empty(t, got.Tasks)
		assert.NotNil(t, got.CircularDependencies)
		assert.Empty(t, got.CircularDependencies)
		assert.Equal(t, scoring.SmartBalance, got.Strategy)
		assert.Equal(t, scoring.WeightsFor(scoring.SmartBalance), got.Weights)
		assert.Equal(t, refDate, got.AnalysisDate)
		assert.Equal(t, Distribution{}, got.PriorityDistribution)
	}

	data, err := json.Marshal(a.Analyze(nil))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tasks":[]`)
	assert.Contains(t, string(data), `"circular_dependencies":[]`)
}

func TestAnalyze_SortsDescendingAndStable(t *testing.T) {
	a := newTestAnalyzer(t)

	got := a.Analyze([]task.Raw{
		{"id": "low", "title": "low", "importance": 1, "estimated_hours": 20},
		{"id": "twin-1", "title": "twin", "importance": 6},
		{"id": "high", "title": "high", "importance": 10, "due_date": refDate},
		{"id": "twin-2", "title": "twin", "importance": 6},
	})

	require.Equal(t, 4, got.TotalCount)
	assert.Equal(t, []string{"high", "twin-1", "twin-2", "low"}, ids(got.Tasks))

	for i := 1; i < len(got.Tasks); i++ {
		assert.GreaterOrEqual(t, got.Tasks[i-1].PriorityScore, got.Tasks[i].PriorityScore)
	}
}

func TestAnalyze_OneOutputPerInput(t *testing.T) {
	a := newTestAnalyzer(t)

	raws := []task.Raw{
		{"title": "a"},
		{"title": "b", "estimated_hours": "garbage"},
		{},
		{"id": "x", "dependencies": "not a list"},
	}
	got := a.Analyze(raws)

	assert.Equal(t, len(raws), got.TotalCount)
	assert.Len(t, got.Tasks, len(raws))
	d := got.PriorityDistribution
	assert.Equal(t, len(raws), d.High+d.Medium+d.Low)
}

func TestAnalyze_SyntheticIDs(t *testing.T) {
	a := newTestAnalyzer(t)

	got := a.Analyze([]task.Raw{
		{"title": "first"},
		{"id": "named", "title": "second", "dependencies": []any{"task_0"}},
		{"title": "third"},
	})

	byTitle := map[string]scoring.ScoredTask{}
	for _, st := range got.Tasks {
		byTitle[st.Title] = st
	}
	assert.Equal(t, "task_0", byTitle["first"].ID)
	assert.Equal(t, "named", byTitle["second"].ID)
	assert.Equal(t, "task_2", byTitle["third"].ID)

	// Synthetic ids take part in the graph like any other.
	assert.Equal(t, "Blocks 1 other task", byTitle["first"].ScoringBreakdown.Dependency.Explanation)
}

func TestAnalyze_NullAndEmptyIDsGetSyntheticIDs(t *testing.T) {
	a := newTestAnalyzer(t)

	got := a.Analyze([]task.Raw{
		{"id": nil, "title": "null id"},
		{"id": "", "title": "empty id"},
		{"id": "b", "title": "dependent", "dependencies": []any{"task_0", "task_1"}},
	})

	byTitle := map[string]scoring.ScoredTask{}
	for _, st := range got.Tasks {
		byTitle[st.Title] = st
	}
	assert.Equal(t, "task_0", byTitle["null id"].ID)
	assert.Equal(t, "task_1", byTitle["empty id"].ID)
	assert.Empty(t, byTitle["null id"].Warnings, "a null id is absent, not a correction")
	assert.Equal(t, "Blocks 1 other task", byTitle["null id"].ScoringBreakdown.Dependency.Explanation)
	assert.Equal(t, "Blocks 1 other task", byTitle["empty id"].ScoringBreakdown.Dependency.Explanation)
}

func TestAnalyze_CyclesReportedNotFatal(t *testing.T) {
	a := newTestAnalyzer(t)

	got := a.Analyze([]task.Raw{
		{"id": "A", "title": "A", "dependencies": []any{"B"}},
		{"id": "B", "title": "B", "dependencies": []any{"A"}},
		{"id": "C", "title": "C"},
	})

	assert.Equal(t, 3, got.TotalCount)
	require.Len(t, got.CircularDependencies, 1)
	assert.ElementsMatch(t, []string{"A", "B"}, got.CircularDependencies[0])
}

func TestAnalyze_BlockingTaskRanksHigher(t *testing.T) {
	a := newTestAnalyzer(t)

	got := a.Analyze([]task.Raw{
		{"id": "leaf", "title": "leaf"},
		{"id": "root", "title": "root"},
		{"id": "d1", "title": "d1", "dependencies": []any{"root"}},
		{"id": "d2", "title": "d2", "dependencies": []any{"root"}},
	})

	assert.Equal(t, "root", got.Tasks[0].ID)
	assert.Equal(t, "Blocks 2 tasks - important dependency", got.Tasks[0].ScoringBreakdown.Dependency.Explanation)
}

func TestAnalyze_StrategyChangesRanking(t *testing.T) {
	raws := []task.Raw{
		{"id": "quick", "title": "quick", "estimated_hours": 0.25, "importance": 3},
		{"id": "big", "title": "big", "estimated_hours": 40, "importance": 10},
	}

	fast := newTestAnalyzer(t, WithStrategy("fastest_wins")).Analyze(raws)
	impact := newTestAnalyzer(t, WithStrategy("high-impact")).Analyze(raws)

	assert.Equal(t, "quick", fast.Tasks[0].ID)
	assert.Equal(t, "big", impact.Tasks[0].ID)
	assert.Equal(t, scoring.HighImpact, impact.Strategy)
}

func TestAnalyze_UnknownStrategyFallsBack(t *testing.T) {
	got := newTestAnalyzer(t, WithStrategy("random")).Analyze([]task.Raw{{"title": "x"}})
	assert.Equal(t, scoring.SmartBalance, got.Strategy)
	assert.Equal(t, scoring.SmartBalance, got.Tasks[0].StrategyUsed)
}

func TestNew_CustomWeights(t *testing.T) {
	a := newTestAnalyzer(t, WithStrategy("fastest_wins"), WithCustomWeights(map[string]any{
		"urgency": 1, "importance": 1, "effort": 1, "dependency": 1,
	}))

	got := a.Analyze([]task.Raw{{"title": "x"}})
	assert.Equal(t, scoring.FastestWins, got.Strategy)
	assert.InDelta(t, 0.25, got.Weights.Urgency, 1e-9)
	assert.InDelta(t, 0.25, got.Tasks[0].ScoringBreakdown.Effort.Weight, 1e-9)

	_, err := New(WithCustomWeights(map[string]any{"urgency": -1}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidWeights))
}

func TestAnalyzeAll_PreservesOrder(t *testing.T) {
	a := newTestAnalyzer(t, WithMaxParallel(2))

	batches := make([][]task.Raw, 8)
	for i := range batches {
		batch := make([]task.Raw, i)
		for j := range batch {
			batch[j] = task.Raw{"title": fmt.Sprintf("b%d-t%d", i, j)}
		}
		batches[i] = batch
	}

	results := a.AnalyzeAll(batches)
	require.Len(t, results, len(batches))
	for i, r := range results {
		assert.Equal(t, i, r.TotalCount, "batch %d", i)
	}
}

func TestAnalyzeWithStrategy(t *testing.T) {
	got, err := AnalyzeWithStrategy([]task.Raw{{"title": "x"}}, "deadline_driven", nil)
	require.NoError(t, err)
	assert.Equal(t, scoring.DeadlineDriven, got.Strategy)
	assert.Equal(t, task.Today().String(), got.AnalysisDate)

	_, err = AnalyzeWithStrategy(nil, "smart_balance", map[string]any{"effort": "lots"})
	assert.Error(t, err)
}
