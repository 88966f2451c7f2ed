package analyzer

import (
	"cmp"
	"slices"
	"strings"

	"github.com/Iron-Ham/taskrank/internal/scoring"
	"github.com/Iron-Ham/taskrank/internal/task"
)

// Suggestion bounds and default.
const (
	MinSuggestions     = 1
	MaxSuggestions     = 10
	DefaultSuggestions = 3
)

// secondFactorThreshold is the weighted score a runner-up factor must exceed
// to be mentioned in a recommendation.
const secondFactorThreshold = 10.0

// Insight messages, one per situation.
const (
	InsightOverdue  = "⚠️ This task is overdue! Address immediately to avoid further delays."
	InsightDueToday = "📅 Due today! Block time now to complete this task."
	InsightBlocking = "🔗 This task is blocking others. Completing it will unblock your team."
	InsightHigh     = "🎯 High priority task. Consider starting your day with this."
	InsightQuick    = "⚡ Medium priority but quick to complete. Good for between meetings."
	InsightSchedule = "📋 Schedule dedicated time for this task this week."
	InsightLow      = "📝 Lower priority. Good for when you have spare capacity."
)

// quickTaskHours is the largest estimate a MEDIUM task may have to count as
// quick.
const quickTaskHours = 2.0

// Suggestion is one recommended task.
type Suggestion struct {
	Rank                 int                `json:"rank" yaml:"rank"`
	Task                 scoring.ScoredTask `json:"task" yaml:"task"`
	RecommendationReason string             `json:"recommendation_reason" yaml:"recommendation_reason"`
	ActionableInsight    string             `json:"actionable_insight" yaml:"actionable_insight"`
}

// Suggestions is the top of a ranked batch with explanations.
type Suggestions struct {
	Suggestions        []Suggestion     `json:"suggestions" yaml:"suggestions"`
	Strategy           scoring.Strategy `json:"strategy" yaml:"strategy"`
	AnalysisDate       string           `json:"analysis_date" yaml:"analysis_date"`
	TotalTasksAnalyzed int              `json:"total_tasks_analyzed" yaml:"total_tasks_analyzed"`
}

// ClampCount coerces a requested suggestion count into [1, 10].
func ClampCount(count int) int {
	return max(MinSuggestions, min(MaxSuggestions, count))
}

// Suggest analyzes raws and explains the top count tasks. count is clamped
// into [1, 10]; fewer suggestions are returned when the batch is smaller.
func (a *Analyzer) Suggest(raws []task.Raw, count int) Suggestions {
	result := a.Analyze(raws)
	count = ClampCount(count)

	top := result.Tasks[:min(count, len(result.Tasks))]
	out := Suggestions{
		Suggestions:        make([]Suggestion, 0, len(top)),
		Strategy:           result.Strategy,
		AnalysisDate:       result.AnalysisDate,
		TotalTasksAnalyzed: result.TotalCount,
	}
	for i, scored := range top {
		out.Suggestions = append(out.Suggestions, Suggestion{
			Rank:                 i + 1,
			Task:                 scored,
			RecommendationReason: RecommendationReason(scored.ScoringBreakdown),
			ActionableInsight:    ActionableInsight(scored),
		})
	}

	a.logger.Debug("suggestions built", "requested", count, "returned", len(out.Suggestions))
	return out
}

// RecommendationReason names the factor with the largest weighted
// contribution and, when it is significant, the runner-up.
func RecommendationReason(b scoring.Breakdown) string {
	factors := b.Factors()
	slices.SortStableFunc(factors, func(x, y scoring.Factor) int {
		return cmp.Compare(y.WeightedScore, x.WeightedScore)
	})

	var sb strings.Builder
	sb.WriteString("Recommended because: ")
	sb.WriteString(strings.ToLower(factors[0].Explanation))
	if factors[1].WeightedScore > secondFactorThreshold {
		sb.WriteString(", and ")
		sb.WriteString(strings.ToLower(factors[1].Explanation))
	}
	return sb.String()
}

// ActionableInsight picks the advice shown next to a suggestion from the
// task's tier and the reasons behind its score.
func ActionableInsight(t scoring.ScoredTask) string {
	switch t.PriorityLevel {
	case scoring.LevelHigh:
		urgency := t.ScoringBreakdown.Urgency.Explanation
		switch {
		case strings.Contains(urgency, "OVERDUE"):
			return InsightOverdue
		case strings.Contains(urgency, "TODAY"):
			return InsightDueToday
		case t.ScoringBreakdown.Dependency.Score > 80:
			return InsightBlocking
		default:
			return InsightHigh
		}
	case scoring.LevelMedium:
		if t.EstimatedHours <= quickTaskHours {
			return InsightQuick
		}
		return InsightSchedule
	default:
		return InsightLow
	}
}

// SuggestWithStrategy is a one-shot helper that suggests under the named
// strategy with today as the reference date.
func SuggestWithStrategy(raws []task.Raw, strategy string, count int) Suggestions {
	// Construction only fails on custom weights, which are not set here.
	a, _ := New(WithStrategy(strategy))
	return a.Suggest(raws, count)
}
