package render

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/taskrank/internal/analyzer"
	"github.com/Iron-Ham/taskrank/internal/scoring"
	"github.com/Iron-Ham/taskrank/internal/task"
)

const (
	rankWidth  = 4
	scoreWidth = 7
	levelWidth = 7
	idWidth    = 12
)

func formatWeights(w scoring.Weights) string {
	return fmt.Sprintf("urgency %.2f, importance %.2f, effort %.2f, dependency %.2f",
		w.Urgency, w.Importance, w.Effort, w.Dependency)
}

func dueString(t task.Task) string {
	if t.DueDate == nil {
		return "-"
	}
	return t.DueDateString()
}

func idString(t task.Task) string {
	if !t.HasID() {
		return "-"
	}
	return Truncate(t.ID, idWidth)
}

func (r *Renderer) writeResult(b *strings.Builder, res SourcedResult, labeled bool) {
	st := r.styles

	if labeled {
		fmt.Fprintf(b, "%s\n", st.title.Render("== "+res.Source+" =="))
	}
	fmt.Fprintf(b, "%s %s\n", st.title.Render("Strategy:"), StrategyTitle(res.Strategy))
	fmt.Fprintf(b, "%s\n", st.muted.Render("Weights: "+formatWeights(res.Weights)))
	fmt.Fprintf(b, "%s\n\n", st.muted.Render(fmt.Sprintf("Analysis date: %s, %d task(s)", res.AnalysisDate, res.TotalCount)))

	if len(res.Tasks) == 0 {
		b.WriteString("No tasks to analyze.\n")
		return
	}

	header := pad("#", rankWidth) + pad("SCORE", scoreWidth) + pad("LEVEL", levelWidth) +
		pad("TITLE", r.titleWidth+2) + pad("ID", idWidth+2) + "DUE"
	fmt.Fprintf(b, "%s\n", st.header.Render(header))

	for i, t := range res.Tasks {
		level := st.level(t.PriorityLevel).Render(string(t.PriorityLevel))
		fmt.Fprintf(b, "%s%s%s%s%s%s\n",
			pad(fmt.Sprintf("%d", i+1), rankWidth),
			pad(fmt.Sprintf("%.2f", t.PriorityScore), scoreWidth),
			pad(level, levelWidth),
			pad(Truncate(t.Title, r.titleWidth), r.titleWidth+2),
			pad(idString(t.Task), idWidth+2),
			dueString(t.Task),
		)
	}

	d := res.PriorityDistribution
	fmt.Fprintf(b, "\nDistribution: %s %d, %s %d, %s %d\n",
		st.high.Render("HIGH"), d.High,
		st.medium.Render("MEDIUM"), d.Medium,
		st.low.Render("LOW"), d.Low)

	if len(res.CircularDependencies) > 0 {
		fmt.Fprintf(b, "\n%s\n", st.warning.Render("Circular dependencies:"))
		for _, cycle := range res.CircularDependencies {
			fmt.Fprintf(b, "  %s -> %s\n", strings.Join(cycle, " -> "), cycle[0])
		}
	}

	var warned []scoring.ScoredTask
	for _, t := range res.Tasks {
		if len(t.Warnings) > 0 {
			warned = append(warned, t)
		}
	}
	if len(warned) > 0 {
		fmt.Fprintf(b, "\n%s\n", st.warning.Render("Warnings:"))
		for _, t := range warned {
			fmt.Fprintf(b, "  %s (%s)\n", t.Title, idString(t.Task))
			for _, w := range t.Warnings {
				fmt.Fprintf(b, "    - %s\n", w)
			}
		}
	}
}

func (r *Renderer) writeSuggestions(b *strings.Builder, s analyzer.Suggestions) {
	st := r.styles

	fmt.Fprintf(b, "%s %s\n", st.title.Render("Strategy:"), StrategyTitle(s.Strategy))
	fmt.Fprintf(b, "%s\n", st.muted.Render(fmt.Sprintf("Analysis date: %s, %d task(s) analyzed", s.AnalysisDate, s.TotalTasksAnalyzed)))

	if len(s.Suggestions) == 0 {
		b.WriteString("\nNo suggestions.\n")
		return
	}

	for _, sg := range s.Suggestions {
		t := sg.Task
		level := st.level(t.PriorityLevel).Render(string(t.PriorityLevel))
		fmt.Fprintf(b, "\n%d. %s  %.2f %s\n", sg.Rank, Truncate(t.Title, r.titleWidth), t.PriorityScore, level)
		fmt.Fprintf(b, "   %s\n", sg.RecommendationReason)
		fmt.Fprintf(b, "   %s\n", st.muted.Render(sg.ActionableInsight))
	}
}

func (r *Renderer) writeValidation(b *strings.Builder, report analyzer.ValidationReport) {
	st := r.styles

	for _, res := range report.Results {
		title := Truncate(res.Validated.Title, r.titleWidth)
		if res.IsValid {
			fmt.Fprintf(b, "Task %d: %s %s\n", res.Index, title, st.low.Render("ok"))
			continue
		}
		fmt.Fprintf(b, "Task %d: %s %s\n", res.Index, title,
			st.warning.Render(fmt.Sprintf("%d warning(s)", len(res.Warnings))))
		for _, w := range res.Warnings {
			fmt.Fprintf(b, "    - %s\n", w)
		}
	}

	summary := fmt.Sprintf("%d task(s), %d with warnings", report.TotalTasks, report.TasksWithWarnings)
	if report.AllValid {
		summary = st.low.Render(summary)
	} else {
		summary = st.warning.Render(summary)
	}
	if len(report.Results) > 0 {
		b.WriteString("\n")
	}
	fmt.Fprintf(b, "%s\n", summary)
}

func (r *Renderer) writeStrategies(b *strings.Builder, listing StrategyListing) {
	st := r.styles

	for i, info := range listing.Strategies {
		if i > 0 {
			b.WriteString("\n")
		}
		name := st.title.Render(StrategyTitle(info.Name))
		suffix := ""
		if info.Name == listing.Default {
			suffix = " " + st.muted.Render("(default)")
		}
		fmt.Fprintf(b, "%s [%s]%s\n", name, info.Name, suffix)
		fmt.Fprintf(b, "  %s\n", info.Description)
		fmt.Fprintf(b, "  %s\n", st.muted.Render(formatWeights(info.Weights)))
	}

	if len(listing.ScoringFactors) > 0 {
		fmt.Fprintf(b, "\n%s\n", st.header.Render("Scoring factors"))
		for _, f := range listing.ScoringFactors {
			fmt.Fprintf(b, "  - %s\n", f)
		}
	}
}
