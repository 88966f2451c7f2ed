package analyzer

import (
	"github.com/Iron-Ham/taskrank/internal/task"
)

// TaskValidation is the validator's verdict on one input record.
type TaskValidation struct {
	Index     int       `json:"index" yaml:"index"`
	Original  task.Raw  `json:"original" yaml:"original"`
	Validated task.Task `json:"validated" yaml:"validated"`
	Warnings  []string  `json:"warnings" yaml:"warnings"`
	IsValid   bool      `json:"is_valid" yaml:"is_valid"`
}

// ValidationReport summarizes a dry-run validation of a batch.
type ValidationReport struct {
	AllValid          bool             `json:"all_valid" yaml:"all_valid"`
	TotalTasks        int              `json:"total_tasks" yaml:"total_tasks"`
	TasksWithWarnings int              `json:"tasks_with_warnings" yaml:"tasks_with_warnings"`
	Results           []TaskValidation `json:"results" yaml:"results"`
}

// ValidateOnly runs the validator over a batch without scoring it. No
// synthetic ids are assigned.
func ValidateOnly(raws []task.Raw) ValidationReport {
	report := ValidationReport{
		AllValid:   true,
		TotalTasks: len(raws),
		Results:    make([]TaskValidation, 0, len(raws)),
	}

	for i, v := range task.ValidateBatch(raws) {
		valid := v.Valid()
		if !valid {
			report.AllValid = false
			report.TasksWithWarnings++
		}
		report.Results = append(report.Results, TaskValidation{
			Index:     i,
			Original:  raws[i],
			Validated: v.Task,
			Warnings:  v.Warnings,
			IsValid:   valid,
		})
	}
	return report
}
