package scoring

import (
	"strings"
)

// Strategy names a predefined weight configuration.
type Strategy string

// Available strategies.
const (
	SmartBalance   Strategy = "smart_balance"
	FastestWins    Strategy = "fastest_wins"
	HighImpact     Strategy = "high_impact"
	DeadlineDriven Strategy = "deadline_driven"
)

// DefaultStrategy is used when no strategy, or an unknown one, is requested.
const DefaultStrategy = SmartBalance

// StrategyInfo describes one strategy for listings.
type StrategyInfo struct {
	Name        Strategy `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Weights     Weights  `json:"weights" yaml:"weights"`
}

var strategyTable = map[Strategy]StrategyInfo{
	SmartBalance: {
		Name:        SmartBalance,
		Description: "Balanced algorithm considering all factors",
		Weights:     Weights{Urgency: 0.30, Importance: 0.35, Effort: 0.15, Dependency: 0.20},
	},
	FastestWins: {
		Name:        FastestWins,
		Description: "Prioritize low-effort quick wins",
		Weights:     Weights{Urgency: 0.15, Importance: 0.15, Effort: 0.60, Dependency: 0.10},
	},
	HighImpact: {
		Name:        HighImpact,
		Description: "Prioritize importance over everything",
		Weights:     Weights{Urgency: 0.10, Importance: 0.70, Effort: 0.05, Dependency: 0.15},
	},
	DeadlineDriven: {
		Name:        DeadlineDriven,
		Description: "Prioritize based on due date urgency",
		Weights:     Weights{Urgency: 0.65, Importance: 0.15, Effort: 0.05, Dependency: 0.15},
	},
}

// strategyOrder fixes the listing order.
var strategyOrder = []Strategy{SmartBalance, FastestWins, HighImpact, DeadlineDriven}

// ScoringFactors lists the factors that feed every score, for display.
var ScoringFactors = []string{
	"urgency (based on due date)",
	"importance (user rating 1-10)",
	"effort (estimated hours - favors quick wins)",
	"dependencies (tasks blocking others rank higher)",
}

// String returns the canonical strategy name.
func (s Strategy) String() string {
	return string(s)
}

// Valid reports whether s is one of the predefined strategies.
func (s Strategy) Valid() bool {
	_, ok := strategyTable[s]
	return ok
}

// Description returns the one-line description of s, or "" if unknown.
func (s Strategy) Description() string {
	return strategyTable[s].Description
}

// ParseStrategy resolves a strategy name. Matching ignores case and treats
// hyphens as underscores, so "Deadline-Driven" resolves to DeadlineDriven.
// Unknown or empty names resolve to DefaultStrategy with ok set to false.
func ParseStrategy(name string) (Strategy, bool) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.ReplaceAll(normalized, "-", "_")

	s := Strategy(normalized)
	if !s.Valid() {
		return DefaultStrategy, false
	}
	return s, true
}

// WeightsFor returns the weight vector of a strategy. Unknown strategies get
// the default weights.
func WeightsFor(s Strategy) Weights {
	info, ok := strategyTable[s]
	if !ok {
		return strategyTable[DefaultStrategy].Weights
	}
	return info.Weights
}

// Strategies lists every predefined strategy in a fixed order.
func Strategies() []StrategyInfo {
	out := make([]StrategyInfo, 0, len(strategyOrder))
	for _, s := range strategyOrder {
		out = append(out, strategyTable[s])
	}
	return out
}

// StrategyNames returns the canonical strategy names in listing order.
func StrategyNames() []string {
	names := make([]string, len(strategyOrder))
	for i, s := range strategyOrder {
		names[i] = s.String()
	}
	return names
}
