// Package scoring turns sanitized tasks into 0-100 priority scores.
//
// Four components are scored independently on a 0-100 scale (urgency may
// exceed 100 for overdue work) and combined with a [Weights] vector chosen by
// a [Strategy] or supplied by the caller. The weighted sum is capped at 100
// and classified into HIGH, MEDIUM or LOW. Every component carries a short
// human-readable explanation that is reported alongside the score.
package scoring
