package scoring

import (
	"math"

	"github.com/go-viper/mapstructure/v2"

	"github.com/Iron-Ham/taskrank/internal/errors"
)

// weightTolerance is how far a weight sum may drift from 1.0 before the
// vector is rescaled.
const weightTolerance = 0.01

// Default component weights. They match the smart_balance strategy and fill
// in any component missing from a custom override.
const (
	DefaultUrgencyWeight    = 0.30
	DefaultImportanceWeight = 0.35
	DefaultEffortWeight     = 0.15
	DefaultDependencyWeight = 0.20
)

// Weights is the per-component weight vector. The four components sum to 1.0
// within a small tolerance.
type Weights struct {
	Urgency    float64 `json:"urgency" yaml:"urgency" mapstructure:"urgency"`
	Importance float64 `json:"importance" yaml:"importance" mapstructure:"importance"`
	Effort     float64 `json:"effort" yaml:"effort" mapstructure:"effort"`
	Dependency float64 `json:"dependency" yaml:"dependency" mapstructure:"dependency"`
}

// DefaultWeights returns the default weight vector.
func DefaultWeights() Weights {
	return Weights{
		Urgency:    DefaultUrgencyWeight,
		Importance: DefaultImportanceWeight,
		Effort:     DefaultEffortWeight,
		Dependency: DefaultDependencyWeight,
	}
}

// NewWeights builds a weight vector, rescaling it proportionally when the sum
// strays from 1.0 by more than the tolerance. Negative components and a
// non-positive sum cannot be normalized and are rejected.
func NewWeights(urgency, importance, effort, dependency float64) (Weights, error) {
	w := Weights{Urgency: urgency, Importance: importance, Effort: effort, Dependency: dependency}
	if err := w.check(); err != nil {
		return Weights{}, err
	}
	return w.normalized(), nil
}

// Sum returns the total of the four components.
func (w Weights) Sum() float64 {
	return w.Urgency + w.Importance + w.Effort + w.Dependency
}

func (w Weights) check() error {
	components := []struct {
		name  string
		value float64
	}{
		{"urgency", w.Urgency},
		{"importance", w.Importance},
		{"effort", w.Effort},
		{"dependency", w.Dependency},
	}
	for _, c := range components {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return errors.NewValidationError("weight must be a finite number").
				WithField(c.name).WithValue(c.value).WithCause(errors.ErrInvalidWeights)
		}
		if c.value < 0 {
			return errors.NewValidationError("weight must not be negative").
				WithField(c.name).WithValue(c.value).WithCause(errors.ErrInvalidWeights)
		}
	}
	if w.Sum() <= 0 {
		return errors.NewValidationError("weights must sum to a positive value").
			WithValue(w.Sum()).WithCause(errors.ErrInvalidWeights)
	}
	return nil
}

func (w Weights) normalized() Weights {
	total := w.Sum()
	if math.Abs(total-1) <= weightTolerance {
		return w
	}
	return Weights{
		Urgency:    w.Urgency / total,
		Importance: w.Importance / total,
		Effort:     w.Effort / total,
		Dependency: w.Dependency / total,
	}
}

// ParseWeightOverride decodes a loosely-typed custom weight mapping, such as
// the custom_weights object of an input envelope or the analysis.weights
// config section. Numeric strings are accepted and unknown keys are ignored.
// Components that are missing take their default value before normalization
// runs.
func ParseWeightOverride(raw map[string]any) (Weights, error) {
	w := DefaultWeights()

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &w,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Weights{}, errors.Wrap(err, "creating weight decoder")
	}
	if err := decoder.Decode(raw); err != nil {
		return Weights{}, errors.NewValidationError("custom weights could not be decoded").
			WithCause(errors.Join(errors.ErrInvalidWeights, err))
	}
	return NewWeights(w.Urgency, w.Importance, w.Effort, w.Dependency)
}
