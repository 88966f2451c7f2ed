package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"

	"github.com/Iron-Ham/taskrank/internal/errors"
	"github.com/Iron-Ham/taskrank/internal/ingest"
	"github.com/Iron-Ham/taskrank/internal/scoring"
)

// strategyValue is a pflag.Value that only accepts known strategy names.
// Hyphenated and mixed-case spellings are normalized.
type strategyValue struct {
	value scoring.Strategy
}

var _ pflag.Value = (*strategyValue)(nil)

func (s *strategyValue) String() string {
	return string(s.value)
}

func (s *strategyValue) Set(name string) error {
	parsed, ok := scoring.ParseStrategy(name)
	if !ok {
		return fmt.Errorf("unknown strategy %q (valid: %s)", name, strings.Join(scoring.StrategyNames(), ", "))
	}
	s.value = parsed
	return nil
}

func (s *strategyValue) Type() string {
	return "strategy"
}

// weightKeys is the positional order of --weights.
var weightKeys = []string{"urgency", "importance", "effort", "dependency"}

// scoringFlags are the flags shared by analyze and suggest.
type scoringFlags struct {
	strategy    strategyValue
	weights     string
	weight      map[string]string
	inputFormat string
}

func (f *scoringFlags) register(flags *pflag.FlagSet) {
	flags.VarP(&f.strategy, "strategy", "s", "scoring strategy: "+strings.Join(scoring.StrategyNames(), ", "))
	flags.StringVar(&f.weights, "weights", "", "custom weights as urgency,importance,effort,dependency")
	flags.StringToStringVar(&f.weight, "weight", nil, "custom weight as key=value (repeatable)")
	flags.String("date", "", "reference date for urgency (YYYY-MM-DD, default today)")
	flags.StringVarP(&f.inputFormat, "input-format", "i", "", "input format, overriding file extensions: json, yaml, toml")
}

// customWeights merges --weights and --weight into an override map. It
// returns nil when neither flag was given.
func (f *scoringFlags) customWeights() (map[string]any, error) {
	if f.weights == "" && len(f.weight) == 0 {
		return nil, nil
	}

	out := make(map[string]any, len(weightKeys))
	if f.weights != "" {
		parts := strings.Split(f.weights, ",")
		if len(parts) != len(weightKeys) {
			return nil, errors.NewValidationError(fmt.Sprintf("expected %d comma-separated weights", len(weightKeys))).
				WithField("weights").WithValue(f.weights).WithCause(errors.ErrInvalidWeights)
		}
		for i, p := range parts {
			v, err := cast.ToFloat64E(strings.TrimSpace(p))
			if err != nil {
				return nil, errors.NewValidationError("weight is not a number").
					WithField(weightKeys[i]).WithValue(p).WithCause(errors.ErrInvalidWeights)
			}
			out[weightKeys[i]] = v
		}
	}
	for k, v := range f.weight {
		out[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return out, nil
}

func (f *scoringFlags) format() (ingest.Format, error) {
	if f.inputFormat == "" {
		return "", nil
	}
	return ingest.ParseFormat(f.inputFormat)
}
