package classifier

import (
	"fmt"
)

// Measurement is the input record of the classifier. Contractions is nil when
// the caller did not supply contraction statistics.
type Measurement struct {
	Weight            float64           `json:"weight" validate:"finite,gt=0"`            // kg
	Length            float64           `json:"length" validate:"finite,gt=0"`            // cm
	HeadCircumference float64           `json:"headCircumference" validate:"finite,gt=0"` // cm
	GestationalAge    float64           `json:"gestationalAge" validate:"finite,gt=0"`    // weeks
	Contractions      *ContractionStats `json:"contractions,omitempty"`
}

// ContractionStats are the synthetic uterine-activity signals used by the
// contraction-aware strategy.
type ContractionStats struct {
	Count   float64 `json:"contractionCount" validate:"finite,gte=0"`
	Length  float64 `json:"contractionLength" validate:"finite,gte=0"`
	Std     float64 `json:"std" validate:"finite,gte=0"`
	Entropy float64 `json:"entropy" validate:"finite,gte=0"`
}

// Result is produced fresh for every call and never mutated afterwards.
type Result struct {
	EstimatedGestationalAge int     `json:"estimatedGestationalAge"`
	IsPreterm               bool    `json:"isPreterm"`
	Confidence              float64 `json:"confidence"`
	Strategy                string  `json:"strategy"`
	Rule                    Rule    `json:"rule"`
}

// Label returns the human readable outcome shown on the results panel.
func (r Result) Label() string {
	if r.IsPreterm {
		return "Preterm Birth Detected"
	}
	return "Full-Term Birth"
}

// Rule identifies which entry of the decision list decided IsPreterm.
type Rule int

const (
	RuleUnknown Rule = iota
	RuleHighActivityEntropy
	RuleProlongedActivity
	RuleHighSignalStd
	RuleLowActivity
	RuleEstimatedAge
)

var ruleNames = map[Rule]string{
	RuleUnknown:             "unknown",
	RuleHighActivityEntropy: "high_activity_entropy",
	RuleProlongedActivity:   "prolonged_activity",
	RuleHighSignalStd:       "high_signal_std",
	RuleLowActivity:         "low_activity",
	RuleEstimatedAge:        "estimated_age",
}

func (r Rule) String() string {
	if name, ok := ruleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("rule(%d)", int(r))
}

func (r Rule) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Rule) UnmarshalText(text []byte) error {
	for rule, name := range ruleNames {
		if name == string(text) {
			*r = rule
			return nil
		}
	}
	return fmt.Errorf("unknown rule %q", string(text))
}
