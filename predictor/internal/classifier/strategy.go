package classifier

import (
	"fmt"
	"math"
	"sort"
)

const (
	StrategyBasic            = "basic"
	StrategyContractionAware = "contraction-aware"

	// PretermThresholdWeeks is the gestational age below which a birth is preterm.
	PretermThresholdWeeks = 37

	baseConfidence = 75.0
	maxConfidence  = 95.0

	maxEstimatedWeeks = math.MaxInt32
)

// Strategy is one named variant of the classification function. Evaluate is
// only called with measurements that already passed validation.
type Strategy interface {
	Name() string
	RequiresContractions() bool
	Evaluate(m Measurement) Result
}

var registry = map[string]Strategy{
	StrategyBasic:            Basic{},
	StrategyContractionAware: ContractionAware{},
}

// Lookup returns the strategy registered under name.
func Lookup(name string) (Strategy, error) {
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return s, nil
}

// Strategies lists the registered strategies ordered by name.
func Strategies() []Strategy {
	out := make([]Strategy, 0, len(registry))
	for _, s := range registry {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// StrategyFor picks contraction-aware when contraction statistics were
// supplied and basic otherwise.
func StrategyFor(m Measurement) Strategy {
	if m.Contractions != nil {
		return ContractionAware{}
	}
	return Basic{}
}

// Classify validates m and evaluates it with s. A nil s selects the strategy
// from the supplied fields. On error no Result is produced.
func Classify(m Measurement, s Strategy) (Result, error) {
	if s == nil {
		s = StrategyFor(m)
	}

	if err := m.Validate(); err != nil {
		return Result{}, err
	}

	if weeks := weightedAge(m); math.IsInf(weeks, 0) || weeks > maxEstimatedWeeks {
		return Result{}, &ValidationError{
			Field:      "estimatedGestationalAge",
			Constraint: "is out of range for the supplied measurements",
		}
	}

	if s.RequiresContractions() && m.Contractions == nil {
		return Result{}, &ValidationError{
			Field:      "contractions",
			Constraint: "are required by the " + s.Name() + " strategy",
		}
	}

	return s.Evaluate(m), nil
}

// EstimateGestationalAge is the fixed weighted sum shared by both strategies,
// rounded to the nearest week. Classify rejects measurements whose sum does
// not fit in an int32.
func EstimateGestationalAge(m Measurement) int {
	return int(math.Round(weightedAge(m)))
}

func weightedAge(m Measurement) float64 {
	return m.GestationalAge*0.7 +
		(m.Weight/0.1)*0.4 +
		(m.Length/10)*0.3 +
		(m.HeadCircumference/5)*0.5
}

// Basic uses the four biometric fields only.
type Basic struct{}

func (Basic) Name() string               { return StrategyBasic }
func (Basic) RequiresContractions() bool { return false }

func (Basic) Evaluate(m Measurement) Result {
	ega := EstimateGestationalAge(m)
	distance := math.Abs(float64(PretermThresholdWeeks - ega))

	return Result{
		EstimatedGestationalAge: ega,
		IsPreterm:               ega < PretermThresholdWeeks,
		Confidence:              math.Min(maxConfidence, baseConfidence+distance*1.5),
		Strategy:                StrategyBasic,
		Rule:                    RuleEstimatedAge,
	}
}

// ContractionAware runs the ordered decision list over the contraction
// statistics before falling back to the estimated age.
type ContractionAware struct{}

func (ContractionAware) Name() string               { return StrategyContractionAware }
func (ContractionAware) RequiresContractions() bool { return true }

func (ContractionAware) Evaluate(m Measurement) Result {
	ega := EstimateGestationalAge(m)
	c := *m.Contractions

	preterm, rule := decide(c, ega)

	return Result{
		EstimatedGestationalAge: ega,
		IsPreterm:               preterm,
		Confidence:              additiveConfidence(c),
		Strategy:                StrategyContractionAware,
		Rule:                    rule,
	}
}

// decide evaluates the rules top to bottom; the first match wins.
func decide(c ContractionStats, ega int) (bool, Rule) {
	switch {
	case c.Count > 1000 && c.Entropy > 1.3:
		return true, RuleHighActivityEntropy
	case c.Count > 5000 && c.Length > 15000:
		return true, RuleProlongedActivity
	case c.Std > 50000:
		return true, RuleHighSignalStd
	case c.Count < 700 && c.Entropy < 0.9:
		return false, RuleLowActivity
	default:
		return ega < PretermThresholdWeeks, RuleEstimatedAge
	}
}

func additiveConfidence(c ContractionStats) float64 {
	confidence := baseConfidence
	if c.Count < 500 || c.Count > 10000 {
		confidence += 5
	}
	if c.Entropy < 0.5 || c.Entropy > 2.0 {
		confidence += 5
	}
	if c.Std > 60000 || c.Std < 30000 {
		confidence += 5
	}
	return math.Min(maxConfidence, confidence)
}
