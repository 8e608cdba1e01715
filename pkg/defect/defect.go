// Package defect injects deliberate data-quality defects into clean field
// values.
//
// A Policy is an ordered list of rules, each pairing a probability with a
// Strategy. Every rule that is evaluated consumes exactly one uniform draw from
// the caller's random source; a rule fires when that draw is below its
// probability. Strategies always receive the clean value, so a corruption is a
// pure post-processing step and never changes what was sampled.
//
// Two composition modes exist. ModeOverride rolls every rule and keeps the
// output of the last rule that fired. ModeFirstHit stops at the first rule that
// fires.
package defect

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"pkg.jsn.cam/synthgen/pkg/field"
)

var (
	ErrInvalidProbability   = errors.New("defect probability outside [0, 1]")
	ErrInapplicableStrategy = errors.New("strategy not applicable to field type")
	ErrNilStrategy          = errors.New("rule has no strategy")
	ErrEmptyBand            = errors.New("hard range band is empty")
)

// Strategy turns a clean value into a corrupted one. Implementations must be
// total over the types they apply to and must not resample the clean value.
type Strategy interface {
	Name() string
	AppliesTo(t field.Type) bool
	Corrupt(clean field.Value, d field.Descriptor, r *rand.Rand) field.Value
}

// validator is implemented by strategies with parameters that can be wrong.
type validator interface {
	Validate() error
}

func validateStrategy(s Strategy) error {
	if v, ok := s.(validator); ok {
		return v.Validate()
	}
	return nil
}

// Mode selects how the rules of a policy compose.
type Mode uint8

const (
	// ModeOverride evaluates every rule in order; the last one to fire wins.
	ModeOverride Mode = iota
	// ModeFirstHit stops at the first rule that fires.
	ModeFirstHit
)

func (m Mode) String() string {
	if m == ModeFirstHit {
		return "first-hit"
	}
	return "override"
}

// Rule fires its Strategy with the given Probability.
type Rule struct {
	Probability float64
	Strategy    Strategy
}

// Policy is the static defect configuration of one field.
type Policy struct {
	Mode  Mode
	Rules []Rule
}

// None is the policy that never corrupts.
func None() Policy { return Policy{} }

// Single corrupts with one strategy at probability p.
func Single(p float64, s Strategy) Policy {
	return Policy{Rules: []Rule{{Probability: p, Strategy: s}}}
}

// Override builds a last-fired-wins chain.
func Override(rules ...Rule) Policy {
	return Policy{Mode: ModeOverride, Rules: rules}
}

// FirstHit builds a priority chain that stops at the first rule that fires.
func FirstHit(rules ...Rule) Policy {
	return Policy{Mode: ModeFirstHit, Rules: rules}
}

// At is shorthand for a Rule literal.
func At(p float64, s Strategy) Rule {
	return Rule{Probability: p, Strategy: s}
}

// WithProbability returns a copy of p with every rule's probability replaced.
func (p Policy) WithProbability(prob float64) Policy {
	rules := make([]Rule, len(p.Rules))
	for i, r := range p.Rules {
		rules[i] = Rule{Probability: prob, Strategy: r.Strategy}
	}
	return Policy{Mode: p.Mode, Rules: rules}
}

// Validate reports configuration errors for a policy attached to d.
func (p Policy) Validate(d field.Descriptor) error {
	for i, rule := range p.Rules {
		if rule.Strategy == nil {
			return fmt.Errorf("%s rule %d: %w", d.Name, i, ErrNilStrategy)
		}
		if rule.Probability < 0 || rule.Probability > 1 {
			return fmt.Errorf("%s rule %d: %w: %v", d.Name, i, ErrInvalidProbability, rule.Probability)
		}
		if !rule.Strategy.AppliesTo(d.Type) {
			return fmt.Errorf("%s rule %d: %w: %s on %s", d.Name, i, ErrInapplicableStrategy, rule.Strategy.Name(), d.Type)
		}
		if err := validateStrategy(rule.Strategy); err != nil {
			return fmt.Errorf("%s rule %d: %w", d.Name, i, err)
		}
	}
	return nil
}

// Outcome is the result of running a policy over one clean value.
type Outcome struct {
	Clean     field.Value
	Value     field.Value
	Strategy  string
	Corrupted bool
}

// Apply runs p over clean. With no rules, or when no rule fires, the clean
// value is returned unchanged.
func Apply(clean field.Value, d field.Descriptor, p Policy, r *rand.Rand) Outcome {
	out := Outcome{Clean: clean, Value: clean}
	for _, rule := range p.Rules {
		if r.Float64() >= rule.Probability {
			continue
		}
		out.Value = rule.Strategy.Corrupt(clean, d, r)
		out.Strategy = rule.Strategy.Name()
		out.Corrupted = true
		if p.Mode == ModeFirstHit {
			break
		}
	}
	return out
}

// Inject is Apply without the bookkeeping.
func Inject(clean field.Value, d field.Descriptor, p Policy, r *rand.Rand) field.Value {
	return Apply(clean, d, p, r).Value
}
