package domain

import "strings"

// Plan is the subscription tier attached to a user's billing record.
type Plan string

// Subscription tiers. The billing provider pushes transitions between them;
// the application never changes a plan on its own.
const (
	PlanStandard Plan = "STANDARD"
	PlanPro      Plan = "PRO"
	PlanUltimate Plan = "ULTIMATE"
)

// Valid reports whether p is a known plan.
func (p Plan) Valid() bool {
	switch p {
	case PlanStandard, PlanPro, PlanUltimate:
		return true
	}
	return false
}

// ParsePlan normalizes s to a Plan; ok is false for unknown values.
func ParsePlan(s string) (Plan, bool) {
	p := Plan(strings.ToUpper(strings.TrimSpace(s)))
	return p, p.Valid()
}
