package resolver

import (
	"github.com/seitarof/mirror/internal/parser"
)

// Resolver turns parsed types into registration plans.
type Resolver interface {
	Resolve(pkg *parser.PackageInfo, targets []*parser.TypeInfo) []RegistrationPlan
}

// Rule infers registration options for one type.
type Rule interface {
	Name() string
	Try(pkg *parser.PackageInfo, t *parser.TypeInfo) []OptionPlan
}

type resolverImpl struct {
	rules []Rule
}

// New builds resolver with rule chain. Every rule contributes its options
// in chain order.
func New(rules ...Rule) Resolver {
	return &resolverImpl{rules: rules}
}

func (r *resolverImpl) Resolve(pkg *parser.PackageInfo, targets []*parser.TypeInfo) []RegistrationPlan {
	plans := make([]RegistrationPlan, 0, len(targets))
	for _, t := range targets {
		plan := RegistrationPlan{Type: t}
		for _, rule := range r.rules {
			plan.Options = append(plan.Options, rule.Try(pkg, t)...)
		}
		plans = append(plans, plan)
	}
	return plans
}
