package journey

import (
	"strings"

	"github.com/siherrmann/carepath/model"
)

// Rule raises the inferred step to Target when Match accepts the lower-cased text
type Rule struct {
	Name   string
	Match  func(text string) bool
	Target int
}

func anyOf(keywords ...string) func(string) bool {
	return func(text string) bool {
		return containsAny(text, keywords...)
	}
}

// MentalHealthRules is the step rule table of the mental health journey
var MentalHealthRules = []Rule{
	{Name: "care provider", Match: anyOf("doctor", "pcp", "therapist"), Target: 2},
	{Name: "insurance", Match: anyOf("insurance", "coverage", "uhc"), Target: 3},
	{
		Name: "provider search",
		Match: func(text string) bool {
			return containsAll(text, "find", "doctor") || containsAny(text, "search")
		},
		Target: 4,
	},
	{Name: "booking", Match: anyOf("book", "appointment"), Target: 6},
}

// OrthopedicRules is the step rule table of the orthopedic journey
var OrthopedicRules = []Rule{
	{Name: "specialist type", Match: anyOf("what kind of doctor", "orthopedic"), Target: 2},
	{Name: "insurance", Match: anyOf("insurance", "uhc"), Target: 3},
	{Name: "referral", Match: anyOf("referral", "pcp"), Target: 4},
	{Name: "booking", Match: anyOf("book", "appointment"), Target: 5},
}

// RulesFor returns the rule table of a domain, nil for unknown domains
func RulesFor(domain model.Domain) []Rule {
	switch domain {
	case model.DomainMentalHealth:
		return MentalHealthRules
	case model.DomainOrthopedic:
		return OrthopedicRules
	}
	return nil
}

// ApplyRules folds the matching rules with max, starting at step 1.
// The fold is monotonic, so rule order does not change the result.
func ApplyRules(text string, rules []Rule) int {
	lower := strings.ToLower(text)

	step := 1
	for _, rule := range rules {
		if rule.Match(lower) && rule.Target > step {
			step = rule.Target
		}
	}
	return step
}

// Infer returns the journey step the text points at and the clarification
// questions to show for it. A step beyond the table is clamped to the last
// step of the table. At most one clarification is returned: the resolved
// step's own question when it requires a decision.
func Infer(text string, domain model.Domain, table *model.JourneyTable) (int, []string) {
	step := ApplyRules(text, RulesFor(domain))

	if table == nil {
		return step, nil
	}

	if max := table.MaxStepID(); max > 0 && step > max {
		step = max
	}

	var clarifications []string
	for _, s := range table.Steps {
		if s.StepID == step && s.HasClarification() {
			clarifications = append(clarifications, strings.TrimSpace(s.ClarificationQuestion))
			break
		}
	}

	return step, clarifications
}
