package domain

// Rule identifies one of the fixed purchasing constraints.
type Rule string

const (
	// RuleActiveCap caps the number of not-yet-used tickets a buyer may hold.
	RuleActiveCap Rule = "Rule1"
	// RuleWindowCap caps purchases inside any rolling 6-month window.
	RuleWindowCap Rule = "Rule2"
	// RuleSplitDates forbids two event dates for the same event and theater.
	RuleSplitDates Rule = "Rule3"
)

// Violation names a failed rule with a display-ready message.
type Violation struct {
	Rule    Rule   `json:"rule"`
	Message string `json:"message"`
}

// Decision is the outcome of one availability check. Violations are ordered
// by rule number so output is deterministic.
type Decision struct {
	Available  bool        `json:"available"`
	Violations []Violation `json:"violations"`
}
