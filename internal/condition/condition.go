// Package condition implements the minimal boolean algebra the driver
// evaluates against one cycle's observed board key-set: conjunctions
// of present/absent terms, conjoinable into a JointCondition and
// globally negatable (De Morgan gives OR for free).
package condition

import "github.com/voteosis/trustee/internal/names"

// Term is a single (key, expected-present?) test.
type Term struct {
	Key     names.Key
	Present bool
}

// eval reports whether fileSet's membership of t.Key matches t.Present.
func (t Term) eval(fileSet map[names.Key]struct{}) bool {
	_, present := fileSet[t.Key]
	return present == t.Present
}

// Condition is the conjunction of its Terms, optionally negated.
// Negate turns AND-of-terms into the De Morgan dual, giving OR
// semantics to callers that need it without a separate Or type.
type Condition struct {
	Terms  []Term
	Negate bool
}

// Eval evaluates the condition against fileSet, short-circuiting on
// the first term that decides the conjunction.
func (c Condition) Eval(fileSet map[names.Key]struct{}) bool {
	result := true
	for _, t := range c.Terms {
		if !t.eval(fileSet) {
			result = false
			break
		}
	}
	if c.Negate {
		return !result
	}
	return result
}

// JointCondition is the conjunction of its Conditions.
type JointCondition struct {
	Conditions []Condition
}

// Eval evaluates every Condition against fileSet, short-circuiting on
// the first one that evaluates false.
func (j JointCondition) Eval(fileSet map[names.Key]struct{}) bool {
	for _, c := range j.Conditions {
		if !c.Eval(fileSet) {
			return false
		}
	}
	return true
}

// Present builds a single-term condition requiring key to be present.
func Present(key names.Key) Condition {
	return Condition{Terms: []Term{{Key: key, Present: true}}}
}

// Absent builds a single-term condition requiring key to be absent.
func Absent(key names.Key) Condition {
	return Condition{Terms: []Term{{Key: key, Present: false}}}
}

// Join builds a JointCondition (AND) over conditions.
func Join(conditions ...Condition) JointCondition {
	return JointCondition{Conditions: conditions}
}
