package condition

import (
	"testing"

	"github.com/voteosis/trustee/internal/names"
)

func TestConditionConjunction(t *testing.T) {
	fileSet := map[names.Key]struct{}{
		names.Config():     {},
		names.ConfigStmt(): {},
	}
	c := Condition{Terms: []Term{
		{Key: names.Config(), Present: true},
		{Key: names.ConfigStmt(), Present: true},
		{Key: names.Pause(), Present: false},
	}}
	if !c.Eval(fileSet) {
		t.Fatal("expected conjunction of satisfied terms to evaluate true")
	}

	missing := Condition{Terms: []Term{
		{Key: names.Config(), Present: true},
		{Key: names.ErrorAuth(1), Present: true},
	}}
	if missing.Eval(fileSet) {
		t.Fatal("expected conjunction with an unsatisfied term to evaluate false")
	}
}

func TestConditionNegationIsDeMorganOr(t *testing.T) {
	fileSet := map[names.Key]struct{}{names.Pause(): {}}

	bothAbsent := Condition{
		Terms:  []Term{{Key: names.Pause(), Present: false}, {Key: names.Error(), Present: false}},
		Negate: true,
	}
	// Pause present -> inner conjunction false -> negated true (De Morgan OR).
	if !bothAbsent.Eval(fileSet) {
		t.Fatal("negated conjunction of absences should be true when either is present")
	}

	emptySet := map[names.Key]struct{}{}
	if bothAbsent.Eval(emptySet) {
		t.Fatal("negated conjunction of absences should be false when neither is present")
	}
}

func TestJointConditionEvaluatesAllConditions(t *testing.T) {
	fileSet := map[names.Key]struct{}{
		names.Config():     {},
		names.ConfigStmt(): {},
	}
	j := Join(Present(names.Config()), Present(names.ConfigStmt()), Absent(names.Pause()))
	if !j.Eval(fileSet) {
		t.Fatal("expected all-satisfied JointCondition to evaluate true")
	}

	j2 := Join(Present(names.Config()), Present(names.Pause()))
	if j2.Eval(fileSet) {
		t.Fatal("expected JointCondition with one unsatisfied Condition to evaluate false")
	}
}

func TestEvalIsPureFunctionOfObservedSet(t *testing.T) {
	fileSet := map[names.Key]struct{}{names.Config(): {}}
	c := Present(names.Config())
	first := c.Eval(fileSet)
	second := c.Eval(fileSet)
	if first != second {
		t.Fatal("Eval must be a pure function of its fileSet argument")
	}
}
