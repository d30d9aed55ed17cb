package hint

import (
	"strings"
	"testing"
)

func TestMatchSingleRule(t *testing.T) {
	t.Parallel()
	m, err := NewMatcher([]Rule{
		{Pattern: `SQL0204`, Message: "object not found"},
		{Pattern: `SQL0551`, Message: "not authorized"},
	})
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	got := m.Match("SQL0204: PLAN_CACHE_STATEMENT in QSYS2 type *FILE not found")
	if got != "object not found" {
		t.Errorf("Match = %q", got)
	}
}

func TestMatchMultipleRulesJoined(t *testing.T) {
	t.Parallel()
	m, err := NewMatcher([]Rule{
		{Pattern: `SQL0204`, Message: "first"},
		{Pattern: `not found`, Message: "second"},
	})
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	got := m.Match("SQL0204: object not found")
	if got != "first\nsecond" {
		t.Errorf("Match = %q, want both rules in order", got)
	}
}

func TestMatchNoRuleReturnsEmpty(t *testing.T) {
	t.Parallel()
	m, err := NewMatcher([]Rule{{Pattern: `SQL0204`, Message: "x"}})
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	if got := m.Match("SQL0952: processing was cancelled"); got != "" {
		t.Errorf("Match = %q, want empty", got)
	}
}

func TestInvalidPattern(t *testing.T) {
	t.Parallel()
	if _, err := NewMatcher([]Rule{{Pattern: `(`, Message: "x"}}); err == nil {
		t.Error("NewMatcher accepted an invalid pattern")
	}
}

func TestDefaultRulesCoverCommonStates(t *testing.T) {
	t.Parallel()
	m, err := NewMatcher(DefaultRules())
	if err != nil {
		t.Fatalf("NewMatcher(DefaultRules): %v", err)
	}
	cases := map[string]string{
		"SQLSTATE 42704 SQL0204": "not found",
		"SQLSTATE 42501 SQL0551": "authority",
		"SQLSTATE 57005 SQL0666": "time limit",
	}
	for diag, fragment := range cases {
		if got := m.Match(diag); !strings.Contains(got, fragment) {
			t.Errorf("Match(%q) = %q, want hint mentioning %q", diag, got, fragment)
		}
	}
}
