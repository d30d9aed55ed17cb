// Package hint maps remote diagnostics to remediation guidance. When the
// server rejects a statement, the raw SQLSTATE and message text are matched
// against a rule list and the matching hints are attached to the tool error
// so a caller can correct course without reading server documentation.
package hint

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule pairs a diagnostic pattern with a remediation message.
type Rule struct {
	Pattern string
	Message string
}

type compiledRule struct {
	pattern *regexp.Regexp
	message string
}

// Matcher checks diagnostics against rules and returns remediation hints.
type Matcher struct {
	rules []compiledRule
}

// NewMatcher compiles the rules. Returns an error on an invalid pattern.
func NewMatcher(rules []Rule) (*Matcher, error) {
	compiled := make([]compiledRule, len(rules))
	for i, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("hint: invalid regex pattern %q: %v", r.Pattern, err)
		}
		compiled[i] = compiledRule{pattern: re, message: r.Message}
	}
	return &Matcher{rules: compiled}, nil
}

// Match checks the diagnostic against all rules, top to bottom, and returns
// the matching hints joined with newlines. Empty string when nothing matches.
func (m *Matcher) Match(diagnostic string) string {
	var matches []string
	for _, rule := range m.rules {
		if rule.pattern.MatchString(diagnostic) {
			matches = append(matches, rule.message)
		}
	}
	return strings.Join(matches, "\n")
}

// DefaultRules covers the diagnostics Db2 for i raises most often against
// catalog-service queries.
func DefaultRules() []Rule {
	return []Rule{
		{
			Pattern: `SQL0204|42704`,
			Message: "The referenced object was not found. Catalog services vary by server level; run search-sql-services to see what this server provides.",
		},
		{
			Pattern: `SQL0551|42501`,
			Message: "The connection profile lacks authority for this object. Ask the system administrator to grant *USE on the referenced service.",
		},
		{
			Pattern: `SQL0104|42601`,
			Message: "The statement form is not accepted at this server level. Some services take different arguments on older releases.",
		},
		{
			Pattern: `SQL0443|38501`,
			Message: "The catalog service reported an internal error. Re-run with a narrower filter; wide scans of some services are slow on busy systems.",
		},
		{
			Pattern: `SQL0666|57005`,
			Message: "The statement exceeded the query governor's time limit. Add filters or lower the row limit.",
		},
	}
}
