// Package timeout resolves per-call execution deadlines. Long-running
// catalog services (plan cache dumps, IFS walks) get wider budgets than
// point lookups; rules match on the tool name with a statement-text
// fallback so custom queries can be budgeted by shape.
package timeout

import (
	"fmt"
	"regexp"
	"time"
)

// Rule assigns a timeout to calls whose tool name or statement text matches
// Pattern.
type Rule struct {
	Pattern string
	Timeout time.Duration
}

// Config configures a Manager.
type Config struct {
	DefaultTimeout time.Duration
	Rules          []Rule
}

type compiledRule struct {
	pattern *regexp.Regexp
	timeout time.Duration
}

// Manager resolves call timeouts. First matching rule wins.
type Manager struct {
	rules          []compiledRule
	defaultTimeout time.Duration
}

// NewManager creates a Manager. Panics on invalid regex patterns.
func NewManager(config Config) *Manager {
	compiled := make([]compiledRule, len(config.Rules))
	for i, r := range config.Rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			panic(fmt.Sprintf("timeout: invalid regex pattern %q: %v", r.Pattern, err))
		}
		compiled[i] = compiledRule{pattern: re, timeout: r.Timeout}
	}
	return &Manager{rules: compiled, defaultTimeout: config.DefaultTimeout}
}

// For returns the timeout for a call. Rules are tried against the tool name
// first, then the statement text. Falls back to the default.
func (m *Manager) For(tool, sql string) time.Duration {
	for _, rule := range m.rules {
		if rule.pattern.MatchString(tool) || rule.pattern.MatchString(sql) {
			return rule.timeout
		}
	}
	return m.defaultTimeout
}
