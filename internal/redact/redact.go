// Package redact masks sensitive material in result rows before they leave
// the gateway. Two mechanisms apply: whole-value masking for columns whose
// names match a configured pattern, and regex replacement inside string
// values for rules like credential or account-number shapes.
package redact

import (
	"fmt"
	"regexp"
)

// Mask replaces the entire value of a column matched by a column rule.
const Mask = "[REDACTED]"

// ValueRule rewrites matching fragments inside string values.
type ValueRule struct {
	Pattern     string
	Replacement string
}

type compiledValueRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Redactor applies column-name and value-pattern redaction to result rows.
type Redactor struct {
	columns []*regexp.Regexp
	values  []compiledValueRule
}

// New compiles the rules. Column patterns match case-insensitively against
// column names. Returns an error on an invalid pattern.
func New(columnPatterns []string, valueRules []ValueRule) (*Redactor, error) {
	r := &Redactor{}
	for _, p := range columnPatterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("redact: invalid column pattern %q: %v", p, err)
		}
		r.columns = append(r.columns, re)
	}
	for _, vr := range valueRules {
		re, err := regexp.Compile(vr.Pattern)
		if err != nil {
			return nil, fmt.Errorf("redact: invalid value pattern %q: %v", vr.Pattern, err)
		}
		r.values = append(r.values, compiledValueRule{pattern: re, replacement: vr.Replacement})
	}
	return r, nil
}

// HasRules reports whether any rule is configured.
func (r *Redactor) HasRules() bool {
	return len(r.columns) > 0 || len(r.values) > 0
}

// Apply redacts rows in place and returns them. Rows are positional and
// parallel to columns.
func (r *Redactor) Apply(columns []string, rows [][]any) [][]any {
	if !r.HasRules() {
		return rows
	}
	masked := make([]bool, len(columns))
	for i, name := range columns {
		for _, re := range r.columns {
			if re.MatchString(name) {
				masked[i] = true
				break
			}
		}
	}
	for _, row := range rows {
		for i := range row {
			if i < len(masked) && masked[i] && row[i] != nil {
				row[i] = Mask
				continue
			}
			row[i] = r.redactValue(row[i])
		}
	}
	return rows
}

func (r *Redactor) redactValue(v any) any {
	switch val := v.(type) {
	case string:
		result := val
		for _, rule := range r.values {
			result = rule.pattern.ReplaceAllString(result, rule.replacement)
		}
		return result
	case map[string]any:
		for k, item := range val {
			val[k] = r.redactValue(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = r.redactValue(item)
		}
		return val
	default:
		// Numeric, bool, nil and driver-native types pass through.
		return v
	}
}
