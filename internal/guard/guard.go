// Package guard classifies caller-supplied SQL text as safe or unsafe for
// read-only execution. It is a blunt lexical filter, not a parser: its job is
// coarse rejection of obviously unsafe constructs. Whenever a token could be
// either a keyword or an identifier, the guard treats it as a keyword and
// rejects — false positives are acceptable, false negatives are not.
package guard

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule names identify which check rejected a statement, so denials can be
// explained to the caller rather than collapsed into a generic error.
const (
	RuleEmpty            = "empty_statement"
	RuleSemicolon        = "semicolon"
	RuleComment          = "comment_marker"
	RuleFirstToken       = "first_token"
	RuleForbiddenKeyword = "forbidden_keyword"
	RuleSchemaNotAllowed = "schema_reference"
)

// Forbidden keywords rejected anywhere in the statement when they appear as
// standalone tokens. RUN, QCMDEXC, and the CL: prefix are IBM i escapes into
// command execution and are blocked alongside the standard DML/DDL set.
var forbiddenTokens = regexp.MustCompile(`(?i)(^|[^A-Za-z0-9_$#@])(INSERT|UPDATE|DELETE|DROP|CREATE|ALTER|TRUNCATE|GRANT|REVOKE|CALL|MERGE|EXEC|EXECUTE|RUN|QCMDEXC|CL:)([^A-Za-z0-9_$#@]|$)`)

// Qualified references look like IDENT. — the best-effort schema scan pulls
// these out without parsing.
var schemaRefPattern = regexp.MustCompile(`\b([A-Za-z0-9_$#@]{1,128})\s*\.`)

// Pseudo-prefixes that look like qualified references but are SQL syntax.
var notSchemas = map[string]bool{"TABLE": true, "LATERAL": true, "VALUES": true}

var selectToken = regexp.MustCompile(`(?i)\bSELECT\b`)

// Error is an unsafe-statement rejection naming the violated rule.
type Error struct {
	Rule   string
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("unsafe statement (%s): %s", e.Rule, e.Detail)
}

// Checker holds the schema allow-list used by the qualified-reference scan.
// The set is fixed at construction.
type Checker struct {
	allowedSchemas map[string]bool
}

// NewChecker creates a Checker. allowedSchemas are the trusted catalog
// schemas plus any configured business schemas, already upper-cased.
func NewChecker(allowedSchemas []string) *Checker {
	set := make(map[string]bool, len(allowedSchemas))
	for _, s := range allowedSchemas {
		set[strings.ToUpper(s)] = true
	}
	return &Checker{allowedSchemas: set}
}

// Check classifies a complete SQL statement. It returns nil for statements
// that pass every rule and an *Error naming the first violated rule
// otherwise. Only the custom-query tool routes statements through here;
// templated tools carry statically trusted text and bypass the guard.
func (c *Checker) Check(sql string) error {
	s := strings.TrimSpace(sql)
	if s == "" {
		return &Error{Rule: RuleEmpty, Detail: "statement is empty"}
	}

	// A semicolon anywhere blocks multi-statement injection, even inside
	// what might be a string literal — the guard does not track quoting.
	if strings.Contains(s, ";") {
		return &Error{Rule: RuleSemicolon, Detail: "semicolons are not allowed (single statement only)"}
	}

	// Comment markers enable truncation attacks against appended clauses.
	if strings.Contains(s, "--") || strings.Contains(s, "/*") {
		return &Error{Rule: RuleComment, Detail: "comment markers are not allowed"}
	}

	first := firstToken(s)
	switch strings.ToUpper(first) {
	case "SELECT", "WITH", "VALUES":
	default:
		return &Error{Rule: RuleFirstToken, Detail: fmt.Sprintf("statement must begin with SELECT, WITH, or VALUES; got %q", first)}
	}

	if m := forbiddenTokens.FindStringSubmatch(s); m != nil {
		return &Error{Rule: RuleForbiddenKeyword, Detail: fmt.Sprintf("forbidden keyword %s", strings.ToUpper(m[2]))}
	}

	return c.checkSchemaRefs(s)
}

// checkSchemaRefs scans qualified references and rejects any schema outside
// the allow-list. This is a heuristic: a column alias followed by a dot can
// look like a schema, and per the fail-safe tie-break that still rejects.
func (c *Checker) checkSchemaRefs(s string) error {
	for _, m := range schemaRefPattern.FindAllStringSubmatch(strings.ToUpper(s), -1) {
		ref := m[1]
		if notSchemas[ref] {
			continue
		}
		if !c.allowedSchemas[ref] {
			return &Error{
				Rule:   RuleSchemaNotAllowed,
				Detail: fmt.Sprintf("statement references schema %s which is not in the allow-list", ref),
			}
		}
	}
	return nil
}

// SimpleClause validates a caller-supplied WHERE or ORDER BY fragment used by
// the business query tool. Fragments may contain comparisons and column
// names but no subqueries, parentheses, statement separators, or forbidden
// keywords.
func SimpleClause(clause, what string) (string, error) {
	v := strings.TrimSpace(clause)
	if v == "" {
		return "", nil
	}
	if strings.ContainsAny(v, "();") {
		return "", &Error{Rule: RuleForbiddenKeyword, Detail: fmt.Sprintf("parentheses and semicolons are not allowed in %s", what)}
	}
	if strings.Contains(v, "--") || strings.Contains(v, "/*") {
		return "", &Error{Rule: RuleComment, Detail: fmt.Sprintf("comment markers are not allowed in %s", what)}
	}
	if selectToken.MatchString(v) {
		return "", &Error{Rule: RuleForbiddenKeyword, Detail: fmt.Sprintf("SELECT is not allowed in %s", what)}
	}
	if m := forbiddenTokens.FindStringSubmatch(v); m != nil {
		return "", &Error{Rule: RuleForbiddenKeyword, Detail: fmt.Sprintf("forbidden keyword %s in %s", strings.ToUpper(m[2]), what)}
	}
	return v, nil
}

func firstToken(s string) string {
	for i, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '(' {
			return s[:i]
		}
	}
	return s
}
