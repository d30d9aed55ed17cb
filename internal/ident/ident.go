// Package ident validates raw strings intended to become part of SQL text:
// Db2 for i object names, comma-separated name lists, IBM i special values,
// IFS paths, and advisory row limits. Validation is the only way a
// caller-supplied string is ever allowed into statement text; everything else
// travels as a bound parameter.
package ident

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MaxLength is the longest accepted identifier. Db2 for i long names top out
// at 128 characters.
const MaxLength = 128

// HardLimitCeiling caps every advisory row limit, regardless of what a tool's
// own maximum says.
const HardLimitCeiling = 10000

var (
	identPattern   = regexp.MustCompile(`^[A-Za-z0-9_$#@]{1,128}$`)
	specialPattern = regexp.MustCompile(`^\*[A-Za-z0-9_]{1,30}$`)
)

// Error reports a rejected identifier. What names the parameter being
// validated so the caller can surface an explainable denial.
type Error struct {
	What  string
	Value string
	Pos   int // 1-based element position for list validation, 0 otherwise
}

func (e *Error) Error() string {
	if e.Pos > 0 {
		return fmt.Sprintf("invalid %s: element %d (%q) is not a valid identifier", e.What, e.Pos, e.Value)
	}
	return fmt.Sprintf("invalid %s: %q", e.What, e.Value)
}

// Identifier validates a single object name (schema, table, library, user
// profile, subsystem, product ID). Accepted names match
// ^[A-Za-z0-9_$#@]{1,128}$ after trimming surrounding whitespace, and are
// returned upper-cased because the Db2 for i catalogs store names uppercase.
func Identifier(raw, what string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" || !identPattern.MatchString(v) {
		return "", &Error{What: what, Value: raw}
	}
	return strings.ToUpper(v), nil
}

// IdentifierList validates a comma-separated list of identifiers, failing on
// the first invalid element and reporting its position. The normalized result
// is upper-cased with no surrounding spaces. Empty input yields an empty
// string, which templates treat as "no filter".
func IdentifierList(raw, what string) (string, error) {
	parts := strings.Split(raw, ",")
	norm := make([]string, 0, len(parts))
	pos := 0
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		pos++
		if !identPattern.MatchString(p) {
			return "", &Error{What: what, Value: p, Pos: pos}
		}
		norm = append(norm, strings.ToUpper(p))
	}
	return strings.Join(norm, ","), nil
}

// SpecialValue validates either a plain identifier or an IBM i special value
// such as *ALL, *ALLSIMPLE, or *LIBL.
func SpecialValue(raw, what string) (string, error) {
	v := strings.TrimSpace(raw)
	if strings.HasPrefix(v, "*") {
		if !specialPattern.MatchString(v) {
			return "", &Error{What: what, Value: raw}
		}
		return strings.ToUpper(v), nil
	}
	return Identifier(raw, what)
}

// IFSPath validates an integrated file system path. Paths must be absolute
// and must not smuggle statement separators; they are still always bound as
// parameters, never spliced into SQL text.
func IFSPath(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" || !strings.HasPrefix(v, "/") || strings.ContainsAny(v, ";\x00") {
		return "", &Error{What: "IFS path", Value: raw}
	}
	return v, nil
}

// Limit clamps a requested row limit into [1, max]. It never fails: limits
// are advisory, not security-critical, so out-of-range or non-numeric input
// falls back to def rather than rejecting the call. max itself is clamped to
// HardLimitCeiling.
func Limit(raw any, def, max int) int {
	if max <= 0 || max > HardLimitCeiling {
		max = HardLimitCeiling
	}
	if def < 1 {
		def = 1
	}
	if def > max {
		def = max
	}

	n := def
	switch v := raw.(type) {
	case nil:
		// keep default
	case int:
		n = v
	case int64:
		n = int(v)
	case float64:
		n = int(v)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return def
		}
		n = parsed
	default:
		return def
	}

	if n < 1 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
