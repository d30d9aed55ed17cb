// Package rewrite adapts a statically authored SQL template to the
// capabilities of the connected server: substituting a legacy-equivalent
// template when a required service is absent, and emitting the row-limiting
// clause in the form the server generation supports. Rewrites are pure
// text/parameter transformations; they never change the intent of the
// statement.
package rewrite

import (
	"context"
	"fmt"
	"strings"
)

// LimitSlot marks where a template's row-limiting clause belongs. Templates
// without the slot take no limit.
const LimitSlot = "{{LIMIT}}"

// Template is a statically defined, parameterized read-only statement
// associated with one tool. When RequiredService is absent on the connected
// server, Fallback (if any) is tried; otherwise the rewrite fails with Hint
// attached.
type Template struct {
	ID   string
	Text string

	RequiredSchema  string
	RequiredService string
	Fallback        *Template
	Hint            string
}

// CapabilityError reports a required remote capability that is absent, with
// a remediation hint (upgrade path or alternate tool) for the operator.
type CapabilityError struct {
	Schema  string
	Service string
	Hint    string
}

func (e *CapabilityError) Error() string {
	msg := fmt.Sprintf("required service %s.%s is not available on the connected server", e.Schema, e.Service)
	if e.Hint != "" {
		msg += ": " + e.Hint
	}
	return msg
}

// Resolver answers whether a (schema, service) pair exists, normally backed
// by the service availability cache.
type Resolver func(ctx context.Context, schema, service string) (bool, error)

// Result is the final statement text and ordered bind parameters.
type Result struct {
	SQL        string
	Args       []any
	TemplateID string
	Fallback   bool
}

// Rewriter resolves capability-dependent templates against one server.
type Rewriter struct {
	resolve Resolver

	// paramLimit selects the row-limit dialect. Modern server generations
	// accept a parameter marker in the FETCH clause; older ones require a
	// literal, so the clamped limit is inlined and removed from the bind
	// list.
	paramLimit bool
}

// New creates a Rewriter. paramLimitMarkers should be resolved once at
// startup from the server generation.
func New(resolve Resolver, paramLimitMarkers bool) *Rewriter {
	if resolve == nil {
		panic("rewrite: resolver must not be nil")
	}
	return &Rewriter{resolve: resolve, paramLimit: paramLimitMarkers}
}

// Rewrite produces the final statement for tpl. args are the bind parameters
// excluding the row limit; limit is the already-clamped row limit, applied
// only when the chosen template carries a LimitSlot.
func (r *Rewriter) Rewrite(ctx context.Context, tpl *Template, args []any, limit int) (*Result, error) {
	chosen, fellBack, err := r.choose(ctx, tpl)
	if err != nil {
		return nil, err
	}

	sql := chosen.Text
	out := args
	if strings.Contains(sql, LimitSlot) {
		if r.paramLimit {
			sql = strings.Replace(sql, LimitSlot, "FETCH FIRST ? ROWS ONLY", 1)
			out = append(append([]any{}, args...), limit)
		} else {
			// limit has been clamped to a small positive integer by
			// the validator; inlining it is a dialect workaround,
			// not an interpolation of caller data.
			sql = strings.Replace(sql, LimitSlot, fmt.Sprintf("FETCH FIRST %d ROWS ONLY", limit), 1)
		}
	}

	return &Result{SQL: sql, Args: out, TemplateID: chosen.ID, Fallback: fellBack}, nil
}

// choose walks the fallback chain until it finds a template whose required
// service exists. Depth is bounded by the static template definitions.
func (r *Rewriter) choose(ctx context.Context, tpl *Template) (*Template, bool, error) {
	fellBack := false
	for t := tpl; t != nil; t = t.Fallback {
		if t.RequiredService == "" {
			return t, fellBack, nil
		}
		ok, err := r.resolve(ctx, t.RequiredSchema, t.RequiredService)
		if err != nil {
			return nil, false, err
		}
		if ok {
			return t, fellBack, nil
		}
		fellBack = true
	}
	// Chain exhausted: report the head template's capability with its hint.
	return nil, false, &CapabilityError{
		Schema:  tpl.RequiredSchema,
		Service: tpl.RequiredService,
		Hint:    tpl.Hint,
	}
}
