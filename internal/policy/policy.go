// Package policy decides whether a resolved schema may be touched by a tool
// of a given category. The allow-lists are fixed when the policy is built and
// never mutate afterward, so admission checks need no locking.
package policy

import (
	"fmt"
	"sort"
	"strings"
)

// Category classifies a tool by the kind of access it performs.
type Category string

const (
	// CategorySystem covers introspection of the trusted system catalogs.
	CategorySystem Category = "system-introspection"
	// CategoryBusiness covers access to user/business schemas; every
	// invocation in this category is audited regardless of outcome.
	CategoryBusiness Category = "business-data"
	// CategoryAction covers write-capable tools, disabled unless opted in
	// at process start.
	CategoryAction Category = "action"
)

// TrustedCatalogSchemas are the system schemas introspection tools may
// target. These ship with the operating system and hold no business data.
var TrustedCatalogSchemas = []string{"QSYS2", "SYSTOOLS", "SYSIBM", "QSYS", "INFORMATION_SCHEMA"}

// SchemaError is a policy denial naming the missing configuration, so the
// calling agent can explain it rather than report a generic failure.
type SchemaError struct {
	Schema   string
	Category Category
	Allowed  []string
}

func (e *SchemaError) Error() string {
	if e.Category == CategoryBusiness && len(e.Allowed) == 0 {
		return fmt.Sprintf("schema %s not allowed: no business schemas are configured (set the business schema allow-list to enable business-data tools)", e.Schema)
	}
	return fmt.Sprintf("schema %s not allowed for %s tools (allowed: %s)", e.Schema, e.Category, strings.Join(e.Allowed, ", "))
}

// ActionsError is returned for any action-category request while the action
// opt-in flag is off. It is raised before parameter validation even begins.
type ActionsError struct{}

func (e *ActionsError) Error() string {
	return "action tools are disabled: enable the action-tool flag at startup to allow write-capable tools"
}

// Policy holds the immutable admission rules.
type Policy struct {
	system   map[string]bool
	business map[string]bool

	businessList []string
	actionsOn    bool
}

// New builds a Policy. businessSchemas is the operator-supplied allow-list
// for business-data tools; empty means the entire business category is
// disabled. enableActions gates write-capable tools.
func New(businessSchemas []string, enableActions bool) *Policy {
	p := &Policy{
		system:    make(map[string]bool, len(TrustedCatalogSchemas)),
		business:  make(map[string]bool, len(businessSchemas)),
		actionsOn: enableActions,
	}
	for _, s := range TrustedCatalogSchemas {
		p.system[s] = true
	}
	for _, s := range businessSchemas {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || p.business[s] {
			continue
		}
		p.business[s] = true
		p.businessList = append(p.businessList, s)
	}
	sort.Strings(p.businessList)
	return p
}

// Admit decides whether a tool of the given category may target schema.
// schema must already be a validated identifier.
func (p *Policy) Admit(schema string, category Category) error {
	switch category {
	case CategorySystem:
		if !p.system[schema] {
			return &SchemaError{Schema: schema, Category: category, Allowed: TrustedCatalogSchemas}
		}
	case CategoryBusiness:
		if !p.business[schema] {
			return &SchemaError{Schema: schema, Category: category, Allowed: p.businessList}
		}
	case CategoryAction:
		if !p.actionsOn {
			return &ActionsError{}
		}
	default:
		return fmt.Errorf("unknown tool category %q", category)
	}
	return nil
}

// ActionsEnabled reports the action-tool opt-in state.
func (p *Policy) ActionsEnabled() bool { return p.actionsOn }

// BusinessSchemas returns the configured business allow-list, sorted.
func (p *Policy) BusinessSchemas() []string { return p.businessList }

// AllowedSchemas returns every schema admissible for read tools: the trusted
// catalogs plus the business allow-list. Used to seed the statement guard's
// qualified-reference scan.
func (p *Policy) AllowedSchemas() []string {
	out := append([]string{}, TrustedCatalogSchemas...)
	out = append(out, p.businessList...)
	return out
}
