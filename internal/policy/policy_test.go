package policy

import (
	"errors"
	"testing"
)

func TestSystemSchemasAdmitted(t *testing.T) {
	t.Parallel()
	p := New(nil, false)
	for _, s := range TrustedCatalogSchemas {
		if err := p.Admit(s, CategorySystem); err != nil {
			t.Fatalf("Admit(%s, system) unexpected denial: %v", s, err)
		}
	}
	if err := p.Admit("PRODDATA", CategorySystem); err == nil {
		t.Fatal("non-catalog schema admitted for system tools")
	}
}

func TestBusinessAllowList(t *testing.T) {
	t.Parallel()
	p := New([]string{"proddata", " ordlib "}, false)

	if err := p.Admit("PRODDATA", CategoryBusiness); err != nil {
		t.Fatalf("allow-listed schema denied: %v", err)
	}
	if err := p.Admit("ORDLIB", CategoryBusiness); err != nil {
		t.Fatalf("allow-listed schema denied: %v", err)
	}

	err := p.Admit("PAYROLL", CategoryBusiness)
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("error is %T, want *SchemaError", err)
	}
	if se.Schema != "PAYROLL" {
		t.Fatalf("denial names %q", se.Schema)
	}
}

func TestEmptyAllowListDisablesBusinessTools(t *testing.T) {
	t.Parallel()
	p := New(nil, false)
	// Identical call that would succeed with PRODDATA configured fails
	// when the allow-list is empty, regardless of input.
	err := p.Admit("PRODDATA", CategoryBusiness)
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("error is %T, want *SchemaError", err)
	}
	if len(se.Allowed) != 0 {
		t.Fatalf("Allowed = %v, want empty", se.Allowed)
	}
}

func TestActionsGate(t *testing.T) {
	t.Parallel()
	off := New(nil, false)
	err := off.Admit("", CategoryAction)
	var ae *ActionsError
	if !errors.As(err, &ae) {
		t.Fatalf("error is %T, want *ActionsError", err)
	}

	on := New(nil, true)
	if err := on.Admit("", CategoryAction); err != nil {
		t.Fatalf("actions enabled but denied: %v", err)
	}
}

func TestAllowedSchemasFeedsGuard(t *testing.T) {
	t.Parallel()
	p := New([]string{"PRODDATA"}, false)
	got := p.AllowedSchemas()
	want := len(TrustedCatalogSchemas) + 1
	if len(got) != want {
		t.Fatalf("AllowedSchemas() has %d entries, want %d", len(got), want)
	}
}
