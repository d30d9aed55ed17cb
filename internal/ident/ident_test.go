package ident

import (
	"errors"
	"strings"
	"testing"
)

func TestIdentifierAccepts(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want string
	}{
		{"QSYS2", "QSYS2"},
		{"qgpl", "QGPL"},
		{"  prodlib  ", "PRODLIB"},
		{"ORDER_HDR", "ORDER_HDR"},
		{"A$#@_1", "A$#@_1"},
		{strings.Repeat("A", 128), strings.Repeat("A", 128)},
	}
	for _, tc := range cases {
		got, err := Identifier(tc.in, "identifier")
		if err != nil {
			t.Fatalf("Identifier(%q) unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("Identifier(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIdentifierRejects(t *testing.T) {
	t.Parallel()
	cases := []string{
		"",
		"   ",
		strings.Repeat("A", 129),
		"MY TABLE",
		"MY-TABLE",
		`MY"TABLE`,
		"TBL;DROP",
		"TBL'--",
		"SCHEMA.TABLE",
	}
	for _, in := range cases {
		_, err := Identifier(in, "table")
		if err == nil {
			t.Fatalf("Identifier(%q) expected error, got nil", in)
		}
		var ie *Error
		if !errors.As(err, &ie) {
			t.Fatalf("Identifier(%q) error is %T, want *ident.Error", in, err)
		}
		if ie.What != "table" {
			t.Fatalf("Identifier(%q) error names %q, want %q", in, ie.What, "table")
		}
	}
}

func TestIdentifierList(t *testing.T) {
	t.Parallel()
	got, err := IdentifierList("qbatch, QINTER ,qSERVER", "subsystem list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "QBATCH,QINTER,QSERVER" {
		t.Fatalf("got %q", got)
	}
}

func TestIdentifierListEmpty(t *testing.T) {
	t.Parallel()
	got, err := IdentifierList("  ", "user list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}

func TestIdentifierListReportsFailedElement(t *testing.T) {
	t.Parallel()
	_, err := IdentifierList("QBATCH,BAD NAME,QINTER", "subsystem list")
	if err == nil {
		t.Fatal("expected error")
	}
	var ie *Error
	if !errors.As(err, &ie) {
		t.Fatalf("error is %T, want *ident.Error", err)
	}
	if ie.Pos != 2 {
		t.Fatalf("failed element position = %d, want 2", ie.Pos)
	}
	if ie.Value != "BAD NAME" {
		t.Fatalf("failed element value = %q", ie.Value)
	}
}

func TestSpecialValue(t *testing.T) {
	t.Parallel()
	got, err := SpecialValue("*allsimple", "library")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "*ALLSIMPLE" {
		t.Fatalf("got %q", got)
	}

	if _, err := SpecialValue("*BAD VALUE", "library"); err == nil {
		t.Fatal("expected error for special value with space")
	}

	got, err = SpecialValue("mylib", "library")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "MYLIB" {
		t.Fatalf("got %q", got)
	}
}

func TestIFSPath(t *testing.T) {
	t.Parallel()
	if _, err := IFSPath("/home/pdf"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, bad := range []string{"", "home/pdf", "/tmp;rm", "relative"} {
		if _, err := IFSPath(bad); err == nil {
			t.Fatalf("IFSPath(%q) expected error", bad)
		}
	}
}

func TestLimitClamping(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		in   any
		def  int
		max  int
		want int
	}{
		{"negative falls back to default", -5, 10, 10000, 10},
		{"zero falls back to default", 0, 10, 10000, 10},
		{"non-numeric string falls back to default", "abc", 10, 10000, 10},
		{"over-max clamps down", 999999, 10, 10000, 10000},
		{"in-range passes through", 500, 10, 10000, 500},
		{"numeric string accepted", "250", 10, 10000, 250},
		{"float from JSON decoding accepted", float64(42), 10, 10000, 42},
		{"nil keeps default", nil, 50, 500, 50},
		{"tool max respected", 900, 10, 200, 200},
		{"tool max above ceiling clamps to ceiling", 99999, 10, 50000, 10000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Limit(tc.in, tc.def, tc.max)
			if got != tc.want {
				t.Fatalf("Limit(%v, %d, %d) = %d, want %d", tc.in, tc.def, tc.max, got, tc.want)
			}
			if got < 1 || got > HardLimitCeiling {
				t.Fatalf("Limit(%v) = %d escaped [1, %d]", tc.in, got, HardLimitCeiling)
			}
		})
	}
}
