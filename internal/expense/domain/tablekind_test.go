package domain

import (
	"errors"
	"testing"
)

func TestParseTableKind(t *testing.T) {
	cases := []struct {
		raw   string
		kind  TableKind
		short string
	}{
		{"expenses", TableKindExpenses, "expenses"},
		{"project_expenses", TableKindProjectActual, "project_actual"},
		{"project_expenses_quote", TableKindProjectPlanned, "project_planned"},
		{" project_expenses ", TableKindProjectActual, "project_actual"},
	}
	for _, tc := range cases {
		kind, err := ParseTableKind(tc.raw)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.raw, err)
		}
		if kind != tc.kind {
			t.Fatalf("expected %q, got %q", tc.kind, kind)
		}
		if kind.Short() != tc.short {
			t.Fatalf("expected short %q, got %q", tc.short, kind.Short())
		}
	}
}

func TestParseTableKindRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "invoices", "EXPENSES", "project-expenses"} {
		if _, err := ParseTableKind(raw); !errors.Is(err, ErrInvalidTableKind) {
			t.Fatalf("expected ErrInvalidTableKind for %q, got %v", raw, err)
		}
	}
}
