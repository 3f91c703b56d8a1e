package domain

import (
	"errors"
	"strings"
)

// TableKind discriminates the three expense tables a snapshot can target.
type TableKind string

const (
	// TableKindExpenses targets company-level expenses.
	TableKindExpenses TableKind = "expenses"
	// TableKindProjectActual targets recorded project expenses.
	TableKindProjectActual TableKind = "project_expenses"
	// TableKindProjectPlanned targets quoted (planned) project expenses.
	TableKindProjectPlanned TableKind = "project_expenses_quote"
)

var ErrInvalidTableKind = errors.New("invalid_table_name")

// ParseTableKind translates a caller-supplied table name into a TableKind.
// Unknown values are rejected at this single boundary point.
func ParseTableKind(raw string) (TableKind, error) {
	switch TableKind(strings.TrimSpace(raw)) {
	case TableKindExpenses:
		return TableKindExpenses, nil
	case TableKindProjectActual:
		return TableKindProjectActual, nil
	case TableKindProjectPlanned:
		return TableKindProjectPlanned, nil
	default:
		return "", ErrInvalidTableKind
	}
}

// Table returns the backing table name for the kind.
func (k TableKind) Table() string { return string(k) }

// Short returns the snapshot-type tag stored alongside each snapshot.
func (k TableKind) Short() string {
	switch k {
	case TableKindProjectActual:
		return "project_actual"
	case TableKindProjectPlanned:
		return "project_planned"
	default:
		return "expenses"
	}
}
