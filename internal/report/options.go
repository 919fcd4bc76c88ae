package report

import (
	"fmt"

	lperrors "github.com/schubergphilis/lastpassreportingcli/internal/errors"
)

// Scope selects which part of the vault a report covers.
type Scope int

const (
	// ScopeAll reports personal and shared folders, one table each.
	ScopeAll Scope = iota

	// ScopePersonal reports only folders of the private vault.
	ScopePersonal

	// ScopeShared reports only shared folders.
	ScopeShared
)

// ParseScope maps a flag value to a Scope.
func ParseScope(name string) (Scope, error) {
	switch name {
	case "all":
		return ScopeAll, nil
	case "personal":
		return ScopePersonal, nil
	case "shared":
		return ScopeShared, nil
	}
	return ScopeAll, lperrors.UserError{
		Message:    fmt.Sprintf("invalid report scope '%s'", name),
		Suggestion: "Choose one of: all, personal, shared",
	}
}

func (s Scope) String() string {
	switch s {
	case ScopePersonal:
		return "personal"
	case ScopeShared:
		return "shared"
	default:
		return "all"
	}
}

// SortKey selects the column report tables are ordered by.
type SortKey int

const (
	// SortByName orders rows by folder full path.
	SortByName SortKey = iota

	// SortByPercentage orders rows by rotation progress.
	SortByPercentage
)

// ParseSortKey maps a flag value to a SortKey.
func ParseSortKey(name string) (SortKey, error) {
	switch name {
	case "name":
		return SortByName, nil
	case "percentage":
		return SortByPercentage, nil
	}
	return SortByName, lperrors.UserError{
		Message:    fmt.Sprintf("invalid sort key '%s'", name),
		Suggestion: "Choose one of: name, percentage",
	}
}

func (k SortKey) String() string {
	if k == SortByPercentage {
		return "percentage"
	}
	return "name"
}

// Format selects how a report is written out.
type Format int

const (
	// FormatTable renders human-readable tables with a summary line.
	FormatTable Format = iota

	// FormatJSON writes the folder snapshots and summary as one JSON
	// document.
	FormatJSON

	// FormatYAML writes the same document as YAML.
	FormatYAML
)

// ParseFormat maps a flag value to a Format.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "table":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "yaml":
		return FormatYAML, nil
	}
	return FormatTable, lperrors.UserError{
		Message:    fmt.Sprintf("invalid report format '%s'", name),
		Suggestion: "Choose one of: table, json, yaml",
	}
}

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "table"
	}
}
