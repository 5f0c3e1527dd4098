package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingColumns is returned when the header lacks one of the required columns
var ErrMissingColumns = errors.New("required columns missing")

// ColumnRole identifies a header column by meaning rather than position
type ColumnRole string

// Column roles
const (
	OccupationColumn ColumnRole = "occupation"
	StatusColumn     ColumnRole = "status"
	StateColumn      ColumnRole = "work state"
)

// ColumnRoles lists every role a petition header must provide
var ColumnRoles = []ColumnRole{OccupationColumn, StatusColumn, StateColumn}

// ColumnMap holds the resolved index of each role. A role absent from the map
// is unresolved, so index 0 is a valid position.
type ColumnMap map[ColumnRole]int

// Index returns the resolved index of role and whether it was found
func (m ColumnMap) Index(role ColumnRole) (int, bool) {
	idx, ok := m[role]
	return idx, ok
}

// MaxIndex returns the highest resolved index, or -1 for an empty map
func (m ColumnMap) MaxIndex() int {
	maxIndex := -1
	for _, idx := range m {
		if idx > maxIndex {
			maxIndex = idx
		}
	}
	return maxIndex
}

// Validate checks that every required role is resolved
func (m ColumnMap) Validate() error {
	var missing []string
	for _, role := range ColumnRoles {
		if _, ok := m[role]; !ok {
			missing = append(missing, string(role))
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s (the file needs the SOC name, the status and the work state of each application)",
			ErrMissingColumns, strings.Join(missing, ", "))
	}

	return nil
}

// Record extracts the normalized petition record from a data row.
// The row must be longer than MaxIndex.
func (m ColumnMap) Record(row []string) PetitionRecord {
	return NewPetitionRecord(row[m[OccupationColumn]], row[m[StatusColumn]], row[m[StateColumn]])
}
