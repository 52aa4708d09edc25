package modify

import (
	"fmt"
	"strings"
)

// IfExists is what to do with an entry whose record is already stored
type IfExists int

const (
	// IfExistsRetain keeps the stored record
	IfExistsRetain IfExists = iota
	// IfExistsError fails with ErrExists
	IfExistsError
	// IfExistsDelete deletes the stored record
	IfExistsDelete
	// IfExistsReplace replaces the stored record with the input
	IfExistsReplace
	// IfExistsPatch treats the input as a partial update
	IfExistsPatch
	// IfExistsMerge three-way merges the input into the stored record
	IfExistsMerge
)

var ifExistsNames = []string{"retain", "error", "delete", "replace", "patch", "merge"}

func (ie IfExists) String() string {
	if ie < 0 || int(ie) >= len(ifExistsNames) {
		return fmt.Sprintf("IfExists(%d)", int(ie))
	}
	return ifExistsNames[ie]
}

// ParseIfExists reads a policy name, ignoring case
func ParseIfExists(s string) (IfExists, error) {
	i, err := parse(s, ifExistsNames)
	if err != nil {
		return IfExistsRetain, fmt.Errorf("unknown ifExists policy %q", s)
	}
	return IfExists(i), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (ie *IfExists) UnmarshalText(text []byte) error {
	v, err := ParseIfExists(string(text))
	if err != nil {
		return err
	}
	*ie = v
	return nil
}

// IfNotExists is what to do with an entry that has no stored record
type IfNotExists int

const (
	// IfNotExistsRetain does nothing
	IfNotExistsRetain IfNotExists = iota
	// IfNotExistsError fails with ErrNotExists
	IfNotExistsError
	// IfNotExistsCreate stores the input as a new record
	IfNotExistsCreate
)

var ifNotExistsNames = []string{"retain", "error", "create"}

func (ine IfNotExists) String() string {
	if ine < 0 || int(ine) >= len(ifNotExistsNames) {
		return fmt.Sprintf("IfNotExists(%d)", int(ine))
	}
	return ifNotExistsNames[ine]
}

// ParseIfNotExists reads a policy name, ignoring case
func ParseIfNotExists(s string) (IfNotExists, error) {
	i, err := parse(s, ifNotExistsNames)
	if err != nil {
		return IfNotExistsRetain, fmt.Errorf("unknown ifNotExists policy %q", s)
	}
	return IfNotExists(i), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (ine *IfNotExists) UnmarshalText(text []byte) error {
	v, err := ParseIfNotExists(string(text))
	if err != nil {
		return err
	}
	*ine = v
	return nil
}

func parse(s string, names []string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("not found")
}

// Action is the write an entry results in
type Action int

const (
	// ActionNone leaves storage untouched
	ActionNone Action = iota
	// ActionCreate stores a new record
	ActionCreate
	// ActionUpdate overwrites the stored record
	ActionUpdate
	// ActionDelete removes the stored record
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}
