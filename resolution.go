package treepatch

import (
	"fmt"
	"strings"
)

// ConflictResolution is the policy Merge applies when both sides changed the
// same value to different results
type ConflictResolution int

const (
	// ConflictError fails the merge
	ConflictError ConflictResolution = iota
	// ConflictRetain keeps the change from the first difference
	ConflictRetain
	// ConflictReplace keeps the change from the second difference
	ConflictReplace
)

func (cr ConflictResolution) String() string {
	switch cr {
	case ConflictError:
		return "error"
	case ConflictRetain:
		return "retain"
	case ConflictReplace:
		return "replace"
	}
	return fmt.Sprintf("ConflictResolution(%d)", int(cr))
}

// ParseConflictResolution reads a policy name, ignoring case
func ParseConflictResolution(s string) (ConflictResolution, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return ConflictError, nil
	case "retain":
		return ConflictRetain, nil
	case "replace":
		return ConflictReplace, nil
	}
	return ConflictError, fmt.Errorf("unknown conflict resolution %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (cr ConflictResolution) MarshalText() ([]byte, error) {
	switch cr {
	case ConflictError, ConflictRetain, ConflictReplace:
		return []byte(cr.String()), nil
	}
	return nil, fmt.Errorf("invalid conflict resolution %d", int(cr))
}

// UnmarshalText implements encoding.TextUnmarshaler
func (cr *ConflictResolution) UnmarshalText(text []byte) error {
	parsed, err := ParseConflictResolution(string(text))
	if err != nil {
		return err
	}
	*cr = parsed
	return nil
}
