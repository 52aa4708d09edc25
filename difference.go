package treepatch

import (
	"fmt"
	"sort"
)

// Operation names the kind of change a Difference describes
type Operation string

const (
	// OpContext marks a container whose children changed
	OpContext = Operation(" ")
	// OpInsert is a value that exists in the target but not the source
	OpInsert = Operation("+")
	// OpRemove is a value that existed in the source but not the target
	OpRemove = Operation("-")
	// OpUpdate is a value changed in place
	OpUpdate = Operation("~")
)

// Difference describes a change between a source & target tree. The set of
// implementations is closed: Insert, Remove, Update, DiffMap and DiffList.
// A nil Difference means "no difference"
type Difference interface {
	// Op reports the kind of change
	Op() Operation
	isDifference()
}

// Insert is a value present in the target but not in the source
type Insert struct {
	Value interface{}
}

// Remove is a value present in the source but not in the target
type Remove struct {
	Value interface{}
}

// Update replaces Old with New
type Update struct {
	Old interface{}
	New interface{}
}

// DiffMap holds the differences of a mapping, keyed by the keys whose values
// differ between source and target
type DiffMap map[string]Difference

// DiffList holds per-position differences of a sequence. A nil entry means
// the position is unchanged. Insert and Remove entries only ever occur past
// min(OriginalLength, NewLength)
type DiffList struct {
	Entries        []Difference
	OriginalLength int
	NewLength      int
}

func (Insert) Op() Operation   { return OpInsert }
func (Remove) Op() Operation   { return OpRemove }
func (Update) Op() Operation   { return OpUpdate }
func (DiffMap) Op() Operation  { return OpContext }
func (DiffList) Op() Operation { return OpContext }

func (Insert) isDifference()   {}
func (Remove) isDifference()   {}
func (Update) isDifference()   {}
func (DiffMap) isDifference()  {}
func (DiffList) isDifference() {}

// NewValue returns the value a difference leaves behind, nil for removals
// and containers
func NewValue(d Difference) interface{} {
	switch x := d.(type) {
	case Insert:
		return x.Value
	case Update:
		return x.New
	}
	return nil
}

// Keys returns the keys of a DiffMap in sorted order
func (m DiffMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks the tail invariant of a list difference: positions inside
// the common prefix carry no Insert or Remove, every position past it is an
// Insert when the list grew or a Remove when it shrank, and the entry count
// matches the longer of the two lengths
func (l DiffList) Validate() error {
	prefix, longest := l.OriginalLength, l.NewLength
	if prefix > longest {
		prefix, longest = longest, prefix
	}
	if prefix < 0 {
		return fmt.Errorf("negative list length")
	}
	if len(l.Entries) != longest {
		return fmt.Errorf("list diff has %d entries, expected %d (original %d, new %d)", len(l.Entries), longest, l.OriginalLength, l.NewLength)
	}

	for i, d := range l.Entries {
		_, isInsert := d.(Insert)
		_, isRemove := d.(Remove)
		if i < prefix {
			if isInsert || isRemove {
				return fmt.Errorf("%s at index %d is inside the common prefix of length %d", d.Op(), i, prefix)
			}
			continue
		}
		if l.NewLength > l.OriginalLength && !isInsert {
			return fmt.Errorf("expected insert at tail index %d, got %s", i, describe(d))
		}
		if l.OriginalLength > l.NewLength && !isRemove {
			return fmt.Errorf("expected remove at tail index %d, got %s", i, describe(d))
		}
	}
	return nil
}

func describe(d Difference) string {
	switch x := d.(type) {
	case nil:
		return "unchanged"
	case Insert:
		return fmt.Sprintf("insert(%v)", x.Value)
	case Remove:
		return fmt.Sprintf("remove(%v)", x.Value)
	case Update:
		return fmt.Sprintf("update(%v -> %v)", x.Old, x.New)
	case DiffMap:
		return fmt.Sprintf("map diff of %d keys", len(x))
	case DiffList:
		return fmt.Sprintf("list diff %d -> %d", x.OriginalLength, x.NewLength)
	}
	return fmt.Sprintf("%T", d)
}
