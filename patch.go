package treepatch

import (
	"fmt"
)

// Patch applies a difference to a value tree.
//
// target may be a map[string]interface{} (changed in place), or a pointer to a
// map[string]interface{}, []interface{} or interface{}. Through an
// *interface{} a top level Insert or Update replaces the value and a Remove
// sets it to nil. A DiffMap only applies to a mapping and a DiffList only to a
// sequence, anything else is a *TypeMismatchError.
//
// List differences are checked before they're applied: unchanged (nil)
// positions are skipped, updates, removes & nested changes are applied from
// the highest index down, and the insert tail is appended in order
func Patch(target interface{}, d Difference) error {
	if d == nil {
		return nil
	}

	switch t := target.(type) {
	case map[string]interface{}:
		dm, ok := d.(DiffMap)
		if !ok {
			return mismatch("", t, d, fmt.Sprintf("can't apply %s to a mapping", describe(d)))
		}
		if t == nil {
			return mismatch("", t, d, "can't patch a nil mapping in place")
		}
		return patchMap(t, dm, "")
	case *map[string]interface{}:
		if t == nil {
			return mismatch("", t, d, "nil pointer")
		}
		dm, ok := d.(DiffMap)
		if !ok {
			return mismatch("", *t, d, fmt.Sprintf("can't apply %s to a mapping", describe(d)))
		}
		if *t == nil {
			*t = map[string]interface{}{}
		}
		return patchMap(*t, dm, "")
	case *[]interface{}:
		if t == nil {
			return mismatch("", t, d, "nil pointer")
		}
		dl, ok := d.(DiffList)
		if !ok {
			return mismatch("", *t, d, fmt.Sprintf("can't apply %s to a sequence", describe(d)))
		}
		l, err := patchList(*t, dl, "")
		if err != nil {
			return err
		}
		*t = l
		return nil
	case *interface{}:
		if t == nil {
			return mismatch("", t, d, "nil pointer")
		}
		v, err := patchValue(*t, d, "")
		if err != nil {
			return err
		}
		*t = v
		return nil
	}

	return mismatch("", target, d, "unsupported patch target")
}

// patchValue returns v with d applied. mappings are changed in place,
// sequences may be reallocated
func patchValue(v interface{}, d Difference, path string) (interface{}, error) {
	switch x := d.(type) {
	case nil:
		return v, nil
	case Insert:
		return x.Value, nil
	case Update:
		return x.New, nil
	case Remove:
		return nil, nil
	case DiffMap:
		m, ok := v.(map[string]interface{})
		if !ok || m == nil {
			return nil, mismatch(path, v, d, "map diff needs a mapping")
		}
		return m, patchMap(m, x, path)
	case DiffList:
		l, ok := v.([]interface{})
		if !ok {
			return nil, mismatch(path, v, d, "list diff needs a sequence")
		}
		return patchList(l, x, path)
	}
	return nil, mismatch(path, v, d, "unknown difference")
}

func patchMap(m map[string]interface{}, dm DiffMap, path string) error {
	for _, key := range dm.Keys() {
		switch x := dm[key].(type) {
		case nil:
			continue
		case Insert:
			m[key] = x.Value
		case Update:
			m[key] = x.New
		case Remove:
			delete(m, key)
		default:
			p := AppendPointer(path, key)
			cur, ok := m[key]
			if !ok {
				return mismatch(p, nil, x, "nested diff for a missing key")
			}
			v, err := patchValue(cur, x, p)
			if err != nil {
				return err
			}
			m[key] = v
		}
	}
	return nil
}

func patchList(l []interface{}, dl DiffList, path string) ([]interface{}, error) {
	if err := dl.Validate(); err != nil {
		return nil, mismatch(path, l, dl, err.Error())
	}
	if len(l) != dl.OriginalLength {
		return nil, mismatch(path, l, dl, fmt.Sprintf("sequence has %d elements, diff expects %d", len(l), dl.OriginalLength))
	}

	out := make([]interface{}, len(l), max(len(l), dl.NewLength))
	copy(out, l)

	for i := len(dl.Entries) - 1; i >= 0; i-- {
		switch x := dl.Entries[i].(type) {
		case nil, Insert:
			continue
		case Remove:
			out = append(out[:i], out[i+1:]...)
		case Update:
			out[i] = x.New
		default:
			v, err := patchValue(out[i], x, appendIndex(path, i))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
	}

	for _, d := range dl.Entries {
		if ins, ok := d.(Insert); ok {
			out = append(out, ins.Value)
		}
	}
	return out, nil
}
