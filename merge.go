package treepatch

// Merge combines two differences computed from a common base into one.
//
// If either input is nil the other is returned unchanged. Both inputs must be
// the same kind of difference. When both sides updated (or inserted) the same
// value to different results the ConflictResolution decides: ConflictError
// fails, ConflictRetain keeps a, ConflictReplace keeps b. Mapping differences
// merge key by key. List differences merge position by position; inside a
// list, disagreeing updates and structural clashes between an insert tail and
// a remove tail are always conflicts, whatever the policy. Values both sides
// appended at the same position are kept once if equal, both otherwise.
//
// Every failure is a *MergeConflictError
func Merge(a, b Difference, cr ConflictResolution) (Difference, error) {
	return mergeDiff(a, b, cr, "")
}

func mergeDiff(a, b Difference, cr ConflictResolution, path string) (Difference, error) {
	if a == nil {
		return b, nil
	}
	if b == nil {
		return a, nil
	}

	switch x := a.(type) {
	case DiffMap:
		if y, ok := b.(DiffMap); ok {
			return mergeMaps(x, y, cr, path)
		}
	case DiffList:
		if y, ok := b.(DiffList); ok {
			return mergeLists(x, y, cr, path)
		}
	case Update:
		if y, ok := b.(Update); ok {
			return resolve(a, b, x.New, y.New, cr, path)
		}
	case Insert:
		if y, ok := b.(Insert); ok {
			return resolve(a, b, x.Value, y.Value, cr, path)
		}
	case Remove:
		if _, ok := b.(Remove); ok {
			return a, nil
		}
	}

	return nil, conflict(path, -1, a, b, "incompatible diff shapes")
}

// resolve picks between two changes of the same value
func resolve(a, b Difference, av, bv interface{}, cr ConflictResolution, path string) (Difference, error) {
	if Equal(av, bv) {
		return a, nil
	}
	switch cr {
	case ConflictRetain:
		return a, nil
	case ConflictReplace:
		return b, nil
	}
	return nil, conflict(path, -1, a, b, "both sides changed the value")
}

func mergeMaps(a, b DiffMap, cr ConflictResolution, path string) (DiffMap, error) {
	merged := make(DiffMap, len(a)+len(b))

	for _, key := range a.Keys() {
		m, err := mergeDiff(a[key], b[key], cr, AppendPointer(path, key))
		if err != nil {
			return nil, err
		}
		if m != nil {
			merged[key] = m
		}
	}

	// keys only b touched can't conflict
	for key, d := range b {
		if _, ok := a[key]; !ok && d != nil {
			merged[key] = d
		}
	}

	return merged, nil
}

// mergeLists walks the longer of the two list differences, treating
// positions missing from the shorter one as unchanged. Once a remove is seen
// every later position must be a remove, once an insert is seen every later
// position must be an insert
func mergeLists(x, y DiffList, cr ConflictResolution, path string) (DiffList, error) {
	long, short := x, y
	swapped := len(y.Entries) > len(x.Entries)
	if swapped {
		long, short = y, x
	}
	shortLen := len(short.Entries)

	merged := DiffList{
		Entries:        make([]Difference, 0, len(long.Entries)),
		OriginalLength: x.OriginalLength,
	}

	// fail reports a collision with the pair in argument order
	fail := func(i int, a, b Difference, reason string) (DiffList, error) {
		if swapped {
			a, b = b, a
		}
		return DiffList{}, conflict(appendIndex(path, i), i, a, b, reason)
	}

	var (
		removeFound, insertFound bool
		inserts, removes         int
	)

	for i, a := range long.Entries {
		var b Difference
		if i < shortLen {
			b = short.Entries[i]
		}

		_, aRemove := a.(Remove)
		_, bRemove := b.(Remove)
		_, aInsert := a.(Insert)
		_, bInsert := b.(Insert)

		if aRemove || bRemove {
			if insertFound {
				return fail(i, a, b, "remove after insert")
			}
			removeFound = true
		} else if aInsert || bInsert {
			if removeFound {
				return fail(i, a, b, "insert after remove")
			}
			insertFound = true
		}

		if removeFound {
			if !aRemove || (i < shortLen && !bRemove) {
				return fail(i, a, b, "expected removes only")
			}
			merged.Entries = append(merged.Entries, a)
			removes++
			continue
		}

		if insertFound {
			if !aInsert {
				return fail(i, a, b, "expected inserts only")
			}
			merged.Entries = append(merged.Entries, a)
			inserts++
			if i < shortLen {
				if !bInsert {
					return fail(i, a, b, "expected inserts only")
				}
				// the same value appended by both sides is appended once
				if !Equal(a.(Insert).Value, b.(Insert).Value) {
					merged.Entries = append(merged.Entries, b)
					inserts++
				}
			}
			continue
		}

		if a == nil {
			merged.Entries = append(merged.Entries, b)
			continue
		}
		if b == nil {
			merged.Entries = append(merged.Entries, a)
			continue
		}

		switch av := a.(type) {
		case Update:
			bv, ok := b.(Update)
			if !ok {
				return fail(i, a, b, "incompatible diff shapes")
			}
			if !Equal(av.New, bv.New) {
				return fail(i, a, b, "both sides updated the position to different values")
			}
			merged.Entries = append(merged.Entries, a)
		case DiffMap:
			bv, ok := b.(DiffMap)
			if !ok {
				return fail(i, a, b, "incompatible diff shapes")
			}
			// keep argument order for the policy
			first, second := av, bv
			if swapped {
				first, second = bv, av
			}
			m, err := mergeMaps(first, second, cr, appendIndex(path, i))
			if err != nil {
				return DiffList{}, err
			}
			merged.Entries = append(merged.Entries, m)
		case DiffList:
			bv, ok := b.(DiffList)
			if !ok {
				return fail(i, a, b, "incompatible diff shapes")
			}
			first, second := av, bv
			if swapped {
				first, second = bv, av
			}
			m, err := mergeLists(first, second, cr, appendIndex(path, i))
			if err != nil {
				return DiffList{}, err
			}
			merged.Entries = append(merged.Entries, m)
		default:
			return fail(i, a, b, "incompatible diff shapes")
		}
	}

	merged.NewLength = merged.OriginalLength + inserts - removes
	return merged, nil
}
