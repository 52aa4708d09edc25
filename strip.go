package treepatch

// WithoutRemoves returns d with every Remove dropped, so that applying it
// only ever adds or changes values. Removed list tail positions become
// unchanged positions and the list keeps its original length. Containers left
// without changes collapse to nil
func WithoutRemoves(d Difference) Difference {
	switch x := d.(type) {
	case Remove:
		return nil
	case DiffMap:
		out := DiffMap{}
		for key, ch := range x {
			if s := WithoutRemoves(ch); s != nil {
				out[key] = s
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case DiffList:
		out := DiffList{
			Entries:        make([]Difference, len(x.Entries)),
			OriginalLength: x.OriginalLength,
			NewLength:      x.NewLength,
		}
		if out.NewLength < out.OriginalLength {
			out.NewLength = out.OriginalLength
		}
		changed := false
		for i, ch := range x.Entries {
			if s := WithoutRemoves(ch); s != nil {
				out.Entries[i] = s
				changed = true
			}
		}
		if !changed {
			return nil
		}
		return out
	}
	return d
}
