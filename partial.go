package treepatch

// DiffOfPartialUpdate computes the difference a partial document (a PATCH
// body) makes to a stored mapping. Keys the partial document doesn't mention
// are left alone:
//
//	partial value null, key stored     -> Remove
//	stored value missing or null       -> Insert
//	both mappings and recursive        -> nested partial diff
//	otherwise, if the values differ    -> Update
//
// Ignore options apply as they do for Diff. The result is nil when the
// partial document changes nothing
func DiffOfPartialUpdate(stored, partial map[string]interface{}, recursive bool, opts ...DiffOption) (DiffMap, error) {
	cfg := newConfig(opts)
	d := &differ{cfg: cfg}

	dm, err := d.partial(stored, partial, "", 0, recursive)
	if err != nil {
		return nil, err
	}

	if cfg.Stats != nil {
		cfg.Stats.Left += countNodes(stored)
		cfg.Stats.Right += countNodes(partial)
		if dm != nil {
			cfg.Stats.add(dm)
		}
	}
	return dm, nil
}

func (d *differ) partial(stored, partial map[string]interface{}, path string, depth int, recursive bool) (DiffMap, error) {
	if err := d.cfg.checkDepth(path, depth); err != nil {
		return nil, err
	}

	dm := DiffMap{}
	for key, pv := range partial {
		if d.cfg.ignored(path, key) {
			continue
		}
		p := AppendPointer(path, key)
		if KindOf(pv) == KindUnknown {
			return nil, mismatch(p, pv, nil, "unsupported partial value")
		}

		sv, exists := stored[key]
		if KindOf(sv) == KindUnknown {
			return nil, mismatch(p, sv, nil, "unsupported stored value")
		}

		switch {
		case pv == nil:
			if exists {
				dm[key] = Remove{Value: sv}
			}
		case sv == nil:
			dm[key] = Insert{Value: pv}
		default:
			sm, sok := sv.(map[string]interface{})
			pm, pok := pv.(map[string]interface{})
			if recursive && sok && pok {
				ch, err := d.partial(sm, pm, p, depth+1, true)
				if err != nil {
					return nil, err
				}
				if ch != nil {
					dm[key] = ch
				}
				continue
			}

			ch, err := d.diff(sv, pv, p, depth+1, false)
			if err != nil {
				return nil, err
			}
			if ch != nil {
				dm[key] = Update{Old: sv, New: pv}
			}
		}
	}

	if len(dm) == 0 {
		return nil, nil
	}
	return dm, nil
}
