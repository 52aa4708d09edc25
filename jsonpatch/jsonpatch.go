// Package jsonpatch converts tree differences into RFC 6902 JSON Patch
// operations, the format change history is recorded in, and applies them to
// encoded documents
package jsonpatch

import (
	"encoding/json"
	"fmt"

	evanjp "github.com/evanphx/json-patch/v5"

	"github.com/xyzhub/treepatch"
)

// JSON Patch operation names
const (
	OpAdd     = "add"
	OpRemove  = "remove"
	OpReplace = "replace"
)

// Operation is a single RFC 6902 operation
type Operation struct {
	Op    string
	Path  string
	Value interface{}
}

// MarshalJSON encodes the operation, always writing "value" except for
// removals so that a null value survives
func (o Operation) MarshalJSON() ([]byte, error) {
	if o.Op == OpRemove {
		return json.Marshal(struct {
			Op   string `json:"op"`
			Path string `json:"path"`
		}{o.Op, o.Path})
	}
	return json.Marshal(struct {
		Op    string      `json:"op"`
		Path  string      `json:"path"`
		Value interface{} `json:"value"`
	}{o.Op, o.Path, o.Value})
}

// Operations lists the JSON Patch operations that carry out d. Mapping keys
// are visited in sorted order. In a list, replacements, removals and nested
// changes run from the highest index down, then the insert tail is added in
// ascending order, so the operations can be applied one after another
func Operations(d treepatch.Difference) ([]Operation, error) {
	return appendOps(nil, "", d)
}

func appendOps(ops []Operation, path string, d treepatch.Difference) ([]Operation, error) {
	switch x := d.(type) {
	case nil:
		return ops, nil
	case treepatch.Insert:
		return append(ops, Operation{Op: OpAdd, Path: path, Value: x.Value}), nil
	case treepatch.Update:
		return append(ops, Operation{Op: OpReplace, Path: path, Value: x.New}), nil
	case treepatch.Remove:
		return append(ops, Operation{Op: OpRemove, Path: path}), nil
	case treepatch.DiffMap:
		var err error
		for _, key := range x.Keys() {
			if ops, err = appendOps(ops, treepatch.AppendPointer(path, key), x[key]); err != nil {
				return nil, err
			}
		}
		return ops, nil
	case treepatch.DiffList:
		if err := x.Validate(); err != nil {
			return nil, fmt.Errorf("invalid list difference at %q: %w", path, err)
		}
		var err error
		for i := len(x.Entries) - 1; i >= 0; i-- {
			if _, ok := x.Entries[i].(treepatch.Insert); ok {
				continue
			}
			if ops, err = appendOps(ops, fmt.Sprintf("%s/%d", path, i), x.Entries[i]); err != nil {
				return nil, err
			}
		}
		for i, e := range x.Entries {
			if ins, ok := e.(treepatch.Insert); ok {
				ops = append(ops, Operation{Op: OpAdd, Path: fmt.Sprintf("%s/%d", path, i), Value: ins.Value})
			}
		}
		return ops, nil
	}
	return nil, fmt.Errorf("unknown difference %T", d)
}

// FromDifference builds an evanphx/json-patch Patch from d
func FromDifference(d treepatch.Difference) (evanjp.Patch, error) {
	ops, err := Operations(d)
	if err != nil {
		return nil, err
	}
	if len(ops) == 0 {
		return evanjp.Patch{}, nil
	}
	data, err := json.Marshal(ops)
	if err != nil {
		return nil, fmt.Errorf("encoding operations: %w", err)
	}
	p, err := evanjp.DecodePatch(data)
	if err != nil {
		return nil, fmt.Errorf("cannot decode patch: %w", err)
	}
	return p, nil
}

// Apply applies d to an encoded JSON document and returns the result. A
// difference that replaces the whole document returns the new document
func Apply(doc []byte, d treepatch.Difference) ([]byte, error) {
	switch x := d.(type) {
	case nil:
		return doc, nil
	case treepatch.Insert:
		return json.Marshal(x.Value)
	case treepatch.Update:
		return json.Marshal(x.New)
	case treepatch.Remove:
		return []byte("null"), nil
	}

	p, err := FromDifference(d)
	if err != nil {
		return nil, err
	}
	out, err := p.Apply(doc)
	if err != nil {
		return nil, fmt.Errorf("applying patch: %w", err)
	}
	return out, nil
}

// MergePatch applies an RFC 7386 merge patch to a stored document
func MergePatch(stored, partial []byte) ([]byte, error) {
	out, err := evanjp.MergePatch(stored, partial)
	if err != nil {
		return nil, fmt.Errorf("merge patch: %w", err)
	}
	return out, nil
}
