// Package treepatch is a structural differ, three-way merger and patcher for
// semi-structured tree data. It's intended to reconcile concurrent edits to
// stored records (features in a feature-storage hub) and to implement
// partial-update ("PATCH") semantics.
//
// Instead of operating on encoded JSON, treepatch operates on document trees
// consisting of the go types created by unmarshaling from JSON or YAML, which
// are two complex types:
//   map[string]interface{}
//   []interface{}
// and the scalar types:
//   string, bool, nil, float32, float64, json.Number and every integer width
//
// The package is built around three operations:
//
// Diff describes what changed between two versions of a tree as a
// Difference. Comparison is positional: mappings compare key by key,
// sequences compare index by index over their common prefix and report the
// remainder as a tail of inserts or removes. No attempt is made to detect
// moved elements.
//
// Merge combines two Differences computed from the same base into one,
// applying a ConflictResolution policy when both sides changed the same
// scalar, and failing with a MergeConflictError when the edits can't be
// reconciled.
//
// Patch applies a Difference to a tree in place. DiffOfPartialUpdate turns a
// sparse partial document, where an explicit null means "delete this field",
// into a Difference that Patch can apply.
//
// Diff, Merge and DiffOfPartialUpdate never mutate their arguments and are
// safe for concurrent use. Patch is the single mutating operation and needs
// exclusive access to its target for the duration of the call.
package treepatch
