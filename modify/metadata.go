package modify

import "github.com/xyzhub/treepatch"

// NamespacePath is the pointer of the mapping the storage layer keeps its
// per-record bookkeeping in
var NamespacePath = treepatch.AppendPointer(treepatch.AppendPointer("", "properties"), "@ns:com:here:xyz")

var metadataKeys = map[string]bool{
	"uuid":       true,
	"puuid":      true,
	"muuid":      true,
	"createdAt":  true,
	"updatedAt":  true,
	"rtuts":      true,
	"space":      true,
	"collection": true,
	"txn":        true,
	"action":     true,
	"version":    true,
}

// MetadataIgnore skips the bookkeeping keys of the storage namespace, so
// that version ids & timestamps never show up as changes or conflicts
func MetadataIgnore(path, key string) bool {
	return path == NamespacePath && metadataKeys[key]
}

var _ treepatch.IgnoreFunc = MetadataIgnore
