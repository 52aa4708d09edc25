package treepatch_test

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xyzhub/treepatch"
)

func Example() {
	// start with two slightly different json documents
	aJSON := []byte(`{
		"a": 100,
		"baz": {
			"a": {
				"d": "apples-and-oranges"
			}
		}
	}`)

	bJSON := []byte(`{
		"a": 99,
		"baz": {
			"a": {
				"d": "apples-and-oranges"
			},
			"e": "thirty-thousand-something-dogecoin"
		}
	}`)

	// unmarshal the data into generic interfaces
	var a, b interface{}
	if err := json.Unmarshal(aJSON, &a); err != nil {
		panic(err)
	}
	if err := json.Unmarshal(bJSON, &b); err != nil {
		panic(err)
	}

	// Diff produces a tree of changes that mirrors the documents
	diff, err := treepatch.Diff(a, b)
	if err != nil {
		panic(err)
	}

	out, err := treepatch.FormatPrettyString(diff, false)
	if err != nil {
		panic(err)
	}
	fmt.Print(out)

	// applying the difference to a turns it into b
	if err := treepatch.Patch(&a, diff); err != nil {
		panic(err)
	}
	fmt.Println(treepatch.Equal(a, b))
	// Output:
	// ~ a: 100 -> 99
	// baz:
	//   + e: "thirty-thousand-something-dogecoin"
	// true
}

func ExampleMerge() {
	base := map[string]interface{}{"name": "bridge", "lanes": 2, "open": true}
	local := map[string]interface{}{"name": "bridge", "lanes": 3, "open": true}
	remote := map[string]interface{}{"name": "old bridge", "lanes": 4, "open": true}

	baseToLocal, _ := treepatch.Diff(base, local)
	baseToRemote, _ := treepatch.Diff(base, remote)

	_, err := treepatch.Merge(baseToLocal, baseToRemote, treepatch.ConflictError)
	fmt.Println(errors.Is(err, treepatch.ErrMergeConflict))

	merged, err := treepatch.Merge(baseToLocal, baseToRemote, treepatch.ConflictReplace)
	if err != nil {
		panic(err)
	}

	result := treepatch.CloneMap(base)
	if err := treepatch.Patch(result, merged); err != nil {
		panic(err)
	}
	fmt.Println(result["name"], result["lanes"], result["open"])
	// Output:
	// true
	// old bridge 4 true
}

func ExampleDiffOfPartialUpdate() {
	stored := map[string]interface{}{
		"id":         "feature-1",
		"properties": map[string]interface{}{"name": "a", "height": 10},
	}
	partial := map[string]interface{}{
		"properties": map[string]interface{}{"height": nil, "color": "red"},
	}

	diff, err := treepatch.DiffOfPartialUpdate(stored, partial, true)
	if err != nil {
		panic(err)
	}
	if err := treepatch.Patch(stored, diff); err != nil {
		panic(err)
	}

	out, _ := json.Marshal(stored)
	fmt.Println(string(out))
	// Output:
	// {"id":"feature-1","properties":{"color":"red","name":"a"}}
}
