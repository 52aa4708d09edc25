package modify

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xyzhub/treepatch"
)

func doc(t *testing.T, s string) map[string]interface{} {
	t.Helper()
	if s == "" {
		return nil
	}
	m := map[string]interface{}{}
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

func quietProcessor(opts ...ProcessorOption) *Processor {
	log, _ := test.NewNullLogger()
	return NewProcessor(append([]ProcessorOption{WithLogger(log)}, opts...)...)
}

func TestApply(t *testing.T) {
	cases := []struct {
		description       string
		head, base, input string
		ifExists          IfExists
		ifNotExists       IfNotExists
		resolution        treepatch.ConflictResolution
		action            Action
		result            string
		err               error
	}{
		{description: "missing, retain",
			input: `{"a":1}`, ifNotExists: IfNotExistsRetain,
			action: ActionNone},
		{description: "missing, create",
			input: `{"a":1}`, ifNotExists: IfNotExistsCreate,
			action: ActionCreate, result: `{"a":1}`},
		{description: "missing, error",
			input: `{"a":1}`, ifNotExists: IfNotExistsError,
			err: ErrNotExists},
		{description: "exists, retain",
			head: `{"a":1}`, input: `{"a":2}`, ifExists: IfExistsRetain,
			action: ActionNone, result: `{"a":1}`},
		{description: "exists, error",
			head: `{"a":1}`, input: `{"a":2}`, ifExists: IfExistsError,
			err: ErrExists},
		{description: "exists, delete",
			head: `{"a":1}`, input: `{}`, ifExists: IfExistsDelete,
			action: ActionDelete},
		{description: "replace",
			head: `{"a":1,"b":2}`, input: `{"a":2}`, ifExists: IfExistsReplace,
			action: ActionUpdate, result: `{"a":2}`},
		{description: "replace with the same record",
			head: `{"a":1}`, input: `{"a":1.0}`, ifExists: IfExistsReplace,
			action: ActionNone, result: `{"a":1}`},
		{description: "patch",
			head:     `{"id":"f1","properties":{"name":"a","height":10}}`,
			input:    `{"properties":{"height":null,"color":"red"}}`,
			ifExists: IfExistsPatch,
			action:   ActionUpdate, result: `{"id":"f1","properties":{"name":"a","color":"red"}}`},
		{description: "patch that changes nothing",
			head: `{"id":"f1","properties":{"name":"a"}}`, input: `{"properties":{"name":"a"}}`, ifExists: IfExistsPatch,
			action: ActionNone, result: `{"id":"f1","properties":{"name":"a"}}`},
		{description: "patch from an older base",
			head: `{"a":2,"b":1}`, base: `{"a":1,"b":1}`, input: `{"b":5}`, ifExists: IfExistsPatch,
			action: ActionUpdate, result: `{"a":2,"b":5}`},
		{description: "merge without a base replaces",
			head: `{"a":1}`, input: `{"b":1}`, ifExists: IfExistsMerge,
			action: ActionUpdate, result: `{"b":1}`},
		{description: "merge on an unchanged head replaces",
			head: `{"a":1}`, base: `{"a":1}`, input: `{"b":1}`, ifExists: IfExistsMerge,
			action: ActionUpdate, result: `{"b":1}`},
		{description: "merge disjoint changes",
			head: `{"p":{"a":2,"b":1}}`, base: `{"p":{"a":1,"b":1}}`, input: `{"p":{"a":1,"b":3}}`, ifExists: IfExistsMerge,
			action: ActionUpdate, result: `{"p":{"a":2,"b":3}}`},
		{description: "merge with unchanged input",
			head: `{"a":2}`, base: `{"a":1}`, input: `{"a":1}`, ifExists: IfExistsMerge,
			action: ActionNone, result: `{"a":2}`},
		{description: "merge conflict",
			head: `{"a":2}`, base: `{"a":1}`, input: `{"a":3}`, ifExists: IfExistsMerge,
			err: treepatch.ErrMergeConflict},
		{description: "merge conflict, input wins",
			head: `{"a":2,"c":1}`, base: `{"a":1,"c":1}`, input: `{"a":3,"c":1}`, ifExists: IfExistsMerge, resolution: treepatch.ConflictReplace,
			action: ActionUpdate, result: `{"a":3,"c":1}`},
		{description: "merge conflict, head wins",
			head: `{"a":2,"c":1}`, base: `{"a":1,"c":1}`, input: `{"a":3,"c":5}`, ifExists: IfExistsMerge, resolution: treepatch.ConflictRetain,
			action: ActionUpdate, result: `{"a":2,"c":5}`},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			e := &Entry{
				ID:          "f1",
				Input:       doc(t, c.input),
				Head:        doc(t, c.head),
				Base:        doc(t, c.base),
				IfExists:    c.ifExists,
				IfNotExists: c.ifNotExists,
				Resolution:  c.resolution,
			}
			headBefore := treepatch.CloneMap(e.Head)

			action, err := quietProcessor().Apply(e)
			if c.err != nil {
				assert.True(t, errors.Is(err, c.err), "expected %v, got %v", c.err, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.action, action)
			assert.Equal(t, c.action, e.Action)
			assert.Equal(t, doc(t, c.result), e.Result)
			assert.Equal(t, headBefore, e.Head, "head state was modified")
		})
	}
}

func TestMetadataIgnore(t *testing.T) {
	base := `{"properties":{"@ns:com:here:xyz":{"uuid":"u1","tags":["a"]},"name":"a"}}`
	head := `{"properties":{"@ns:com:here:xyz":{"uuid":"u2","tags":["a"]},"name":"a","height":3}}`
	input := `{"properties":{"@ns:com:here:xyz":{"uuid":"u3","tags":["a"]},"name":"b"}}`

	newEntry := func() *Entry {
		return &Entry{ID: "f1", Base: doc(t, base), Head: doc(t, head), Input: doc(t, input), IfExists: IfExistsMerge}
	}

	_, err := quietProcessor().Apply(newEntry())
	assert.True(t, errors.Is(err, treepatch.ErrMergeConflict), "expected a uuid conflict, got %v", err)

	e := newEntry()
	action, err := quietProcessor(WithDiffOptions(treepatch.OptionIgnore(MetadataIgnore))).Apply(e)
	require.NoError(t, err)
	assert.Equal(t, ActionUpdate, action)
	assert.Equal(t, "b", e.Result["properties"].(map[string]interface{})["name"])
	assert.Equal(t, float64(3), e.Result["properties"].(map[string]interface{})["height"])

	// a head that only differs from the base in metadata takes the input as is
	e = newEntry()
	e.Head = doc(t, `{"properties":{"@ns:com:here:xyz":{"uuid":"u2","tags":["a"]},"name":"a"}}`)
	action, err = quietProcessor(WithDiffOptions(treepatch.OptionIgnore(MetadataIgnore))).Apply(e)
	require.NoError(t, err)
	assert.Equal(t, ActionUpdate, action)
	assert.Equal(t, doc(t, input), e.Result)

	assert.True(t, MetadataIgnore("/properties/@ns:com:here:xyz", "uuid"))
	assert.False(t, MetadataIgnore("/properties/@ns:com:here:xyz", "tags"))
	assert.False(t, MetadataIgnore("/properties", "uuid"))
}

func TestProcess(t *testing.T) {
	entries := func() []*Entry {
		return []*Entry{
			{ID: "a", Input: map[string]interface{}{"v": 1}, IfNotExists: IfNotExistsCreate},
			{ID: "b", Input: map[string]interface{}{"v": 1}, Head: map[string]interface{}{"v": 0}, IfExists: IfExistsError},
			{ID: "c", Input: map[string]interface{}{"v": 2}, Head: map[string]interface{}{"v": 0}, IfExists: IfExistsReplace},
		}
	}

	log, hook := test.NewNullLogger()
	es := entries()
	require.NoError(t, NewProcessor(WithLogger(log)).Process(es))
	assert.Equal(t, ActionCreate, es[0].Action)
	assert.True(t, errors.Is(es[1].Err, ErrExists))
	assert.Equal(t, ActionUpdate, es[2].Action)
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "b", hook.LastEntry().Data["id"])

	es = entries()
	err := quietProcessor(WithTransactional(true)).Process(es)
	assert.True(t, errors.Is(err, ErrExists))
	assert.Contains(t, err.Error(), `"b"`)
	assert.Equal(t, ActionCreate, es[0].Action)
	assert.Equal(t, ActionNone, es[2].Action)
	assert.Nil(t, es[2].Result)
}

func TestParsePolicies(t *testing.T) {
	ie, err := ParseIfExists("PATCH")
	require.NoError(t, err)
	assert.Equal(t, IfExistsPatch, ie)

	_, err = ParseIfExists("upsert")
	assert.Error(t, err)

	ine, err := ParseIfNotExists(" create ")
	require.NoError(t, err)
	assert.Equal(t, IfNotExistsCreate, ine)

	var cfg struct {
		IfExists    IfExists    `json:"ifExists"`
		IfNotExists IfNotExists `json:"ifNotExists"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"ifExists":"merge","ifNotExists":"error"}`), &cfg))
	assert.Equal(t, IfExistsMerge, cfg.IfExists)
	assert.Equal(t, IfNotExistsError, cfg.IfNotExists)

	assert.Equal(t, "merge", IfExistsMerge.String())
	assert.Equal(t, "IfExists(9)", IfExists(9).String())
	assert.Equal(t, "delete", ActionDelete.String())
}
