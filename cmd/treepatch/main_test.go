package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDiffPretty(t *testing.T) {
	src := writeFile(t, "src.json", `{"a":1,"b":{"c":true},"d":[1,2]}`)
	dst := writeFile(t, "dst.yaml", "a: 2\nb:\n  c: true\nd: [1, 2, 3]\n")

	out, err := run(t, "diff", src, dst, "--stats")
	require.NoError(t, err)
	assert.Equal(t, "~ a: 1 -> 2\nd:\n  + 2: 3\n+1 element. 1 insert. 0 removes. 1 update.\n", out)
}

func TestDiffJSONPatch(t *testing.T) {
	src := writeFile(t, "src.json", `{"a":1,"uuid":"x","l":[1,2]}`)
	dst := writeFile(t, "dst.json", `{"a":1,"uuid":"y","l":[1]}`)

	out, err := run(t, "diff", src, dst, "-o", "jsonpatch", "--ignore", "uuid")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"op":"remove","path":"/l/1"}]`, out)

	out, err = run(t, "diff", src, src, "-o", "jsonpatch")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)

	_, err = run(t, "diff", src, dst, "-o", "xml")
	assert.Error(t, err)
}

func TestDiffIgnoreFromEnv(t *testing.T) {
	t.Setenv("TREEPATCH_IGNORE", "uuid,version")
	src := writeFile(t, "src.json", `{"a":1,"uuid":"x","version":1}`)
	dst := writeFile(t, "dst.json", `{"a":1,"uuid":"y","version":2}`)

	out, err := run(t, "diff", src, dst)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestMerge(t *testing.T) {
	base := writeFile(t, "base.json", `{"name":"bridge","lanes":2,"tags":["a"]}`)
	local := writeFile(t, "local.json", `{"name":"bridge","lanes":3,"tags":["a","b"]}`)
	remote := writeFile(t, "remote.json", `{"name":"old bridge","lanes":4,"tags":["a"]}`)

	_, err := run(t, "merge", base, local, remote)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/lanes")

	out, err := run(t, "merge", base, local, remote, "--resolution", "retain")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"old bridge","lanes":3,"tags":["a","b"]}`, out)

	t.Setenv("TREEPATCH_RESOLUTION", "replace")
	out, err = run(t, "merge", base, local, remote)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"old bridge","lanes":4,"tags":["a","b"]}`, out)

	_, err = run(t, "merge", base, local, remote, "--resolution", "whatever")
	assert.Error(t, err)
}

func TestPatch(t *testing.T) {
	stored := writeFile(t, "stored.json", `{"id":"f1","properties":{"name":"a","height":10}}`)
	partial := writeFile(t, "partial.json", `{"properties":{"height":null,"color":"red"}}`)

	out, err := run(t, "patch", stored, partial, "--recursive")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"f1","properties":{"name":"a","color":"red"}}`, out)

	out, err = run(t, "patch", stored, partial, "--recursive", "--strip-removes")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"f1","properties":{"name":"a","height":10,"color":"red"}}`, out)

	out, err = run(t, "patch", stored, partial)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"f1","properties":{"height":null,"color":"red"}}`, out)

	list := writeFile(t, "list.json", `[1]`)
	_, err = run(t, "patch", list, partial)
	assert.Error(t, err)
}

func TestLargeNumbersSurvive(t *testing.T) {
	stored := writeFile(t, "stored.json", `{"id":9007199254740993,"v":1}`)
	partial := writeFile(t, "partial.json", `{"v":2}`)

	out, err := run(t, "patch", stored, partial)
	require.NoError(t, err)

	var got map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "9007199254740993", string(got["id"]))
	assert.Equal(t, "2", string(got["v"]))
}
