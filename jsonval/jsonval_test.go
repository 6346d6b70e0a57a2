package jsonval

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vessel/internal/check"
)

const manifest = `{
	"name": "vessel",
	"private": false,
	"version": 3,
	"dependencies": [
		{"name": "xxhash", "pinned": true},
		{"name": "roaring", "pinned": null}
	],
	"scripts": {"test": "go test ./..."}
}`

func TestDecode_Lookup(t *testing.T) {
	doc, err := Decode([]byte(manifest))
	require.NoError(t, err)
	defer doc.Release()

	assert.Equal(t, KindObject, doc.Kind())
	assert.Equal(t, 5, doc.Len())

	name, ok := doc.Lookup("name").AsString()
	require.True(t, ok)
	assert.Equal(t, "vessel", name)

	version, ok := doc.Field("version").AsNumber()
	require.True(t, ok)
	assert.Equal(t, 3.0, version)

	private, ok := doc.Field("private").AsBool()
	require.True(t, ok)
	assert.False(t, private)

	dep, ok := doc.Lookup("dependencies.1.name").AsString()
	require.True(t, ok)
	assert.Equal(t, "roaring", dep)
	assert.True(t, doc.Lookup("dependencies.1.pinned").IsNull())
	pinned, ok := doc.Lookup(".dependencies..0.pinned").AsBool()
	require.True(t, ok)
	assert.True(t, pinned)

	assert.Nil(t, doc.Lookup("dependencies.2"))
	assert.Nil(t, doc.Lookup("dependencies.x"))
	assert.Nil(t, doc.Lookup("name.first"))
	assert.Nil(t, doc.Field("missing"))
	assert.Same(t, &doc, doc.Lookup(""))
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode([]byte(`{"a": [1, 2`))
	assert.Error(t, err)

	_, err = FromAny(struct{}{})
	assert.True(t, errors.Is(err, ErrUnsupported))

	_, err = FromAny([]any{1.0, map[string]any{"bad": complex(1, 2)}})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestValue_Build(t *testing.T) {
	root := NewObject()
	defer root.Release()

	tags := NewArray()
	tags.Append(String("fast"))
	tags.Append(Number(1.5))
	root.Set("tags", tags)
	tags.Release()

	leaf := Bool(true)
	ref := &leaf
	root.SetMove("ok", &ref)
	assert.Nil(t, ref)

	root.Set("ok", Null())
	assert.True(t, root.Field("ok").IsNull())

	assert.Equal(t, 2, root.Len())
	assert.Equal(t, 2, root.Field("tags").Len())
	assert.True(t, root.Delete("ok"))
	assert.False(t, root.Delete("ok"))

	out, err := json.Marshal(&root)
	require.NoError(t, err)
	assert.JSONEq(t, `{"tags": ["fast", 1.5]}`, string(out))
}

func TestValue_CloneIndependence(t *testing.T) {
	doc, err := Decode([]byte(manifest))
	require.NoError(t, err)

	clone := doc.Clone()
	doc.Lookup("scripts").Set("lint", String("golangci-lint run"))
	doc.Lookup("dependencies.0").Delete("pinned")
	doc.Lookup("name").Text().Append("-fork")

	name, _ := clone.Lookup("name").AsString()
	assert.Equal(t, "vessel", name)
	assert.Nil(t, clone.Lookup("scripts.lint"))
	pinned, ok := clone.Lookup("dependencies.0.pinned").AsBool()
	assert.True(t, ok)
	assert.True(t, pinned)

	doc.Release()
	assert.True(t, doc.IsNull())

	raw, err := clone.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, manifest, string(raw))
	clone.Release()
}

func TestValue_MarshalByValue(t *testing.T) {
	doc, err := Decode([]byte(`{"a": [1, 2], "b": "x"}`))
	require.NoError(t, err)
	defer doc.Release()

	const want = `{"a": [1, 2], "b": "x"}`

	byValue, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, want, string(byValue))

	byPointer, err := json.Marshal(&doc)
	require.NoError(t, err)
	assert.JSONEq(t, want, string(byPointer))

	type wrapper struct {
		Doc  Value  `json:"doc"`
		Ref  *Value `json:"ref"`
		List []Value
	}
	nested, err := json.Marshal(wrapper{Doc: doc, Ref: &doc, List: []Value{Number(1), Null()}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"doc": `+want+`, "ref": `+want+`, "List": [1, null]}`, string(nested))
}

func TestValue_ReleaseFreesObjectBuckets(t *testing.T) {
	doc, err := Decode([]byte(`{"inner": {"k": 1}}`))
	require.NoError(t, err)

	inner := doc.Field("inner").Object()
	outer := doc.Object()
	require.NotNil(t, inner)
	require.Equal(t, 1, outer.Len())

	doc.Release()
	assert.True(t, doc.IsNull())

	for _, obj := range []*Object{outer, inner} {
		assert.Panics(t, func() { obj.Len() }, "object buckets still allocated")
	}
}

func TestValue_UnmarshalJSON(t *testing.T) {
	var wrapper struct {
		Config Value `json:"config"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"config": {"retries": [1, 2, 4]}}`), &wrapper))
	defer wrapper.Config.Release()

	n, ok := wrapper.Config.Lookup("retries.2").AsNumber()
	require.True(t, ok)
	assert.Equal(t, 4.0, n)

	pretty, err := wrapper.Config.Format("  ")
	require.NoError(t, err)
	assert.Contains(t, string(pretty), "\n  \"retries\"")
}

func TestValue_KindMismatch(t *testing.T) {
	v := Number(1)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		var viol *check.Violation
		require.True(t, errors.As(r.(error), &viol))
		assert.Contains(t, viol.Message, "value is number, not array")
	}()
	v.Append(Null())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "object", KindObject.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}

func TestFile_RoundTrip(t *testing.T) {
	doc, err := Decode([]byte(manifest))
	require.NoError(t, err)
	defer doc.Release()

	dir := t.TempDir()
	for _, name := range []string{"doc.json", "doc.json.lz4", "doc.json.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, EncodeFile(path, &doc))

			got, err := DecodeFile(path)
			require.NoError(t, err)
			defer got.Release()

			dep, ok := got.Lookup("dependencies.0.name").AsString()
			require.True(t, ok)
			assert.Equal(t, "xxhash", dep)
		})
	}

	plain, err := os.Stat(filepath.Join(dir, "doc.json"))
	require.NoError(t, err)
	raw, err := os.ReadFile(filepath.Join(dir, "doc.json.zst"))
	require.NoError(t, err)
	assert.NotEqual(t, byte('{'), raw[0])
	assert.Positive(t, plain.Size())

	_, err = DecodeFile(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCompressionFor(t *testing.T) {
	assert.Equal(t, CompressionNone, CompressionFor("a.json"))
	assert.Equal(t, CompressionLZ4, CompressionFor("a.json.LZ4"))
	assert.Equal(t, CompressionZSTD, CompressionFor("/tmp/a.zst"))
}
