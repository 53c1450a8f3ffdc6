package scripting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wudi/pdfgraph/clone"
	"github.com/wudi/pdfgraph/ir/raw"
)

func scriptCloner(t *testing.T, dst *raw.Document, source string) (*clone.Cloner, *Filter) {
	t.Helper()
	f, err := NewFilter("script", source)
	require.NoError(t, err)
	c, err := clone.New(dst, clone.Config{Filters: []clone.Filter{f}})
	require.NoError(t, err)
	return c, f
}

func TestFilterBeforeEntry(t *testing.T) {
	c, _ := scriptCloner(t, raw.NewDocument("1.7"), `
		function beforeEntry(key, value) { return key !== "Secret"; }
	`)
	out, err := c.Clone(raw.DictOf("A", raw.NumberInt(1), "Secret", raw.Str([]byte("x"))))
	require.NoError(t, err)

	d := out.(*raw.DictObj)
	assert.True(t, d.Has("A"))
	assert.False(t, d.Has("Secret"))
	assert.Equal(t, 1, c.Stats().Vetoed)
}

func TestFilterMatchesSelectsContainers(t *testing.T) {
	c, _ := scriptCloner(t, raw.NewDocument("1.7"), `
		function matches(obj) { return obj !== null && obj.Type === "Font"; }
		function beforeEntry(key) { return key !== "ToUnicode"; }
	`)
	font, err := c.Clone(raw.DictOf("Type", raw.NameLiteral("Font"), "ToUnicode", raw.NumberInt(7)))
	require.NoError(t, err)
	assert.False(t, font.(*raw.DictObj).Has("ToUnicode"))

	xobj, err := c.Clone(raw.DictOf("Type", raw.NameLiteral("XObject"), "ToUnicode", raw.NumberInt(7)))
	require.NoError(t, err)
	assert.True(t, xobj.(*raw.DictObj).Has("ToUnicode"))
}

func TestFilterBeforeItem(t *testing.T) {
	c, _ := scriptCloner(t, raw.NewDocument("1.7"), `
		function beforeItem(index, item) { return index % 2 === 0; }
	`)
	out, err := c.Clone(raw.NewArray(raw.NumberInt(0), raw.NumberInt(1), raw.NumberInt(2), raw.NumberInt(3)))
	require.NoError(t, err)
	assert.Equal(t, []raw.Object{raw.NumberInt(0), raw.NumberInt(2)}, out.(*raw.ArrayObj).Items)
}

func TestFilterResolvesSourceReferences(t *testing.T) {
	src := raw.NewDocument("1.7")
	dst := raw.NewDocument("1.7")
	text := src.Register(raw.DictOf("Subtype", raw.NameLiteral("Text")))
	popup := src.Register(raw.DictOf("Subtype", raw.NameLiteral("Popup")))

	c, _ := scriptCloner(t, dst, `
		function beforeItem(index, item) { return resolve(item).Subtype !== "Popup"; }
	`)
	out, err := c.CloneFrom(src, raw.NewArray(text, popup))
	require.NoError(t, err)

	items := out.(*raw.ArrayObj).Items
	require.Len(t, items, 1)
	assert.Equal(t, 1, c.Stats().Imported)
	_, imported := c.Lookup(src, popup.R)
	assert.False(t, imported)
}

func TestFilterResolvesBoundReferencesInOwningDocument(t *testing.T) {
	src := raw.NewDocument("1.7")
	dst := raw.NewDocument("1.7")
	decoy := dst.Register(raw.DictOf("Subtype", raw.NameLiteral("Text")))
	popup := src.Register(raw.DictOf("Subtype", raw.NameLiteral("Popup")))
	require.Equal(t, decoy.R, popup.R)
	reply := src.Register(raw.DictOf("Subtype", raw.NameLiteral("Text"), "Parent", raw.Ref(popup.R.Num, popup.R.Gen)))

	c, _ := scriptCloner(t, dst, `
		function beforeItem(index, item) {
			var annot = resolve(item);
			if (annot.Parent) { annot = resolve(annot.Parent); }
			return annot.Subtype !== "Popup";
		}
	`)
	out, err := c.Clone(raw.NewArray(popup, reply))
	require.NoError(t, err)
	assert.Empty(t, out.(*raw.ArrayObj).Items)
	assert.Zero(t, c.Stats().Imported)
}

func TestFilterWithoutHooksCopiesEverything(t *testing.T) {
	c, _ := scriptCloner(t, raw.NewDocument("1.7"), `var unused = 1;`)
	in := raw.DictOf("A", raw.NewArray(raw.NumberInt(1)), "B", raw.Bool(true))
	out, err := c.Clone(in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Zero(t, c.Stats().Vetoed)
}

func TestFilterScriptErrorFailsClone(t *testing.T) {
	c, f := scriptCloner(t, raw.NewDocument("1.7"), `
		function beforeEntry(key) { throw new Error("boom"); }
	`)
	_, err := c.Clone(raw.DictOf("A", raw.NumberInt(1)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.NoError(t, f.takeErr(), "the error is reported once")
}

func TestFilterTimeout(t *testing.T) {
	c, f := scriptCloner(t, raw.NewDocument("1.7"), `function matches(obj) { while (true) {} }`)
	f.Timeout = 20 * time.Millisecond

	_, err := c.Clone(raw.Dict())
	assert.ErrorIs(t, err, ErrScriptTimeout)
}

func TestNewFilterCompileError(t *testing.T) {
	_, err := NewFilter("bad", "function (")
	assert.Error(t, err)
}

func TestToJS(t *testing.T) {
	src := raw.NewStream(raw.DictOf("Type", raw.NameLiteral("XObject")), []byte("abc"))
	got := toJS(raw.DictOf(
		"N", raw.NumberInt(3),
		"F", raw.NumberFloat(0.5),
		"S", raw.Str([]byte("hi")),
		"R", raw.Ref(4, 0),
		"X", src,
		"Z", raw.NullObj{},
	))
	assert.Equal(t, map[string]interface{}{
		"N": int64(3),
		"F": 0.5,
		"S": "hi",
		"R": map[string]interface{}{"ref": "4 0 R"},
		"X": map[string]interface{}{"Type": "XObject", "stream": map[string]interface{}{"length": 3}},
		"Z": nil,
	}, got)
}
