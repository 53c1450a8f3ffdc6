package wrapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wudi/pdfgraph/clone"
	"github.com/wudi/pdfgraph/compat"
	"github.com/wudi/pdfgraph/ir/raw"
)

var letter = [4]float64{0, 0, 612, 792}

func TestNewPageJoinsPageTree(t *testing.T) {
	doc := raw.NewDocument("1.7")
	p, err := NewPage(doc, letter)
	require.NoError(t, err)

	root, rootRef, err := Pages(doc)
	require.NoError(t, err)
	assert.Equal(t, raw.NumberInt(1), root.KV["Count"])
	assert.Equal(t, []raw.Object{p.Object()}, root.KV["Kids"].(*raw.ArrayObj).Items)

	d, ok := p.Dictionary()
	require.True(t, ok)
	assert.Equal(t, rootRef, d.KV["Parent"])

	box, ok := p.MediaBox()
	require.True(t, ok)
	assert.Equal(t, letter, box)
}

func TestPageCloneAcrossDocuments(t *testing.T) {
	src := raw.NewDocument("1.7")
	dst := raw.NewDocument("1.7")
	page, err := NewPage(src, letter)
	require.NoError(t, err)
	payload := []byte{0xde, 0xad, 0xbe, 0xef}
	_, err = NewFileAttachment(page, [4]float64{10, 10, 30, 30}, NewEmbeddedFile(src, "data.bin", payload), compat.Checker{Mode: compat.Strict})
	require.NoError(t, err)

	c, err := clone.New(dst, clone.Config{})
	require.NoError(t, err)
	copied, err := page.Clone(c)
	require.NoError(t, err)
	require.NoError(t, AppendPage(dst, copied))

	assert.Same(t, dst, copied.Document())
	box, ok := copied.MediaBox()
	require.True(t, ok)
	assert.Equal(t, letter, box)

	annots := copied.Annotations()
	require.Len(t, annots, 1)
	att := WrapFileAttachment(dst, annots[0])
	ad, ok := att.Dictionary()
	require.True(t, ok)
	assert.Equal(t, copied.Object(), ad.KV["P"], "annotation points at the copied page")

	fs, ok := dst.Resolve(att.FileSpec()).(*raw.DictObj)
	require.True(t, ok)
	ef := fs.KV["EF"].(*raw.DictObj)
	stream, ok := dst.Resolve(ef.KV["F"]).(*raw.StreamObj)
	require.True(t, ok)
	assert.Equal(t, payload, stream.Data)

	srcRoot, _, err := Pages(src)
	require.NoError(t, err)
	_, pageImported := c.Lookup(src, srcRoot.KV["Kids"].(*raw.ArrayObj).Items[0].(raw.RefObj).R)
	assert.True(t, pageImported)

	dstRoot, _, err := Pages(dst)
	require.NoError(t, err)
	assert.Equal(t, raw.NumberInt(1), dstRoot.KV["Count"])
}

func TestPageCloneWithinDocumentDuplicates(t *testing.T) {
	doc := raw.NewDocument("1.7")
	page, err := NewPage(doc, letter)
	require.NoError(t, err)
	res := doc.Register(raw.DictOf("ProcSet", raw.NewArray(raw.NameLiteral("PDF"))))
	d, _ := page.Dictionary()
	d.Set(raw.NameLiteral("Resources"), res)

	c, err := clone.New(doc, clone.Config{})
	require.NoError(t, err)
	dup, err := page.Clone(c)
	require.NoError(t, err)

	src, _ := page.Ref()
	out, _ := dup.Ref()
	assert.NotEqual(t, src.R, out.R)
	dd, _ := dup.Dictionary()
	assert.Equal(t, res, dd.KV["Resources"], "resources are shared, not copied")
	assert.False(t, dd.Has("Parent"))
}

func TestDirectPageClone(t *testing.T) {
	src := raw.NewDocument("1.7")
	dst := raw.NewDocument("1.7")
	page := WrapPage(src, raw.DictOf("Type", raw.NameLiteral("Page"), "MediaBox", rect(letter)))

	c, err := clone.New(dst, clone.Config{})
	require.NoError(t, err)
	copied, err := page.Clone(c)
	require.NoError(t, err)
	_, indirect := copied.Ref()
	assert.True(t, indirect)
}

func TestBaseDeleteAndMetadata(t *testing.T) {
	doc := raw.NewDocument("1.7")
	direct := Wrap(doc, raw.NumberInt(3))
	assert.False(t, direct.Delete())
	assert.ErrorIs(t, direct.SetMetadata(raw.NullObj{}), ErrNoDictionary)

	b := Register(doc, raw.NewStream(raw.Dict(), []byte("x")))
	xmp := doc.Register(raw.NewStream(raw.DictOf("Type", raw.NameLiteral("Metadata")), []byte("<x/>")))
	require.NoError(t, b.SetMetadata(xmp))
	got, ok := b.Metadata()
	require.True(t, ok)
	assert.Equal(t, xmp, got)

	assert.True(t, b.Delete())
	_, ok = b.Dictionary()
	assert.False(t, ok)
}

func TestWrapBindsUnboundReference(t *testing.T) {
	doc := raw.NewDocument("1.7")
	ref := doc.Register(raw.Dict())
	b := Wrap(doc, raw.Ref(ref.R.Num, ref.R.Gen))
	got, ok := b.Ref()
	require.True(t, ok)
	assert.Same(t, doc, got.Doc)
}

func TestFieldNameAndInheritedType(t *testing.T) {
	doc := raw.NewDocument("1.7")
	parent := doc.Register(raw.DictOf("T", raw.Str([]byte("address")), "FT", raw.NameLiteral("Tx")))
	child := doc.Register(raw.DictOf("T", raw.Str([]byte("city")), "Parent", parent))

	f := WrapField(doc, child)
	assert.Equal(t, "address.city", f.Name())
	assert.Equal(t, "Tx", f.Type())
}

func TestFieldsAfterAnnotationClone(t *testing.T) {
	src := raw.NewDocument("1.7")
	dst := raw.NewDocument("1.7")
	page, err := NewPage(src, letter)
	require.NoError(t, err)
	widget := src.Register(raw.DictOf(
		"Type", raw.NameLiteral("Annot"),
		"Subtype", raw.NameLiteral("Widget"),
		"Rect", rect([4]float64{0, 0, 100, 20}),
		"FT", raw.NameLiteral("Tx"),
		"T", raw.Str([]byte("name")),
		"P", page.Object(),
	))
	require.NoError(t, page.AddAnnotation(widget))

	c, err := clone.New(dst, clone.Config{})
	require.NoError(t, err)
	_, err = page.Clone(c)
	require.NoError(t, err)

	fields, err := Fields(dst)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "name", fields[0].Name())
	assert.Equal(t, "Tx", fields[0].Type())
}

func TestFileAttachmentIcons(t *testing.T) {
	doc := raw.NewDocument("1.7")
	page, err := NewPage(doc, letter)
	require.NoError(t, err)
	a, err := NewFileAttachment(page, letter, NewEmbeddedFile(doc, "a.txt", []byte("a")), compat.Checker{})
	require.NoError(t, err)

	icon, ok := a.Icon()
	assert.True(t, ok)
	assert.Equal(t, IconPushPin, icon)

	require.NoError(t, a.SetIcon(IconPaperClip))
	icon, ok = a.Icon()
	assert.True(t, ok)
	assert.Equal(t, IconPaperClip, icon)

	require.NoError(t, a.SetIcon(IconType("Balloon")))
	_, ok = a.Icon()
	assert.False(t, ok)

	other := NewEmbeddedFile(doc, "b.txt", []byte("b"))
	require.NoError(t, a.SetFileSpec(other))
	assert.Equal(t, other, a.FileSpec())
}

func TestFileAttachmentVersionChecks(t *testing.T) {
	doc := raw.NewDocument("1.2")
	page, err := NewPage(doc, letter)
	require.NoError(t, err)
	fs := NewEmbeddedFile(doc, "a.txt", nil)

	_, err = NewFileAttachment(page, letter, fs, compat.Checker{Mode: compat.Strict})
	assert.ErrorIs(t, err, compat.ErrIncompatible)
	assert.Empty(t, page.Annotations())

	_, err = NewFileAttachment(page, letter, fs, compat.Checker{Mode: compat.Loose})
	require.NoError(t, err)
	assert.Equal(t, "1.3", doc.Version)
}

func TestFileAttachmentCloneNotImplemented(t *testing.T) {
	doc := raw.NewDocument("1.7")
	c, err := clone.New(doc, clone.Config{})
	require.NoError(t, err)
	_, err = WrapFileAttachment(doc, doc.Register(raw.Dict())).Clone(c)
	assert.ErrorIs(t, err, ErrNotImplemented)
}
