package wrapper

import (
	"github.com/wudi/pdfgraph/forms"
	"github.com/wudi/pdfgraph/ir/raw"
)

// maxFieldDepth bounds /Parent walks on malformed field trees.
const maxFieldDepth = 32

// Field wraps an interactive form field dictionary.
type Field struct{ Base }

// WrapField wraps the field at ref in doc.
func WrapField(doc *raw.Document, ref raw.RefObj) *Field { return &Field{Wrap(doc, ref)} }

// Fields returns the top-level fields listed in doc's form.
func Fields(doc *raw.Document) ([]*Field, error) {
	ix, err := forms.Open(doc)
	if err != nil {
		return nil, err
	}
	refs := ix.Refs()
	out := make([]*Field, 0, len(refs))
	for _, r := range refs {
		out = append(out, WrapField(doc, doc.Ref(r)))
	}
	return out, nil
}

// Name returns the fully qualified field name, joining partial /T names of
// the field and its ancestors with periods.
func (f *Field) Name() string {
	name := ""
	d, ok := f.Dictionary()
	for depth := 0; ok && depth < maxFieldDepth; depth++ {
		if t, ok := d.KV["T"].(raw.String); ok {
			if name == "" {
				name = string(t.Value())
			} else {
				name = string(t.Value()) + "." + name
			}
		}
		d, ok = f.Document().Resolve(d.KV["Parent"]).(*raw.DictObj)
	}
	return name
}

// Type returns the field type (/FT), which may be inherited from a parent.
func (f *Field) Type() string {
	d, ok := f.Dictionary()
	for depth := 0; ok && depth < maxFieldDepth; depth++ {
		if ft, ok := d.KV["FT"].(raw.Name); ok {
			return ft.Value()
		}
		d, ok = f.Document().Resolve(d.KV["Parent"]).(*raw.DictObj)
	}
	return ""
}
