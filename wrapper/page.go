package wrapper

import (
	"fmt"

	"github.com/wudi/pdfgraph/clone"
	"github.com/wudi/pdfgraph/ir/raw"
)

// Page wraps a /Type /Page dictionary.
type Page struct{ Base }

// WrapPage wraps an existing page object of doc.
func WrapPage(doc *raw.Document, obj raw.Object) *Page { return &Page{Wrap(doc, obj)} }

// NewPage creates an empty page and appends it to doc's page tree.
func NewPage(doc *raw.Document, mediaBox [4]float64) (*Page, error) {
	p := &Page{Register(doc, raw.DictOf(
		"Type", raw.NameLiteral("Page"),
		"MediaBox", rect(mediaBox),
	))}
	if err := AppendPage(doc, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Pages returns the root page tree node of doc and its reference.
func Pages(doc *raw.Document) (*raw.DictObj, raw.RefObj, error) {
	catalog, err := doc.Catalog()
	if err != nil {
		return nil, raw.RefObj{}, err
	}
	entry, _ := catalog.Lookup("Pages")
	ref, ok := entry.(raw.RefObj)
	if !ok {
		return nil, raw.RefObj{}, fmt.Errorf("catalog /Pages is %T, want reference", entry)
	}
	ref = raw.RefObj{R: ref.R, Doc: doc}
	node, ok := doc.Resolve(ref).(*raw.DictObj)
	if !ok {
		return nil, raw.RefObj{}, fmt.Errorf("page tree root %s is not a dictionary", ref)
	}
	return node, ref, nil
}

// AppendPage links p as the last kid of doc's root page tree node.
func AppendPage(doc *raw.Document, p *Page) error {
	ref, ok := p.Ref()
	if !ok || ref.Doc != doc {
		return fmt.Errorf("append page: page must be an indirect object of the document")
	}
	root, rootRef, err := Pages(doc)
	if err != nil {
		return fmt.Errorf("append page: %w", err)
	}
	d, ok := p.Dictionary()
	if !ok {
		return fmt.Errorf("append page: %w", ErrNoDictionary)
	}
	kids, ok := doc.Resolve(root.KV["Kids"]).(*raw.ArrayObj)
	if !ok {
		kids = raw.NewArray()
		root.Set(raw.NameLiteral("Kids"), kids)
	}
	kids.Append(ref)
	count := int64(0)
	if n, ok := root.KV["Count"].(raw.Number); ok {
		count = n.Int()
	}
	root.Set(raw.NameLiteral("Count"), raw.NumberInt(count+1))
	d.Set(raw.NameLiteral("Parent"), rootRef)
	return nil
}

// MediaBox returns the page's /MediaBox.
func (p *Page) MediaBox() ([4]float64, bool) {
	var box [4]float64
	a, ok := p.entry("MediaBox").(*raw.ArrayObj)
	if !ok || len(a.Items) != 4 {
		return box, false
	}
	for i, item := range a.Items {
		n, ok := item.(raw.Number)
		if !ok {
			return box, false
		}
		box[i] = n.Float()
	}
	return box, true
}

// Annotations returns the page's /Annots items as stored.
func (p *Page) Annotations() []raw.Object {
	a, ok := p.entry("Annots").(*raw.ArrayObj)
	if !ok {
		return nil
	}
	return append([]raw.Object(nil), a.Items...)
}

// AddAnnotation appends annot to /Annots, creating the array if needed.
func (p *Page) AddAnnotation(annot raw.Object) error {
	d, ok := p.Dictionary()
	if !ok {
		return fmt.Errorf("add annotation: %w", ErrNoDictionary)
	}
	a, ok := p.entry("Annots").(*raw.ArrayObj)
	if !ok {
		a = raw.NewArray()
		d.Set(raw.NameLiteral("Annots"), a)
	}
	a.Append(annot)
	return nil
}

// Clone copies the page into c's destination and returns the copy. The
// copy is not linked into the destination page tree; see AppendPage.
// Cloning into the page's own document produces a duplicate page.
func (p *Page) Clone(c *clone.Cloner) (*Page, error) {
	dst := c.Context()
	if ref, ok := p.Ref(); ok {
		out, err := c.ImportObject(p.Document(), ref.R)
		if err != nil {
			return nil, fmt.Errorf("clone page %s: %w", ref, err)
		}
		return WrapPage(dst, out), nil
	}
	out, err := c.CloneFrom(p.Document(), p.Object())
	if err != nil {
		return nil, fmt.Errorf("clone page: %w", err)
	}
	return &Page{Register(dst, out)}, nil
}
