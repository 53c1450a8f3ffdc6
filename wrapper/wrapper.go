// Package wrapper provides typed views over raw objects: pages, form fields
// and file attachment annotations. A wrapper holds a reference when its
// object is indirect and the object itself otherwise.
package wrapper

import (
	"errors"
	"fmt"

	"github.com/wudi/pdfgraph/compat"
	"github.com/wudi/pdfgraph/ir/raw"
)

var (
	// ErrNoDictionary is returned when an operation needs a dictionary or
	// stream but the wrapped object is neither.
	ErrNoDictionary = errors.New("object has no dictionary")
	// ErrNotImplemented is returned by operations a wrapper does not support.
	ErrNotImplemented = errors.New("not implemented")
)

// Base is embedded by every wrapper.
type Base struct {
	doc *raw.Document
	obj raw.Object
}

// Wrap returns a Base over obj. doc is used for unbound references and
// for direct objects.
func Wrap(doc *raw.Document, obj raw.Object) Base {
	if r, ok := obj.(raw.RefObj); ok && r.Doc == nil {
		obj = r.Bind(doc)
	}
	return Base{doc: doc, obj: obj}
}

// Register stores body as a new indirect object of doc and wraps it.
func Register(doc *raw.Document, body raw.Object) Base {
	return Base{doc: doc, obj: doc.Register(body)}
}

// Object returns the wrapped object: a reference if indirect.
func (b Base) Object() raw.Object { return b.obj }

// Ref returns the wrapped reference.
func (b Base) Ref() (raw.RefObj, bool) {
	r, ok := b.obj.(raw.RefObj)
	return r, ok
}

// Document returns the document the object lives in.
func (b Base) Document() *raw.Document {
	if r, ok := b.obj.(raw.RefObj); ok && r.Doc != nil {
		return r.Doc
	}
	return b.doc
}

// Resolve returns the wrapped object's body.
func (b Base) Resolve() raw.Object { return raw.Resolve(b.Document(), b.obj) }

// Dictionary returns the wrapped dictionary or stream header.
func (b Base) Dictionary() (*raw.DictObj, bool) {
	switch o := b.Resolve().(type) {
	case *raw.DictObj:
		return o, true
	case *raw.StreamObj:
		return o.Dict, o.Dict != nil
	}
	return nil, false
}

// Delete removes an indirect object from its document. Direct objects
// cannot be removed and report false.
func (b Base) Delete() bool {
	r, ok := b.obj.(raw.RefObj)
	if !ok {
		return false
	}
	return b.Document().Objects.Delete(r.R)
}

// Metadata returns the /Metadata entry, usually a reference to an XMP stream.
func (b Base) Metadata() (raw.Object, bool) {
	d, ok := b.Dictionary()
	if !ok {
		return nil, false
	}
	return d.Lookup("Metadata")
}

// SetMetadata sets the /Metadata entry.
func (b Base) SetMetadata(value raw.Object) error {
	d, ok := b.Dictionary()
	if !ok {
		return fmt.Errorf("set metadata: %w", ErrNoDictionary)
	}
	d.Set(raw.NameLiteral("Metadata"), value)
	return nil
}

// CheckCompatibility checks features against the document version.
func (b Base) CheckCompatibility(c compat.Checker, features ...compat.Feature) error {
	return c.Check(b.Document(), features...)
}

func (b Base) entry(key string) raw.Object {
	d, ok := b.Dictionary()
	if !ok {
		return nil
	}
	v, _ := d.Lookup(key)
	return raw.Resolve(b.Document(), v)
}

func rect(r [4]float64) *raw.ArrayObj {
	return raw.NewArray(raw.NumberFloat(r[0]), raw.NumberFloat(r[1]), raw.NumberFloat(r[2]), raw.NumberFloat(r[3]))
}
