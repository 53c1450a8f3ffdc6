// Package forms maintains the interactive form field index (the /Fields
// array of the catalog's /AcroForm dictionary) of a raw document.
package forms

import (
	"errors"
	"fmt"

	"github.com/wudi/pdfgraph/ir/raw"
)

var (
	// ErrForeignField is returned when a field reference points into another document.
	ErrForeignField = errors.New("field belongs to another document")
	// ErrMalformedForm is returned when /AcroForm or /Fields has the wrong type.
	ErrMalformedForm = errors.New("malformed interactive form")
)

// Index is a view over a document's form field array.
type Index struct {
	doc    *raw.Document
	form   *raw.DictObj
	fields *raw.ArrayObj
}

// Open returns the field index of doc, creating an indirect /AcroForm
// dictionary and an empty /Fields array when they are absent.
func Open(doc *raw.Document) (*Index, error) {
	catalog, err := doc.Catalog()
	if err != nil {
		return nil, err
	}

	var form *raw.DictObj
	if entry, ok := catalog.Lookup("AcroForm"); ok {
		d, ok := doc.Resolve(entry).(*raw.DictObj)
		if !ok {
			return nil, fmt.Errorf("/AcroForm: %w", ErrMalformedForm)
		}
		form = d
	} else {
		form = raw.Dict()
		catalog.Set(raw.NameLiteral("AcroForm"), doc.Register(form))
	}

	var fields *raw.ArrayObj
	if entry, ok := form.Lookup("Fields"); ok {
		a, ok := doc.Resolve(entry).(*raw.ArrayObj)
		if !ok {
			return nil, fmt.Errorf("/Fields: %w", ErrMalformedForm)
		}
		fields = a
	} else {
		fields = raw.NewArray()
		form.Set(raw.NameLiteral("Fields"), fields)
	}

	return &Index{doc: doc, form: form, fields: fields}, nil
}

// Add appends ref to the field array unless it is already listed.
// It reports whether the array changed.
func (ix *Index) Add(ref raw.RefObj) (bool, error) {
	if ref.Doc != nil && ref.Doc != ix.doc {
		return false, fmt.Errorf("field %s: %w", ref, ErrForeignField)
	}
	if ix.Contains(ref.R) {
		return false, nil
	}
	ix.fields.Append(ix.doc.Ref(ref.R))
	return true, nil
}

// Contains reports whether ref is listed.
func (ix *Index) Contains(ref raw.ObjectRef) bool {
	for _, item := range ix.fields.Items {
		if r, ok := item.(raw.Reference); ok && r.Ref() == ref {
			return true
		}
	}
	return false
}

// Refs returns the listed field references in order.
func (ix *Index) Refs() []raw.ObjectRef {
	out := make([]raw.ObjectRef, 0, len(ix.fields.Items))
	for _, item := range ix.fields.Items {
		if r, ok := item.(raw.Reference); ok {
			out = append(out, r.Ref())
		}
	}
	return out
}

func (ix *Index) Len() int { return len(ix.fields.Items) }

// Form returns the /AcroForm dictionary backing the index.
func (ix *Index) Form() *raw.DictObj { return ix.form }
