package raw

import (
	"errors"
	"fmt"
)

// ErrNoCatalog is returned when a document trailer has no usable /Root.
var ErrNoCatalog = errors.New("document catalog not found")

// Document is a document context: it owns an indirect object table and is
// the namespace in which object numbers are meaningful.
type Document struct {
	ID      ContextID
	Objects *Table
	Trailer *DictObj
	Version string // e.g., "1.7"
}

// NewDocument returns a document holding an empty catalog and page tree.
func NewDocument(version string) *Document {
	d := &Document{
		ID:      NewContextID(),
		Objects: NewTable(),
		Trailer: Dict(),
		Version: version,
	}
	pages := d.Register(DictOf(
		"Type", NameLiteral("Pages"),
		"Kids", NewArray(),
		"Count", NumberInt(0),
	))
	root := d.Register(DictOf(
		"Type", NameLiteral("Catalog"),
		"Pages", pages,
	))
	d.Trailer.Set(NameLiteral("Root"), root)
	return d
}

// OpenDocument wraps parsed objects and trailer in a new context.
func OpenDocument(objects map[ObjectRef]Object, trailer *DictObj, version string) *Document {
	if trailer == nil {
		trailer = Dict()
	}
	return &Document{
		ID:      NewContextID(),
		Objects: TableFrom(objects),
		Trailer: trailer,
		Version: version,
	}
}

// Register stores body in a fresh slot and returns a reference bound to d.
func (d *Document) Register(body Object) RefObj {
	return RefObj{R: d.Objects.Register(body), Doc: d}
}

// Ref returns a reference to ref bound to d.
func (d *Document) Ref(ref ObjectRef) RefObj { return RefObj{R: ref, Doc: d} }

// Owns reports whether r points into d. Unbound references are owned by no one.
func (d *Document) Owns(r Reference) bool { return r.Owner() == d }

// Resolve follows obj if it is a reference; unbound references are looked up
// in d. A reference to a missing object resolves to null.
func (d *Document) Resolve(obj Object) Object {
	return Resolve(d, obj)
}

// Resolve follows obj if it is a reference. Unbound references are looked up
// in doc; with no doc they resolve to nil.
func Resolve(doc *Document, obj Object) Object {
	ref, ok := obj.(Reference)
	if !ok {
		return obj
	}
	owner := ref.Owner()
	if owner == nil {
		owner = doc
	}
	if owner == nil {
		return nil
	}
	body, ok := owner.Objects.Get(ref.Ref())
	if !ok {
		return NullObj{}
	}
	return body
}

// Catalog returns the document catalog dictionary.
func (d *Document) Catalog() (*DictObj, error) {
	root, ok := d.Trailer.Lookup("Root")
	if !ok {
		return nil, ErrNoCatalog
	}
	catalog, ok := d.Resolve(root).(*DictObj)
	if !ok {
		return nil, fmt.Errorf("root %v: %w", root, ErrNoCatalog)
	}
	return catalog, nil
}

func (d *Document) String() string {
	return fmt.Sprintf("document %s (%d objects)", d.ID, d.Objects.Len())
}
