package raw

import (
	"fmt"

	"github.com/google/uuid"
)

// ObjectRef uniquely identifies an indirect PDF object within one document.
type ObjectRef struct {
	Num int
	Gen int
}

func (r ObjectRef) String() string { return fmt.Sprintf("%d %d R", r.Num, r.Gen) }

// ContextID identifies a document context. Object numbers are only unique
// inside the context that assigned them.
type ContextID uuid.UUID

func NewContextID() ContextID { return ContextID(uuid.New()) }

func (id ContextID) String() string { return uuid.UUID(id).String() }

// Kind enumerates the closed set of raw object kinds.
type Kind int

const (
	KindNull Kind = iota
	KindBoolean
	KindNumber
	KindName
	KindString
	KindArray
	KindDictionary
	KindStream
	KindReference
	KindObjectStream
	KindXRefStream
)

var kindNames = [...]string{
	KindNull:         "null",
	KindBoolean:      "boolean",
	KindNumber:       "number",
	KindName:         "name",
	KindString:       "string",
	KindArray:        "array",
	KindDictionary:   "dict",
	KindStream:       "stream",
	KindReference:    "ref",
	KindObjectStream: "objstm",
	KindXRefStream:   "xrefstm",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Object is the base interface for all raw PDF objects.
type Object interface {
	Kind() Kind
	IsIndirect() bool
}

// Dictionary represents a PDF dictionary object.
type Dictionary interface {
	Object
	Get(key Name) (Object, bool)
	Set(key Name, value Object)
	Delete(key Name) bool
	Keys() []Name
	Len() int
}

// Array represents a PDF array object.
type Array interface {
	Object
	Get(index int) (Object, bool)
	Len() int
	Append(obj Object)
}

// Stream represents a raw (undecoded) PDF stream.
type Stream interface {
	Object
	Dictionary() Dictionary
	RawData() []byte
	Length() int64
}

// Name represents a PDF name object.
type Name interface {
	Object
	Value() string
}

// String represents a PDF string (literal or hex).
type String interface {
	Object
	Value() []byte
	IsHex() bool
}

// Number represents a PDF numeric value.
type Number interface {
	Object
	Int() int64
	Float() float64
	IsInteger() bool
}

// Boolean represents a PDF boolean.
type Boolean interface {
	Object
	Value() bool
}

// Null represents the PDF null object.
type Null interface{ Object }

// Reference represents an indirect object reference.
type Reference interface {
	Object
	Ref() ObjectRef
	// Owner returns the document the reference was created in, or nil when
	// the reference is unbound and belongs to whatever document holds it.
	Owner() *Document
}
