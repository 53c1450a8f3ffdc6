package raw

import (
	"fmt"
	"sort"
)

// Name object
type NameObj struct{ Val string }

func (n NameObj) Kind() Kind       { return KindName }
func (n NameObj) IsIndirect() bool { return false }
func (n NameObj) Value() string    { return n.Val }

// Number object
type NumberObj struct {
	I     int64
	F     float64
	IsInt bool
}

func (n NumberObj) Kind() Kind       { return KindNumber }
func (n NumberObj) IsIndirect() bool { return false }
func (n NumberObj) Int() int64 {
	if n.IsInt {
		return n.I
	}
	return int64(n.F)
}
func (n NumberObj) Float() float64 {
	if n.IsInt {
		return float64(n.I)
	}
	return n.F
}
func (n NumberObj) IsInteger() bool { return n.IsInt }

// Boolean object
type BoolObj struct{ V bool }

func (b BoolObj) Kind() Kind       { return KindBoolean }
func (b BoolObj) IsIndirect() bool { return false }
func (b BoolObj) Value() bool      { return b.V }

// Null object
type NullObj struct{}

func (n NullObj) Kind() Kind       { return KindNull }
func (n NullObj) IsIndirect() bool { return false }

// String object
type StringObj struct {
	Bytes []byte
	Hex   bool
}

func (s StringObj) Kind() Kind       { return KindString }
func (s StringObj) IsIndirect() bool { return false }
func (s StringObj) Value() []byte    { return s.Bytes }
func (s StringObj) IsHex() bool      { return s.Hex }

// Array object
type ArrayObj struct{ Items []Object }

func (a *ArrayObj) Kind() Kind       { return KindArray }
func (a *ArrayObj) IsIndirect() bool { return false }
func (a *ArrayObj) Get(i int) (Object, bool) {
	if i < 0 || i >= len(a.Items) {
		return nil, false
	}
	return a.Items[i], true
}
func (a *ArrayObj) Len() int        { return len(a.Items) }
func (a *ArrayObj) Append(o Object) { a.Items = append(a.Items, o) }

// Dictionary object. Keys are stored without the leading slash.
type DictObj struct{ KV map[string]Object }

func (d *DictObj) Kind() Kind                  { return KindDictionary }
func (d *DictObj) IsIndirect() bool            { return false }
func (d *DictObj) Get(key Name) (Object, bool) {
	o, ok := d.KV[key.Value()]
	return o, ok
}
func (d *DictObj) Set(key Name, value Object) {
	if d.KV == nil {
		d.KV = make(map[string]Object)
	}
	d.KV[key.Value()] = value
}
func (d *DictObj) Delete(key Name) bool {
	if _, ok := d.KV[key.Value()]; !ok {
		return false
	}
	delete(d.KV, key.Value())
	return true
}

// Keys returns the dictionary keys in lexical order.
func (d *DictObj) Keys() []Name {
	names := make([]string, 0, len(d.KV))
	for k := range d.KV {
		names = append(names, k)
	}
	sort.Strings(names)
	keys := make([]Name, len(names))
	for i, k := range names {
		keys[i] = NameObj{Val: k}
	}
	return keys
}
func (d *DictObj) Len() int { return len(d.KV) }

// Has reports whether key is present.
func (d *DictObj) Has(key string) bool {
	_, ok := d.KV[key]
	return ok
}

// Lookup is Get with a plain string key.
func (d *DictObj) Lookup(key string) (Object, bool) {
	o, ok := d.KV[key]
	return o, ok
}

// Stream object
type StreamObj struct {
	Dict *DictObj
	Data []byte
}

func (s *StreamObj) Kind() Kind             { return KindStream }
func (s *StreamObj) IsIndirect() bool       { return false }
func (s *StreamObj) Dictionary() Dictionary { return s.Dict }
func (s *StreamObj) RawData() []byte        { return s.Data }
func (s *StreamObj) Length() int64          { return int64(len(s.Data)) }

// ObjectStreamObj is a compressed object stream (/Type /ObjStm). It is only
// synthesized at save time and has no meaning as document content.
type ObjectStreamObj struct{ StreamObj }

func (s *ObjectStreamObj) Kind() Kind { return KindObjectStream }

// XRefStreamObj is a cross-reference stream (/Type /XRef).
type XRefStreamObj struct{ StreamObj }

func (s *XRefStreamObj) Kind() Kind { return KindXRefStream }

// Reference object. Doc is nil for unbound references.
type RefObj struct {
	R   ObjectRef
	Doc *Document
}

func (r RefObj) Kind() Kind       { return KindReference }
func (r RefObj) IsIndirect() bool { return true }
func (r RefObj) Ref() ObjectRef   { return r.R }
func (r RefObj) Owner() *Document { return r.Doc }
func (r RefObj) String() string   { return r.R.String() }

// Bind returns a copy of r owned by doc.
func (r RefObj) Bind(doc *Document) RefObj { return RefObj{R: r.R, Doc: doc} }

// Helpers
func NameLiteral(v string) NameObj                    { return NameObj{Val: v} }
func NumberInt(i int64) NumberObj                     { return NumberObj{I: i, IsInt: true} }
func NumberFloat(f float64) NumberObj                 { return NumberObj{F: f, IsInt: false} }
func Bool(v bool) BoolObj                             { return BoolObj{V: v} }
func Str(bytes []byte) StringObj                      { return StringObj{Bytes: bytes} }
func NewArray(items ...Object) *ArrayObj              { return &ArrayObj{Items: items} }
func Dict() *DictObj                                  { return &DictObj{KV: make(map[string]Object)} }
func NewStream(dict *DictObj, data []byte) *StreamObj { return &StreamObj{Dict: dict, Data: data} }
func Ref(num, gen int) RefObj                         { return RefObj{R: ObjectRef{Num: num, Gen: gen}} }

// NewObjectStream wraps dict and data as an object stream.
func NewObjectStream(dict *DictObj, data []byte) *ObjectStreamObj {
	return &ObjectStreamObj{StreamObj{Dict: dict, Data: data}}
}

// NewXRefStream wraps dict and data as a cross-reference stream.
func NewXRefStream(dict *DictObj, data []byte) *XRefStreamObj {
	return &XRefStreamObj{StreamObj{Dict: dict, Data: data}}
}

// DictOf builds a dictionary from alternating string keys and Object
// values. A nil value is stored as a nil entry. It panics on an odd
// argument count or a mistyped pair.
func DictOf(pairs ...interface{}) *DictObj {
	if len(pairs)%2 != 0 {
		panic(fmt.Sprintf("raw.DictOf: odd argument count %d", len(pairs)))
	}
	d := Dict()
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("raw.DictOf: key at %d is %T, want string", i, pairs[i]))
		}
		var val Object
		if pairs[i+1] != nil {
			if val, ok = pairs[i+1].(Object); !ok {
				panic(fmt.Sprintf("raw.DictOf: value for %q is %T, want raw.Object", key, pairs[i+1]))
			}
		}
		d.KV[key] = val
	}
	return d
}

// IsName reports whether obj is a name equal to v.
func IsName(obj Object, v string) bool {
	n, ok := obj.(Name)
	return ok && n.Value() == v
}
