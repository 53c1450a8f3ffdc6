package clone

import "github.com/wudi/pdfgraph/ir/raw"

// Scope is passed to every filter call.
type Scope struct {
	// Source is the document unbound references in the source graph belong to.
	Source *raw.Document
	// Target is the destination document.
	Target *raw.Document

	cloner *Cloner
}

// ResolveSource follows a source-side reference.
func (s Scope) ResolveSource(obj raw.Object) raw.Object { return raw.Resolve(s.Source, obj) }

// ResolveTarget follows a reference produced by the cloner. A slot still
// being filled resolves to null; see WhenFilled.
func (s Scope) ResolveTarget(obj raw.Object) raw.Object { return raw.Resolve(s.Target, obj) }

// WhenFilled runs fn as soon as the destination slot of ref holds its body.
// That is immediately, unless ref was reached through a cycle while its own
// import is still in progress.
func (s Scope) WhenFilled(ref raw.RefObj, fn func() error) error {
	if s.cloner == nil {
		return fn()
	}
	return s.cloner.whenFilled(ref.R, fn)
}

// Filter customizes how matching arrays and dictionaries are cloned.
//
// Before hooks receive the destination container under construction and the
// source value; returning false leaves the entry out without cloning it.
// After hooks receive the cloned value. Filters must not modify the source
// graph.
type Filter interface {
	Name() string
	Matches(s Scope, obj raw.Object) bool

	BeforeEntry(s Scope, parent *raw.DictObj, key raw.NameObj, value raw.Object) bool
	AfterEntry(s Scope, parent *raw.DictObj, key raw.NameObj, value raw.Object) error

	BeforeItem(s Scope, parent *raw.ArrayObj, index int, item raw.Object) bool
	AfterItem(s Scope, parent *raw.ArrayObj, index int, item raw.Object) error

	// AfterClone runs once the whole array or dictionary has been cloned.
	AfterClone(s Scope, obj raw.Object) error
}

// BaseFilter matches everything and changes nothing. Embed it to override
// only the hooks a filter needs.
type BaseFilter struct {
	FilterName string
}

func (f BaseFilter) Name() string                     { return f.FilterName }
func (BaseFilter) Matches(Scope, raw.Object) bool     { return true }
func (BaseFilter) AfterClone(Scope, raw.Object) error { return nil }

func (BaseFilter) BeforeEntry(Scope, *raw.DictObj, raw.NameObj, raw.Object) bool { return true }
func (BaseFilter) AfterEntry(Scope, *raw.DictObj, raw.NameObj, raw.Object) error { return nil }
func (BaseFilter) BeforeItem(Scope, *raw.ArrayObj, int, raw.Object) bool         { return true }
func (BaseFilter) AfterItem(Scope, *raw.ArrayObj, int, raw.Object) error         { return nil }

var defaultFilter Filter = BaseFilter{FilterName: "Default"}

// DefaultFilters returns a fresh copy of the built-in filter list.
func DefaultFilters() []Filter {
	return []Filter{PageFilter(), AnnotationsFilter()}
}

func matchFilter(filters []Filter, s Scope, obj raw.Object) Filter {
	for _, f := range filters {
		if f.Matches(s, obj) {
			return f
		}
	}
	return defaultFilter
}
