// Package clone deep-copies raw object graphs into a destination document.
//
// Shared indirect objects are cloned once per destination: every source
// object imported through a Cloner is remembered for the Cloner's lifetime,
// and later references to it, through the same or a separate Clone call,
// reuse the destination slot. The slot is recorded before the object's body
// is cloned, so cyclic graphs terminate.
//
// References owned by the destination are copied as they are. References
// owned by another document pull their target into the destination.
//
// A call that fails leaves the destination without any slot it created: the
// slots are freed and forgotten, so retrying reports the same error.
// Changes filters made to existing destination objects are not undone.
//
// A Cloner is not safe for concurrent use.
package clone

import (
	"errors"
	"fmt"

	"github.com/wudi/pdfgraph/ir/raw"
	"github.com/wudi/pdfgraph/observability"
)

var (
	// ErrNilContext is returned by New when no destination document is given.
	ErrNilContext = errors.New("destination document required")
	// ErrUnsupportedKind is returned for object and cross-reference streams,
	// which only exist as save-time containers.
	ErrUnsupportedKind = errors.New("unsupported object kind")
	// ErrNotFound is returned by ImportObject for a missing source object.
	ErrNotFound = errors.New("indirect object not found")
)

// Config controls a Cloner.
type Config struct {
	// Filters overrides the built-in filter list when non-nil.
	Filters []Filter
	Logger  observability.Logger
}

// Stats counts what a Cloner has done so far.
type Stats struct {
	Imported  int // destination slots created
	MemoHits  int // source objects found already imported
	LocalRefs int // references copied without import
	Vetoed    int // entries and items left out by filters
	Dangling  int // references whose target does not exist
}

// Cloner copies objects into one destination document.
type Cloner struct {
	dst     *raw.Document
	filters []Filter
	memo    raw.ImportMemo
	logger  observability.Logger
	stats   Stats

	// journal lists keys imported during the current top-level call.
	journal []raw.ImportKey
	// deferred holds work waiting for a reserved slot to be filled.
	deferred map[raw.ObjectRef][]func() error
}

// New returns a Cloner bound to dst.
func New(dst *raw.Document, cfg Config) (*Cloner, error) {
	if dst == nil || dst.Objects == nil {
		return nil, ErrNilContext
	}
	filters := cfg.Filters
	if filters == nil {
		filters = DefaultFilters()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = observability.NopLogger{}
	}
	return &Cloner{
		dst:     dst,
		filters: append([]Filter(nil), filters...),
		memo:     make(raw.ImportMemo),
		deferred: make(map[raw.ObjectRef][]func() error),
		logger:  logger.With(observability.String("dst", dst.ID.String())),
	}, nil
}

// Context returns the destination document.
func (c *Cloner) Context() *raw.Document { return c.dst }

func (c *Cloner) Stats() Stats { return c.stats }

// Filters returns a copy of the filter list in evaluation order.
func (c *Cloner) Filters() []Filter { return append([]Filter(nil), c.filters...) }

func (c *Cloner) SetFilters(filters []Filter) { c.filters = append([]Filter(nil), filters...) }

func (c *Cloner) PrependFilter(f Filter) { c.filters = append([]Filter{f}, c.filters...) }

func (c *Cloner) AppendFilter(f Filter) { c.filters = append(c.filters, f) }

// RemoveFilter drops the first filter called name.
func (c *Cloner) RemoveFilter(name string) bool {
	for i, f := range c.filters {
		if f.Name() == name {
			c.filters = append(c.filters[:i:i], c.filters[i+1:]...)
			return true
		}
	}
	return false
}

// Lookup returns the destination slot created for ref of src, if any.
func (c *Cloner) Lookup(src *raw.Document, ref raw.ObjectRef) (raw.ObjectRef, bool) {
	dst, ok := c.memo[raw.ImportKey{Context: src.ID, Ref: ref}]
	return dst, ok
}

// Clone copies obj into the destination. Unbound references in obj are
// taken to belong to the destination.
func (c *Cloner) Clone(obj raw.Object) (raw.Object, error) {
	return c.atomic(func() (raw.Object, error) { return c.clone(c.dst, obj) })
}

// CloneFrom copies obj into the destination. Unbound references in obj are
// taken to belong to src.
func (c *Cloner) CloneFrom(src *raw.Document, obj raw.Object) (raw.Object, error) {
	if src == nil {
		src = c.dst
	}
	return c.atomic(func() (raw.Object, error) { return c.clone(src, obj) })
}

// ImportObject copies the indirect object ref of src into a destination
// slot and returns a reference to it. Unlike cloning a reference, this
// copies even when src is the destination, which duplicates the object
// within one document.
func (c *Cloner) ImportObject(src *raw.Document, ref raw.ObjectRef) (raw.RefObj, error) {
	if src == nil {
		src = c.dst
	}
	out, err := c.atomic(func() (raw.Object, error) {
		out, found, err := c.importObject(src, ref)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, fmt.Errorf("import %s: %w", ref, ErrNotFound)
		}
		return out, nil
	})
	if err != nil {
		return raw.RefObj{}, err
	}
	return out.(raw.RefObj), nil
}

// atomic runs one top-level operation. On failure every slot the operation
// imported is freed and dropped from the memo, and Stats are restored.
func (c *Cloner) atomic(op func() (raw.Object, error)) (raw.Object, error) {
	stats := c.stats
	out, err := op()
	if err != nil {
		for _, key := range c.journal {
			if ref, ok := c.memo[key]; ok {
				delete(c.memo, key)
				c.dst.Objects.Delete(ref)
			}
		}
		c.stats = stats
	}
	c.journal = c.journal[:0]
	clear(c.deferred)
	return out, err
}

// whenFilled runs fn once the destination slot ref holds its body. Slots
// still reserved by an import in progress, reached again through a cycle,
// run fn after that import stores the body.
func (c *Cloner) whenFilled(ref raw.ObjectRef, fn func() error) error {
	if !c.dst.Objects.Pending(ref) {
		return fn()
	}
	c.deferred[ref] = append(c.deferred[ref], fn)
	return nil
}

func (c *Cloner) clone(src *raw.Document, obj raw.Object) (raw.Object, error) {
	switch o := obj.(type) {
	case nil:
		return nil, nil
	case *raw.ObjectStreamObj, *raw.XRefStreamObj:
		return nil, fmt.Errorf("clone %s: %w", o.Kind(), ErrUnsupportedKind)
	case *raw.ArrayObj:
		return c.cloneArray(src, o)
	case *raw.DictObj:
		return c.cloneDict(src, o)
	case *raw.StreamObj:
		return c.cloneStream(src, o)
	case raw.RefObj:
		return c.cloneRef(src, o)
	case raw.StringObj:
		return raw.StringObj{Bytes: append([]byte(nil), o.Bytes...), Hex: o.Hex}, nil
	case raw.NameObj, raw.NumberObj, raw.BoolObj, raw.NullObj:
		return o, nil
	default:
		return nil, fmt.Errorf("clone %T: %w", obj, ErrUnsupportedKind)
	}
}

func (c *Cloner) scope(src *raw.Document) Scope { return Scope{Source: src, Target: c.dst, cloner: c} }

func (c *Cloner) cloneArray(src *raw.Document, a *raw.ArrayObj) (*raw.ArrayObj, error) {
	s := c.scope(src)
	f := matchFilter(c.filters, s, a)
	out := &raw.ArrayObj{Items: make([]raw.Object, 0, len(a.Items))}
	for i, item := range a.Items {
		if !f.BeforeItem(s, out, i, item) {
			c.veto(f, fmt.Sprintf("[%d]", i))
			continue
		}
		cloned, err := c.clone(src, item)
		if err != nil {
			return nil, fmt.Errorf("array item %d: %w", i, err)
		}
		out.Append(cloned)
		if err := f.AfterItem(s, out, i, cloned); err != nil {
			return nil, fmt.Errorf("filter %s: %w", f.Name(), err)
		}
	}
	if err := f.AfterClone(s, out); err != nil {
		return nil, fmt.Errorf("filter %s: %w", f.Name(), err)
	}
	return out, nil
}

func (c *Cloner) cloneDict(src *raw.Document, d *raw.DictObj) (*raw.DictObj, error) {
	s := c.scope(src)
	f := matchFilter(c.filters, s, d)
	out := raw.Dict()
	for _, k := range d.Keys() {
		key := raw.NameObj{Val: k.Value()}
		value := d.KV[key.Val]
		if !f.BeforeEntry(s, out, key, value) {
			c.veto(f, "/"+key.Val)
			continue
		}
		cloned, err := c.clone(src, value)
		if err != nil {
			return nil, fmt.Errorf("/%s: %w", key.Val, err)
		}
		out.KV[key.Val] = cloned
		if err := f.AfterEntry(s, out, key, cloned); err != nil {
			return nil, fmt.Errorf("filter %s: %w", f.Name(), err)
		}
	}
	if err := f.AfterClone(s, out); err != nil {
		return nil, fmt.Errorf("filter %s: %w", f.Name(), err)
	}
	return out, nil
}

func (c *Cloner) cloneStream(src *raw.Document, st *raw.StreamObj) (raw.Object, error) {
	if isSaveTimeStream(st) {
		return nil, fmt.Errorf("clone %s stream: %w", typeName(st.Dict), ErrUnsupportedKind)
	}
	header := st.Dict
	if header == nil {
		header = raw.Dict()
	}
	cloned, err := c.cloneDict(src, header)
	if err != nil {
		return nil, fmt.Errorf("stream header: %w", err)
	}
	return raw.NewStream(cloned, append([]byte(nil), st.Data...)), nil
}

func (c *Cloner) cloneRef(src *raw.Document, r raw.RefObj) (raw.Object, error) {
	owner := r.Doc
	if owner == nil {
		owner = src
	}
	if owner == nil || owner == c.dst {
		c.stats.LocalRefs++
		return r.Bind(c.dst), nil
	}
	out, found, err := c.importObject(owner, r.R)
	if err != nil {
		return nil, err
	}
	if !found {
		return raw.NullObj{}, nil
	}
	return out, nil
}

// importObject copies ref of src through the memo. found is false when src
// has no such object; nothing is allocated in that case.
func (c *Cloner) importObject(src *raw.Document, ref raw.ObjectRef) (out raw.RefObj, found bool, err error) {
	key := raw.ImportKey{Context: src.ID, Ref: ref}
	if dst, ok := c.memo[key]; ok {
		c.stats.MemoHits++
		return c.dst.Ref(dst), true, nil
	}

	body, ok := src.Objects.Get(ref)
	if !ok {
		c.stats.Dangling++
		c.logger.Warn("dangling reference", observability.String("src", src.ID.String()), observability.String("ref", ref.String()))
		return raw.RefObj{}, false, nil
	}
	if err := checkSupported(body); err != nil {
		return raw.RefObj{}, true, fmt.Errorf("import %s: %w", ref, err)
	}

	dst, _, err := c.dst.Objects.Import(c.memo, key, func(raw.ObjectRef) (raw.Object, error) {
		return c.clone(src, body)
	})
	if err != nil {
		return raw.RefObj{}, true, fmt.Errorf("import %s: %w", ref, err)
	}
	c.journal = append(c.journal, key)
	c.stats.Imported++
	waiting := c.deferred[dst]
	delete(c.deferred, dst)
	for _, fn := range waiting {
		if err := fn(); err != nil {
			return raw.RefObj{}, true, fmt.Errorf("import %s: %w", ref, err)
		}
	}
	c.logger.Debug("imported object",
		observability.String("src", src.ID.String()),
		observability.String("ref", ref.String()),
		observability.String("as", dst.String()),
	)
	return c.dst.Ref(dst), true, nil
}

func (c *Cloner) veto(f Filter, at string) {
	c.stats.Vetoed++
	c.logger.Debug("entry skipped", observability.String("filter", f.Name()), observability.String("at", at))
}

func checkSupported(obj raw.Object) error {
	switch o := obj.(type) {
	case *raw.ObjectStreamObj, *raw.XRefStreamObj:
		return fmt.Errorf("clone %s: %w", o.Kind(), ErrUnsupportedKind)
	case *raw.StreamObj:
		if isSaveTimeStream(o) {
			return fmt.Errorf("clone %s stream: %w", typeName(o.Dict), ErrUnsupportedKind)
		}
	}
	return nil
}

// isSaveTimeStream catches object and cross-reference streams that a parser
// left as plain streams.
func isSaveTimeStream(st *raw.StreamObj) bool {
	name := typeName(st.Dict)
	return name == "ObjStm" || name == "XRef"
}

func typeName(d *raw.DictObj) string {
	if d == nil {
		return ""
	}
	if n, ok := d.KV["Type"].(raw.Name); ok {
		return n.Value()
	}
	return ""
}
