package clone

import (
	"fmt"

	"github.com/wudi/pdfgraph/forms"
	"github.com/wudi/pdfgraph/ir/raw"
)

type pageFilter struct{ BaseFilter }

// PageFilter keeps a cloned page from dragging its ancestors along by
// dropping the /Parent entry of /Type /Page dictionaries.
func PageFilter() Filter { return pageFilter{BaseFilter{FilterName: "Page"}} }

func (pageFilter) Matches(_ Scope, obj raw.Object) bool {
	d, ok := obj.(*raw.DictObj)
	return ok && raw.IsName(d.KV["Type"], "Page")
}

func (pageFilter) BeforeEntry(_ Scope, _ *raw.DictObj, key raw.NameObj, _ raw.Object) bool {
	return key.Val != "Parent"
}

type annotationsFilter struct{ BaseFilter }

// AnnotationsFilter recognizes annotation arrays by the shape of their first
// element and adds every cloned annotation carrying /FT to the destination's
// form field index.
func AnnotationsFilter() Filter { return annotationsFilter{BaseFilter{FilterName: "Annots"}} }

func (annotationsFilter) Matches(s Scope, obj raw.Object) bool {
	a, ok := obj.(*raw.ArrayObj)
	if !ok || len(a.Items) == 0 {
		return false
	}
	first, ok := s.ResolveSource(a.Items[0]).(*raw.DictObj)
	return ok && first.Has("Subtype") && first.Has("Rect")
}

func (annotationsFilter) AfterItem(s Scope, parent *raw.ArrayObj, index int, item raw.Object) error {
	ref, ok := item.(raw.RefObj)
	if !ok {
		annot, ok := item.(*raw.DictObj)
		if !ok || !annot.Has("FT") {
			return nil
		}
		// Field entries must be indirect.
		ref = s.Target.Register(annot)
		parent.Items[len(parent.Items)-1] = ref
		return registerField(s, ref, index)
	}
	return s.WhenFilled(ref, func() error {
		annot, ok := s.ResolveTarget(ref).(*raw.DictObj)
		if !ok || !annot.Has("FT") {
			return nil
		}
		return registerField(s, ref, index)
	})
}

func registerField(s Scope, ref raw.RefObj, index int) error {
	ix, err := forms.Open(s.Target)
	if err != nil {
		return fmt.Errorf("register field for annotation %d: %w", index, err)
	}
	if _, err := ix.Add(ref); err != nil {
		return fmt.Errorf("register field for annotation %d: %w", index, err)
	}
	return nil
}
