package raw

import (
	"sort"
	"sync"
)

// ImportKey identifies a source indirect object across documents.
type ImportKey struct {
	Context ContextID
	Ref     ObjectRef
}

// ImportMemo maps source objects to the destination slots created for them.
// The memo is owned by the importer; the table only reads and extends it.
type ImportMemo map[ImportKey]ObjectRef

// Table is the indirect object table of a single document. Allocation and
// lookups are serialized so other code may register objects while a clone
// is in progress.
type Table struct {
	mu      sync.RWMutex
	objects map[ObjectRef]Object
	pending map[ObjectRef]struct{}
	nextNum int
}

// NewTable returns an empty table whose first allocated object number is 1.
func NewTable() *Table {
	return &Table{objects: make(map[ObjectRef]Object), pending: make(map[ObjectRef]struct{}), nextNum: 1}
}

// TableFrom adopts an existing object map, e.g. the output of a parser.
// New numbers are allocated past the highest number already present.
func TableFrom(objects map[ObjectRef]Object) *Table {
	t := NewTable()
	for ref, obj := range objects {
		t.objects[ref] = obj
		if ref.Num >= t.nextNum {
			t.nextNum = ref.Num + 1
		}
	}
	return t
}

func (t *Table) nextRef() ObjectRef {
	ref := ObjectRef{Num: t.nextNum, Gen: 0}
	t.nextNum++
	return ref
}

// Register stores body in a fresh slot.
func (t *Table) Register(body Object) ObjectRef {
	t.mu.Lock()
	defer t.mu.Unlock()
	ref := t.nextRef()
	t.objects[ref] = body
	return ref
}

// Reserve allocates a fresh slot holding null, to be filled by Set.
func (t *Table) Reserve() ObjectRef {
	t.mu.Lock()
	defer t.mu.Unlock()
	ref := t.nextRef()
	t.objects[ref] = NullObj{}
	t.pending[ref] = struct{}{}
	return ref
}

// Pending reports whether ref was reserved and has not been filled yet.
func (t *Table) Pending(ref ObjectRef) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.pending[ref]
	return ok
}

// Set replaces the body of ref.
func (t *Table) Set(ref ObjectRef, body Object) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.objects[ref] = body
	delete(t.pending, ref)
	if ref.Num >= t.nextNum {
		t.nextNum = ref.Num + 1
	}
}

// Get returns the current body of ref.
func (t *Table) Get(ref ObjectRef) (Object, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	obj, ok := t.objects[ref]
	return obj, ok
}

// Delete frees ref. Object numbers are never reused.
func (t *Table) Delete(ref ObjectRef) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.objects[ref]; !ok {
		return false
	}
	delete(t.objects, ref)
	delete(t.pending, ref)
	return true
}

func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.objects)
}

// Refs returns all allocated references ordered by number then generation.
func (t *Table) Refs() []ObjectRef {
	t.mu.RLock()
	refs := make([]ObjectRef, 0, len(t.objects))
	for ref := range t.objects {
		refs = append(refs, ref)
	}
	t.mu.RUnlock()
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Num != refs[j].Num {
			return refs[i].Num < refs[j].Num
		}
		return refs[i].Gen < refs[j].Gen
	})
	return refs
}

// Import returns the slot memo holds for key, or reserves a new one, records
// it in memo and fills it with the body produced by fill. The slot is
// recorded before fill runs so a graph that leads back to key finds it.
// created reports whether fill was invoked. When fill fails the slot is
// freed and key is removed from memo, so a later Import starts over.
func (t *Table) Import(memo ImportMemo, key ImportKey, fill func(ObjectRef) (Object, error)) (ref ObjectRef, created bool, err error) {
	if ref, ok := memo[key]; ok {
		return ref, false, nil
	}
	ref = t.Reserve()
	memo[key] = ref
	body, err := fill(ref)
	if err != nil {
		delete(memo, key)
		t.Delete(ref)
		return ObjectRef{}, true, err
	}
	t.Set(ref, body)
	return ref, true, nil
}
