package scripting

import (
	"errors"
	"fmt"
	"time"

	"github.com/dop251/goja"

	"github.com/wudi/pdfgraph/clone"
	"github.com/wudi/pdfgraph/ir/raw"
)

// ErrScriptTimeout is returned when a filter hook runs longer than
// Filter.Timeout.
var ErrScriptTimeout = errors.New("script timed out")

// Filter is a clone.Filter whose hooks are JavaScript functions. The script
// may define any of
//
//	matches(obj)             -> bool
//	beforeEntry(key, value)  -> bool
//	beforeItem(index, item)  -> bool
//
// and hooks it leaves out behave like clone.BaseFilter. Values are passed
// as plain JS values; references arrive as {ref: "n g R", doc: id} and can
// be followed with resolve(value), which looks them up in the document
// they belong to.
//
// A script error does not abort the hook that hit it. It is held and
// returned from the next After hook, which makes the cloner fail. A Filter
// owns one JS runtime and must not be shared between goroutines.
type Filter struct {
	clone.BaseFilter

	// Timeout bounds each hook call. Zero means no limit.
	Timeout time.Duration

	vm          *goja.Runtime
	matches     goja.Callable
	beforeEntry goja.Callable
	beforeItem  goja.Callable

	scope clone.Scope
	docs  owners
	err   error
}

// NewFilter compiles source into a filter called name.
func NewFilter(name, source string) (*Filter, error) {
	f := &Filter{BaseFilter: clone.BaseFilter{FilterName: name}, vm: goja.New()}
	if err := f.vm.Set("resolve", f.resolve); err != nil {
		return nil, err
	}
	if _, err := f.vm.RunString(source); err != nil {
		return nil, fmt.Errorf("compile filter %s: %w", name, err)
	}
	f.matches = f.function("matches")
	f.beforeEntry = f.function("beforeEntry")
	f.beforeItem = f.function("beforeItem")
	return f, nil
}

func (f *Filter) function(name string) goja.Callable {
	fn, ok := goja.AssertFunction(f.vm.Get(name))
	if !ok {
		return nil
	}
	return fn
}

func (f *Filter) Matches(s clone.Scope, obj raw.Object) bool {
	if f.err != nil || f.matches == nil {
		return true
	}
	f.begin(s)
	return f.hook(f.matches, f.js(obj))
}

func (f *Filter) BeforeEntry(s clone.Scope, _ *raw.DictObj, key raw.NameObj, value raw.Object) bool {
	if f.err != nil || f.beforeEntry == nil {
		return true
	}
	f.begin(s)
	return f.hook(f.beforeEntry, key.Value(), f.js(value))
}

func (f *Filter) BeforeItem(s clone.Scope, _ *raw.ArrayObj, index int, item raw.Object) bool {
	if f.err != nil || f.beforeItem == nil {
		return true
	}
	f.begin(s)
	return f.hook(f.beforeItem, index, f.js(item))
}

func (f *Filter) AfterEntry(clone.Scope, *raw.DictObj, raw.NameObj, raw.Object) error {
	return f.takeErr()
}

func (f *Filter) AfterItem(clone.Scope, *raw.ArrayObj, int, raw.Object) error {
	return f.takeErr()
}

func (f *Filter) AfterClone(clone.Scope, raw.Object) error {
	return f.takeErr()
}

// begin starts a hook call. Owner tags only live for one call.
func (f *Filter) begin(s clone.Scope) {
	f.scope = s
	f.docs = owners{}
}

// js converts a hook argument; unbound references belong to the source.
func (f *Filter) js(obj raw.Object) interface{} {
	return convert(obj, f.scope.Source, f.docs)
}

func (f *Filter) takeErr() error {
	err := f.err
	f.err = nil
	return err
}

// hook calls fn and reports its result as a bool. On error it records the
// error and answers true so that an After hook of this filter runs.
func (f *Filter) hook(fn goja.Callable, args ...interface{}) bool {
	ok, err := f.call(fn, args...)
	if err != nil {
		f.err = fmt.Errorf("script filter %s: %w", f.Name(), err)
		return true
	}
	return ok
}

func (f *Filter) call(fn goja.Callable, args ...interface{}) (bool, error) {
	vals := make([]goja.Value, len(args))
	for i, a := range args {
		vals[i] = f.vm.ToValue(a)
	}
	if f.Timeout > 0 {
		timer := time.AfterFunc(f.Timeout, func() { f.vm.Interrupt(ErrScriptTimeout) })
		defer f.vm.ClearInterrupt()
		defer timer.Stop()
	}
	v, err := fn(goja.Undefined(), vals...)
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			if cause := interrupted.Unwrap(); cause != nil {
				return false, cause
			}
		}
		return false, err
	}
	return v.ToBoolean(), nil
}

// resolve is exposed to scripts. It follows {ref: "n g R", doc: id} in the
// document the reference came from and returns anything else unchanged.
// References without a known doc tag are looked up in the source document.
func (f *Filter) resolve(call goja.FunctionCall) goja.Value {
	arg := call.Argument(0)
	m, ok := arg.Export().(map[string]interface{})
	if !ok {
		return arg
	}
	s, ok := m["ref"].(string)
	if !ok {
		return arg
	}
	var ref raw.ObjectRef
	if _, err := fmt.Sscanf(s, "%d %d R", &ref.Num, &ref.Gen); err != nil {
		panic(f.vm.NewTypeError("resolve: bad reference %q", s))
	}
	owner := f.scope.Source
	if id, ok := m["doc"].(string); ok {
		if doc, ok := f.docs[id]; ok {
			owner = doc
		}
	}
	if owner == nil {
		return goja.Null()
	}
	if f.docs == nil {
		f.docs = owners{}
	}
	body := raw.Resolve(owner, raw.RefObj{R: ref, Doc: owner})
	return f.vm.ToValue(convert(body, owner, f.docs))
}
