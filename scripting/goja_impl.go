package scripting

import (
	"context"

	"github.com/dop251/goja"
)

type GojaEngine struct {
	vm *goja.Runtime
}

func NewEngine() *GojaEngine {
	vm := goja.New()
	return &GojaEngine{vm: vm}
}

func (e *GojaEngine) Execute(ctx context.Context, script string) (interface{}, error) {
	val, err := run(ctx, e.vm, script)
	if err != nil {
		return nil, err
	}
	return val.Export(), nil
}

// run executes script on vm, interrupting it when ctx is done.
func run(ctx context.Context, vm *goja.Runtime, script string) (goja.Value, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	defer close(done)
	defer vm.ClearInterrupt()

	go func() {
		select {
		case <-ctx.Done():
			vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	val, err := vm.RunString(script)
	if err != nil {
		if interruptedErr, ok := err.(*goja.InterruptedError); ok {
			if cause := interruptedErr.Unwrap(); cause != nil {
				return nil, cause
			}
			return nil, context.Canceled
		}
		return nil, err
	}
	return val, nil
}

// RegisterDOM defines app.alert, getObject(num, gen) and trailer().
func (e *GojaEngine) RegisterDOM(dom PDFDOM) error {
	appObj := e.vm.NewObject()
	err := appObj.Set("alert", func(call goja.FunctionCall) goja.Value {
		msg := ""
		if len(call.Arguments) > 0 {
			msg = call.Arguments[0].String()
		}
		dom.Alert(msg)
		return goja.Undefined()
	})
	if err != nil {
		return err
	}
	if err := e.vm.Set("app", appObj); err != nil {
		return err
	}

	err = e.vm.Set("getObject", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Undefined()
		}
		gen := 0
		if len(call.Arguments) > 1 {
			gen = int(call.Arguments[1].ToInteger())
		}
		obj, ok := dom.GetObject(int(call.Arguments[0].ToInteger()), gen)
		if !ok {
			return goja.Null()
		}
		return e.vm.ToValue(toJS(obj))
	})
	if err != nil {
		return err
	}

	return e.vm.Set("trailer", func(goja.FunctionCall) goja.Value {
		t := dom.Trailer()
		if t == nil {
			return goja.Null()
		}
		return e.vm.ToValue(toJS(t))
	})
}
