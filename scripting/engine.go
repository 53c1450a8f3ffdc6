// Package scripting runs JavaScript against raw documents. Besides the
// general Engine it offers Filter, a clone.Filter whose hooks are written
// in JavaScript.
package scripting

import (
	"context"

	"github.com/wudi/pdfgraph/ir/raw"
	"github.com/wudi/pdfgraph/observability"
)

// Engine represents a scripting engine.
type Engine interface {
	// Execute runs script and returns its completion value.
	Execute(ctx context.Context, script string) (interface{}, error)

	// RegisterDOM exposes dom to subsequent scripts.
	RegisterDOM(dom PDFDOM) error
}

// PDFDOM is the document surface visible to scripts.
type PDFDOM interface {
	// GetObject returns the indirect object num gen.
	GetObject(num, gen int) (raw.Object, bool)

	// Trailer returns the trailer dictionary, if any.
	Trailer() *raw.DictObj

	// Alert reports a message from a script.
	Alert(message string)
}

// DocumentDOM serves a raw.Document to scripts. Alerts go to Logger.
type DocumentDOM struct {
	Doc    *raw.Document
	Logger observability.Logger
}

func (d DocumentDOM) GetObject(num, gen int) (raw.Object, bool) {
	return d.Doc.Objects.Get(raw.ObjectRef{Num: num, Gen: gen})
}

func (d DocumentDOM) Trailer() *raw.DictObj { return d.Doc.Trailer }

func (d DocumentDOM) Alert(message string) {
	if d.Logger == nil {
		return
	}
	d.Logger.Info("script alert", observability.String("doc", d.Doc.ID.String()), observability.String("message", message))
}
