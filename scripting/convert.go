package scripting

import "github.com/wudi/pdfgraph/ir/raw"

// owners maps the "doc" tag of converted references back to documents.
type owners map[string]*raw.Document

// toJS converts obj to the plain value scripts see. References are not
// followed; they become {ref: "n g R"}. A stream is its header entries
// plus stream.length, the size of the raw data.
func toJS(obj raw.Object) interface{} { return convert(obj, nil, nil) }

// convert is toJS with reference owners recorded in docs. Each reference
// gets a "doc" tag naming its document, or home when it is unbound.
func convert(obj raw.Object, home *raw.Document, docs owners) interface{} {
	switch o := obj.(type) {
	case nil, raw.NullObj:
		return nil
	case raw.BoolObj:
		return o.Value()
	case raw.NumberObj:
		if o.IsInteger() {
			return o.Int()
		}
		return o.Float()
	case raw.NameObj:
		return o.Value()
	case raw.StringObj:
		return string(o.Value())
	case raw.RefObj:
		out := map[string]interface{}{"ref": o.R.String()}
		owner := o.Doc
		if owner == nil {
			owner = home
		}
		if owner != nil && docs != nil {
			id := owner.ID.String()
			docs[id] = owner
			out["doc"] = id
		}
		return out
	case *raw.ArrayObj:
		out := make([]interface{}, len(o.Items))
		for i, item := range o.Items {
			out[i] = convert(item, home, docs)
		}
		return out
	case *raw.DictObj:
		return convertDict(o, home, docs)
	case raw.Stream:
		out := map[string]interface{}{}
		if d, ok := o.Dictionary().(*raw.DictObj); ok && d != nil {
			out = convertDict(d, home, docs)
		}
		out["stream"] = map[string]interface{}{"length": len(o.RawData())}
		return out
	}
	return nil
}

func convertDict(d *raw.DictObj, home *raw.Document, docs owners) map[string]interface{} {
	out := make(map[string]interface{}, len(d.KV))
	for k, v := range d.KV {
		out[k] = convert(v, home, docs)
	}
	return out
}
