package wrapper

import (
	"fmt"

	"github.com/wudi/pdfgraph/clone"
	"github.com/wudi/pdfgraph/compat"
	"github.com/wudi/pdfgraph/ir/raw"
)

// IconType is the icon a viewer shows for a file attachment annotation.
type IconType string

const (
	IconGraph     IconType = "Graph"
	IconPaperClip IconType = "Paperclip"
	IconPushPin   IconType = "PushPin"
	IconTag       IconType = "Tag"
)

func iconTypeOf(name string) (IconType, bool) {
	switch t := IconType(name); t {
	case IconGraph, IconPaperClip, IconPushPin, IconTag:
		return t, true
	}
	return "", false
}

// FileAttachment wraps a /Subtype /FileAttachment annotation.
type FileAttachment struct{ Base }

// NewFileAttachment creates the annotation on page, referencing fileSpec.
func NewFileAttachment(page *Page, box [4]float64, fileSpec raw.Object, checker compat.Checker) (*FileAttachment, error) {
	doc := page.Document()
	if err := page.CheckCompatibility(checker, compat.FeatureAnnotations, compat.FeatureFileAttachment); err != nil {
		return nil, fmt.Errorf("new file attachment: %w", err)
	}
	a := &FileAttachment{Register(doc, raw.DictOf(
		"Type", raw.NameLiteral("Annot"),
		"Subtype", raw.NameLiteral("FileAttachment"),
		"Rect", rect(box),
		"P", page.Object(),
		"FS", fileSpec,
	))}
	if err := page.AddAnnotation(a.Object()); err != nil {
		return nil, fmt.Errorf("new file attachment: %w", err)
	}
	return a, nil
}

// WrapFileAttachment wraps an existing annotation.
func WrapFileAttachment(doc *raw.Document, obj raw.Object) *FileAttachment {
	return &FileAttachment{Wrap(doc, obj)}
}

// NewEmbeddedFile stores data as an embedded file stream and returns an
// indirect file specification naming it.
func NewEmbeddedFile(doc *raw.Document, name string, data []byte) raw.RefObj {
	stream := doc.Register(raw.NewStream(raw.DictOf(
		"Type", raw.NameLiteral("EmbeddedFile"),
		"Length", raw.NumberInt(int64(len(data))),
	), data))
	return doc.Register(raw.DictOf(
		"Type", raw.NameLiteral("Filespec"),
		"F", raw.Str([]byte(name)),
		"EF", raw.DictOf("F", stream),
	))
}

// FileSpec returns the /FS entry as stored.
func (a *FileAttachment) FileSpec() raw.Object {
	d, ok := a.Dictionary()
	if !ok {
		return nil
	}
	return d.KV["FS"]
}

func (a *FileAttachment) SetFileSpec(fs raw.Object) error {
	d, ok := a.Dictionary()
	if !ok {
		return fmt.Errorf("set file spec: %w", ErrNoDictionary)
	}
	d.Set(raw.NameLiteral("FS"), fs)
	return nil
}

// Icon returns the /Name icon. An absent entry means PushPin; an
// unrecognized one reports false.
func (a *FileAttachment) Icon() (IconType, bool) {
	n, ok := a.entry("Name").(raw.Name)
	if !ok {
		return IconPushPin, true
	}
	return iconTypeOf(n.Value())
}

func (a *FileAttachment) SetIcon(icon IconType) error {
	d, ok := a.Dictionary()
	if !ok {
		return fmt.Errorf("set icon: %w", ErrNoDictionary)
	}
	d.Set(raw.NameLiteral("Name"), raw.NameLiteral(string(icon)))
	return nil
}

// Clone is not supported for file attachments; clone the owning page.
func (a *FileAttachment) Clone(*clone.Cloner) (*FileAttachment, error) {
	return nil, fmt.Errorf("clone file attachment: %w", ErrNotImplemented)
}
