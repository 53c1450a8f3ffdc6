// Package compat checks document features against the PDF version that
// introduced them.
package compat

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/wudi/pdfgraph/ir/raw"
)

var (
	// ErrIncompatible is returned in Strict mode when a feature needs a newer
	// version than the document declares.
	ErrIncompatible = errors.New("feature requires a newer PDF version")
	// ErrUnknownFeature is returned for features missing from Requirements.
	ErrUnknownFeature = errors.New("unknown feature")
)

// Version is a PDF version number.
type Version struct {
	Major, Minor int
}

var (
	PDF10 = Version{1, 0}
	PDF11 = Version{1, 1}
	PDF12 = Version{1, 2}
	PDF13 = Version{1, 3}
	PDF14 = Version{1, 4}
	PDF15 = Version{1, 5}
	PDF16 = Version{1, 6}
	PDF17 = Version{1, 7}
	PDF20 = Version{2, 0}
)

// Parse reads "M.m". A leading "PDF-" or "%PDF-" is accepted.
func Parse(s string) (Version, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "%"), "PDF-")
	major, minor, ok := strings.Cut(s, ".")
	if !ok {
		return Version{}, fmt.Errorf("parse version %q: missing minor number", s)
	}
	ma, err := strconv.Atoi(major)
	if err != nil {
		return Version{}, fmt.Errorf("parse version %q: %w", s, err)
	}
	mi, err := strconv.Atoi(minor)
	if err != nil {
		return Version{}, fmt.Errorf("parse version %q: %w", s, err)
	}
	return Version{Major: ma, Minor: mi}, nil
}

func (v Version) String() string { return fmt.Sprintf("%d.%d", v.Major, v.Minor) }

// Compare returns -1, 0 or 1.
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		if v.Major < o.Major {
			return -1
		}
		return 1
	case v.Minor < o.Minor:
		return -1
	case v.Minor > o.Minor:
		return 1
	}
	return 0
}

// Feature names a versioned part of the format.
type Feature string

const (
	FeatureAnnotations        Feature = "Annotations"
	FeatureAcroForm           Feature = "AcroForm"
	FeatureFileAttachment     Feature = "FileAttachment"
	FeatureMetadataStream     Feature = "MetadataStream"
	FeatureTransparency       Feature = "Transparency"
	FeatureObjectStreams      Feature = "ObjectStreams"
	FeatureOptionalContent    Feature = "OptionalContent"
	FeatureXRefStreams        Feature = "XRefStreams"
	FeatureRichMedia          Feature = "RichMedia"
	FeatureRedaction          Feature = "Redaction"
	FeatureCollections        Feature = "Collections"
	FeatureAES256             Feature = "AES256"
	FeatureDocumentParts      Feature = "DocumentParts"
	FeatureAssociatedFiles    Feature = "AssociatedFiles"
	FeatureUnencryptedPayload Feature = "UnencryptedPayload"
)

// Requirements maps each feature to the first version that defines it.
var Requirements = map[Feature]Version{
	FeatureAnnotations:        PDF10,
	FeatureAcroForm:           PDF12,
	FeatureFileAttachment:     PDF13,
	FeatureMetadataStream:     PDF14,
	FeatureTransparency:       PDF14,
	FeatureObjectStreams:      PDF15,
	FeatureOptionalContent:    PDF15,
	FeatureXRefStreams:        PDF15,
	FeatureRichMedia:          PDF17,
	FeatureRedaction:          PDF17,
	FeatureCollections:        PDF17,
	FeatureAES256:             PDF17,
	FeatureDocumentParts:      PDF20,
	FeatureAssociatedFiles:    PDF20,
	FeatureUnencryptedPayload: PDF20,
}

// Mode selects what happens when a feature is newer than the document.
type Mode int

const (
	// Passthrough skips all checks.
	Passthrough Mode = iota
	// Loose raises the document version to the feature's version.
	Loose
	// Strict rejects the feature.
	Strict
)

func (m Mode) String() string {
	switch m {
	case Passthrough:
		return "Passthrough"
	case Loose:
		return "Loose"
	case Strict:
		return "Strict"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Checker applies a Mode to documents.
type Checker struct {
	Mode Mode
}

// Check verifies every feature against doc.Version. In Loose mode the
// document version is raised as needed; an empty doc.Version counts as 1.0.
func (c Checker) Check(doc *raw.Document, features ...Feature) error {
	if c.Mode == Passthrough || len(features) == 0 {
		return nil
	}
	current := PDF10
	if doc.Version != "" {
		v, err := Parse(doc.Version)
		if err != nil {
			return err
		}
		current = v
	}
	for _, feature := range features {
		required, ok := Requirements[feature]
		if !ok {
			return fmt.Errorf("%s: %w", feature, ErrUnknownFeature)
		}
		if current.Compare(required) >= 0 {
			continue
		}
		switch c.Mode {
		case Loose:
			current = required
			doc.Version = required.String()
		case Strict:
			return fmt.Errorf("%s needs %s, document is %s: %w", feature, required, current, ErrIncompatible)
		default:
			return fmt.Errorf("unhandled compatibility mode %s", c.Mode)
		}
	}
	return nil
}
