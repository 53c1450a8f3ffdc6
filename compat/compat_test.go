package compat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wudi/pdfgraph/ir/raw"
)

func TestParse(t *testing.T) {
	cases := map[string]Version{
		"1.7":      PDF17,
		"%PDF-1.4": PDF14,
		" 2.0 ":    PDF20,
	}
	for in, want := range cases {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "17", "1.x", "a.1"} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}

func TestCompare(t *testing.T) {
	assert.Equal(t, -1, PDF13.Compare(PDF14))
	assert.Equal(t, 1, PDF20.Compare(PDF17))
	assert.Equal(t, 0, PDF15.Compare(Version{1, 5}))
	assert.Equal(t, "1.7", PDF17.String())
}

func TestCheckModes(t *testing.T) {
	t.Run("passthrough", func(t *testing.T) {
		doc := raw.NewDocument("1.2")
		require.NoError(t, Checker{Mode: Passthrough}.Check(doc, FeatureDocumentParts))
		assert.Equal(t, "1.2", doc.Version)
	})
	t.Run("loose raises version", func(t *testing.T) {
		doc := raw.NewDocument("1.2")
		require.NoError(t, Checker{Mode: Loose}.Check(doc, FeatureFileAttachment, FeatureOptionalContent, FeatureAcroForm))
		assert.Equal(t, "1.5", doc.Version)
	})
	t.Run("strict rejects", func(t *testing.T) {
		doc := raw.NewDocument("1.2")
		err := Checker{Mode: Strict}.Check(doc, FeatureFileAttachment)
		assert.ErrorIs(t, err, ErrIncompatible)
		assert.Equal(t, "1.2", doc.Version)
	})
	t.Run("compatible passes", func(t *testing.T) {
		doc := raw.NewDocument("1.7")
		assert.NoError(t, Checker{Mode: Strict}.Check(doc, FeatureFileAttachment, FeatureRedaction))
	})
	t.Run("unknown feature", func(t *testing.T) {
		err := Checker{Mode: Strict}.Check(raw.NewDocument("1.7"), Feature("Hologram"))
		assert.ErrorIs(t, err, ErrUnknownFeature)
	})
	t.Run("missing version counts as 1.0", func(t *testing.T) {
		doc := raw.NewDocument("")
		require.NoError(t, Checker{Mode: Loose}.Check(doc, FeatureAcroForm))
		assert.Equal(t, "1.2", doc.Version)
	})
}

func TestEveryFeatureHasRequirement(t *testing.T) {
	for _, f := range []Feature{
		FeatureAnnotations, FeatureAcroForm, FeatureFileAttachment, FeatureMetadataStream,
		FeatureTransparency, FeatureObjectStreams, FeatureOptionalContent, FeatureXRefStreams,
		FeatureRichMedia, FeatureRedaction, FeatureCollections, FeatureAES256,
		FeatureDocumentParts, FeatureAssociatedFiles, FeatureUnencryptedPayload,
	} {
		_, ok := Requirements[f]
		assert.True(t, ok, f)
	}
}
