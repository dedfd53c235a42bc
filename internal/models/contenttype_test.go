package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKnownContentType(t *testing.T) {
	ct := NewContentType("MIXED")
	assert.Equal(t, ContentTypeMixed, ct.Value())
	assert.Equal(t, "MIXED", ct.Token())
	assert.False(t, ct.IsOther())
}

func TestExtensionContentTypeSurvivesVerbatim(t *testing.T) {
	ct := NewContentType("FOO")
	assert.True(t, ct.IsOther())
	assert.Equal(t, "FOO", ct.OtherValue())
	assert.Equal(t, "FOO", ct.Token())

	// decoding the emitted token again yields the same extension value
	again := NewContentType(ct.Token())
	assert.Equal(t, "FOO", again.OtherValue())
}

func TestMetadataTypeLookupIsCaseInsensitive(t *testing.T) {
	mt := NewMetadataType("ead")
	assert.Equal(t, "EAD", mt.Value())
	assert.False(t, mt.IsOther())
}

func TestUnknownMetadataTypeBecomesOther(t *testing.T) {
	mt := NewMetadataType("MYSCHEMA")
	assert.Equal(t, MetadataTypeOther, mt.Value())
	assert.Equal(t, "MYSCHEMA", mt.OtherValue())

	assert.False(t, IsKnownMetadataType("MYSCHEMA"))
	assert.True(t, IsKnownMetadataType("premis"))
}
