package models

// Known content type tokens for packages and representations.
const (
	ContentTypeERMS  = "ERMS"
	ContentTypeSFSB  = "SFSB"
	ContentTypeRDBMS = "RDBMS"
	ContentTypeMixed = "MIXED"
	ContentTypeOther = "OTHER"
)

var knownContentTypes = map[string]bool{
	ContentTypeERMS:  true,
	ContentTypeSFSB:  true,
	ContentTypeRDBMS: true,
	ContentTypeMixed: true,
	ContentTypeOther: true,
}

// ContentType is a content type tag: either one of the known tokens or an
// arbitrary extension string. The extension string survives encode/decode
// verbatim.
type ContentType struct {
	value string
	other string
}

// NewContentType returns a known-token content type. Unknown tokens are
// stored as extension values.
func NewContentType(token string) ContentType {
	if knownContentTypes[token] {
		return ContentType{value: token}
	}
	return ContentType{value: ContentTypeOther, other: token}
}

// MixedContentType is the default content type for new packages.
func MixedContentType() ContentType {
	return ContentType{value: ContentTypeMixed}
}

// Token returns the string emitted into the structural document: the known
// token, or the raw extension value when one is set.
func (c ContentType) Token() string {
	if c.value == ContentTypeOther && c.other != "" {
		return c.other
	}
	if c.value == "" {
		return ContentTypeMixed
	}
	return c.value
}

// Value returns the known token ("OTHER" for extension values).
func (c ContentType) Value() string {
	if c.value == "" {
		return ContentTypeMixed
	}
	return c.value
}

// OtherValue returns the extension string, empty for known tokens.
func (c ContentType) OtherValue() string {
	return c.other
}

// IsOther reports whether this is an extension content type.
func (c ContentType) IsOther() bool {
	return c.value == ContentTypeOther && c.other != ""
}
