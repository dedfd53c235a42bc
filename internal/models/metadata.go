package models

import "strings"

// Known MDTYPE tokens, per the METS vocabulary.
var knownMetadataTypes = map[string]bool{
	"MARC":       true,
	"MODS":       true,
	"EAD":        true,
	"DC":         true,
	"NISOIMG":    true,
	"LC-AV":      true,
	"VRA":        true,
	"TEIHDR":     true,
	"DDI":        true,
	"FGDC":       true,
	"LOM":        true,
	"PREMIS":     true,
	"TEXTMD":     true,
	"METSRIGHTS": true,
	"NAP":        true,
	"EAC-CPF":    true,
	"LIDO":       true,
	"OTHER":      true,
}

// MetadataTypeOther is the fallback token for unrecognized metadata types.
const MetadataTypeOther = "OTHER"

// MetadataType is a descriptive metadata type tag: a known MDTYPE token or an
// extension value carried through OTHERMDTYPE.
type MetadataType struct {
	value string
	other string
}

// NewMetadataType returns a metadata type for the given token. The lookup is
// case-insensitive; unknown tokens become OTHER with the raw value retained.
func NewMetadataType(token string) MetadataType {
	upper := strings.ToUpper(token)
	if knownMetadataTypes[upper] {
		return MetadataType{value: upper}
	}
	return MetadataType{value: MetadataTypeOther, other: token}
}

// OtherMetadataType returns the OTHER metadata type carrying a raw extension
// value.
func OtherMetadataType(raw string) MetadataType {
	return MetadataType{value: MetadataTypeOther, other: raw}
}

// IsKnownMetadataType reports whether token is a known MDTYPE value
// (case-insensitive).
func IsKnownMetadataType(token string) bool {
	return knownMetadataTypes[strings.ToUpper(token)]
}

// Value returns the known MDTYPE token.
func (t MetadataType) Value() string {
	if t.value == "" {
		return MetadataTypeOther
	}
	return t.value
}

// OtherValue returns the extension string, empty for known tokens.
func (t MetadataType) OtherValue() string {
	return t.other
}

// IsOther reports whether this is an extension metadata type.
func (t MetadataType) IsOther() bool {
	return t.Value() == MetadataTypeOther && t.other != ""
}

// Metadata represents one preservation or other metadata unit: a single file.
type Metadata struct {
	File *IPFile
}

// NewMetadata creates a metadata unit around a file
func NewMetadata(file *IPFile) *Metadata {
	return &Metadata{File: file}
}

// DescriptiveMetadata represents one descriptive metadata unit; besides the
// file it carries a metadata type tag and an optional type version.
type DescriptiveMetadata struct {
	Metadata
	Type    MetadataType
	Version string
}

// NewDescriptiveMetadata creates a descriptive metadata unit
func NewDescriptiveMetadata(file *IPFile, mdType MetadataType, version string) *DescriptiveMetadata {
	return &DescriptiveMetadata{
		Metadata: Metadata{File: file},
		Type:     mdType,
		Version:  version,
	}
}
