package models

// Canonical folder names inside a package. Matching on parse is
// case-insensitive, emission always uses these values.
const (
	MetadataFolder        = "metadata"
	DescriptiveFolder     = "descriptive"
	PreservationFolder    = "preservation"
	OtherFolder           = "other"
	RepresentationsFolder = "representations"
	DataFolder            = "data"
	SchemasFolder         = "schemas"
	DocumentationFolder   = "documentation"
)

const (
	// MetsFile is the name of the structural document at each package level.
	MetsFile = "METS.xml"

	// StructMapLabel identifies the structural map this codec reads and writes.
	StructMapLabel = "E-ARK structural map"

	// ParentStructMapLabel identifies the optional struct map holding a
	// parent/ancestor package pointer.
	ParentStructMapLabel = "Parent"

	// ChecksumAlgorithm is the digest computed while zipping files.
	ChecksumAlgorithm = "SHA-256"

	// SIPFileExtension is the archive extension produced by a build.
	SIPFileExtension = ".zip"
)

// Type tag scope prefixes ("<scope>:<contentType>").
const (
	TypeScopeSIP            = "SIP"
	TypeScopeRepresentation = "representation"
)
