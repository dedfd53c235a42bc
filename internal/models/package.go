package models

import "fmt"

// PackageType represents the role of a package
type PackageType int

const (
	TypeSIP PackageType = iota
	TypeAIP
)

// String returns the string representation of PackageType
func (t PackageType) String() string {
	switch t {
	case TypeAIP:
		return "AIP"
	default:
		return TypeScopeSIP
	}
}

// Representation represents a named sub-package of processed or derived data
// inside a package. Its id must be unique within the parent package.
type Representation struct {
	ObjectID             string
	ContentType          ContentType
	Description          string
	Agents               []*Agent
	Data                 []*IPFile
	DescriptiveMetadata  []*DescriptiveMetadata
	PreservationMetadata []*Metadata
	OtherMetadata        []*Metadata
	Schemas              []*IPFile
	Documentation        []*IPFile
}

// NewRepresentation creates a representation with the MIXED content type
func NewRepresentation(objectID string) *Representation {
	return &Representation{
		ObjectID:    objectID,
		ContentType: MixedContentType(),
	}
}

// AddAgent adds an agent to the representation
func (r *Representation) AddAgent(agent *Agent) {
	r.Agents = append(r.Agents, agent)
}

// AddFile adds a data file to the representation
func (r *Representation) AddFile(file *IPFile) {
	r.Data = append(r.Data, file)
}

// AddDescriptiveMetadata adds a descriptive metadata unit to the representation
func (r *Representation) AddDescriptiveMetadata(dm *DescriptiveMetadata) {
	r.DescriptiveMetadata = append(r.DescriptiveMetadata, dm)
}

// AddPreservationMetadata adds a preservation metadata unit to the representation
func (r *Representation) AddPreservationMetadata(m *Metadata) {
	r.PreservationMetadata = append(r.PreservationMetadata, m)
}

// AddOtherMetadata adds an other-kind metadata unit to the representation
func (r *Representation) AddOtherMetadata(m *Metadata) {
	r.OtherMetadata = append(r.OtherMetadata, m)
}

// AddSchema adds a schema file to the representation
func (r *Representation) AddSchema(file *IPFile) {
	r.Schemas = append(r.Schemas, file)
}

// AddDocumentation adds a documentation file to the representation
func (r *Representation) AddDocumentation(file *IPFile) {
	r.Documentation = append(r.Documentation, file)
}

// Package represents one SIP/AIP instance in memory. It is a pure data
// container; no I/O or validation logic lives here. The id is used as the
// archive root folder name and zip entry prefix and must stay stable for the
// lifetime of a build or parse cycle.
type Package struct {
	Id                   string
	Type                 PackageType
	ContentType          ContentType
	Description          string
	Profile              string
	ParentId             string
	BasePath             string
	Agents               []*Agent
	DescriptiveMetadata  []*DescriptiveMetadata
	PreservationMetadata []*Metadata
	OtherMetadata        []*Metadata
	Representations      []*Representation
	Schemas              []*IPFile
	Documentation        []*IPFile
}

// NewPackage creates a SIP package with the MIXED content type
func NewPackage(id string) *Package {
	return &Package{
		Id:          id,
		Type:        TypeSIP,
		ContentType: MixedContentType(),
	}
}

// AddAgent adds an agent to the package
func (p *Package) AddAgent(agent *Agent) {
	p.Agents = append(p.Agents, agent)
}

// AddDescriptiveMetadata adds a descriptive metadata unit to the package
func (p *Package) AddDescriptiveMetadata(dm *DescriptiveMetadata) {
	p.DescriptiveMetadata = append(p.DescriptiveMetadata, dm)
}

// AddPreservationMetadata adds a preservation metadata unit to the package
func (p *Package) AddPreservationMetadata(m *Metadata) {
	p.PreservationMetadata = append(p.PreservationMetadata, m)
}

// AddOtherMetadata adds an other-kind metadata unit to the package
func (p *Package) AddOtherMetadata(m *Metadata) {
	p.OtherMetadata = append(p.OtherMetadata, m)
}

// AddSchema adds a schema file to the package
func (p *Package) AddSchema(file *IPFile) {
	p.Schemas = append(p.Schemas, file)
}

// AddDocumentation adds a documentation file to the package
func (p *Package) AddDocumentation(file *IPFile) {
	p.Documentation = append(p.Documentation, file)
}

// AddRepresentation appends a representation, keeping insertion order
func (p *Package) AddRepresentation(rep *Representation) {
	p.Representations = append(p.Representations, rep)
}

// Representation returns the representation with the given id
func (p *Package) Representation(representationID string) (*Representation, error) {
	for _, rep := range p.Representations {
		if rep.ObjectID == representationID {
			return rep, nil
		}
	}
	return nil, NewNotFoundError(fmt.Sprintf("representation %q not found", representationID))
}

// AddFileToRepresentation adds a data file to the representation with the
// given id, failing with NotFound if no such representation exists.
func (p *Package) AddFileToRepresentation(representationID string, file *IPFile) error {
	rep, err := p.Representation(representationID)
	if err != nil {
		return err
	}
	rep.AddFile(file)
	return nil
}

// AddDescriptiveMetadataToRepresentation adds descriptive metadata to the
// representation with the given id.
func (p *Package) AddDescriptiveMetadataToRepresentation(representationID string, dm *DescriptiveMetadata) error {
	rep, err := p.Representation(representationID)
	if err != nil {
		return err
	}
	rep.AddDescriptiveMetadata(dm)
	return nil
}

// AddPreservationMetadataToRepresentation adds preservation metadata to the
// representation with the given id.
func (p *Package) AddPreservationMetadataToRepresentation(representationID string, m *Metadata) error {
	rep, err := p.Representation(representationID)
	if err != nil {
		return err
	}
	rep.AddPreservationMetadata(m)
	return nil
}

// AddOtherMetadataToRepresentation adds other-kind metadata to the
// representation with the given id.
func (p *Package) AddOtherMetadataToRepresentation(representationID string, m *Metadata) error {
	rep, err := p.Representation(representationID)
	if err != nil {
		return err
	}
	rep.AddOtherMetadata(m)
	return nil
}

// AddSchemaToRepresentation adds a schema file to the representation with the
// given id.
func (p *Package) AddSchemaToRepresentation(representationID string, file *IPFile) error {
	rep, err := p.Representation(representationID)
	if err != nil {
		return err
	}
	rep.AddSchema(file)
	return nil
}

// AddDocumentationToRepresentation adds a documentation file to the
// representation with the given id.
func (p *Package) AddDocumentationToRepresentation(representationID string, file *IPFile) error {
	rep, err := p.Representation(representationID)
	if err != nil {
		return err
	}
	rep.AddDocumentation(file)
	return nil
}
