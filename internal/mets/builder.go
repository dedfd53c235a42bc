package mets

import (
	"time"

	"github.com/google/uuid"

	"earkip/internal/models"
)

// File group uses inside the file section.
const (
	UseData          = "Data"
	UseSchemas       = "Schemas"
	UseDocumentation = "Documentation"
)

// Wrapper is the structural document for one package or representation while
// it is being built or parsed: the METS tree plus handles on the known
// structural divisions. It is created fresh per build/parse call and not
// persisted beyond the operation.
type Wrapper struct {
	Mets *Mets

	DescriptiveDiv     *Div
	PreservationDiv    *Div
	OtherDiv           *Div
	DataDiv            *Div
	SchemasDiv         *Div
	DocumentationDiv   *Div
	RepresentationsDiv *Div

	dataGrp *FileGrp
	schGrp  *FileGrp
	docGrp  *FileGrp

	mdRefs map[string]*MdRef
	files  map[string]*File
}

func newID() string {
	return "uuid-" + uuid.NewString()
}

// Generate creates a structural document skeleton. The root document (main)
// gets a representations division; representation documents get a data
// division instead. A non-empty parentID adds a parent pointer struct map.
func Generate(objID, label, typeTag, profile string, agents []*models.Agent, main bool, parentID string) *Wrapper {
	w := &Wrapper{
		mdRefs: make(map[string]*MdRef),
		files:  make(map[string]*File),
	}

	m := &Mets{
		Xmlns:   MetsNamespace,
		ObjID:   objID,
		Label:   label,
		Type:    typeTag,
		Profile: profile,
		Header: &Header{
			CreateDate: time.Now().UTC().Format(time.RFC3339),
		},
	}
	for _, agent := range agents {
		m.Header.Agents = append(m.Header.Agents, &Agent{
			Role:      agent.Role,
			Type:      agent.Type,
			OtherType: agent.OtherType,
			Name:      agent.Name,
			Notes:     noteList(agent.Note),
		})
	}

	w.DescriptiveDiv = &Div{ID: newID(), Label: models.DescriptiveFolder}
	w.PreservationDiv = &Div{ID: newID(), Label: models.PreservationFolder}
	w.OtherDiv = &Div{ID: newID(), Label: models.OtherFolder}
	metadataDiv := &Div{
		ID:    newID(),
		Label: models.MetadataFolder,
		Divs:  []*Div{w.DescriptiveDiv, w.PreservationDiv, w.OtherDiv},
	}
	w.SchemasDiv = &Div{ID: newID(), Label: models.SchemasFolder}
	w.DocumentationDiv = &Div{ID: newID(), Label: models.DocumentationFolder}

	rootDiv := &Div{
		ID:    newID(),
		Label: objID,
		Divs:  []*Div{metadataDiv},
	}
	if main {
		w.RepresentationsDiv = &Div{ID: newID(), Label: models.RepresentationsFolder}
		rootDiv.Divs = append(rootDiv.Divs, w.RepresentationsDiv)
	} else {
		w.DataDiv = &Div{ID: newID(), Label: models.DataFolder}
		rootDiv.Divs = append(rootDiv.Divs, w.DataDiv)
	}
	rootDiv.Divs = append(rootDiv.Divs, w.SchemasDiv, w.DocumentationDiv)

	m.StructMaps = []*StructMap{{
		ID:    newID(),
		Label: models.StructMapLabel,
		Div:   rootDiv,
	}}

	if main && parentID != "" {
		m.StructMaps = append(m.StructMaps, &StructMap{
			ID:    newID(),
			Label: models.ParentStructMapLabel,
			Div: &Div{
				ID:    newID(),
				Label: models.ParentStructMapLabel,
				Mptrs: []*Mptr{{LocType: LocTypeURL, Href: parentID}},
			},
		})
	}

	w.Mets = m
	return w
}

func noteList(note string) []string {
	if note == "" {
		return nil
	}
	return []string{note}
}

// AddDescriptiveMetadata adds a metadata reference to the descriptive
// section. The checksum attributes are filled in later, once the file has
// been streamed into the archive.
func (w *Wrapper) AddDescriptiveMetadata(dm *models.DescriptiveMetadata, href string) *MdRef {
	ref := &MdRef{
		ID:            newID(),
		LocType:       LocTypeURL,
		MdType:        dm.Type.Value(),
		OtherMdType:   dm.Type.OtherValue(),
		MdTypeVersion: dm.Version,
		Href:          href,
	}
	w.Mets.DmdSecs = append(w.Mets.DmdSecs, &MdSec{ID: newID(), MdRef: ref})
	w.register(ref, w.DescriptiveDiv)
	return ref
}

// AddPreservationMetadata adds a metadata reference to the preservation
// section.
func (w *Wrapper) AddPreservationMetadata(m *models.Metadata, href string) *MdRef {
	ref := &MdRef{ID: newID(), LocType: LocTypeURL, Href: href}
	amd := w.amdSec()
	amd.DigiprovMDs = append(amd.DigiprovMDs, &MdSec{ID: newID(), MdRef: ref})
	w.register(ref, w.PreservationDiv)
	return ref
}

// AddOtherMetadata adds a metadata reference to the other-metadata section.
func (w *Wrapper) AddOtherMetadata(m *models.Metadata, href string) *MdRef {
	ref := &MdRef{ID: newID(), LocType: LocTypeURL, Href: href}
	amd := w.amdSec()
	amd.SourceMDs = append(amd.SourceMDs, &MdSec{ID: newID(), MdRef: ref})
	w.register(ref, w.OtherDiv)
	return ref
}

// AddDataFile adds a content file entry to the data section
func (w *Wrapper) AddDataFile(href string) *File {
	return w.addFile(href, w.fileGrp(&w.dataGrp, UseData), w.DataDiv)
}

// AddSchemaFile adds a content file entry to the schemas section
func (w *Wrapper) AddSchemaFile(href string) *File {
	return w.addFile(href, w.fileGrp(&w.schGrp, UseSchemas), w.SchemasDiv)
}

// AddDocumentationFile adds a content file entry to the documentation section
func (w *Wrapper) AddDocumentationFile(href string) *File {
	return w.addFile(href, w.fileGrp(&w.docGrp, UseDocumentation), w.DocumentationDiv)
}

// AddRepresentationMptr adds a sub-package pointer for one representation to
// the root document.
func (w *Wrapper) AddRepresentationMptr(representationID, href string) {
	w.RepresentationsDiv.Divs = append(w.RepresentationsDiv.Divs, &Div{
		ID:    newID(),
		Label: representationID,
		Mptrs: []*Mptr{{LocType: LocTypeURL, Href: href}},
	})
}

func (w *Wrapper) amdSec() *AmdSec {
	if len(w.Mets.AmdSecs) == 0 {
		w.Mets.AmdSecs = append(w.Mets.AmdSecs, &AmdSec{ID: newID()})
	}
	return w.Mets.AmdSecs[0]
}

func (w *Wrapper) fileGrp(grp **FileGrp, use string) *FileGrp {
	if *grp == nil {
		if w.Mets.FileSec == nil {
			w.Mets.FileSec = &FileSec{ID: newID()}
		}
		*grp = &FileGrp{ID: newID(), Use: use}
		w.Mets.FileSec.FileGrps = append(w.Mets.FileSec.FileGrps, *grp)
	}
	return *grp
}

func (w *Wrapper) addFile(href string, grp *FileGrp, div *Div) *File {
	f := &File{
		ID:     newID(),
		FLocat: &FLocat{LocType: LocTypeURL, Href: href},
	}
	grp.Files = append(grp.Files, f)
	div.Fptrs = append(div.Fptrs, &Fptr{FileID: f.ID})
	w.files[f.ID] = f
	return f
}

func (w *Wrapper) register(ref *MdRef, div *Div) {
	div.Fptrs = append(div.Fptrs, &Fptr{FileID: ref.ID})
	w.mdRefs[ref.ID] = ref
}

// MdRefByID resolves a metadata reference pointed at by an fptr
func (w *Wrapper) MdRefByID(id string) *MdRef {
	return w.mdRefs[id]
}

// FileByID resolves a content file entry pointed at by an fptr
func (w *Wrapper) FileByID(id string) *File {
	return w.files[id]
}
