// Package mets reads and writes the METS structural documents that describe
// E-ARK packages: one document for the package root and one per
// representation. The binding is deliberately small; it covers the subset of
// METS this codec emits and consumes.
package mets

import "encoding/xml"

// MetsNamespace is the METS schema namespace emitted on every document.
const MetsNamespace = "http://www.loc.gov/METS/"

// LocTypeURL is the location type used for all file references.
const LocTypeURL = "URL"

// Mets is the root of one structural document
type Mets struct {
	XMLName    xml.Name     `xml:"mets"`
	Xmlns      string       `xml:"xmlns,attr,omitempty"`
	ObjID      string       `xml:"OBJID,attr"`
	Label      string       `xml:"LABEL,attr,omitempty"`
	Type       string       `xml:"TYPE,attr"`
	Profile    string       `xml:"PROFILE,attr,omitempty"`
	Header     *Header      `xml:"metsHdr,omitempty"`
	DmdSecs    []*MdSec     `xml:"dmdSec"`
	AmdSecs    []*AmdSec    `xml:"amdSec"`
	FileSec    *FileSec     `xml:"fileSec,omitempty"`
	StructMaps []*StructMap `xml:"structMap"`
}

// Header is the METS header, carrying the creation date and agents
type Header struct {
	CreateDate string   `xml:"CREATEDATE,attr,omitempty"`
	Agents     []*Agent `xml:"agent"`
}

// Agent is a METS header agent
type Agent struct {
	Role      string   `xml:"ROLE,attr,omitempty"`
	Type      string   `xml:"TYPE,attr,omitempty"`
	OtherType string   `xml:"OTHERTYPE,attr,omitempty"`
	Name      string   `xml:"name"`
	Notes     []string `xml:"note"`
}

// MdSec wraps one metadata reference; used for dmdSec and for the members of
// amdSec.
type MdSec struct {
	ID    string `xml:"ID,attr"`
	MdRef *MdRef `xml:"mdRef"`
}

// MdRef points at one metadata file, with its declared checksum
type MdRef struct {
	ID            string `xml:"ID,attr"`
	LocType       string `xml:"LOCTYPE,attr,omitempty"`
	MdType        string `xml:"MDTYPE,attr,omitempty"`
	OtherMdType   string `xml:"OTHERMDTYPE,attr,omitempty"`
	MdTypeVersion string `xml:"MDTYPEVERSION,attr,omitempty"`
	Checksum      string `xml:"CHECKSUM,attr,omitempty"`
	ChecksumType  string `xml:"CHECKSUMTYPE,attr,omitempty"`
	Href          string `xml:"href,attr,omitempty"`
}

// AmdSec holds administrative metadata: digiprovMD for preservation
// metadata, sourceMD for other metadata.
type AmdSec struct {
	ID          string   `xml:"ID,attr"`
	DigiprovMDs []*MdSec `xml:"digiprovMD"`
	SourceMDs   []*MdSec `xml:"sourceMD"`
}

// FileSec is the file section
type FileSec struct {
	ID       string     `xml:"ID,attr,omitempty"`
	FileGrps []*FileGrp `xml:"fileGrp"`
}

// FileGrp groups content files by use (Data, Schemas, Documentation)
type FileGrp struct {
	ID    string  `xml:"ID,attr,omitempty"`
	Use   string  `xml:"USE,attr,omitempty"`
	Files []*File `xml:"file"`
}

// File is one content file entry, with its declared checksum
type File struct {
	ID           string  `xml:"ID,attr"`
	Checksum     string  `xml:"CHECKSUM,attr,omitempty"`
	ChecksumType string  `xml:"CHECKSUMTYPE,attr,omitempty"`
	Size         int64   `xml:"SIZE,attr,omitempty"`
	FLocat       *FLocat `xml:"FLocat,omitempty"`
}

// FLocat is a file location, href relative to the document's own location
type FLocat struct {
	LocType string `xml:"LOCTYPE,attr,omitempty"`
	Href    string `xml:"href,attr"`
}

// StructMap is a structural map
type StructMap struct {
	ID    string `xml:"ID,attr,omitempty"`
	Label string `xml:"LABEL,attr,omitempty"`
	Div   *Div   `xml:"div"`
}

// Div is a structural division
type Div struct {
	ID    string  `xml:"ID,attr,omitempty"`
	Label string  `xml:"LABEL,attr,omitempty"`
	Divs  []*Div  `xml:"div"`
	Fptrs []*Fptr `xml:"fptr"`
	Mptrs []*Mptr `xml:"mptr"`
}

// Fptr points, by id, at a file or metadata reference
type Fptr struct {
	FileID string `xml:"FILEID,attr"`
}

// Mptr points at another structural document
type Mptr struct {
	LocType string `xml:"LOCTYPE,attr,omitempty"`
	Href    string `xml:"href,attr"`
}

// Marshal serializes the document with the standard XML header
func (m *Mets) Marshal() ([]byte, error) {
	body, err := xml.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
