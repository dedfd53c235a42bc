package mets

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"earkip/internal/models"
)

// hrefFilePrefix is an accepted legacy prefix on location hrefs.
const hrefFilePrefix = "file://./"

// Read loads and unmarshals a structural document
func Read(path string) (*Mets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m := &Mets{}
	if err := xml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal METS document: %w", err)
	}
	return m, nil
}

// FindStructMap locates the E-ARK structural map by its label. It returns
// nil when the label is absent; the caller decides how to degrade.
func FindStructMap(m *Mets) *StructMap {
	for _, sm := range m.StructMaps {
		if sm.Label == models.StructMapLabel {
			return sm
		}
	}
	return nil
}

// ProcessStructMap builds a Wrapper around an already-parsed document,
// locating the known structural divisions by case-insensitive label match
// and indexing the metadata and file references for fptr resolution.
func ProcessStructMap(m *Mets, structMap *StructMap) *Wrapper {
	w := &Wrapper{
		Mets:   m,
		mdRefs: make(map[string]*MdRef),
		files:  make(map[string]*File),
	}

	if structMap.Div != nil {
		for _, firstLevel := range structMap.Div.Divs {
			switch {
			case strings.EqualFold(firstLevel.Label, models.MetadataFolder):
				for _, secondLevel := range firstLevel.Divs {
					if strings.EqualFold(secondLevel.Label, models.DescriptiveFolder) {
						w.DescriptiveDiv = secondLevel
					} else if strings.EqualFold(secondLevel.Label, models.PreservationFolder) {
						w.PreservationDiv = secondLevel
					} else if strings.EqualFold(secondLevel.Label, models.OtherFolder) {
						w.OtherDiv = secondLevel
					}
				}
			case strings.EqualFold(firstLevel.Label, models.RepresentationsFolder):
				w.RepresentationsDiv = firstLevel
			case strings.EqualFold(firstLevel.Label, models.DataFolder):
				w.DataDiv = firstLevel
			case strings.EqualFold(firstLevel.Label, models.SchemasFolder):
				w.SchemasDiv = firstLevel
			case strings.EqualFold(firstLevel.Label, models.DocumentationFolder):
				w.DocumentationDiv = firstLevel
			}
		}
	}

	for _, sec := range m.DmdSecs {
		if sec.MdRef != nil {
			w.mdRefs[sec.MdRef.ID] = sec.MdRef
		}
	}
	for _, amd := range m.AmdSecs {
		for _, sec := range amd.DigiprovMDs {
			if sec.MdRef != nil {
				w.mdRefs[sec.MdRef.ID] = sec.MdRef
			}
		}
		for _, sec := range amd.SourceMDs {
			if sec.MdRef != nil {
				w.mdRefs[sec.MdRef.ID] = sec.MdRef
			}
		}
	}
	if m.FileSec != nil {
		for _, grp := range m.FileSec.FileGrps {
			for _, f := range grp.Files {
				w.files[f.ID] = f
			}
		}
	}

	return w
}

// DecodeTypeTag splits a compound "<scope>:<contentType>" type tag and
// decodes the content type part. Exactly two non-blank parts are required
// and the scope must match, otherwise a Parse error is returned. Unknown
// content type tokens are retained verbatim as extension values.
func DecodeTypeTag(tag, expectedScope string) (models.ContentType, error) {
	if strings.TrimSpace(tag) == "" {
		return models.ContentType{}, models.NewParseError("METS 'TYPE' attribute does not contain any value", nil)
	}

	parts := strings.Split(tag, ":")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return models.ContentType{}, models.NewParseError("METS 'TYPE' attribute does not contain a valid value", nil)
	}
	if parts[0] != expectedScope {
		return models.ContentType{}, models.NewParseError(
			fmt.Sprintf("METS 'TYPE' attribute should start with %q", expectedScope+":"), nil)
	}

	return models.NewContentType(parts[1]), nil
}

// ExtractParentID returns the parent package pointer, or "" when the
// document declares none.
func ExtractParentID(m *Mets) string {
	for _, sm := range m.StructMaps {
		if sm.Label != models.ParentStructMapLabel || sm.Div == nil {
			continue
		}
		if len(sm.Div.Mptrs) > 0 {
			return RelativeHref(sm.Div.Mptrs[0].Href)
		}
	}
	return ""
}

// RelativeHref strips the optional file URL prefix from a location href
func RelativeHref(href string) string {
	return strings.TrimPrefix(href, hrefFilePrefix)
}
