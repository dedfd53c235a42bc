package sip

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"earkip/internal/mets"
	"earkip/internal/models"
	"earkip/internal/utils"
)

// Parse reads an E-ARK package from a zip archive or an already-extracted
// directory. Archives are extracted to a fresh temporary directory; the
// returned model's file references point into it, so it is the caller's to
// remove once done with the model. A directory source is read in place and
// no temporary directory is created.
func Parse(ctx context.Context, source string) (*models.Package, *models.ValidationReport, error) {
	var workDir string
	if info, statErr := os.Stat(source); statErr != nil || !info.IsDir() {
		dir, err := os.MkdirTemp("", "earkip-unzip-")
		if err != nil {
			return nil, nil, models.NewEnvironmentError("error creating temporary directory for E-ARK SIP parse", err)
		}
		workDir = dir
	}

	p, report, err := ParseWithDir(ctx, source, workDir)
	if err != nil && workDir != "" {
		if rmErr := utils.RemovePath(workDir); rmErr != nil {
			logrus.Warnf("Error deleting temporary extraction directory: %v", rmErr)
		}
	}
	return p, report, err
}

// ParseWithDir is Parse with an explicit extraction directory. When source
// is a directory it is read in place and workDir is unused.
//
// Except for the fatal conditions (unzip failure, malformed root type tag,
// cancellation) the call returns a package model and a report; structural
// defects are recorded as report issues rather than errors.
func ParseWithDir(ctx context.Context, source, workDir string) (*models.Package, *models.ValidationReport, error) {
	p := models.NewPackage("")
	report := models.NewValidationReport()

	basePath, err := extractIfZip(source, workDir)
	if err != nil {
		return nil, nil, err
	}
	p.BasePath = basePath

	metsPath := filepath.Join(basePath, models.MetsFile)
	if _, statErr := os.Stat(metsPath); statErr != nil {
		report.AddIssue(models.IssueMainMetsNotFound, models.LevelError, "", metsPath)
		return p, report, nil
	}

	m, readErr := mets.Read(metsPath)
	if readErr != nil {
		report.AddIssue(models.IssueMainMetsNotValid, models.LevelError, readErr.Error(), metsPath)
		return p, report, nil
	}

	p.Id = m.ObjID

	// The root document's top-level attributes are trusted more than the
	// rest of the tree: a malformed type tag fails the whole parse.
	contentType, ctErr := mets.DecodeTypeTag(m.Type, models.TypeScopeSIP)
	if ctErr != nil {
		return nil, nil, ctErr
	}
	p.ContentType = contentType
	addAgents(m, p, nil)

	structMap := mets.FindStructMap(m)
	if structMap == nil {
		report.AddIssue(models.IssueMainMetsNoStructMap, models.LevelError, "", metsPath)
		return p, report, nil
	}
	w := mets.ProcessStructMap(m, structMap)

	if err := processMetadata(ctx, p, nil, w, w.DescriptiveDiv, models.DescriptiveFolder, basePath, report); err != nil {
		return nil, nil, err
	}
	if err := processMetadata(ctx, p, nil, w, w.OtherDiv, models.OtherFolder, basePath, report); err != nil {
		return nil, nil, err
	}
	if err := processMetadata(ctx, p, nil, w, w.PreservationDiv, models.PreservationFolder, basePath, report); err != nil {
		return nil, nil, err
	}

	if err := processRepresentations(ctx, p, w, basePath, report); err != nil {
		return nil, nil, err
	}

	if err := processContentFiles(ctx, w, w.SchemasDiv, models.SchemasFolder, basePath, report, p.AddSchema); err != nil {
		return nil, nil, err
	}
	if err := processContentFiles(ctx, w, w.DocumentationDiv, models.DocumentationFolder, basePath, report, p.AddDocumentation); err != nil {
		return nil, nil, err
	}

	p.ParentId = mets.ExtractParentID(m)

	return p, report, nil
}

// extractIfZip unzips source into workDir unless it already is a directory.
// Archives carry their content under a top-level package id folder; the
// returned base path descends into it. The id need not match the archive
// file name, so the folder is located by probing for the root structural
// document rather than by name.
func extractIfZip(source, workDir string) (string, error) {
	info, err := os.Stat(source)
	if err != nil {
		return "", models.NewEnvironmentError("error accessing source package", err)
	}
	if info.IsDir() {
		return source, nil
	}

	name := strings.TrimSuffix(filepath.Base(source), models.SIPFileExtension)
	dest := filepath.Join(workDir, name)
	if err := utils.Unzip(source, dest); err != nil {
		logrus.Errorf("Error unzipping file: %v", err)
		return "", models.NewParseError("error unzipping file", err)
	}

	return packageBase(dest), nil
}

// packageBase returns the directory holding the root structural document:
// the extraction root itself, or the one top-level folder containing a
// METS.xml.
func packageBase(dest string) string {
	if _, err := os.Stat(filepath.Join(dest, models.MetsFile)); err == nil {
		return dest
	}

	entries, err := os.ReadDir(dest)
	if err != nil {
		return dest
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		sub := filepath.Join(dest, entry.Name())
		if _, err := os.Stat(filepath.Join(sub, models.MetsFile)); err == nil {
			return sub
		}
	}
	return dest
}

func addAgents(m *mets.Mets, p *models.Package, rep *models.Representation) {
	if m.Header == nil {
		return
	}
	for _, a := range m.Header.Agents {
		note := ""
		if len(a.Notes) > 0 {
			note = a.Notes[0]
		}
		agent := models.NewAgent(a.Name, a.Role, a.Type, a.OtherType, note)
		if rep == nil {
			p.AddAgent(agent)
		} else {
			rep.AddAgent(agent)
		}
	}
}

// processMetadata walks one metadata division's file pointers, validates each
// referenced file against its declared checksum and attaches the survivors to
// the package or representation. A division with no file pointers is skipped
// silently.
func processMetadata(ctx context.Context, p *models.Package, rep *models.Representation, w *mets.Wrapper, div *mets.Div, kind, basePath string, report *models.ValidationReport) error {
	if div == nil || len(div.Fptrs) == 0 {
		return nil
	}

	for _, fptr := range div.Fptrs {
		if err := ctx.Err(); err != nil {
			return err
		}

		ref := w.MdRefByID(fptr.FileID)
		if ref == nil || ref.Href == "" {
			report.AddIssue(models.IssueFileHasNoLocation, models.LevelError, "FILE_ID: "+fptr.FileID)
			continue
		}

		href := mets.RelativeHref(ref.Href)
		filePath := filepath.Join(basePath, href)
		if _, err := os.Stat(filePath); err != nil {
			report.AddIssue(models.MetadataFileNotFoundIssue(kind), models.LevelError, "", filePath)
			continue
		}

		folders := fileRelativeFolders(filepath.Join(basePath, models.MetadataFolder, kind), filePath)
		file := validateFile(report, filePath, folders, ref.Checksum, ref.ChecksumType, ref.ID)
		if file == nil {
			continue
		}

		attachMetadata(p, rep, ref, kind, file, report, filePath)
	}

	return nil
}

func attachMetadata(p *models.Package, rep *models.Representation, ref *mets.MdRef, kind string, file *models.IPFile, report *models.ValidationReport, filePath string) {
	switch {
	case strings.EqualFold(kind, models.DescriptiveFolder):
		mdType := decodeMetadataType(ref, report, filePath)
		dm := models.NewDescriptiveMetadata(file, mdType, ref.MdTypeVersion)
		if rep == nil {
			p.AddDescriptiveMetadata(dm)
		} else {
			rep.AddDescriptiveMetadata(dm)
		}
	case strings.EqualFold(kind, models.PreservationFolder):
		if rep == nil {
			p.AddPreservationMetadata(models.NewMetadata(file))
		} else {
			rep.AddPreservationMetadata(models.NewMetadata(file))
		}
	case strings.EqualFold(kind, models.OtherFolder):
		if rep == nil {
			p.AddOtherMetadata(models.NewMetadata(file))
		} else {
			rep.AddOtherMetadata(models.NewMetadata(file))
		}
	}
}

// decodeMetadataType maps a declared MDTYPE onto the known token set. An
// unrecognized value degrades to OTHER with a warning, not an error.
func decodeMetadataType(ref *mets.MdRef, report *models.ValidationReport, filePath string) models.MetadataType {
	if !models.IsKnownMetadataType(ref.MdType) {
		mdType := models.NewMetadataType(models.MetadataTypeOther)
		report.AddIssue(models.IssueUnknownDescriptiveMdType, models.LevelWarning,
			fmt.Sprintf("Setting metadata type to %s", mdType.Value()), filePath)
		return mdType
	}
	logrus.Debugf("Metadata type valid: %s", ref.MdType)
	if ref.OtherMdType != "" {
		return models.OtherMetadataType(ref.OtherMdType)
	}
	return models.NewMetadataType(ref.MdType)
}

// processContentFiles walks one content division (data, schemas or
// documentation), validating each referenced file before attaching it.
func processContentFiles(ctx context.Context, w *mets.Wrapper, div *mets.Div, section, basePath string, report *models.ValidationReport, attach func(*models.IPFile)) error {
	if div == nil || len(div.Fptrs) == 0 {
		return nil
	}

	notFound := models.FileNotFoundIssue(section)
	if section == models.DataFolder {
		notFound = models.IssueRepFileNotFound
	}

	for _, fptr := range div.Fptrs {
		if err := ctx.Err(); err != nil {
			return err
		}

		ft := w.FileByID(fptr.FileID)
		if ft == nil || ft.FLocat == nil || ft.FLocat.Href == "" {
			report.AddIssue(models.IssueFileHasNoLocation, models.LevelError, "FILE_ID: "+fptr.FileID)
			continue
		}

		href := mets.RelativeHref(ft.FLocat.Href)
		filePath := filepath.Join(basePath, href)
		if _, err := os.Stat(filePath); err != nil {
			report.AddIssue(notFound, models.LevelError, "", filePath)
			continue
		}

		folders := fileRelativeFolders(filepath.Join(basePath, section), filePath)
		file := validateFile(report, filePath, folders, ft.Checksum, ft.ChecksumType, ft.ID)
		if file != nil {
			attach(file)
		}
	}

	return nil
}

// validateFile recomputes the digest declared for a file and compares it,
// case-insensitively, against the declared checksum. On a match the file is
// returned with the digest attached; on any defect an error issue is
// recorded and nil is returned, dropping the file from the model.
func validateFile(report *models.ValidationReport, filePath string, folders []string, declaredSum, declaredAlg, refID string) *models.IPFile {
	computed, err := utils.CalculateChecksum(filePath, declaredAlg)
	if err != nil {
		report.AddIssue(models.IssueErrorComputingChecksum+": "+err.Error(), models.LevelError,
			"FILE_ID: "+refID, filePath)
		return nil
	}

	if !utils.ChecksumsEqual(computed, declaredSum) {
		report.AddIssue(models.IssueChecksumsDiffer, models.LevelError,
			fmt.Sprintf("METS_FILE_ID:%s METS_CHECKSUM:%s METS_CHECKSUM_TYPE:%s COMPUTED_CHECKSUM:%s",
				refID, declaredSum, declaredAlg, computed),
			filePath)
		return nil
	}

	file := &models.IPFile{
		SourcePath:      filePath,
		RelativeFolders: folders,
		FileName:        filepath.Base(filePath),
	}
	file.SetChecksum(declaredSum, declaredAlg)
	return file
}

// processRepresentations resolves each representation pointer in the root
// document and reconstructs that representation from its own structural
// document. Failure scope is per representation: a missing or malformed
// nested document records an error issue and skips that representation only.
func processRepresentations(ctx context.Context, p *models.Package, w *mets.Wrapper, basePath string, report *models.ValidationReport) error {
	if w.RepresentationsDiv == nil {
		return nil
	}

	for _, repDiv := range w.RepresentationsDiv.Divs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(repDiv.Mptrs) == 0 {
			continue
		}

		// one and only one structural document per representation pointer
		href := mets.RelativeHref(repDiv.Mptrs[0].Href)
		metsPath := filepath.Join(basePath, href)
		repBase := filepath.Dir(metsPath)
		rep := models.NewRepresentation(repDiv.Label)

		if _, err := os.Stat(metsPath); err != nil {
			report.AddIssue(models.IssueRepMetsNotFound, models.LevelError, "", metsPath)
			continue
		}

		m, err := mets.Read(metsPath)
		if err != nil {
			report.AddIssue(models.IssueRepMetsNotValid, models.LevelError, err.Error(), metsPath)
			continue
		}

		contentType, err := mets.DecodeTypeTag(m.Type, models.TypeScopeRepresentation)
		if err != nil {
			report.AddIssue(models.IssueRepMetsNotValid, models.LevelError, err.Error(), metsPath)
			continue
		}
		rep.ContentType = contentType

		structMap := mets.FindStructMap(m)
		if structMap == nil {
			report.AddIssue(models.IssueRepMetsNoStructMap, models.LevelError, "", metsPath)
			continue
		}
		rw := mets.ProcessStructMap(m, structMap)

		p.AddRepresentation(rep)
		addAgents(m, p, rep)

		if err := processContentFiles(ctx, rw, rw.DataDiv, models.DataFolder, repBase, report, rep.AddFile); err != nil {
			return err
		}
		if err := processMetadata(ctx, p, rep, rw, rw.DescriptiveDiv, models.DescriptiveFolder, repBase, report); err != nil {
			return err
		}
		if err := processMetadata(ctx, p, rep, rw, rw.PreservationDiv, models.PreservationFolder, repBase, report); err != nil {
			return err
		}
		if err := processMetadata(ctx, p, rep, rw, rw.OtherDiv, models.OtherFolder, repBase, report); err != nil {
			return err
		}
		if err := processContentFiles(ctx, rw, rw.SchemasDiv, models.SchemasFolder, repBase, report, rep.AddSchema); err != nil {
			return err
		}
		if err := processContentFiles(ctx, rw, rw.DocumentationDiv, models.DocumentationFolder, repBase, report, rep.AddDocumentation); err != nil {
			return err
		}
	}

	return nil
}

// fileRelativeFolders returns the folder segments between a section root and
// the file, excluding the file name itself.
func fileRelativeFolders(sectionRoot, filePath string) []string {
	rel, err := filepath.Rel(sectionRoot, filePath)
	if err != nil {
		return nil
	}
	dir := filepath.Dir(rel)
	if dir == "." || dir == string(filepath.Separator) {
		return nil
	}
	return strings.Split(filepath.ToSlash(dir), "/")
}
