// Package sip builds and parses E-ARK packages: it projects the in-memory
// package model onto METS structural documents and streams the result into a
// checksummed zip archive, and reconstructs a model (plus validation report)
// from such an archive.
package sip

import (
	"context"
	"embed"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"earkip/internal/mets"
	"earkip/internal/models"
	"earkip/internal/signer"
	"earkip/internal/utils"
)

//go:embed schemas/mets.xsd schemas/xlink.xsd
var defaultSchemaFS embed.FS

var defaultSchemaNames = []string{"mets.xsd", "xlink.xsd"}

// BuildOptions tunes a single build call
type BuildOptions struct {
	// FileName overrides the archive file name (default "<id>.zip")
	FileName string

	// ManifestOnly emits the structural documents but no file payload.
	// Checksums are still computed, from the source files.
	ManifestOnly bool

	// SignKeyPath enables a detached GPG signature of the root structural
	// document (METS.xml.asc).
	SignKeyPath    string
	SignPassphrase string

	// PublicKeyPath, when signing, additionally writes the armored
	// verification key to this path next to the archive.
	PublicKeyPath string
}

// Builder serializes a package model into a METS-described zip archive
type Builder struct {
	listener ProgressListener
}

// NewBuilder creates a builder with no progress listener
func NewBuilder() *Builder {
	return &Builder{listener: NopListener{}}
}

// SetListener installs a progress listener
func (b *Builder) SetListener(listener ProgressListener) {
	if listener == nil {
		listener = NopListener{}
	}
	b.listener = listener
}

// Build creates "<id>.zip" in destDir and returns its path
func (b *Builder) Build(ctx context.Context, p *models.Package, destDir string) (string, error) {
	return b.BuildWithOptions(ctx, p, destDir, BuildOptions{})
}

// BuildWithOptions creates the archive described by opts. On any failure,
// including cancellation, no partial archive is left behind.
func (b *Builder) BuildWithOptions(ctx context.Context, p *models.Package, destDir string, opts BuildOptions) (string, error) {
	if p.Id == "" {
		return "", &models.IPError{Type: models.ErrBuild, Detail: "package id must not be empty"}
	}

	buildDir, err := os.MkdirTemp("", "earksip-")
	if err != nil {
		return "", models.NewEnvironmentError("unable to create temporary directory to hold SIP files", err)
	}
	defer func() {
		if rmErr := utils.RemovePath(buildDir); rmErr != nil {
			logrus.Warnf("Error deleting temporary build directory: %v", rmErr)
		}
	}()

	zipPath, err := b.zipPath(p, destDir, opts)
	if err != nil {
		return "", err
	}

	typeTag := p.Type.String() + ":" + p.ContentType.Token()
	main := mets.Generate(p.Id, p.Description, typeTag, p.Profile, p.Agents, true, p.ParentId)

	var entries []zipEntry

	if entries, err = addDescriptiveMetadata(ctx, entries, main, p.DescriptiveMetadata, ""); err != nil {
		return "", err
	}
	if entries, err = addPreservationMetadata(ctx, entries, main, p.PreservationMetadata, ""); err != nil {
		return "", err
	}
	if entries, err = addOtherMetadata(ctx, entries, main, p.OtherMetadata, ""); err != nil {
		return "", err
	}

	if entries, err = b.addRepresentations(ctx, entries, main, p); err != nil {
		return "", err
	}

	schemas := append(append([]*models.IPFile{}, p.Schemas...), defaultSchemas(buildDir)...)
	if entries, err = addContentFiles(ctx, entries, schemas, models.SchemasFolder, "", main.AddSchemaFile); err != nil {
		return "", err
	}
	if entries, err = addContentFiles(ctx, entries, p.Documentation, models.DocumentationFolder, "", main.AddDocumentationFile); err != nil {
		return "", err
	}

	rootMets := &metsEntry{name: models.MetsFile, wrapper: main}
	entries = append(entries, rootMets)

	var gpg signer.Signer
	if opts.SignKeyPath != "" {
		g, err := signer.NewGPGSigner(opts.SignKeyPath, opts.SignPassphrase)
		if err != nil {
			return "", models.NewEnvironmentError("failed to initialize GPG signer", err)
		}
		gpg = g
		entries = append(entries, &signatureEntry{
			name:   models.MetsFile + ".asc",
			target: rootMets,
			signer: gpg,
		})
	}

	if opts.ManifestOnly {
		if entries, err = reduceToManifest(ctx, entries); err != nil {
			return "", err
		}
	}

	if err := b.createZipFile(ctx, entries, p.Id, zipPath); err != nil {
		return "", err
	}

	if gpg != nil && opts.PublicKeyPath != "" {
		pub, err := gpg.GetPublicKey()
		if err != nil {
			return "", models.NewEnvironmentError("failed to export verification key", err)
		}
		if err := utils.WriteFile(opts.PublicKeyPath, pub, 0644); err != nil {
			return "", models.NewEnvironmentError("failed to write verification key", err)
		}
		logrus.Infof("Verification key written to %s", opts.PublicKeyPath)
	}

	logrus.Infof("E-ARK package written to %s (%d entries)", zipPath, len(entries))
	return zipPath, nil
}

func (b *Builder) zipPath(p *models.Package, destDir string, opts BuildOptions) (string, error) {
	name := opts.FileName
	if name == "" {
		name = p.Id + models.SIPFileExtension
	}
	zipPath := filepath.Join(destDir, name)
	if _, err := os.Stat(zipPath); err == nil {
		if err := os.Remove(zipPath); err != nil {
			return "", models.NewEnvironmentError("error deleting already existing zip", err)
		}
	}
	return zipPath, nil
}

func (b *Builder) createZipFile(ctx context.Context, entries []zipEntry, packageID, zipPath string) error {
	out, err := os.Create(zipPath)
	if err != nil {
		return models.NewEnvironmentError("error creating E-ARK SIP zip file", err)
	}

	b.listener.PackagingStarted(len(entries))
	zipErr := writeZip(ctx, entries, out, packageID, b.listener)
	closeErr := out.Close()
	b.listener.PackagingEnded()

	if zipErr == nil {
		zipErr = closeErr
	}
	if zipErr != nil {
		if rmErr := os.Remove(zipPath); rmErr != nil && !os.IsNotExist(rmErr) {
			logrus.Errorf("Error while cleaning up partial zip file: %v", rmErr)
		}
		if errors.Is(zipErr, context.Canceled) || errors.Is(zipErr, context.DeadlineExceeded) {
			return zipErr
		}
		return models.NewEnvironmentError("error generating E-ARK SIP zip file", zipErr)
	}
	return nil
}

func (b *Builder) addRepresentations(ctx context.Context, entries []zipEntry, main *mets.Wrapper, p *models.Package) ([]zipEntry, error) {
	if len(p.Representations) == 0 {
		return entries, nil
	}

	b.listener.RepresentationsProcessingStarted(len(p.Representations))
	defer b.listener.RepresentationsProcessingEnded()

	var err error
	for _, rep := range p.Representations {
		if err = ctx.Err(); err != nil {
			return entries, err
		}

		repTag := models.TypeScopeRepresentation + ":" + rep.ContentType.Token()
		rw := mets.Generate(rep.ObjectID, rep.Description, repTag, "", rep.Agents, false, "")
		prefix := models.RepresentationsFolder + "/" + rep.ObjectID + "/"

		if entries, err = b.addRepresentationData(ctx, entries, rw, rep, prefix); err != nil {
			return entries, err
		}
		if entries, err = addDescriptiveMetadata(ctx, entries, rw, rep.DescriptiveMetadata, prefix); err != nil {
			return entries, err
		}
		if entries, err = addPreservationMetadata(ctx, entries, rw, rep.PreservationMetadata, prefix); err != nil {
			return entries, err
		}
		if entries, err = addOtherMetadata(ctx, entries, rw, rep.OtherMetadata, prefix); err != nil {
			return entries, err
		}
		if entries, err = addContentFiles(ctx, entries, rep.Schemas, models.SchemasFolder, prefix, rw.AddSchemaFile); err != nil {
			return entries, err
		}
		if entries, err = addContentFiles(ctx, entries, rep.Documentation, models.DocumentationFolder, prefix, rw.AddDocumentationFile); err != nil {
			return entries, err
		}

		repMetsName := prefix + models.MetsFile
		entries = append(entries, &metsEntry{name: repMetsName, wrapper: rw})
		main.AddRepresentationMptr(rep.ObjectID, repMetsName)
	}

	return entries, nil
}

func (b *Builder) addRepresentationData(ctx context.Context, entries []zipEntry, rw *mets.Wrapper, rep *models.Representation, prefix string) ([]zipEntry, error) {
	if len(rep.Data) == 0 {
		return entries, nil
	}

	b.listener.RepresentationProcessingStarted(len(rep.Data))
	defer b.listener.RepresentationProcessingEnded()

	for i, file := range rep.Data {
		if err := ctx.Err(); err != nil {
			return entries, err
		}

		rel := models.DataFolder + "/" + folderPath(file.RelativeFolders) + file.FileName
		ft := rw.AddDataFile(rel)
		entries = append(entries, &fileEntry{name: prefix + rel, srcPath: file.SourcePath, fileType: ft})

		b.listener.RepresentationProcessingCurrent(i + 1)
	}

	return entries, nil
}

func addDescriptiveMetadata(ctx context.Context, entries []zipEntry, w *mets.Wrapper, dms []*models.DescriptiveMetadata, prefix string) ([]zipEntry, error) {
	for _, dm := range dms {
		if err := ctx.Err(); err != nil {
			return entries, err
		}
		rel := models.MetadataFolder + "/" + models.DescriptiveFolder + "/" +
			folderPath(dm.File.RelativeFolders) + dm.File.FileName
		ref := w.AddDescriptiveMetadata(dm, rel)
		entries = append(entries, &fileEntry{name: prefix + rel, srcPath: dm.File.SourcePath, mdRef: ref})
	}
	return entries, nil
}

func addPreservationMetadata(ctx context.Context, entries []zipEntry, w *mets.Wrapper, pms []*models.Metadata, prefix string) ([]zipEntry, error) {
	for _, pm := range pms {
		if err := ctx.Err(); err != nil {
			return entries, err
		}
		rel := models.MetadataFolder + "/" + models.PreservationFolder + "/" +
			folderPath(pm.File.RelativeFolders) + pm.File.FileName
		ref := w.AddPreservationMetadata(pm, rel)
		entries = append(entries, &fileEntry{name: prefix + rel, srcPath: pm.File.SourcePath, mdRef: ref})
	}
	return entries, nil
}

func addOtherMetadata(ctx context.Context, entries []zipEntry, w *mets.Wrapper, oms []*models.Metadata, prefix string) ([]zipEntry, error) {
	for _, om := range oms {
		if err := ctx.Err(); err != nil {
			return entries, err
		}
		rel := models.MetadataFolder + "/" + models.OtherFolder + "/" +
			folderPath(om.File.RelativeFolders) + om.File.FileName
		ref := w.AddOtherMetadata(om, rel)
		entries = append(entries, &fileEntry{name: prefix + rel, srcPath: om.File.SourcePath, mdRef: ref})
	}
	return entries, nil
}

func addContentFiles(ctx context.Context, entries []zipEntry, files []*models.IPFile, section, prefix string, add func(string) *mets.File) ([]zipEntry, error) {
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return entries, err
		}
		rel := section + "/" + folderPath(file.RelativeFolders) + file.FileName
		ft := add(rel)
		entries = append(entries, &fileEntry{name: prefix + rel, srcPath: file.SourcePath, fileType: ft})
	}
	return entries, nil
}

// defaultSchemas materializes the embedded schema files into the build
// directory so they can be zipped like caller-supplied schemas. Failures are
// logged and skipped, matching the tolerant handling of these optional files.
func defaultSchemas(buildDir string) []*models.IPFile {
	var files []*models.IPFile
	for _, name := range defaultSchemaNames {
		data, err := defaultSchemaFS.ReadFile("schemas/" + name)
		if err != nil {
			logrus.Errorf("Error while trying to add default schema %s: %v", name, err)
			continue
		}
		target := filepath.Join(buildDir, name)
		if err := utils.WriteFile(target, data, 0644); err != nil {
			logrus.Errorf("Error while trying to add default schema %s: %v", name, err)
			continue
		}
		files = append(files, models.NewIPFile(target))
	}
	return files
}

// reduceToManifest drops payload entries, computing their checksums from the
// source files so the emitted documents still carry real digests.
func reduceToManifest(ctx context.Context, entries []zipEntry) ([]zipEntry, error) {
	reduced := make([]zipEntry, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fe, ok := entry.(*fileEntry)
		if !ok {
			reduced = append(reduced, entry)
			continue
		}
		checksum, err := utils.CalculateChecksum(fe.srcPath, models.ChecksumAlgorithm)
		if err != nil {
			return nil, models.NewEnvironmentError("error computing checksum for "+fe.srcPath, err)
		}
		fe.SetChecksum(checksum, models.ChecksumAlgorithm)
	}
	return reduced, nil
}

func folderPath(folders []string) string {
	if len(folders) == 0 {
		return ""
	}
	return strings.Join(folders, "/") + "/"
}
