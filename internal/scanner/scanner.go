// Package scanner assembles a package model from a staging directory laid
// out like the canonical package tree:
//
//	metadata/{descriptive|preservation|other}/...
//	representations/<id>/{data|metadata|schemas|documentation}/...
//	schemas/...
//	documentation/...
//
// Files outside the known sections are skipped with a warning.
package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"earkip/internal/models"
)

// StagingScanner builds package models from staging directories
type StagingScanner struct {
	// DescriptiveType is assigned to every descriptive metadata entry found
	DescriptiveType models.MetadataType
}

// NewStagingScanner creates a scanner assigning the OTHER descriptive type
func NewStagingScanner() *StagingScanner {
	return &StagingScanner{DescriptiveType: models.NewMetadataType(models.MetadataTypeOther)}
}

// Scan walks the staging directory and assembles a package with the given id
func (s *StagingScanner) Scan(ctx context.Context, dir, packageID string) (*models.Package, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access staging directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("staging path is not a directory: %s", dir)
	}

	p := models.NewPackage(packageID)

	if err := s.scanMetadata(ctx, filepath.Join(dir, models.MetadataFolder), p, nil); err != nil {
		return nil, err
	}
	if err := s.scanRepresentations(ctx, filepath.Join(dir, models.RepresentationsFolder), p); err != nil {
		return nil, err
	}

	schemas, err := scanSection(ctx, filepath.Join(dir, models.SchemasFolder))
	if err != nil {
		return nil, err
	}
	for _, f := range schemas {
		p.AddSchema(f)
	}

	docs, err := scanSection(ctx, filepath.Join(dir, models.DocumentationFolder))
	if err != nil {
		return nil, err
	}
	for _, f := range docs {
		p.AddDocumentation(f)
	}

	logrus.Infof("Staged package %s: %d representations, %d schemas, %d documentation files",
		packageID, len(p.Representations), len(p.Schemas), len(p.Documentation))
	return p, nil
}

func (s *StagingScanner) scanMetadata(ctx context.Context, metadataDir string, p *models.Package, rep *models.Representation) error {
	for _, kind := range []string{models.DescriptiveFolder, models.PreservationFolder, models.OtherFolder} {
		files, err := scanSection(ctx, filepath.Join(metadataDir, kind))
		if err != nil {
			return err
		}
		for _, f := range files {
			switch kind {
			case models.DescriptiveFolder:
				dm := models.NewDescriptiveMetadata(f, s.DescriptiveType, "")
				if rep == nil {
					p.AddDescriptiveMetadata(dm)
				} else {
					rep.AddDescriptiveMetadata(dm)
				}
			case models.PreservationFolder:
				if rep == nil {
					p.AddPreservationMetadata(models.NewMetadata(f))
				} else {
					rep.AddPreservationMetadata(models.NewMetadata(f))
				}
			default:
				if rep == nil {
					p.AddOtherMetadata(models.NewMetadata(f))
				} else {
					rep.AddOtherMetadata(models.NewMetadata(f))
				}
			}
		}
	}
	return nil
}

func (s *StagingScanner) scanRepresentations(ctx context.Context, repsDir string, p *models.Package) error {
	entries, err := os.ReadDir(repsDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read representations directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			logrus.Warnf("Skipping non-directory entry in representations: %s", entry.Name())
			continue
		}

		rep := models.NewRepresentation(entry.Name())
		repDir := filepath.Join(repsDir, entry.Name())

		data, err := scanSection(ctx, filepath.Join(repDir, models.DataFolder))
		if err != nil {
			return err
		}
		for _, f := range data {
			rep.AddFile(f)
		}

		if err := s.scanMetadata(ctx, filepath.Join(repDir, models.MetadataFolder), p, rep); err != nil {
			return err
		}

		schemas, err := scanSection(ctx, filepath.Join(repDir, models.SchemasFolder))
		if err != nil {
			return err
		}
		for _, f := range schemas {
			rep.AddSchema(f)
		}

		docs, err := scanSection(ctx, filepath.Join(repDir, models.DocumentationFolder))
		if err != nil {
			return err
		}
		for _, f := range docs {
			rep.AddDocumentation(f)
		}

		logrus.Debugf("Found representation %s with %d data files", rep.ObjectID, len(rep.Data))
		p.AddRepresentation(rep)
	}

	return nil
}

// scanSection collects the files below one section directory, recording the
// folder segments between the section root and each file. A missing section
// directory yields no files.
func scanSection(ctx context.Context, sectionDir string) ([]*models.IPFile, error) {
	if _, err := os.Stat(sectionDir); os.IsNotExist(err) {
		return nil, nil
	}

	var files []*models.IPFile
	err := filepath.Walk(sectionDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(sectionDir, path)
		if err != nil {
			return err
		}

		var folders []string
		if dir := filepath.Dir(rel); dir != "." {
			folders = strings.Split(filepath.ToSlash(dir), "/")
		}

		logrus.Debugf("Found file: %s", path)
		files = append(files, models.NewIPFile(path, folders...))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", sectionDir, err)
	}

	return files, nil
}
