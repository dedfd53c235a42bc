package models

import "path/filepath"

// IPFile represents a single file to be packaged, or one found inside a
// package. RelativeFolders places the file below its section folder and never
// contains the file name itself. Checksum and ChecksumAlgorithm stay empty
// until the file has been digested or validated.
type IPFile struct {
	SourcePath        string
	RelativeFolders   []string
	FileName          string
	Checksum          string
	ChecksumAlgorithm string
}

// NewIPFile creates a file reference named after the source file
func NewIPFile(sourcePath string, relativeFolders ...string) *IPFile {
	return &IPFile{
		SourcePath:      sourcePath,
		RelativeFolders: relativeFolders,
		FileName:        filepath.Base(sourcePath),
	}
}

// Rename changes the name the file will carry inside the package
func (f *IPFile) Rename(name string) *IPFile {
	f.FileName = name
	return f
}

// SetChecksum records a computed or validated digest
func (f *IPFile) SetChecksum(checksum, algorithm string) *IPFile {
	f.Checksum = checksum
	f.ChecksumAlgorithm = algorithm
	return f
}
