package sip

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zip"
	"github.com/sirupsen/logrus"

	"earkip/internal/mets"
	"earkip/internal/models"
	"earkip/internal/signer"
	"earkip/internal/utils"
)

// zipEntry is one archive entry in build order. Open is called at the
// entry's turn in the deterministic write sequence, so an entry whose bytes
// depend on earlier entries (a METS document containing their checksums) is
// rendered only once those checksums are known.
type zipEntry interface {
	// Name is the entry path inside the archive, without the package id prefix
	Name() string

	// Open returns the entry's content
	Open() (io.ReadCloser, error)

	// SetChecksum receives the digest of the bytes written to the archive
	SetChecksum(checksum, algorithm string)
}

// fileEntry streams a source file; the digest computed while zipping is
// back-filled into the structural document node referencing the file.
type fileEntry struct {
	name     string
	srcPath  string
	mdRef    *mets.MdRef
	fileType *mets.File
}

func (e *fileEntry) Name() string { return e.name }

func (e *fileEntry) Open() (io.ReadCloser, error) {
	return os.Open(e.srcPath)
}

func (e *fileEntry) SetChecksum(checksum, algorithm string) {
	if e.mdRef != nil {
		e.mdRef.Checksum = checksum
		e.mdRef.ChecksumType = algorithm
	}
	if e.fileType != nil {
		e.fileType.Checksum = checksum
		e.fileType.ChecksumType = algorithm
	}
}

// metsEntry serializes a structural document at its turn in the sequence
type metsEntry struct {
	name    string
	wrapper *mets.Wrapper
	data    []byte
}

func (e *metsEntry) Name() string { return e.name }

func (e *metsEntry) Open() (io.ReadCloser, error) {
	data, err := e.wrapper.Mets.Marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize METS document: %w", err)
	}
	e.data = data
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (e *metsEntry) SetChecksum(string, string) {}

// signatureEntry signs an already-serialized METS entry. It must be placed
// after its target in the entry sequence.
type signatureEntry struct {
	name   string
	target *metsEntry
	signer signer.Signer
}

func (e *signatureEntry) Name() string { return e.name }

func (e *signatureEntry) Open() (io.ReadCloser, error) {
	if e.target.data == nil {
		return nil, fmt.Errorf("signature target %s has not been serialized", e.target.name)
	}
	sig, err := e.signer.SignDetached(e.target.data)
	if err != nil {
		return nil, fmt.Errorf("failed to sign %s: %w", e.target.name, err)
	}
	return io.NopCloser(bytes.NewReader(sig)), nil
}

func (e *signatureEntry) SetChecksum(string, string) {}

// writeZip streams every entry into the archive under the package id prefix,
// computing each entry's digest in the same pass as the write and
// back-filling it through SetChecksum. The cancellation signal is checked
// before each entry.
func writeZip(ctx context.Context, entries []zipEntry, out io.Writer, packageID string, listener ProgressListener) error {
	zw := zip.NewWriter(out)

	for i, entry := range entries {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		logrus.Debugf("Zipping entry %s", entry.Name())

		ew, err := zw.Create(packageID + "/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to create archive entry %s: %w", entry.Name(), err)
		}

		rc, err := entry.Open()
		if err != nil {
			return fmt.Errorf("failed to open content for %s: %w", entry.Name(), err)
		}

		h, err := utils.NewHash(models.ChecksumAlgorithm)
		if err != nil {
			rc.Close()
			return err
		}
		if _, err := io.Copy(io.MultiWriter(ew, h), rc); err != nil {
			rc.Close()
			return fmt.Errorf("failed to write archive entry %s: %w", entry.Name(), err)
		}
		rc.Close()

		entry.SetChecksum(hex.EncodeToString(h.Sum(nil)), models.ChecksumAlgorithm)

		listener.PackagingCurrent(i + 1)
	}

	return zw.Close()
}
