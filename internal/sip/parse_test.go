package sip

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"earkip/internal/models"
	"earkip/internal/utils"
)

// extractArchive unzips a built archive and returns the package base
// directory (the one holding the root METS.xml).
func extractArchive(t *testing.T, zipPath, packageID string) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "sip-extract-")
	if err != nil {
		t.Fatalf("Failed to create extraction dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	if err := utils.Unzip(zipPath, dir); err != nil {
		t.Fatalf("Failed to unzip archive: %v", err)
	}
	return filepath.Join(dir, packageID)
}

func parseDir(t *testing.T, base string) (*models.Package, *models.ValidationReport) {
	t.Helper()
	p, report, err := ParseWithDir(context.Background(), base, "")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return p, report
}

// rewriteFile replaces old with repl inside a file, failing when old is absent
func rewriteFile(t *testing.T, path, old, repl string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	if !strings.Contains(string(data), old) {
		t.Fatalf("%s does not contain %q", path, old)
	}
	updated := strings.Replace(string(data), old, repl, 1)
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		t.Fatalf("Failed to rewrite %s: %v", path, err)
	}
}

func TestParseRoundTrip(t *testing.T) {
	srcDir, err := os.MkdirTemp("", "sip-src-")
	if err != nil {
		t.Fatalf("Failed to create source dir: %v", err)
	}
	defer os.RemoveAll(srcDir)

	built := samplePackage(t, srcDir)
	built.ParentId = "AIP_9"
	zipPath := buildSample(t, built)

	workDir, err := os.MkdirTemp("", "sip-parse-")
	if err != nil {
		t.Fatalf("Failed to create work dir: %v", err)
	}
	defer os.RemoveAll(workDir)

	p, report, err := ParseWithDir(context.Background(), zipPath, workDir)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if !report.Valid {
		t.Fatalf("Expected a valid report, issues: %+v", report.Issues)
	}
	if len(report.Issues) != 0 {
		t.Errorf("Expected no issues, got %d", len(report.Issues))
	}

	if p.Id != "SIP_1" {
		t.Errorf("Expected package id SIP_1, got %s", p.Id)
	}
	if p.ContentType.Value() != models.ContentTypeMixed {
		t.Errorf("Expected MIXED content type, got %s", p.ContentType.Value())
	}
	if p.ParentId != "AIP_9" {
		t.Errorf("Expected parent AIP_9, got %q", p.ParentId)
	}
	if len(p.Agents) != 1 || p.Agents[0].Name != "earkip" {
		t.Errorf("Agents not restored: %+v", p.Agents)
	}

	if len(p.DescriptiveMetadata) != 1 {
		t.Fatalf("Expected 1 descriptive metadata unit, got %d", len(p.DescriptiveMetadata))
	}
	if got := p.DescriptiveMetadata[0].Type.Value(); got != "DC" {
		t.Errorf("Expected metadata type DC, got %s", got)
	}
	if len(p.PreservationMetadata) != 1 {
		t.Errorf("Expected 1 preservation metadata unit, got %d", len(p.PreservationMetadata))
	}

	rep, err := p.Representation("rep1")
	if err != nil {
		t.Fatalf("Representation rep1 not found: %v", err)
	}
	if len(rep.Data) != 2 {
		t.Fatalf("Expected 2 data files, got %d", len(rep.Data))
	}

	var nested *models.IPFile
	for _, f := range rep.Data {
		if f.FileName == "nested.txt" {
			nested = f
		}
	}
	if nested == nil {
		t.Fatal("Nested data file not restored")
	}
	if len(nested.RelativeFolders) != 2 || nested.RelativeFolders[0] != "abc" || nested.RelativeFolders[1] != "def" {
		t.Errorf("Expected folder segments [abc def], got %v", nested.RelativeFolders)
	}

	// checksums recorded on the model match a fresh computation
	for _, f := range rep.Data {
		computed, err := utils.CalculateChecksum(f.SourcePath, f.ChecksumAlgorithm)
		if err != nil {
			t.Fatalf("Failed to recompute checksum: %v", err)
		}
		if !utils.ChecksumsEqual(computed, f.Checksum) {
			t.Errorf("Recorded checksum differs for %s", f.FileName)
		}
	}
}

func TestParseCorruptDataFile(t *testing.T) {
	srcDir, err := os.MkdirTemp("", "sip-src-")
	if err != nil {
		t.Fatalf("Failed to create source dir: %v", err)
	}
	defer os.RemoveAll(srcDir)

	zipPath := buildSample(t, samplePackage(t, srcDir))
	base := extractArchive(t, zipPath, "SIP_1")

	corrupted := filepath.Join(base, "representations", "rep1", "data", "doc.pdf")
	if err := os.WriteFile(corrupted, []byte("tampered bytes"), 0644); err != nil {
		t.Fatalf("Failed to corrupt file: %v", err)
	}

	p, report := parseDir(t, base)

	if report.Valid {
		t.Error("Expected an invalid report")
	}
	if report.ErrorCount() != 1 {
		t.Fatalf("Expected exactly 1 error issue, got %d: %+v", report.ErrorCount(), report.Issues)
	}
	if report.Issues[0].Message != models.IssueChecksumsDiffer {
		t.Errorf("Expected checksum issue, got %q", report.Issues[0].Message)
	}

	rep, err := p.Representation("rep1")
	if err != nil {
		t.Fatalf("Representation rep1 not found: %v", err)
	}
	if len(rep.Data) != 1 {
		t.Fatalf("Corrupted file must be dropped, got %d data files", len(rep.Data))
	}
	if rep.Data[0].FileName != "nested.txt" {
		t.Errorf("Wrong file survived: %s", rep.Data[0].FileName)
	}
}

func TestParseMissingRootMets(t *testing.T) {
	srcDir, err := os.MkdirTemp("", "sip-src-")
	if err != nil {
		t.Fatalf("Failed to create source dir: %v", err)
	}
	defer os.RemoveAll(srcDir)

	zipPath := buildSample(t, samplePackage(t, srcDir))
	base := extractArchive(t, zipPath, "SIP_1")

	if err := os.Remove(filepath.Join(base, models.MetsFile)); err != nil {
		t.Fatalf("Failed to remove root document: %v", err)
	}

	p, report := parseDir(t, base)

	if report.Valid {
		t.Error("Expected an invalid report")
	}
	if len(report.Issues) != 1 || report.Issues[0].Message != models.IssueMainMetsNotFound {
		t.Fatalf("Expected a single missing-document issue, got %+v", report.Issues)
	}
	if len(p.Representations) != 0 {
		t.Error("No representations should be restored without a root document")
	}
}

func TestParseForeignStructMapLabel(t *testing.T) {
	srcDir, err := os.MkdirTemp("", "sip-src-")
	if err != nil {
		t.Fatalf("Failed to create source dir: %v", err)
	}
	defer os.RemoveAll(srcDir)

	zipPath := buildSample(t, samplePackage(t, srcDir))
	base := extractArchive(t, zipPath, "SIP_1")

	rewriteFile(t, filepath.Join(base, models.MetsFile),
		`LABEL="`+models.StructMapLabel+`"`, `LABEL="Some other map"`)

	p, report := parseDir(t, base)

	if report.Valid {
		t.Error("Expected an invalid report")
	}
	if len(report.Issues) != 1 || report.Issues[0].Message != models.IssueMainMetsNoStructMap {
		t.Fatalf("Expected a single missing-struct-map issue, got %+v", report.Issues)
	}
	if p.Id != "SIP_1" {
		t.Errorf("Top-level attributes should still be read, got id %q", p.Id)
	}
	if len(p.Representations) != 0 || len(p.DescriptiveMetadata) != 0 {
		t.Error("No content should be restored without the structural map")
	}
}

func TestParseRepresentationFailureIsolation(t *testing.T) {
	srcDir, err := os.MkdirTemp("", "sip-src-")
	if err != nil {
		t.Fatalf("Failed to create source dir: %v", err)
	}
	defer os.RemoveAll(srcDir)

	p := samplePackage(t, srcDir)
	rep2 := models.NewRepresentation("rep2")
	other := writeSrc(t, srcDir, "other.bin", "second representation payload")
	rep2.AddFile(models.NewIPFile(other))
	p.AddRepresentation(rep2)

	zipPath := buildSample(t, p)
	base := extractArchive(t, zipPath, "SIP_1")

	if err := os.Remove(filepath.Join(base, "representations", "rep2", models.MetsFile)); err != nil {
		t.Fatalf("Failed to remove representation document: %v", err)
	}

	parsed, report := parseDir(t, base)

	if report.Valid {
		t.Error("Expected an invalid report")
	}
	if report.ErrorCount() != 1 {
		t.Fatalf("Expected exactly 1 error issue, got %d: %+v", report.ErrorCount(), report.Issues)
	}
	if report.Issues[0].Message != models.IssueRepMetsNotFound {
		t.Errorf("Expected missing representation document issue, got %q", report.Issues[0].Message)
	}

	if len(parsed.Representations) != 1 {
		t.Fatalf("Expected 1 surviving representation, got %d", len(parsed.Representations))
	}
	rep, err := parsed.Representation("rep1")
	if err != nil {
		t.Fatalf("Representation rep1 not found: %v", err)
	}
	if len(rep.Data) != 2 {
		t.Errorf("Intact representation must be fully restored, got %d data files", len(rep.Data))
	}
}

func TestParseExtensionContentType(t *testing.T) {
	srcDir, err := os.MkdirTemp("", "sip-src-")
	if err != nil {
		t.Fatalf("Failed to create source dir: %v", err)
	}
	defer os.RemoveAll(srcDir)

	built := samplePackage(t, srcDir)
	built.ContentType = models.NewContentType("FOO")
	zipPath := buildSample(t, built)

	p, report := parseDir(t, extractArchive(t, zipPath, "SIP_1"))

	if !report.Valid {
		t.Fatalf("Expected a valid report, issues: %+v", report.Issues)
	}
	if !p.ContentType.IsOther() {
		t.Fatal("Expected an extension content type")
	}
	if got := p.ContentType.OtherValue(); got != "FOO" {
		t.Errorf("Extension value changed on round trip: %q", got)
	}
}

func TestParseMalformedRootTypeTag(t *testing.T) {
	srcDir, err := os.MkdirTemp("", "sip-src-")
	if err != nil {
		t.Fatalf("Failed to create source dir: %v", err)
	}
	defer os.RemoveAll(srcDir)

	zipPath := buildSample(t, samplePackage(t, srcDir))
	base := extractArchive(t, zipPath, "SIP_1")

	rewriteFile(t, filepath.Join(base, models.MetsFile), `TYPE="SIP:MIXED"`, `TYPE="nonsense"`)

	_, _, err = ParseWithDir(context.Background(), base, "")
	if err == nil {
		t.Fatal("Expected a fatal error for a malformed type tag")
	}
	if !models.IsParse(err) {
		t.Errorf("Expected a parse error, got %v", err)
	}
}

func TestParseUnknownMetadataTypeWarns(t *testing.T) {
	srcDir, err := os.MkdirTemp("", "sip-src-")
	if err != nil {
		t.Fatalf("Failed to create source dir: %v", err)
	}
	defer os.RemoveAll(srcDir)

	zipPath := buildSample(t, samplePackage(t, srcDir))
	base := extractArchive(t, zipPath, "SIP_1")

	rewriteFile(t, filepath.Join(base, models.MetsFile), `MDTYPE="DC"`, `MDTYPE="WEIRD"`)

	p, report := parseDir(t, base)

	if !report.Valid {
		t.Fatalf("A warning must not invalidate the report, issues: %+v", report.Issues)
	}
	warned := false
	for _, issue := range report.Issues {
		if issue.Message == models.IssueUnknownDescriptiveMdType && issue.Level == models.LevelWarning {
			warned = true
		}
	}
	if !warned {
		t.Fatalf("Expected an unknown metadata type warning, got %+v", report.Issues)
	}

	if len(p.DescriptiveMetadata) != 1 {
		t.Fatalf("Expected 1 descriptive metadata unit, got %d", len(p.DescriptiveMetadata))
	}
	if got := p.DescriptiveMetadata[0].Type.Value(); got != models.MetadataTypeOther {
		t.Errorf("Expected OTHER fallback, got %s", got)
	}
}

func TestParseMissingSource(t *testing.T) {
	_, _, err := ParseWithDir(context.Background(), "/nonexistent/package.zip", "")
	if err == nil {
		t.Error("Expected error for missing source")
	}
}

func TestParseCancelled(t *testing.T) {
	srcDir, err := os.MkdirTemp("", "sip-src-")
	if err != nil {
		t.Fatalf("Failed to create source dir: %v", err)
	}
	defer os.RemoveAll(srcDir)

	zipPath := buildSample(t, samplePackage(t, srcDir))
	base := extractArchive(t, zipPath, "SIP_1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = ParseWithDir(ctx, base, "")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestParseCustomArchiveFileName(t *testing.T) {
	srcDir, err := os.MkdirTemp("", "sip-src-")
	if err != nil {
		t.Fatalf("Failed to create source dir: %v", err)
	}
	defer os.RemoveAll(srcDir)
	outDir, err := os.MkdirTemp("", "sip-build-")
	if err != nil {
		t.Fatalf("Failed to create output dir: %v", err)
	}
	defer os.RemoveAll(outDir)

	// the archive name no longer matches the package id inside it
	p := samplePackage(t, srcDir)
	zipPath, err := NewBuilder().BuildWithOptions(context.Background(), p, outDir, BuildOptions{
		FileName: "custom-name.zip",
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	workDir, err := os.MkdirTemp("", "sip-parse-")
	if err != nil {
		t.Fatalf("Failed to create work dir: %v", err)
	}
	defer os.RemoveAll(workDir)

	parsed, report, err := ParseWithDir(context.Background(), zipPath, workDir)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !report.Valid {
		t.Fatalf("Expected a valid report, issues: %+v", report.Issues)
	}
	if parsed.Id != "SIP_1" {
		t.Errorf("Expected package id SIP_1, got %s", parsed.Id)
	}
	rep, err := parsed.Representation("rep1")
	if err != nil {
		t.Fatalf("Representation rep1 not found: %v", err)
	}
	if len(rep.Data) != 2 {
		t.Errorf("Expected 2 data files, got %d", len(rep.Data))
	}
}

func TestParseDirectorySourceLeavesNoTempDir(t *testing.T) {
	srcDir, err := os.MkdirTemp("", "sip-src-")
	if err != nil {
		t.Fatalf("Failed to create source dir: %v", err)
	}
	defer os.RemoveAll(srcDir)

	zipPath := buildSample(t, samplePackage(t, srcDir))
	base := extractArchive(t, zipPath, "SIP_1")

	tmpRoot, err := os.MkdirTemp("", "sip-tmproot-")
	if err != nil {
		t.Fatalf("Failed to create temp root: %v", err)
	}
	defer os.RemoveAll(tmpRoot)
	t.Setenv("TMPDIR", tmpRoot)

	_, report, err := Parse(context.Background(), base)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !report.Valid {
		t.Fatalf("Expected a valid report, issues: %+v", report.Issues)
	}

	leftovers, err := os.ReadDir(tmpRoot)
	if err != nil {
		t.Fatalf("Failed to read temp root: %v", err)
	}
	if len(leftovers) != 0 {
		t.Errorf("Directory source must not create temporary directories, found %d", len(leftovers))
	}
}

func TestParseRejectsNonArchive(t *testing.T) {
	srcDir, err := os.MkdirTemp("", "sip-src-")
	if err != nil {
		t.Fatalf("Failed to create source dir: %v", err)
	}
	defer os.RemoveAll(srcDir)

	// a plain file that is not a zip archive
	bogus := writeSrc(t, srcDir, "bogus.zip", "not an archive")

	_, _, err = Parse(context.Background(), bogus)
	if err == nil {
		t.Fatal("Expected error for a non-archive source")
	}
	if !models.IsParse(err) {
		t.Errorf("Expected a parse error, got %v", err)
	}
}
