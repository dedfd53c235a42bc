package models

import "fmt"

// IssueLevel represents the severity of a validation issue
type IssueLevel int

const (
	LevelInfo IssueLevel = iota
	LevelWarning
	LevelError
)

// String returns the string representation of IssueLevel
func (l IssueLevel) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarning:
		return "WARNING"
	default:
		return "INFO"
	}
}

// Validation issue messages.
const (
	IssueMainMetsNotFound         = "Main METS.xml file was not found"
	IssueMainMetsNotValid         = "Main METS.xml file is not valid"
	IssueMainMetsNoStructMap      = "Main METS.xml file has no E-ARK structural map"
	IssueRepMetsNotFound          = "Representation METS.xml file was not found"
	IssueRepMetsNotValid          = "Representation METS.xml file is not valid"
	IssueRepMetsNoStructMap       = "Representation METS.xml file has no E-ARK structural map"
	IssueRepFileNotFound          = "Representation file referenced in METS.xml was not found"
	IssueFileHasNoLocation        = "File referenced in METS.xml has no location"
	IssueChecksumsDiffer          = "Checksums are different"
	IssueErrorComputingChecksum   = "Error computing checksum"
	IssueUnknownDescriptiveMdType = "Unknown descriptive metadata type"
)

// MetadataFileNotFoundIssue builds the message for a missing metadata file of
// the given kind (descriptive, preservation, other).
func MetadataFileNotFoundIssue(kind string) string {
	return fmt.Sprintf("Metadata file referenced in METS.xml was not found (type: %s)", kind)
}

// FileNotFoundIssue builds the message for a missing content file in the
// given section (schemas, documentation).
func FileNotFoundIssue(section string) string {
	return fmt.Sprintf("File referenced in METS.xml was not found (section: %s)", section)
}

// ValidationIssue represents one detected defect or note
type ValidationIssue struct {
	Message      string
	Level        IssueLevel
	Description  string
	RelatedPaths []string
}

// ValidationReport accumulates the findings of one parse operation. Valid
// becomes false permanently once any error-level issue is appended. A report
// must not be shared by two concurrent parse operations.
type ValidationReport struct {
	Issues []*ValidationIssue
	Valid  bool
}

// NewValidationReport creates an empty, valid report
func NewValidationReport() *ValidationReport {
	return &ValidationReport{Valid: true}
}

// AddIssue appends an issue; an error-level issue downgrades validity
func (r *ValidationReport) AddIssue(message string, level IssueLevel, description string, relatedPaths ...string) {
	r.Issues = append(r.Issues, &ValidationIssue{
		Message:      message,
		Level:        level,
		Description:  description,
		RelatedPaths: relatedPaths,
	})
	if level == LevelError {
		r.Valid = false
	}
}

// ErrorCount returns the number of error-level issues
func (r *ValidationReport) ErrorCount() int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Level == LevelError {
			count++
		}
	}
	return count
}
