package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportStartsValid(t *testing.T) {
	report := NewValidationReport()
	assert.True(t, report.Valid)
	assert.Empty(t, report.Issues)
}

func TestWarningAndInfoKeepValidity(t *testing.T) {
	report := NewValidationReport()
	report.AddIssue(IssueUnknownDescriptiveMdType, LevelWarning, "")
	report.AddIssue("just a note", LevelInfo, "")

	assert.True(t, report.Valid)
	assert.Len(t, report.Issues, 2)
	assert.Equal(t, 0, report.ErrorCount())
}

func TestErrorDowngradesValidityPermanently(t *testing.T) {
	report := NewValidationReport()
	report.AddIssue(IssueChecksumsDiffer, LevelError, "", "/some/file")
	require.False(t, report.Valid)

	// later non-error issues never restore validity
	report.AddIssue("informational", LevelInfo, "")
	assert.False(t, report.Valid)
	assert.Equal(t, 1, report.ErrorCount())
}

func TestIssueCarriesRelatedPaths(t *testing.T) {
	report := NewValidationReport()
	report.AddIssue(IssueRepFileNotFound, LevelError, "detail", "/a", "/b")

	require.Len(t, report.Issues, 1)
	issue := report.Issues[0]
	assert.Equal(t, IssueRepFileNotFound, issue.Message)
	assert.Equal(t, "detail", issue.Description)
	assert.Equal(t, []string{"/a", "/b"}, issue.RelatedPaths)
}
