package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"earkip/internal/models"
	"earkip/internal/sip"
)

// NewParseCmd creates the parse command
func NewParseCmd() *cobra.Command {
	var workDir string

	cmd := &cobra.Command{
		Use:   "parse <package>",
		Short: "Parse and validate an E-ARK package",
		Long: `Reads a package (zip archive or extracted directory), validates every
referenced file against its declared checksum and prints the validation
report. Exits non-zero when the package is invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				p      *models.Package
				report *models.ValidationReport
				err    error
			)
			if workDir != "" {
				p, report, err = sip.ParseWithDir(cmd.Context(), args[0], workDir)
			} else {
				p, report, err = sip.Parse(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}

			logrus.Infof("Package %s: %d representations, %d issues",
				p.Id, len(p.Representations), len(report.Issues))

			for _, issue := range report.Issues {
				line := issue.Message
				if issue.Description != "" {
					line += ": " + issue.Description
				}
				for _, path := range issue.RelatedPaths {
					line += " [" + path + "]"
				}
				switch issue.Level {
				case models.LevelError:
					logrus.Error(line)
				case models.LevelWarning:
					logrus.Warn(line)
				default:
					logrus.Info(line)
				}
			}

			if !report.Valid {
				return fmt.Errorf("package is not valid (%d error(s))", report.ErrorCount())
			}

			logrus.Info("Package is valid")
			return nil
		},
	}

	cmd.Flags().StringVar(&workDir, "workdir", "", "Extraction directory (default a fresh temporary directory)")

	return cmd
}
