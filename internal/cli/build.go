package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"earkip/internal/models"
	"earkip/internal/scanner"
	"earkip/internal/sip"
)

// NewBuildCmd creates the build command
func NewBuildCmd() *cobra.Command {
	var (
		inputDir      string
		outputDir     string
		packageID     string
		contentType   string
		fileName      string
		dmdType       string
		manifestOnly  bool
		gpgKeyPath    string
		gpgPassphrase string
		gpgPublicKey  string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build an E-ARK SIP from a staging directory",
		Long: `Scans a staging directory laid out as the canonical package tree
(metadata/, representations/<id>/data/, schemas/, documentation/) and packs it
into a METS-described zip archive with per-file checksums.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if packageID == "" {
				return &models.IPError{Type: models.ErrBuild, Detail: "package id is required"}
			}

			sc := scanner.NewStagingScanner()
			sc.DescriptiveType = models.NewMetadataType(dmdType)

			logrus.Infof("Scanning staging directory: %s", inputDir)
			p, err := sc.Scan(cmd.Context(), inputDir, packageID)
			if err != nil {
				return fmt.Errorf("failed to scan staging directory: %w", err)
			}
			p.ContentType = models.NewContentType(contentType)

			builder := sip.NewBuilder()
			archivePath, err := builder.BuildWithOptions(cmd.Context(), p, outputDir, sip.BuildOptions{
				FileName:       fileName,
				ManifestOnly:   manifestOnly,
				SignKeyPath:    gpgKeyPath,
				SignPassphrase: gpgPassphrase,
				PublicKeyPath:  gpgPublicKey,
			})
			if err != nil {
				return err
			}

			logrus.Infof("Package built successfully: %s", archivePath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputDir, "input-dir", "i", ".", "Staging directory to scan")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "Directory to write the archive into")
	cmd.Flags().StringVar(&packageID, "id", "", "Package id (archive root folder name)")
	cmd.Flags().StringVar(&contentType, "content-type", models.ContentTypeMixed, "Package content type token")
	cmd.Flags().StringVar(&fileName, "name", "", "Archive file name (default <id>.zip)")
	cmd.Flags().StringVar(&dmdType, "dmd-type", models.MetadataTypeOther, "MDTYPE assigned to descriptive metadata entries")
	cmd.Flags().BoolVar(&manifestOnly, "manifest-only", false, "Emit structural documents only, no file payload")
	cmd.Flags().StringVarP(&gpgKeyPath, "gpg-key", "k", "", "Path to GPG private key for signing the root METS")
	cmd.Flags().StringVarP(&gpgPassphrase, "gpg-passphrase", "p", "", "GPG key passphrase")
	cmd.Flags().StringVar(&gpgPublicKey, "gpg-public-key", "", "Also write the armored verification key to this path")

	return cmd
}
