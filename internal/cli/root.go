package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "earkip",
		Short: "Build and validate E-ARK information packages",
		Long: `Earkip assembles E-ARK SIP packages from staging directories and
validates existing packages.

A package is a zip archive described by METS structural documents, one at the
package root and one per representation, with a checksum for every file.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	rootCmd.AddCommand(NewBuildCmd())
	rootCmd.AddCommand(NewParseCmd())

	return rootCmd
}
