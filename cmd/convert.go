// Package cmd provides command-line interface for MDS conversion.
// This file contains the convert command writing ISO or BIN/CUE images.
package cmd

import (
	"fmt"

	"github.com/hansbonini/mdstools/pkg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// convertCmd converts an MDS/MDF image into another image format.
var convertCmd = &cobra.Command{
	Use:   "convert [mds_file]",
	Short: "Convert an MDS/MDF image to ISO or BIN/CUE",
	Long: `Convert an MDS/MDF image to ISO or BIN/CUE.

Formats:
  iso    Single track images only. Subchannel data is stripped from every sector.
  cue    Single session images. All data tracks are concatenated into one .bin
         file, described by a .cue sheet.

Output files take the name of the MDS file with the extension replaced and are
written next to it, or into --output-dir. Multi session images are rejected.

Example:
  mdstools convert --format iso game.mds
  mdstools convert --format cue game.mds`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mdsFile := args[0]

		format, err := pkg.ParseOutputFormat(viper.GetString("format"))
		if err != nil {
			return err
		}

		processor := pkg.NewMDSProcessor(viper.GetString("output-dir"))

		fmt.Fprintf(cmd.OutOrStdout(), "Converting %s to %s\n", mdsFile, format)
		result, err := processor.Convert(mdsFile, format)
		if err != nil {
			return fmt.Errorf("failed to convert %s: %w", mdsFile, err)
		}

		for _, out := range result.Outputs {
			fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", out)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d sectors, %d bytes of image data\n", result.Sectors, result.Bytes)
		return nil
	},
}

// init initializes the convert command with its flags.
func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringP("format", "f", "", "Output format: iso or cue (required)")
	convertCmd.Flags().StringP("output-dir", "d", "", "Directory for the converted files (default: next to the MDS file)")
	_ = viper.BindPFlag("format", convertCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("output-dir", convertCmd.Flags().Lookup("output-dir"))
}
