// Package cmd provides command-line interface for inspecting MDS files.
// This file contains the info command printing the session and track layout.
package cmd

import (
	"github.com/hansbonini/mdstools/pkg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// infoCmd prints a summary of an MDS file.
var infoCmd = &cobra.Command{
	Use:   "info [mds_file]",
	Short: "Show the sessions and tracks of an MDS file",
	Long: `Show the sessions and tracks described by an MDS file.

For every session the first, last and total sectors are listed, and for every
data track:
  - Mode and subchannel layout
  - Data file holding the sectors
  - Sector count and sector size
  - MSF time offset
  - Byte offset into the data file and logical start sector

Output formats: text (default), yaml, json

Example:
  mdstools info game.mds
  mdstools info --output json game.mds`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		processor := pkg.NewMDSProcessor("")
		format := pkg.InfoFormat(viper.GetString("output"))
		return processor.Info(args[0], format, cmd.OutOrStdout())
	},
}

// init initializes the info command with its flags.
func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().StringP("output", "o", string(pkg.InfoText), "Output format: text, yaml or json")
	_ = viper.BindPFlag("output", infoCmd.Flags().Lookup("output"))
}
