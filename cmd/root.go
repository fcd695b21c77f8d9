// Package cmd provides command-line interface functionality for MDSTools.
// MDSTools decodes Alcohol 120% MDS/MDF disc images and converts them into
// formats ordinary tools understand.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/hansbonini/mdstools/pkg/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// envPrefix is prepended to every setting when read from the environment
const envPrefix = "MDSTOOLS"

// cfgFile is the optional configuration file given with --config
var cfgFile string

// rootCmd represents the base command when called without any subcommands.
// It provides the main entry point for the MDSTools application.
var rootCmd = &cobra.Command{
	Use:   "mdstools",
	Short: "Convert Alcohol 120% MDS/MDF disc images",
	Long: `MDSTools - Decode Alcohol 120% MDS/MDF disc images and convert them
into ISO or BIN/CUE images.

Currently supports:
  - Showing the session and track layout of an MDS file
  - Converting single track images to ISO
  - Converting single session images to BIN/CUE

Settings can also be given as environment variables prefixed with ` + envPrefix + `_
(e.g. ` + envPrefix + `_OUTPUT_DIR) or in a YAML file passed with --config.

Examples:
  mdstools info game.mds
  mdstools info --output yaml game.mds
  mdstools convert --format iso game.mds
  mdstools convert --format cue --output-dir ./converted game.mds

Use 'mdstools [command] --help' for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main() and serves as the entry point for command execution.
func Execute() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}

// execute runs the root command and logs the error that ended it
func execute() error {
	err := rootCmd.Execute()
	if err != nil {
		common.LogError(common.ErrCommandFailed, err)
	}
	return err
}

// init initializes the root command with flags and configuration settings.
func init() {
	common.ConfigureLogging(os.Stderr)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Configuration file (YAML)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output with decoding details")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads the configuration file and environment. Flags given on
// the command line take precedence over both.
func initConfig() error {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	}

	common.SetVerboseMode(viper.GetBool("verbose"))
	return nil
}
