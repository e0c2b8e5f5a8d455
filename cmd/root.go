// Package cmd provides command-line interface functionality for StrTools.
// StrTools identifies, demuxes and decodes the FMV streams found on
// PlayStation disc images.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/hansbonini/strtools/pkg/common"
	"github.com/hansbonini/strtools/pkg/config"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "strtools",
	Short: "Tools for PlayStation FMV streams",
	Long: `StrTools - Identify, demux and decode the video streams of PlayStation
disc images.

Currently supports:
  - STR (v2/v3), Final Fantasy 7, Final Fantasy 8, Chrono Cross and Lain video
  - EA packetized movies with runtime VLC tables
  - CD-XA and Final Fantasy 8 audio sectors

Examples:
  strtools sectors movie.bin
  strtools frames movie.bin index.yaml
  strtools frames -v --formats str-video,xa-audio movie.bin index.yaml
  strtools --config strtools.yaml frames movie.bin index.yaml

Use 'strtools [command] --help' for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// An interrupt cancels the running traversal between sectors.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		common.LogError("%v", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "YAML configuration file")
}

// addTraversalFlags registers the flags shared by commands that walk an image
func addTraversalFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("verbose", "v", false, "Enable verbose output (show debug messages)")
	cmd.Flags().StringSlice("formats", nil, "Sector formats to identify (default all)")
	cmd.Flags().Int("start", 0, "First sector to read")
	cmd.Flags().Int("end", 0, "Sector to stop before (default end of image)")
}

// loadConfig reads the configuration file and applies command line overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("error getting config flag: %w", err)
	}

	cfg := config.Default()
	if path != "" {
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, fmt.Errorf("error getting verbose flag: %w", err)
	}
	common.SetVerboseMode(verbose || cfg.Verbose())

	if cmd.Flags().Changed("formats") {
		if cfg.Formats, err = cmd.Flags().GetStringSlice("formats"); err != nil {
			return nil, fmt.Errorf("error getting formats flag: %w", err)
		}
	}
	if cmd.Flags().Changed("start") {
		if cfg.Image.StartSector, err = cmd.Flags().GetInt("start"); err != nil {
			return nil, fmt.Errorf("error getting start flag: %w", err)
		}
	}
	if cmd.Flags().Changed("end") {
		if cfg.Image.EndSector, err = cmd.Flags().GetInt("end"); err != nil {
			return nil, fmt.Errorf("error getting end flag: %w", err)
		}
	}
	return cfg, cfg.Validate()
}
