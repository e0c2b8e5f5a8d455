package cmd

import (
	"fmt"

	"github.com/hansbonini/strtools/pkg"
	"github.com/spf13/cobra"
)

// sectorsCmd lists the format of every sector of an image
var sectorsCmd = &cobra.Command{
	Use:   "sectors [input_file]",
	Short: "Classify every sector of a disc image",
	Long: `Classify every sector of a disc image (.bin or .iso).

Each sector is matched against the known layouts in a fixed order and the
first match wins. The listing is written to standard output as YAML with:
  - Sector index and MSF address
  - Format and confidence (100 exact, 75 subheader mismatch, 50 continuation)
  - CD-XA channel
  - A short description of the sector header

Example:
  strtools sectors movie.bin
  strtools sectors --formats str-video,xa-audio --start 1000 movie.bin`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		processor, err := pkg.NewDiscProcessor(cfg)
		if err != nil {
			return err
		}
		if err := processor.ListSectors(cmd.Context(), args[0], cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("failed to process disc image: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sectorsCmd)
	addTraversalFlags(sectorsCmd)
}
