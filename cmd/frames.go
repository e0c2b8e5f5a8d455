package cmd

import (
	"fmt"

	"github.com/hansbonini/strtools/pkg"
	"github.com/spf13/cobra"
)

// framesCmd demuxes and decodes the movies of an image
var framesCmd = &cobra.Command{
	Use:   "frames [input_file] [output_file]",
	Short: "Demux and decode the movie frames of a disc image",
	Long: `Demux and decode the movie frames of a disc image (.bin or .iso).

Sectors are grouped into streams by format and CD-XA channel. Video chunks
are joined into frames, EA packets are reassembled across sectors and every
frame is run through the MDEC bitstream decoder.

Output:
  - A YAML frame index with one entry per frame, audio packet, VLC table
    and end of stream (when output_file is given)
  - A summary of decoded and failed frames

Example:
  strtools frames movie.bin index.yaml
  strtools frames --demux-only movie.bin index.yaml
  strtools frames -v movie.bin`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile := args[0]
		outputFile := ""
		if len(args) > 1 {
			outputFile = args[1]
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		demuxOnly, err := cmd.Flags().GetBool("demux-only")
		if err != nil {
			return fmt.Errorf("error getting demux-only flag: %w", err)
		}
		if demuxOnly {
			cfg.Decode = false
		}

		processor, err := pkg.NewDiscProcessor(cfg)
		if err != nil {
			return err
		}

		fmt.Printf("Processing disc image: %s\n", inputFile)
		index, err := processor.Process(cmd.Context(), inputFile, outputFile)
		if index != nil {
			s := index.Summary
			fmt.Printf("Sectors: %d (%d identified)\n", s.Sectors, s.Identified)
			fmt.Printf("Frames: %d (%d decoded, %d failed)\n", s.Frames, s.Decoded, s.Failed)
			fmt.Printf("Audio packets: %d\n", s.Audio)
			fmt.Printf("Corrupted streams: %d\n", s.Corruptions)
		}
		if err != nil {
			return fmt.Errorf("failed to process disc image: %w", err)
		}
		if outputFile != "" {
			fmt.Printf("Frame index written to: %s\n", outputFile)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(framesCmd)
	addTraversalFlags(framesCmd)
	framesCmd.Flags().Bool("demux-only", false, "Demux frames without decoding them")
}
