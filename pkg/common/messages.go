// Package common provides shared logging, error and binary helpers for StrTools.
package common

import (
	"fmt"

	"github.com/q191201771/naza/pkg/nazalog"
)

// Global variable to control debug output
var VerboseMode bool = false

// Log is the backend used by the Log* helpers.
var Log = nazalog.GetGlobalLogger()

// SetVerboseMode enables or disables verbose/debug output
func SetVerboseMode(verbose bool) {
	VerboseMode = verbose

	level := nazalog.LevelInfo
	if verbose {
		level = nazalog.LevelDebug
	}
	_ = nazalog.Init(func(option *nazalog.Option) {
		option.Level = level
		option.IsToStdout = true
	})
	Log = nazalog.GetGlobalLogger()
}

// Error messages
const (
	ErrFailedToOpenImage       = "failed to open disc image"
	ErrFailedToReadSector      = "failed to read sector"
	ErrFailedToLoadConfig      = "failed to load configuration"
	ErrFailedToParseYAML       = "failed to parse YAML"
	ErrFailedToCreateOutput    = "failed to create output file"
	ErrFailedToWriteIndex      = "failed to write frame index"
	ErrFailedToDecodeFrame     = "failed to decode frame"
	ErrFailedToBuildVLCTable   = "failed to build VLC table"
	ErrUnknownSectorFormat     = "unknown sector format"
	ErrInvalidSectorRange      = "invalid sector range"
	ErrUnsupportedImageSize    = "image size is not a multiple of a known sector size"
	ErrPayloadSizeMismatch     = "declared payload size does not match consumed bytes"
	ErrPacketSizeOutOfBounds   = "packet size out of bounds"
	ErrUnknownPacketTag        = "unknown packet tag"
	ErrIncompleteFrame         = "incomplete frame"
	ErrInconsistentChunk       = "chunk header inconsistent with frame"
	ErrDuplicateChunk          = "duplicate chunk"
	ErrUnmatchedVLC            = "bit pattern matches no VLC code"
	ErrZigZagOverflow          = "run moves past the last coefficient"
	ErrZeroLevelEscape         = "escape code with zero level"
	ErrDCOutOfRange            = "DC coefficient out of range"
	ErrBadFrameHeader          = "invalid frame header"
	ErrTableMissing            = "no VLC table loaded for movie"
	ErrInvalidTableEntry       = "invalid VLC table entry"
	ErrUnsupportedBitstreamVer = "unsupported bitstream version"
)

// Info messages
const (
	InfoProcessingImage  = "Processing disc image %s (%d sectors of %d bytes)"
	InfoSectorSummary    = "Classified %d sectors: %d identified"
	InfoFrameSummary     = "Demuxed %d frames (%d decoded, %d failed), %d audio packets"
	InfoFrameIndexSaved  = "Frame index written to: %s"
	InfoMovieStarted     = "Movie started at sector %d"
	InfoStreamEnded      = "Stream %s ended at sector %d"
	InfoTableLoaded      = "Loaded VLC table at sector %d"
	InfoConfigLoaded     = "Configuration loaded from %s"
	InfoTraversalStopped = "Traversal stopped before sector %d: %v"
)

// Debug messages
const (
	DebugSectorClassified = "Sector %d: %s (confidence %d)"
	DebugChunkAccepted    = "Sector %d: %s frame %d chunk %d/%d"
	DebugFrameEmitted     = "Frame %s %dx%d sectors %d-%d (%d bytes)"
	DebugAudioEmitted     = "Audio %s sectors %d-%d (%d samples)"
	DebugPacketHeader     = "Packet %q size %d at sector %d"
	DebugFrameDecoded     = "Frame %s decoded: %d macroblocks"
)

// Warning messages
const (
	WarnStreamCorrupted  = "Stream %s corrupted at sector %d: %v"
	WarnFrameCorrupted   = "Frame %s corrupted: %v"
	WarnFrameUnsupported = "Frame %s skipped: %v"
	WarnFrameDiscarded   = "Discarding incomplete frame %d (%d/%d chunks)"
)

// LogInfo logs an informational message
func LogInfo(message string, args ...interface{}) {
	if len(args) > 0 {
		Log.Infof(message, args...)
	} else {
		Log.Info(message)
	}
}

// LogWarn logs a warning message
func LogWarn(message string, args ...interface{}) {
	if len(args) > 0 {
		Log.Warnf(message, args...)
	} else {
		Log.Warn(message)
	}
}

// LogError logs an error message
func LogError(message string, args ...interface{}) {
	if len(args) > 0 {
		Log.Errorf(message, args...)
	} else {
		Log.Error(message)
	}
}

// LogDebug logs a debug message (only if VerboseMode is enabled)
func LogDebug(message string, args ...interface{}) {
	if !VerboseMode {
		return
	}
	if len(args) > 0 {
		Log.Debugf(message, args...)
	} else {
		Log.Debug(message)
	}
}

// FormatError creates a formatted error with additional context
func FormatError(baseMessage string, details interface{}) error {
	if err, ok := details.(error); ok {
		return fmt.Errorf("%s: %w", baseMessage, err)
	}
	return fmt.Errorf("%s: %v", baseMessage, details)
}

// FormatErrorString creates a formatted error with string details
func FormatErrorString(baseMessage, details string, args ...interface{}) error {
	if len(args) > 0 {
		return fmt.Errorf("%s: "+details, append([]interface{}{baseMessage}, args...)...)
	}
	return fmt.Errorf("%s: %s", baseMessage, details)
}
