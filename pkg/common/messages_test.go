// Package common provides tests for message and logging functionality
package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestSetVerboseMode(t *testing.T) {
	// Test enabling verbose mode
	SetVerboseMode(true)
	if !VerboseMode {
		t.Error("SetVerboseMode(true) should enable verbose mode")
	}

	// Test disabling verbose mode
	SetVerboseMode(false)
	if VerboseMode {
		t.Error("SetVerboseMode(false) should disable verbose mode")
	}
}

func TestLogHelpers_DoNotPanic(t *testing.T) {
	SetVerboseMode(true)
	defer SetVerboseMode(false)

	LogDebug(DebugSectorClassified, 1, "str-video", 100)
	LogInfo(InfoSectorSummary, 10, 4)
	LogWarn(WarnFrameDiscarded, 3, 2, 5)
	LogError(ErrFailedToReadSector)
}

func TestFormatError(t *testing.T) {
	baseMessage := "Base error message"
	originalError := fmt.Errorf("original error")

	formattedError := FormatError(baseMessage, originalError)

	expectedMessage := "Base error message: original error"
	if formattedError.Error() != expectedMessage {
		t.Errorf("FormatError() = %q, want %q", formattedError.Error(), expectedMessage)
	}
	if !errors.Is(formattedError, originalError) {
		t.Error("FormatError() should wrap the original error")
	}
}

func TestFormatErrorString(t *testing.T) {
	err := FormatErrorString(ErrInvalidSectorRange, "start %d after end %d", 10, 5)
	expected := "invalid sector range: start 10 after end 5"
	if err.Error() != expected {
		t.Errorf("FormatErrorString() = %q, want %q", err.Error(), expected)
	}
}

func TestErrorConstants(t *testing.T) {
	// Test that error constants are not empty
	errorConstants := map[string]string{
		"ErrFailedToOpenImage":     ErrFailedToOpenImage,
		"ErrFailedToReadSector":    ErrFailedToReadSector,
		"ErrFailedToLoadConfig":    ErrFailedToLoadConfig,
		"ErrPayloadSizeMismatch":   ErrPayloadSizeMismatch,
		"ErrPacketSizeOutOfBounds": ErrPacketSizeOutOfBounds,
		"ErrUnmatchedVLC":          ErrUnmatchedVLC,
		"ErrZigZagOverflow":        ErrZigZagOverflow,
		"ErrZeroLevelEscape":       ErrZeroLevelEscape,
		"ErrInvalidTableEntry":     ErrInvalidTableEntry,
	}

	for name, value := range errorConstants {
		if value == "" {
			t.Errorf("Error constant %s should not be empty", name)
		}
		if len(value) < 10 {
			t.Errorf("Error constant %s seems too short: %q", name, value)
		}
	}
}

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"corrupt stream", CorruptStream(ErrPacketSizeOutOfBounds), ErrCorruptStream},
		{"corrupt stream with args", CorruptStream("size %d", 3), ErrCorruptStream},
		{"corrupt bitstream", CorruptBitstream(ErrUnmatchedVLC), ErrCorruptBitstream},
		{"unsupported", Unsupported(ErrUnsupportedBitstreamVer), ErrUnsupportedVariant},
		{"stream error", &StreamError{Sector: 7, Stream: "ea", Err: CorruptStream(ErrUnknownPacketTag)}, ErrCorruptStream},
		{"bitstream error", &BitstreamError{Frame: "#1", Macroblock: 2, Block: 3, Err: CorruptBitstream(ErrZigZagOverflow)}, ErrCorruptBitstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.target) {
				t.Errorf("errors.Is(%v, %v) = false, want true", tt.err, tt.target)
			}
		})
	}
}

func TestStreamError_Message(t *testing.T) {
	err := &StreamError{Sector: 42, Stream: "str-video/1", Err: ErrCorruptStream}
	expected := "stream str-video/1 at sector 42: corrupt stream"
	if err.Error() != expected {
		t.Errorf("StreamError.Error() = %q, want %q", err.Error(), expected)
	}
}
