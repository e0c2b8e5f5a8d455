package common

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the classification, reassembly and decode stages.
// "Not this format" is never an error: validators report it through their ok flag.
var (
	// ErrInsufficientData means more bytes are needed. The reassembler waits for
	// the next sector; the bitstream decoder treats it as a truncated frame.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrCorruptStream is recoverable at the stream level: the accumulator is
	// discarded and the listener sees an end of stream.
	ErrCorruptStream = errors.New("corrupt stream")

	// ErrCorruptBitstream is recoverable at the frame level: the frame is abandoned,
	// macroblocks decoded so far are kept.
	ErrCorruptBitstream = errors.New("corrupt bitstream")

	// ErrUnsupportedVariant marks a well-formed variant with no decoder.
	ErrUnsupportedVariant = errors.New("unsupported variant")
)

// StreamError attaches the sector and stream identity to a stream level failure.
type StreamError struct {
	Sector int
	Stream string
	Err    error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("stream %s at sector %d: %v", e.Stream, e.Sector, e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

// BitstreamError locates a decode failure inside a frame.
type BitstreamError struct {
	Frame      string
	Macroblock int
	Block      int
	Err        error
}

func (e *BitstreamError) Error() string {
	return fmt.Sprintf("frame %s macroblock %d block %d: %v", e.Frame, e.Macroblock, e.Block, e.Err)
}

func (e *BitstreamError) Unwrap() error {
	return e.Err
}

// CorruptStream builds an ErrCorruptStream with a message from the Err* constants.
func CorruptStream(message string, args ...interface{}) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: %s", ErrCorruptStream, fmt.Sprintf(message, args...))
	}
	return fmt.Errorf("%w: %s", ErrCorruptStream, message)
}

// CorruptBitstream builds an ErrCorruptBitstream with a message from the Err* constants.
func CorruptBitstream(message string, args ...interface{}) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: %s", ErrCorruptBitstream, fmt.Sprintf(message, args...))
	}
	return fmt.Errorf("%w: %s", ErrCorruptBitstream, message)
}

// Unsupported builds an ErrUnsupportedVariant.
func Unsupported(message string, args ...interface{}) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: %s", ErrUnsupportedVariant, fmt.Sprintf(message, args...))
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedVariant, message)
}
