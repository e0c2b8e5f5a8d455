package common

import "fmt"

// CD addressing: 75 frames per second and a two second lead-in before LBA 0
const (
	FramesPerSecond = 75
	PregapFrames    = 2 * FramesPerSecond
)

// LBAToMSF formats a sector index as the mm:ss:ff address printed on disc listings
func LBAToMSF(lba uint32) string {
	f := lba + PregapFrames
	return fmt.Sprintf("%02d:%02d:%02d", f/(60*FramesPerSecond), f/FramesPerSecond%60, f%FramesPerSecond)
}
