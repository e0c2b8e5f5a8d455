// Package sector classifies raw disc sectors into the game specific
// layouts used by PlayStation movies.
package sector

import "fmt"

// Kind identifies a sector layout
type Kind int

// Kinds in classification precedence order
const (
	KindUnidentified Kind = iota
	KindISOVolume
	KindXAAudio
	KindFF8Audio
	KindFF8Video
	KindChronoCrossNull
	KindChronoCrossVideo
	KindLainVideo
	KindFF7Video
	KindSTRVideo
	KindEAData
)

var kindNames = map[Kind]string{
	KindUnidentified:     "unidentified",
	KindISOVolume:        "iso-volume",
	KindXAAudio:          "xa-audio",
	KindFF8Audio:         "ff8-audio",
	KindFF8Video:         "ff8-video",
	KindChronoCrossNull:  "chrono-cross-null",
	KindChronoCrossVideo: "chrono-cross-video",
	KindLainVideo:        "lain-video",
	KindFF7Video:         "ff7-video",
	KindSTRVideo:         "str-video",
	KindEAData:           "ea-data",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a name as printed by String back to its Kind
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return KindUnidentified, fmt.Errorf("unknown sector format %q", name)
}

// IsVideo reports whether sectors of this kind carry chunked video frames
func (k Kind) IsVideo() bool {
	switch k {
	case KindFF8Video, KindChronoCrossVideo, KindLainVideo, KindFF7Video, KindSTRVideo:
		return true
	}
	return false
}

// IsAudio reports whether sectors of this kind carry audio
func (k Kind) IsAudio() bool {
	return k == KindXAAudio || k == KindFF8Audio
}
