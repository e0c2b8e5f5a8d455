package sector

// EA packet layout: 4-byte tag, 4-byte big-endian total size including the header
const (
	EAHeaderSize = 8

	EATagTable  = "VLC0"
	EATagFrame  = "MDEC"
	EATagAudio0 = "au00"
	EATagAudio1 = "au01"

	EATableSize    = EAHeaderSize + 2*222
	EAMaxPacket    = 0x20000
	EAMinFrameSize = 16
	EAMinAudioSize = 12
)

// EAPacketBounds returns the legal total size range of a packet tag
func EAPacketBounds(tag string) (min, max int, ok bool) {
	switch tag {
	case EATagTable:
		return EATableSize, EATableSize, true
	case EATagFrame:
		return EAMinFrameSize, EAMaxPacket, true
	case EATagAudio0, EATagAudio1:
		return EAMinAudioSize, EAMaxPacket, true
	}
	return 0, 0, false
}

// IsEASentinel reports whether a tag is the zero end-of-stream marker
func IsEASentinel(tag []byte) bool {
	return len(tag) == 4 && tag[0] == 0 && tag[1] == 0 && tag[2] == 0 && tag[3] == 0
}
