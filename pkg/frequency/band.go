package frequency

// Band is a named radio frequency range
type Band int

const (
	Unknown Band = iota
	VLF
	LF
	MF
	HF
	VHF
	UHF
	SHF
)

var bandNames = map[Band]string{
	Unknown: "Unknown",
	VLF:     "VLF",
	LF:      "LF",
	MF:      "MF",
	HF:      "HF",
	VHF:     "VHF",
	UHF:     "UHF",
	SHF:     "SHF",
}

var bandDescriptions = map[Band]string{
	Unknown: "Unknown",
	VLF:     "VLF (0.001-0.01 MHz)",
	LF:      "LF (0.01-0.1 MHz)",
	MF:      "MF (0.1-3 MHz)",
	HF:      "HF (3-30 MHz)",
	VHF:     "VHF (30-300 MHz)",
	UHF:     "UHF (300-3000 MHz)",
	SHF:     "SHF (3-30 GHz)",
}

func (b Band) String() string {
	if name, ok := bandNames[b]; ok {
		return name
	}
	return bandNames[Unknown]
}

// Description returns the band name with its range, e.g. "HF (3-30 MHz)"
func (b Band) Description() string {
	if d, ok := bandDescriptions[b]; ok {
		return d
	}
	return bandDescriptions[Unknown]
}

// BandOf classifies a frequency in MHz. HF is closed on both ends; the
// bands above it exclude their lower bound and the bands below it exclude
// their upper bound.
func BandOf(mhz float64) Band {
	switch {
	case mhz >= 3 && mhz <= 30:
		return HF
	case mhz > 30 && mhz <= 300:
		return VHF
	case mhz > 300 && mhz <= 3000:
		return UHF
	case mhz > 3000 && mhz <= 30000:
		return SHF
	case mhz >= 0.1 && mhz < 3:
		return MF
	case mhz >= 0.01 && mhz < 0.1:
		return LF
	case mhz >= 0.001 && mhz < 0.01:
		return VLF
	default:
		return Unknown
	}
}
