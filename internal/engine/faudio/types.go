package faudio

// EngineHandle and VoiceHandle are opaque backend objects. Zero is never
// valid.
type (
	EngineHandle uint64
	VoiceHandle  uint64
)

// WaveFormat is the layout of submitted audio data.
type WaveFormat struct {
	FormatTag      FormatTag
	Channels       uint16
	SamplesPerSec  uint32
	AvgBytesPerSec uint32
	BlockAlign     uint16
	BitsPerSample  uint16
}

// PCMFormat returns an integer PCM format.
func PCMFormat(channels uint16, rate uint32, bits uint16) WaveFormat {
	return newFormat(FormatPCM, channels, rate, bits)
}

// FloatFormat returns a 32-bit IEEE float format.
func FloatFormat(channels uint16, rate uint32) WaveFormat {
	return newFormat(FormatIEEEFloat, channels, rate, 32)
}

func newFormat(tag FormatTag, channels uint16, rate uint32, bits uint16) WaveFormat {
	align := channels * (bits / 8)
	return WaveFormat{
		FormatTag:      tag,
		Channels:       channels,
		SamplesPerSec:  rate,
		AvgBytesPerSec: rate * uint32(align),
		BlockAlign:     align,
		BitsPerSample:  bits,
	}
}

// Validate checks a format the way source voice creation does.
func (f WaveFormat) Validate() error {
	const op = "validate format"
	if f.Channels == 0 || f.Channels > MaxAudioChannels {
		return newError(op, EInvalidArg, "%d channels", f.Channels)
	}
	if f.SamplesPerSec < MinSampleRate || f.SamplesPerSec > MaxSampleRate {
		return newError(op, EInvalidArg, "sample rate %d", f.SamplesPerSec)
	}
	switch f.FormatTag {
	case FormatPCM:
		if f.BitsPerSample != 8 && f.BitsPerSample != 16 && f.BitsPerSample != 24 && f.BitsPerSample != 32 {
			return newError(op, EUnsupportedFormat, "%d-bit PCM", f.BitsPerSample)
		}
	case FormatIEEEFloat:
		if f.BitsPerSample != 32 {
			return newError(op, EUnsupportedFormat, "%d-bit float", f.BitsPerSample)
		}
	case FormatMSADPCM, FormatWMAudio2, FormatWMAudio3, FormatWMAudioLossless, FormatXMAudio2, FormatExtensible:
		// Compressed formats carry their own block layout.
		if f.BlockAlign == 0 {
			return newError(op, EInvalidArg, "zero block align")
		}
		return nil
	default:
		return newError(op, EUnsupportedFormat, "format tag 0x%04x", uint16(f.FormatTag))
	}
	if want := f.Channels * (f.BitsPerSample / 8); f.BlockAlign != want {
		return newError(op, EInvalidArg, "block align %d, want %d", f.BlockAlign, want)
	}
	return nil
}

// Buffer is one submission to a source voice. Sample positions count
// frames, not bytes.
type Buffer struct {
	Flags      uint32
	AudioData  []byte
	PlayBegin  uint32
	PlayLength uint32 // 0 plays to the end
	LoopBegin  uint32
	LoopLength uint32 // 0 loops to the end of the play region
	LoopCount  uint32 // 0 no loop, LoopInfinite forever
	Context    any
}

// VoiceState reports a source voice's queue.
type VoiceState struct {
	CurrentBufferContext any
	BuffersQueued        uint32
	SamplesPlayed        uint64
}

// VoiceDetails describes how a voice was created.
type VoiceDetails struct {
	CreationFlags   uint32
	InputChannels   uint32
	InputSampleRate uint32
}

// FilterParameters configures a voice filter.
type FilterParameters struct {
	Type      FilterType
	Frequency float32
	OneOverQ  float32
}
