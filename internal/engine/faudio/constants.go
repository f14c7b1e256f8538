package faudio

// Library version the constants mirror. FAudio targets XAudio 2.8.
const (
	TargetVersion = 8
	ABIVersion    = 0
	MajorVersion  = 24
	MinorVersion  = 11
	PatchVersion  = 0

	CompiledVersion = ABIVersion*100*100*100 + MajorVersion*100*100 + MinorVersion*100 + PatchVersion
)

// Limits enforced by the engine.
const (
	MaxBufferBytes    = 0x80000000
	MaxQueuedBuffers  = 64
	MaxAudioChannels  = 64
	MinSampleRate     = 1000
	MaxSampleRate     = 200000
	MaxVolumeLevel    = 16777216.0
	MinFreqRatio      = 1.0 / 1024.0
	MaxFreqRatio      = 1024.0
	DefaultFreqRatio  = 2.0
	MaxFilterOneOverQ = 1.5
	MaxFilterFreq     = 1.0
	MaxLoopCount      = 254
)

// Operation sets, loop and default markers.
const (
	CommitNow         = 0
	CommitAll         = 0
	InvalidOpSet      = 0xFFFFFFFF
	NoLoopRegion      = 0
	LoopInfinite      = 255
	DefaultChannels   = 0
	DefaultSampleRate = 0
)

// Engine, voice and buffer flags.
const (
	DebugEngine          = 0x0001
	VoiceNoPitch         = 0x0002
	VoiceNoSRC           = 0x0004
	VoiceUseFilter       = 0x0008
	VoiceMusic           = 0x0010
	PlayTails            = 0x0020
	EndOfStream          = 0x0040
	SendUseFilter        = 0x0080
	VoiceNoSamplesPlayed = 0x0100
	Quantum1024          = 0x8000
)

// Log masks accepted by the debug configuration.
const (
	LogErrors    = 0x0001
	LogWarnings  = 0x0002
	LogInfo      = 0x0004
	LogDetail    = 0x0008
	LogAPICalls  = 0x0010
	LogFuncCalls = 0x0020
	LogTiming    = 0x0040
	LogLocks     = 0x0080
	LogMemory    = 0x0100
	LogStreaming = 0x1000
)

// FormatTag identifies a wave format.
type FormatTag uint16

const (
	FormatPCM             FormatTag = 1
	FormatMSADPCM         FormatTag = 2
	FormatIEEEFloat       FormatTag = 3
	FormatWMAudio2        FormatTag = 0x0161
	FormatWMAudio3        FormatTag = 0x0162
	FormatWMAudioLossless FormatTag = 0x0163
	FormatXMAudio2        FormatTag = 0x0166
	FormatExtensible      FormatTag = 0xFFFE
)

// FilterType selects a voice filter.
type FilterType int32

const (
	LowPassFilter FilterType = iota
	BandPassFilter
	HighPassFilter
	NotchFilter
)

// Default filter settings.
const (
	DefaultFilterType      = LowPassFilter
	DefaultFilterFrequency = MaxFilterFreq
	DefaultFilterOneOverQ  = 1.0
	DefaultFilterWetDryMix = 1.0
)

// DeviceRole is a bit set of default-device roles.
type DeviceRole uint32

const (
	NotDefaultDevice            DeviceRole = 0x0
	DefaultConsoleDevice        DeviceRole = 0x1
	DefaultMultimediaDevice     DeviceRole = 0x2
	DefaultCommunicationsDevice DeviceRole = 0x4
	DefaultGameDevice           DeviceRole = 0x8
	GlobalDefaultDevice         DeviceRole = 0xF
	InvalidDeviceRole                      = ^GlobalDefaultDevice
)

// StreamCategory classifies an output stream.
type StreamCategory int32

const (
	CategoryOther StreamCategory = iota
	CategoryForegroundOnlyMedia
	CategoryBackgroundCapableMedia
	CategoryCommunications
	CategoryAlerts
	CategorySoundEffects
	CategoryGameEffects
	CategoryGameMedia
	CategoryGameChat
	CategorySpeech
	CategoryMovie
	CategoryMedia
)

// DefaultProcessor lets the engine pick the processor.
const DefaultProcessor = 0xFFFFFFFF
