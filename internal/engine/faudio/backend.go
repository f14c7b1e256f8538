// Package faudio is the audio engine boundary, modeled on FAudio's
// XAudio2-style API. Backend is the native mixer; Engine validates calls,
// checks the calling thread and forwards them.
package faudio

// Backend is implemented by audio mixers. Errors should be *Error values.
type Backend interface {
	Create(flags uint32) (EngineHandle, error)
	Release(e EngineHandle)

	CreateMasteringVoice(e EngineHandle, channels, sampleRate uint32) (VoiceHandle, error)
	CreateSourceVoice(e EngineHandle, format WaveFormat, flags uint32, maxFreqRatio float32) (VoiceHandle, error)
	DestroyVoice(v VoiceHandle)

	SubmitSourceBuffer(v VoiceHandle, buf Buffer) error
	FlushSourceBuffers(v VoiceHandle) error
	Discontinuity(v VoiceHandle) error
	Start(v VoiceHandle, flags, operationSet uint32) error
	Stop(v VoiceHandle, flags, operationSet uint32) error

	SetVolume(v VoiceHandle, volume float32, operationSet uint32) error
	Volume(v VoiceHandle) float32
	SetFrequencyRatio(v VoiceHandle, ratio float32, operationSet uint32) error
	FrequencyRatio(v VoiceHandle) float32
	State(v VoiceHandle, flags uint32) VoiceState
}
