package faudio

import (
	"go.uber.org/zap"

	"github.com/Faultbox/fnago/internal/threadcheck"
)

// Engine owns a backend engine and its voices.
type Engine struct {
	backend Backend
	guard   *threadcheck.Guard
	log     *zap.Logger

	handle   EngineHandle
	master   *MasteringVoice
	voices   map[VoiceHandle]*SourceVoice
	released bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// NewEngine creates a backend engine. The guard may be nil.
func NewEngine(backend Backend, guard *threadcheck.Guard, flags uint32, opts ...Option) (*Engine, error) {
	e := &Engine{
		backend: backend,
		guard:   guard,
		log:     zap.NewNop(),
		voices:  make(map[VoiceHandle]*SourceVoice),
	}
	for _, opt := range opts {
		opt(e)
	}

	guard.Check()
	h, err := backend.Create(flags)
	if err != nil {
		return nil, err
	}
	e.handle = h
	e.log.Info("audio engine created", zap.Uint32("flags", flags))
	return e, nil
}

func (e *Engine) enter(op string) error {
	e.guard.Check()
	if e.released {
		return newError(op, EInvalidCall, "engine released")
	}
	return nil
}

// Release destroys every voice and the backend engine. Calling it twice is
// a no-op.
func (e *Engine) Release() {
	e.guard.Check()
	if e.released {
		return
	}
	for _, v := range e.voices {
		v.destroy()
	}
	if e.master != nil {
		e.backend.DestroyVoice(e.master.handle)
		e.master = nil
	}
	e.backend.Release(e.handle)
	e.released = true
	e.log.Info("audio engine released")
}

// MasteringVoice is the engine's output voice.
type MasteringVoice struct {
	engine     *Engine
	handle     VoiceHandle
	channels   uint32
	sampleRate uint32
}

// CreateMasteringVoice opens the output device. Zero channels or rate
// select the device defaults. An engine has at most one mastering voice.
func (e *Engine) CreateMasteringVoice(channels, sampleRate uint32) (*MasteringVoice, error) {
	const op = "create mastering voice"
	if err := e.enter(op); err != nil {
		return nil, err
	}
	if e.master != nil {
		return nil, newError(op, EInvalidCall, "mastering voice exists")
	}
	if channels > MaxAudioChannels {
		return nil, newError(op, EInvalidArg, "%d channels", channels)
	}
	if sampleRate != DefaultSampleRate && (sampleRate < MinSampleRate || sampleRate > MaxSampleRate) {
		return nil, newError(op, EInvalidArg, "sample rate %d", sampleRate)
	}

	h, err := e.backend.CreateMasteringVoice(e.handle, channels, sampleRate)
	if err != nil {
		return nil, err
	}
	e.master = &MasteringVoice{engine: e, handle: h, channels: channels, sampleRate: sampleRate}
	e.log.Info("mastering voice created", zap.Uint32("channels", channels), zap.Uint32("rate", sampleRate))
	return e.master, nil
}

// SetVolume sets the output gain, clamped to ±MaxVolumeLevel.
func (m *MasteringVoice) SetVolume(volume float32, operationSet uint32) error {
	if err := m.engine.enter("set volume"); err != nil {
		return err
	}
	return m.engine.backend.SetVolume(m.handle, clampVolume(volume), operationSet)
}

// Volume returns the output gain.
func (m *MasteringVoice) Volume() float32 {
	m.engine.guard.Check()
	return m.engine.backend.Volume(m.handle)
}

// CreateSourceVoice creates a voice fed by submitted buffers.
func (e *Engine) CreateSourceVoice(format WaveFormat, flags uint32, maxFreqRatio float32) (*SourceVoice, error) {
	const op = "create source voice"
	if err := e.enter(op); err != nil {
		return nil, err
	}
	if e.master == nil {
		return nil, newError(op, EInvalidCall, "no mastering voice")
	}
	if err := format.Validate(); err != nil {
		return nil, err
	}
	if maxFreqRatio < MinFreqRatio || maxFreqRatio > MaxFreqRatio {
		return nil, newError(op, EInvalidArg, "max frequency ratio %g", maxFreqRatio)
	}

	h, err := e.backend.CreateSourceVoice(e.handle, format, flags, maxFreqRatio)
	if err != nil {
		return nil, err
	}
	v := &SourceVoice{
		engine:       e,
		handle:       h,
		format:       format,
		flags:        flags,
		maxFreqRatio: maxFreqRatio,
	}
	e.voices[h] = v
	return v, nil
}

// SourceVoiceCount returns the number of live source voices.
func (e *Engine) SourceVoiceCount() int {
	return len(e.voices)
}

func clampVolume(v float32) float32 {
	return max(-MaxVolumeLevel, min(v, MaxVolumeLevel))
}
