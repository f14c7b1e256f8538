// Package beepaudio implements faudio.Backend on the beep mixer.
//
// Source voices decode integer PCM and 32-bit float data into beep samples.
// Each voice is resampled to the device rate, paused through a beep.Ctrl and
// mixed under a master effects.Volume.
package beepaudio

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"go.uber.org/zap"

	"github.com/Faultbox/fnago/internal/engine/faudio"
)

// DefaultSampleRate is used when the mastering voice asks for the device
// default.
const DefaultSampleRate = beep.SampleRate(48000)

// resampleQuality is the beep interpolation quality for every voice.
const resampleQuality = 4

// Backend is a single engine mixing into one Output.
type Backend struct {
	log         *zap.Logger
	out         Output
	defaultRate beep.SampleRate

	engine  faudio.EngineHandle
	rate    beep.SampleRate
	mixer   *beep.Mixer
	master  *effects.Volume
	mHandle faudio.VoiceHandle
	mGain   float32
	voices  map[faudio.VoiceHandle]*voice
	next    uint64
}

// Option configures a Backend.
type Option func(*Backend)

// WithOutput replaces the speaker.
func WithOutput(out Output) Option {
	return func(b *Backend) { b.out = out }
}

// WithSampleRate sets the device rate used when the mastering voice
// requests the default.
func WithSampleRate(rate int) Option {
	return func(b *Backend) {
		if rate > 0 {
			b.defaultRate = beep.SampleRate(rate)
		}
	}
}

// New creates a backend playing through the beep speaker.
func New(log *zap.Logger, opts ...Option) *Backend {
	if log == nil {
		log = zap.NewNop()
	}
	b := &Backend{
		log:         log,
		out:         speakerOutput{},
		defaultRate: DefaultSampleRate,
		voices:      make(map[faudio.VoiceHandle]*voice),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Backend) handle() uint64 {
	b.next++
	return b.next
}

// Create opens the engine. Only one engine may be live per backend.
func (b *Backend) Create(flags uint32) (faudio.EngineHandle, error) {
	if b.engine != 0 {
		return 0, &faudio.Error{Op: "create", Code: faudio.EInvalidCall, Detail: "engine already created"}
	}
	b.engine = faudio.EngineHandle(b.handle())
	return b.engine, nil
}

// Release closes the output and forgets every voice.
func (b *Backend) Release(e faudio.EngineHandle) {
	if e == 0 || e != b.engine {
		return
	}
	if b.master != nil {
		b.out.Close()
	}
	b.engine = 0
	b.master = nil
	b.mixer = nil
	b.mHandle = 0
	clear(b.voices)
}

// CreateMasteringVoice initializes the output at the requested rate and
// starts the mixer. The output is always stereo.
func (b *Backend) CreateMasteringVoice(e faudio.EngineHandle, channels, sampleRate uint32) (faudio.VoiceHandle, error) {
	const op = "create mastering voice"
	if e != b.engine || b.engine == 0 {
		return 0, &faudio.Error{Op: op, Code: faudio.EInvalidCall, Detail: "unknown engine"}
	}
	rate := b.defaultRate
	if sampleRate != faudio.DefaultSampleRate {
		rate = beep.SampleRate(sampleRate)
	}
	if err := b.out.Init(rate, rate.N(time.Second/30)); err != nil {
		return 0, &faudio.Error{Op: op, Code: faudio.EDeviceInvalidated, Detail: err.Error()}
	}

	b.rate = rate
	b.mixer = &beep.Mixer{}
	b.master = &effects.Volume{Streamer: b.mixer, Base: 2}
	b.mGain = 1
	b.mHandle = faudio.VoiceHandle(b.handle())
	b.out.Play(b.master)

	b.log.Info("audio output opened",
		zap.Int("rate", int(rate)),
		zap.Uint32("requested_channels", channels))
	return b.mHandle, nil
}

// CreateSourceVoice adds a voice to the mixer. It starts stopped.
func (b *Backend) CreateSourceVoice(e faudio.EngineHandle, format faudio.WaveFormat, flags uint32, maxFreqRatio float32) (faudio.VoiceHandle, error) {
	const op = "create source voice"
	if b.mixer == nil || e != b.engine {
		return 0, &faudio.Error{Op: op, Code: faudio.EInvalidCall, Detail: "no mastering voice"}
	}
	if format.FormatTag != faudio.FormatPCM && format.FormatTag != faudio.FormatIEEEFloat {
		return 0, &faudio.Error{Op: op, Code: faudio.EUnsupportedFormat, Detail: fmt.Sprintf("format tag 0x%04x", uint16(format.FormatTag))}
	}

	v := newVoice(format)
	v.resampler = beep.ResampleRatio(resampleQuality, b.srcRatio(format, 1), v)
	v.ctrl = &beep.Ctrl{Streamer: v.resampler, Paused: true}

	h := faudio.VoiceHandle(b.handle())
	b.out.Lock()
	b.mixer.Add(v.ctrl)
	b.out.Unlock()
	b.voices[h] = v

	b.log.Debug("source voice created",
		zap.Uint64("voice", uint64(h)),
		zap.Uint16("channels", format.Channels),
		zap.Uint32("rate", format.SamplesPerSec),
		zap.Uint16("bits", format.BitsPerSample))
	return h, nil
}

func (b *Backend) srcRatio(format faudio.WaveFormat, freq float32) float64 {
	return float64(format.SamplesPerSec) / float64(b.rate) * float64(freq)
}

// DestroyVoice drops a voice from the mixer on its next pass.
func (b *Backend) DestroyVoice(h faudio.VoiceHandle) {
	if h == b.mHandle && h != 0 {
		// The output stays open until Release.
		return
	}
	v, ok := b.voices[h]
	if !ok {
		return
	}
	b.out.Lock()
	v.done = true
	v.ctrl.Streamer = nil
	b.out.Unlock()
	delete(b.voices, h)
}

func (b *Backend) voice(op string, h faudio.VoiceHandle) (*voice, error) {
	v, ok := b.voices[h]
	if !ok {
		return nil, &faudio.Error{Op: op, Code: faudio.EInvalidCall, Detail: fmt.Sprintf("unknown voice %d", h)}
	}
	return v, nil
}

// SubmitSourceBuffer queues buf behind any pending buffers.
func (b *Backend) SubmitSourceBuffer(h faudio.VoiceHandle, buf faudio.Buffer) error {
	v, err := b.voice("submit source buffer", h)
	if err != nil {
		return err
	}
	b.out.Lock()
	v.submit(buf)
	b.out.Unlock()
	return nil
}

// FlushSourceBuffers drops pending buffers. A buffer already playing
// finishes.
func (b *Backend) FlushSourceBuffers(h faudio.VoiceHandle) error {
	v, err := b.voice("flush source buffers", h)
	if err != nil {
		return err
	}
	b.out.Lock()
	v.flush()
	b.out.Unlock()
	return nil
}

// Discontinuity flags the last queued buffer as the end of the stream.
func (b *Backend) Discontinuity(h faudio.VoiceHandle) error {
	v, err := b.voice("discontinuity", h)
	if err != nil {
		return err
	}
	b.out.Lock()
	if n := len(v.queue); n > 0 {
		v.queue[n-1].buf.Flags |= faudio.EndOfStream
	}
	b.out.Unlock()
	return nil
}

// Start unpauses the voice.
func (b *Backend) Start(h faudio.VoiceHandle, flags, operationSet uint32) error {
	return b.setPaused("start", h, false)
}

// Stop pauses the voice where it is.
func (b *Backend) Stop(h faudio.VoiceHandle, flags, operationSet uint32) error {
	return b.setPaused("stop", h, true)
}

func (b *Backend) setPaused(op string, h faudio.VoiceHandle, paused bool) error {
	v, err := b.voice(op, h)
	if err != nil {
		return err
	}
	b.out.Lock()
	v.ctrl.Paused = paused
	b.out.Unlock()
	return nil
}

// SetVolume sets a linear gain. On the mastering voice the gain drives the
// master effects.Volume; phase inversion is not available there.
func (b *Backend) SetVolume(h faudio.VoiceHandle, volume float32, operationSet uint32) error {
	if h == b.mHandle && b.master != nil {
		b.out.Lock()
		b.mGain = volume
		b.master.Silent = volume == 0
		b.master.Volume = gainToVolume(float64(volume))
		b.out.Unlock()
		return nil
	}
	v, err := b.voice("set volume", h)
	if err != nil {
		return err
	}
	b.out.Lock()
	v.gain = volume
	b.out.Unlock()
	return nil
}

// Volume returns the linear gain.
func (b *Backend) Volume(h faudio.VoiceHandle) float32 {
	if h == b.mHandle && b.master != nil {
		return b.mGain
	}
	if v, ok := b.voices[h]; ok {
		return v.gain
	}
	return 0
}

// SetFrequencyRatio retunes the voice's resampler.
func (b *Backend) SetFrequencyRatio(h faudio.VoiceHandle, ratio float32, operationSet uint32) error {
	v, err := b.voice("set frequency ratio", h)
	if err != nil {
		return err
	}
	b.out.Lock()
	v.ratio = ratio
	v.resampler.SetRatio(b.srcRatio(v.format, ratio))
	b.out.Unlock()
	return nil
}

// FrequencyRatio returns the pitch ratio.
func (b *Backend) FrequencyRatio(h faudio.VoiceHandle) float32 {
	if v, ok := b.voices[h]; ok {
		return v.ratio
	}
	return 0
}

// State reports the voice queue.
func (b *Backend) State(h faudio.VoiceHandle, flags uint32) faudio.VoiceState {
	v, ok := b.voices[h]
	if !ok {
		return faudio.VoiceState{}
	}
	b.out.Lock()
	defer b.out.Unlock()
	st := faudio.VoiceState{BuffersQueued: uint32(len(v.queue))}
	if len(v.queue) > 0 {
		st.CurrentBufferContext = v.queue[0].buf.Context
	}
	if flags&faudio.VoiceNoSamplesPlayed == 0 {
		st.SamplesPlayed = v.samplesPlayed
	}
	return st
}

// SampleRate returns the device rate, or zero before the mastering voice
// exists.
func (b *Backend) SampleRate() int {
	return int(b.rate)
}

// gainToVolume maps a linear gain onto effects.Volume with base 2.
func gainToVolume(gain float64) float64 {
	gain = math.Abs(gain)
	if gain == 0 {
		return math.Inf(-1)
	}
	return math.Log2(gain)
}

var _ faudio.Backend = (*Backend)(nil)
