package faudio

import (
	"errors"
	"testing"

	"github.com/Faultbox/fnago/internal/threadcheck"
)

type fakeVoice struct {
	queued  []Buffer
	volume  float32
	ratio   float32
	started bool
}

type fakeBackend struct {
	next     uint64
	voices   map[VoiceHandle]*fakeVoice
	released bool
	failWith error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{voices: make(map[VoiceHandle]*fakeVoice)}
}

func (f *fakeBackend) newVoice() VoiceHandle {
	f.next++
	h := VoiceHandle(f.next)
	f.voices[h] = &fakeVoice{volume: 1, ratio: 1}
	return h
}

func (f *fakeBackend) Create(flags uint32) (EngineHandle, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	return 1, nil
}

func (f *fakeBackend) Release(e EngineHandle) { f.released = true }

func (f *fakeBackend) CreateMasteringVoice(e EngineHandle, channels, rate uint32) (VoiceHandle, error) {
	return f.newVoice(), nil
}

func (f *fakeBackend) CreateSourceVoice(e EngineHandle, format WaveFormat, flags uint32, maxFreqRatio float32) (VoiceHandle, error) {
	return f.newVoice(), nil
}

func (f *fakeBackend) DestroyVoice(v VoiceHandle) { delete(f.voices, v) }

func (f *fakeBackend) SubmitSourceBuffer(v VoiceHandle, buf Buffer) error {
	f.voices[v].queued = append(f.voices[v].queued, buf)
	return nil
}

func (f *fakeBackend) FlushSourceBuffers(v VoiceHandle) error {
	f.voices[v].queued = nil
	return nil
}

func (f *fakeBackend) Discontinuity(v VoiceHandle) error { return nil }

func (f *fakeBackend) Start(v VoiceHandle, flags, opset uint32) error {
	f.voices[v].started = true
	return nil
}

func (f *fakeBackend) Stop(v VoiceHandle, flags, opset uint32) error {
	f.voices[v].started = false
	return nil
}

func (f *fakeBackend) SetVolume(v VoiceHandle, volume float32, opset uint32) error {
	f.voices[v].volume = volume
	return nil
}

func (f *fakeBackend) Volume(v VoiceHandle) float32 { return f.voices[v].volume }

func (f *fakeBackend) SetFrequencyRatio(v VoiceHandle, ratio float32, opset uint32) error {
	f.voices[v].ratio = ratio
	return nil
}

func (f *fakeBackend) FrequencyRatio(v VoiceHandle) float32 { return f.voices[v].ratio }

func (f *fakeBackend) State(v VoiceHandle, flags uint32) VoiceState {
	return VoiceState{BuffersQueued: uint32(len(f.voices[v].queued))}
}

func newTestEngine(t *testing.T, guard *threadcheck.Guard) (*Engine, *fakeBackend) {
	t.Helper()
	fb := newFakeBackend()
	e, err := NewEngine(fb, guard, 0)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	if _, err := e.CreateMasteringVoice(DefaultChannels, DefaultSampleRate); err != nil {
		t.Fatalf("CreateMasteringVoice() error = %v", err)
	}
	return e, fb
}

func TestErrorMatching(t *testing.T) {
	err := newError("start", EInvalidCall, "voice destroyed")
	if !errors.Is(err, ErrInvalidCall) {
		t.Error("error should match ErrInvalidCall")
	}
	if errors.Is(err, ErrInvalidArg) {
		t.Error("error should not match ErrInvalidArg")
	}
	want := "faudio: start: invalid call (0x88960001): voice destroyed"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if got := ErrorCode(0x1234).String(); got != "0x00001234" {
		t.Errorf("unknown code String() = %q", got)
	}
}

func TestCompiledVersion(t *testing.T) {
	if CompiledVersion != 241100 {
		t.Errorf("CompiledVersion = %d, want 241100", CompiledVersion)
	}
}

func TestWaveFormatValidate(t *testing.T) {
	tests := []struct {
		name   string
		format WaveFormat
		want   *Error
	}{
		{"pcm16 stereo", PCMFormat(2, 44100, 16), nil},
		{"pcm8 mono", PCMFormat(1, 22050, 8), nil},
		{"float", FloatFormat(2, 48000), nil},
		{"zero channels", PCMFormat(0, 44100, 16), ErrInvalidArg},
		{"too many channels", PCMFormat(65, 44100, 16), ErrInvalidArg},
		{"rate too low", PCMFormat(1, 999, 16), ErrInvalidArg},
		{"rate too high", PCMFormat(1, 200001, 16), ErrInvalidArg},
		{"pcm12", PCMFormat(1, 44100, 12), ErrUnsupportedFormat},
		{"float16", newFormat(FormatIEEEFloat, 1, 44100, 16), ErrUnsupportedFormat},
		{"unknown tag", WaveFormat{FormatTag: 0x99, Channels: 1, SamplesPerSec: 44100}, ErrUnsupportedFormat},
		{"bad block align", WaveFormat{FormatTag: FormatPCM, Channels: 2, SamplesPerSec: 44100, BitsPerSample: 16, BlockAlign: 2}, ErrInvalidArg},
		{"adpcm", WaveFormat{FormatTag: FormatMSADPCM, Channels: 1, SamplesPerSec: 44100, BlockAlign: 70}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.format.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want code %v", err, tt.want.Code)
			}
		})
	}
}

func TestNewEngineFailure(t *testing.T) {
	fb := newFakeBackend()
	fb.failWith = &Error{Op: "create", Code: EDeviceInvalidated}
	if _, err := NewEngine(fb, nil, 0); !errors.Is(err, ErrDeviceInvalidated) {
		t.Errorf("NewEngine() error = %v", err)
	}
}

func TestMasteringVoice(t *testing.T) {
	fb := newFakeBackend()
	e, _ := NewEngine(fb, nil, DebugEngine)

	if _, err := e.CreateSourceVoice(PCMFormat(1, 44100, 16), 0, DefaultFreqRatio); !errors.Is(err, ErrInvalidCall) {
		t.Errorf("source voice before mastering voice error = %v", err)
	}
	if _, err := e.CreateMasteringVoice(2, 500); !errors.Is(err, ErrInvalidArg) {
		t.Errorf("bad rate error = %v", err)
	}
	if _, err := e.CreateMasteringVoice(65, 0); !errors.Is(err, ErrInvalidArg) {
		t.Errorf("bad channel count error = %v", err)
	}
	m, err := e.CreateMasteringVoice(2, 48000)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.CreateMasteringVoice(2, 48000); !errors.Is(err, ErrInvalidCall) {
		t.Errorf("second mastering voice error = %v", err)
	}

	if err := m.SetVolume(0.5, CommitNow); err != nil {
		t.Fatal(err)
	}
	if m.Volume() != 0.5 {
		t.Errorf("Volume() = %g", m.Volume())
	}
}

func TestVolumeClamp(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	v, err := e.CreateSourceVoice(PCMFormat(2, 44100, 16), 0, DefaultFreqRatio)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		in, want float32
	}{
		{0.25, 0.25},
		{-1, -1},
		{1e9, MaxVolumeLevel},
		{-1e9, -MaxVolumeLevel},
	}
	for _, tt := range tests {
		if err := v.SetVolume(tt.in, CommitNow); err != nil {
			t.Fatal(err)
		}
		if got := v.Volume(); got != tt.want {
			t.Errorf("SetVolume(%g) stored %g, want %g", tt.in, got, tt.want)
		}
	}
}

func TestFrequencyRatio(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	v, _ := e.CreateSourceVoice(PCMFormat(1, 44100, 16), 0, 4)

	v.SetFrequencyRatio(8, CommitNow)
	if got := v.FrequencyRatio(); got != 4 {
		t.Errorf("ratio above max stored %g, want 4", got)
	}
	v.SetFrequencyRatio(0, CommitNow)
	if got := v.FrequencyRatio(); got != MinFreqRatio {
		t.Errorf("ratio below min stored %g, want %g", got, float32(MinFreqRatio))
	}

	if _, err := e.CreateSourceVoice(PCMFormat(1, 44100, 16), 0, 2048); !errors.Is(err, ErrInvalidArg) {
		t.Errorf("max ratio above limit error = %v", err)
	}

	fixed, _ := e.CreateSourceVoice(PCMFormat(1, 44100, 16), VoiceNoPitch, 1)
	if err := fixed.SetFrequencyRatio(1.5, CommitNow); !errors.Is(err, ErrInvalidCall) {
		t.Errorf("pitch change on VoiceNoPitch voice error = %v", err)
	}
}

func TestSubmitValidation(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	// 16-bit stereo: 4 bytes per frame, 10 frames.
	v, _ := e.CreateSourceVoice(PCMFormat(2, 44100, 16), 0, DefaultFreqRatio)
	data := make([]byte, 40)

	tests := []struct {
		name string
		buf  Buffer
		ok   bool
	}{
		{"whole buffer", Buffer{AudioData: data}, true},
		{"play region", Buffer{AudioData: data, PlayBegin: 2, PlayLength: 8}, true},
		{"infinite loop", Buffer{AudioData: data, LoopBegin: 1, LoopLength: 4, LoopCount: LoopInfinite}, true},
		{"loop to end", Buffer{AudioData: data, LoopBegin: 5, LoopCount: 3}, true},
		{"empty", Buffer{}, false},
		{"partial frame", Buffer{AudioData: data[:39]}, false},
		{"play past end", Buffer{AudioData: data, PlayBegin: 5, PlayLength: 6}, false},
		{"play begin at end", Buffer{AudioData: data, PlayBegin: 10}, false},
		{"loop count too high", Buffer{AudioData: data, LoopCount: 300}, false},
		{"loop outside play", Buffer{AudioData: data, PlayLength: 4, LoopBegin: 2, LoopLength: 4, LoopCount: 1}, false},
		{"loop region without count", Buffer{AudioData: data, LoopBegin: 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Submit(tt.buf)
			if tt.ok && err != nil {
				t.Errorf("Submit() = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidArg) {
				t.Errorf("Submit() = %v, want ErrInvalidArg", err)
			}
		})
	}
}

func TestSubmitQueueLimit(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	v, _ := e.CreateSourceVoice(PCMFormat(1, 44100, 8), 0, DefaultFreqRatio)

	for i := range MaxQueuedBuffers {
		if err := v.Submit(Buffer{AudioData: []byte{128}}); err != nil {
			t.Fatalf("Submit() #%d error = %v", i, err)
		}
	}
	if err := v.Submit(Buffer{AudioData: []byte{128}}); !errors.Is(err, ErrInvalidCall) {
		t.Errorf("Submit() past the queue limit error = %v", err)
	}
	if err := v.Flush(); err != nil {
		t.Fatal(err)
	}
	if q := v.State(0).BuffersQueued; q != 0 {
		t.Errorf("BuffersQueued after Flush = %d", q)
	}
}

func TestDestroyAndRelease(t *testing.T) {
	e, fb := newTestEngine(t, nil)
	v1, _ := e.CreateSourceVoice(PCMFormat(1, 44100, 16), 0, 1)
	v2, _ := e.CreateSourceVoice(PCMFormat(1, 44100, 16), 0, 1)
	if e.SourceVoiceCount() != 2 {
		t.Fatalf("SourceVoiceCount() = %d", e.SourceVoiceCount())
	}

	v1.Destroy()
	v1.Destroy()
	if err := v1.Start(0, CommitNow); !errors.Is(err, ErrInvalidCall) {
		t.Errorf("Start on destroyed voice error = %v", err)
	}
	if e.SourceVoiceCount() != 1 {
		t.Errorf("SourceVoiceCount() = %d, want 1", e.SourceVoiceCount())
	}

	e.Release()
	e.Release()
	if !fb.released {
		t.Error("backend engine not released")
	}
	if len(fb.voices) != 0 {
		t.Errorf("%d backend voices leaked", len(fb.voices))
	}
	if err := v2.Start(0, CommitNow); !errors.Is(err, ErrInvalidCall) {
		t.Errorf("Start after Release error = %v", err)
	}
}

func TestEngineGuard(t *testing.T) {
	id := uint64(1)
	guard := threadcheck.New(true, threadcheck.WithThreadID(func() uint64 { return id }))
	e, _ := newTestEngine(t, guard)
	v, err := e.CreateSourceVoice(PCMFormat(1, 44100, 16), 0, 1)
	if err != nil {
		t.Fatal(err)
	}

	id = 2
	calls := map[string]func(){
		"Start":     func() { _ = v.Start(0, CommitNow) },
		"SetVolume": func() { _ = v.SetVolume(1, CommitNow) },
		"State":     func() { v.State(0) },
		"Destroy":   func() { v.Destroy() },
		"Release":   func() { e.Release() },
	}
	for name, fn := range calls {
		func() {
			defer func() {
				r := recover()
				if err, ok := r.(error); !ok || !errors.Is(err, threadcheck.ErrWrongThread) {
					t.Errorf("%s: recover() = %v, want ErrWrongThread", name, r)
				}
			}()
			fn()
		}()
	}
}
