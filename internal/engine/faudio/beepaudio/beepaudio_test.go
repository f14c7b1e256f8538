package beepaudio

import (
	"encoding/binary"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/gopxl/beep/v2"

	"github.com/Faultbox/fnago/internal/engine/faudio"
)

type fakeOutput struct {
	mu       sync.Mutex
	rate     beep.SampleRate
	streamer beep.Streamer
	closed   bool
	initErr  error
}

func (o *fakeOutput) Init(rate beep.SampleRate, bufferSize int) error {
	if o.initErr != nil {
		return o.initErr
	}
	o.rate = rate
	return nil
}

func (o *fakeOutput) Play(s beep.Streamer) { o.streamer = s }
func (o *fakeOutput) Lock()                { o.mu.Lock() }
func (o *fakeOutput) Unlock()              { o.mu.Unlock() }
func (o *fakeOutput) Close()               { o.closed = true }

// pull mixes n samples the way the speaker goroutine would.
func (o *fakeOutput) pull(n int) [][2]float64 {
	buf := make([][2]float64, n)
	o.Lock()
	defer o.Unlock()
	o.streamer.Stream(buf)
	return buf
}

func newTestEngine(t *testing.T) (*faudio.Engine, *Backend, *fakeOutput) {
	t.Helper()
	out := &fakeOutput{}
	b := New(nil, WithOutput(out), WithSampleRate(22050))
	e, err := faudio.NewEngine(b, nil, 0)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	if _, err := e.CreateMasteringVoice(faudio.DefaultChannels, faudio.DefaultSampleRate); err != nil {
		t.Fatalf("CreateMasteringVoice() error = %v", err)
	}
	return e, b, out
}

func pcm16(values ...int16) []byte {
	out := make([]byte, 2*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(v))
	}
	return out
}

func stream(v *voice, n int) [][2]float64 {
	buf := make([][2]float64, n)
	v.Stream(buf)
	return buf
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestMasteringVoiceOpensOutput(t *testing.T) {
	_, b, out := newTestEngine(t)
	if out.rate != 22050 {
		t.Errorf("output rate = %d, want 22050", out.rate)
	}
	if b.SampleRate() != 22050 {
		t.Errorf("SampleRate() = %d", b.SampleRate())
	}
	if out.streamer == nil {
		t.Fatal("mixer not playing")
	}
	got := out.pull(8)
	for i, s := range got {
		if s != [2]float64{} {
			t.Fatalf("sample %d = %v, want silence", i, s)
		}
	}
}

func TestMasteringVoiceInitError(t *testing.T) {
	out := &fakeOutput{initErr: errors.New("no device")}
	e, err := faudio.NewEngine(New(nil, WithOutput(out)), nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.CreateMasteringVoice(2, 44100); !errors.Is(err, faudio.ErrDeviceInvalidated) {
		t.Errorf("CreateMasteringVoice() error = %v", err)
	}
}

func TestSecondEngineRejected(t *testing.T) {
	b := New(nil, WithOutput(&fakeOutput{}))
	if _, err := b.Create(0); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Create(0); !errors.Is(err, faudio.ErrInvalidCall) {
		t.Errorf("second Create() error = %v", err)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	e, _, _ := newTestEngine(t)
	adpcm := faudio.WaveFormat{FormatTag: faudio.FormatMSADPCM, Channels: 1, SamplesPerSec: 22050, BlockAlign: 70}
	if _, err := e.CreateSourceVoice(adpcm, 0, 1); !errors.Is(err, faudio.ErrUnsupportedFormat) {
		t.Errorf("CreateSourceVoice(adpcm) error = %v", err)
	}
}

func TestDecoders(t *testing.T) {
	f32 := make([]byte, 4)
	binary.LittleEndian.PutUint32(f32, math.Float32bits(-0.25))

	tests := []struct {
		name   string
		format faudio.WaveFormat
		data   []byte
		want   float64
	}{
		{"pcm8 mid", faudio.PCMFormat(1, 22050, 8), []byte{128}, 0},
		{"pcm8 low", faudio.PCMFormat(1, 22050, 8), []byte{0}, -1},
		{"pcm16 half", faudio.PCMFormat(1, 22050, 16), pcm16(16384), 0.5},
		{"pcm16 min", faudio.PCMFormat(1, 22050, 16), pcm16(-32768), -1},
		{"pcm24 negative", faudio.PCMFormat(1, 22050, 24), []byte{0x00, 0x00, 0xC0}, -0.5},
		{"pcm32 quarter", faudio.PCMFormat(1, 22050, 32), []byte{0, 0, 0, 0x20}, 0.25},
		{"float", faudio.FloatFormat(1, 22050), f32, -0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decoder(tt.format)(tt.data); !near(got, tt.want) {
				t.Errorf("decode = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestVoiceStreamsQueue(t *testing.T) {
	v := newVoice(faudio.PCMFormat(2, 22050, 16))
	v.submit(faudio.Buffer{AudioData: pcm16(16384, -16384, 8192, 0), Context: "a"})
	v.submit(faudio.Buffer{AudioData: pcm16(-32768, 16384)})

	got := stream(v, 4)
	want := [][2]float64{{0.5, -0.5}, {0.25, 0}, {-1, 0.5}, {0, 0}}
	for i := range want {
		if !near(got[i][0], want[i][0]) || !near(got[i][1], want[i][1]) {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
	if v.samplesPlayed != 3 {
		t.Errorf("samplesPlayed = %d, want 3", v.samplesPlayed)
	}
	if len(v.queue) != 0 {
		t.Errorf("queue length = %d, want 0", len(v.queue))
	}
}

func TestVoiceMonoAndGain(t *testing.T) {
	v := newVoice(faudio.PCMFormat(1, 22050, 16))
	v.gain = -2
	v.submit(faudio.Buffer{AudioData: pcm16(8192)})
	got := stream(v, 1)
	if !near(got[0][0], -0.5) || !near(got[0][1], -0.5) {
		t.Errorf("sample = %v, want [-0.5 -0.5]", got[0])
	}
}

func TestVoicePlayAndLoopRegions(t *testing.T) {
	frames := pcm16(0, 1, 2, 3, 4, 5)
	level := func(s [2]float64) int { return int(math.Round(s[0] * (1 << 15))) }

	tests := []struct {
		name string
		buf  faudio.Buffer
		want []int
	}{
		{"play region", faudio.Buffer{PlayBegin: 2, PlayLength: 3}, []int{2, 3, 4}},
		{"loop twice", faudio.Buffer{PlayLength: 4, LoopBegin: 1, LoopLength: 2, LoopCount: 2}, []int{0, 1, 2, 1, 2, 1, 2, 3}},
		{"loop to end", faudio.Buffer{PlayBegin: 3, LoopBegin: 4, LoopCount: 1}, []int{3, 4, 5, 4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newVoice(faudio.PCMFormat(1, 22050, 16))
			tt.buf.AudioData = frames
			v.submit(tt.buf)
			got := stream(v, len(tt.want)+2)
			for i, w := range tt.want {
				if level(got[i]) != w {
					t.Errorf("frame %d = %d, want %d", i, level(got[i]), w)
				}
			}
			if len(v.queue) != 0 {
				t.Errorf("buffer still queued after %d frames", len(tt.want))
			}
		})
	}
}

func TestVoiceInfiniteLoop(t *testing.T) {
	v := newVoice(faudio.PCMFormat(1, 22050, 8))
	v.submit(faudio.Buffer{AudioData: []byte{128, 255}, LoopCount: faudio.LoopInfinite})
	stream(v, 1000)
	if len(v.queue) != 1 {
		t.Fatal("infinite loop ended")
	}
	if v.samplesPlayed != 1000 {
		t.Errorf("samplesPlayed = %d, want 1000", v.samplesPlayed)
	}
}

func TestVoiceFlush(t *testing.T) {
	v := newVoice(faudio.PCMFormat(1, 22050, 8))
	v.submit(faudio.Buffer{AudioData: []byte{1, 2, 3}})
	v.submit(faudio.Buffer{AudioData: []byte{4}})
	v.flush()
	if len(v.queue) != 0 {
		t.Errorf("flush before playback left %d buffers", len(v.queue))
	}

	v.submit(faudio.Buffer{AudioData: []byte{1, 2, 3}})
	v.submit(faudio.Buffer{AudioData: []byte{4}})
	stream(v, 1)
	v.flush()
	if len(v.queue) != 1 {
		t.Errorf("flush during playback left %d buffers, want 1", len(v.queue))
	}
}

func TestSourceVoiceThroughEngine(t *testing.T) {
	e, b, out := newTestEngine(t)
	sv, err := e.CreateSourceVoice(faudio.PCMFormat(1, 22050, 16), 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	data := make([]int16, 64)
	for i := range data {
		data[i] = 8192
	}
	if err := sv.Submit(faudio.Buffer{AudioData: pcm16(data...), Context: 7}); err != nil {
		t.Fatal(err)
	}

	st := sv.State(0)
	if st.BuffersQueued != 1 || st.CurrentBufferContext != 7 || st.SamplesPlayed != 0 {
		t.Errorf("State() before start = %+v", st)
	}

	// Stopped voices do not consume.
	out.pull(256)
	if sv.State(0).SamplesPlayed != 0 {
		t.Error("stopped voice consumed samples")
	}

	if err := sv.Start(0, faudio.CommitNow); err != nil {
		t.Fatal(err)
	}
	out.pull(1024)
	st = sv.State(0)
	if st.BuffersQueued != 0 || st.SamplesPlayed != 64 {
		t.Errorf("State() after playback = %+v", st)
	}
	if sv.State(faudio.VoiceNoSamplesPlayed).SamplesPlayed != 0 {
		t.Error("VoiceNoSamplesPlayed still reported samples")
	}

	if err := sv.SetFrequencyRatio(1.5, faudio.CommitNow); err != nil {
		t.Fatal(err)
	}
	if sv.FrequencyRatio() != 1.5 {
		t.Errorf("FrequencyRatio() = %g", sv.FrequencyRatio())
	}
	if err := sv.SetVolume(0.5, faudio.CommitNow); err != nil {
		t.Fatal(err)
	}
	if sv.Volume() != 0.5 {
		t.Errorf("Volume() = %g", sv.Volume())
	}

	h := sv.Handle()
	sv.Destroy()
	if _, ok := b.voices[h]; ok {
		t.Error("destroyed voice still tracked")
	}
	out.pull(16)
}

func TestMasterVolume(t *testing.T) {
	_, b, _ := newTestEngine(t)
	m := b.mHandle

	if err := b.SetVolume(m, 0, 0); err != nil {
		t.Fatal(err)
	}
	if !b.master.Silent {
		t.Error("zero gain should silence the master")
	}
	if err := b.SetVolume(m, 0.5, 0); err != nil {
		t.Fatal(err)
	}
	if b.master.Silent || b.master.Volume != -1 {
		t.Errorf("master volume = %g silent=%v, want -1", b.master.Volume, b.master.Silent)
	}
	if b.Volume(m) != 0.5 {
		t.Errorf("Volume() = %g", b.Volume(m))
	}
}

func TestGainToVolume(t *testing.T) {
	tests := []struct {
		gain, want float64
	}{
		{1, 0},
		{0.5, -1},
		{4, 2},
		{-2, 1},
	}
	for _, tt := range tests {
		if got := gainToVolume(tt.gain); got != tt.want {
			t.Errorf("gainToVolume(%g) = %g, want %g", tt.gain, got, tt.want)
		}
	}
	if !math.IsInf(gainToVolume(0), -1) {
		t.Error("gainToVolume(0) should be -Inf")
	}
}

func TestRelease(t *testing.T) {
	e, b, out := newTestEngine(t)
	if _, err := e.CreateSourceVoice(faudio.FloatFormat(2, 44100), 0, 1); err != nil {
		t.Fatal(err)
	}
	e.Release()
	if !out.closed {
		t.Error("output not closed")
	}
	if len(b.voices) != 0 {
		t.Errorf("%d voices left after Release", len(b.voices))
	}
	if _, err := b.Create(0); err != nil {
		t.Errorf("Create() after Release error = %v", err)
	}
}
