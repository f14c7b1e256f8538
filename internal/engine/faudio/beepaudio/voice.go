package beepaudio

import (
	"encoding/binary"
	"math"

	"github.com/gopxl/beep/v2"

	"github.com/Faultbox/fnago/internal/engine/faudio"
)

// queued is a submitted buffer with its play cursor. Positions are frames.
type queued struct {
	buf       faudio.Buffer
	pos       uint32
	playEnd   uint32
	loopBegin uint32
	loopEnd   uint32
	loopsLeft uint32
}

// voice streams its queue as beep samples. It never drains on its own:
// with nothing queued it plays silence so the mixer keeps it.
type voice struct {
	format faudio.WaveFormat
	frame  int
	decode func(b []byte) float64

	queue         []*queued
	samplesPlayed uint64
	gain          float32
	ratio         float32
	done          bool

	resampler *beep.Resampler
	ctrl      *beep.Ctrl
}

func newVoice(format faudio.WaveFormat) *voice {
	return &voice{
		format: format,
		frame:  int(format.BlockAlign),
		decode: decoder(format),
		gain:   1,
		ratio:  1,
	}
}

func decoder(format faudio.WaveFormat) func(b []byte) float64 {
	if format.FormatTag == faudio.FormatIEEEFloat {
		return func(b []byte) float64 {
			return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
		}
	}
	switch format.BitsPerSample {
	case 8:
		return func(b []byte) float64 { return (float64(b[0]) - 128) / 128 }
	case 16:
		return func(b []byte) float64 { return float64(int16(binary.LittleEndian.Uint16(b))) / (1 << 15) }
	case 24:
		return func(b []byte) float64 {
			v := int32(uint32(b[0])<<8|uint32(b[1])<<16|uint32(b[2])<<24) >> 8
			return float64(v) / (1 << 23)
		}
	default:
		return func(b []byte) float64 { return float64(int32(binary.LittleEndian.Uint32(b))) / (1 << 31) }
	}
}

func (v *voice) submit(buf faudio.Buffer) {
	frames := uint32(len(buf.AudioData) / v.frame)
	q := &queued{buf: buf, pos: buf.PlayBegin, playEnd: frames}
	if buf.PlayLength != 0 {
		q.playEnd = buf.PlayBegin + buf.PlayLength
	}
	if buf.LoopCount != 0 {
		q.loopBegin = buf.LoopBegin
		q.loopEnd = q.playEnd
		if buf.LoopLength != 0 {
			q.loopEnd = buf.LoopBegin + buf.LoopLength
		}
		q.loopsLeft = buf.LoopCount
	}
	v.queue = append(v.queue, q)
}

func (v *voice) flush() {
	if len(v.queue) > 0 && v.queue[0].pos != v.queue[0].buf.PlayBegin {
		v.queue = v.queue[:1]
		return
	}
	v.queue = nil
}

// sample decodes one frame. Mono feeds both sides; channels past the
// second are dropped.
func (v *voice) sample(data []byte, pos uint32) [2]float64 {
	off := int(pos) * v.frame
	left := v.decode(data[off:])
	if v.format.Channels == 1 {
		return [2]float64{left, left}
	}
	width := int(v.format.BitsPerSample / 8)
	return [2]float64{left, v.decode(data[off+width:])}
}

func (v *voice) Stream(samples [][2]float64) (int, bool) {
	if v.done {
		return 0, false
	}
	n := 0
	for n < len(samples) && len(v.queue) > 0 {
		q := v.queue[0]
		for n < len(samples) && q.pos < q.playEnd {
			samples[n] = v.sample(q.buf.AudioData, q.pos)
			n++
			q.pos++
			v.samplesPlayed++
			if q.loopsLeft > 0 && q.pos == q.loopEnd {
				q.pos = q.loopBegin
				if q.loopsLeft != faudio.LoopInfinite {
					q.loopsLeft--
				}
			}
		}
		if q.pos >= q.playEnd {
			v.queue[0] = nil
			v.queue = v.queue[1:]
		}
	}
	g := float64(v.gain)
	for i := range samples[:n] {
		samples[i][0] *= g
		samples[i][1] *= g
	}
	clear(samples[n:])
	return len(samples), true
}

func (v *voice) Err() error { return nil }
