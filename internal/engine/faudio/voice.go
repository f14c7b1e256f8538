package faudio

// SourceVoice plays a queue of submitted buffers.
type SourceVoice struct {
	engine       *Engine
	handle       VoiceHandle
	format       WaveFormat
	flags        uint32
	maxFreqRatio float32
	destroyed    bool
}

func (v *SourceVoice) enter(op string) error {
	if err := v.engine.enter(op); err != nil {
		return err
	}
	if v.destroyed {
		return newError(op, EInvalidCall, "voice destroyed")
	}
	return nil
}

// Handle returns the backend voice.
func (v *SourceVoice) Handle() VoiceHandle { return v.handle }

// Format returns the voice's input format.
func (v *SourceVoice) Format() WaveFormat { return v.format }

// Details describes how the voice was created.
func (v *SourceVoice) Details() VoiceDetails {
	return VoiceDetails{
		CreationFlags:   v.flags,
		InputChannels:   uint32(v.format.Channels),
		InputSampleRate: v.format.SamplesPerSec,
	}
}

// Submit queues a buffer after checking its play and loop regions.
func (v *SourceVoice) Submit(buf Buffer) error {
	const op = "submit source buffer"
	if err := v.enter(op); err != nil {
		return err
	}
	if err := v.checkBuffer(op, buf); err != nil {
		return err
	}
	if q := v.engine.backend.State(v.handle, VoiceNoSamplesPlayed).BuffersQueued; q >= MaxQueuedBuffers {
		return newError(op, EInvalidCall, "%d buffers already queued", q)
	}
	return v.engine.backend.SubmitSourceBuffer(v.handle, buf)
}

func (v *SourceVoice) checkBuffer(op string, buf Buffer) error {
	n := len(buf.AudioData)
	if n == 0 || uint64(n) > MaxBufferBytes {
		return newError(op, EInvalidArg, "%d audio bytes", n)
	}
	align := int(v.format.BlockAlign)
	if v.format.FormatTag != FormatPCM && v.format.FormatTag != FormatIEEEFloat {
		// Compressed data is not frame addressable here.
		return nil
	}
	if n%align != 0 {
		return newError(op, EInvalidArg, "%d bytes is not a multiple of block align %d", n, align)
	}

	frames := uint32(n / align)
	playEnd := frames
	if buf.PlayLength != 0 {
		playEnd = buf.PlayBegin + buf.PlayLength
	}
	if buf.PlayBegin >= frames || playEnd > frames || playEnd < buf.PlayBegin {
		return newError(op, EInvalidArg, "play region [%d, %d) outside %d frames", buf.PlayBegin, playEnd, frames)
	}

	if buf.LoopCount == 0 {
		if buf.LoopBegin != 0 || buf.LoopLength != 0 {
			return newError(op, EInvalidArg, "loop region without loop count")
		}
		return nil
	}
	if buf.LoopCount > MaxLoopCount && buf.LoopCount != LoopInfinite {
		return newError(op, EInvalidArg, "loop count %d", buf.LoopCount)
	}
	loopEnd := playEnd
	if buf.LoopLength != 0 {
		loopEnd = buf.LoopBegin + buf.LoopLength
	}
	if buf.LoopBegin >= playEnd || loopEnd > playEnd || loopEnd <= buf.LoopBegin {
		return newError(op, EInvalidArg, "loop region [%d, %d) outside play region", buf.LoopBegin, loopEnd)
	}
	return nil
}

// Flush drops every queued buffer that has not started playing.
func (v *SourceVoice) Flush() error {
	if err := v.enter("flush source buffers"); err != nil {
		return err
	}
	return v.engine.backend.FlushSourceBuffers(v.handle)
}

// Discontinuity marks the end of the queued stream.
func (v *SourceVoice) Discontinuity() error {
	if err := v.enter("discontinuity"); err != nil {
		return err
	}
	return v.engine.backend.Discontinuity(v.handle)
}

// Start begins consuming queued buffers.
func (v *SourceVoice) Start(flags, operationSet uint32) error {
	if err := v.enter("start"); err != nil {
		return err
	}
	return v.engine.backend.Start(v.handle, flags, operationSet)
}

// Stop pauses the voice. With PlayTails, effect tails keep playing.
func (v *SourceVoice) Stop(flags, operationSet uint32) error {
	if err := v.enter("stop"); err != nil {
		return err
	}
	return v.engine.backend.Stop(v.handle, flags, operationSet)
}

// SetVolume sets the voice gain, clamped to ±MaxVolumeLevel. Negative
// gains invert phase.
func (v *SourceVoice) SetVolume(volume float32, operationSet uint32) error {
	if err := v.enter("set volume"); err != nil {
		return err
	}
	return v.engine.backend.SetVolume(v.handle, clampVolume(volume), operationSet)
}

// Volume returns the voice gain.
func (v *SourceVoice) Volume() float32 {
	v.engine.guard.Check()
	return v.engine.backend.Volume(v.handle)
}

// SetFrequencyRatio sets the pitch ratio, clamped to the range the voice
// was created with.
func (v *SourceVoice) SetFrequencyRatio(ratio float32, operationSet uint32) error {
	const op = "set frequency ratio"
	if err := v.enter(op); err != nil {
		return err
	}
	if v.flags&VoiceNoPitch != 0 {
		return newError(op, EInvalidCall, "voice created with VoiceNoPitch")
	}
	ratio = max(MinFreqRatio, min(ratio, v.maxFreqRatio))
	return v.engine.backend.SetFrequencyRatio(v.handle, ratio, operationSet)
}

// FrequencyRatio returns the pitch ratio.
func (v *SourceVoice) FrequencyRatio() float32 {
	v.engine.guard.Check()
	return v.engine.backend.FrequencyRatio(v.handle)
}

// State reports the queue. Pass VoiceNoSamplesPlayed to skip the sample
// count.
func (v *SourceVoice) State(flags uint32) VoiceState {
	v.engine.guard.Check()
	return v.engine.backend.State(v.handle, flags)
}

// Destroy releases the voice. Calling it twice is a no-op.
func (v *SourceVoice) Destroy() {
	v.engine.guard.Check()
	v.destroy()
}

func (v *SourceVoice) destroy() {
	if v.destroyed {
		return
	}
	v.engine.backend.DestroyVoice(v.handle)
	delete(v.engine.voices, v.handle)
	v.destroyed = true
}
