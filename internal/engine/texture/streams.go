package texture

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrUnknownStream is returned for handles that were never registered or
// have been unregistered.
var ErrUnknownStream = errors.New("texture: unknown stream handle")

// StreamHandle is the opaque context a codec callback receives.
type StreamHandle uint64

// Streams maps handles to the streams a codec reads from or writes to.
// Callbacks may run on a codec's own goroutine, so every access locks.
type Streams struct {
	mu      sync.Mutex
	next    StreamHandle
	streams map[StreamHandle]any
}

// NewStreams creates an empty table.
func NewStreams() *Streams {
	return &Streams{streams: make(map[StreamHandle]any)}
}

// Register adds s and returns its handle. Handles are never reused.
func (t *Streams) Register(s any) StreamHandle {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	t.streams[t.next] = s
	return t.next
}

// Unregister removes a handle. Unknown handles are ignored.
func (t *Streams) Unregister(h StreamHandle) {
	t.mu.Lock()
	delete(t.streams, h)
	t.mu.Unlock()
}

// Len returns the number of registered streams.
func (t *Streams) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.streams)
}

func (t *Streams) get(h StreamHandle) (any, error) {
	t.mu.Lock()
	s, ok := t.streams[h]
	t.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStream, h)
	}
	return s, nil
}

// Read reads from the stream behind h.
func (t *Streams) Read(h StreamHandle, p []byte) (int, error) {
	s, err := t.get(h)
	if err != nil {
		return 0, err
	}
	r, ok := s.(io.Reader)
	if !ok {
		return 0, fmt.Errorf("texture: stream %d is not readable", h)
	}
	return r.Read(p)
}

// Skip advances the stream behind h by n bytes. Streams that cannot seek
// are read and discarded.
func (t *Streams) Skip(h StreamHandle, n int64) error {
	s, err := t.get(h)
	if err != nil {
		return err
	}
	if sk, ok := s.(io.Seeker); ok {
		_, err := sk.Seek(n, io.SeekCurrent)
		return err
	}
	r, ok := s.(io.Reader)
	if !ok {
		return fmt.Errorf("texture: stream %d is not readable", h)
	}
	_, err = io.CopyN(io.Discard, r, n)
	return err
}

// EOF reports whether a seekable stream is at its end. Streams that
// cannot seek report false; their readers return io.EOF instead.
func (t *Streams) EOF(h StreamHandle) (bool, error) {
	s, err := t.get(h)
	if err != nil {
		return false, err
	}
	sk, ok := s.(io.Seeker)
	if !ok {
		return false, nil
	}
	pos, err := sk.Seek(0, io.SeekCurrent)
	if err != nil {
		return false, err
	}
	end, err := sk.Seek(0, io.SeekEnd)
	if err != nil {
		return false, err
	}
	if _, err := sk.Seek(pos, io.SeekStart); err != nil {
		return false, err
	}
	return pos >= end, nil
}

// Write writes to the stream behind h.
func (t *Streams) Write(h StreamHandle, p []byte) (int, error) {
	s, err := t.get(h)
	if err != nil {
		return 0, err
	}
	w, ok := s.(io.Writer)
	if !ok {
		return 0, fmt.Errorf("texture: stream %d is not writable", h)
	}
	return w.Write(p)
}

// handleReader and handleWriter drive a codec through the table so the
// codec only ever sees the handle.
type handleReader struct {
	t *Streams
	h StreamHandle
}

func (r handleReader) Read(p []byte) (int, error) { return r.t.Read(r.h, p) }

type handleWriter struct {
	t *Streams
	h StreamHandle
}

func (w handleWriter) Write(p []byte) (int, error) { return w.t.Write(w.h, p) }
