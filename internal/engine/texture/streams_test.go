package texture

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
)

func TestStreamsReadSkipEOF(t *testing.T) {
	tbl := NewStreams()
	h := tbl.Register(strings.NewReader("abcdef"))

	p := make([]byte, 2)
	if n, err := tbl.Read(h, p); err != nil || n != 2 || string(p) != "ab" {
		t.Fatalf("Read() = %d, %v, %q", n, err, p)
	}
	if err := tbl.Skip(h, 2); err != nil {
		t.Fatal(err)
	}
	if eof, err := tbl.EOF(h); err != nil || eof {
		t.Fatalf("EOF() = %v, %v before the end", eof, err)
	}
	if n, _ := tbl.Read(h, p); n != 2 || string(p) != "ef" {
		t.Fatalf("Read() after Skip = %q", p[:n])
	}
	if eof, err := tbl.EOF(h); err != nil || !eof {
		t.Errorf("EOF() = %v, %v at the end", eof, err)
	}
}

func TestStreamsSkipUnseekable(t *testing.T) {
	tbl := NewStreams()
	h := tbl.Register(io.MultiReader(strings.NewReader("xyz")))
	if err := tbl.Skip(h, 2); err != nil {
		t.Fatal(err)
	}
	p := make([]byte, 4)
	if n, _ := tbl.Read(h, p); string(p[:n]) != "z" {
		t.Errorf("Read() after Skip = %q, want z", p[:n])
	}
	if eof, err := tbl.EOF(h); eof || err != nil {
		t.Errorf("EOF() on unseekable stream = %v, %v", eof, err)
	}
}

func TestStreamsWrite(t *testing.T) {
	tbl := NewStreams()
	var buf bytes.Buffer
	h := tbl.Register(&buf)
	if _, err := tbl.Write(h, []byte("png")); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "png" {
		t.Errorf("written %q", buf.String())
	}

	r := tbl.Register(strings.NewReader("read only"))
	if _, err := tbl.Write(r, []byte("x")); err == nil {
		t.Error("Write() to a reader succeeded")
	}
}

func TestStreamsUnknownHandle(t *testing.T) {
	tbl := NewStreams()
	h := tbl.Register(strings.NewReader(""))
	tbl.Unregister(h)
	tbl.Unregister(h)

	if _, err := tbl.Read(h, make([]byte, 1)); !errors.Is(err, ErrUnknownStream) {
		t.Errorf("Read() error = %v", err)
	}
	if _, err := tbl.Write(h, nil); !errors.Is(err, ErrUnknownStream) {
		t.Errorf("Write() error = %v", err)
	}
	if err := tbl.Skip(h, 1); !errors.Is(err, ErrUnknownStream) {
		t.Errorf("Skip() error = %v", err)
	}
	if _, err := tbl.EOF(h); !errors.Is(err, ErrUnknownStream) {
		t.Errorf("EOF() error = %v", err)
	}
}

func TestStreamsConcurrentRegister(t *testing.T) {
	tbl := NewStreams()
	var wg sync.WaitGroup
	seen := make(chan StreamHandle, 100)
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h := tbl.Register(&bytes.Buffer{})
			seen <- h
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[StreamHandle]bool)
	for h := range seen {
		if unique[h] {
			t.Fatalf("handle %d issued twice", h)
		}
		unique[h] = true
		tbl.Unregister(h)
	}
	if tbl.Len() != 0 {
		t.Errorf("Len() = %d after unregistering all", tbl.Len())
	}
}
