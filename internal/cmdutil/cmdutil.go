// Package cmdutil holds the small pieces of plumbing every
// cmd/vsearchgo-* binary repeats: snappy-aware file open/create
// (reading/writing ".sz"-suffixed intermediates transparently) and a
// profile.Start/Stop toggle gated behind a -profile flag.
package cmdutil

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/golang/snappy"
	"github.com/pkg/profile"
)

// OpenInput opens path for reading, transparently unwrapping snappy
// compression when the name ends in ".sz".
func OpenInput(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".sz") {
		return snappyReadCloser{snappy.NewReader(f), f}, nil
	}
	return f, nil
}

type snappyReadCloser struct {
	r *snappy.Reader
	f *os.File
}

func (s snappyReadCloser) Read(p []byte) (int, error) { return s.r.Read(p) }
func (s snappyReadCloser) Close() error                { return s.f.Close() }

// CreateOutput creates path for writing, transparently snappy-compressing
// when the name ends in ".sz".
func CreateOutput(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".sz") {
		w := snappy.NewBufferedWriter(f)
		return snappyWriteCloser{w, f}, nil
	}
	return bufWriteCloser{bufio.NewWriter(f), f}, nil
}

type snappyWriteCloser struct {
	w *snappy.Writer
	f *os.File
}

func (s snappyWriteCloser) Write(p []byte) (int, error) { return s.w.Write(p) }
func (s snappyWriteCloser) Close() error {
	if err := s.w.Close(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}

type bufWriteCloser struct {
	w *bufio.Writer
	f *os.File
}

func (b bufWriteCloser) Write(p []byte) (int, error) { return b.w.Write(p) }
func (b bufWriteCloser) Close() error {
	if err := b.w.Flush(); err != nil {
		b.f.Close()
		return err
	}
	return b.f.Close()
}

// StartProfile enables CPU profiling to the current directory when
// enabled is true. The returned func must be deferred by the caller;
// it is a no-op when profiling was not enabled.
func StartProfile(enabled bool) func() {
	if !enabled {
		return func() {}
	}
	p := profile.Start(profile.ProfilePath("."))
	return p.Stop
}
