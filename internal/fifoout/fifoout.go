// Package fifoout is an optional named-pipe output sink: it creates a
// FIFO under a unique per-run directory and hands back an
// io.WriteCloser a sinks.Writer can wrap, letting a downstream process
// consume results without an intermediate file.
package fifoout

import (
	"fmt"
	"os"
	"path"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

// Pipe is an open FIFO: Path is where a downstream reader should open
// it, and Pipe itself is the writer end.
type Pipe struct {
	Path string
	*os.File
}

// New creates a uniquely-named FIFO under dir (created if absent) and
// opens it for writing. The open blocks until a reader attaches to the
// other end, matching FIFO semantics; callers should start the
// downstream reader before calling New, or call it from a goroutine.
func New(dir string) (*Pipe, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("fifoout: creating pipe dir: %w", err)
	}

	id, err := uuid.NewUUID()
	if err != nil {
		return nil, fmt.Errorf("fifoout: generating pipe name: %w", err)
	}
	name := path.Join(dir, id.String())

	if err := unix.Mkfifo(name, 0644); err != nil {
		return nil, fmt.Errorf("fifoout: mkfifo %s: %w", name, err)
	}

	f, err := os.OpenFile(name, os.O_WRONLY, os.ModeNamedPipe)
	if err != nil {
		return nil, fmt.Errorf("fifoout: opening pipe %s: %w", name, err)
	}

	return &Pipe{Path: name, File: f}, nil
}

// Close closes the writer end and removes the FIFO from the
// filesystem; the reader end sees EOF once the writer end is closed.
func (p *Pipe) Close() error {
	err := p.File.Close()
	if rmErr := os.Remove(p.Path); err == nil {
		err = rmErr
	}
	return err
}
