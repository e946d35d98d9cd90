package fifoout

import (
	"io"
	"os"
	"testing"
)

func TestNewCreatesFifoAndWriterBlocksUntilReader(t *testing.T) {
	dir := t.TempDir()

	done := make(chan error, 1)
	var pipe *Pipe
	go func() {
		var err error
		pipe, err = New(dir)
		done <- err
	}()

	// New blocks on the FIFO open until a reader attaches; give it a
	// moment to reach that point, then attach the reader side.
	var readerPath string
	for readerPath == "" {
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("ReadDir: %v", err)
		}
		if len(entries) > 0 {
			readerPath = dir + "/" + entries[0].Name()
		}
	}

	rc, err := os.OpenFile(readerPath, os.O_RDONLY, os.ModeNamedPipe)
	if err != nil {
		t.Fatalf("opening fifo for reading: %v", err)
	}
	defer rc.Close()

	if err := <-done; err != nil {
		t.Fatalf("New: %v", err)
	}

	go func() {
		pipe.Write([]byte("hello"))
		pipe.Close()
	}()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("read %q, want hello", got)
	}

	if _, err := os.Stat(pipe.Path); !os.IsNotExist(err) {
		t.Fatal("Close did not remove the FIFO from the filesystem")
	}
}
