package emu

import (
	"io"
	"os"
	"sync"
)

// FileDescriptor is one entry of the guest's descriptor table.
type FileDescriptor struct {
	Path   string
	Flags  int
	Reader io.Reader
	Writer io.Writer

	host *os.File
}

// FDTable maps guest file descriptors to host streams. Descriptors 0-2 are
// the emulator's stdin, stdout and stderr; guest-opened files start at 3.
type FDTable struct {
	mu     sync.Mutex
	fds    map[uint64]*FileDescriptor
	nextFD uint64
}

// NewFDTable creates a table with the standard streams installed. Any of
// them may be nil.
func NewFDTable(stdin io.Reader, stdout, stderr io.Writer) *FDTable {
	t := &FDTable{
		fds:    make(map[uint64]*FileDescriptor),
		nextFD: 3,
	}

	t.fds[0] = &FileDescriptor{Path: "stdin", Reader: stdin}
	t.fds[1] = &FileDescriptor{Path: "stdout", Writer: stdout}
	t.fds[2] = &FileDescriptor{Path: "stderr", Writer: stderr}

	return t
}

// Open opens a host file and returns its new descriptor.
func (t *FDTable) Open(path string, flags int, mode os.FileMode) (uint64, error) {
	f, err := os.OpenFile(path, flags, mode)
	if err != nil {
		return 0, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	fd := t.nextFD
	t.nextFD++
	t.fds[fd] = &FileDescriptor{Path: path, Flags: flags, Reader: f, Writer: f, host: f}

	return fd, nil
}

// Close releases fd.
func (t *FDTable) Close(fd uint64) error {
	t.mu.Lock()
	entry, ok := t.fds[fd]
	delete(t.fds, fd)
	t.mu.Unlock()

	if !ok {
		return os.ErrInvalid
	}
	if entry.host != nil {
		return entry.host.Close()
	}
	return nil
}

// Get returns the entry for fd.
func (t *FDTable) Get(fd uint64) (*FileDescriptor, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.fds[fd]
	return entry, ok
}

// Read reads from fd. A descriptor without a reader reads as EOF.
func (t *FDTable) Read(fd uint64, buf []byte) (int, error) {
	entry, ok := t.Get(fd)
	if !ok {
		return 0, os.ErrInvalid
	}
	if entry.Reader == nil {
		return 0, io.EOF
	}
	return entry.Reader.Read(buf)
}

// Write writes to fd.
func (t *FDTable) Write(fd uint64, buf []byte) (int, error) {
	entry, ok := t.Get(fd)
	if !ok || entry.Writer == nil {
		return 0, os.ErrInvalid
	}
	return entry.Writer.Write(buf)
}

// Seek repositions a host file. Standard streams cannot seek.
func (t *FDTable) Seek(fd uint64, offset int64, whence int) (int64, error) {
	entry, ok := t.Get(fd)
	if !ok || entry.host == nil {
		return 0, os.ErrInvalid
	}
	return entry.host.Seek(offset, whence)
}

// CloseAll closes every host file.
func (t *FDTable) CloseAll() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for fd, entry := range t.fds {
		if entry.host != nil {
			_ = entry.host.Close()
			delete(t.fds, fd)
		}
	}
}
