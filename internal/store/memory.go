// internal/store/memory.go
package store

import (
	"fmt"
	"os"
)

// Memory is byte-addressable persistent storage of fixed capacity.
// The store claims it in SlotSize slots starting at offset 0; the
// trailing capacity mod SlotSize bytes are never touched.
type Memory interface {
	Size() int
	ReadAt(p []byte, off int64) error
	WriteAt(p []byte, off int64) error
}

// FileMemory backs the store with a fixed-size file image, the
// software stand-in for the controller's NVRAM part.
type FileMemory struct {
	f    *os.File
	size int
}

// OpenFile opens (or creates) a memory image of exactly size bytes.
// An existing shorter image is extended with zero bytes, which reads
// back as empty slots.
func OpenFile(path string, size int) (*FileMemory, error) {
	if size < SlotSize {
		return nil, fmt.Errorf("store: memory size %d smaller than one slot", size)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("store: stat %s: %w", path, err)
	}
	if fi.Size() < int64(size) {
		if err := f.Truncate(int64(size)); err != nil {
			f.Close()
			return nil, fmt.Errorf("store: grow %s: %w", path, err)
		}
	}

	return &FileMemory{f: f, size: size}, nil
}

func (m *FileMemory) Size() int { return m.size }

func (m *FileMemory) ReadAt(p []byte, off int64) error {
	_, err := m.f.ReadAt(p, off)
	return err
}

// WriteAt writes and syncs. Every slot mutation reaches the medium
// before the call returns.
func (m *FileMemory) WriteAt(p []byte, off int64) error {
	if _, err := m.f.WriteAt(p, off); err != nil {
		return err
	}
	return m.f.Sync()
}

// Close releases the file handle.
func (m *FileMemory) Close() error { return m.f.Close() }

// MemMemory is a volatile Memory for tests.
type MemMemory struct {
	buf []byte
}

// NewMemMemory returns a zeroed in-memory backing of size bytes.
func NewMemMemory(size int) *MemMemory {
	return &MemMemory{buf: make([]byte, size)}
}

func (m *MemMemory) Size() int { return len(m.buf) }

func (m *MemMemory) ReadAt(p []byte, off int64) error {
	if off < 0 || int(off)+len(p) > len(m.buf) {
		return fmt.Errorf("store: read out of range off=%d len=%d", off, len(p))
	}
	copy(p, m.buf[off:])
	return nil
}

func (m *MemMemory) WriteAt(p []byte, off int64) error {
	if off < 0 || int(off)+len(p) > len(m.buf) {
		return fmt.Errorf("store: write out of range off=%d len=%d", off, len(p))
	}
	copy(m.buf[off:], p)
	return nil
}
