//go:build unix

package intervallog

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// MmapSource is a memory-mapped interval log file, handed directly to
// NewLogIterator to parse without reading the whole file into a
// heap-allocated buffer first.
type MmapSource struct {
	Data []byte
	f    *os.File
}

// OpenMmap opens path and maps its full contents read-only.
func OpenMmap(path string) (*MmapSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if fi.Size() == 0 {
		return &MmapSource{f: f}, nil
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(fi.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("intervallog: mmap %s: %w", path, err)
	}
	return &MmapSource{Data: data, f: f}, nil
}

// Close unmaps the region and closes the underlying file.
func (m *MmapSource) Close() error {
	var err error
	if m.Data != nil {
		err = unix.Munmap(m.Data)
	}
	if cerr := m.f.Close(); err == nil {
		err = cerr
	}
	return err
}
