//go:build unix

package buffer

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// tryMmap memory-maps f read-only, copies the mapping into an aligned,
// padded AlignedBuffer and unmaps it before returning, so the returned
// buffer holds no mapping. An empty file (mmap of a zero-length file is
// invalid on every unix) yields a zero-length buffer with ok true and no
// mapping. ok is false when stat or mmap fails; callers fall back to a
// plain read in that case.
func tryMmap(f *os.File) (*AlignedBuffer, bool, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, false, fmt.Errorf("buffer: stat: %w", err)
	}
	size := info.Size()
	if size == 0 {
		return newAligned(0), true, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		// Fall back to a regular read; mmap can fail on some filesystems
		// (tmpfs quirks, NFS without mmap support).
		return nil, false, nil
	}

	// mmap'd bytes are not followed by Pad zero bytes, and SIMD kernels are
	// allowed to read 64 bytes past any offset in [0, n]. Copy into an
	// aligned, padded buffer rather than exposing the raw mapping, then
	// release the mapping immediately; this trades one copy for the
	// blanket safety invariant spec §3 requires of every AlignedBuffer.
	ab := newAligned(int(size))
	copy(ab.data, data)
	if err := unix.Munmap(data); err != nil {
		return nil, true, fmt.Errorf("buffer: munmap: %w", err)
	}
	return ab, true, nil
}
