package index

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/pierrec/lz4/v4"
)

// CurrentVersion is the sidecar format version byte spec §6 defines.
const CurrentVersion = 2

// WriteSidecar serializes idx to w in the versioned binary format spec §6
// describes: version byte, columns (8-byte LE), n_threads (2-byte LE),
// n_offsets array, then the concatenated offset payload.
func WriteSidecar(w io.Writer, idx *ParseIndex) error {
	bw := bufio.NewWriter(w)
	if err := bw.WriteByte(CurrentVersion); err != nil {
		return fmt.Errorf("index: write version: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, uint64(idx.Columns)); err != nil {
		return fmt.Errorf("index: write columns: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, uint16(idx.NThreads)); err != nil {
		return fmt.Errorf("index: write n_threads: %w", err)
	}
	for _, n := range idx.NOffsets {
		if err := binary.Write(bw, binary.LittleEndian, uint64(n)); err != nil {
			return fmt.Errorf("index: write n_offsets: %w", err)
		}
	}
	for _, off := range idx.Offsets {
		if err := binary.Write(bw, binary.LittleEndian, uint64(off)); err != nil {
			return fmt.Errorf("index: write offsets: %w", err)
		}
	}
	return bw.Flush()
}

// WriteSidecarFile writes idx to path, compressed with LZ4 when compressed
// is true (the ".vroomidx.lz4" variant SPEC_FULL.md's domain stack wires
// github.com/pierrec/lz4/v4 to), plain otherwise.
func WriteSidecarFile(path string, idx *ParseIndex, compressed bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("index: create sidecar %s: %w", path, err)
	}
	defer f.Close()

	if !compressed {
		return WriteSidecar(f, idx)
	}
	zw := lz4.NewWriter(f)
	if err := WriteSidecar(zw, idx); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// ReadSidecar parses the versioned binary sidecar format, falling back to
// the legacy format (no version byte, 8-byte columns, 1-byte n_threads)
// when the first byte doesn't look like a valid current version.
func ReadSidecar(r io.Reader) (*ParseIndex, error) {
	br := bufio.NewReader(r)
	first, err := br.Peek(1)
	if err != nil {
		return nil, fmt.Errorf("index: read sidecar header: %w", err)
	}

	if first[0] == CurrentVersion {
		_, _ = br.Discard(1)
		return readCurrentFormat(br)
	}
	return readLegacyFormat(br)
}

// ReadSidecarFile reads a sidecar file, decompressing it with LZ4 when
// compressed is true.
func ReadSidecarFile(path string, compressed bool) (*ParseIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("index: open sidecar %s: %w", path, err)
	}
	defer f.Close()

	if !compressed {
		return ReadSidecar(f)
	}
	return ReadSidecar(lz4.NewReader(f))
}

func readCurrentFormat(br *bufio.Reader) (*ParseIndex, error) {
	var columns uint64
	if err := binary.Read(br, binary.LittleEndian, &columns); err != nil {
		return nil, fmt.Errorf("index: read columns: %w", err)
	}
	var nThreads uint16
	if err := binary.Read(br, binary.LittleEndian, &nThreads); err != nil {
		return nil, fmt.Errorf("index: read n_threads: %w", err)
	}

	nOffsets := make([]int64, nThreads)
	var total int64
	for i := range nOffsets {
		var n uint64
		if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
			return nil, fmt.Errorf("index: read n_offsets[%d]: %w", i, err)
		}
		nOffsets[i] = int64(n)
		total += int64(n)
	}

	offsets := make([]int64, total)
	for i := range offsets {
		var off uint64
		if err := binary.Read(br, binary.LittleEndian, &off); err != nil {
			return nil, fmt.Errorf("index: read offsets[%d]: %w", i, err)
		}
		offsets[i] = int64(off)
	}

	return &ParseIndex{
		Columns:  int64(columns),
		NThreads: int(nThreads),
		NOffsets: nOffsets,
		Offsets:  offsets,
	}, nil
}

// readLegacyFormat parses the pre-version format: 8-byte columns, 1-byte
// n_threads, then the same n_offsets/offsets layout.
func readLegacyFormat(br *bufio.Reader) (*ParseIndex, error) {
	var columns uint64
	if err := binary.Read(br, binary.LittleEndian, &columns); err != nil {
		return nil, fmt.Errorf("index: read legacy columns: %w", err)
	}
	nThreadsByte, err := br.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("index: read legacy n_threads: %w", err)
	}
	nThreads := int(nThreadsByte)

	nOffsets := make([]int64, nThreads)
	var total int64
	for i := range nOffsets {
		var n uint64
		if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
			return nil, fmt.Errorf("index: read legacy n_offsets[%d]: %w", i, err)
		}
		nOffsets[i] = int64(n)
		total += int64(n)
	}

	offsets := make([]int64, total)
	for i := range offsets {
		var off uint64
		if err := binary.Read(br, binary.LittleEndian, &off); err != nil {
			return nil, fmt.Errorf("index: read legacy offsets[%d]: %w", i, err)
		}
		offsets[i] = int64(off)
	}

	return &ParseIndex{
		Columns:  int64(columns),
		NThreads: nThreads,
		NOffsets: nOffsets,
		Offsets:  offsets,
	}, nil
}
