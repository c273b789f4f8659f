package column

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// SpillWriter writes materialized chunks to disk LZ4-compressed, for
// workloads where the in-memory haxmap cache (Cache[T]) would exceed a
// memory budget. Grounded on entreya-csvquery's BlockWriter
// (internal/common/cidx.go): one lz4.Writer reused across blocks via
// Reset, each block length-prefixed so a reader can seek block-by-block
// without decompressing the whole stream.
type SpillWriter struct {
	w       io.Writer
	lw      *lz4.Writer
	compBuf bytes.Buffer
}

// NewSpillWriter wraps w with an LZ4 block writer.
func NewSpillWriter(w io.Writer) *SpillWriter {
	lw := lz4.NewWriter(io.Discard)
	_ = lw.Apply(lz4.BlockSizeOption(lz4.Block64Kb))
	return &SpillWriter{w: w, lw: lw}
}

// WriteBlock compresses raw and appends it as one length-prefixed block.
func (sw *SpillWriter) WriteBlock(raw []byte) error {
	sw.compBuf.Reset()
	sw.lw.Reset(&sw.compBuf)
	if _, err := sw.lw.Write(raw); err != nil {
		return fmt.Errorf("column: spill compress: %w", err)
	}
	if err := sw.lw.Close(); err != nil {
		return fmt.Errorf("column: spill compress: %w", err)
	}
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(sw.compBuf.Len()))
	if _, err := sw.w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := sw.w.Write(sw.compBuf.Bytes())
	return err
}

// SpillReader reads back blocks written by SpillWriter in order.
type SpillReader struct {
	r io.Reader
}

// NewSpillReader wraps r for sequential block reads.
func NewSpillReader(r io.Reader) *SpillReader {
	return &SpillReader{r: r}
}

// ReadBlock reads and decompresses the next block, or returns io.EOF when
// the stream is exhausted.
func (sr *SpillReader) ReadBlock() ([]byte, error) {
	var lenBuf [8]byte
	if _, err := io.ReadFull(sr.r, lenBuf[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, io.EOF
		}
		return nil, err
	}
	n := binary.LittleEndian.Uint64(lenBuf[:])
	comp := make([]byte, n)
	if _, err := io.ReadFull(sr.r, comp); err != nil {
		return nil, fmt.Errorf("column: spill read: %w", err)
	}
	var out bytes.Buffer
	lr := lz4.NewReader(bytes.NewReader(comp))
	if _, err := io.Copy(&out, lr); err != nil {
		return nil, fmt.Errorf("column: spill decompress: %w", err)
	}
	return out.Bytes(), nil
}

// encodeChunk serializes a Chunk[int64]'s values and null bitmap, the
// concrete instantiation the spill format targets (spec §4.J's typed
// getters are bounded to {i32, i64, f64, bool}; int64 chunks are the
// common case for spilled integer columns).
func encodeChunk(c Chunk[int64]) []byte {
	var buf bytes.Buffer
	var hdr [16]byte
	binary.LittleEndian.PutUint64(hdr[0:8], uint64(c.StartRow))
	binary.LittleEndian.PutUint64(hdr[8:16], uint64(len(c.Values)))
	buf.Write(hdr[:])
	for _, v := range c.Values {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(v))
		buf.Write(b[:])
	}
	for _, n := range c.Null {
		if n {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	}
	return buf.Bytes()
}

// decodeChunk reverses encodeChunk.
func decodeChunk(data []byte) (Chunk[int64], error) {
	if len(data) < 16 {
		return Chunk[int64]{}, fmt.Errorf("column: spill chunk too short")
	}
	startRow := int64(binary.LittleEndian.Uint64(data[0:8]))
	n := int64(binary.LittleEndian.Uint64(data[8:16]))
	want := 16 + n*8 + n
	if int64(len(data)) != want {
		return Chunk[int64]{}, fmt.Errorf("column: spill chunk length mismatch: got %d want %d", len(data), want)
	}
	values := make([]int64, n)
	pos := 16
	for i := int64(0); i < n; i++ {
		values[i] = int64(binary.LittleEndian.Uint64(data[pos : pos+8]))
		pos += 8
	}
	null := make([]bool, n)
	for i := int64(0); i < n; i++ {
		null[i] = data[pos] != 0
		pos++
	}
	return Chunk[int64]{StartRow: startRow, Values: values, Null: null}, nil
}
