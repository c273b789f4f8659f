package column

import (
	"bytes"
	"testing"
)

func TestSpillRoundTrip(t *testing.T) {
	chunk := Chunk[int64]{StartRow: 10, Values: []int64{1, 2, 3, 4}, Null: []bool{false, false, true, false}}
	encoded := encodeChunk(chunk)

	var buf bytes.Buffer
	w := NewSpillWriter(&buf)
	if err := w.WriteBlock(encoded); err != nil {
		t.Fatal(err)
	}

	r := NewSpillReader(&buf)
	got, err := r.ReadBlock()
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := decodeChunk(got)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.StartRow != chunk.StartRow {
		t.Fatalf("got StartRow=%d, want %d", decoded.StartRow, chunk.StartRow)
	}
	for i := range chunk.Values {
		if decoded.Values[i] != chunk.Values[i] || decoded.Null[i] != chunk.Null[i] {
			t.Fatalf("mismatch at %d: got (%d,%v), want (%d,%v)", i, decoded.Values[i], decoded.Null[i], chunk.Values[i], chunk.Null[i])
		}
	}
}

func TestSpillReaderEOF(t *testing.T) {
	var buf bytes.Buffer
	r := NewSpillReader(&buf)
	if _, err := r.ReadBlock(); err == nil {
		t.Fatal("expected EOF on empty stream")
	}
}
