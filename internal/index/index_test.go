package index

import "testing"

// buildSimple builds the index for "a,b,c\n1,2,3\n4,5,6\n" (S1 from spec §8).
// The header row itself is never indexed (see ParseIndex.DataStart doc);
// only the two data rows' terminators appear in Offsets.
func buildSimple() *ParseIndex {
	// "a,b,c\n1,2,3\n4,5,6\n"
	//  0123456789111111111
	//            0123456789 (DataStart=6)
	return &ParseIndex{
		Columns:   3,
		NThreads:  1,
		NOffsets:  []int64{6},
		Offsets:   []int64{7, 9, 11, 13, 15, 17},
		HasHeader: true,
		DataStart: 6,
	}
}

func TestRowsExcludesHeader(t *testing.T) {
	idx := buildSimple()
	if idx.Rows() != 2 {
		t.Fatalf("got %d rows, want 2", idx.Rows())
	}
}

func TestValidateAcceptsWellFormed(t *testing.T) {
	if err := buildSimple().Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestValidateRejectsNonMultipleOfColumns(t *testing.T) {
	idx := buildSimple()
	idx.Offsets = idx.Offsets[:len(idx.Offsets)-1]
	idx.NOffsets = []int64{5}
	if err := idx.Validate(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestValidateRejectsNonMonotonic(t *testing.T) {
	idx := buildSimple()
	idx.Offsets[3] = idx.Offsets[2] // break strict ascent
	if err := idx.Validate(); err == nil {
		t.Fatal("expected validation error for non-monotonic offsets")
	}
}

func TestFieldSpanFirstDataRow(t *testing.T) {
	idx := buildSimple()
	data := []byte("a,b,c\n1,2,3\n4,5,6\n")
	// row 0 (first data row, after header), col 1 -> field "2"
	start, end, err := idx.FieldSpan(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if string(data[start:end]) != "2" {
		t.Fatalf("got %q, want %q", data[start:end], "2")
	}
}

func TestFieldSpanSecondDataRowFirstCol(t *testing.T) {
	idx := buildSimple()
	data := []byte("a,b,c\n1,2,3\n4,5,6\n")
	start, end, err := idx.FieldSpan(1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if string(data[start:end]) != "4" {
		t.Fatalf("got %q, want %q", data[start:end], "4")
	}
}

func TestCollectionMergesRowCounts(t *testing.T) {
	idxA := buildSimple()
	idxB := buildSimple()
	c, err := NewCollection([]FileEntry{
		{Index: idxA, Headers: []string{"a", "b", "c"}, Buffer: []byte("a,b,c\n1,2,3\n4,5,6\n")},
		{Index: idxB, Headers: []string{"a", "b", "c"}, Buffer: []byte("a,b,c\n1,2,3\n4,5,6\n")},
	})
	if err != nil {
		t.Fatal(err)
	}
	if c.Rows() != 4 {
		t.Fatalf("got %d rows, want 4", c.Rows())
	}
}

func TestCollectionRejectsColumnMismatch(t *testing.T) {
	idxA := buildSimple()
	idxB := buildSimple()
	idxB.Columns = 4
	_, err := NewCollection([]FileEntry{
		{Index: idxA, Buffer: []byte("x")},
		{Index: idxB, Buffer: []byte("y")},
	})
	if err == nil {
		t.Fatal("expected column mismatch error")
	}
}

func TestCollectionSourceAt(t *testing.T) {
	idxA := buildSimple()
	idxB := buildSimple()
	c, err := NewCollection([]FileEntry{
		{Index: idxA, Buffer: []byte("a,b,c\n1,2,3\n4,5,6\n")},
		{Index: idxB, Buffer: []byte("a,b,c\n1,2,3\n4,5,6\n")},
	})
	if err != nil {
		t.Fatal(err)
	}
	if f, _ := c.SourceAt(0); f != 0 {
		t.Fatalf("row 0 should be file 0, got %d", f)
	}
	if f, _ := c.SourceAt(2); f != 1 {
		t.Fatalf("row 2 should be file 1, got %d", f)
	}
}

func TestRowIteratorCrossesFileBoundary(t *testing.T) {
	idxA := buildSimple()
	idxB := buildSimple()
	c, err := NewCollection([]FileEntry{
		{Index: idxA, Buffer: []byte("a,b,c\n1,2,3\n4,5,6\n")},
		{Index: idxB, Buffer: []byte("a,b,c\n1,2,3\n4,5,6\n")},
	})
	if err != nil {
		t.Fatal(err)
	}
	it := c.Iterator()
	var rows []int64
	for it.Next() {
		rows = append(rows, it.Row())
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}
	for i, r := range rows {
		if r != int64(i) {
			t.Fatalf("rows out of order: %v", rows)
		}
	}
}
