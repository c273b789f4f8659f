package column

import (
	"testing"

	"github.com/vroomgo/vroom/internal/dialect"
	"github.com/vroomgo/vroom/internal/index"
	"github.com/vroomgo/vroom/internal/indexer"
	"github.com/vroomgo/vroom/internal/vrerrors"
)

// buildIndex mirrors internal/index's buildSimple fixture for
// "a,b,c\n1,2,3\n4,5,6\n".
func buildIndex() *index.ParseIndex {
	return &index.ParseIndex{
		Columns:   3,
		NThreads:  1,
		NOffsets:  []int64{6},
		Offsets:   []int64{7, 9, 11, 13, 15, 17},
		HasHeader: true,
		DataStart: 6,
	}
}

func TestColumnGetRawAndString(t *testing.T) {
	data := []byte("a,b,c\n1,2,3\n4,5,6\n")
	col := New(data, buildIndex(), 1, dialect.Default, DefaultConfig)
	raw, err := col.GetRaw(0)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "2" {
		t.Fatalf("got %q", raw)
	}
	s, err := col.GetString(1)
	if err != nil {
		t.Fatal(err)
	}
	if s != "5" {
		t.Fatalf("got %q", s)
	}
}

func TestColumnGetInt64(t *testing.T) {
	data := []byte("a,b,c\n1,2,3\n4,5,6\n")
	col := New(data, buildIndex(), 0, dialect.Default, DefaultConfig)
	v, isNA, err := col.GetInt64(1)
	if err != nil {
		t.Fatal(err)
	}
	if isNA || v != 4 {
		t.Fatalf("got v=%d isNA=%v", v, isNA)
	}
}

func TestColumnGetStringUnquotesField(t *testing.T) {
	data := []byte("x,y\n\"hello, world\",2\n")
	idx := &index.ParseIndex{Columns: 2, NThreads: 1, NOffsets: []int64{2}, Offsets: []int64{18, 20}, HasHeader: true, DataStart: 4}
	col := New(data, idx, 0, dialect.Default, DefaultConfig)
	s, err := col.GetString(0)
	if err != nil {
		t.Fatal(err)
	}
	if s != "hello, world" {
		t.Fatalf("got %q", s)
	}
}

// TestColumnGetStringDecodesDoubledQuoteEscape covers spec §8 S2's second
// field, the part of the fixture that actually exercises RFC-4180
// doubled-quote-to-literal-quote decoding (the first field has no embedded
// quotes to resolve).
func TestColumnGetStringDecodesDoubledQuoteEscape(t *testing.T) {
	data := []byte("x,y\n\"hello, world\",\"he said \"\"hi\"\"\"\n")
	e := indexer.NewEngine()
	res, err := e.Index(data, indexer.Options{
		Dialect:   dialect.Default,
		Threads:   1,
		HasHeader: true,
		ErrorMode: vrerrors.Permissive,
	})
	if err != nil {
		t.Fatal(err)
	}

	col := New(data, res.Index, 1, dialect.Default, DefaultConfig)
	s, err := col.GetString(0)
	if err != nil {
		t.Fatal(err)
	}
	if s != `he said "hi"` {
		t.Fatalf("got %q, want %q", s, `he said "hi"`)
	}
}

func TestColumnLen(t *testing.T) {
	col := New(nil, buildIndex(), 0, dialect.Default, DefaultConfig)
	if col.Len() != 2 {
		t.Fatalf("got %d", col.Len())
	}
}

func intParse(row int64, col *Column) (int64, bool, error) {
	return col.GetInt64(row)
}

func TestMaterialize(t *testing.T) {
	data := []byte("a,b,c\n1,2,3\n4,5,6\n")
	col := New(data, buildIndex(), 0, dialect.Default, DefaultConfig)
	chunk, err := Materialize[int64](col, intParse)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunk.Values) != 2 || chunk.Values[0] != 1 || chunk.Values[1] != 4 {
		t.Fatalf("got %+v", chunk)
	}
}

func TestMaterializeChunked(t *testing.T) {
	data := []byte("a,b,c\n1,2,3\n4,5,6\n")
	col := New(data, buildIndex(), 0, dialect.Default, DefaultConfig)
	chunks, err := MaterializeChunked[int64](col, intParse)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1 (single stripe)", len(chunks))
	}
	if len(chunks[0].Values) != 2 {
		t.Fatalf("got %d values", len(chunks[0].Values))
	}
}

func TestCacheGetOrCompute(t *testing.T) {
	data := []byte("a,b,c\n1,2,3\n4,5,6\n")
	col := New(data, buildIndex(), 0, dialect.Default, DefaultConfig)
	cache := NewCache[int64](0)

	calls := 0
	parse := func(row int64, col *Column) (int64, bool, error) {
		calls++
		return col.GetInt64(row)
	}

	c1, err := cache.GetOrCompute(0, 0, 0, 0, 2, col, parse)
	if err != nil {
		t.Fatal(err)
	}
	c2, err := cache.GetOrCompute(0, 0, 0, 0, 2, col, parse)
	if err != nil {
		t.Fatal(err)
	}
	if c1 != c2 {
		t.Fatal("expected identical cached chunk pointer on second call")
	}
	if calls != 2 {
		t.Fatalf("got %d parse calls, want 2 (one per row, first call only)", calls)
	}
}
