package indexer

import (
	"testing"

	"github.com/vroomgo/vroom/internal/column"
	"github.com/vroomgo/vroom/internal/dialect"
	"github.com/vroomgo/vroom/internal/vrerrors"
)

func baseOpts() Options {
	return Options{
		Dialect:   dialect.Default,
		Threads:   1,
		HasHeader: true,
		ErrorMode: vrerrors.Permissive,
	}
}

func TestIndexS1PlainCSV(t *testing.T) {
	data := []byte("a,b,c\n1,2,3\n4,5,6\n")
	e := NewEngine()
	res, err := e.Index(data, baseOpts())
	if err != nil {
		t.Fatal(err)
	}
	if res.Index.Columns != 3 {
		t.Fatalf("got columns=%d", res.Index.Columns)
	}
	if res.Index.Rows() != 2 {
		t.Fatalf("got rows=%d", res.Index.Rows())
	}
	start, end, err := res.Index.FieldSpan(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if string(data[start:end]) != "2" {
		t.Fatalf("got %q", data[start:end])
	}
	start, end, err = res.Index.FieldSpan(1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if string(data[start:end]) != "4" {
		t.Fatalf("got %q", data[start:end])
	}
}

func TestIndexS2QuotedDoubledQuote(t *testing.T) {
	data := []byte("x,y\n\"hello, world\",\"he said \"\"hi\"\"\"\n")
	e := NewEngine()
	res, err := e.Index(data, baseOpts())
	if err != nil {
		t.Fatal(err)
	}
	if res.Index.Rows() != 1 {
		t.Fatalf("got rows=%d", res.Index.Rows())
	}
	start, end, err := res.Index.FieldSpan(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if string(data[start:end]) != `"hello, world"` {
		t.Fatalf("got %q", data[start:end])
	}

	start, end, err = res.Index.FieldSpan(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if string(data[start:end]) != `"he said ""hi"""` {
		t.Fatalf("got %q", data[start:end])
	}
	if got := string(dialect.Default.Unquote(data[start:end])); got != `he said "hi"` {
		t.Fatalf("got %q, want %q", got, `he said "hi"`)
	}
}

// TestIndexS4EscapeBackslashDialect covers spec §8 S4 end to end: an
// escape-character (non-RFC-4180) dialect indexed and then decoded through
// a real Column, not just exercised at the mask-kernel level.
func TestIndexS4EscapeBackslashDialect(t *testing.T) {
	data := []byte("a,b\n\"he said \\\"hi\\\"\",2\n")
	d := dialect.Default.WithEscapeBackslash(0)
	opts := baseOpts()
	opts.Dialect = d

	e := NewEngine()
	res, err := e.Index(data, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Index.Rows() != 1 {
		t.Fatalf("got rows=%d", res.Index.Rows())
	}

	strCol := column.New(data, res.Index, 0, d, column.DefaultConfig)
	s, err := strCol.GetString(0)
	if err != nil {
		t.Fatal(err)
	}
	if s != `he said "hi"` {
		t.Fatalf("got %q, want %q", s, `he said "hi"`)
	}

	intCol := column.New(data, res.Index, 1, d, column.DefaultConfig)
	v, isNA, err := intCol.GetInt64(0)
	if err != nil {
		t.Fatal(err)
	}
	if isNA || v != 2 {
		t.Fatalf("got v=%d isNA=%v, want 2", v, isNA)
	}
}

func TestIndexNoHeader(t *testing.T) {
	data := []byte("1,2,3\n4,5,6\n")
	opts := baseOpts()
	opts.HasHeader = false
	e := NewEngine()
	res, err := e.Index(data, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Index.Rows() != 2 {
		t.Fatalf("got rows=%d", res.Index.Rows())
	}
	start, end, err := res.Index.FieldSpan(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if string(data[start:end]) != "1" {
		t.Fatalf("got %q", data[start:end])
	}
}

func TestIndexMultiStripeEquivalence(t *testing.T) {
	// spec §8 S7 (smaller scale for a unit test): parse(B,T=1) and
	// parse(B,T=4) must agree on every cell.
	var data []byte
	data = append(data, []byte("id,val\n")...)
	for i := 0; i < 2000; i++ {
		data = append(data, []byte(rowFor(i))...)
	}

	opts1 := baseOpts()
	opts1.Threads = 1
	opts4 := baseOpts()
	opts4.Threads = 4

	e := NewEngine()
	res1, err := e.Index(data, opts1)
	if err != nil {
		t.Fatal(err)
	}
	res4, err := e.Index(data, opts4)
	if err != nil {
		t.Fatal(err)
	}
	if res1.Index.Rows() != res4.Index.Rows() {
		t.Fatalf("row count mismatch: T1=%d T4=%d", res1.Index.Rows(), res4.Index.Rows())
	}
	for r := int64(0); r < res1.Index.Rows(); r++ {
		for c := int64(0); c < 2; c++ {
			s1, e1, err1 := res1.Index.FieldSpan(r, c)
			s4, e4, err4 := res4.Index.FieldSpan(r, c)
			if err1 != nil || err4 != nil {
				t.Fatalf("row %d col %d: errs %v %v", r, c, err1, err4)
			}
			if string(data[s1:e1]) != string(data[s4:e4]) {
				t.Fatalf("row %d col %d mismatch: %q vs %q", r, c, data[s1:e1], data[s4:e4])
			}
		}
	}
}

func rowFor(i int) string {
	return itoa(i) + "," + itoa(i*7) + "\n"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

func TestFindSafeRecordBoundarySkipsQuotedNewline(t *testing.T) {
	data := []byte("a,b\n\"multi\nline\",2\n3,4\n")
	// hint lands inside the quoted newline's line; must advance past it.
	hint := 7
	b := findSafeRecordBoundary(data, hint, dialect.Default)
	if b >= len(data) {
		t.Fatal("expected a valid boundary before EOF")
	}
	// The returned boundary must not split the quoted field.
	quotes := 0
	for i := 0; i < b; i++ {
		if data[i] == '"' {
			quotes++
		}
	}
	if quotes%2 != 0 {
		t.Fatalf("boundary %d splits a quoted field (odd quote count %d before it)", b, quotes)
	}
}

func TestIndexSkipEmptyRows(t *testing.T) {
	data := []byte("a,b\n1,2\n\n3,4\n")
	opts := baseOpts()
	opts.SkipEmptyRows = true
	e := NewEngine()
	res, err := e.Index(data, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Index.Rows() != 2 {
		t.Fatalf("got rows=%d, want 2 (empty row dropped)", res.Index.Rows())
	}
}

func TestIndexProgressCancellation(t *testing.T) {
	var data []byte
	data = append(data, []byte("id,val\n")...)
	for i := 0; i < 5000; i++ {
		data = append(data, []byte(rowFor(i))...)
	}
	opts := baseOpts()
	opts.Threads = 1
	calls := 0
	opts.Progress = func(processed, total int64) bool {
		calls++
		return false
	}
	e := NewEngine()
	_, err := e.Index(data, opts)
	if err == nil {
		t.Fatal("expected an error after the progress callback cancels the parse")
	}
	if calls == 0 {
		t.Fatal("expected the progress callback to be invoked at least once")
	}
}

func TestIndexCommentLinesSkipped(t *testing.T) {
	data := []byte("# a comment\na,b\n1,2\n")
	opts := baseOpts()
	opts.HasComment = true
	opts.Comment = '#'
	e := NewEngine()
	res, err := e.Index(data, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.SkippedLines != 1 {
		t.Fatalf("got skipped=%d, want 1", res.SkippedLines)
	}
	if res.Index.Rows() != 1 {
		t.Fatalf("got rows=%d, want 1", res.Index.Rows())
	}
}

func TestIndexUnclosedQuoteAtEOFIsFatal(t *testing.T) {
	data := []byte("a,b\n1,\"unterminated\n2,3\n")
	e := NewEngine()
	res, err := e.Index(data, baseOpts())
	if err != nil {
		t.Fatal(err)
	}
	if !res.Collector.HasFatal() {
		t.Fatal("expected a Fatal error for an unclosed quote at EOF")
	}
	if res.Collector.Fatal().Code != vrerrors.UnclosedQuote {
		t.Fatalf("got code=%v, want UnclosedQuote", res.Collector.Fatal().Code)
	}
}

func TestIndexNullByteRecoverable(t *testing.T) {
	data := []byte("a,b\n1,2\x00\n3,4\n")
	opts := baseOpts()
	e := NewEngine()
	res, err := e.Index(data, opts)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, pe := range res.Collector.Errors() {
		if pe.Code == vrerrors.NullByte {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a NullByte error for the embedded null byte")
	}
	if res.Collector.HasFatal() {
		t.Fatal("a null byte should not be fatal")
	}
}

func TestIndexMixedLineEndingsWarning(t *testing.T) {
	data := []byte("a,b\r\n1,2\n3,4\r\n")
	opts := baseOpts()
	e := NewEngine()
	res, err := e.Index(data, opts)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, pe := range res.Collector.Errors() {
		if pe.Code == vrerrors.MixedLineEndings {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a MixedLineEndings warning for mixed \\n and \\r\\n terminators")
	}
}
