package buffer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	ab, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if ab.Len() != 0 {
		t.Fatalf("expected zero-length buffer, got %d", ab.Len())
	}
}

func TestLoadPaddingIsZero(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	content := []byte("a,b,c\n1,2,3\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	ab, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(ab.Bytes(), content) {
		t.Fatalf("got %q, want %q", ab.Bytes(), content)
	}
	raw := ab.Raw()
	if len(raw) < len(content)+Pad {
		t.Fatalf("raw buffer too short: %d", len(raw))
	}
	for i := len(content); i < len(content)+Pad; i++ {
		if raw[i] != 0 {
			t.Fatalf("expected zero padding at %d, got %d", i, raw[i])
		}
	}
}

func TestLoadAlignment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(path, []byte("x,y\n1,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ab, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if sliceAddr(ab.Raw())%Alignment != 0 {
		t.Fatal("expected 64-byte aligned backing array")
	}
}

func TestFromStreamSpillsAndLoads(t *testing.T) {
	r := strings.NewReader("a,b\n1,2\n3,4\n")
	ab, err := FromStream(r, 4)
	if err != nil {
		t.Fatal(err)
	}
	if ab.Len() != len("a,b\n1,2\n3,4\n") {
		t.Fatalf("got len %d", ab.Len())
	}
}

func TestFromBytes(t *testing.T) {
	ab := FromBytes([]byte("hello"))
	if string(ab.Bytes()) != "hello" {
		t.Fatalf("got %q", ab.Bytes())
	}
}
