package source

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestScannerNumbersLinesFromOne(t *testing.T) {
	sc := NewScanner("test", strings.NewReader("first\nsecond\nthird\n"))

	expected := []string{"first", "second", "third"}
	for i, want := range expected {
		line, ok := sc.Next()
		if !ok {
			t.Fatalf("expected line %d", i+1)
		}
		if line.Number != i+1 {
			t.Errorf("expected line number %d, got %d", i+1, line.Number)
		}
		if line.Content != want {
			t.Errorf("expected content %q, got %q", want, line.Content)
		}
	}

	if _, ok := sc.Next(); ok {
		t.Error("expected end of input")
	}
	if err := sc.Err(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestScannerMissingTrailingNewline(t *testing.T) {
	sc := NewScanner("test", strings.NewReader("only line"))

	line, ok := sc.Next()
	if !ok {
		t.Fatal("expected one line")
	}
	if line.Content != "only line" {
		t.Errorf("got %q", line.Content)
	}
	if _, ok := sc.Next(); ok {
		t.Error("expected end of input")
	}
}

func TestScannerEmptyInput(t *testing.T) {
	sc := NewScanner("test", strings.NewReader(""))
	if _, ok := sc.Next(); ok {
		t.Error("expected no lines")
	}
	if err := sc.Err(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestScannerReadErrorNamesSource(t *testing.T) {
	cause := errors.New("disk gone")
	sc := NewScanner("app.log", failingReader{err: cause})

	if _, ok := sc.Next(); ok {
		t.Fatal("expected failure")
	}
	err := sc.Err()
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected wrapped cause, got %v", err)
	}
	if !strings.Contains(err.Error(), "app.log") {
		t.Errorf("expected the source name in the error, got %v", err)
	}
}

func TestScannerOversizedLine(t *testing.T) {
	long := strings.Repeat("x", maxLineSize+1)
	sc := NewScanner("test", strings.NewReader(long))

	if _, ok := sc.Next(); ok {
		t.Fatal("expected the oversized line to fail the scan")
	}
	if sc.Err() == nil {
		t.Error("expected an error for an oversized line")
	}
}

func TestScannerName(t *testing.T) {
	sc := NewScanner("stdin", io.MultiReader())
	if sc.Name() != "stdin" {
		t.Errorf("expected %q, got %q", "stdin", sc.Name())
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open("/nonexistent/path/really"); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestOpenAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(path, []byte("a\nb\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Open(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer f.Close()

	sc := NewScanner(path, f)
	line, ok := sc.Next()
	if !ok || line.Content != "a" {
		t.Errorf("expected first line %q, got %q", "a", line.Content)
	}
}
