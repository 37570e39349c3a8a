package pdf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestShowsText(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"Tj", "BT\n/F1 12 Tf\n72 712 Td\n(Hello) Tj\nET", true},
		{"TJ array", "BT\n[(Hel) -20 (lo)] TJ\nET", true},
		{"hex string", "BT\n<48656C6C6F> Tj\nET", true},
		{"quote", "BT\n(next line) '\nET", true},
		{"empty string", "BT\n() Tj\nET", false},
		{"image only", "q\n612 0 0 792 0 0 cm\n/Im0 Do\nQ", false},
		{"dictionary", "<< /Type /XObject >> Tj", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := showsText([]byte(tt.content)); got != tt.want {
				t.Errorf("showsText() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInfo(t *testing.T) {
	scanned := &Info{PageCount: 3, ImagePages: 3}
	if scanned.HasText() || !scanned.Scanned() {
		t.Errorf("expected scanned PDF, got %+v", scanned)
	}
	native := &Info{PageCount: 3, TextPages: 2}
	if !native.HasText() || native.Scanned() {
		t.Errorf("expected text PDF, got %+v", native)
	}
	empty := &Info{}
	if empty.Scanned() {
		t.Error("expected empty PDF not to count as scanned")
	}
}

func TestPageCount_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := PageCount(path); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}

func TestPageCount_Missing(t *testing.T) {
	if _, err := PageCount(filepath.Join(t.TempDir(), "missing.pdf")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestProbe_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pdf")
	if err := os.WriteFile(path, []byte("this is not a PDF"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewProber(nil).Probe(path); err == nil {
		t.Error("expected error for invalid PDF")
	}
}

func TestMerge_SingleFileIsCopied(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "page-1.pdf")
	out := filepath.Join(dir, "merged.pdf")
	if err := os.WriteFile(in, []byte("%PDF-1.4 stand-in"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Merge([]string{in}, out); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "%PDF-1.4 stand-in" {
		t.Errorf("unexpected content %q", data)
	}

	if err := Merge(nil, out); err == nil {
		t.Error("expected error without input files")
	}
}
