package convert

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/docstruct/errs"
	"github.com/tsawler/docstruct/internal/command"
)

func TestTranscode(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		contentType string
		want        string
		changed     bool
	}{
		{"utf-8", []byte("café,naïve"), "text/csv", "café,naïve", false},
		{"latin-1 guessed", []byte("caf\xe9"), "text/plain", "café", true},
		{"declared charset", []byte("caf\xe9"), "text/plain; charset=iso-8859-1", "café", true},
		{"html meta", []byte(`<html><head><meta charset="iso-8859-1"></head><body>caf` + "\xe9" + `</body></html>`), "text/html", "café", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed, err := Transcode(tt.data, tt.contentType)
			if err != nil {
				t.Fatalf("Transcode: %v", err)
			}
			if changed != tt.changed {
				t.Errorf("changed = %v, want %v", changed, tt.changed)
			}
			if !strings.Contains(string(got), tt.want) {
				t.Errorf("Transcode() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestTranscodeFile_UTF8Untouched(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "table.csv")
	out := filepath.Join(dir, "table_utf8.csv")
	if err := os.WriteFile(in, []byte("a,b\n1,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	changed, err := TranscodeFile(in, out)
	if err != nil || changed {
		t.Fatalf("TranscodeFile() = %v, %v", changed, err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("expected no output file, got %v", err)
	}
}

func TestConvert_MissingInput(t *testing.T) {
	c := New(DefaultConfig(), &command.Recorder{})

	_, err := c.Convert(context.Background(), filepath.Join(t.TempDir(), "missing.docx"), "out.pdf")
	if !errs.HasCode(err, errs.CodeConvertMissing) {
		t.Errorf("expected 31.901, got %v", err)
	}
}

func TestConvert_PandocFails(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "report.docx")
	if err := os.WriteFile(in, []byte("PK"), 0o644); err != nil {
		t.Fatal(err)
	}
	rec := &command.Recorder{Hook: func(string, []string) error {
		return &command.ExitError{Name: "pandoc", Status: 64}
	}}
	config := DefaultConfig()
	config.Language = "de"
	c := New(config, rec)

	out := filepath.Join(dir, "report.pdf")
	_, err := c.Convert(context.Background(), in, out)
	if !errs.HasCode(err, errs.CodeConvertFailed) {
		t.Fatalf("expected 31.902, got %v", err)
	}
	if command.Status(err) != 64 {
		t.Errorf("expected pandoc status passed through, got %d", command.Status(err))
	}

	want := []string{in, "-o", out, "--pdf-engine=lualatex", "-V", "lang=de"}
	if len(rec.Calls) != 1 || rec.Calls[0].Name != "pandoc" {
		t.Fatalf("unexpected calls %+v", rec.Calls)
	}
	if got := rec.Calls[0].Args; strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("args = %v, want %v", got, want)
	}
}

func TestConvert_EmptyOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "notes.rst")
	if err := os.WriteFile(in, []byte("Title\n=====\n\ncaf\xe9\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "notes.pdf")
	rec := &command.Recorder{Hook: func(name string, args []string) error {
		return os.WriteFile(out, nil, 0o644)
	}}

	aux, err := New(DefaultConfig(), rec).Convert(context.Background(), in, out)
	if !errs.HasCode(err, errs.CodeConvertEmpty) {
		t.Fatalf("expected 31.903, got %v", err)
	}
	if len(aux) != 1 || aux[0] != filepath.Join(dir, "notes_utf8.rst") {
		t.Fatalf("expected transcoded intermediate, got %v", aux)
	}
	if rec.Calls[0].Args[0] != aux[0] {
		t.Errorf("expected pandoc to read the transcoded file, got %s", rec.Calls[0].Args[0])
	}
	data, err := os.ReadFile(aux[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "café") {
		t.Errorf("expected UTF-8 content, got %q", data)
	}
}
