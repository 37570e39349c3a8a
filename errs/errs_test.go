package errs

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorStartsWithCode(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{New(CodeUnknownExtension, "unknown file extension %q", ".xyz"), `01.901 unknown file extension ".xyz"`},
		{Wrap(CodeExtractorFailed, errors.New("exit status 3"), "tet failed"), "51.901 tet failed: exit status 3"},
	}

	for _, tt := range tests {
		got := tt.err.Error()
		if got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
		if got[:6] != string(tt.err.Code) {
			t.Errorf("first six characters = %q, want %q", got[:6], tt.err.Code)
		}
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(CodeOCRFailed, cause, "tesseract")
	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be found by errors.Is")
	}
}

func TestCodeOf(t *testing.T) {
	err := fmt.Errorf("context: %w", New(CodeConvertEmpty, "empty"))
	if got := CodeOf(err); got != CodeConvertEmpty {
		t.Errorf("CodeOf = %q, want %q", got, CodeConvertEmpty)
	}
	if got := CodeOf(errors.New("plain")); got != "" {
		t.Errorf("CodeOf(plain) = %q, want empty", got)
	}
}

func TestIssues(t *testing.T) {
	var is Issues
	if is.Err(CodeXMLIssues) != nil {
		t.Fatal("expected nil error without issues")
	}

	if n := is.Add(CodeXMLUnknownChild, "parent '%s' has unknown child '%s'", "Para", "Foo"); n != 1 {
		t.Errorf("first issue number = %d, want 1", n)
	}
	if n := is.Add(CodeXMLLineCount, "line count mismatch"); n != 2 {
		t.Errorf("second issue number = %d, want 2", n)
	}

	err := is.Err(CodeXMLIssues)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasPrefix(err.Error(), "61.903 2 parse issue(s)") {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !HasCode(err, CodeXMLUnknownChild) || !HasCode(err, CodeXMLLineCount) {
		t.Error("expected joined issues to be searchable by code")
	}
	if HasCode(err, CodeXMLLinePrefix) {
		t.Error("unexpected code found")
	}
}
