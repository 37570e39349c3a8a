//go:build ocr

package ocr

import (
	"testing"

	"github.com/tsawler/docstruct/errs"
)

func TestCheckLanguages(t *testing.T) {
	langs, err := Languages()
	if err != nil {
		t.Skipf("cannot list languages: %v", err)
	}
	if len(langs) == 0 {
		t.Skip("no language data installed")
	}
	if err := checkLanguages(langs[0]); err != nil {
		t.Errorf("expected installed language %s to pass, got %v", langs[0], err)
	}
	if err := checkLanguages(langs[0] + "+zz_missing"); err == nil {
		t.Error("expected an unknown language to fail")
	}
}

func TestCheckLanguage_Missing(t *testing.T) {
	if _, err := Languages(); err != nil {
		t.Skipf("cannot list languages: %v", err)
	}
	config := DefaultConfig()
	config.Language = "zz_missing"
	if err := New(config, nil).CheckLanguage(); !errs.HasCode(err, errs.CodeOCRFailed) {
		t.Errorf("expected code %s, got %v", errs.CodeOCRFailed, err)
	}
}
