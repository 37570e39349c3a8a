//go:build ocr

package ocr

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// ErrOCRNotEnabled is never returned when the Tesseract library is linked.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Languages returns the installed language data.
func Languages() ([]string, error) {
	return gosseract.GetAvailableLanguages()
}

// checkLanguages verifies every "+"-joined language in lang.
func checkLanguages(lang string) error {
	installed, err := Languages()
	if err != nil {
		return err
	}
	for _, l := range strings.Split(lang, "+") {
		if !slices.Contains(installed, l) {
			return fmt.Errorf("language data '%s' is not installed", l)
		}
	}
	return nil
}
