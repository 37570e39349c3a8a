//go:build !ocr

package ocr

import "errors"

// ErrOCRNotEnabled is returned when Tesseract library functions are called
// but the library was not linked. Rebuild with -tags ocr to enable it.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Languages returns ErrOCRNotEnabled.
func Languages() ([]string, error) {
	return nil, ErrOCRNotEnabled
}

func checkLanguages(string) error {
	return ErrOCRNotEnabled
}
