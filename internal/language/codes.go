// Package language maps the short codes accepted by the API to recognizer
// language codes. The mapping is total: unknown codes resolve to English.
package language

import (
	"sort"

	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Default is the recognizer code used for unknown or missing inputs.
const Default = "en"

var recognizerCodes = map[string]string{
	"en": "en",
	"hi": "hi",
	"ta": "ta",
	"bn": "bn",
	"te": "te",
	"ml": "ml",
	"mr": "mr",
}

// Resolve returns the recognizer code for a requested short code.
// Unsupported or empty codes fall back to Default; this never fails.
func Resolve(code string) string {
	if recognized, ok := recognizerCodes[code]; ok {
		return recognized
	}
	return Default
}

// Supported lists the accepted short codes in stable order.
func Supported() []string {
	codes := make([]string, 0, len(recognizerCodes))
	for code := range recognizerCodes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// DisplayName returns the English name of a supported code, e.g. "Hindi".
// Unknown codes report the name of the default language.
func DisplayName(code string) string {
	tag := xlanguage.Make(Resolve(code))
	return display.English.Languages().Name(tag)
}
