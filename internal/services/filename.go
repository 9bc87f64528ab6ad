package services

import (
	"path/filepath"
	"strings"
	"unicode"
)

// NameFromFileName derives a display name from an uploaded file name:
// directory and extension are dropped, '-', '_' and '.' become spaces and
// every word is capitalised. "jane-doe_cv.pdf" becomes "Jane Doe Cv".
func NameFromFileName(fileName string) string {
	base := filepath.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))

	words := strings.FieldsFunc(base, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || unicode.IsSpace(r)
	})
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
