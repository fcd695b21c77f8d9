package common

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SetExtension returns path with its extension replaced by ext.
// ext may be given with or without the leading dot. A path without
// extension gets ext appended.
func SetExtension(path, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	base := strings.TrimSuffix(path, filepath.Ext(path))
	if ext == "" {
		return base
	}
	return base + "." + ext
}

// DerivedPath returns the output path for inputPath with extension ext. When
// outputDir is not empty the file is placed there instead of next to the input.
func DerivedPath(inputPath, outputDir, ext string) string {
	out := SetExtension(inputPath, ext)
	if outputDir != "" {
		out = filepath.Join(outputDir, filepath.Base(out))
	}
	return out
}

// Pluralize appends an "s" to word when count != 1
func Pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	return word + "s"
}

// CountOf formats a count followed by the (pluralized) word, e.g. "2 sessions"
func CountOf(count int, word string) string {
	return fmt.Sprintf("%d %s", count, Pluralize(word, count))
}
