package pdf

import "unicode/utf8"

// minTextLength is the smallest trimmed text-layer length (in runes) a page
// must carry to be trusted. Anything shorter is treated as a scanned page.
const minTextLength = 5

// IsScanned reports whether a page's trimmed embedded text is too short to
// trust, in which case the page must be rasterized and OCRed. The caller is
// expected to pass text that is already trimmed.
func IsScanned(trimmedText string) bool {
	return utf8.RuneCountInString(trimmedText) < minTextLength
}
