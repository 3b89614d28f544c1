package libav

import "strings"

// bytesPerPixel returns the sample width of the first plane of a pixel
// format, as laid out by an align-1 image copy.
func bytesPerPixel(format string) int {
	switch format {
	case "rgb24", "bgr24":
		return 3
	case "rgba", "bgra", "argb", "abgr", "rgb0", "bgr0", "0rgb", "0bgr":
		return 4
	case "gray16le", "gray16be":
		return 2
	}
	for _, depth := range []string{"p9", "p10", "p12", "p14", "p16"} {
		if strings.Contains(format, depth+"le") || strings.Contains(format, depth+"be") {
			return 2
		}
	}
	if strings.HasPrefix(format, "gray") && (strings.HasSuffix(format, "le") || strings.HasSuffix(format, "be")) {
		return 2
	}
	return 1
}

// pictureTypeChar returns the single letter libavutil uses for a picture
// type, or '?' when it has none.
func pictureTypeChar(s string) byte {
	if s == "" {
		return '?'
	}
	return s[0]
}
