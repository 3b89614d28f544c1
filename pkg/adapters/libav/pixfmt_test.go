package libav

import "testing"

func TestBytesPerPixel(t *testing.T) {
	tests := []struct {
		format string
		want   int
	}{
		{"yuv420p", 1},
		{"yuvj420p", 1},
		{"nv12", 1},
		{"gray", 1},
		{"yuv420p10le", 2},
		{"yuv444p12be", 2},
		{"gray16le", 2},
		{"gray10le", 2},
		{"rgb24", 3},
		{"bgr24", 3},
		{"rgba", 4},
		{"bgr0", 4},
		{"unknown", 1},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if got := bytesPerPixel(tt.format); got != tt.want {
				t.Errorf("bytesPerPixel(%q) = %d, want %d", tt.format, got, tt.want)
			}
		})
	}
}

func TestPictureTypeChar(t *testing.T) {
	if got := pictureTypeChar("I"); got != 'I' {
		t.Errorf("pictureTypeChar(I) = %c", got)
	}
	if got := pictureTypeChar(""); got != '?' {
		t.Errorf("pictureTypeChar(\"\") = %c", got)
	}
}

func TestDecoderName(t *testing.T) {
	if got := decoderName("av1"); got != "libdav1d" {
		t.Errorf("decoderName(av1) = %q", got)
	}
	if got := decoderName("h264"); got != "h264" {
		t.Errorf("decoderName(h264) = %q", got)
	}
}
