package pgmwriter

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/user/framegrab/pkg/adapters/osfilesystem"
	"github.com/user/framegrab/pkg/mocks"
	"github.com/user/framegrab/pkg/ports"
)

// paddedPlane returns a w x h plane with stride s where pixel (x, y) is
// x + 16*y and padding bytes are 0xEE.
func paddedPlane(w, h, s int) []byte {
	plane := bytes.Repeat([]byte{0xEE}, s*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			plane[y*s+x] = byte(x + 16*y)
		}
	}
	return plane
}

func TestEncode_RoundTrip(t *testing.T) {
	tests := []struct {
		name         string
		w, h, stride int
	}{
		{"no padding", 5, 3, 5},
		{"padded stride", 5, 3, 8},
		{"single pixel", 1, 1, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plane := paddedPlane(tt.w, tt.h, tt.stride)

			var buf bytes.Buffer
			if err := Encode(&buf, plane, tt.stride, tt.w, tt.h); err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			w, h, pix, err := Decode(buf.Bytes())
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if w != tt.w || h != tt.h {
				t.Fatalf("expected %dx%d, got %dx%d", tt.w, tt.h, w, h)
			}
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					if got, want := pix[y*w+x], byte(x+16*y); got != want {
						t.Fatalf("pixel (%d,%d): expected %d, got %d", x, y, want, got)
					}
				}
			}
		})
	}
}

func TestEncode_Header(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, make([]byte, 6), 3, 3, 2); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	want := "P5\n3 2\n255\n"
	if !bytes.HasPrefix(buf.Bytes(), []byte(want)) {
		t.Errorf("expected header %q, got %q", want, buf.Bytes()[:len(want)])
	}
	if buf.Len() != len(want)+6 {
		t.Errorf("expected %d bytes, got %d", len(want)+6, buf.Len())
	}
}

func TestEncode_LastRowNeedsOnlyWidth(t *testing.T) {
	// The final row may end right after its last pixel.
	plane := make([]byte, 8+4)
	var buf bytes.Buffer
	if err := Encode(&buf, plane, 8, 4, 2); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestEncode_InvalidPlane(t *testing.T) {
	tests := []struct {
		name          string
		size, stride  int
		width, height int
	}{
		{"zero width", 4, 4, 0, 1},
		{"stride below width", 16, 2, 4, 4},
		{"short buffer", 7, 4, 4, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := Encode(&buf, make([]byte, tt.size), tt.stride, tt.width, tt.height)
			if !errors.Is(err, ErrInvalidPlane) {
				t.Errorf("expected ErrInvalidPlane, got %v", err)
			}
			if buf.Len() != 0 {
				t.Errorf("expected nothing written, got %d bytes", buf.Len())
			}
		})
	}
}

func TestWriter_WriteFrame(t *testing.T) {
	fs := mocks.NewFileSystem()
	w := New(fs)

	frame := &ports.Frame{Width: 2, Height: 2, Stride: 4, Plane: []byte{1, 2, 9, 9, 3, 4, 9, 9}}
	if err := w.WriteFrame("frame-1.pgm", frame); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	data, ok := fs.GetFile("frame-1.pgm")
	if !ok {
		t.Fatal("expected frame-1.pgm to be written")
	}
	if want := "P5\n2 2\n255\n\x01\x02\x03\x04"; string(data) != want {
		t.Errorf("expected %q, got %q", want, data)
	}
}

func TestWriter_WriteFrameUnwritableDestination(t *testing.T) {
	dir, err := os.MkdirTemp("", "pgmwriter_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	blocker := filepath.Join(dir, "not-a-dir")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}

	w := New(osfilesystem.New())
	err = w.WriteFrame(filepath.Join(blocker, "frame-1.pgm"), &ports.Frame{Width: 1, Height: 1, Stride: 1, Plane: []byte{0}})
	if err == nil {
		t.Error("expected error for unwritable destination")
	}
}

func TestDecode_RejectsOtherFormats(t *testing.T) {
	for _, data := range []string{"P6\n1 1\n255\n\x00\x00\x00", "P5\n1 1\n65535\n\x00\x00", "P5\n2 2\n255\n\x00"} {
		if _, _, _, err := Decode([]byte(data)); err == nil {
			t.Errorf("expected error for %q", data)
		}
	}
}
