// Package pgmwriter serialises a single image plane as a binary PGM (P5) file.
package pgmwriter

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/user/framegrab/pkg/ports"
)

// ErrInvalidPlane is returned when the plane geometry does not fit its buffer.
var ErrInvalidPlane = errors.New("pgmwriter: invalid plane")

// Writer implements ports.FrameWriter on top of a ports.FileSystem.
type Writer struct {
	fs ports.FileSystem
}

// New creates a Writer.
func New(fs ports.FileSystem) *Writer {
	return &Writer{fs: fs}
}

// WriteFrame writes the frame's first plane to path.
func (w *Writer) WriteFrame(path string, frame *ports.Frame) error {
	if frame == nil {
		return fmt.Errorf("%w: nil frame", ErrInvalidPlane)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, frame.Plane, frame.Stride, frame.Width, frame.Height); err != nil {
		return err
	}
	if err := w.fs.WriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Encode writes a P5 header followed by height rows of width bytes, row i
// starting at i*stride in plane.
func Encode(out io.Writer, plane []byte, stride, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidPlane, width, height)
	}
	if stride < width {
		return fmt.Errorf("%w: stride %d < width %d", ErrInvalidPlane, stride, width)
	}
	if need := (height-1)*stride + width; len(plane) < need {
		return fmt.Errorf("%w: buffer holds %d bytes, need %d", ErrInvalidPlane, len(plane), need)
	}

	if _, err := fmt.Fprintf(out, "P5\n%d %d\n255\n", width, height); err != nil {
		return err
	}
	for row := 0; row < height; row++ {
		off := row * stride
		if _, err := out.Write(plane[off : off+width]); err != nil {
			return err
		}
	}
	return nil
}

// Decode parses a P5 image written by Encode and returns its dimensions and
// packed pixels.
func Decode(data []byte) (width, height int, pix []byte, err error) {
	var header [3]string
	rest := data
	for i := range header {
		n := bytes.IndexByte(rest, '\n')
		if n < 0 {
			return 0, 0, nil, fmt.Errorf("truncated header")
		}
		header[i] = string(rest[:n])
		rest = rest[n+1:]
	}
	if header[0] != "P5" || header[2] != "255" {
		return 0, 0, nil, fmt.Errorf("unsupported pgm header %q", header)
	}
	if _, err := fmt.Sscanf(header[1], "%d %d", &width, &height); err != nil {
		return 0, 0, nil, fmt.Errorf("parse dimensions: %w", err)
	}
	if len(rest) != width*height {
		return 0, 0, nil, fmt.Errorf("payload is %d bytes, want %d", len(rest), width*height)
	}
	return width, height, rest, nil
}

var _ ports.FrameWriter = (*Writer)(nil)
