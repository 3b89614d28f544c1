// Package ffv1decoder decodes FFV1 video in pure Go using go-ffv1.
package ffv1decoder

import (
	"errors"
	"fmt"

	"github.com/dwbuiten/go-ffv1/ffv1"

	"github.com/user/framegrab/pkg/ports"
)

// CodecName is the canonical id this package decodes.
const CodecName = "ffv1"

// ErrMissingDimensions is returned when the stream does not carry the
// picture size FFV1 needs up front.
var ErrMissingDimensions = errors.New("ffv1 stream has no dimensions")

// Decoder decodes FFV1 packets. Every packet is an intra frame, so each
// SendPacket yields exactly one frame.
type Decoder struct {
	dec     *ffv1.Decoder
	pending *ports.Frame
}

// New creates a decoder for the given extradata and picture size.
func New(extradata []byte, width, height int) (*Decoder, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrMissingDimensions
	}
	dec, err := ffv1.NewDecoder(extradata, uint32(width), uint32(height))
	if err != nil {
		return nil, fmt.Errorf("init ffv1: %w", err)
	}
	return &Decoder{dec: dec}, nil
}

// SendPacket implements ports.Decoder.
func (d *Decoder) SendPacket(pkt *ports.Packet) error {
	if d.dec == nil {
		return fmt.Errorf("decoder closed")
	}
	f, err := d.dec.DecodeFrame(pkt.Data)
	if err != nil {
		return fmt.Errorf("decode ffv1: %w", err)
	}

	frame, err := convertFrame(f)
	if err != nil {
		return err
	}
	frame.Pts = pkt.Pts
	frame.Dts = pkt.Dts
	d.pending = frame
	return nil
}

// ReceiveFrame implements ports.Decoder.
func (d *Decoder) ReceiveFrame() (*ports.Frame, error) {
	if d.pending == nil {
		return nil, ports.ErrWouldBlock
	}
	f := d.pending
	d.pending = nil
	return f, nil
}

// Close implements ports.Decoder.
func (d *Decoder) Close() error {
	d.dec = nil
	d.pending = nil
	return nil
}

func convertFrame(f *ffv1.Frame) (*ports.Frame, error) {
	width, height := int(f.Width), int(f.Height)
	frame := &ports.Frame{
		Width:       width,
		Height:      height,
		Stride:      width,
		KeyFrame:    true,
		PictureType: 'I',
	}

	switch {
	case len(f.Buf) > 0:
		frame.Plane = f.Buf[0]
		frame.PixelFormat = pixelFormat(planeLens(f.Buf), 8)
	case len(f.Buf16) > 0:
		frame.Plane = narrow16(f.Buf16[0], int(f.BitDepth))
		lens := make([]int, len(f.Buf16))
		for i, p := range f.Buf16 {
			lens[i] = len(p)
		}
		frame.PixelFormat = pixelFormat(lens, int(f.BitDepth))
	default:
		return nil, fmt.Errorf("ffv1 frame has no supported planes")
	}

	if len(frame.Plane) < width*height {
		return nil, fmt.Errorf("ffv1 luma plane is %d bytes, want %d", len(frame.Plane), width*height)
	}
	return frame, nil
}

func planeLens(planes [][]byte) []int {
	lens := make([]int, len(planes))
	for i, p := range planes {
		lens[i] = len(p)
	}
	return lens
}

// pixelFormat infers the chroma layout from the ratio of luma to chroma
// plane sizes.
func pixelFormat(lens []int, bitDepth int) string {
	suffix := ""
	if bitDepth > 8 {
		suffix = fmt.Sprintf("%dle", bitDepth)
	}
	if len(lens) < 3 || lens[1] == 0 {
		if suffix == "" {
			return "gray"
		}
		return "gray" + suffix
	}
	var base string
	switch lens[0] / lens[1] {
	case 4:
		base = "yuv420p"
	case 2:
		base = "yuv422p"
	case 1:
		base = "yuv444p"
	default:
		base = "yuv"
	}
	if len(lens) == 4 && base == "yuv420p" {
		base = "yuva420p"
	}
	return base + suffix
}

func narrow16(plane []uint16, bitDepth int) []byte {
	shift := bitDepth - 8
	if shift < 0 {
		shift = 0
	}
	out := make([]byte, len(plane))
	for i, v := range plane {
		out[i] = byte(v >> shift)
	}
	return out
}

var _ ports.Decoder = (*Decoder)(nil)

// Codec opens FFV1 decoders.
type Codec struct{}

// Name implements ports.Codec.
func (Codec) Name() string { return "go-ffv1" }

// NewDecoder implements ports.Codec.
func (Codec) NewDecoder(stream ports.Stream) (ports.Decoder, error) {
	if stream.Codec != CodecName {
		return nil, fmt.Errorf("go-ffv1 cannot decode %s", stream.Codec)
	}
	vp, ok := stream.Params.(ports.VideoParams)
	if !ok {
		return nil, ErrMissingDimensions
	}
	return New(stream.Extradata, vp.Width, vp.Height)
}

var _ ports.Codec = Codec{}
