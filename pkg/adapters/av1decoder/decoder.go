// Package av1decoder provides an AV1 video decoder using libaom.
package av1decoder

/*
#cgo pkg-config: aom
#include <aom/aom_decoder.h>
#include <aom/aomdx.h>
#include <stdlib.h>
#include <string.h>

static aom_codec_iface_t* get_av1_decoder_interface() {
    return aom_codec_av1_dx();
}

static aom_codec_err_t init_decoder(aom_codec_ctx_t *ctx, aom_codec_iface_t *iface) {
    return aom_codec_dec_init(ctx, iface, NULL, 0);
}

static unsigned char* get_plane(aom_image_t *img, int plane) {
    return img->planes[plane];
}

static int get_stride(aom_image_t *img, int plane) {
    return img->stride[plane];
}

static unsigned int get_width(aom_image_t *img) {
    return img->d_w;
}

static unsigned int get_height(aom_image_t *img) {
    return img->d_h;
}

static int get_format(aom_image_t *img) {
    return (int)img->fmt;
}

static unsigned int get_bit_depth(aom_image_t *img) {
    return img->bit_depth;
}

static int is_high_bitdepth(aom_image_t *img) {
    return (img->fmt & AOM_IMG_FMT_HIGHBITDEPTH) != 0;
}
*/
import "C"

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/user/framegrab/pkg/ports"
)

// CodecName is the canonical id this package decodes.
const CodecName = "av1"

// Decoder decodes AV1 temporal units with libaom.
type Decoder struct {
	codec *C.aom_codec_ctx_t
	iter  C.aom_codec_iter_t

	lastPts int64
	lastDts int64
	lastKey bool
	plane   []byte
}

// New creates a new AV1 decoder.
func New() *Decoder {
	return &Decoder{}
}

// Init initializes the decoder.
func (d *Decoder) Init() error {
	d.codec = (*C.aom_codec_ctx_t)(C.malloc(C.sizeof_aom_codec_ctx_t))
	if d.codec == nil {
		return fmt.Errorf("failed to allocate decoder context")
	}
	C.memset(unsafe.Pointer(d.codec), 0, C.sizeof_aom_codec_ctx_t)

	iface := C.get_av1_decoder_interface()
	if res := C.init_decoder(d.codec, iface); res != C.AOM_CODEC_OK {
		C.free(unsafe.Pointer(d.codec))
		d.codec = nil
		return fmt.Errorf("failed to initialize decoder: %d", res)
	}

	return nil
}

// SendPacket implements ports.Decoder. Frames produced by the packet are
// drained with ReceiveFrame.
func (d *Decoder) SendPacket(pkt *ports.Packet) error {
	if d.codec == nil {
		return fmt.Errorf("decoder not initialized")
	}
	if len(pkt.Data) == 0 {
		return fmt.Errorf("empty packet")
	}

	res := C.aom_codec_decode(
		d.codec,
		(*C.uint8_t)(unsafe.Pointer(&pkt.Data[0])),
		C.size_t(len(pkt.Data)),
		nil,
	)
	if res != C.AOM_CODEC_OK {
		return fmt.Errorf("decode failed: %d", res)
	}

	d.iter = nil
	d.lastPts = pkt.Pts
	d.lastDts = pkt.Dts
	d.lastKey = pkt.KeyFrame
	return nil
}

// ReceiveFrame implements ports.Decoder.
func (d *Decoder) ReceiveFrame() (*ports.Frame, error) {
	if d.codec == nil {
		return nil, fmt.Errorf("decoder not initialized")
	}

	img := C.aom_codec_get_frame(d.codec, &d.iter)
	if img == nil {
		return nil, ports.ErrWouldBlock
	}

	width := int(C.get_width(img))
	height := int(C.get_height(img))
	stride := int(C.get_stride(img, 0))
	src := C.GoBytes(unsafe.Pointer(C.get_plane(img, 0)), C.int(stride*height))

	if C.is_high_bitdepth(img) != 0 {
		d.plane = narrowPlane(d.plane, src, stride, width, height, int(C.get_bit_depth(img)))
		stride = width
	} else {
		d.plane = src
	}

	picType := byte('P')
	if d.lastKey {
		picType = 'I'
	}

	return &ports.Frame{
		Width:       width,
		Height:      height,
		PixelFormat: pixelFormatName(int(C.get_format(img))),
		Plane:       d.plane,
		Stride:      stride,
		Pts:         d.lastPts,
		Dts:         d.lastDts,
		KeyFrame:    d.lastKey,
		PictureType: picType,
	}, nil
}

// Close releases decoder resources.
func (d *Decoder) Close() error {
	if d.codec != nil {
		C.aom_codec_destroy(d.codec)
		C.free(unsafe.Pointer(d.codec))
		d.codec = nil
	}
	return nil
}

// narrowPlane converts a little-endian 16-bit sample plane to 8 bits per
// sample by dropping the low bits.
func narrowPlane(dst, src []byte, stride, width, height, bitDepth int) []byte {
	shift := bitDepth - 8
	if shift < 0 {
		shift = 0
	}
	if cap(dst) < width*height {
		dst = make([]byte, width*height)
	}
	dst = dst[:width*height]
	for y := 0; y < height; y++ {
		row := src[y*stride:]
		for x := 0; x < width; x++ {
			v := binary.LittleEndian.Uint16(row[x*2:])
			dst[y*width+x] = byte(v >> shift)
		}
	}
	return dst
}

func pixelFormatName(format int) string {
	switch format {
	case int(C.AOM_IMG_FMT_I420):
		return ports.PixelFormatYUV420P
	case int(C.AOM_IMG_FMT_I422):
		return "yuv422p"
	case int(C.AOM_IMG_FMT_I444):
		return "yuv444p"
	case int(C.AOM_IMG_FMT_I42016):
		return "yuv420p16le"
	case int(C.AOM_IMG_FMT_I42216):
		return "yuv422p16le"
	case int(C.AOM_IMG_FMT_I44416):
		return "yuv444p16le"
	default:
		return fmt.Sprintf("aom(%d)", format)
	}
}

var _ ports.Decoder = (*Decoder)(nil)

// Codec opens libaom decoders for AV1 streams.
type Codec struct{}

// Name implements ports.Codec.
func (Codec) Name() string { return "libaom-av1" }

// NewDecoder implements ports.Codec.
func (Codec) NewDecoder(stream ports.Stream) (ports.Decoder, error) {
	if stream.Codec != CodecName {
		return nil, fmt.Errorf("libaom cannot decode %s", stream.Codec)
	}
	d := New()
	if err := d.Init(); err != nil {
		return nil, err
	}
	return d, nil
}

var _ ports.Codec = Codec{}
