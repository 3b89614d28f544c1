package libav

import (
	"errors"
	"fmt"

	"github.com/asticode/go-astiav"

	"github.com/user/framegrab/pkg/ports"
)

// ErrNoDecoder is returned when libavcodec has no decoder for a stream.
var ErrNoDecoder = errors.New("libavcodec has no decoder")

// Codec is a libavcodec decoder bound to a stream's codec.
type Codec struct {
	codec *astiav.Codec
}

// FindCodec looks up a decoder for the stream. Streams opened by this
// package resolve through their codec parameters, others by codec name.
func FindCodec(stream ports.Stream) (*Codec, bool) {
	var c *astiav.Codec
	if s, ok := stream.Private.(*astiav.Stream); ok {
		c = astiav.FindDecoder(s.CodecParameters().CodecID())
	} else {
		c = astiav.FindDecoderByName(decoderName(stream.Codec))
	}
	if c == nil {
		return nil, false
	}
	return &Codec{codec: c}, true
}

// decoderName maps canonical codec ids to libavcodec decoder names where
// they differ.
func decoderName(codec string) string {
	if codec == "av1" {
		return "libdav1d"
	}
	return codec
}

// Name implements ports.Codec.
func (c *Codec) Name() string {
	return c.codec.Name()
}

// NewDecoder implements ports.Codec.
func (c *Codec) NewDecoder(stream ports.Stream) (ports.Decoder, error) {
	cc := astiav.AllocCodecContext(c.codec)
	if cc == nil {
		return nil, errors.New("allocate codec context")
	}

	if err := configure(cc, c.codec, stream); err != nil {
		cc.Free()
		return nil, err
	}
	if err := cc.Open(c.codec, nil); err != nil {
		cc.Free()
		return nil, fmt.Errorf("open %s: %w", c.codec.Name(), err)
	}

	return &Decoder{
		cc:    cc,
		pkt:   astiav.AllocPacket(),
		frame: astiav.AllocFrame(),
	}, nil
}

// configure copies stream parameters into the codec context. H.264 from the
// Go demuxers arrives as Annex B with in-band parameter sets, so its avcC
// extradata is withheld.
func configure(cc *astiav.CodecContext, codec *astiav.Codec, stream ports.Stream) error {
	if s, ok := stream.Private.(*astiav.Stream); ok {
		if err := s.CodecParameters().ToCodecContext(cc); err != nil {
			return fmt.Errorf("copy codec parameters: %w", err)
		}
		cc.SetTimeBase(s.TimeBase())
		return nil
	}

	cp := astiav.AllocCodecParameters()
	defer cp.Free()
	cp.SetCodecID(codec.ID())
	cp.SetMediaType(astiav.MediaTypeVideo)
	if vp, ok := stream.Params.(ports.VideoParams); ok {
		cp.SetWidth(vp.Width)
		cp.SetHeight(vp.Height)
	}
	if len(stream.Extradata) > 0 && stream.Codec != "h264" {
		if err := cp.SetExtraData(stream.Extradata); err != nil {
			return fmt.Errorf("set extradata: %w", err)
		}
	}
	if err := cp.ToCodecContext(cc); err != nil {
		return fmt.Errorf("copy codec parameters: %w", err)
	}
	if stream.TimeBase.Den > 0 {
		cc.SetTimeBase(astiav.NewRational(stream.TimeBase.Num, stream.TimeBase.Den))
	}
	return nil
}

var _ ports.Codec = (*Codec)(nil)

// Decoder is an opened libavcodec decoding context.
type Decoder struct {
	cc    *astiav.CodecContext
	pkt   *astiav.Packet
	frame *astiav.Frame
}

// SendPacket implements ports.Decoder.
func (d *Decoder) SendPacket(p *ports.Packet) error {
	d.pkt.Unref()
	if err := d.pkt.FromData(p.Data); err != nil {
		return fmt.Errorf("fill packet: %w", err)
	}
	d.pkt.SetPts(p.Pts)
	d.pkt.SetDts(p.Dts)
	if p.KeyFrame {
		d.pkt.SetFlags(d.pkt.Flags().Add(astiav.PacketFlagKey))
	}
	if err := d.cc.SendPacket(d.pkt); err != nil {
		return fmt.Errorf("send packet: %w", err)
	}
	return nil
}

// ReceiveFrame implements ports.Decoder.
func (d *Decoder) ReceiveFrame() (*ports.Frame, error) {
	d.frame.Unref()
	err := d.cc.ReceiveFrame(d.frame)
	switch {
	case errors.Is(err, astiav.ErrEagain):
		return nil, ports.ErrWouldBlock
	case errors.Is(err, astiav.ErrEof):
		return nil, ports.ErrEndOfStream
	case err != nil:
		return nil, fmt.Errorf("receive frame: %w", err)
	}

	buf, err := d.frame.Data().Bytes(1)
	if err != nil {
		return nil, fmt.Errorf("copy frame data: %w", err)
	}

	frame := describeFrame(d.frame)
	frame.Plane = buf
	return frame, nil
}

// describeFrame copies the metadata of f. The key flag comes from the
// decoder, so an I picture that is not a random access point is not key.
func describeFrame(f *astiav.Frame) *ports.Frame {
	format := f.PixelFormat().String()
	width := f.Width()
	return &ports.Frame{
		Width:       width,
		Height:      f.Height(),
		PixelFormat: format,
		Stride:      width * bytesPerPixel(format),
		Pts:         f.Pts(),
		Dts:         f.PktDts(),
		KeyFrame:    f.KeyFrame(),
		PictureType: pictureTypeChar(f.PictureType().String()),
	}
}

// Close implements ports.Decoder.
func (d *Decoder) Close() error {
	if d.frame != nil {
		d.frame.Free()
		d.frame = nil
	}
	if d.pkt != nil {
		d.pkt.Free()
		d.pkt = nil
	}
	if d.cc != nil {
		d.cc.Free()
		d.cc = nil
	}
	return nil
}

var _ ports.Decoder = (*Decoder)(nil)
