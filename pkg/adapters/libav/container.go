// Package libav adapts FFmpeg, through go-astiav, to the container and
// decoder ports. It opens any format libavformat can probe and decodes any
// codec libavcodec was built with.
package libav

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/asticode/go-astiav"

	"github.com/user/framegrab/pkg/ports"
)

// Opener opens inputs with libavformat.
type Opener struct{}

// NewOpener creates an Opener.
func NewOpener() *Opener {
	return &Opener{}
}

// Open implements ports.ContainerOpener.
func (o *Opener) Open(path string) (ports.Container, error) {
	fc := astiav.AllocFormatContext()
	if fc == nil {
		return nil, errors.New("allocate format context")
	}
	if err := fc.OpenInput(path, nil, nil); err != nil {
		fc.Free()
		return nil, fmt.Errorf("open input: %w", err)
	}
	return &Container{fc: fc, pkt: astiav.AllocPacket()}, nil
}

var _ ports.ContainerOpener = (*Opener)(nil)

// Container is an input opened by libavformat.
type Container struct {
	fc      *astiav.FormatContext
	pkt     *astiav.Packet
	streams []ports.Stream
}

// Info implements ports.Container.
func (c *Container) Info() ports.ContainerInfo {
	info := ports.ContainerInfo{BitRate: c.fc.BitRate()}
	if f := c.fc.InputFormat(); f != nil {
		info.FormatName = f.LongName()
	}
	if d := c.fc.Duration(); d > 0 {
		info.Duration = time.Duration(d) * time.Microsecond
	}
	return info
}

// FindStreamInfo implements ports.Container.
func (c *Container) FindStreamInfo() ([]ports.Stream, error) {
	if c.streams != nil {
		return c.streams, nil
	}
	if err := c.fc.FindStreamInfo(nil); err != nil {
		return nil, fmt.Errorf("find stream info: %w", err)
	}

	for _, s := range c.fc.Streams() {
		c.streams = append(c.streams, describeStream(s))
	}
	return c.streams, nil
}

func describeStream(s *astiav.Stream) ports.Stream {
	cp := s.CodecParameters()
	frameRate := s.AvgFrameRate()
	if frameRate.Den() == 0 || frameRate.Num() == 0 {
		frameRate = s.RFrameRate()
	}

	stream := ports.Stream{
		Index:     s.Index(),
		Codec:     cp.CodecID().Name(),
		CodecTag:  int(cp.CodecID()),
		TimeBase:  rational(s.TimeBase()),
		FrameRate: rational(frameRate),
		StartTime: s.StartTime(),
		Duration:  s.Duration(),
		BitRate:   cp.BitRate(),
		Extradata: cp.ExtraData(),
		Private:   s,
	}

	switch cp.MediaType() {
	case astiav.MediaTypeVideo:
		stream.Params = ports.VideoParams{Width: cp.Width(), Height: cp.Height()}
	case astiav.MediaTypeAudio:
		stream.Params = ports.AudioParams{Channels: cp.ChannelLayout().Channels(), SampleRate: cp.SampleRate()}
	default:
		stream.Params = ports.OtherParams{Kind: cp.MediaType().String()}
	}
	return stream
}

func rational(r astiav.Rational) ports.Rational {
	return ports.Rational{Num: r.Num(), Den: r.Den()}
}

// ReadPacket implements ports.Container.
func (c *Container) ReadPacket() (*ports.Packet, error) {
	if err := c.fc.ReadFrame(c.pkt); err != nil {
		if errors.Is(err, astiav.ErrEof) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read frame: %w", err)
	}
	defer c.pkt.Unref()

	return &ports.Packet{
		StreamIndex: c.pkt.StreamIndex(),
		Pts:         c.pkt.Pts(),
		Dts:         c.pkt.Dts(),
		KeyFrame:    c.pkt.Flags().Has(astiav.PacketFlagKey),
		Data:        c.pkt.Data(),
	}, nil
}

// Close implements ports.Container.
func (c *Container) Close() error {
	if c.pkt != nil {
		c.pkt.Free()
		c.pkt = nil
	}
	if c.fc != nil {
		c.fc.CloseInput()
		c.fc.Free()
		c.fc = nil
	}
	return nil
}

var _ ports.Container = (*Container)(nil)
