package mocks

import (
	"github.com/user/framegrab/pkg/ports"
)

// Decoder is a mock implementation of ports.Decoder. Frames returned by
// FramesFunc for a packet are queued by SendPacket and handed out one by one
// by ReceiveFrame, which then reports ports.ErrWouldBlock.
type Decoder struct {
	SendPacketFunc   func(pkt *ports.Packet) error
	FramesFunc       func(pkt *ports.Packet) []*ports.Frame
	ReceiveFrameFunc func() (*ports.Frame, error)
	CloseFunc        func() error

	// Recorded calls for verification
	SentPackets  []*ports.Packet
	ReceiveCalls int
	CloseCalled  int
	pending      []*ports.Frame
}

func (m *Decoder) SendPacket(pkt *ports.Packet) error {
	m.SentPackets = append(m.SentPackets, pkt)
	if m.SendPacketFunc != nil {
		if err := m.SendPacketFunc(pkt); err != nil {
			return err
		}
	}
	if m.FramesFunc != nil {
		m.pending = append(m.pending, m.FramesFunc(pkt)...)
	}
	return nil
}

func (m *Decoder) ReceiveFrame() (*ports.Frame, error) {
	m.ReceiveCalls++
	if m.ReceiveFrameFunc != nil {
		return m.ReceiveFrameFunc()
	}
	if len(m.pending) == 0 {
		return nil, ports.ErrWouldBlock
	}
	f := m.pending[0]
	m.pending = m.pending[1:]
	return f, nil
}

func (m *Decoder) Close() error {
	m.CloseCalled++
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// GrayFrame returns a yuv420p frame whose plane is filled with value.
func GrayFrame(width, height int, value byte) *ports.Frame {
	plane := make([]byte, width*height)
	for i := range plane {
		plane[i] = value
	}
	return &ports.Frame{
		Width:       width,
		Height:      height,
		PixelFormat: ports.PixelFormatYUV420P,
		Plane:       plane,
		Stride:      width,
		PictureType: 'I',
		KeyFrame:    true,
	}
}

// Codec is a mock implementation of ports.Codec.
type Codec struct {
	NameValue      string
	NewDecoderFunc func(stream ports.Stream) (ports.Decoder, error)

	OpenedStreams []ports.Stream
}

func (m *Codec) Name() string {
	if m.NameValue == "" {
		return "mock"
	}
	return m.NameValue
}

func (m *Codec) NewDecoder(stream ports.Stream) (ports.Decoder, error) {
	m.OpenedStreams = append(m.OpenedStreams, stream)
	if m.NewDecoderFunc != nil {
		return m.NewDecoderFunc(stream)
	}
	return &Decoder{}, nil
}

// CodecResolver is a mock implementation of ports.CodecResolver that
// resolves codec ids present in Codecs.
type CodecResolver struct {
	Codecs map[string]ports.Codec

	Lookups []string
}

func (m *CodecResolver) FindDecoder(stream ports.Stream) (ports.Codec, bool) {
	m.Lookups = append(m.Lookups, stream.Codec)
	c, ok := m.Codecs[stream.Codec]
	return c, ok
}

var (
	_ ports.Decoder       = (*Decoder)(nil)
	_ ports.Codec         = (*Codec)(nil)
	_ ports.CodecResolver = (*CodecResolver)(nil)
)
