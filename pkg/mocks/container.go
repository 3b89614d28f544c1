package mocks

import (
	"io"

	"github.com/user/framegrab/pkg/ports"
)

// Container is a mock implementation of ports.Container that replays
// Streams and Packets in order.
type Container struct {
	InfoValue          ports.ContainerInfo
	Streams            []ports.Stream
	Packets            []*ports.Packet
	FindStreamInfoFunc func() ([]ports.Stream, error)
	ReadPacketFunc     func() (*ports.Packet, error)
	CloseFunc          func() error

	// Recorded calls for verification
	PacketsRead int
	CloseCalled int
}

func (m *Container) Info() ports.ContainerInfo {
	return m.InfoValue
}

func (m *Container) FindStreamInfo() ([]ports.Stream, error) {
	if m.FindStreamInfoFunc != nil {
		return m.FindStreamInfoFunc()
	}
	return m.Streams, nil
}

func (m *Container) ReadPacket() (*ports.Packet, error) {
	if m.ReadPacketFunc != nil {
		m.PacketsRead++
		return m.ReadPacketFunc()
	}
	if m.PacketsRead >= len(m.Packets) {
		return nil, io.EOF
	}
	pkt := m.Packets[m.PacketsRead]
	m.PacketsRead++
	return pkt, nil
}

func (m *Container) Close() error {
	m.CloseCalled++
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// ContainerOpener is a mock implementation of ports.ContainerOpener.
type ContainerOpener struct {
	Container ports.Container
	OpenFunc  func(path string) (ports.Container, error)

	OpenedPaths []string
}

func (m *ContainerOpener) Open(path string) (ports.Container, error) {
	m.OpenedPaths = append(m.OpenedPaths, path)
	if m.OpenFunc != nil {
		return m.OpenFunc(path)
	}
	return m.Container, nil
}

// FrameWriter is a mock implementation of ports.FrameWriter.
type FrameWriter struct {
	WriteFrameFunc func(path string, frame *ports.Frame) error

	Paths []string
}

func (m *FrameWriter) WriteFrame(path string, frame *ports.Frame) error {
	if m.WriteFrameFunc != nil {
		if err := m.WriteFrameFunc(path, frame); err != nil {
			return err
		}
	}
	m.Paths = append(m.Paths, path)
	return nil
}

var (
	_ ports.Container       = (*Container)(nil)
	_ ports.ContainerOpener = (*ContainerOpener)(nil)
	_ ports.FrameWriter     = (*FrameWriter)(nil)
)
