package ports

import "errors"

var (
	// ErrWouldBlock is returned by ReceiveFrame when the decoder needs more input.
	ErrWouldBlock = errors.New("decoder: needs more input")

	// ErrEndOfStream is returned by ReceiveFrame when the decoder is fully drained.
	ErrEndOfStream = errors.New("decoder: end of stream")
)

// Decoder turns compressed packets into frames using a send/receive model.
type Decoder interface {
	// SendPacket submits one packet to the decoder.
	SendPacket(pkt *Packet) error

	// ReceiveFrame returns the next ready frame, ErrWouldBlock, ErrEndOfStream
	// or a hard error.
	ReceiveFrame() (*Frame, error)

	// Close releases decoder resources.
	Close() error
}

// Codec is a decoder implementation for one codec id.
type Codec interface {
	// Name returns the implementation name, e.g. "libdav1d" or "go-ffv1".
	Name() string

	// NewDecoder allocates a decoder configured from the stream's parameters
	// and opens it.
	NewDecoder(stream Stream) (Decoder, error)
}

// CodecResolver looks up a decoder implementation for a codec id.
type CodecResolver interface {
	// FindDecoder returns false when no implementation supports the codec.
	FindDecoder(stream Stream) (Codec, bool)
}
