package pipeline

import (
	"fmt"
	"path/filepath"

	"github.com/user/framegrab/pkg/ports"
)

// State is a step of the driver state machine.
type State int

const (
	StateUninitialized State = iota
	StateContainerOpen
	StateStreamsIndexed
	StateVideoStreamSelected
	StateDecoderReady
	StateRunning
	StateFinished
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateContainerOpen:
		return "container-open"
	case StateStreamsIndexed:
		return "streams-indexed"
	case StateVideoStreamSelected:
		return "video-stream-selected"
	case StateDecoderReady:
		return "decoder-ready"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// OutputNamer builds output paths of the form <dir>/<base>-<seq>.pgm.
type OutputNamer struct {
	Dir      string
	BaseName string
}

// Path returns the output path for sequence number seq.
func (n OutputNamer) Path(seq int) string {
	return filepath.Join(n.Dir, fmt.Sprintf("%s-%d.pgm", n.BaseName, seq))
}

// =============================================================================
// Decode Stage Types
// =============================================================================

// DecodeInput is one video packet to push through an open decoder.
type DecodeInput struct {
	Decoder ports.Decoder
	Packet  *ports.Packet
	Namer   OutputNamer

	// NextSequence is the number given to the first frame this packet yields.
	NextSequence int
}

// WrittenFrame records one frame written to disk.
type WrittenFrame struct {
	Sequence    int
	Path        string
	Width       int
	Height      int
	PixelFormat string
	Pts         int64
	KeyFrame    bool
}

// DecodeResult lists the frames written for one packet, in decode order.
// On error it still lists every frame written before the failure.
type DecodeResult struct {
	Written []WrittenFrame
}
