// Package ports defines the interfaces and shared value types that connect
// the pipeline to its adapters.
package ports

import (
	"fmt"
	"time"
)

// MediaType classifies an elementary stream.
type MediaType int

const (
	MediaTypeOther MediaType = iota
	MediaTypeVideo
	MediaTypeAudio
)

// String returns the lowercase name of the media type.
func (m MediaType) String() string {
	switch m {
	case MediaTypeVideo:
		return "video"
	case MediaTypeAudio:
		return "audio"
	default:
		return "other"
	}
}

// Rational is a fraction such as a time base or a frame rate.
type Rational struct {
	Num int
	Den int
}

// String formats the rational as num/den.
func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// Float returns the rational as a float, or 0 when the denominator is 0.
func (r Rational) Float() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// ContainerInfo holds format-level metadata of an opened container.
type ContainerInfo struct {
	FormatName string
	Duration   time.Duration
	BitRate    int64
}

// StreamParams is the media-type specific part of a stream descriptor.
// It is one of VideoParams, AudioParams or OtherParams.
type StreamParams interface {
	MediaType() MediaType
}

// VideoParams describes a video stream.
type VideoParams struct {
	Width  int
	Height int
}

// MediaType implements StreamParams.
func (VideoParams) MediaType() MediaType { return MediaTypeVideo }

// AudioParams describes an audio stream.
type AudioParams struct {
	Channels   int
	SampleRate int
}

// MediaType implements StreamParams.
func (AudioParams) MediaType() MediaType { return MediaTypeAudio }

// OtherParams describes any stream that is neither video nor audio.
type OtherParams struct {
	Kind string // e.g. "subtitle", "data"
}

// MediaType implements StreamParams.
func (OtherParams) MediaType() MediaType { return MediaTypeOther }

// Stream is an immutable descriptor of one elementary stream.
type Stream struct {
	Index     int
	Codec     string // canonical codec id, e.g. "h264", "av1", "ffv1"
	CodecTag  int    // backend specific numeric id, 0 if unknown
	TimeBase  Rational
	FrameRate Rational
	StartTime int64 // in TimeBase units
	Duration  int64 // in TimeBase units
	BitRate   int64
	Extradata []byte
	Params    StreamParams

	// Private carries backend specific state the matching decoder may use.
	Private any
}

// MediaType returns the stream's media type.
func (s Stream) MediaType() MediaType {
	if s.Params == nil {
		return MediaTypeOther
	}
	return s.Params.MediaType()
}

// Packet is one compressed unit read from a container.
type Packet struct {
	StreamIndex int
	Pts         int64
	Dts         int64
	KeyFrame    bool
	Data        []byte
}

// PixelFormatYUV420P is the only format whose first plane is written as true grayscale.
const PixelFormatYUV420P = "yuv420p"

// Frame is one decoded picture. Plane holds the first data plane and is only
// valid until the next call into the decoder that produced it.
type Frame struct {
	Width       int
	Height      int
	PixelFormat string
	Plane       []byte
	Stride      int
	Pts         int64
	Dts         int64
	KeyFrame    bool
	PictureType byte // 'I', 'P', 'B' or '?'
}
