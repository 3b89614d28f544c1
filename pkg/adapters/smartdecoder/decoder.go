// Package smartdecoder picks a decoding backend for each stream's codec.
package smartdecoder

import (
	"github.com/user/framegrab/pkg/adapters/av1decoder"
	"github.com/user/framegrab/pkg/adapters/ffv1decoder"
	"github.com/user/framegrab/pkg/adapters/libav"
	"github.com/user/framegrab/pkg/ports"
)

// Backend names a decoding implementation.
type Backend string

const (
	// BackendFFV1 is the pure Go FFV1 decoder.
	BackendFFV1 Backend = "go-ffv1"
	// BackendLibaom is libaom for AV1 decoding.
	BackendLibaom Backend = "libaom"
	// BackendFFmpeg is libavcodec through go-astiav.
	BackendFFmpeg Backend = "ffmpeg"
)

type lookup struct {
	backend Backend
	find    func(ports.Stream) (ports.Codec, bool)
}

// Resolver implements ports.CodecResolver over an ordered list of backends
// per codec.
//
// The selection flow:
//   - FFV1: go-ffv1, then FFmpeg
//   - AV1: libaom, then FFmpeg
//   - anything else: FFmpeg
type Resolver struct {
	chains   map[string][]lookup
	fallback []lookup
	logger   ports.Logger
}

// New creates a Resolver with the built-in backends.
func New(logger ports.Logger) *Resolver {
	ffmpeg := lookup{BackendFFmpeg, findFFmpeg}
	return &Resolver{
		chains: map[string][]lookup{
			ffv1decoder.CodecName: {{BackendFFV1, fixed(ffv1decoder.Codec{})}, ffmpeg},
			av1decoder.CodecName:  {{BackendLibaom, fixed(av1decoder.Codec{})}, ffmpeg},
		},
		fallback: []lookup{ffmpeg},
		logger:   logger.WithComponent("decoder"),
	}
}

// FindDecoder implements ports.CodecResolver.
func (r *Resolver) FindDecoder(stream ports.Stream) (ports.Codec, bool) {
	for _, l := range r.chain(stream.Codec) {
		r.logger.Debug("Trying %s for %s", l.backend, stream.Codec)
		if c, ok := l.find(stream); ok {
			return c, true
		}
	}
	return nil, false
}

// Backends lists the backends tried for a codec, in order.
func (r *Resolver) Backends(codec string) []Backend {
	chain := r.chain(codec)
	out := make([]Backend, len(chain))
	for i, l := range chain {
		out[i] = l.backend
	}
	return out
}

func (r *Resolver) chain(codec string) []lookup {
	if c, ok := r.chains[codec]; ok {
		return c
	}
	return r.fallback
}

func fixed(c ports.Codec) func(ports.Stream) (ports.Codec, bool) {
	return func(ports.Stream) (ports.Codec, bool) { return c, true }
}

func findFFmpeg(stream ports.Stream) (ports.Codec, bool) {
	c, ok := libav.FindCodec(stream)
	if !ok {
		return nil, false
	}
	return c, true
}

var _ ports.CodecResolver = (*Resolver)(nil)
