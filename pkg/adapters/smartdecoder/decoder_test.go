package smartdecoder

import (
	"testing"

	"github.com/user/framegrab/pkg/adapters/logger"
	"github.com/user/framegrab/pkg/mocks"
	"github.com/user/framegrab/pkg/ports"
)

func missing(ports.Stream) (ports.Codec, bool) { return nil, false }

func TestNew_Chains(t *testing.T) {
	r := New(logger.NewNoop())

	tests := []struct {
		codec string
		want  []Backend
	}{
		{"ffv1", []Backend{BackendFFV1, BackendFFmpeg}},
		{"av1", []Backend{BackendLibaom, BackendFFmpeg}},
		{"h264", []Backend{BackendFFmpeg}},
		{"vp9", []Backend{BackendFFmpeg}},
	}

	for _, tt := range tests {
		t.Run(tt.codec, func(t *testing.T) {
			got := r.Backends(tt.codec)
			if len(got) != len(tt.want) {
				t.Fatalf("Backends(%s) = %v, want %v", tt.codec, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Backends(%s)[%d] = %s, want %s", tt.codec, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFindDecoder_FirstHitWins(t *testing.T) {
	first := &mocks.Codec{NameValue: "first"}
	second := &mocks.Codec{NameValue: "second"}
	r := &Resolver{
		chains: map[string][]lookup{
			"av1": {{BackendLibaom, fixed(first)}, {BackendFFmpeg, fixed(second)}},
		},
		logger: logger.NewNoop(),
	}

	c, ok := r.FindDecoder(ports.Stream{Codec: "av1"})
	if !ok || c.Name() != "first" {
		t.Errorf("FindDecoder = %v, %v; want first", c, ok)
	}
}

func TestFindDecoder_FallsThrough(t *testing.T) {
	second := &mocks.Codec{NameValue: "second"}
	r := &Resolver{
		chains: map[string][]lookup{
			"av1": {{BackendLibaom, missing}, {BackendFFmpeg, fixed(second)}},
		},
		logger: logger.NewNoop(),
	}

	c, ok := r.FindDecoder(ports.Stream{Codec: "av1"})
	if !ok || c.Name() != "second" {
		t.Errorf("FindDecoder = %v, %v; want second", c, ok)
	}
}

func TestFindDecoder_Unresolved(t *testing.T) {
	r := &Resolver{
		fallback: []lookup{{BackendFFmpeg, missing}},
		logger:   logger.NewNoop(),
	}

	if c, ok := r.FindDecoder(ports.Stream{Codec: "theora"}); ok || c != nil {
		t.Errorf("FindDecoder = %v, %v; want nil, false", c, ok)
	}
}

func TestFindDecoder_FFV1UsesPureGo(t *testing.T) {
	r := New(logger.NewNoop())

	c, ok := r.FindDecoder(ports.Stream{Codec: "ffv1"})
	if !ok {
		t.Fatal("expected ffv1 to resolve")
	}
	if c.Name() != "go-ffv1" {
		t.Errorf("codec = %s, want go-ffv1", c.Name())
	}
}
