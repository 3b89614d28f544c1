package summarizer

import (
	"time"

	"github.com/user/framegrab/pkg/orchestrator"
	"github.com/user/framegrab/pkg/ports"
)

// Summary contains all data collected during one run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Input container
	Input InputInfo

	// Selected video stream, nil when none was selected
	Stream *StreamInfo

	// Run settings
	Settings Settings

	// Packet loop outcome
	Result ResultInfo
}

// InputInfo describes the input container.
type InputInfo struct {
	Path     string
	Format   string
	Duration time.Duration
	BitRate  int64
	Streams  int
}

// StreamInfo describes the decoded video stream.
type StreamInfo struct {
	Index     int
	Codec     string
	Decoder   string
	Width     int
	Height    int
	FrameRate string
}

// Settings contains the run configuration.
type Settings struct {
	PacketBudget int
	OutputDir    string
	BaseName     string
	Backend      string
}

// ResultInfo contains the outcome of the packet loop.
type ResultInfo struct {
	PacketsRead  int
	VideoPackets int
	StopReason   string
	Error        string
	Frames       []FrameInfo
}

// FrameInfo describes one written frame.
type FrameInfo struct {
	Sequence    int
	Path        string
	Width       int
	Height      int
	PixelFormat string
	Pts         int64
	KeyFrame    bool
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithSettings sets run settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithRun copies the outcome of an orchestrator run.
func (b *Builder) WithRun(inputPath string, result orchestrator.RunResult) *Builder {
	b.summary.Input = InputInfo{
		Path:     inputPath,
		Format:   result.Container.FormatName,
		Duration: result.Container.Duration,
		BitRate:  result.Container.BitRate,
		Streams:  len(result.Streams),
	}

	if result.Selected >= 0 && result.Selected < len(result.Streams) {
		s := result.Streams[result.Selected]
		info := &StreamInfo{
			Index:   s.Index,
			Codec:   s.Codec,
			Decoder: result.DecoderName,
		}
		if vp, ok := s.Params.(ports.VideoParams); ok {
			info.Width, info.Height = vp.Width, vp.Height
		}
		if s.FrameRate.Den != 0 {
			info.FrameRate = s.FrameRate.String()
		}
		b.summary.Stream = info
	}

	b.summary.Result.PacketsRead = result.PacketsRead
	b.summary.Result.VideoPackets = result.VideoPackets
	b.summary.Result.StopReason = string(result.StopReason)
	b.summary.Result.Frames = make([]FrameInfo, len(result.Frames))
	for i, f := range result.Frames {
		b.summary.Result.Frames[i] = FrameInfo(f)
	}
	return b
}

// WithError records the error that ended the run.
func (b *Builder) WithError(err error) *Builder {
	if err != nil {
		b.summary.Result.Error = err.Error()
	}
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
