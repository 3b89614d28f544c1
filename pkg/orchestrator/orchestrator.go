// Package orchestrator drives a run: open the container, pick the video
// stream, open its decoder and feed it packets until the budget or the
// container runs out.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/user/framegrab/pkg/pipeline"
	"github.com/user/framegrab/pkg/ports"
)

// DefaultPacketBudget is the number of video packets processed per run.
const DefaultPacketBudget = 8

// Config contains the per-run settings of the orchestrator.
type Config struct {
	InputPath    string
	OutputDir    string
	BaseName     string
	PacketBudget int
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		OutputDir:    ".",
		BaseName:     "frame",
		PacketBudget: DefaultPacketBudget,
	}
}

// StopReason tells why the packet loop ended.
type StopReason string

const (
	StopNone        StopReason = ""
	StopBudget      StopReason = "budget"
	StopEndOfStream StopReason = "end-of-stream"
	StopError       StopReason = "error"
)

// RunResult describes a finished (or failed) run.
type RunResult struct {
	State     pipeline.State
	Container ports.ContainerInfo
	Streams   []ports.Stream

	// Selected is the index into Streams of the decoded stream, or -1.
	Selected     int
	DecoderName  string
	PacketsRead  int
	VideoPackets int
	Frames       []pipeline.WrittenFrame
	StopReason   StopReason
}

// Orchestrator runs the demux/decode/write pipeline.
type Orchestrator struct {
	opener      ports.ContainerOpener
	resolver    ports.CodecResolver
	decodeStage pipeline.Stage[pipeline.DecodeInput, pipeline.DecodeResult]
	fs          ports.FileSystem
	logger      ports.Logger
}

// New creates a new Orchestrator.
func New(
	opener ports.ContainerOpener,
	resolver ports.CodecResolver,
	decodeStage pipeline.Stage[pipeline.DecodeInput, pipeline.DecodeResult],
	fs ports.FileSystem,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		opener:      opener,
		resolver:    resolver,
		decodeStage: decodeStage,
		fs:          fs,
		logger:      logger,
	}
}

// Run executes one pass over config.InputPath. The container and the
// decoder are closed on every return path.
func (o *Orchestrator) Run(ctx context.Context, config Config) (result RunResult, err error) {
	result.Selected = -1
	budget := config.PacketBudget
	if budget <= 0 {
		budget = DefaultPacketBudget
	}

	defer func() {
		if err != nil {
			o.logger.Error("Failed in state %s: %s", result.State, err)
			if result.StopReason == StopNone && result.State == pipeline.StateRunning {
				result.StopReason = StopError
			}
		}
		o.transition(&result, pipeline.StateFinished)
	}()

	// Uninitialized -> ContainerOpen
	o.logger.Info("Opening %s", config.InputPath)
	container, err := o.opener.Open(config.InputPath)
	if err != nil {
		return result, fmt.Errorf("%w: %s: %w", pipeline.ErrOpen, config.InputPath, err)
	}
	defer func() {
		if cerr := container.Close(); cerr != nil {
			o.logger.Warn("Closing container: %s", cerr)
		}
	}()
	o.transition(&result, pipeline.StateContainerOpen)

	// ContainerOpen -> StreamsIndexed
	streams, err := container.FindStreamInfo()
	if err != nil {
		return result, fmt.Errorf("%w: %w", pipeline.ErrProbe, err)
	}
	result.Streams = streams
	result.Container = container.Info()
	o.logger.Info("Format %s, duration %s, bit rate %d", result.Container.FormatName, result.Container.Duration, result.Container.BitRate)
	o.transition(&result, pipeline.StateStreamsIndexed)

	// StreamsIndexed -> VideoStreamSelected
	codec := o.selectVideoStream(&result)
	if codec == nil {
		return result, fmt.Errorf("%w: %d streams in %s", pipeline.ErrNoVideoStream, len(streams), config.InputPath)
	}
	selected := streams[result.Selected]
	result.DecoderName = codec.Name()
	o.logger.Info("Selected video stream %d (%s via %s)", selected.Index, selected.Codec, codec.Name())
	o.transition(&result, pipeline.StateVideoStreamSelected)

	// VideoStreamSelected -> DecoderReady
	decoder, err := codec.NewDecoder(selected)
	if err != nil {
		return result, fmt.Errorf("%w: %s: %w", pipeline.ErrDecoderInit, codec.Name(), err)
	}
	defer func() {
		if cerr := decoder.Close(); cerr != nil {
			o.logger.Warn("Closing decoder: %s", cerr)
		}
	}()
	o.transition(&result, pipeline.StateDecoderReady)

	if config.OutputDir != "" && config.OutputDir != "." {
		if err := o.fs.MkdirAll(config.OutputDir); err != nil {
			return result, fmt.Errorf("%w: create %s: %w", pipeline.ErrIO, config.OutputDir, err)
		}
	}

	// DecoderReady -> Running
	o.transition(&result, pipeline.StateRunning)
	o.logger.Info("Processing up to %d video packets", budget)

	namer := pipeline.OutputNamer{Dir: config.OutputDir, BaseName: config.BaseName}
	nextSeq := 1
	for budget > 0 {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		pkt, err := container.ReadPacket()
		if errors.Is(err, io.EOF) {
			result.StopReason = StopEndOfStream
			break
		}
		if err != nil {
			// A failing read ends the stream the same way exhaustion does.
			o.logger.Warn("Reading packet: %s", err)
			result.StopReason = StopEndOfStream
			break
		}
		result.PacketsRead++

		if pkt.StreamIndex != selected.Index {
			continue
		}

		o.logger.Debug("Sending packet: pts %d, dts %d, size %d bytes", pkt.Pts, pkt.Dts, len(pkt.Data))
		decoded, err := o.decodeStage.Execute(ctx, pipeline.DecodeInput{
			Decoder:      decoder,
			Packet:       pkt,
			Namer:        namer,
			NextSequence: nextSeq,
		})
		result.Frames = append(result.Frames, decoded.Written...)
		nextSeq += len(decoded.Written)
		if err != nil {
			result.StopReason = StopError
			return result, err
		}

		result.VideoPackets++
		budget--
	}
	if budget == 0 {
		result.StopReason = StopBudget
	}

	o.logger.Info("Processed %d video packets, wrote %d frames", result.VideoPackets, len(result.Frames))
	return result, nil
}

// selectVideoStream logs every stream and records the first video stream
// whose decoder resolves. It returns nil when there is none.
func (o *Orchestrator) selectVideoStream(result *RunResult) ports.Codec {
	var chosen ports.Codec
	for i, s := range result.Streams {
		o.logger.Info("Stream %d: time base %s, frame rate %s, start time %d, duration %d",
			s.Index, s.TimeBase, s.FrameRate, s.StartTime, s.Duration)

		switch p := s.Params.(type) {
		case ports.VideoParams:
			o.logger.Info("Video codec: resolution %d x %d", p.Width, p.Height)
		case ports.AudioParams:
			o.logger.Info("Audio codec: channels %d, sample rate %d", p.Channels, p.SampleRate)
		case ports.OtherParams:
			o.logger.Info("Other stream: %s", p.Kind)
		}

		o.logger.Debug("Finding the proper decoder for stream %d", s.Index)
		codec, ok := o.resolver.FindDecoder(s)
		if !ok {
			o.logger.Warn("Unsupported codec %s in stream %d, skipping", s.Codec, s.Index)
			continue
		}
		o.logger.Info("Codec %s id %d bit rate %d", codec.Name(), s.CodecTag, s.BitRate)

		if chosen == nil && s.MediaType() == ports.MediaTypeVideo {
			chosen = codec
			result.Selected = i
		}
	}
	return chosen
}

func (o *Orchestrator) transition(result *RunResult, to pipeline.State) {
	o.logger.Debug("State %s -> %s", result.State, to)
	result.State = to
}
