// Package decode implements the packet decoding stage: one packet in, every
// frame the decoder has ready written out as PGM.
package decode

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/framegrab/pkg/pipeline"
	"github.com/user/framegrab/pkg/ports"
)

// Stage submits a packet to a decoder and drains it.
type Stage struct {
	writer ports.FrameWriter
	logger ports.Logger
}

// NewStage creates a new decode stage.
func NewStage(writer ports.FrameWriter, logger ports.Logger) *Stage {
	return &Stage{
		writer: writer,
		logger: logger.WithComponent("decode"),
	}
}

// Execute sends input.Packet and writes each ready frame with consecutive
// sequence numbers starting at input.NextSequence. Frames written before a
// failure are still reported in the result.
func (s *Stage) Execute(ctx context.Context, input pipeline.DecodeInput) (pipeline.DecodeResult, error) {
	result := pipeline.DecodeResult{}

	if err := input.Decoder.SendPacket(input.Packet); err != nil {
		return result, fmt.Errorf("%w: pts %d: %w", pipeline.ErrSubmission, input.Packet.Pts, err)
	}

	seq := input.NextSequence
	for {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		frame, err := input.Decoder.ReceiveFrame()
		if errors.Is(err, ports.ErrWouldBlock) || errors.Is(err, ports.ErrEndOfStream) {
			return result, nil
		}
		if err != nil {
			return result, fmt.Errorf("%w: %w", pipeline.ErrDecode, err)
		}

		s.logger.Info("Frame %d (type=%c, size=%d bytes, format=%s) pts %d key frame %d [DTS %d]",
			seq, pictureType(frame), len(input.Packet.Data), frame.PixelFormat,
			frame.Pts, boolInt(frame.KeyFrame), frame.Dts)

		if frame.PixelFormat != ports.PixelFormatYUV420P {
			s.logger.Warn("Frame format is %s, not yuv420p: the image may not be true grayscale", frame.PixelFormat)
		}

		path := input.Namer.Path(seq)
		if err := s.writer.WriteFrame(path, frame); err != nil {
			return result, fmt.Errorf("%w: %s: %w", pipeline.ErrIO, path, err)
		}
		s.logger.Debug("Wrote %s", path)

		result.Written = append(result.Written, pipeline.WrittenFrame{
			Sequence:    seq,
			Path:        path,
			Width:       frame.Width,
			Height:      frame.Height,
			PixelFormat: frame.PixelFormat,
			Pts:         frame.Pts,
			KeyFrame:    frame.KeyFrame,
		})
		seq++
	}
}

func pictureType(f *ports.Frame) byte {
	if f.PictureType == 0 {
		return '?'
	}
	return f.PictureType
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ pipeline.Stage[pipeline.DecodeInput, pipeline.DecodeResult] = (*Stage)(nil)
