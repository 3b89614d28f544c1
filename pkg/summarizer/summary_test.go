package summarizer

import (
	"errors"
	"testing"
	"time"

	"github.com/user/framegrab/pkg/orchestrator"
	"github.com/user/framegrab/pkg/pipeline"
	"github.com/user/framegrab/pkg/ports"
)

func TestNewSummary(t *testing.T) {
	before := time.Now()
	summary := NewSummary()
	after := time.Now()

	if summary.GeneratedAt.Before(before) || summary.GeneratedAt.After(after) {
		t.Errorf("GeneratedAt should be between %v and %v, got %v",
			before, after, summary.GeneratedAt)
	}
}

func sampleRun() orchestrator.RunResult {
	return orchestrator.RunResult{
		State: pipeline.StateFinished,
		Container: ports.ContainerInfo{
			FormatName: "QuickTime / MOV",
			Duration:   10 * time.Second,
			BitRate:    2500000,
		},
		Streams: []ports.Stream{
			{Index: 0, Codec: "aac", Params: ports.AudioParams{Channels: 2, SampleRate: 48000}},
			{Index: 1, Codec: "h264", FrameRate: ports.Rational{Num: 30, Den: 1}, Params: ports.VideoParams{Width: 640, Height: 360}},
		},
		Selected:     1,
		DecoderName:  "h264",
		PacketsRead:  12,
		VideoPackets: 8,
		StopReason:   orchestrator.StopBudget,
		Frames: []pipeline.WrittenFrame{
			{Sequence: 1, Path: "out/frame-1.pgm", Width: 640, Height: 360, PixelFormat: "yuv420p", KeyFrame: true},
			{Sequence: 2, Path: "out/frame-2.pgm", Width: 640, Height: 360, PixelFormat: "yuv420p", Pts: 3000},
		},
	}
}

func TestBuilder_WithRun(t *testing.T) {
	summary := NewBuilder().WithRun("in.mp4", sampleRun()).Build()

	if summary.Input.Path != "in.mp4" || summary.Input.Format != "QuickTime / MOV" {
		t.Errorf("unexpected input %+v", summary.Input)
	}
	if summary.Input.Streams != 2 {
		t.Errorf("expected 2 streams, got %d", summary.Input.Streams)
	}
	if summary.Stream == nil {
		t.Fatal("expected selected stream")
	}
	if summary.Stream.Index != 1 || summary.Stream.Width != 640 || summary.Stream.FrameRate != "30/1" {
		t.Errorf("unexpected stream %+v", summary.Stream)
	}
	if summary.Result.VideoPackets != 8 || summary.Result.PacketsRead != 12 {
		t.Errorf("unexpected counts %+v", summary.Result)
	}
	if summary.Result.StopReason != "budget" {
		t.Errorf("expected stop reason budget, got %q", summary.Result.StopReason)
	}
	if len(summary.Result.Frames) != 2 || summary.Result.Frames[1].Path != "out/frame-2.pgm" {
		t.Errorf("unexpected frames %+v", summary.Result.Frames)
	}
}

func TestBuilder_WithRun_NoSelection(t *testing.T) {
	run := orchestrator.RunResult{Selected: -1}

	summary := NewBuilder().WithRun("in.mkv", run).Build()

	if summary.Stream != nil {
		t.Errorf("expected no stream, got %+v", summary.Stream)
	}
}

func TestBuilder_WithError(t *testing.T) {
	summary := NewBuilder().WithError(errors.New("boom")).Build()
	if summary.Result.Error != "boom" {
		t.Errorf("expected error 'boom', got %q", summary.Result.Error)
	}

	summary = NewBuilder().WithError(nil).Build()
	if summary.Result.Error != "" {
		t.Errorf("expected no error, got %q", summary.Result.Error)
	}
}

func TestBuilder_WithSettings(t *testing.T) {
	settings := Settings{PacketBudget: 8, OutputDir: "out", BaseName: "frame", Backend: "auto"}

	summary := NewBuilder().WithSettings(settings).Build()

	if summary.Settings != settings {
		t.Errorf("expected %+v, got %+v", settings, summary.Settings)
	}
}
