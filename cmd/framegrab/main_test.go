package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/framegrab/pkg/pipeline"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, exitOK},
		{"usage", fmt.Errorf("%w: missing input", errUsage), exitUsage},
		{"open", fmt.Errorf("%w: in.mp4: %w", pipeline.ErrOpen, errors.New("no such file")), exitOpen},
		{"probe", pipeline.ErrProbe, exitProbe},
		{"no video", pipeline.ErrNoVideoStream, exitNoVideo},
		{"decoder init", pipeline.ErrDecoderInit, exitDecoderInit},
		{"submission", pipeline.ErrSubmission, exitSubmission},
		{"decode", pipeline.ErrDecode, exitDecode},
		{"io", pipeline.ErrIO, exitIO},
		{"other", errors.New("boom"), exitOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestRun_MissingArgument(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"framegrab"}, &stdout, &stderr)

	if code != exitUsage {
		t.Errorf("exit code = %d, want %d", code, exitUsage)
	}
	if !strings.Contains(stdout.String(), "framegrab [options] <input>") {
		t.Errorf("expected usage text, got %q", stdout.String())
	}
}

func TestRun_InvalidBudget(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"framegrab", "--budget", "0", "in.mp4"}, &stdout, &stderr)

	if code != exitUsage {
		t.Errorf("exit code = %d, want %d", code, exitUsage)
	}
}

func TestRun_UnknownFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"framegrab", "--no-such-flag", "in.mp4"}, &stdout, &stderr)

	if code != exitUsage {
		t.Errorf("exit code = %d, want %d", code, exitUsage)
	}
}

func TestRun_MissingInput(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "framegrab-cli-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	var stdout, stderr bytes.Buffer
	args := []string{"framegrab", "--quiet", "-o", tmpDir, filepath.Join(tmpDir, "missing.mp4")}

	if code := run(args, &stdout, &stderr); code != exitOpen {
		t.Errorf("exit code = %d, want %d", code, exitOpen)
	}
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer

	if code := run([]string{"framegrab", "--version"}, &stdout, &stderr); code != exitOK {
		t.Errorf("exit code = %d, want %d", code, exitOK)
	}
	if !strings.Contains(stdout.String(), version) {
		t.Errorf("expected version in output, got %q", stdout.String())
	}
}
