package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// MarkdownFormatter renders a Summary as Markdown.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the function used to translate labels.
func WithTranslator(t func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = t
	}
}

// WithVersion adds the program version to the footer.
func WithVersion(v string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = v
	}
}

// NewMarkdownFormatter creates a MarkdownFormatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{translate: func(s string) string { return s }}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Extraction Summary"))

	fmt.Fprintf(&b, "## %s\n\n", t("Input"))
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	fmt.Fprintf(&b, "| %s | %s |\n", t("Path"), s.Input.Path)
	fmt.Fprintf(&b, "| %s | %s |\n", t("Format"), orNA(s.Input.Format, t))
	fmt.Fprintf(&b, "| %s | %s |\n", t("Duration"), formatDuration(s.Input.Duration, t))
	fmt.Fprintf(&b, "| %s | %s |\n", t("Bit Rate"), formatBitRate(s.Input.BitRate, t))
	fmt.Fprintf(&b, "| %s | %d |\n\n", t("Streams"), s.Input.Streams)

	fmt.Fprintf(&b, "## %s\n\n", t("Video Stream"))
	if s.Stream == nil {
		fmt.Fprintf(&b, "%s\n\n", t("No video stream was selected."))
	} else {
		fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
		fmt.Fprintf(&b, "| %s | %d |\n", t("Index"), s.Stream.Index)
		fmt.Fprintf(&b, "| %s | %s |\n", t("Codec"), s.Stream.Codec)
		fmt.Fprintf(&b, "| %s | %s |\n", t("Decoder"), s.Stream.Decoder)
		fmt.Fprintf(&b, "| %s | %dx%d |\n", t("Resolution"), s.Stream.Width, s.Stream.Height)
		fmt.Fprintf(&b, "| %s | %s |\n\n", t("Frame Rate"), orNA(s.Stream.FrameRate, t))
	}

	fmt.Fprintf(&b, "## %s\n\n", t("Settings"))
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	fmt.Fprintf(&b, "| %s | %d |\n", t("Packet Budget"), s.Settings.PacketBudget)
	fmt.Fprintf(&b, "| %s | %s |\n", t("Output Directory"), s.Settings.OutputDir)
	fmt.Fprintf(&b, "| %s | %s |\n", t("Base Name"), s.Settings.BaseName)
	fmt.Fprintf(&b, "| %s | %s |\n\n", t("Backend"), s.Settings.Backend)

	fmt.Fprintf(&b, "## %s\n\n", t("Result"))
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	fmt.Fprintf(&b, "| %s | %d |\n", t("Packets Read"), s.Result.PacketsRead)
	fmt.Fprintf(&b, "| %s | %d |\n", t("Video Packets"), s.Result.VideoPackets)
	fmt.Fprintf(&b, "| %s | %d |\n", t("Frames Written"), len(s.Result.Frames))
	fmt.Fprintf(&b, "| %s | %s |\n", t("Stopped By"), orNA(s.Result.StopReason, t))
	if s.Result.Error != "" {
		fmt.Fprintf(&b, "| %s | %s |\n", t("Error"), s.Result.Error)
	}
	b.WriteString("\n")

	if len(s.Result.Frames) > 0 {
		fmt.Fprintf(&b, "## %s\n\n", t("Frames"))
		fmt.Fprintf(&b, "| # | %s | %s | %s | PTS | %s |\n|---|---|---|---|---|---|\n",
			t("File"), t("Size"), t("Format"), t("Key Frame"))
		for _, fr := range s.Result.Frames {
			key := ""
			if fr.KeyFrame {
				key = "✓"
			}
			fmt.Fprintf(&b, "| %d | %s | %dx%d | %s | %d | %s |\n",
				fr.Sequence, fr.Path, fr.Width, fr.Height, fr.PixelFormat, fr.Pts, key)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n")
	footer := fmt.Sprintf(t("Generated at %s"), s.GeneratedAt.Format(time.RFC3339))
	if f.version != "" {
		footer += fmt.Sprintf(" (framegrab %s)", f.version)
	}
	b.WriteString(footer + "\n")

	return b.String()
}

func orNA(s string, t func(string) string) string {
	if s == "" {
		return t("N/A")
	}
	return s
}

func formatDuration(d time.Duration, t func(string) string) string {
	if d <= 0 {
		return t("N/A")
	}
	return d.Round(time.Millisecond).String()
}

func formatBitRate(bps int64, t func(string) string) string {
	switch {
	case bps <= 0:
		return t("N/A")
	case bps >= 1000000:
		return fmt.Sprintf("%.2f Mbps", float64(bps)/1000000)
	case bps >= 1000:
		return fmt.Sprintf("%.2f kbps", float64(bps)/1000)
	default:
		return fmt.Sprintf("%d bps", bps)
	}
}
