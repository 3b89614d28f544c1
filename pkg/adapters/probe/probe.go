// Package probe detects the container format of an input and opens it with
// the matching demuxer.
package probe

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/user/framegrab/pkg/adapters/libav"
	"github.com/user/framegrab/pkg/adapters/mkvdemux"
	"github.com/user/framegrab/pkg/adapters/mp4demux"
	"github.com/user/framegrab/pkg/ports"
)

// Format is a detected container format.
type Format string

const (
	FormatMP4      Format = "mp4"
	FormatMatroska Format = "matroska"
	FormatUnknown  Format = "unknown"
)

// Backends selectable by name. BackendAuto sniffs the input.
const (
	BackendAuto  = "auto"
	BackendLibav = "libav"
	BackendMP4   = "mp4"
	BackendMKV   = "mkv"
)

// ErrUnknownBackend is returned for a backend name Open does not know.
var ErrUnknownBackend = errors.New("unknown container backend")

var ebmlMagic = []byte{0x1a, 0x45, 0xdf, 0xa3}

var isoBoxTypes = []string{"ftyp", "moov", "styp", "mdat", "free", "wide"}

// DetectFromBytes detects the container format from the first bytes of a file.
func DetectFromBytes(head []byte) Format {
	if bytes.HasPrefix(head, ebmlMagic) {
		return FormatMatroska
	}
	if len(head) >= 8 {
		boxType := string(head[4:8])
		for _, t := range isoBoxTypes {
			if boxType == t {
				return FormatMP4
			}
		}
	}
	return FormatUnknown
}

// DetectFromReader detects the container format and rewinds the reader.
func DetectFromReader(r io.ReadSeeker) (Format, error) {
	head := make([]byte, 12)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return FormatUnknown, fmt.Errorf("read header: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return FormatUnknown, fmt.Errorf("seek: %w", err)
	}
	return DetectFromBytes(head[:n]), nil
}

// Opener implements ports.ContainerOpener by dispatching to a demuxer.
type Opener struct {
	fs      ports.FileSystem
	backend string
	logger  ports.Logger

	libav ports.ContainerOpener
	mp4   ports.ContainerOpener
	mkv   ports.ContainerOpener
}

// NewOpener creates an Opener for the named backend.
func NewOpener(fs ports.FileSystem, backend string, logger ports.Logger) *Opener {
	return &Opener{
		fs:      fs,
		backend: backend,
		logger:  logger.WithComponent("probe"),
		libav:   libav.NewOpener(),
		mp4:     mp4demux.NewOpener(fs),
		mkv:     mkvdemux.NewOpener(fs),
	}
}

// Open implements ports.ContainerOpener.
func (o *Opener) Open(path string) (ports.Container, error) {
	backend, err := o.resolve(path)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("Container backend %s for %s", backend, path)

	switch backend {
	case BackendMP4:
		return o.mp4.Open(path)
	case BackendMKV:
		return o.mkv.Open(path)
	default:
		return o.libav.Open(path)
	}
}

func (o *Opener) resolve(path string) (string, error) {
	switch o.backend {
	case BackendLibav, BackendMP4, BackendMKV:
		return o.backend, nil
	case BackendAuto, "":
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, o.backend)
	}

	f, err := o.fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	format, err := DetectFromReader(f)
	if err != nil {
		return "", err
	}
	switch format {
	case FormatMP4:
		return BackendMP4, nil
	case FormatMatroska:
		return BackendMKV, nil
	default:
		return BackendLibav, nil
	}
}

var _ ports.ContainerOpener = (*Opener)(nil)
