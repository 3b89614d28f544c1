// Package mkvdemux reads Matroska and WebM files as a ports.Container using
// dwbuiten/matroska.
package mkvdemux

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dwbuiten/matroska"

	"github.com/user/framegrab/pkg/bitstream"
	"github.com/user/framegrab/pkg/ports"
)

// Matroska track types and block flags as reported by the parser.
const (
	trackTypeVideo    = 1
	trackTypeAudio    = 2
	trackTypeSubtitle = 17

	frameKeyFlag = 0x00000004
)

// Opener opens Matroska files through a ports.FileSystem.
type Opener struct {
	fs ports.FileSystem
}

// NewOpener creates an Opener.
func NewOpener(fs ports.FileSystem) *Opener {
	return &Opener{fs: fs}
}

// Open implements ports.ContainerOpener.
func (o *Opener) Open(path string) (ports.Container, error) {
	f, err := o.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	c, err := New(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return c, nil
}

// blockReader yields the blocks of all tracks in file order.
type blockReader interface {
	ReadPacket() (*matroska.Packet, error)
}

// Container is an opened Matroska file.
type Container struct {
	r       io.ReadSeekCloser
	demuxer *matroska.Demuxer
	blocks  blockReader
	tracks  []trackState
	streams []ports.Stream
	indexed bool
}

// trackState holds what ReadPacket needs to rewrite a track's blocks.
type trackState struct {
	codec      string
	lengthSize int
	paramSets  []byte
}

// New starts a Matroska demuxer on r.
func New(r io.ReadSeekCloser) (*Container, error) {
	d, err := matroska.NewDemuxer(r)
	if err != nil {
		return nil, fmt.Errorf("parse matroska: %w", err)
	}
	return &Container{r: r, demuxer: d, blocks: d}, nil
}

// Info implements ports.Container.
func (c *Container) Info() ports.ContainerInfo {
	info := ports.ContainerInfo{FormatName: "Matroska / WebM"}
	seg, err := c.demuxer.GetFileInfo()
	if err != nil {
		return info
	}
	info.Duration = time.Duration(seg.Duration)
	if seg.MuxingApp != "" {
		info.FormatName = fmt.Sprintf("Matroska / WebM (%s)", seg.MuxingApp)
	}
	if size, err := c.r.Seek(0, io.SeekEnd); err == nil && info.Duration > 0 {
		info.BitRate = int64(float64(size*8) / info.Duration.Seconds())
	}
	return info
}

// FindStreamInfo implements ports.Container. Streams are numbered by track
// position, which is also what packets carry.
func (c *Container) FindStreamInfo() ([]ports.Stream, error) {
	if c.indexed {
		return c.streams, nil
	}

	n, err := c.demuxer.GetNumTracks()
	if err != nil {
		return nil, fmt.Errorf("count tracks: %w", err)
	}
	for i := uint(0); i < n; i++ {
		ti, err := c.demuxer.GetTrackInfo(i)
		if err != nil {
			return nil, fmt.Errorf("track %d: %w", i, err)
		}
		stream, state, err := describeTrack(int(i), ti)
		if err != nil {
			return nil, fmt.Errorf("track %d: %w", i, err)
		}
		c.streams = append(c.streams, stream)
		c.tracks = append(c.tracks, state)
	}
	c.indexed = true
	return c.streams, nil
}

// ReadPacket implements ports.Container.
func (c *Container) ReadPacket() (*ports.Packet, error) {
	if !c.indexed {
		if _, err := c.FindStreamInfo(); err != nil {
			return nil, err
		}
	}

	p, err := c.blocks.ReadPacket()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("read block: %w", err)
	}

	idx := int(p.Track)
	pkt := &ports.Packet{
		StreamIndex: idx,
		Pts:         int64(p.StartTime),
		Dts:         int64(p.StartTime),
		KeyFrame:    p.Flags&frameKeyFlag != 0,
		Data:        p.Data,
	}
	// H.264 without an avcC record is already start-code framed.
	if idx < len(c.tracks) && c.tracks[idx].codec == "h264" && c.tracks[idx].lengthSize > 0 {
		t := c.tracks[idx]
		pkt.KeyFrame = pkt.KeyFrame || bitstream.ContainsIDR(p.Data, t.lengthSize)
		annexB, err := bitstream.LengthPrefixedToAnnexB(p.Data, t.lengthSize)
		if err != nil {
			return nil, fmt.Errorf("convert block: %w", err)
		}
		pkt.Data = bitstream.PrependIfKey(t.paramSets, annexB, pkt.KeyFrame)
	}
	return pkt, nil
}

// Close implements ports.Container.
func (c *Container) Close() error {
	c.demuxer.Close()
	return c.r.Close()
}

var _ ports.Container = (*Container)(nil)
