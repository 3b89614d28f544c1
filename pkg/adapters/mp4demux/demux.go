// Package mp4demux reads ISO-BMFF files (progressive or fragmented MP4) as a
// ports.Container using mp4ff.
package mp4demux

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/framegrab/pkg/bitstream"
	"github.com/user/framegrab/pkg/ports"
)

// ErrNoMovie is returned for files without a moov box.
var ErrNoMovie = errors.New("mp4demux: no moov box found")

// Opener opens MP4 files through a ports.FileSystem.
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

// Container is an opened MP4 file.
type Container struct {
	r      io.ReadSeekCloser
	file   *mp4.File
	size   int64
	tracks []*track

	streams []ports.Stream
	queue   []sampleRef
	next    int
	indexed bool
}

type track struct {
	trak   *mp4.TrakBox
	trex   *mp4.TrexBox
	stream ports.Stream

	// paramSets holds the H.264 or HEVC parameter sets as Annex B. Samples
	// of tracks with a non-zero lengthSize are rewritten to Annex B.
	paramSets  []byte
	lengthSize int
}

// sampleRef locates one sample. Progressive samples are read lazily from
// offset, fragmented samples are already in memory.
type sampleRef struct {
	track  int
	offset uint64
	size   uint32
	data   []byte
	dts    int64
	pts    int64
	key    bool
}

// New parses the box structure of r.
func New(r io.ReadSeekCloser) (*Container, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("seek: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek: %w", err)
	}

	file, err := mp4.DecodeFile(r)
	if err != nil {
		return nil, fmt.Errorf("decode mp4: %w", err)
	}
	if moov(file) == nil {
		return nil, ErrNoMovie
	}
	return &Container{r: r, file: file, size: size}, nil
}

func moov(file *mp4.File) *mp4.MoovBox {
	if file.IsFragmented() && file.Init != nil {
		return file.Init.Moov
	}
	return file.Moov
}

// Info implements ports.Container.
func (c *Container) Info() ports.ContainerInfo {
	info := ports.ContainerInfo{FormatName: "ISO BMFF"}
	if c.file.Ftyp != nil {
		info.FormatName = fmt.Sprintf("ISO BMFF (%s)", c.file.Ftyp.MajorBrand())
	}
	if c.file.IsFragmented() {
		info.FormatName += ", fragmented"
	}
	if mvhd := moov(c.file).Mvhd; mvhd != nil && mvhd.Timescale > 0 {
		info.Duration = time.Duration(float64(mvhd.Duration) / float64(mvhd.Timescale) * float64(time.Second))
	}
	if secs := info.Duration.Seconds(); secs > 0 {
		info.BitRate = int64(float64(c.size*8) / secs)
	}
	return info
}

// FindStreamInfo implements ports.Container. Every trak becomes a stream,
// in moov order.
func (c *Container) FindStreamInfo() ([]ports.Stream, error) {
	if c.indexed {
		return c.streams, nil
	}

	m := moov(c.file)
	for i, trak := range m.Traks {
		if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil {
			return nil, fmt.Errorf("trak %d: incomplete media box", i)
		}
		t := &track{trak: trak, stream: describe(i, trak)}
		if sets, lengthSize, ok := parameterSets(trak); ok {
			t.paramSets = sets
			t.lengthSize = lengthSize
			t.stream.Extradata = sets
		}
		if m.Mvex != nil {
			for _, trex := range m.Mvex.Trexs {
				if trex.TrackID == trak.Tkhd.TrackID {
					t.trex = trex
				}
			}
		}
		if t.trex != nil && t.trex.DefaultSampleDuration > 0 && t.stream.FrameRate.Den == 0 && t.stream.MediaType() == ports.MediaTypeVideo {
			t.stream.FrameRate = reduce(int64(t.stream.TimeBase.Den), int64(t.trex.DefaultSampleDuration))
		}
		c.tracks = append(c.tracks, t)
		c.streams = append(c.streams, t.stream)
	}

	var err error
	if c.file.IsFragmented() {
		err = c.indexFragmented()
	} else {
		err = c.indexProgressive()
	}
	if err != nil {
		return nil, err
	}
	c.indexed = true
	return c.streams, nil
}

// ReadPacket implements ports.Container. Packets come out in file order.
func (c *Container) ReadPacket() (*ports.Packet, error) {
	if !c.indexed {
		if _, err := c.FindStreamInfo(); err != nil {
			return nil, err
		}
	}
	if c.next >= len(c.queue) {
		return nil, io.EOF
	}
	ref := c.queue[c.next]
	c.next++

	data := ref.data
	if data == nil {
		if _, err := c.r.Seek(int64(ref.offset), io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek to sample: %w", err)
		}
		data = make([]byte, ref.size)
		if _, err := io.ReadFull(c.r, data); err != nil {
			return nil, fmt.Errorf("read sample: %w", err)
		}
	}

	t := c.tracks[ref.track]
	if t.lengthSize > 0 {
		annexB, err := bitstream.LengthPrefixedToAnnexB(data, t.lengthSize)
		if err != nil {
			return nil, fmt.Errorf("convert sample: %w", err)
		}
		data = bitstream.PrependIfKey(t.paramSets, annexB, ref.key)
	}

	return &ports.Packet{
		StreamIndex: ref.track,
		Pts:         ref.pts,
		Dts:         ref.dts,
		KeyFrame:    ref.key,
		Data:        data,
	}, nil
}

// Close implements ports.Container.
func (c *Container) Close() error {
	return c.r.Close()
}

func (c *Container) indexProgressive() error {
	for ti, t := range c.tracks {
		stbl := t.trak.Mdia.Minf.Stbl
		if stbl.Stsz == nil {
			continue
		}

		sync := make(map[uint32]bool)
		if stbl.Stss != nil {
			for _, nr := range stbl.Stss.SampleNumber {
				sync[nr] = true
			}
		}

		for nr := uint32(1); nr <= stbl.Stsz.SampleNumber; nr++ {
			offset, err := sampleOffset(stbl, nr)
			if err != nil {
				return fmt.Errorf("track %d sample %d: %w", ti, nr, err)
			}
			var dts uint64
			if stbl.Stts != nil {
				dts, _ = stbl.Stts.GetDecodeTime(nr)
			}
			pts := int64(dts)
			if stbl.Ctts != nil {
				pts += int64(stbl.Ctts.GetCompositionTimeOffset(nr))
			}
			c.queue = append(c.queue, sampleRef{
				track:  ti,
				offset: offset,
				size:   stbl.Stsz.GetSampleSize(int(nr)),
				dts:    int64(dts),
				pts:    pts,
				key:    stbl.Stss == nil || sync[nr],
			})
		}
	}
	sortByOffset(c.queue)
	return nil
}

// sortByOffset puts samples of all tracks into file order, which is the
// interleaving the muxer chose.
func sortByOffset(queue []sampleRef) {
	sort.SliceStable(queue, func(i, j int) bool {
		return queue[i].offset < queue[j].offset
	})
}

func (c *Container) indexFragmented() error {
	byID := make(map[uint32]int, len(c.tracks))
	for i, t := range c.tracks {
		byID[t.trak.Tkhd.TrackID] = i
	}

	for _, seg := range c.file.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil || frag.Mdat == nil {
				continue
			}
			var batch []sampleRef
			for _, traf := range frag.Moof.Trafs {
				ti, ok := byID[traf.Tfhd.TrackID]
				if !ok {
					continue
				}
				trex := c.tracks[ti].trex
				if trex == nil {
					trex = &mp4.TrexBox{TrackID: traf.Tfhd.TrackID}
				}

				samples, err := frag.GetFullSamples(trex)
				if err != nil {
					return fmt.Errorf("fragment %d track %d: get samples: %w", frag.Moof.Mfhd.SequenceNumber, traf.Tfhd.TrackID, err)
				}
				positions := samplePositions(traf)
				for i, s := range samples {
					ref := sampleRef{
						track: ti,
						data:  s.Data,
						dts:   int64(s.DecodeTime),
						pts:   int64(s.DecodeTime) + int64(s.CompositionTimeOffset),
						key:   mp4.IsSyncSampleFlags(s.Flags),
					}
					if i < len(positions) {
						ref.offset = positions[i]
					}
					batch = append(batch, ref)
				}
			}
			sortByOffset(batch)
			c.queue = append(c.queue, batch...)
		}
	}
	return nil
}

// samplePositions returns the moof-relative data offset of every sample in
// traf, in trun order. Trafs of one fragment share the mdat, so the offsets
// give the interleaving of their samples.
func samplePositions(traf *mp4.TrafBox) []uint64 {
	var positions []uint64
	var pos uint64
	for _, trun := range traf.Truns {
		if trun.HasDataOffset() && trun.DataOffset >= 0 {
			pos = uint64(trun.DataOffset)
		}
		for _, s := range trun.Samples {
			positions = append(positions, pos)
			pos += uint64(s.Size)
		}
	}
	return positions
}

// sampleOffset returns the file offset of sample nr.
func sampleOffset(stbl *mp4.StblBox, nr uint32) (uint64, error) {
	if stbl.Stsc == nil {
		return 0, fmt.Errorf("missing stsc box")
	}

	chunkNr, firstSampleInChunk, err := stbl.Stsc.ChunkNrFromSampleNr(int(nr))
	if err != nil {
		return 0, fmt.Errorf("get chunk nr: %w", err)
	}

	var offset uint64
	switch {
	case stbl.Stco != nil:
		offset, err = stbl.Stco.GetOffset(chunkNr)
		if err != nil {
			return 0, fmt.Errorf("get chunk offset: %w", err)
		}
	case stbl.Co64 != nil:
		if chunkNr < 1 || chunkNr > len(stbl.Co64.ChunkOffset) {
			return 0, fmt.Errorf("chunk nr %d out of range", chunkNr)
		}
		offset = stbl.Co64.ChunkOffset[chunkNr-1]
	default:
		return 0, fmt.Errorf("no stco or co64 box")
	}

	for s := uint32(firstSampleInChunk); s < nr; s++ {
		offset += uint64(stbl.Stsz.GetSampleSize(int(s)))
	}
	return offset, nil
}

var _ ports.Container = (*Container)(nil)
