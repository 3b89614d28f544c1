package mp4demux

import (
	"github.com/Eyevinn/mp4ff/bits"
	"github.com/Eyevinn/mp4ff/hevc"
	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/framegrab/pkg/bitstream"
	"github.com/user/framegrab/pkg/ports"
)

// sampleEntryCodecs maps sample entry four-character codes to codec ids.
var sampleEntryCodecs = map[string]string{
	"avc1": "h264",
	"avc3": "h264",
	"hvc1": "hevc",
	"hev1": "hevc",
	"av01": "av1",
	"vp08": "vp8",
	"vp09": "vp9",
	"mp4v": "mpeg4",
	"mp4a": "aac",
	"Opus": "opus",
	"ac-3": "ac3",
	"ec-3": "eac3",
	"fLaC": "flac",
	"wvtt": "webvtt",
	"stpp": "ttml",
}

// describe builds the stream descriptor of trak at position index.
func describe(index int, trak *mp4.TrakBox) ports.Stream {
	s := ports.Stream{Index: index}

	var timescale uint32
	if mdhd := trak.Mdia.Mdhd; mdhd != nil {
		timescale = mdhd.Timescale
		s.TimeBase = ports.Rational{Num: 1, Den: int(mdhd.Timescale)}
		s.Duration = int64(mdhd.Duration)
	}

	stbl := trak.Mdia.Minf.Stbl
	var entry mp4.Box
	if stbl.Stsd != nil && len(stbl.Stsd.Children) > 0 {
		entry = stbl.Stsd.Children[0]
		s.Codec = entry.Type()
		if id, ok := sampleEntryCodecs[entry.Type()]; ok {
			s.Codec = id
		}
	}

	switch trak.Mdia.Hdlr.HandlerType {
	case "vide":
		params := ports.VideoParams{
			Width:  int(trak.Tkhd.Width >> 16),
			Height: int(trak.Tkhd.Height >> 16),
		}
		if vse := visualEntry(entry); vse != nil {
			params.Width = int(vse.Width)
			params.Height = int(vse.Height)
			if vse.Av1C != nil {
				s.Extradata = vse.Av1C.ConfigOBUs
			}
			for _, child := range vse.Children {
				if esds, ok := child.(*mp4.EsdsBox); ok {
					s.Extradata = decoderSpecificInfo(esds)
				}
			}
		}
		s.Params = params
		if stbl.Stsz != nil && s.Duration > 0 {
			s.FrameRate = reduce(int64(stbl.Stsz.SampleNumber)*int64(timescale), s.Duration)
		}
	case "soun":
		params := ports.AudioParams{}
		if ase, ok := entry.(*mp4.AudioSampleEntryBox); ok {
			params.Channels = int(ase.ChannelCount)
			params.SampleRate = int(ase.SampleRate)
			if ase.Esds != nil {
				s.Extradata = decoderSpecificInfo(ase.Esds)
			}
		}
		s.Params = params
	default:
		s.Params = ports.OtherParams{Kind: trak.Mdia.Hdlr.HandlerType}
	}
	return s
}

// parameterSets returns the parameter sets of an H.264 or HEVC trak as
// Annex B, with the NAL length size its samples use. ok is false for other
// codecs.
func parameterSets(trak *mp4.TrakBox) (sets []byte, lengthSize int, ok bool) {
	stsd := trak.Mdia.Minf.Stbl.Stsd
	if stsd == nil {
		return nil, 0, false
	}
	for _, child := range stsd.Children {
		vse := visualEntry(child)
		if vse == nil {
			continue
		}
		switch {
		case vse.AvcC != nil:
			return bitstream.ParameterSetsToAnnexB(vse.AvcC.SPSnalus, vse.AvcC.PPSnalus), 4, true
		case vse.HvcC != nil:
			return bitstream.ParameterSetsToAnnexB(
				vse.HvcC.GetNalusForType(hevc.NALU_VPS),
				vse.HvcC.GetNalusForType(hevc.NALU_SPS),
				vse.HvcC.GetNalusForType(hevc.NALU_PPS),
			), int(vse.HvcC.LengthSizeMinusOne) + 1, true
		}
	}
	return nil, 0, false
}

// visualEntry returns entry as a visual sample entry. Entries mp4ff keeps
// undecoded, such as mp4v, are decoded from their raw payload.
func visualEntry(entry mp4.Box) *mp4.VisualSampleEntryBox {
	switch e := entry.(type) {
	case *mp4.VisualSampleEntryBox:
		return e
	case *mp4.UnknownBox:
		if e.Type() != "mp4v" {
			return nil
		}
		payload := e.Payload()
		hdr := mp4.BoxHeader{Name: e.Type(), Size: e.Size(), Hdrlen: int(e.Size()) - len(payload)}
		box, err := mp4.DecodeVisualSampleEntrySR(hdr, 0, bits.NewFixedSliceReader(payload))
		if err != nil {
			return nil
		}
		vse, _ := box.(*mp4.VisualSampleEntryBox)
		return vse
	}
	return nil
}

// decoderSpecificInfo returns the codec configuration carried in an esds box.
func decoderSpecificInfo(esds *mp4.EsdsBox) []byte {
	dcd := esds.DecConfigDescriptor
	if dcd == nil || dcd.DecSpecificInfo == nil {
		return nil
	}
	return dcd.DecSpecificInfo.DecConfig
}

func reduce(num, den int64) ports.Rational {
	a, b := num, den
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return ports.Rational{}
	}
	return ports.Rational{Num: int(num / a), Den: int(den / a)}
}
